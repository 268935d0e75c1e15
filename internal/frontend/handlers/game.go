// Package handlers runs the text game over Telnet connections.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wanderer/internal/frontend/telnet"
	"github.com/cory-johannsen/wanderer/internal/game/command"
	"github.com/cory-johannsen/wanderer/internal/game/engine"
	"github.com/cory-johannsen/wanderer/internal/game/session"
	"github.com/cory-johannsen/wanderer/internal/game/world"
	"github.com/cory-johannsen/wanderer/internal/observability"
)

// WorldSource yields the world a newly connected traveler plays in.
type WorldSource interface {
	World() (*world.World, error)
}

// SharedWorld hands every session the same world.
type SharedWorld struct {
	w *world.World
}

// NewSharedWorld wraps w.
//
// Precondition: w must be non-nil.
func NewSharedWorld(w *world.World) *SharedWorld {
	return &SharedWorld{w: w}
}

// World returns the shared world.
func (s *SharedWorld) World() (*world.World, error) {
	return s.w, nil
}

// FileWorlds loads a fresh copy of a world file for every session.
type FileWorlds struct {
	Path string
	// Metrics may be nil.
	Metrics *observability.Metrics
}

// World loads the world file.
//
// Postcondition: Returns a world no other session shares, or the load error.
func (f *FileWorlds) World() (*world.World, error) {
	w, err := world.LoadWorldFromFile(f.Path)
	if f.Metrics != nil {
		f.Metrics.ObserveWorldLoad(err)
	}
	return w, err
}

// GameHandler runs one traveler per Telnet connection: it reads command lines,
// executes them against the traveler's engine, and writes the rendered outcome.
type GameHandler struct {
	worlds   WorldSource
	registry *command.Registry
	sessions *session.Manager
	capacity int
	width    int
	metrics  *observability.Metrics
	logger   *zap.Logger
	options  []engine.Option
}

// HandlerOption configures a GameHandler.
type HandlerOption func(*GameHandler)

// WithMetrics records commands and session counts in m.
func WithMetrics(m *observability.Metrics) HandlerOption {
	return func(h *GameHandler) { h.metrics = m }
}

// WithCapacity sets the inventory limit of new sessions; zero means unlimited.
func WithCapacity(n int) HandlerOption {
	return func(h *GameHandler) { h.capacity = n }
}

// WithWidth sets the wrap column used when the client does not report its width.
func WithWidth(n int) HandlerOption {
	return func(h *GameHandler) { h.width = n }
}

// WithEngineOptions passes extra options to every session's engine.
func WithEngineOptions(opts ...engine.Option) HandlerOption {
	return func(h *GameHandler) { h.options = append(h.options, opts...) }
}

// NewGameHandler creates a GameHandler.
//
// Precondition: worlds, registry, sessions and logger must be non-nil.
func NewGameHandler(worlds WorldSource, registry *command.Registry, sessions *session.Manager, logger *zap.Logger, opts ...HandlerOption) *GameHandler {
	h := &GameHandler{
		worlds:   worlds,
		registry: registry,
		sessions: sessions,
		width:    78,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleSession plays the game on conn until the traveler quits, the client
// disconnects, or ctx is cancelled.
//
// Postcondition: Returns nil on quit, disconnect or cancellation; otherwise a wrapped error.
func (h *GameHandler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	w, err := h.worlds.World()
	if err != nil {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "The world could not be loaded. Please try again later."))
		return fmt.Errorf("loading world: %w", err)
	}

	sess := session.New(w.Start(), h.capacity)
	if err := h.sessions.Add(sess); err != nil {
		return fmt.Errorf("registering session: %w", err)
	}
	defer func() { _ = h.sessions.Remove(sess.ID) }()
	if h.metrics != nil {
		h.metrics.SessionsActive.Inc()
		defer h.metrics.SessionsActive.Dec()
	}

	logger := observability.SessionLogger(h.logger, sess.ID, remoteString(conn))
	logger.Info("session started", zap.String("room", string(sess.Room)))

	eng := engine.New(w, sess, append([]engine.Option{engine.WithLogger(logger)}, h.options...)...)
	var obs command.Observer
	if h.metrics != nil {
		obs = h.metrics
	}
	disp := command.NewDispatcher(h.registry, eng, obs)

	render := h.renderer(conn)
	snap, err := eng.Look()
	if err != nil {
		return fmt.Errorf("describing start room: %w", err)
	}
	welcome := telnet.Colorize(telnet.BrightWhite, "Welcome, wanderer. Type help for a list of commands.")
	if err := conn.Write([]byte(welcome + "\r\n" + render.Room(snap))); err != nil {
		return fmt.Errorf("writing welcome: %w", err)
	}

	err = h.commandLoop(ctx, conn, disp, logger)
	logger.Info("session ended", zap.String("room", string(sess.Room)), zap.Int("carried", len(sess.Items())))
	return err
}

// commandLoop reads and executes lines until quit or disconnect.
func (h *GameHandler) commandLoop(ctx context.Context, conn *telnet.Conn, disp *command.Dispatcher, logger *zap.Logger) error {
	sess := disp.Engine().Session()
	for {
		if err := conn.WritePrompt(prompt); err != nil {
			return disconnected(ctx, err)
		}

		line, err := conn.ReadLine()
		if err != nil {
			return disconnected(ctx, err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// The client may have resized while we waited.
		render := h.renderer(conn)

		from := sess.Room
		res, err := disp.Execute(line)
		var out string
		if err != nil {
			logger.Debug("command refused", zap.String("line", line), zap.Error(err))
			out = render.Error(command.Narrate(err))
		} else {
			if sess.Room != from {
				if err := h.sessions.Relocate(sess.ID, from); err != nil {
					logger.Warn("relocating session", zap.Error(err))
				}
			}
			out = render.Result(res)
		}

		if out != "" {
			if err := conn.Write([]byte(out)); err != nil {
				return disconnected(ctx, err)
			}
		}
		if res.Quit {
			return nil
		}
	}
}

// renderer honors the client's reported width, falling back to the configured one.
func (h *GameHandler) renderer(conn *telnet.Conn) *Renderer {
	if width := conn.Width(); width > 0 {
		return NewRenderer(width - 2)
	}
	return NewRenderer(h.width)
}

// disconnected maps the errors that end a session normally to nil.
func disconnected(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return nil
	}
	return fmt.Errorf("session i/o: %w", err)
}

func remoteString(conn *telnet.Conn) string {
	if addr := conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
