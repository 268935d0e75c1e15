package telnet

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wanderer/internal/config"
)

// SessionHandler runs the command loop for one connected client.
type SessionHandler interface {
	HandleSession(ctx context.Context, conn *Conn) error
}

// SessionHandlerFunc adapts a function into a SessionHandler.
type SessionHandlerFunc func(ctx context.Context, conn *Conn) error

// HandleSession calls f.
func (f SessionHandlerFunc) HandleSession(ctx context.Context, conn *Conn) error {
	return f(ctx, conn)
}

// Acceptor listens for Telnet connections on a TCP port and hands each
// connection to a SessionHandler on its own goroutine.
type Acceptor struct {
	cfg     config.TelnetConfig
	handler SessionHandler
	logger  *zap.Logger

	mu       sync.Mutex
	listener net.Listener
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	active   atomic.Int64
}

// NewAcceptor creates a Telnet acceptor with the given configuration.
//
// Precondition: handler and logger must be non-nil.
// Postcondition: Returns an Acceptor ready to be started with ListenAndServe.
func NewAcceptor(cfg config.TelnetConfig, handler SessionHandler, logger *zap.Logger) *Acceptor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Acceptor{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// ListenAndServe binds the listener and accepts connections until Stop is called.
//
// Precondition: The acceptor must not already be running.
// Postcondition: Returns nil after Stop, or the listen error.
func (a *Acceptor) ListenAndServe() error {
	listener, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.Addr(), err)
	}
	return a.Serve(listener)
}

// Serve accepts connections on listener until Stop is called.
func (a *Acceptor) Serve(listener net.Listener) error {
	a.mu.Lock()
	if a.ctx.Err() != nil {
		a.mu.Unlock()
		listener.Close()
		return nil
	}
	a.listener = listener
	a.mu.Unlock()

	a.logger.Info("telnet acceptor listening", zap.String("addr", listener.Addr().String()))

	for {
		raw, err := listener.Accept()
		if err != nil {
			if a.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			a.logger.Error("accepting connection", zap.Error(err))
			continue
		}
		if !a.track() {
			_ = raw.Close()
			return nil
		}
		go a.serveConn(raw)
	}
}

// track registers one session goroutine with the WaitGroup Stop waits on.
//
// Postcondition: Returns false without registering once Stop has begun.
func (a *Acceptor) track() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ctx.Err() != nil {
		return false
	}
	a.wg.Add(1)
	return true
}

func (a *Acceptor) serveConn(raw net.Conn) {
	defer a.wg.Done()
	a.active.Add(1)
	defer a.active.Add(-1)

	start := time.Now()
	remote := raw.RemoteAddr().String()
	conn := NewConn(raw, a.cfg.ReadTimeout, a.cfg.WriteTimeout)
	defer conn.Close()

	if err := conn.Negotiate(); err != nil {
		a.logger.Warn("telnet negotiation failed", zap.String("remote", remote), zap.Error(err))
		return
	}

	// Closing the socket on shutdown unblocks a handler parked in ReadLine.
	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	err := a.handler.HandleSession(ctx, conn)
	fields := []zap.Field{zap.String("remote", remote), zap.Duration("duration", time.Since(start))}
	if err != nil {
		a.logger.Debug("session ended", append(fields, zap.Error(err))...)
		return
	}
	a.logger.Info("session ended cleanly", fields...)
}

// Stop closes the listener, cancels every session context, and waits for the
// session goroutines to return. Calling Stop more than once is safe.
func (a *Acceptor) Stop() {
	a.mu.Lock()
	if a.ctx.Err() != nil {
		a.mu.Unlock()
		return
	}
	a.cancel()
	if a.listener != nil {
		_ = a.listener.Close()
	}
	a.mu.Unlock()

	a.wg.Wait()
	a.logger.Info("telnet acceptor stopped")
}

// Addr returns the actual listening address, or empty string if not yet listening.
func (a *Acceptor) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener != nil {
		return a.listener.Addr().String()
	}
	return ""
}

// Active returns the number of connected sessions.
func (a *Acceptor) Active() int {
	return int(a.active.Load())
}
