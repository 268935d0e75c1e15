package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/wanderer/internal/frontend/telnet"
	"github.com/cory-johannsen/wanderer/internal/game/command"
	"github.com/cory-johannsen/wanderer/internal/game/engine"
	"github.com/cory-johannsen/wanderer/internal/game/session"
	"github.com/cory-johannsen/wanderer/internal/game/world"
	"github.com/cory-johannsen/wanderer/internal/observability"
	"github.com/cory-johannsen/wanderer/internal/testutil"
)

const cavesPath = "../../../content/worlds/caves.yaml"

type fixture struct {
	sessions *session.Manager
	metrics  *observability.Metrics
	addr     string
}

func startGame(t *testing.T, worlds WorldSource, opts ...HandlerOption) *fixture {
	t.Helper()
	f := &fixture{
		sessions: session.NewManager(),
		metrics:  observability.NewMetrics(prometheus.NewRegistry()),
	}
	opts = append([]HandlerOption{WithMetrics(f.metrics)}, opts...)
	h := NewGameHandler(worlds, command.DefaultRegistry(), f.sessions, zaptest.NewLogger(t), opts...)
	f.addr = testutil.StartAcceptor(t, h)
	return f
}

func join(t *testing.T, addr string) *testutil.TelnetClient {
	t.Helper()
	c := testutil.NewTelnetClient(t, addr)
	welcome := c.ReadPrompt()
	require.Contains(t, welcome, "Welcome, wanderer.")
	require.Contains(t, welcome, "Circle Room")
	return c
}

func TestGame_Walkthrough(t *testing.T) {
	f := startGame(t, &FileWorlds{Path: cavesPath})
	c := join(t, f.addr)

	out := c.Command("n")
	assert.Contains(t, out, "Small Cave")
	assert.Contains(t, out, "Also here: Hermit")
	assert.Len(t, f.sessions.InRoom("Small Cave"), 1)
	assert.Empty(t, f.sessions.InRoom("Circle Room"))

	assert.Contains(t, c.Command("take sword"), "Taken.")
	assert.Contains(t, c.Command("wield sword"), "You ready the sword.")
	assert.Contains(t, c.Command("inventory"), "sword [weapon] (equipped)")

	out = c.Command("attack hermit")
	assert.Contains(t, out, "for 4 damage")
	assert.Contains(t, out, "(Hermit: 8 hp)")

	assert.Contains(t, c.Command("s"), "Circle Room")
	assert.Contains(t, c.Command("door"), "The way is closed.")
	assert.Contains(t, c.Command("open door"), "Opened.")
	assert.Contains(t, c.Command("door"), "Closet")

	c.Send("quit")
	c.ReadUntil("Farewell.", 5*time.Second)
	require.Eventually(t, func() bool { return f.sessions.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestGame_Refusals(t *testing.T) {
	f := startGame(t, &FileWorlds{Path: cavesPath})
	c := join(t, f.addr)

	assert.Contains(t, c.Command("xyzzy"), "You cannot go that way.")
	assert.Contains(t, c.Command("dance wildly"), "I don't understand that.")
	assert.Contains(t, c.Command("take coin from chest"), "The chest is closed.")
	assert.Contains(t, c.Command("take"), "Usage: take")

	refused := func(handler string) float64 {
		return promtest.ToFloat64(f.metrics.Commands.WithLabelValues(handler, observability.OutcomeRefused))
	}
	assert.Equal(t, 2.0, refused(command.HandlerMove))
	assert.Equal(t, 2.0, refused(command.HandlerTake))
}

func TestGame_PrivateWorlds(t *testing.T) {
	f := startGame(t, &FileWorlds{Path: cavesPath})
	alice := join(t, f.addr)
	bob := join(t, f.addr)

	assert.Contains(t, alice.Command("take torch"), "Taken.")
	assert.Contains(t, bob.Command("look"), "torch")
	assert.Equal(t, 2.0, promtest.ToFloat64(f.metrics.SessionsActive))
}

func TestGame_SharedWorld(t *testing.T) {
	w, err := world.LoadWorldFromFile(cavesPath)
	require.NoError(t, err)
	f := startGame(t, NewSharedWorld(w))
	alice := join(t, f.addr)
	bob := join(t, f.addr)

	assert.Contains(t, alice.Command("take torch"), "Taken.")
	assert.NotContains(t, bob.Command("look"), "torch")
	assert.Contains(t, bob.Command("take torch"), "There is no")
	assert.Len(t, f.sessions.InRoom("Circle Room"), 2)
}

func TestGame_Capacity(t *testing.T) {
	f := startGame(t, &FileWorlds{Path: cavesPath}, WithCapacity(1))
	c := join(t, f.addr)

	assert.Contains(t, c.Command("take torch"), "Taken.")
	assert.Contains(t, c.Command("s"), "Long Hallway")
	assert.Contains(t, c.Command("take leather armor"), "You cannot carry any more.")
}

func TestGame_EngineOptions(t *testing.T) {
	f := startGame(t, &FileWorlds{Path: cavesPath}, WithEngineOptions(engine.WithResolver(
		engine.ResolverFunc(func(*world.Ally, *world.Weapon) int { return 100 }),
	)))
	c := join(t, f.addr)

	c.Command("n")
	c.Command("take sword")
	assert.Contains(t, c.Command("attack hermit with sword"), "The Hermit is defeated.")
	assert.NotContains(t, c.Command("look"), "Hermit")
}

func TestGame_ReportedWidth(t *testing.T) {
	f := startGame(t, &FileWorlds{Path: cavesPath})
	c := join(t, f.addr)

	c.ReportWidth(32)
	out := c.Command("look")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, telnet.VisibleWidth(line), 30, "line %q", line)
	}
}

func TestGame_WorldLoadFailure(t *testing.T) {
	f := startGame(t, &FileWorlds{Path: "does-not-exist.yaml"})
	c := testutil.NewTelnetClient(t, f.addr)

	assert.Contains(t, c.ReadUntil("Please try again later.", 5*time.Second), "could not be loaded")
	assert.Zero(t, f.sessions.Count())
}

func TestFileWorlds_CountsLoads(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())

	_, err := (&FileWorlds{Path: cavesPath, Metrics: m}).World()
	require.NoError(t, err)
	_, err = (&FileWorlds{Path: "missing.yaml", Metrics: m}).World()
	require.Error(t, err)

	assert.Equal(t, 1.0, promtest.ToFloat64(m.WorldLoads.WithLabelValues(observability.OutcomeOK)))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.WorldLoads.WithLabelValues(observability.OutcomeError)))
}
