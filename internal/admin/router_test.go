package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/wanderer/internal/game/engine"
	"github.com/cory-johannsen/wanderer/internal/game/session"
	"github.com/cory-johannsen/wanderer/internal/game/world"
	"github.com/cory-johannsen/wanderer/internal/observability"
)

const cavesPath = "../../content/worlds/caves.yaml"

type fixture struct {
	world    *world.World
	sessions *session.Manager
	metrics  *observability.Metrics
	handler  http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w, err := world.LoadWorldFromFile(cavesPath)
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	f := &fixture{
		world:    w,
		sessions: session.NewManager(),
		metrics:  observability.NewMetrics(reg),
	}
	f.handler = NewRouter(Deps{World: w, Sessions: f.sessions, Gatherer: reg, Logger: zaptest.NewLogger(t)})
	return f
}

func (f *fixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := newFixture(t).get(t, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetrics(t *testing.T) {
	f := newFixture(t)
	f.metrics.ObserveCommand("move", nil, time.Millisecond)

	rec := f.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `wanderer_commands_total{handler="move",outcome="ok"} 1`)
}

func TestSessions(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sessions.Add(session.New(f.world.Start(), 0)))

	assert.JSONEq(t, `{"active":1}`, f.get(t, "/sessions").Body.String())
}

func TestRoomsList(t *testing.T) {
	rec := newFixture(t).get(t, "/rooms")
	require.Equal(t, http.StatusOK, rec.Code)

	var body RoomsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, world.RoomKey("Circle Room"), body.Start)
	assert.Equal(t, []world.RoomKey{"Circle Room", "Closet", "Dank Tunnel 1", "Dank Tunnel 2", "Long Hallway", "Small Cave"}, body.Rooms)
}

func TestRoomSnapshot(t *testing.T) {
	rec := newFixture(t).get(t, "/rooms/Circle%20Room")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap engine.RoomSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "Circle Room", snap.Name)
	assert.Equal(t, []string{"n", "s", "hallway", "e", "door"}, snap.ExitWords())
	assert.Equal(t, []string{"chest", "torch"}, snap.ItemNames())
	assert.True(t, snap.Items[0].Closed)
	assert.Empty(t, snap.Items[0].Contents)

	assert.Contains(t, rec.Body.String(), `"door":"closed"`)
	assert.Contains(t, rec.Body.String(), `"door":"none"`)
}

func TestRoomSnapshot_ReflectsLiveState(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.world.SetPathwayState("Circle Room", "door", world.Open))

	assert.Contains(t, f.get(t, "/rooms/Circle%20Room").Body.String(), `"door":"open"`)
}

func TestRoomSnapshot_Unknown(t *testing.T) {
	rec := newFixture(t).get(t, "/rooms/Attic")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, strings.Contains(body.Error, "Attic"))
}

func TestServerStartStop(t *testing.T) {
	f := newFixture(t)
	srv := NewServer("127.0.0.1:0", f.handler, zaptest.NewLogger(t))
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	require.Eventually(t, func() bool { return srv.Addr() != "" }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	srv.Stop()
	srv.Stop()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("admin server did not stop")
	}
}

func TestServerStartFailsOnBadAddr(t *testing.T) {
	srv := NewServer("256.0.0.1:0", http.NotFoundHandler(), zaptest.NewLogger(t))
	assert.Error(t, srv.Start())
}
