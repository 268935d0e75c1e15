package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names.
const (
	MetricCommandsTotal   = "wanderer_commands_total"
	MetricCommandDuration = "wanderer_command_duration_seconds"
	MetricSessionsActive  = "wanderer_sessions_active"
	MetricWorldLoads      = "wanderer_world_loads_total"
)

// Label names and values.
const (
	LabelHandler = "handler"
	LabelOutcome = "outcome"

	OutcomeOK      = "ok"
	OutcomeRefused = "refused"
	OutcomeError   = "error"
)

// Metrics holds the server's Prometheus collectors.
type Metrics struct {
	Commands        *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	SessionsActive  prometheus.Gauge
	WorldLoads      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
//
// Precondition: reg must be non-nil and must not already hold these collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Commands: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricCommandsTotal,
				Help: "Commands executed, by handler and outcome.",
			},
			[]string{LabelHandler, LabelOutcome},
		),
		CommandDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricCommandDuration,
				Help:    "Time spent resolving one command.",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
			},
			[]string{LabelHandler},
		),
		SessionsActive: f.NewGauge(
			prometheus.GaugeOpts{
				Name: MetricSessionsActive,
				Help: "Connected traveler sessions.",
			},
		),
		WorldLoads: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricWorldLoads,
				Help: "World file loads, by outcome.",
			},
			[]string{LabelOutcome},
		),
	}
}

// ObserveCommand records one executed command. A command that returned an error
// counts as refused.
func (m *Metrics) ObserveCommand(handler string, err error, elapsed time.Duration) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeRefused
	}
	m.Commands.WithLabelValues(handler, outcome).Inc()
	m.CommandDuration.WithLabelValues(handler).Observe(elapsed.Seconds())
}

// ObserveWorldLoad records one attempt to load a world file.
func (m *Metrics) ObserveWorldLoad(err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.WorldLoads.WithLabelValues(outcome).Inc()
}
