package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	// Chat metrics
	ChatTurnsTotal   *prometheus.CounterVec
	ChatRounds       prometheus.Histogram
	ChatTurnDuration prometheus.Histogram
	ChatLoopExceeded prometheus.Counter

	// Tool metrics
	ToolExecutionsTotal   *prometheus.CounterVec
	ToolExecutionDuration *prometheus.HistogramVec

	// Provider metrics
	ProviderRequestsTotal *prometheus.CounterVec

	// Session metrics
	SessionsActive prometheus.Gauge
	SessionsTotal  prometheus.Counter
	SessionsReaped prometheus.Counter
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		ChatTurnsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chat_turns_total",
				Help: "Total number of user turns processed",
			},
			[]string{"status"},
		),
		ChatRounds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chat_rounds_per_turn",
				Help:    "Model/tool round-trips per user turn",
				Buckets: []float64{1, 2, 3, 4, 5, 6, 8},
			},
		),
		ChatTurnDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chat_turn_duration_seconds",
				Help:    "Duration of one user turn in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		ChatLoopExceeded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "chat_loop_exceeded_total",
				Help: "User turns terminated by the round cap",
			},
		),

		ToolExecutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tool_executions_total",
				Help: "Total number of tool executions",
			},
			[]string{"tool_name", "status"},
		),
		ToolExecutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tool_execution_duration_seconds",
				Help:    "Duration of tool executions in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"tool_name"},
		),

		ProviderRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "travel_provider_requests_total",
				Help: "Total number of travel provider requests",
			},
			[]string{"operation", "status"},
		),

		SessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sessions_active",
				Help: "Number of active chat sessions",
			},
		),
		SessionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sessions_total",
				Help: "Total number of chat sessions created",
			},
		),
		SessionsReaped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sessions_reaped_total",
				Help: "Idle sessions removed by the reaper",
			},
		),
	}

	registry.MustRegister(
		m.ChatTurnsTotal,
		m.ChatRounds,
		m.ChatTurnDuration,
		m.ChatLoopExceeded,
		m.ToolExecutionsTotal,
		m.ToolExecutionDuration,
		m.ProviderRequestsTotal,
		m.SessionsActive,
		m.SessionsTotal,
		m.SessionsReaped,
	)

	return m
}

// Handler returns an HTTP handler exposing the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
