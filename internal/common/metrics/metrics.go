// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CommandsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_commands_processed_total",
			Help: "Total number of commands processed, by intent and outcome",
		},
		[]string{"intent", "status"},
	)

	CommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "assistant_command_duration_seconds",
			Help: "End-to-end duration of command processing in seconds",
		},
		[]string{"intent"},
	)

	Tier2Calls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_classifier_tier2_calls_total",
			Help: "Total number of probabilistic fallback calls, by outcome",
		},
		[]string{"outcome"},
	)

	ExecutorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_executor_failures_total",
			Help: "Total number of executor failures, by executor and error code",
		},
		[]string{"executor", "error_code"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assistant_channel_sessions_active",
			Help: "Number of live realtime channel sessions",
		},
	)

	ResultsDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_channel_results_discarded_total",
			Help: "Results computed for connections that disconnected mid-flight",
		},
	)
)
