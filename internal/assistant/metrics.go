package assistant

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	llmCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rasid",
			Name:      "llm_calls_total",
			Help:      "Total LLM gateway calls",
		},
		[]string{"status"},
	)

	llmDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "rasid",
			Name:      "llm_duration_seconds",
			Help:      "Duration of LLM gateway calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~50s
		},
	)

	toolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rasid",
			Name:      "tool_calls_total",
			Help:      "Total tool executions requested by the model",
		},
		[]string{"tool", "status"},
	)

	toolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rasid",
			Name:      "tool_duration_seconds",
			Help:      "Duration of tool executions in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"tool"},
	)

	chatTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rasid",
			Name:      "chat_turns_total",
			Help:      "Total assistant chat turns",
		},
		[]string{"status"},
	)

	chatRoundsPerTurn = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "rasid",
			Name:      "chat_rounds_per_turn",
			Help:      "Tool rounds consumed per chat turn",
			Buckets:   []float64{0, 1, 2, 3, 4, 5},
		},
	)

	conversationsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rasid",
			Name:      "conversations_active",
			Help:      "Number of currently active chat conversations",
		},
	)
)
