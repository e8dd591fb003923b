package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	PollCyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poller_cycles_total",
			Help: "Total number of mailbox poll cycles (count)",
		},
		[]string{"status"},
	)

	MessagesExaminedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poller_messages_examined_total",
			Help: "Total number of mailbox messages examined, by disposition (count)",
		},
		[]string{"disposition"},
	)

	EventsEmittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "poller_events_emitted_total",
			Help: "Total number of assignment events handed to the queue (count)",
		},
	)

	PipelineRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total number of orchestrator runs, by outcome and failing stage (count)",
		},
		[]string{"outcome", "stage"},
	)

	PipelineStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_ms",
			Help:    "Duration of individual pipeline stages in milliseconds",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 120000},
		},
		[]string{"stage"},
	)

	QueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "event_queue_depth",
			Help: "Number of assignment events waiting in the queue (count)",
		},
	)

	DedupeStoreSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dedupe_store_size",
			Help: "Number of processed message IDs in the dedupe store (count)",
		},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total requests through a circuit breaker, by state (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total failed requests through a circuit breaker (count)",
		},
		[]string{"name"},
	)
)

func RegisterPollerMetrics() {
	prometheus.MustRegister(PollCyclesTotal)
	prometheus.MustRegister(MessagesExaminedTotal)
	prometheus.MustRegister(EventsEmittedTotal)
	prometheus.MustRegister(QueueDepth)
	prometheus.MustRegister(DedupeStoreSize)
}

func RegisterPipelineMetrics() {
	prometheus.MustRegister(PipelineRunsTotal)
	prometheus.MustRegister(PipelineStageDuration)
}

func RegisterCircuitBreakerMetrics() {
	prometheus.MustRegister(CircuitBreakerState)
	prometheus.MustRegister(CircuitBreakerRequests)
	prometheus.MustRegister(CircuitBreakerFailures)
}

func ObserveStageDuration(stage string, duration time.Duration) {
	PipelineStageDuration.WithLabelValues(stage).Observe(float64(duration.Milliseconds()))
}

func SetDedupeStoreSize(size int) {
	DedupeStoreSize.Set(float64(size))
}

func SetQueueDepth(depth int) {
	QueueDepth.Set(float64(depth))
}
