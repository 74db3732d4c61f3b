package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the evaluation pipeline.
type Metrics struct {
	RunsTotal       *prometheus.CounterVec
	RunDuration     prometheus.Histogram
	AssetsEvaluated *prometheus.CounterVec
	SourceRequests  *prometheus.CounterVec
	SourceLatency   *prometheus.HistogramVec
	CacheLookups    *prometheus.CounterVec
	MessagesSent    *prometheus.CounterVec
}

// New registers pipeline metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		RunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetradar_runs_total",
				Help: "Total evaluation runs by outcome",
			},
			[]string{"trigger", "result"},
		),
		RunDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "assetradar_run_duration_seconds",
				Help:    "End-to-end evaluation run duration",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
		),
		AssetsEvaluated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetradar_assets_evaluated_total",
				Help: "Assets evaluated per run by class and outcome",
			},
			[]string{"class", "result"},
		),
		SourceRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetradar_source_requests_total",
				Help: "Upstream data source requests",
			},
			[]string{"source", "result"},
		),
		SourceLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assetradar_source_latency_seconds",
				Help:    "Upstream data source request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		CacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetradar_cache_lookups_total",
				Help: "Analysis cache lookups by outcome",
			},
			[]string{"result"},
		),
		MessagesSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetradar_messages_sent_total",
				Help: "Outbound notifications by channel and result",
			},
			[]string{"channel", "result"},
		),
	}
}

// ObserveRun records the outcome and duration of one evaluation run.
func (m *Metrics) ObserveRun(trigger, result string, d time.Duration) {
	m.RunsTotal.WithLabelValues(trigger, result).Inc()
	m.RunDuration.Observe(d.Seconds())
}

// ObserveSource records an upstream request.
func (m *Metrics) ObserveSource(source string, err error, d time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.SourceRequests.WithLabelValues(source, result).Inc()
	m.SourceLatency.WithLabelValues(source).Observe(d.Seconds())
}

// ObserveCache records a cache lookup outcome ("hit", "miss", "stale").
func (m *Metrics) ObserveCache(result string) {
	m.CacheLookups.WithLabelValues(result).Inc()
}
