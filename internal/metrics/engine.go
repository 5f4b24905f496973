package metrics

import "github.com/prometheus/client_golang/prometheus"

// Engine and gateway Prometheus metrics.
var (
	EngineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recdex",
			Name:      "engine_requests_total",
			Help:      "Total number of search engine requests",
		},
		[]string{"op", "status"},
	)

	EngineRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recdex",
			Name:      "engine_request_duration_seconds",
			Help:      "Search engine request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"op"},
	)

	SearchOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recdex",
			Name:      "search_outcomes_total",
			Help:      "Search results by outcome",
		},
		[]string{"outcome"}, // "ok" / "empty" / "failed"
	)

	IndexDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recdex",
			Name:      "index_documents_total",
			Help:      "Index requests by result",
		},
		[]string{"result"}, // "written" / "skipped"
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers engine and gateway metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(EngineRequestsTotal)
	prometheus.MustRegister(EngineRequestDuration)
	prometheus.MustRegister(SearchOutcomesTotal)
	prometheus.MustRegister(IndexDocumentsTotal)
	engineMetricsRegistered = true
}
