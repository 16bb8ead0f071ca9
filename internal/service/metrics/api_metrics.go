package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	APILatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "riskvar",
			Subsystem: "api",
			Name:      "latency_seconds",
			Help:      "Latency of risk API endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	APIErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "riskvar",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Errors by risk API endpoint",
		},
		[]string{"endpoint"},
	)

	APICacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "riskvar",
			Subsystem: "api",
			Name:      "cache_hits_total",
			Help:      "Response cache hits by endpoint",
		},
		[]string{"endpoint"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(APILatency, APIErrors, APICacheHits)
	})
}
