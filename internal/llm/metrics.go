package llm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the generation metrics on reg. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		requests: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "storyweave_llm_requests_total",
				Help: "Total number of story generation requests, partitioned by provider and status.",
			},
			[]string{"provider", "status"},
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storyweave_llm_request_duration_seconds",
				Help:    "Duration of upstream story generation calls.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
	}
}

func (m *Metrics) observe(p Provider, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.With(prometheus.Labels{"provider": string(p), "status": status}).Inc()
	m.duration.With(prometheus.Labels{"provider": string(p)}).Observe(seconds)
}
