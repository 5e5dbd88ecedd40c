package subscription

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records session creation outcomes.
type Metrics struct {
	SessionsCreated  *prometheus.CounterVec
	SessionsFailed   *prometheus.CounterVec
	SessionsReplayed *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec
}

// NewMetrics registers the session metrics on reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SessionsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trialkit_sessions_created_total",
			Help: "Total number of trial sessions created by provider",
		}, []string{"provider"}),
		SessionsFailed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trialkit_sessions_failed_total",
			Help: "Total number of rejected or failed session requests by provider and error code",
		}, []string{"provider", "code"}),
		SessionsReplayed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trialkit_sessions_replayed_total",
			Help: "Total number of requests answered from the idempotency store",
		}, []string{"provider"}),
		ProviderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trialkit_provider_call_duration_seconds",
			Help:    "Duration of provider session creation calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}, []string{"provider"}),
	}
}

func (m *Metrics) incCreated(provider string) {
	if m == nil {
		return
	}
	m.SessionsCreated.WithLabelValues(provider).Inc()
}

func (m *Metrics) incFailed(provider string, err error) {
	if m == nil {
		return
	}
	m.SessionsFailed.WithLabelValues(provider, Code(err)).Inc()
}

func (m *Metrics) incReplayed(provider string) {
	if m == nil {
		return
	}
	m.SessionsReplayed.WithLabelValues(provider).Inc()
}

func (m *Metrics) observeProvider(provider string, start time.Time) {
	if m == nil {
		return
	}
	m.ProviderDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}
