package tenantctx

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Lookups        *prometheus.CounterVec
	LookupDuration prometheus.Histogram
	StaleLookups   prometheus.Counter
	ActiveSessions prometheus.Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		Lookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "a2admin_tenantctx_role_lookups_total",
			Help: "Role assignment lookups by outcome",
		}, []string{"outcome"}),
		LookupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "a2admin_tenantctx_role_lookup_duration_seconds",
			Help:    "Duration of role assignment lookups",
			Buckets: prometheus.DefBuckets,
		}),
		StaleLookups: promauto.NewCounter(prometheus.CounterOpts{
			Name: "a2admin_tenantctx_stale_lookups_total",
			Help: "Lookup results discarded because the resolver moved on",
		}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "a2admin_tenantctx_sessions",
			Help: "Device sessions with a live resolver",
		}),
	}
}

func (m *Metrics) observeLookup(start time.Time, err error) {
	if m == nil {
		return
	}
	m.LookupDuration.Observe(time.Since(start).Seconds())
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.Lookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) incrementStale() {
	if m == nil {
		return
	}
	m.StaleLookups.Inc()
}

func (m *Metrics) setSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}
