package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	TenantCreated      prometheus.Counter
	TenantTransitions  *prometheus.CounterVec
	DeletionRuns       *prometheus.CounterVec
	DeletionStepErrors *prometheus.CounterVec
	DeletionDuration   prometheus.Histogram
	AccountCleanupMiss prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		TenantCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "a2admin_tenants_created_total",
			Help: "Total number of tenants created",
		}),
		TenantTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "a2admin_tenant_transitions_total",
			Help: "Tenant status transitions by action",
		}, []string{"action"}),
		DeletionRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "a2admin_tenant_deletions_total",
			Help: "Tenant hard-deletion runs by outcome",
		}, []string{"outcome"}),
		DeletionStepErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "a2admin_tenant_deletion_step_failures_total",
			Help: "Tenant hard-deletion runs aborted, by failing step",
		}, []string{"step"}),
		DeletionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "a2admin_tenant_deletion_duration_seconds",
			Help:    "Duration of tenant hard-deletion runs",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		AccountCleanupMiss: promauto.NewCounter(prometheus.CounterOpts{
			Name: "a2admin_tenant_deletion_account_failures_total",
			Help: "Identity accounts that could not be removed during tenant deletion",
		}),
	}
}

func (m *Metrics) IncrementTenantCreated() {
	m.TenantCreated.Inc()
}

func (m *Metrics) IncrementTransition(action string) {
	m.TenantTransitions.WithLabelValues(action).Inc()
}

// ObserveDeletion records one run. failedStep is empty on success.
func (m *Metrics) ObserveDeletion(start time.Time, failedStep string) {
	m.DeletionDuration.Observe(time.Since(start).Seconds())
	if failedStep == "" {
		m.DeletionRuns.WithLabelValues("success").Inc()
		return
	}
	m.DeletionRuns.WithLabelValues("failure").Inc()
	m.DeletionStepErrors.WithLabelValues(failedStep).Inc()
}

func (m *Metrics) IncrementAccountCleanupFailures(n int) {
	m.AccountCleanupMiss.Add(float64(n))
}
