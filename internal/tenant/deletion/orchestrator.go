// Package deletion removes a tenant and every record scoped to it.
//
// The cascade is forward-only: a failing step aborts the run without rolling
// back earlier steps, and every step tolerates rows that are already gone so
// a retry completes the job.
package deletion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"a2admin/internal/audit"
	"a2admin/internal/identity"
	"a2admin/internal/platform/datastore"
	"a2admin/internal/tenant/metrics"
	id "a2admin/pkg/domain"
	dErrors "a2admin/pkg/domain-errors"
)

const defaultTimeout = 2 * time.Minute

// Report describes a completed run.
type Report struct {
	TenantID        id.TenantID      `json:"tenant_id"`
	Steps           []StepOutcome    `json:"steps"`
	AccountFailures []AccountFailure `json:"account_failures,omitempty"`
}

// Orchestrator runs the deletion cascade.
type Orchestrator struct {
	store    datastore.Store
	accounts identity.AccountAdmin
	guard    Guard
	timeout  time.Duration
	logger   *slog.Logger
	audit    *audit.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

type Option func(*Orchestrator)

// WithGuard replaces the default in-process guard.
func WithGuard(g Guard) Option {
	return func(o *Orchestrator) {
		o.guard = g
	}
}

// WithTimeout bounds a whole run. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

func WithAuditLogger(l *audit.Logger) Option {
	return func(o *Orchestrator) {
		o.audit = l
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) {
		o.tracer = t
	}
}

func New(store datastore.Store, accounts identity.AccountAdmin, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:    store,
		accounts: accounts,
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.guard == nil {
		o.guard = NewMemoryGuard()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer("a2admin/tenant/deletion")
	}
	return o
}

// DeleteTenant runs every step in order and stops at the first hard failure,
// which is returned as a *StepError. A concurrent run for the same tenant is
// rejected with a conflict wrapping ErrDeletionInProgress.
func (o *Orchestrator) DeleteTenant(ctx context.Context, tenantID id.TenantID) (*Report, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant_id required")
	}

	release, err := o.guard.Acquire(ctx, tenantID)
	if err != nil {
		if errors.Is(err, ErrDeletionInProgress) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "tenant deletion already in progress")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to acquire deletion guard")
	}
	defer release()

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	ctx, span := o.tracer.Start(ctx, "tenant.delete", trace.WithAttributes(
		attribute.String("tenant_id", tenantID.String()),
	))
	defer span.End()

	start := time.Now()
	report, runErr := o.execute(ctx, tenantID)
	o.finish(ctx, span, start, tenantID, report, runErr)
	return report, runErr
}

func (o *Orchestrator) execute(ctx context.Context, tenantID id.TenantID) (*Report, error) {
	r := &run{tenantID: tenantID}
	report := &Report{TenantID: tenantID}

	for _, s := range o.steps() {
		if err := ctx.Err(); err != nil {
			return report, &StepError{Step: s.name, Err: fmt.Errorf("deletion timed out: %w", err)}
		}

		stepCtx, span := o.tracer.Start(ctx, "tenant.delete."+string(s.name))
		outcome, err := s.exec(stepCtx, r)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			report.AccountFailures = r.accountFailures
			return report, &StepError{Step: s.name, Err: err}
		}
		span.SetAttributes(attribute.Int64("deleted", outcome.Deleted))
		span.End()

		outcome.Step = s.name
		report.Steps = append(report.Steps, outcome)
	}

	report.AccountFailures = r.accountFailures
	return report, nil
}

func (o *Orchestrator) finish(ctx context.Context, span trace.Span, start time.Time, tenantID id.TenantID, report *Report, runErr error) {
	var failedStep string
	var stepErr *StepError
	if errors.As(runErr, &stepErr) {
		failedStep = string(stepErr.Step)
	}

	if o.metrics != nil {
		o.metrics.ObserveDeletion(start, failedStep)
		if n := len(report.AccountFailures); n > 0 {
			o.metrics.IncrementAccountCleanupFailures(n)
		}
	}

	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
		o.logger.ErrorContext(ctx, "tenant deletion aborted",
			"tenant_id", tenantID.String(),
			"step", failedStep,
			"error", runErr,
		)
		o.audit.Log(ctx, audit.Event{
			Action:   string(audit.EventTenantDeletionFailed),
			TenantID: tenantID.String(),
			Outcome:  audit.OutcomeFailure,
			Reason:   runErr.Error(),
		})
		return
	}

	o.logger.InfoContext(ctx, "tenant deleted",
		"tenant_id", tenantID.String(),
		"account_failures", len(report.AccountFailures),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	o.audit.Log(ctx, audit.Event{
		Action:   string(audit.EventTenantDeleted),
		TenantID: tenantID.String(),
	})
}
