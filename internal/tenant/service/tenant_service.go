package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"a2admin/internal/audit"
	"a2admin/internal/identity"
	"a2admin/internal/platform/datastore"
	tenantmetrics "a2admin/internal/tenant/metrics"
	"a2admin/internal/tenant/models"
	id "a2admin/pkg/domain"
	dErrors "a2admin/pkg/domain-errors"
	"a2admin/pkg/requestcontext"
)

// TenantService orchestrates tenant lifecycle management and club admin
// provisioning.
type TenantService struct {
	tenants     TenantStore
	memberships MembershipStore
	accounts    identity.AccountAdmin
	notifier    Notifier
	counter     RecordCounter
	logger      *slog.Logger
	audit       *audit.Logger
	metrics     *tenantmetrics.Metrics
	loginURL    string
}

func New(tenants TenantStore, memberships MembershipStore, accounts identity.AccountAdmin, opts ...Option) *TenantService {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TenantService{
		tenants:     tenants,
		memberships: memberships,
		accounts:    accounts,
		notifier:    cfg.notifier,
		counter:     cfg.counter,
		logger:      logger,
		audit:       cfg.audit,
		metrics:     cfg.metrics,
		loginURL:    cfg.loginURL,
	}
}

// CreateTenantCommand holds validated input for CreateTenant.
type CreateTenantCommand struct {
	Name    string
	Profile models.TenantProfile
}

func (s *TenantService) CreateTenant(ctx context.Context, cmd CreateTenantCommand) (*models.Tenant, error) {
	t, err := models.NewTenant(id.NewTenantID(), strings.TrimSpace(cmd.Name), cmd.Profile, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.tenants.CreateIfNameAvailable(ctx, t); err != nil {
		return nil, wrapTenantErr(err, "failed to create tenant")
	}
	s.emitTenantCreated(ctx, models.TenantCreated{TenantID: t.ID, Name: t.Name})
	return t, nil
}

// UpdateTenant applies a partial update to contact, branding or name fields.
func (s *TenantService) UpdateTenant(ctx context.Context, tenantID id.TenantID, update models.TenantUpdate) (*models.Tenant, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeValidation, "no fields to update")
	}
	t, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, wrapTenantErr(err, "failed to load tenant")
	}
	if err := t.Apply(update, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.tenants.Update(ctx, t); err != nil {
		return nil, wrapTenantErr(err, "failed to update tenant")
	}
	s.audit.Log(ctx, audit.Event{Action: string(audit.EventTenantUpdated), TenantID: t.ID.String()})
	return t, nil
}

func (s *TenantService) GetTenant(ctx context.Context, tenantID id.TenantID) (*models.TenantDetails, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	t, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, wrapTenantErr(err, "failed to load tenant")
	}

	// Each count writes its own variable; results are read after Wait.
	var (
		admins              int
		sponsors, campaigns int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.memberships.CountByTenant(gctx, tenantID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count administrators")
		}
		admins = n
		return nil
	})
	if s.counter != nil {
		scope := datastore.Eq("tenant_id", tenantID.String())
		g.Go(func() error {
			n, err := s.counter.Count(gctx, datastore.TableSponsors, scope)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count sponsors")
			}
			sponsors = n
			return nil
		})
		g.Go(func() error {
			n, err := s.counter.Count(gctx, datastore.TableCampaigns, scope)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count campaigns")
			}
			campaigns = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &models.TenantDetails{
		Tenant:        t,
		AdminCount:    admins,
		SponsorCount:  int(sponsors),
		CampaignCount: int(campaigns),
	}, nil
}

func (s *TenantService) ListTenants(ctx context.Context) ([]*models.Tenant, error) {
	list, err := s.tenants.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list tenants")
	}
	return list, nil
}

// SuspendTenant sets a tenant inactive. Suspending an inactive tenant
// returns it unchanged.
func (s *TenantService) SuspendTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	t, changed, err := s.transition(ctx, tenantID, (*models.Tenant).Suspend)
	if err != nil {
		return nil, err
	}
	if changed {
		s.emitTenantSuspended(ctx, models.TenantSuspended{TenantID: t.ID})
	}
	return t, nil
}

// RestoreTenant sets a suspended tenant active again. Restoring an active
// tenant returns it unchanged.
func (s *TenantService) RestoreTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	t, changed, err := s.transition(ctx, tenantID, (*models.Tenant).Restore)
	if err != nil {
		return nil, err
	}
	if changed {
		s.emitTenantRestored(ctx, models.TenantRestored{TenantID: t.ID})
	}
	return t, nil
}

func (s *TenantService) transition(ctx context.Context, tenantID id.TenantID, apply func(*models.Tenant, time.Time) bool) (*models.Tenant, bool, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, false, err
	}
	t, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, false, wrapTenantErr(err, "failed to load tenant")
	}
	if !apply(t, requestcontext.Now(ctx)) {
		return t, false, nil
	}
	if err := s.tenants.Update(ctx, t); err != nil {
		return nil, false, wrapDownstream(err, "tenant update failed")
	}
	return t, true, nil
}

func (s *TenantService) emitTenantCreated(ctx context.Context, e models.TenantCreated) {
	s.audit.Log(ctx, audit.Event{Action: string(audit.EventTenantCreated), TenantID: e.TenantID.String()},
		"tenant_name", e.Name)
	if s.metrics != nil {
		s.metrics.IncrementTenantCreated()
	}
}

func (s *TenantService) emitTenantSuspended(ctx context.Context, e models.TenantSuspended) {
	s.audit.Log(ctx, audit.Event{Action: string(audit.EventTenantSuspended), TenantID: e.TenantID.String()})
	if s.metrics != nil {
		s.metrics.IncrementTransition(string(models.ActionSuspend))
	}
}

func (s *TenantService) emitTenantRestored(ctx context.Context, e models.TenantRestored) {
	s.audit.Log(ctx, audit.Event{Action: string(audit.EventTenantRestored), TenantID: e.TenantID.String()})
	if s.metrics != nil {
		s.metrics.IncrementTransition(string(models.ActionRestore))
	}
}
