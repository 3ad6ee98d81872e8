package service

import (
	"context"
	"errors"

	"a2admin/internal/email"
	"a2admin/internal/platform/datastore"
	"a2admin/internal/sentinel"
	"a2admin/internal/tenant/models"
	id "a2admin/pkg/domain"
	dErrors "a2admin/pkg/domain-errors"
)

// Store interfaces define persistence contracts.

type TenantStore interface {
	CreateIfNameAvailable(ctx context.Context, tenant *models.Tenant) error
	Update(ctx context.Context, tenant *models.Tenant) error
	FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	FindByName(ctx context.Context, name string) (*models.Tenant, error)
	List(ctx context.Context) ([]*models.Tenant, error)
	Count(ctx context.Context) (int, error)
}

type MembershipStore interface {
	Upsert(ctx context.Context, assignment *models.RoleAssignment) error
	FindByPrincipal(ctx context.Context, principalID id.PrincipalID) (*models.RoleAssignment, error)
	CountByTenant(ctx context.Context, tenantID id.TenantID) (int, error)
}

// RecordCounter counts tenant-scoped rows for the details view.
type RecordCounter interface {
	Count(ctx context.Context, table string, filters ...datastore.Filter) (int64, error)
}

// Notifier sends the console emails; see email.Notifier.
type Notifier interface {
	LoginURL() string
	WelcomeClubAdmin(ctx context.Context, p email.WelcomeParams)
	ActivationLink(ctx context.Context, to, link string)
	SendTest(ctx context.Context, to string) error
}

func requireTenantID(tenantID id.TenantID) error {
	if tenantID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "tenant ID required")
	}
	return nil
}

// Error wrapping helpers translate sentinel errors to domain errors.

func wrapTenantErr(err error, action string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "tenant not found")
	}
	if errors.Is(err, sentinel.ErrAlreadyUsed) {
		return dErrors.New(dErrors.CodeConflict, "tenant name must be unique")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}

// wrapDownstream reports a failed storage or identity call with the
// provider's message, which the console shows verbatim.
func wrapDownstream(err error, action string) error {
	return dErrors.Wrap(err, dErrors.CodeDownstream, action+": "+err.Error())
}

func isNotFound(err error) bool {
	return errors.Is(err, sentinel.ErrNotFound)
}
