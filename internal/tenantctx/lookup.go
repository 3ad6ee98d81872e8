package tenantctx

import (
	"context"
	"errors"
	"fmt"

	"a2admin/internal/sentinel"
	"a2admin/internal/tenant/models"
	id "a2admin/pkg/domain"
)

// RoleLookup reads a principal's native scope. A principal without a role
// assignment is an error.
type RoleLookup interface {
	LookupNative(ctx context.Context, principalID id.PrincipalID) (*NativeScope, error)
}

type MembershipReader interface {
	FindByPrincipal(ctx context.Context, principalID id.PrincipalID) (*models.RoleAssignment, error)
}

type TenantReader interface {
	FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
}

// StoreRoleLookup joins the app_users row with its tenant for the name.
type StoreRoleLookup struct {
	memberships MembershipReader
	tenants     TenantReader
}

func NewStoreRoleLookup(memberships MembershipReader, tenants TenantReader) *StoreRoleLookup {
	return &StoreRoleLookup{memberships: memberships, tenants: tenants}
}

func (l *StoreRoleLookup) LookupNative(ctx context.Context, principalID id.PrincipalID) (*NativeScope, error) {
	a, err := l.memberships.FindByPrincipal(ctx, principalID)
	if err != nil {
		return nil, fmt.Errorf("role assignment: %w", err)
	}
	scope := &NativeScope{Role: a.Role}
	tenantID, ok := a.NativeTenant()
	if !ok {
		return scope, nil
	}
	t, err := l.tenants.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, fmt.Errorf("native tenant %s: %w", tenantID, err)
		}
		return nil, fmt.Errorf("native tenant: %w", err)
	}
	scope.TenantID = t.ID
	scope.TenantName = t.Name
	return scope, nil
}
