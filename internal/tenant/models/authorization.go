package models

import (
	"context"

	id "a2admin/pkg/domain"
	"a2admin/pkg/requestcontext"
)

// Scope is the role half of an AuthorizationContext: SuperAdmin or ClubAdmin.
type Scope interface {
	Role() Role
	scope()
}

// SuperAdmin has global scope.
type SuperAdmin struct{}

func (SuperAdmin) Role() Role { return RoleSuperAdmin }
func (SuperAdmin) scope()     {}

// ClubAdmin is scoped to a single tenant.
type ClubAdmin struct {
	TenantID id.TenantID
}

func (ClubAdmin) Role() Role { return RoleClubAdmin }
func (ClubAdmin) scope()     {}

// AuthorizationContext is built once per privileged request from a verified
// principal and its freshly read role assignment.
type AuthorizationContext struct {
	Principal requestcontext.Principal
	Scope     Scope
}

// NewAuthorizationContext derives the scope from the stored assignment.
func NewAuthorizationContext(p requestcontext.Principal, a *RoleAssignment) AuthorizationContext {
	var scope Scope = SuperAdmin{}
	if tenantID, ok := a.NativeTenant(); ok {
		scope = ClubAdmin{TenantID: tenantID}
	}
	return AuthorizationContext{Principal: p, Scope: scope}
}

func (a AuthorizationContext) IsSuperAdmin() bool {
	_, ok := a.Scope.(SuperAdmin)
	return ok
}

type authzKey struct{}

func WithAuthorization(ctx context.Context, a AuthorizationContext) context.Context {
	return context.WithValue(ctx, authzKey{}, a)
}

// AuthorizationFrom returns the context stored by the super admin guard.
func AuthorizationFrom(ctx context.Context) (AuthorizationContext, bool) {
	a, ok := ctx.Value(authzKey{}).(AuthorizationContext)
	return a, ok && a.Scope != nil
}
