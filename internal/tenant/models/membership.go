package models

import (
	"time"

	id "a2admin/pkg/domain"
	dErrors "a2admin/pkg/domain-errors"
)

// RoleAssignment links a principal to its role and, for club admins, to the
// owning tenant. Stored as an app_users row.
type RoleAssignment struct {
	PrincipalID id.PrincipalID
	Email       string
	Role        Role
	TenantID    id.TenantID
	CreatedAt   time.Time
}

// NewRoleAssignment enforces that club admins belong to exactly one tenant and
// super admins to none.
func NewRoleAssignment(principalID id.PrincipalID, email string, role Role, tenantID id.TenantID, now time.Time) (*RoleAssignment, error) {
	if principalID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "principal ID required")
	}
	switch role {
	case RoleClubAdmin:
		if tenantID.IsNil() {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "club_admin requires a tenant")
		}
	case RoleSuperAdmin:
		if !tenantID.IsNil() {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "super_admin cannot belong to a tenant")
		}
	default:
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown role: "+string(role))
	}
	return &RoleAssignment{
		PrincipalID: principalID,
		Email:       email,
		Role:        role,
		TenantID:    tenantID,
		CreatedAt:   now,
	}, nil
}

// NativeTenant returns the tenant a club admin belongs to.
func (a *RoleAssignment) NativeTenant() (id.TenantID, bool) {
	if a.Role != RoleClubAdmin || a.TenantID.IsNil() {
		return id.TenantID{}, false
	}
	return a.TenantID, true
}
