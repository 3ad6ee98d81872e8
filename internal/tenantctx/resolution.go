// Package tenantctx decides which tenant is active for a principal and
// whether that is an impersonation.
package tenantctx

import (
	"a2admin/internal/tenant/models"
	id "a2admin/pkg/domain"
	"a2admin/pkg/requestcontext"
)

type State string

const (
	StateResolved State = "resolved"
	StateLoading  State = "loading"
	StateNoTenant State = "no_tenant"
)

// Reason explains a no_tenant resolution.
type Reason string

const (
	ReasonNoSession                Reason = "no_session"
	ReasonNoOverrideNoNativeTenant Reason = "no_override_no_native_tenant"
	ReasonRoleLookupFailed         Reason = "role_lookup_failed"
)

// Resolution is the answer to "which tenant is in view". Consumers must treat
// StateLoading as pending, never as "no tenant".
type Resolution struct {
	State         State
	TenantID      id.TenantID
	TenantName    string
	Impersonating bool
	Reason        Reason
}

func resolved(tenantID id.TenantID, name string, impersonating bool) Resolution {
	return Resolution{State: StateResolved, TenantID: tenantID, TenantName: name, Impersonating: impersonating}
}

func noTenant(reason Reason) Resolution {
	return Resolution{State: StateNoTenant, Reason: reason}
}

// Override is a super admin's explicit club selection.
type Override struct {
	TenantID   id.TenantID
	TenantName string
}

// NativeScope is what the role assignment says about a principal.
type NativeScope struct {
	Role       models.Role
	TenantID   id.TenantID
	TenantName string
}

// Lookup is the state of the role assignment lookup.
type Lookup struct {
	InFlight bool
	Native   *NativeScope
	Err      error
}

// Resolve evaluates, in order: session, override, role lookup.
// The override is trusted as is; privileged writes re-check the role server side.
func Resolve(session *requestcontext.Principal, override *Override, lookup Lookup) Resolution {
	if session == nil {
		return noTenant(ReasonNoSession)
	}
	if override != nil {
		return resolved(override.TenantID, override.TenantName, true)
	}
	if lookup.InFlight {
		return Resolution{State: StateLoading}
	}
	if lookup.Err != nil || lookup.Native == nil {
		return noTenant(ReasonRoleLookupFailed)
	}
	switch lookup.Native.Role {
	case models.RoleClubAdmin:
		if lookup.Native.TenantID.IsNil() {
			return noTenant(ReasonRoleLookupFailed)
		}
		return resolved(lookup.Native.TenantID, lookup.Native.TenantName, false)
	case models.RoleSuperAdmin:
		return noTenant(ReasonNoOverrideNoNativeTenant)
	default:
		return noTenant(ReasonRoleLookupFailed)
	}
}
