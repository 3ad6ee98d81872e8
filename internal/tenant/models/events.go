package models

import id "a2admin/pkg/domain"

// Domain events capture what happened in the tenant domain.
// The service layer turns them into audit events.

// TenantCreated is emitted when a new tenant is registered.
type TenantCreated struct {
	TenantID id.TenantID
	Name     string
}

// TenantSuspended is emitted when a tenant is set inactive.
type TenantSuspended struct {
	TenantID id.TenantID
}

// TenantRestored is emitted when a suspended tenant is set active again.
type TenantRestored struct {
	TenantID id.TenantID
}

// ClubAdminProvisioned is emitted when a club admin account is linked to a tenant.
type ClubAdminProvisioned struct {
	TenantID    id.TenantID
	PrincipalID id.PrincipalID
	Email       string
}
