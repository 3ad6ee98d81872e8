package models

import dErrors "a2admin/pkg/domain-errors"

type TenantStatus string

const (
	TenantStatusActive   TenantStatus = "active"
	TenantStatusInactive TenantStatus = "inactive"
)

// Role is the console permission level of a principal.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleClubAdmin  Role = "club_admin"
)

func (r Role) String() string { return string(r) }

// ParseRole accepts only the two console roles.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSuperAdmin, RoleClubAdmin:
		return Role(s), nil
	default:
		return "", dErrors.New(dErrors.CodeInvariantViolation, "unknown role: "+s)
	}
}

// ManageAction is a lifecycle action on a tenant.
type ManageAction string

const (
	ActionSuspend    ManageAction = "suspend"
	ActionRestore    ManageAction = "restore"
	ActionDeleteHard ManageAction = "delete_hard"
)

func ParseManageAction(s string) (ManageAction, error) {
	switch ManageAction(s) {
	case ActionSuspend, ActionRestore, ActionDeleteHard:
		return ManageAction(s), nil
	default:
		return "", dErrors.New(dErrors.CodeBadRequest, "Invalid action")
	}
}
