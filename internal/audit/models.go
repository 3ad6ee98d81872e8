package audit

import "time"

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	ActorID   string    `json:"actor_id,omitempty"`
	TenantID  string    `json:"tenant_id,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Email     string    `json:"email,omitempty"`
	Outcome   string    `json:"outcome,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

type AuditEvent string

const (
	EventTenantCreated         AuditEvent = "tenant_created"
	EventTenantUpdated         AuditEvent = "tenant_updated"
	EventTenantSuspended       AuditEvent = "tenant_suspended"
	EventTenantRestored        AuditEvent = "tenant_restored"
	EventTenantDeleted         AuditEvent = "tenant_deleted"
	EventTenantDeletionFailed  AuditEvent = "tenant_deletion_failed"
	EventClubAdminProvisioned  AuditEvent = "club_admin_provisioned"
	EventInviteResent          AuditEvent = "invite_resent"
	EventUserBackfilled        AuditEvent = "user_backfilled"
	EventTenantOverrideSet     AuditEvent = "tenant_override_set"
	EventTenantOverrideCleared AuditEvent = "tenant_override_cleared"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
