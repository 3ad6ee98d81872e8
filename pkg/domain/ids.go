// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "a2admin/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing PrincipalID where TenantID is expected.
type (
	PrincipalID uuid.UUID
	TenantID    uuid.UUID
	CampaignID  uuid.UUID
)

// Parse functions - use at trust boundaries (handlers, API inputs, token claims).

func ParsePrincipalID(s string) (PrincipalID, error) {
	id, err := parseUUID(s, "principal ID")
	return PrincipalID(id), err
}

func ParseTenantID(s string) (TenantID, error) {
	id, err := parseUUID(s, "tenant ID")
	return TenantID(id), err
}

func ParseCampaignID(s string) (CampaignID, error) {
	id, err := parseUUID(s, "campaign ID")
	return CampaignID(id), err
}

// String methods - for logging and storage keys.

func (id PrincipalID) String() string { return uuid.UUID(id).String() }
func (id TenantID) String() string    { return uuid.UUID(id).String() }
func (id CampaignID) String() string  { return uuid.UUID(id).String() }

// IsNil checks - used for service-layer validation.

func (id PrincipalID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id TenantID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id CampaignID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

// NewTenantID mints a random tenant identifier.
func NewTenantID() TenantID { return TenantID(uuid.New()) }

// parseUUID is the shared validation logic.
// Nil UUIDs are allowed here; services reject them with IsNil so that store
// lookups keep returning consistent "not found" errors.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return id, nil
}
