package models

import (
	"strings"
	"time"

	id "a2admin/pkg/domain"
	dErrors "a2admin/pkg/domain-errors"
)

const maxTenantNameLength = 128

// Tenant is a club organization.
type Tenant struct {
	ID             id.TenantID  `json:"id"`
	Name           string       `json:"name"`
	EmailContact   string       `json:"email_contact,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	Address        string       `json:"address,omitempty"`
	PrimaryColor   string       `json:"primary_color,omitempty"`
	SecondaryColor string       `json:"secondary_color,omitempty"`
	Status         TenantStatus `json:"status"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// Suspend transitions the tenant to inactive status. It reports whether the
// status changed; suspending an inactive tenant is a no-op.
func (t *Tenant) Suspend(now time.Time) bool {
	if !t.IsActive() {
		return false
	}
	t.Status = TenantStatusInactive
	t.UpdatedAt = now
	return true
}

// Restore transitions the tenant to active status. It reports whether the
// status changed.
func (t *Tenant) Restore(now time.Time) bool {
	if t.IsActive() {
		return false
	}
	t.Status = TenantStatusActive
	t.UpdatedAt = now
	return true
}

// TenantProfile holds the contact and branding fields of a tenant.
type TenantProfile struct {
	EmailContact   string
	Phone          string
	Address        string
	PrimaryColor   string
	SecondaryColor string
}

func NewTenant(tenantID id.TenantID, name string, profile TenantProfile, now time.Time) (*Tenant, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return &Tenant{
		ID:             tenantID,
		Name:           name,
		EmailContact:   profile.EmailContact,
		Phone:          profile.Phone,
		Address:        profile.Address,
		PrimaryColor:   profile.PrimaryColor,
		SecondaryColor: profile.SecondaryColor,
		Status:         TenantStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// TenantUpdate is a partial update; nil fields are left unchanged.
type TenantUpdate struct {
	Name           *string
	EmailContact   *string
	Phone          *string
	Address        *string
	PrimaryColor   *string
	SecondaryColor *string
}

func (u TenantUpdate) IsEmpty() bool {
	return u.Name == nil && u.EmailContact == nil && u.Phone == nil &&
		u.Address == nil && u.PrimaryColor == nil && u.SecondaryColor == nil
}

// Apply mutates t; the name invariant is checked before any field changes.
func (t *Tenant) Apply(u TenantUpdate, now time.Time) error {
	if u.Name != nil {
		if err := validateName(*u.Name); err != nil {
			return err
		}
		t.Name = *u.Name
	}
	setIf(&t.EmailContact, u.EmailContact)
	setIf(&t.Phone, u.Phone)
	setIf(&t.Address, u.Address)
	setIf(&t.PrimaryColor, u.PrimaryColor)
	setIf(&t.SecondaryColor, u.SecondaryColor)
	t.UpdatedAt = now
	return nil
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "tenant name cannot be empty")
	}
	if len(name) > maxTenantNameLength {
		return dErrors.New(dErrors.CodeInvariantViolation, "tenant name must be 128 characters or less")
	}
	return nil
}

// TenantDetails aggregates tenant metadata with counts for admin dashboards.
type TenantDetails struct {
	Tenant        *Tenant
	AdminCount    int
	SponsorCount  int
	CampaignCount int
}
