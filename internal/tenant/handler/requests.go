package handler

import (
	"strings"

	"a2admin/internal/email"
	"a2admin/internal/tenant/models"
	"a2admin/internal/tenant/service"
	id "a2admin/pkg/domain"
	dErrors "a2admin/pkg/domain-errors"
	"a2admin/pkg/platform/validation"
)

// HTTP Request DTOs - contain JSON tags for API serialization.
// These are converted to service commands before processing.

type ManageTenantRequest struct {
	TenantID string `json:"tenant_id"`
	Action   string `json:"action"`
}

func (r *ManageTenantRequest) Normalize() {
	r.TenantID = strings.TrimSpace(r.TenantID)
	r.Action = strings.TrimSpace(r.Action)
}

func (r *ManageTenantRequest) Validate() error {
	if r.TenantID == "" || r.Action == "" {
		return dErrors.New(dErrors.CodeBadRequest, "tenant_id and action required")
	}
	return nil
}

// Parse returns the typed tenant id and action.
func (r *ManageTenantRequest) Parse() (id.TenantID, models.ManageAction, error) {
	tenantID, err := id.ParseTenantID(r.TenantID)
	if err != nil {
		return id.TenantID{}, "", dErrors.New(dErrors.CodeBadRequest, "invalid tenant id")
	}
	action, err := models.ParseManageAction(r.Action)
	if err != nil {
		return id.TenantID{}, "", err
	}
	return tenantID, action, nil
}

type CreateTenantRequest struct {
	Name           string `json:"name"`
	EmailContact   string `json:"email_contact"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
}

func (r *CreateTenantRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.EmailContact = email.Normalize(r.EmailContact)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
	r.PrimaryColor = strings.TrimSpace(r.PrimaryColor)
	r.SecondaryColor = strings.TrimSpace(r.SecondaryColor)
}

func (r *CreateTenantRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return validateProfile(&r.Name, &r.EmailContact, &r.Phone, &r.Address, &r.PrimaryColor, &r.SecondaryColor)
}

func (r *CreateTenantRequest) Command() service.CreateTenantCommand {
	return service.CreateTenantCommand{
		Name: r.Name,
		Profile: models.TenantProfile{
			EmailContact:   r.EmailContact,
			Phone:          r.Phone,
			Address:        r.Address,
			PrimaryColor:   r.PrimaryColor,
			SecondaryColor: r.SecondaryColor,
		},
	}
}

// UpdateTenantRequest distinguishes absent fields (nil) from cleared ones ("").
type UpdateTenantRequest struct {
	Name           *string `json:"name"`
	EmailContact   *string `json:"email_contact"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	PrimaryColor   *string `json:"primary_color"`
	SecondaryColor *string `json:"secondary_color"`
}

func (r *UpdateTenantRequest) Normalize() {
	for _, f := range []*string{r.Name, r.Phone, r.Address, r.PrimaryColor, r.SecondaryColor} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
	if r.EmailContact != nil {
		*r.EmailContact = email.Normalize(*r.EmailContact)
	}
}

func (r *UpdateTenantRequest) Validate() error {
	return validateProfile(r.Name, r.EmailContact, r.Phone, r.Address, r.PrimaryColor, r.SecondaryColor)
}

func (r *UpdateTenantRequest) Update() models.TenantUpdate {
	return models.TenantUpdate{
		Name:           r.Name,
		EmailContact:   r.EmailContact,
		Phone:          r.Phone,
		Address:        r.Address,
		PrimaryColor:   r.PrimaryColor,
		SecondaryColor: r.SecondaryColor,
	}
}

// validateProfile checks the optional tenant fields; nil means not provided.
func validateProfile(name, contact, phone, address, primary, secondary *string) error {
	if name != nil {
		if err := validation.CheckStringLength("name", *name, validation.MaxTenantNameLength); err != nil {
			return err
		}
	}
	if contact != nil && *contact != "" && !email.IsValidEmail(*contact) {
		return dErrors.New(dErrors.CodeValidation, "invalid email_contact")
	}
	if phone != nil {
		if err := validation.CheckStringLength("phone", *phone, validation.MaxPhoneLength); err != nil {
			return err
		}
	}
	if address != nil {
		if err := validation.CheckStringLength("address", *address, validation.MaxAddressLength); err != nil {
			return err
		}
	}
	if primary != nil {
		if err := validation.CheckHexColor("primary_color", *primary); err != nil {
			return err
		}
	}
	if secondary != nil {
		if err := validation.CheckHexColor("secondary_color", *secondary); err != nil {
			return err
		}
	}
	return nil
}

type CreateClubRequest struct {
	Name         string `json:"name"`
	EmailContact string `json:"email_contact"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	AdminEmail   string `json:"admin_email"`
}

func (r *CreateClubRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.EmailContact = email.Normalize(r.EmailContact)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
	r.AdminEmail = email.Normalize(r.AdminEmail)
}

func (r *CreateClubRequest) Validate() error {
	if r.Name == "" || r.AdminEmail == "" {
		return dErrors.New(dErrors.CodeValidation, "name and admin_email required")
	}
	if err := validation.CheckStringLength("admin_email", r.AdminEmail, validation.MaxEmailLength); err != nil {
		return err
	}
	if !email.IsValidEmail(r.AdminEmail) {
		return dErrors.New(dErrors.CodeValidation, "invalid admin_email")
	}
	return validateProfile(&r.Name, &r.EmailContact, &r.Phone, &r.Address, nil, nil)
}

func (r *CreateClubRequest) Command() service.CreateClubCommand {
	return service.CreateClubCommand{
		Name:         r.Name,
		EmailContact: r.EmailContact,
		Phone:        r.Phone,
		Address:      r.Address,
		AdminEmail:   r.AdminEmail,
	}
}

type ResendInviteRequest struct {
	AdminEmail string `json:"admin_email"`
}

func (r *ResendInviteRequest) Normalize() {
	r.AdminEmail = email.Normalize(r.AdminEmail)
}

func (r *ResendInviteRequest) Validate() error {
	if r.AdminEmail == "" {
		return dErrors.New(dErrors.CodeValidation, "admin_email required")
	}
	return nil
}

type BackfillAdminRequest struct {
	AdminEmail string `json:"admin_email"`
	TenantID   string `json:"tenant_id"`
}

func (r *BackfillAdminRequest) Normalize() {
	r.AdminEmail = email.Normalize(r.AdminEmail)
	r.TenantID = strings.TrimSpace(r.TenantID)
}

func (r *BackfillAdminRequest) Validate() error {
	if r.AdminEmail == "" || r.TenantID == "" {
		return dErrors.New(dErrors.CodeValidation, "admin_email and tenant_id required")
	}
	return nil
}

type TestEmailRequest struct {
	To string `json:"to"`
}

func (r *TestEmailRequest) Normalize() {
	r.To = email.Normalize(r.To)
}
