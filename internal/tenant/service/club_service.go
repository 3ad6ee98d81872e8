package service

import (
	"context"
	"strings"

	"a2admin/internal/audit"
	"a2admin/internal/email"
	"a2admin/internal/identity"
	"a2admin/internal/tenant/models"
	id "a2admin/pkg/domain"
	dErrors "a2admin/pkg/domain-errors"
	"a2admin/pkg/requestcontext"
)

const defaultTestRecipient = "test@a2display.fr"

// CreateClubCommand provisions a club and its first administrator.
type CreateClubCommand struct {
	Name         string
	EmailContact string
	Phone        string
	Address      string
	AdminEmail   string
}

// ClubProvisioned identifies the records CreateClub touched.
type ClubProvisioned struct {
	TenantID    id.TenantID
	AdminUserID id.PrincipalID
}

// CreateClub upserts the tenant by name, creates or reuses the admin's
// identity account, links it as club_admin and sends a welcome email in the
// background.
func (s *TenantService) CreateClub(ctx context.Context, cmd CreateClubCommand) (*ClubProvisioned, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.AdminEmail = email.Normalize(cmd.AdminEmail)
	if cmd.Name == "" || cmd.AdminEmail == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name and admin_email required")
	}

	tenant, err := s.upsertTenantByName(ctx, cmd)
	if err != nil {
		return nil, err
	}

	account, err := s.ensureClubAdminAccount(ctx, cmd.AdminEmail)
	if err != nil {
		return nil, err
	}

	assignment, err := models.NewRoleAssignment(account.ID, cmd.AdminEmail, models.RoleClubAdmin, tenant.ID, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.memberships.Upsert(ctx, assignment); err != nil {
		return nil, wrapDownstream(err, "app_users upsert failed")
	}
	s.emitClubAdminProvisioned(ctx, models.ClubAdminProvisioned{
		TenantID:    tenant.ID,
		PrincipalID: account.ID,
		Email:       cmd.AdminEmail,
	})

	if s.notifier != nil {
		s.notifier.WelcomeClubAdmin(ctx, email.WelcomeParams{
			AdminEmail:    cmd.AdminEmail,
			TenantName:    tenant.Name,
			TenantContact: tenant.EmailContact,
		})
	}

	return &ClubProvisioned{TenantID: tenant.ID, AdminUserID: account.ID}, nil
}

// upsertTenantByName reuses an existing club with the same name, refreshing
// its contact fields and reactivating it.
func (s *TenantService) upsertTenantByName(ctx context.Context, cmd CreateClubCommand) (*models.Tenant, error) {
	now := requestcontext.Now(ctx)
	existing, err := s.tenants.FindByName(ctx, cmd.Name)
	if err == nil {
		// Name is unchanged so Apply cannot fail.
		_ = existing.Apply(models.TenantUpdate{
			EmailContact: &cmd.EmailContact,
			Phone:        &cmd.Phone,
			Address:      &cmd.Address,
		}, now)
		existing.Status = models.TenantStatusActive
		if err := s.tenants.Update(ctx, existing); err != nil {
			return nil, wrapDownstream(err, "tenants upsert failed")
		}
		return existing, nil
	}
	if !isNotFound(err) {
		return nil, wrapDownstream(err, "tenants upsert failed")
	}

	t, err := models.NewTenant(id.NewTenantID(), cmd.Name, models.TenantProfile{
		EmailContact: cmd.EmailContact,
		Phone:        cmd.Phone,
		Address:      cmd.Address,
	}, now)
	if err != nil {
		return nil, err
	}
	if err := s.tenants.CreateIfNameAvailable(ctx, t); err != nil {
		return nil, wrapDownstream(err, "tenants upsert failed")
	}
	s.emitTenantCreated(ctx, models.TenantCreated{TenantID: t.ID, Name: t.Name})
	return t, nil
}

// ensureClubAdminAccount creates the account, falling back to an existing
// account with the same email when creation is refused.
func (s *TenantService) ensureClubAdminAccount(ctx context.Context, adminEmail string) (identity.Account, error) {
	created, createErr := s.accounts.CreateAccount(ctx, identity.CreateAccountRequest{
		Email:      adminEmail,
		Role:       string(models.RoleClubAdmin),
		RedirectTo: s.loginURL,
	})
	if createErr == nil {
		return created, nil
	}

	found, err := s.findAccount(ctx, adminEmail)
	if err != nil {
		return identity.Account{}, dErrors.Wrap(createErr, dErrors.CodeDownstream, "Auth user create failed: "+createErr.Error())
	}
	if err := s.accounts.SetAccountRole(ctx, found.ID, string(models.RoleClubAdmin)); err != nil {
		s.logger.WarnContext(ctx, "could not set club_admin role on existing account",
			"error", err,
			"principal_id", found.ID.String(),
		)
	}
	return found, nil
}

// ResendInvite re-sends the identity provider invitation. When the provider
// refuses (typically because the account is already confirmed) a recovery
// link is generated instead and returned to the caller.
func (s *TenantService) ResendInvite(ctx context.Context, adminEmail string) (string, error) {
	adminEmail = email.Normalize(adminEmail)
	if adminEmail == "" {
		return "", dErrors.New(dErrors.CodeValidation, "admin_email required")
	}

	var fallback string
	if err := s.accounts.InviteByEmail(ctx, adminEmail, s.loginURL); err != nil {
		s.logger.InfoContext(ctx, "invite refused, generating recovery link", "error", err)
		link, err := s.accounts.GenerateRecoveryLink(ctx, adminEmail, s.loginURL)
		if err != nil {
			return "", wrapDownstream(err, "recovery link failed")
		}
		fallback = link
	}

	if s.notifier != nil {
		s.notifier.ActivationLink(ctx, adminEmail, fallback)
	}
	s.audit.Log(ctx, audit.Event{Action: string(audit.EventInviteResent), Email: adminEmail})
	return fallback, nil
}

// BackfillAdmin links an existing identity account to a tenant as club_admin.
func (s *TenantService) BackfillAdmin(ctx context.Context, adminEmail string, tenantID id.TenantID) (id.PrincipalID, error) {
	adminEmail = email.Normalize(adminEmail)
	if adminEmail == "" || tenantID.IsNil() {
		return id.PrincipalID{}, dErrors.New(dErrors.CodeValidation, "admin_email and tenant_id required")
	}
	if _, err := s.tenants.FindByID(ctx, tenantID); err != nil {
		return id.PrincipalID{}, wrapTenantErr(err, "failed to load tenant")
	}

	account, err := s.findAccount(ctx, adminEmail)
	if err != nil {
		return id.PrincipalID{}, err
	}
	assignment, err := models.NewRoleAssignment(account.ID, adminEmail, models.RoleClubAdmin, tenantID, requestcontext.Now(ctx))
	if err != nil {
		return id.PrincipalID{}, err
	}
	if err := s.memberships.Upsert(ctx, assignment); err != nil {
		return id.PrincipalID{}, wrapDownstream(err, "app_users upsert failed")
	}
	s.audit.Log(ctx, audit.Event{
		Action:   string(audit.EventUserBackfilled),
		TenantID: tenantID.String(),
		Subject:  account.ID.String(),
		Email:    adminEmail,
	})
	return account.ID, nil
}

// SendTestEmail checks email delivery end to end. Unlike the workflow
// emails, the delivery error is returned.
func (s *TenantService) SendTestEmail(ctx context.Context, to string) error {
	to = email.Normalize(to)
	if to == "" {
		to = defaultTestRecipient
	}
	if !email.IsValidEmail(to) {
		return dErrors.New(dErrors.CodeValidation, "invalid recipient")
	}
	if s.notifier == nil {
		return dErrors.New(dErrors.CodeInternal, "email is not configured")
	}
	if err := s.notifier.SendTest(ctx, to); err != nil {
		return wrapDownstream(err, "email send failed")
	}
	return nil
}

func (s *TenantService) findAccount(ctx context.Context, adminEmail string) (identity.Account, error) {
	accounts, err := s.accounts.ListAccountsByEmail(ctx, adminEmail)
	if err != nil {
		return identity.Account{}, wrapDownstream(err, "account lookup failed")
	}
	for _, acc := range accounts {
		if strings.EqualFold(acc.Email, adminEmail) {
			return acc, nil
		}
	}
	return identity.Account{}, dErrors.New(dErrors.CodeNotFound, "Auth user not found")
}

func (s *TenantService) emitClubAdminProvisioned(ctx context.Context, e models.ClubAdminProvisioned) {
	s.audit.Log(ctx, audit.Event{
		Action:   string(audit.EventClubAdminProvisioned),
		TenantID: e.TenantID.String(),
		Subject:  e.PrincipalID.String(),
		Email:    e.Email,
	})
}
