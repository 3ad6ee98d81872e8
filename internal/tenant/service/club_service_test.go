package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"a2admin/internal/email"
	"a2admin/internal/identity"
	"a2admin/internal/identity/mocks"
	"a2admin/internal/tenant/models"
	id "a2admin/pkg/domain"
	dErrors "a2admin/pkg/domain-errors"
)

func (s *ServiceSuite) TestCreateClub() {
	ctx := context.Background()

	s.Run("requires name and admin email", func() {
		_, err := s.service.CreateClub(ctx, CreateClubCommand{Name: "FC"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("provisions tenant account and membership", func() {
		res, err := s.service.CreateClub(ctx, CreateClubCommand{
			Name:         "FC Nantes",
			EmailContact: "contact@fcnantes.fr",
			AdminEmail:   "Admin@FCNantes.fr",
		})
		s.Require().NoError(err)

		tenant, err := s.tenants.FindByID(ctx, res.TenantID)
		s.Require().NoError(err)
		s.Equal("contact@fcnantes.fr", tenant.EmailContact)

		a, err := s.memberships.FindByPrincipal(ctx, res.AdminUserID)
		s.Require().NoError(err)
		s.Equal(models.RoleClubAdmin, a.Role)
		s.Equal(res.TenantID, a.TenantID)
		s.Equal("admin@fcnantes.fr", a.Email)

		s.Require().Len(s.notifier.welcomes, 1)
		s.Equal(email.WelcomeParams{
			AdminEmail:    "admin@fcnantes.fr",
			TenantName:    "FC Nantes",
			TenantContact: "contact@fcnantes.fr",
		}, s.notifier.welcomes[0])
	})

	s.Run("reuses tenant by name and existing account", func() {
		first, err := s.service.CreateClub(ctx, CreateClubCommand{Name: "FC Reuse", AdminEmail: "a@reuse.fr"})
		s.Require().NoError(err)
		_, err = s.service.SuspendTenant(ctx, first.TenantID)
		s.Require().NoError(err)

		second, err := s.service.CreateClub(ctx, CreateClubCommand{Name: "fc reuse", AdminEmail: "a@reuse.fr", Phone: "0600000000"})
		s.Require().NoError(err)
		s.Equal(first.TenantID, second.TenantID)
		s.Equal(first.AdminUserID, second.AdminUserID)

		tenant, err := s.tenants.FindByID(ctx, first.TenantID)
		s.Require().NoError(err)
		s.True(tenant.IsActive())
		s.Equal("0600000000", tenant.Phone)
	})
}

func (s *ServiceSuite) TestCreateClubAccountFailures() {
	ctx := context.Background()
	ctrl := gomock.NewController(s.T())
	accounts := mocks.NewMockAccountAdmin(ctrl)
	svc := s.newService(accounts)

	s.Run("create refused and no existing account", func() {
		accounts.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).
			Return(identity.Account{}, errors.New("email rate limit exceeded"))
		accounts.EXPECT().ListAccountsByEmail(gomock.Any(), "admin@club.fr").Return(nil, nil)

		_, err := svc.CreateClub(ctx, CreateClubCommand{Name: "FC Fail", AdminEmail: "admin@club.fr"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeDownstream))
		s.Contains(err.Error(), "Auth user create failed: email rate limit exceeded")
	})

	s.Run("role update failure on existing account is tolerated", func() {
		existing := identity.Account{ID: id.PrincipalID(uuid.New()), Email: "admin@club.fr"}
		accounts.EXPECT().CreateAccount(gomock.Any(), identity.CreateAccountRequest{
			Email: "admin@club.fr", Role: "club_admin", RedirectTo: loginURL,
		}).Return(identity.Account{}, errors.New("already registered"))
		accounts.EXPECT().ListAccountsByEmail(gomock.Any(), "admin@club.fr").Return([]identity.Account{existing}, nil)
		accounts.EXPECT().SetAccountRole(gomock.Any(), existing.ID, "club_admin").Return(errors.New("boom"))

		res, err := svc.CreateClub(ctx, CreateClubCommand{Name: "FC Existing", AdminEmail: "admin@club.fr"})
		s.Require().NoError(err)
		s.Equal(existing.ID, res.AdminUserID)
	})
}

func (s *ServiceSuite) TestResendInvite() {
	ctx := context.Background()

	s.Run("invite succeeds without fallback link", func() {
		link, err := s.service.ResendInvite(ctx, "Admin@Club.fr")
		s.Require().NoError(err)
		s.Empty(link)
		s.Contains(s.directory.Invited(), "admin@club.fr")
		s.Equal("", s.notifier.activations["admin@club.fr"])
	})

	s.Run("missing email", func() {
		_, err := s.service.ResendInvite(ctx, " ")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	ctrl := gomock.NewController(s.T())
	accounts := mocks.NewMockAccountAdmin(ctrl)
	svc := s.newService(accounts)

	s.Run("falls back to recovery link", func() {
		accounts.EXPECT().InviteByEmail(gomock.Any(), "done@club.fr", loginURL).Return(errors.New("already confirmed"))
		accounts.EXPECT().GenerateRecoveryLink(gomock.Any(), "done@club.fr", loginURL).Return("https://auth/recover?t=1", nil)

		link, err := svc.ResendInvite(ctx, "done@club.fr")
		s.Require().NoError(err)
		s.Equal("https://auth/recover?t=1", link)
		s.Equal("https://auth/recover?t=1", s.notifier.activations["done@club.fr"])
	})

	s.Run("recovery failure is reported", func() {
		accounts.EXPECT().InviteByEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("nope"))
		accounts.EXPECT().GenerateRecoveryLink(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("user not found"))

		_, err := svc.ResendInvite(ctx, "ghost@club.fr")
		s.True(dErrors.HasCode(err, dErrors.CodeDownstream))
		s.Contains(err.Error(), "user not found")
	})
}

func (s *ServiceSuite) TestBackfillAdmin() {
	ctx := context.Background()
	tenant, err := s.service.CreateTenant(ctx, CreateTenantCommand{Name: "FC Backfill"})
	s.Require().NoError(err)

	s.Run("unknown account", func() {
		_, err := s.service.BackfillAdmin(ctx, "nobody@club.fr", tenant.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Contains(err.Error(), "Auth user not found")
	})

	s.Run("unknown tenant", func() {
		_, err := s.service.BackfillAdmin(ctx, "nobody@club.fr", id.NewTenantID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("links existing account", func() {
		acc := identity.Account{ID: id.PrincipalID(uuid.New()), Email: "late@club.fr"}
		s.directory.Add(acc)

		principal, err := s.service.BackfillAdmin(ctx, "LATE@club.fr", tenant.ID)
		s.Require().NoError(err)
		s.Equal(acc.ID, principal)

		a, err := s.memberships.FindByPrincipal(ctx, acc.ID)
		s.Require().NoError(err)
		s.Equal(tenant.ID, a.TenantID)
	})
}

func (s *ServiceSuite) TestSendTestEmail() {
	ctx := context.Background()

	s.Require().NoError(s.service.SendTestEmail(ctx, ""))
	s.Equal([]string{"test@a2display.fr"}, s.notifier.tests)

	s.notifier.testErr = email.ErrSendFailed
	err := s.service.SendTestEmail(ctx, "ops@a2display.fr")
	s.True(dErrors.HasCode(err, dErrors.CodeDownstream))

	err = s.service.SendTestEmail(ctx, "not-an-email")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}
