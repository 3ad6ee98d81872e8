package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"a2admin/internal/audit"
	"a2admin/internal/platform/datastore"
	"a2admin/internal/tenant/models"
	id "a2admin/pkg/domain"
	dErrors "a2admin/pkg/domain-errors"
)

func (s *ServiceSuite) TestCreateTenant() {
	ctx := context.Background()

	s.Run("rejects empty and long names", func() {
		_, err := s.service.CreateTenant(ctx, CreateTenantCommand{Name: ""})
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

		_, err = s.service.CreateTenant(ctx, CreateTenantCommand{Name: strings.Repeat("x", 129)})
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("duplicate name is a conflict", func() {
		_, err := s.service.CreateTenant(ctx, CreateTenantCommand{Name: "Acme"})
		s.Require().NoError(err)

		_, err = s.service.CreateTenant(ctx, CreateTenantCommand{Name: "acme"})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Contains(s.auditActions(), string(audit.EventTenantCreated))
}

func (s *ServiceSuite) TestSuspendRestore() {
	ctx := context.Background()
	t, err := s.service.CreateTenant(ctx, CreateTenantCommand{Name: "FC Suspend"})
	s.Require().NoError(err)

	suspended, err := s.service.SuspendTenant(ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(models.TenantStatusInactive, suspended.Status)

	again, err := s.service.SuspendTenant(ctx, t.ID)
	s.Require().NoError(err, "second suspend is idempotent")
	s.Equal(models.TenantStatusInactive, again.Status)

	restored, err := s.service.RestoreTenant(ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(models.TenantStatusActive, restored.Status)

	again, err = s.service.RestoreTenant(ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(models.TenantStatusActive, again.Status)

	actions := s.auditActions()
	s.Equal(1, countOf(actions, string(audit.EventTenantSuspended)), "no-op transitions are not audited")
	s.Equal(1, countOf(actions, string(audit.EventTenantRestored)))

	_, err = s.service.SuspendTenant(ctx, id.NewTenantID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.service.SuspendTenant(ctx, id.TenantID{})
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *ServiceSuite) TestUpdateTenant() {
	ctx := context.Background()
	t, err := s.service.CreateTenant(ctx, CreateTenantCommand{Name: "FC Update"})
	s.Require().NoError(err)

	s.Run("empty update rejected", func() {
		_, err := s.service.UpdateTenant(ctx, t.ID, models.TenantUpdate{})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("partial update persists", func() {
		color := "#123456"
		updated, err := s.service.UpdateTenant(ctx, t.ID, models.TenantUpdate{PrimaryColor: &color})
		s.Require().NoError(err)
		s.Equal("#123456", updated.PrimaryColor)

		stored, err := s.tenants.FindByID(ctx, t.ID)
		s.Require().NoError(err)
		s.Equal("#123456", stored.PrimaryColor)
		s.Equal("FC Update", stored.Name)
	})
}

func (s *ServiceSuite) TestGetTenantCounts() {
	ctx := context.Background()
	t, err := s.service.CreateTenant(ctx, CreateTenantCommand{Name: "FC Counts"})
	s.Require().NoError(err)
	s.Require().NoError(s.ds.Insert(ctx, datastore.TableSponsors, datastore.Row{"id": uuid.NewString(), "tenant_id": t.ID.String()}))
	s.Require().NoError(s.ds.Insert(ctx, datastore.TableCampaigns, datastore.Row{"id": uuid.NewString(), "tenant_id": t.ID.String()}))
	s.Require().NoError(s.ds.Insert(ctx, datastore.TableCampaigns, datastore.Row{"id": uuid.NewString(), "tenant_id": t.ID.String()}))

	details, err := s.service.GetTenant(ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(1, details.SponsorCount)
	s.Equal(2, details.CampaignCount)
	s.Equal(0, details.AdminCount)
}

type failingCounter struct {
	table string
	err   error
	inner RecordCounter
}

func (f failingCounter) Count(ctx context.Context, table string, filters ...datastore.Filter) (int64, error) {
	if table == f.table {
		return 0, f.err
	}
	return f.inner.Count(ctx, table, filters...)
}

func (s *ServiceSuite) TestGetTenantCountFailure() {
	ctx := context.Background()
	t, err := s.service.CreateTenant(ctx, CreateTenantCommand{Name: "FC Broken Counts"})
	s.Require().NoError(err)

	svc := New(s.tenants, s.memberships, s.directory,
		WithRecordCounter(failingCounter{table: datastore.TableCampaigns, err: errors.New("db down"), inner: s.ds}))
	_, err = svc.GetTenant(ctx, t.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Contains(err.Error(), "failed to count campaigns")

	_, err = svc.GetTenant(ctx, id.NewTenantID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound), "a missing tenant is reported before any count runs")
}

func (s *ServiceSuite) TestListTenants() {
	ctx := context.Background()
	for _, name := range []string{"b", "a"} {
		_, err := s.service.CreateTenant(ctx, CreateTenantCommand{Name: name})
		s.Require().NoError(err)
	}
	list, err := s.service.ListTenants(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("a", list[0].Name)
}

func countOf(values []string, want string) int {
	var n int
	for _, v := range values {
		if v == want {
			n++
		}
	}
	return n
}
