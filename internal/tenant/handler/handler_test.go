package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"a2admin/internal/tenant/deletion"
	"a2admin/internal/tenant/handler/mocks"
	"a2admin/internal/tenant/models"
	"a2admin/internal/tenant/service"
	id "a2admin/pkg/domain"
	dErrors "a2admin/pkg/domain-errors"
)

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	deleter *mocks.MockDeleter
	router  http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.deleter = mocks.NewMockDeleter(s.ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(s.service, s.deleter, logger).Register(r)
	s.router = r
}

func (s *HandlerSuite) do(method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var resp map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec, resp
}

func newTenant(name string) *models.Tenant {
	t, err := models.NewTenant(id.NewTenantID(), name, models.TenantProfile{EmailContact: "club@x.fr"}, time.Now())
	if err != nil {
		panic(err)
	}
	return t
}

func (s *HandlerSuite) TestManageSuspend() {
	tenant := newTenant("FC Lyon")
	s.Require().True(tenant.Suspend(time.Now()))
	s.service.EXPECT().SuspendTenant(gomock.Any(), tenant.ID).Return(tenant, nil)

	rec, resp := s.do(http.MethodPost, "/api/admin/tenants/manage", map[string]string{
		"tenant_id": tenant.ID.String(), "action": "suspend",
	})
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(true, resp["ok"])
	s.Equal("inactive", resp["tenant"].(map[string]any)["status"])
}

func (s *HandlerSuite) TestManageRepeatedTransitionIsIdempotent() {
	tenant := newTenant("FC Nantes")
	s.service.EXPECT().RestoreTenant(gomock.Any(), tenant.ID).Return(tenant, nil).Times(2)

	for range 2 {
		rec, resp := s.do(http.MethodPost, "/api/admin/tenants/manage", map[string]string{
			"tenant_id": tenant.ID.String(), "action": "restore",
		})
		s.Equal(http.StatusOK, rec.Code)
		s.Equal(true, resp["ok"])
		s.Equal("active", resp["tenant"].(map[string]any)["status"])
	}
}

func (s *HandlerSuite) TestManageRejectsBadInput() {
	cases := []struct {
		name    string
		body    map[string]string
		message string
	}{
		{"missing action", map[string]string{"tenant_id": uuid.NewString()}, "tenant_id and action required"},
		{"unknown action", map[string]string{"tenant_id": uuid.NewString(), "action": "archive"}, "Invalid action"},
		{"malformed tenant id", map[string]string{"tenant_id": "t1", "action": "suspend"}, "invalid tenant id"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			rec, resp := s.do(http.MethodPost, "/api/admin/tenants/manage", tc.body)
			s.Equal(http.StatusBadRequest, rec.Code)
			s.Equal(tc.message, resp["message"])
		})
	}
}

func (s *HandlerSuite) TestManageDeleteHard() {
	tenantID := id.NewTenantID()

	s.Run("success returns the report", func() {
		s.deleter.EXPECT().DeleteTenant(gomock.Any(), tenantID).Return(&deletion.Report{
			TenantID: tenantID,
			Steps:    []deletion.StepOutcome{{Step: deletion.StepDeleteTenant, Deleted: 1}},
		}, nil)

		rec, resp := s.do(http.MethodPost, "/api/admin/tenants/manage", map[string]string{
			"tenant_id": tenantID.String(), "action": "delete_hard",
		})
		s.Equal(http.StatusOK, rec.Code)
		s.Equal(true, resp["ok"])
		s.NotNil(resp["report"])
	})

	s.Run("step failure names the step", func() {
		s.deleter.EXPECT().DeleteTenant(gomock.Any(), tenantID).Return(&deletion.Report{TenantID: tenantID},
			&deletion.StepError{Step: deletion.StepDeleteSponsors, Err: errors.New("connection reset")})

		rec, resp := s.do(http.MethodPost, "/api/admin/tenants/manage", map[string]string{
			"tenant_id": tenantID.String(), "action": "delete_hard",
		})
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("delete_sponsors: connection reset", resp["message"])
	})

	s.Run("concurrent run conflicts", func() {
		s.deleter.EXPECT().DeleteTenant(gomock.Any(), tenantID).
			Return(nil, dErrors.Wrap(deletion.ErrDeletionInProgress, dErrors.CodeConflict, "tenant deletion already in progress"))

		rec, _ := s.do(http.MethodPost, "/api/admin/tenants/manage", map[string]string{
			"tenant_id": tenantID.String(), "action": "delete_hard",
		})
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("unexpected failure is a server error", func() {
		s.deleter.EXPECT().DeleteTenant(gomock.Any(), tenantID).Return(nil, errors.New("boom"))

		rec, resp := s.do(http.MethodPost, "/api/admin/tenants/manage", map[string]string{
			"tenant_id": tenantID.String(), "action": "delete_hard",
		})
		s.Equal(http.StatusInternalServerError, rec.Code)
		s.Equal("Server error", resp["message"])
	})
}

func (s *HandlerSuite) TestCreateTenant() {
	tenant := newTenant("FC Nantes")
	s.service.EXPECT().CreateTenant(gomock.Any(), service.CreateTenantCommand{
		Name:    "FC Nantes",
		Profile: models.TenantProfile{EmailContact: "club@x.fr", PrimaryColor: "#112233"},
	}).Return(tenant, nil)

	rec, resp := s.do(http.MethodPost, "/api/admin/tenants", map[string]string{
		"name": "  FC Nantes ", "email_contact": "Club@X.fr", "primary_color": "#112233",
	})
	s.Equal(http.StatusCreated, rec.Code)
	s.Equal(tenant.ID.String(), resp["tenant_id"])

	rec, resp = s.do(http.MethodPost, "/api/admin/tenants", map[string]string{"name": "x", "primary_color": "blue"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("validation_error", resp["error"])
}

func (s *HandlerSuite) TestUpdateTenantPassesOnlyProvidedFields() {
	tenant := newTenant("FC Update")
	s.service.EXPECT().UpdateTenant(gomock.Any(), tenant.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ id.TenantID, u models.TenantUpdate) (*models.Tenant, error) {
			s.Nil(u.Name)
			s.Require().NotNil(u.Phone)
			s.Equal("0102030405", *u.Phone)
			return tenant, nil
		})

	rec, _ := s.do(http.MethodPut, "/api/admin/tenants/"+tenant.ID.String(), map[string]string{"phone": " 0102030405 "})
	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlerSuite) TestGetTenant() {
	tenant := newTenant("FC Get")
	s.service.EXPECT().GetTenant(gomock.Any(), tenant.ID).Return(&models.TenantDetails{
		Tenant: tenant, AdminCount: 2, SponsorCount: 3, CampaignCount: 4,
	}, nil)

	rec, resp := s.do(http.MethodGet, "/api/admin/tenants/"+tenant.ID.String(), nil)
	s.Equal(http.StatusOK, rec.Code)
	body := resp["tenant"].(map[string]any)
	s.Equal("FC Get", body["name"])
	s.EqualValues(3, body["sponsor_count"])

	rec, _ = s.do(http.MethodGet, "/api/admin/tenants/not-a-uuid", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestListTenants() {
	s.service.EXPECT().ListTenants(gomock.Any()).Return([]*models.Tenant{newTenant("a"), newTenant("b")}, nil)

	rec, resp := s.do(http.MethodGet, "/api/admin/tenants", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Len(resp["tenants"], 2)
}

func (s *HandlerSuite) TestCreateClub() {
	res := &service.ClubProvisioned{TenantID: id.NewTenantID(), AdminUserID: id.PrincipalID(uuid.New())}
	s.service.EXPECT().CreateClub(gomock.Any(), service.CreateClubCommand{
		Name: "FC Club", AdminEmail: "admin@club.fr",
	}).Return(res, nil)

	rec, resp := s.do(http.MethodPost, "/api/admin/clubs", map[string]string{"name": "FC Club", "admin_email": "Admin@Club.fr"})
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(res.TenantID.String(), resp["tenant_id"])
	s.Equal(res.AdminUserID.String(), resp["admin_user_id"])

	rec, resp = s.do(http.MethodPost, "/api/admin/clubs", map[string]string{"name": "FC Club"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("name and admin_email required", resp["message"])

	s.service.EXPECT().CreateClub(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeDownstream, "Auth user create failed: rate limited"))
	rec, resp = s.do(http.MethodPost, "/api/admin/clubs", map[string]string{"name": "FC Club", "admin_email": "admin@club.fr"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Auth user create failed: rate limited", resp["message"])
}

func (s *HandlerSuite) TestResendInvite() {
	s.service.EXPECT().ResendInvite(gomock.Any(), "a@club.fr").Return("", nil)
	rec, resp := s.do(http.MethodPost, "/api/admin/invitations/resend", map[string]string{"admin_email": "a@club.fr"})
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(resp, "link_fallback")
	s.Nil(resp["link_fallback"])

	s.service.EXPECT().ResendInvite(gomock.Any(), "b@club.fr").Return("https://auth/recover", nil)
	_, resp = s.do(http.MethodPost, "/api/admin/invitations/resend", map[string]string{"admin_email": "b@club.fr"})
	s.Equal("https://auth/recover", resp["link_fallback"])
}

func (s *HandlerSuite) TestBackfillAdmin() {
	tenantID := id.NewTenantID()
	principalID := id.PrincipalID(uuid.New())
	s.service.EXPECT().BackfillAdmin(gomock.Any(), "late@club.fr", tenantID).Return(principalID, nil)

	rec, resp := s.do(http.MethodPost, "/api/admin/memberships/backfill", map[string]string{
		"admin_email": "late@club.fr", "tenant_id": tenantID.String(),
	})
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(principalID.String(), resp["app_user_id"])

	rec, _ = s.do(http.MethodPost, "/api/admin/memberships/backfill", map[string]string{"admin_email": "late@club.fr"})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestTestEmailReportsFailure() {
	s.service.EXPECT().SendTestEmail(gomock.Any(), "ops@a2display.fr").
		Return(dErrors.New(dErrors.CodeDownstream, "email send failed: postmark error"))

	rec, resp := s.do(http.MethodPost, "/api/admin/email/test", map[string]string{"to": "ops@a2display.fr"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("downstream_failure", resp["error"])

	s.service.EXPECT().SendTestEmail(gomock.Any(), "").Return(nil)
	rec, resp = s.do(http.MethodPost, "/api/admin/email/test", map[string]string{})
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(true, resp["ok"])
}

func (s *HandlerSuite) TestMalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/tenants/manage", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)
}
