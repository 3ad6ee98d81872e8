package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"a2admin/internal/club"
	"a2admin/internal/identity"
	jwttoken "a2admin/internal/jwt_token"
	"a2admin/internal/platform/datastore"
	"a2admin/internal/platform/health"
	"a2admin/internal/tenant/deletion"
	tenanthandler "a2admin/internal/tenant/handler"
	"a2admin/internal/tenant/models"
	"a2admin/internal/tenant/service"
	"a2admin/internal/tenant/store/membership"
	tenantstore "a2admin/internal/tenant/store/tenant"
	"a2admin/internal/tenantctx"
	id "a2admin/pkg/domain"
	"a2admin/pkg/platform/middleware/admin"
)

const (
	testSecret = "router-test-secret"
	opsToken   = "ops-secret"
	deviceID   = "laptop-1"
)

type RouterSuite struct {
	suite.Suite
	router http.Handler
	jwt    *jwttoken.JWTService
	club   *models.Tenant

	otherClub *models.Tenant

	superToken     string
	clubToken      string
	otherClubToken string
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)
	ds := datastore.NewMemory(datastore.DefaultSchema)
	tenants := tenantstore.NewTableStore(ds)
	memberships := membership.NewTableStore(ds)
	accounts := identity.NewInMemoryDirectory()

	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	var err error
	s.club, err = models.NewTenant(id.NewTenantID(), "US Concarneau", models.TenantProfile{}, now)
	s.Require().NoError(err)
	s.Require().NoError(tenants.CreateIfNameAvailable(ctx, s.club))
	s.otherClub, err = models.NewTenant(id.NewTenantID(), "Stade Brestois", models.TenantProfile{}, now)
	s.Require().NoError(err)
	s.Require().NoError(tenants.CreateIfNameAvailable(ctx, s.otherClub))

	superID := id.PrincipalID(uuid.New())
	clubID := id.PrincipalID(uuid.New())
	superAssignment, err := models.NewRoleAssignment(superID, "root@a2display.fr", models.RoleSuperAdmin, id.TenantID{}, now)
	s.Require().NoError(err)
	clubAssignment, err := models.NewRoleAssignment(clubID, "admin@usc.fr", models.RoleClubAdmin, s.club.ID, now)
	s.Require().NoError(err)
	s.Require().NoError(memberships.Upsert(ctx, superAssignment))
	s.Require().NoError(memberships.Upsert(ctx, clubAssignment))
	otherID := id.PrincipalID(uuid.New())
	otherAssignment, err := models.NewRoleAssignment(otherID, "admin@brest.fr", models.RoleClubAdmin, s.otherClub.ID, now)
	s.Require().NoError(err)
	s.Require().NoError(memberships.Upsert(ctx, otherAssignment))

	s.jwt = jwttoken.NewJWTService(testSecret, jwttoken.DefaultAudience, time.Hour)
	s.superToken, err = s.jwt.GenerateAccessToken(ctx, superID, "root@a2display.fr")
	s.Require().NoError(err)
	s.clubToken, err = s.jwt.GenerateAccessToken(ctx, clubID, "admin@usc.fr")
	s.Require().NoError(err)
	s.otherClubToken, err = s.jwt.GenerateAccessToken(ctx, otherID, "admin@brest.fr")
	s.Require().NoError(err)

	kv := tenantctx.NewMemoryKV()
	lookup := tenantctx.NewStoreRoleLookup(memberships, tenants)
	sessions := tenantctx.NewSessions(kv, lookup, tenantctx.WithResolverOptions(tenantctx.WithResolverLogger(logger)))

	s.router = NewRouter(Dependencies{
		Verifier:       jwttoken.NewVerifierAdapter(s.jwt),
		Roles:          memberships,
		Overrides:      kv,
		RoleLookup:     lookup,
		Tenants:        tenanthandler.New(service.New(tenants, memberships, accounts, service.WithRecordCounter(ds)), deletion.New(ds, accounts), logger),
		TenantContext:  tenantctx.NewHandler(sessions, memberships, tenants, logger),
		Club:           club.NewHandler(club.NewService(ds), logger),
		Health:         health.New("test"),
		OpsToken:       opsToken,
		RequestTimeout: 5 * time.Second,
		AdminTimeout:   10 * time.Second,
	}, logger)
}

func (s *RouterSuite) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-ID", deviceID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func (s *RouterSuite) TestLiveness() {
	rec, body := s.do(http.MethodGet, "/health/live", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("alive", body["status"])
	s.NotEmpty(rec.Header().Get("X-Request-ID"))
}

func (s *RouterSuite) TestMetricsRequireOpsToken() {
	rec, _ := s.do(http.MethodGet, "/metrics", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set(admin.OpsTokenHeader, opsToken)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterSuite) TestTenantContextIsPublic() {
	rec, body := s.do(http.MethodGet, "/api/tenant-context", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("no_session", body["reason"])
}

func (s *RouterSuite) TestForgedTokenIsAnonymousOnTenantContext() {
	forged := jwttoken.NewJWTService("other-secret", jwttoken.DefaultAudience, time.Hour)
	token, err := forged.GenerateAccessToken(context.Background(), id.PrincipalID(uuid.New()), "x@y.fr")
	s.Require().NoError(err)

	rec, body := s.do(http.MethodGet, "/api/tenant-context", token, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("no_session", body["reason"])

	rec, _ = s.do(http.MethodGet, "/api/club/overview", token, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RouterSuite) TestAdminRoutesRequireSuperAdmin() {
	rec, _ := s.do(http.MethodGet, "/api/admin/tenants", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/admin/tenants", s.clubToken, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	rec, body := s.do(http.MethodGet, "/api/admin/tenants", s.superToken, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(true, body["ok"])
}

func (s *RouterSuite) TestClubOverviewForClubAdmin() {
	rec, body := s.do(http.MethodGet, "/api/club/overview", s.clubToken, nil)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(s.club.ID.String(), body["tenant_id"])
	s.Equal("US Concarneau", body["tenant_name"])
	s.Equal(false, body["is_impersonating"])
}

func (s *RouterSuite) TestClubOverviewForSuperAdminNeedsSelection() {
	rec, body := s.do(http.MethodGet, "/api/club/overview", s.superToken, nil)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal(tenantctx.RedirectAdmin, body["redirect"])

	rec, _ = s.do(http.MethodPut, "/api/tenant-context", s.superToken, map[string]string{"tenant_id": s.club.ID.String()})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec, body = s.do(http.MethodGet, "/api/club/overview", s.superToken, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(true, body["is_impersonating"])

	rec, _ = s.do(http.MethodPost, "/api/session/signout", s.superToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/club/overview", s.superToken, nil)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *RouterSuite) TestSelectionDoesNotLeakToOtherPrincipalsOnTheSameDevice() {
	ctx := context.Background()
	rec, _ := s.do(http.MethodPut, "/api/tenant-context", s.superToken, map[string]string{"tenant_id": s.club.ID.String()})
	s.Require().Equal(http.StatusOK, rec.Code)

	unlinked, err := s.jwt.GenerateAccessToken(ctx, id.PrincipalID(uuid.New()), "nobody@elsewhere.fr")
	s.Require().NoError(err)
	rec, body := s.do(http.MethodGet, "/api/club/overview", unlinked, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(tenantctx.RedirectLogin, body["redirect"])

	rec, body = s.do(http.MethodGet, "/api/club/overview", s.otherClubToken, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(s.otherClub.ID.String(), body["tenant_id"])
	s.Equal(false, body["is_impersonating"])

	rec, body = s.do(http.MethodGet, "/api/club/overview", s.superToken, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(s.club.ID.String(), body["tenant_id"])
}

func (s *RouterSuite) TestAnonymousSignOutKeepsSelection() {
	rec, _ := s.do(http.MethodPut, "/api/tenant-context", s.superToken, map[string]string{"tenant_id": s.club.ID.String()})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/session/signout", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/session/signout", s.otherClubToken, nil)
	s.Equal(http.StatusOK, rec.Code)

	rec, body := s.do(http.MethodGet, "/api/club/overview", s.superToken, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(true, body["is_impersonating"])
}
