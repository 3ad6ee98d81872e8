// Package httptransport assembles the console's HTTP surface: global
// middleware, probes, metrics and the per-module route groups.
package httptransport

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"a2admin/internal/club"
	"a2admin/internal/platform/health"
	"a2admin/internal/tenant/authz"
	tenanthandler "a2admin/internal/tenant/handler"
	"a2admin/internal/tenantctx"
	"a2admin/pkg/platform/middleware/admin"
	"a2admin/pkg/platform/middleware/auth"
	"a2admin/pkg/platform/middleware/metadata"
	request "a2admin/pkg/platform/middleware/request"
	"a2admin/pkg/platform/middleware/requesttime"
)

const maxBodyBytes = 1 << 20

// Dependencies are the handlers and guards the router mounts.
type Dependencies struct {
	Verifier   auth.TokenVerifier
	Roles      authz.RoleReader
	Overrides  tenantctx.KV
	RoleLookup tenantctx.RoleLookup

	Tenants       *tenanthandler.Handler
	TenantContext *tenantctx.Handler
	Club          *club.Handler
	Health        *health.Handler

	Metrics        *request.Metrics
	OpsToken       string
	TrustedProxies []netip.Prefix
	RequestTimeout time.Duration
	// AdminTimeout bounds privileged routes; it must outlive a tenant deletion.
	AdminTimeout time.Duration
}

func NewRouter(d Dependencies, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(metadata.NewMiddleware(&metadata.Config{TrustedProxies: d.TrustedProxies}).Handler)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(logger))
	r.Use(request.DeviceID)
	r.Use(request.BodyLimit(maxBodyBytes))
	r.Use(request.ContentTypeJSON)
	r.Use(request.LatencyMiddleware(d.Metrics, routePattern))

	d.Health.Register(r)
	r.With(admin.RequireOpsToken(d.OpsToken, logger)).Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(request.Timeout(d.RequestTimeout))
		r.Use(auth.OptionalAuth(d.Verifier, logger))
		d.TenantContext.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(request.Timeout(d.RequestTimeout))
		r.Use(auth.RequireAuth(d.Verifier, logger))
		r.Use(tenantctx.RequireActiveTenant(d.Overrides, d.RoleLookup, logger))
		d.Club.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(request.Timeout(d.AdminTimeout))
		r.Use(auth.RequireAuth(d.Verifier, logger))
		r.Use(authz.RequireSuperAdmin(d.Roles, logger))
		d.Tenants.Register(r)
	})

	return r
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		return rc.RoutePattern()
	}
	return ""
}
