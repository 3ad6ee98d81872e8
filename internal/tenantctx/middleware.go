package tenantctx

import (
	"log/slog"
	"net/http"

	dErrors "a2admin/pkg/domain-errors"
	"a2admin/pkg/platform/httputil"
	"a2admin/pkg/requestcontext"
)

// Landing pages sent with tenant guard failures.
const (
	RedirectLogin = "/login"
	RedirectAdmin = "/admin"
)

// RequireActiveTenant resolves the active tenant for this request only and
// stores it in the request context. It reads the persisted override and the
// role assignment directly, so it never observes a loading state. The
// override is read under the verified principal, never the device alone.
func RequireActiveTenant(kv KV, roles RoleLookup, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			var session *requestcontext.Principal
			var override *Override
			var lookup Lookup
			if p, ok := requestcontext.PrincipalFrom(ctx); ok {
				session = &p
				if deviceID := requestcontext.DeviceID(ctx); deviceID != "" {
					o, err := NewOverrideStore(kv, sessionKey(p.ID, deviceID)).Load(ctx)
					if err != nil {
						logger.WarnContext(ctx, "failed to load tenant override", "error", err, "request_id", requestID)
					}
					override = o
				}
				if override == nil {
					native, err := roles.LookupNative(ctx, p.ID)
					if err != nil {
						logger.WarnContext(ctx, "role lookup failed",
							"error", err,
							"principal_id", p.ID.String(),
							"request_id", requestID,
						)
					}
					lookup = Lookup{Native: native, Err: err}
				}
			}

			res := Resolve(session, override, lookup)
			switch {
			case res.State == StateResolved:
				ctx = requestcontext.WithActiveTenant(ctx, requestcontext.ActiveTenant{
					ID:            res.TenantID,
					Name:          res.TenantName,
					Impersonating: res.Impersonating,
				})
				next.ServeHTTP(w, r.WithContext(ctx))
			case res.Reason == ReasonNoOverrideNoNativeTenant:
				httputil.WriteErrorWithRedirect(w, dErrors.New(dErrors.CodeForbidden, "Select a club first"), RedirectAdmin)
			case res.Reason == ReasonRoleLookupFailed:
				httputil.WriteErrorWithRedirect(w, dErrors.New(dErrors.CodeUnauthorized, "Account is not linked to a club"), RedirectLogin)
			default:
				httputil.WriteErrorWithRedirect(w, dErrors.New(dErrors.CodeUnauthorized, "Missing token"), RedirectLogin)
			}
		})
	}
}
