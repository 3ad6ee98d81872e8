// Package authz builds the AuthorizationContext for privileged routes.
package authz

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"a2admin/internal/sentinel"
	"a2admin/internal/tenant/models"
	id "a2admin/pkg/domain"
	dErrors "a2admin/pkg/domain-errors"
	"a2admin/pkg/platform/httputil"
	"a2admin/pkg/requestcontext"
)

// RoleReader loads the stored role assignment of a principal.
type RoleReader interface {
	FindByPrincipal(ctx context.Context, principalID id.PrincipalID) (*models.RoleAssignment, error)
}

// RequireSuperAdmin must run after auth.RequireAuth. The role is read from
// storage on every request; token claims are never trusted for it.
func RequireSuperAdmin(roles RoleReader, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			principal, ok := requestcontext.PrincipalFrom(ctx)
			if !ok {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing token"))
				return
			}

			assignment, err := roles.FindByPrincipal(ctx, principal.ID)
			if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
				logger.ErrorContext(ctx, "role lookup failed",
					"error", err,
					"principal_id", principal.ID.String(),
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "role lookup failed"))
				return
			}
			if assignment == nil || assignment.Role != models.RoleSuperAdmin {
				logger.WarnContext(ctx, "forbidden - super_admin required",
					"principal_id", principal.ID.String(),
					"path", r.URL.Path,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "Forbidden: super_admin only"))
				return
			}

			ctx = models.WithAuthorization(ctx, models.NewAuthorizationContext(principal, assignment))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
