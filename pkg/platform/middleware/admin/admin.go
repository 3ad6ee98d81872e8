// Package admin guards operational endpoints (metrics, diagnostics) with a
// static ops token. User-facing admin routes use bearer auth instead.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	dErrors "a2admin/pkg/domain-errors"
	"a2admin/pkg/platform/httputil"
	"a2admin/pkg/requestcontext"
)

// OpsTokenHeader carries the ops token.
const OpsTokenHeader = "X-Ops-Token"

// RequireOpsToken rejects requests whose X-Ops-Token does not match expectedToken.
// An empty expectedToken leaves the endpoint open, which is the dev default.
func RequireOpsToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if expectedToken == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(OpsTokenHeader)
			if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				ctx := r.Context()
				logger.WarnContext(ctx, "ops token mismatch",
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "ops token required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
