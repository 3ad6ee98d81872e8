package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	id "a2admin/pkg/domain"
	dErrors "a2admin/pkg/domain-errors"
	"a2admin/pkg/platform/httputil"
	"a2admin/pkg/requestcontext"
)

// TokenVerifier validates a bearer access token issued by the identity provider.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*Claims, error)
}

// Claims are the access token claims the console relies on.
type Claims struct {
	Subject string
	Email   string
}

// principalFromClaims converts the raw subject claim into a typed principal.
func principalFromClaims(claims *Claims) (requestcontext.Principal, error) {
	principalID, err := id.ParsePrincipalID(claims.Subject)
	if err != nil {
		return requestcontext.Principal{}, fmt.Errorf("invalid sub: %w", err)
	}
	if principalID.IsNil() {
		return requestcontext.Principal{}, fmt.Errorf("invalid sub: nil principal")
	}
	return requestcontext.Principal{ID: principalID, Email: strings.ToLower(claims.Email)}, nil
}

func bearerToken(r *http.Request) (string, bool) {
	return strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
}

// authenticate verifies the bearer token and returns the principal behind it.
// The returned message is safe to send to the client.
func authenticate(r *http.Request, verifier TokenVerifier, logger *slog.Logger) (requestcontext.Principal, string, bool) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	token, ok := bearerToken(r)
	if !ok || strings.TrimSpace(token) == "" {
		logger.WarnContext(ctx, "unauthorized access - missing token",
			"request_id", requestID,
		)
		return requestcontext.Principal{}, "Missing token", false
	}

	claims, err := verifier.VerifyToken(ctx, token)
	if err != nil {
		logger.WarnContext(ctx, "unauthorized access - invalid token",
			"error", err,
			"request_id", requestID,
		)
		return requestcontext.Principal{}, "Invalid session", false
	}

	principal, err := principalFromClaims(claims)
	if err != nil {
		logger.WarnContext(ctx, "unauthorized access - malformed token claims",
			"error", err,
			"request_id", requestID,
		)
		return requestcontext.Principal{}, "Invalid session", false
	}
	return principal, "", true
}

// RequireAuth returns middleware that verifies the bearer token and stores the
// principal in the request context. Requests without a valid token get 401.
func RequireAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, msg, ok := authenticate(r, verifier, logger)
			if !ok {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, msg))
				return
			}
			ctx := requestcontext.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the principal when a valid bearer token is present and
// lets the request through anonymously otherwise. Handlers that report
// "no session" as a regular answer sit behind it.
func OptionalAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, present := bearerToken(r); !present {
				next.ServeHTTP(w, r)
				return
			}
			principal, _, ok := authenticate(r, verifier, logger)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			ctx := requestcontext.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
