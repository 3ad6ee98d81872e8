package tenantctx

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"a2admin/internal/sentinel"
	"a2admin/internal/tenant/models"
	id "a2admin/pkg/domain"
	dErrors "a2admin/pkg/domain-errors"
	"a2admin/pkg/platform/httputil"
	request "a2admin/pkg/platform/middleware/request"
	"a2admin/pkg/requestcontext"
)

// ResolutionResponse is the JSON form of a Resolution.
type ResolutionResponse struct {
	OK              bool   `json:"ok"`
	State           State  `json:"state"`
	TenantID        string `json:"tenant_id,omitempty"`
	TenantName      string `json:"tenant_name,omitempty"`
	IsImpersonating bool   `json:"is_impersonating"`
	Reason          Reason `json:"reason,omitempty"`
}

func toResolutionResponse(res Resolution) ResolutionResponse {
	out := ResolutionResponse{OK: true, State: res.State, Reason: res.Reason}
	if res.State == StateResolved {
		out.TenantID = res.TenantID.String()
		out.TenantName = res.TenantName
		out.IsImpersonating = res.Impersonating
	}
	return out
}

type SetOverrideRequest struct {
	TenantID   string `json:"tenant_id"`
	TenantName string `json:"tenant_name"`
}

func (r *SetOverrideRequest) Normalize() {
	r.TenantID = strings.TrimSpace(r.TenantID)
	r.TenantName = strings.TrimSpace(r.TenantName)
}

func (r *SetOverrideRequest) Validate() error {
	if r.TenantID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "tenant_id required")
	}
	return nil
}

// Handler serves the device's tenant context. Routes sit behind
// auth.OptionalAuth: an anonymous GET is a regular no_session answer.
type Handler struct {
	sessions    *Sessions
	memberships MembershipReader
	tenants     TenantReader
	logger      *slog.Logger
}

func NewHandler(sessions *Sessions, memberships MembershipReader, tenants TenantReader, logger *slog.Logger) *Handler {
	return &Handler{sessions: sessions, memberships: memberships, tenants: tenants, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/api/tenant-context", h.HandleGet)
	r.Put("/api/tenant-context", h.HandleSetOverride)
	r.Delete("/api/tenant-context", h.HandleClearOverride)
	r.Post("/api/session/signout", h.HandleSignOut)
}

func bearer(r *http.Request) string {
	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return token
}

func deviceID(w http.ResponseWriter, r *http.Request) (string, bool) {
	d := requestcontext.DeviceID(r.Context())
	if d == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, request.DeviceIDHeader+" header required"))
		return "", false
	}
	return d, true
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	device, ok := deviceID(w, r)
	if !ok {
		return
	}
	principal, ok := requestcontext.PrincipalFrom(ctx)
	if !ok {
		httputil.WriteJSON(w, http.StatusOK, toResolutionResponse(Resolve(nil, nil, Lookup{})))
		return
	}
	res := h.sessions.Observe(ctx, device, principal, bearer(r)).Current()
	httputil.WriteJSON(w, http.StatusOK, toResolutionResponse(res))
}

// HandleSetOverride selects a club. Only super admins may impersonate; the
// role is read from storage, not from the resolver.
func (h *Handler) HandleSetOverride(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	device, ok := deviceID(w, r)
	if !ok {
		return
	}
	principal, ok := requestcontext.PrincipalFrom(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing token"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[SetOverrideRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	tenantID, err := id.ParseTenantID(req.TenantID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid tenant id"))
		return
	}

	assignment, err := h.memberships.FindByPrincipal(ctx, principal.ID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		h.logger.ErrorContext(ctx, "role lookup failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "role lookup failed"))
		return
	}
	if assignment == nil || assignment.Role != models.RoleSuperAdmin {
		h.logger.WarnContext(ctx, "forbidden - tenant override requires super_admin",
			"principal_id", principal.ID.String(),
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "Forbidden: super_admin only"))
		return
	}

	tenant, err := h.tenants.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "tenant not found"))
			return
		}
		h.logger.ErrorContext(ctx, "tenant lookup failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	name := req.TenantName
	if name == "" {
		name = tenant.Name
	}

	resolver := h.sessions.Observe(ctx, device, principal, bearer(r))
	res, err := resolver.SetOverride(ctx, tenant.ID, name)
	if err != nil {
		h.logger.ErrorContext(ctx, "set tenant override failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResolutionResponse(res))
}

// HandleClearOverride leaves club mode. The answer is usually loading.
func (h *Handler) HandleClearOverride(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	device, ok := deviceID(w, r)
	if !ok {
		return
	}
	principal, ok := requestcontext.PrincipalFrom(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing token"))
		return
	}

	res, err := h.sessions.Observe(ctx, device, principal, bearer(r)).ClearOverride(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "clear tenant override failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResolutionResponse(res))
}

// HandleSignOut drops the caller's own session on the device. It needs a
// valid token: the device id alone proves nothing.
func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	device, ok := deviceID(w, r)
	if !ok {
		return
	}
	principal, ok := requestcontext.PrincipalFrom(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing token"))
		return
	}
	if err := h.sessions.SignOut(ctx, principal.ID, device); err != nil {
		h.logger.ErrorContext(ctx, "sign-out failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResolutionResponse(Resolve(nil, nil, Lookup{})))
}
