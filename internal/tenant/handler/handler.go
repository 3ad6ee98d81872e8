package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service,Deleter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"a2admin/internal/tenant/deletion"
	"a2admin/internal/tenant/models"
	"a2admin/internal/tenant/service"
	id "a2admin/pkg/domain"
	dErrors "a2admin/pkg/domain-errors"
	"a2admin/pkg/platform/httputil"
	request "a2admin/pkg/platform/middleware/request"
)

// Service is the tenant lifecycle surface used by the super admin console.
type Service interface {
	CreateTenant(ctx context.Context, cmd service.CreateTenantCommand) (*models.Tenant, error)
	UpdateTenant(ctx context.Context, tenantID id.TenantID, update models.TenantUpdate) (*models.Tenant, error)
	GetTenant(ctx context.Context, tenantID id.TenantID) (*models.TenantDetails, error)
	ListTenants(ctx context.Context) ([]*models.Tenant, error)
	SuspendTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	RestoreTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	CreateClub(ctx context.Context, cmd service.CreateClubCommand) (*service.ClubProvisioned, error)
	ResendInvite(ctx context.Context, adminEmail string) (string, error)
	BackfillAdmin(ctx context.Context, adminEmail string, tenantID id.TenantID) (id.PrincipalID, error)
	SendTestEmail(ctx context.Context, to string) error
}

// Deleter runs the irreversible tenant cascade.
type Deleter interface {
	DeleteTenant(ctx context.Context, tenantID id.TenantID) (*deletion.Report, error)
}

// Handler serves /api/admin. Every route expects RequireAuth and
// RequireSuperAdmin in front of it.
type Handler struct {
	service Service
	deleter Deleter
	logger  *slog.Logger
}

func New(service Service, deleter Deleter, logger *slog.Logger) *Handler {
	return &Handler{service: service, deleter: deleter, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/admin/tenants/manage", h.HandleManageTenant)
	r.Post("/api/admin/tenants", h.HandleCreateTenant)
	r.Get("/api/admin/tenants", h.HandleListTenants)
	r.Get("/api/admin/tenants/{id}", h.HandleGetTenant)
	r.Put("/api/admin/tenants/{id}", h.HandleUpdateTenant)
	r.Post("/api/admin/clubs", h.HandleCreateClub)
	r.Post("/api/admin/invitations/resend", h.HandleResendInvite)
	r.Post("/api/admin/memberships/backfill", h.HandleBackfillAdmin)
	r.Post("/api/admin/email/test", h.HandleTestEmail)
}

// HandleManageTenant applies suspend, restore or delete_hard to a tenant.
func (h *Handler) HandleManageTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ManageTenantRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	tenantID, action, err := req.Parse()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	switch action {
	case models.ActionSuspend, models.ActionRestore:
		apply := h.service.SuspendTenant
		if action == models.ActionRestore {
			apply = h.service.RestoreTenant
		}
		tenant, err := apply(ctx, tenantID)
		if err != nil {
			h.logger.ErrorContext(ctx, "manage tenant failed",
				"error", err,
				"action", string(action),
				"tenant_id", tenantID.String(),
				"request_id", requestID,
			)
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteOK(w, http.StatusOK, map[string]any{"tenant": toTenantResponse(tenant)})

	case models.ActionDeleteHard:
		report, err := h.deleter.DeleteTenant(ctx, tenantID)
		if err != nil {
			h.logger.ErrorContext(ctx, "tenant deletion failed",
				"error", err,
				"tenant_id", tenantID.String(),
				"request_id", requestID,
			)
			httputil.WriteError(w, deletionError(err))
			return
		}
		httputil.WriteOK(w, http.StatusOK, map[string]any{"report": report})
	}
}

// deletionError reports the failing step to the console.
func deletionError(err error) error {
	var stepErr *deletion.StepError
	if errors.As(err, &stepErr) {
		return dErrors.New(dErrors.CodeDownstream, stepErr.Error())
	}
	return err
}

func (h *Handler) HandleCreateTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateTenantRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	tenant, err := h.service.CreateTenant(ctx, req.Command())
	if err != nil {
		h.logger.ErrorContext(ctx, "create tenant failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteOK(w, http.StatusCreated, map[string]any{
		"tenant_id": tenant.ID.String(),
		"tenant":    toTenantResponse(tenant),
	})
}

func (h *Handler) HandleListTenants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	tenants, err := h.service.ListTenants(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list tenants failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	out := make([]*TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, toTenantResponse(t))
	}
	httputil.WriteOK(w, http.StatusOK, map[string]any{"tenants": out})
}

// HandleGetTenant returns tenant metadata with record counts.
func (h *Handler) HandleGetTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	tenantID, err := id.ParseTenantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid tenant id"))
		return
	}

	details, err := h.service.GetTenant(ctx, tenantID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get tenant failed", "error", err, "request_id", requestID, "tenant_id", tenantID.String())
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteOK(w, http.StatusOK, map[string]any{"tenant": toTenantDetailsResponse(details)})
}

// HandleUpdateTenant applies a partial update; absent fields are left as is.
func (h *Handler) HandleUpdateTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	tenantID, err := id.ParseTenantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid tenant id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateTenantRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	tenant, err := h.service.UpdateTenant(ctx, tenantID, req.Update())
	if err != nil {
		h.logger.ErrorContext(ctx, "update tenant failed", "error", err, "request_id", requestID, "tenant_id", tenantID.String())
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteOK(w, http.StatusOK, map[string]any{"tenant": toTenantResponse(tenant)})
}

// HandleCreateClub provisions a club, its admin account and membership. The
// welcome email is sent in the background.
func (h *Handler) HandleCreateClub(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateClubRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.CreateClub(ctx, req.Command())
	if err != nil {
		h.logger.ErrorContext(ctx, "create club failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteOK(w, http.StatusOK, map[string]any{
		"tenant_id":     res.TenantID.String(),
		"admin_user_id": res.AdminUserID.String(),
	})
}

func (h *Handler) HandleResendInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ResendInviteRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	link, err := h.service.ResendInvite(ctx, req.AdminEmail)
	if err != nil {
		h.logger.ErrorContext(ctx, "resend invite failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	fields := map[string]any{"link_fallback": nil}
	if link != "" {
		fields["link_fallback"] = link
	}
	httputil.WriteOK(w, http.StatusOK, fields)
}

func (h *Handler) HandleBackfillAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[BackfillAdminRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	tenantID, err := id.ParseTenantID(req.TenantID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid tenant id"))
		return
	}

	principalID, err := h.service.BackfillAdmin(ctx, req.AdminEmail, tenantID)
	if err != nil {
		h.logger.ErrorContext(ctx, "backfill admin failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteOK(w, http.StatusOK, map[string]any{"app_user_id": principalID.String()})
}

// HandleTestEmail reports delivery errors, unlike the workflow emails.
func (h *Handler) HandleTestEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[TestEmailRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.SendTestEmail(ctx, req.To); err != nil {
		h.logger.ErrorContext(ctx, "test email failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteOK(w, http.StatusOK, nil)
}
