package club

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "a2admin/pkg/domain"
	dErrors "a2admin/pkg/domain-errors"
	"a2admin/pkg/platform/httputil"
	request "a2admin/pkg/platform/middleware/request"
	"a2admin/pkg/requestcontext"
)

type OverviewReader interface {
	Overview(ctx context.Context, tenantID id.TenantID) (*Overview, error)
}

type OverviewResponse struct {
	OK              bool   `json:"ok"`
	TenantID        string `json:"tenant_id"`
	TenantName      string `json:"tenant_name"`
	IsImpersonating bool   `json:"is_impersonating"`
	AdminCount      int64  `json:"admin_count"`
	SponsorCount    int64  `json:"sponsor_count"`
	CampaignCount   int64  `json:"campaign_count"`
	PledgeCount     int64  `json:"pledge_count"`
	InvitationCount int64  `json:"invitation_count"`
}

// Handler expects tenantctx.RequireActiveTenant in front of it.
type Handler struct {
	overviews OverviewReader
	logger    *slog.Logger
}

func NewHandler(overviews OverviewReader, logger *slog.Logger) *Handler {
	return &Handler{overviews: overviews, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/api/club/overview", h.HandleOverview)
}

func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	active, ok := requestcontext.ActiveTenantFrom(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "active tenant missing"))
		return
	}

	overview, err := h.overviews.Overview(ctx, active.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load club overview",
			"error", err,
			"tenant_id", active.ID.String(),
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, OverviewResponse{
		OK:              true,
		TenantID:        active.ID.String(),
		TenantName:      active.Name,
		IsImpersonating: active.Impersonating,
		AdminCount:      overview.Admins,
		SponsorCount:    overview.Sponsors,
		CampaignCount:   overview.Campaigns,
		PledgeCount:     overview.Pledges,
		InvitationCount: overview.Invitations,
	})
}
