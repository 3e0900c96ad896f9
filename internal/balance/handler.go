package balance

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yassirh/fairsplit/internal/group"
	"github.com/yassirh/fairsplit/pkg/middleware"
	"github.com/yassirh/fairsplit/pkg/response"
)

// Handler handles HTTP requests for balance screens
type Handler struct {
	service *Service
}

// NewHandler creates a new balance handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the balance routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.AccountSummary)
	r.Get("/group/{groupId}", h.GroupBalance)

	return r
}

// GroupBalance handles GET /balances/group/{groupId}
// @Summary      Group balances
// @Description  Who the caller owes and who owes the caller within one group
// @Tags         balances
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=GroupBalanceResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /balances/group/{groupId} [get]
func (h *Handler) GroupBalance(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	resp, err := h.service.GroupBalance(r.Context(), viewerID, groupID)
	if err != nil {
		h.writeError(w, err, groupID)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// AccountSummary handles GET /balances
// @Summary      Account summary
// @Description  The caller's total owed and lent across every joined group
// @Tags         balances
// @Produce      json
// @Success      200 {object} response.APIResponse{data=AccountSummaryResponse}
// @Security     BearerAuth
// @Router       /balances [get]
func (h *Handler) AccountSummary(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	resp, err := h.service.AccountSummary(r.Context(), viewerID)
	if err != nil {
		slog.Error("failed to summarize account", "error", err, "user_id", viewerID)
		response.InternalError(w, "Failed to compute balances")
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// ExpenseViews handles GET /expenses/group/{groupId}/view
// @Summary      Expense views
// @Description  Each group expense classified as lent, owe, or none for the caller
// @Tags         balances
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]ExpenseViewResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /expenses/group/{groupId}/view [get]
func (h *Handler) ExpenseViews(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	views, err := h.service.ExpenseViews(r.Context(), viewerID, groupID)
	if err != nil {
		h.writeError(w, err, groupID)
		return
	}

	response.JSON(w, http.StatusOK, views)
}

func (h *Handler) writeError(w http.ResponseWriter, err error, groupID int64) {
	switch {
	case errors.Is(err, group.ErrGroupNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, group.ErrNotAuthorized):
		response.Forbidden(w, err.Error())
	default:
		slog.Error("balance request failed", "error", err, "group_id", groupID)
		response.InternalError(w, "Failed to compute balances")
	}
}
