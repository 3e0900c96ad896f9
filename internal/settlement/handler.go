package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yassirh/fairsplit/pkg/middleware"
	"github.com/yassirh/fairsplit/pkg/response"
)

// Handler handles HTTP requests for settlements
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the settlement routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/balances", h.GetNetBalances)
	r.Get("/{id}", h.GetByID)
	r.Post("/{id}/pay", h.MarkAsPaid)
	r.Post("/{id}/confirm", h.Confirm)
	r.Post("/{id}/reject", h.Reject)

	return r
}

// Create handles POST /settlements
// @Summary      Settle up
// @Description  Open a settlement clearing the open splits with another user
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body CreateSettlementRequest true "Settlement request"
// @Success      201 {object} response.APIResponse{data=SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /settlements [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	settlement, err := h.service.Create(r.Context(), callerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrCannotSettleSelf):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrAlreadySettled):
			response.Conflict(w, err.Error())
		default:
			slog.Error("failed to create settlement", "error", err, "user_id", callerID)
			response.InternalError(w, "Failed to create settlement")
		}
		return
	}

	slog.Info("settlement created", "settlement_id", settlement.ID, "payer_id", settlement.PayerID, "receiver_id", settlement.ReceiverID)
	response.JSON(w, http.StatusCreated, settlement.ToResponse())
}

// List handles GET /settlements
// @Summary      List settlements
// @Description  List settlements the caller is part of
// @Tags         settlements
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]SettlementResponse}
// @Security     BearerAuth
// @Router       /settlements [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	settlements, total, err := h.service.ListByUserID(r.Context(), callerID, page, perPage)
	if err != nil {
		slog.Error("failed to list settlements", "error", err, "user_id", callerID)
		response.InternalError(w, "Failed to list settlements")
		return
	}

	out := make([]*SettlementResponse, len(settlements))
	for i, s := range settlements {
		out[i] = s.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, out, &response.Meta{Page: page, PerPage: perPage, Total: total})
}

// GetByID handles GET /settlements/{id}
// @Summary      Get a settlement
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /settlements/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid settlement ID")
		return
	}

	settlement, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSettlementNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		slog.Error("failed to get settlement", "error", err, "settlement_id", id)
		response.InternalError(w, "Failed to get settlement")
		return
	}

	response.JSON(w, http.StatusOK, settlement.ToResponse())
}

// MarkAsPaid handles POST /settlements/{id}/pay
// @Summary      Mark a settlement paid
// @Description  Payer declares the settlement amount transferred
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /settlements/{id}/pay [post]
func (h *Handler) MarkAsPaid(w http.ResponseWriter, r *http.Request) {
	h.statusAction(w, r, h.service.MarkAsPaid)
}

// Confirm handles POST /settlements/{id}/confirm
// @Summary      Confirm a settlement
// @Description  Receiver confirms the payment; locked splits become confirmed
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /settlements/{id}/confirm [post]
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.statusAction(w, r, h.service.Confirm)
}

// Reject handles POST /settlements/{id}/reject
// @Summary      Reject a settlement
// @Description  Receiver rejects the settlement; locked splits reopen
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /settlements/{id}/reject [post]
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.statusAction(w, r, h.service.Reject)
}

// GetNetBalances handles GET /settlements/balances
// @Summary      Open balances
// @Description  The caller's open pairwise balances across all groups
// @Tags         settlements
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]NetBalanceResponse}
// @Security     BearerAuth
// @Router       /settlements/balances [get]
func (h *Handler) GetNetBalances(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	balances, err := h.service.GetNetBalances(r.Context(), callerID)
	if err != nil {
		slog.Error("failed to get net balances", "error", err, "user_id", callerID)
		response.InternalError(w, "Failed to get balances")
		return
	}

	response.JSON(w, http.StatusOK, balances)
}

func (h *Handler) statusAction(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, settlementID, userID int64) (*Settlement, error)) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid settlement ID")
		return
	}

	settlement, err := fn(r.Context(), id, callerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSettlementNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotPayer), errors.Is(err, ErrNotReceiver):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrInvalidStatusChange):
			response.Conflict(w, err.Error())
		default:
			slog.Error("settlement request failed", "error", err, "settlement_id", id)
			response.InternalError(w, "Something went wrong")
		}
		return
	}

	response.JSON(w, http.StatusOK, settlement.ToResponse())
}
