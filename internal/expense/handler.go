package expense

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yassirh/fairsplit/internal/expense/split"
	"github.com/yassirh/fairsplit/internal/group"
	"github.com/yassirh/fairsplit/pkg/middleware"
	"github.com/yassirh/fairsplit/pkg/response"
)

// Handler handles HTTP requests for expenses and splits
type Handler struct {
	service *Service
}

// NewHandler creates a new expense handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the expense routes. The per-viewer expense view endpoint
// lives under /expenses but is served by the balance layer, so it comes in
// as a plain handler.
func (h *Handler) Routes(expenseViews http.HandlerFunc) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/group/{groupId}", h.ListByGroup)
	r.Get("/group/{groupId}/view", expenseViews)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

// SplitRoutes returns the split lifecycle routes
func (h *Handler) SplitRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/{id}/pay", h.MarkSplitAsPaid)
	r.Post("/{id}/confirm", h.ConfirmSplitPayment)
	r.Post("/{id}/dispute", h.DisputeSplit)

	return r
}

// Create handles POST /expenses
// @Summary      Create an expense
// @Description  Record an expense and generate its splits; equal split when no custom splits are given
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body CreateExpenseRequest true "Expense creation request"
// @Success      201 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Description == "" {
		response.BadRequest(w, "Description is required")
		return
	}

	expense, err := h.service.Create(r.Context(), callerID, &req)
	if err != nil {
		h.writeExpenseError(w, err)
		return
	}

	slog.Info("expense created", "expense_id", expense.ID, "group_id", expense.GroupID, "payer_id", expense.PayerID)
	response.JSON(w, http.StatusCreated, expense.ToResponse())
}

// Update handles PUT /expenses/{id}
// @Summary      Edit an expense
// @Description  Edit an expense; its splits are regenerated from scratch
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path int true "Expense ID"
// @Param        request body UpdateExpenseRequest true "Expense update request"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /expenses/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	var req UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	expense, err := h.service.Update(r.Context(), id, callerID, &req)
	if err != nil {
		h.writeExpenseError(w, err)
		return
	}

	slog.Info("expense updated", "expense_id", expense.ID, "user_id", callerID)
	response.JSON(w, http.StatusOK, expense.ToResponse())
}

// GetByID handles GET /expenses/{id}
// @Summary      Get an expense
// @Description  Get an expense with its splits
// @Tags         expenses
// @Produce      json
// @Param        id path int true "Expense ID"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /expenses/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	expense, err := h.service.GetByID(r.Context(), id, callerID)
	if err != nil {
		h.writeExpenseError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, expense.ToResponse())
}

// ListByGroup handles GET /expenses/group/{groupId}
// @Summary      List group expenses
// @Description  List a group's expenses, newest first
// @Tags         expenses
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Failure      403 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /expenses/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
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

	expenses, total, err := h.service.ListByGroupID(r.Context(), groupID, callerID, page, perPage)
	if err != nil {
		h.writeExpenseError(w, err)
		return
	}

	out := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = e.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, out, &response.Meta{Page: page, PerPage: perPage, Total: total})
}

// Delete handles DELETE /expenses/{id}
// @Summary      Delete an expense
// @Description  Delete an expense while no split has been paid or confirmed
// @Tags         expenses
// @Produce      json
// @Param        id path int true "Expense ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /expenses/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	if err := h.service.Delete(r.Context(), id, callerID); err != nil {
		h.writeExpenseError(w, err)
		return
	}

	slog.Info("expense deleted", "expense_id", id, "user_id", callerID)
	response.JSON(w, http.StatusOK, map[string]string{"message": "Expense deleted successfully"})
}

// MarkSplitAsPaid handles POST /splits/{id}/pay
// @Summary      Mark a split paid
// @Description  Borrower marks their split as paid, pending the payer's confirmation
// @Tags         splits
// @Produce      json
// @Param        id path int true "Split ID"
// @Success      200 {object} response.APIResponse{data=SplitResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /splits/{id}/pay [post]
func (h *Handler) MarkSplitAsPaid(w http.ResponseWriter, r *http.Request) {
	h.splitAction(w, r, h.service.MarkSplitAsPaid)
}

// ConfirmSplitPayment handles POST /splits/{id}/confirm
// @Summary      Confirm a split payment
// @Description  Payer confirms they received the borrower's payment
// @Tags         splits
// @Produce      json
// @Param        id path int true "Split ID"
// @Success      200 {object} response.APIResponse{data=SplitResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /splits/{id}/confirm [post]
func (h *Handler) ConfirmSplitPayment(w http.ResponseWriter, r *http.Request) {
	h.splitAction(w, r, h.service.ConfirmSplitPayment)
}

// DisputeSplit handles POST /splits/{id}/dispute
// @Summary      Dispute a split
// @Description  Borrower disputes their split with a reason
// @Tags         splits
// @Accept       json
// @Produce      json
// @Param        id path int true "Split ID"
// @Param        request body DisputeSplitRequest true "Dispute request"
// @Success      200 {object} response.APIResponse{data=SplitResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /splits/{id}/dispute [post]
func (h *Handler) DisputeSplit(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid split ID")
		return
	}

	var req DisputeSplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Reason == "" {
		response.BadRequest(w, "A dispute reason is required")
		return
	}

	sp, err := h.service.DisputeSplit(r.Context(), id, callerID, req.Reason)
	if err != nil {
		h.writeSplitError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, sp.ToResponse())
}

func (h *Handler) splitAction(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, splitID, callerID int64) (*Split, error)) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid split ID")
		return
	}

	sp, err := fn(r.Context(), id, callerID)
	if err != nil {
		h.writeSplitError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, sp.ToResponse())
}

func (h *Handler) writeExpenseError(w http.ResponseWriter, err error) {
	var verr *split.ValidationError
	switch {
	case errors.As(err, &verr):
		response.BadRequest(w, verr.Reason)
	case errors.Is(err, ErrExpenseNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, group.ErrGroupNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotGroupMember), errors.Is(err, ErrNotOwner):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrExpenseLocked):
		response.Conflict(w, err.Error())
	default:
		slog.Error("expense request failed", "error", err)
		response.InternalError(w, "Something went wrong")
	}
}

func (h *Handler) writeSplitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSplitNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotBorrower), errors.Is(err, ErrNotPayer):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrSplitLocked), errors.Is(err, ErrInvalidStatusChange):
		response.Conflict(w, err.Error())
	default:
		slog.Error("split request failed", "error", err)
		response.InternalError(w, "Something went wrong")
	}
}
