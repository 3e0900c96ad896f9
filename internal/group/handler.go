package group

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yassirh/fairsplit/pkg/middleware"
	"github.com/yassirh/fairsplit/pkg/response"
)

// Handler handles HTTP requests for groups
type Handler struct {
	service *Service
}

// NewHandler creates a new group handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the group routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	r.Post("/{id}/members", h.AddMember)
	r.Delete("/{id}/members/{userId}", h.RemoveMember)

	r.Post("/{id}/invitations", h.Invite)

	return r
}

// InvitationRoutes returns the caller-scoped invitation routes
func (h *Handler) InvitationRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListInvitations)
	r.Post("/{token}/accept", h.AcceptInvitation)
	r.Post("/{token}/decline", h.DeclineInvitation)

	return r
}

// Create handles POST /groups
// @Summary      Create a group
// @Description  Create a new group with the caller as admin
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        request body CreateGroupRequest true "Group creation request"
// @Success      201 {object} response.APIResponse{data=GroupResponse}
// @Failure      400 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /groups [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Name == "" {
		response.BadRequest(w, "Group name is required")
		return
	}

	group, err := h.service.Create(r.Context(), callerID, &req)
	if err != nil {
		slog.Error("failed to create group", "error", err, "user_id", callerID)
		response.InternalError(w, "Failed to create group")
		return
	}

	slog.Info("group created", "group_id", group.ID, "created_by", callerID)
	response.JSON(w, http.StatusCreated, group.ToResponse())
}

// List handles GET /groups
// @Summary      List groups
// @Description  List the groups the caller has joined
// @Tags         groups
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]GroupResponse}
// @Security     BearerAuth
// @Router       /groups [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	groups, total, err := h.service.ListByUserID(r.Context(), callerID, page, perPage)
	if err != nil {
		slog.Error("failed to list groups", "error", err, "user_id", callerID)
		response.InternalError(w, "Failed to list groups")
		return
	}

	out := make([]*GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.ToResponse())
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	response.JSONWithMeta(w, http.StatusOK, out, &response.Meta{Page: page, PerPage: perPage, Total: total})
}

// GetByID handles GET /groups/{id}
// @Summary      Get a group
// @Description  Get a group with its members
// @Tags         groups
// @Produce      json
// @Param        id path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=GroupResponse}
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /groups/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	group, members, err := h.service.GetByIDWithMembers(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		slog.Error("failed to get group", "error", err, "group_id", id)
		response.InternalError(w, "Failed to get group")
		return
	}

	resp := group.ToResponse()
	resp.Members = make([]*MemberResponse, 0, len(members))
	for _, m := range members {
		resp.Members = append(resp.Members, m.ToResponse())
	}

	response.JSON(w, http.StatusOK, resp)
}

// Update handles PUT /groups/{id}
// @Summary      Update a group
// @Description  Update a group's name or description
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id path int true "Group ID"
// @Param        request body UpdateGroupRequest true "Group update request"
// @Success      200 {object} response.APIResponse{data=GroupResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /groups/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	var req UpdateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	group, err := h.service.Update(r.Context(), id, callerID, &req)
	if err != nil {
		h.writeGroupError(w, err, id)
		return
	}

	response.JSON(w, http.StatusOK, group.ToResponse())
}

// Delete handles DELETE /groups/{id}
// @Summary      Delete a group
// @Description  Delete a group; only the creator may do this
// @Tags         groups
// @Produce      json
// @Param        id path int true "Group ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /groups/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	if err := h.service.Delete(r.Context(), id, callerID); err != nil {
		h.writeGroupError(w, err, id)
		return
	}

	slog.Info("group deleted", "group_id", id, "user_id", callerID)
	response.JSON(w, http.StatusOK, map[string]string{"message": "Group deleted successfully"})
}

// AddMember handles POST /groups/{id}/members
// @Summary      Add a member
// @Description  Add an existing user to a group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id path int true "Group ID"
// @Param        request body AddMemberRequest true "Member request"
// @Success      201 {object} response.APIResponse{data=MemberResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /groups/{id}/members [post]
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	member, err := h.service.AddMember(r.Context(), id, callerID, &req)
	if err != nil {
		if errors.Is(err, ErrMemberAlreadyExists) {
			response.Conflict(w, err.Error())
			return
		}
		h.writeGroupError(w, err, id)
		return
	}

	response.JSON(w, http.StatusCreated, member.ToResponse())
}

// RemoveMember handles DELETE /groups/{id}/members/{userId}
// @Summary      Remove a member
// @Description  Remove a user from a group
// @Tags         groups
// @Produce      json
// @Param        id path int true "Group ID"
// @Param        userId path int true "User ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /groups/{id}/members/{userId} [delete]
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	userID, err := parseID(r, "userId")
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	if err := h.service.RemoveMember(r.Context(), id, callerID, userID); err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		h.writeGroupError(w, err, id)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Member removed successfully"})
}

// Invite handles POST /groups/{id}/invitations
// @Summary      Invite by email
// @Description  Invite someone into the group by email address
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id path int true "Group ID"
// @Param        request body InviteRequest true "Invitation request"
// @Success      201 {object} response.APIResponse{data=InvitationResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /groups/{id}/invitations [post]
func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Email == "" {
		response.BadRequest(w, "Email is required")
		return
	}

	inv, err := h.service.Invite(r.Context(), id, callerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMemberAlreadyExists), errors.Is(err, ErrAlreadyInvited):
			response.Conflict(w, err.Error())
		default:
			h.writeGroupError(w, err, id)
		}
		return
	}

	slog.Info("invitation created", "group_id", id, "invited_by", callerID)
	response.JSON(w, http.StatusCreated, inv.ToResponse())
}

// ListInvitations handles GET /invitations
// @Summary      List my invitations
// @Description  List pending invitations addressed to the caller's email
// @Tags         invitations
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]InvitationResponse}
// @Security     BearerAuth
// @Router       /invitations [get]
func (h *Handler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	invs, err := h.service.ListInvitations(r.Context(), callerID)
	if err != nil {
		slog.Error("failed to list invitations", "error", err, "user_id", callerID)
		response.InternalError(w, "Failed to list invitations")
		return
	}

	out := make([]*InvitationResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, inv.ToResponse())
	}

	response.JSON(w, http.StatusOK, out)
}

// AcceptInvitation handles POST /invitations/{token}/accept
// @Summary      Accept an invitation
// @Description  Join the group an invitation token points at
// @Tags         invitations
// @Produce      json
// @Param        token path string true "Invitation token"
// @Success      200 {object} response.APIResponse{data=GroupResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /invitations/{token}/accept [post]
func (h *Handler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	token := chi.URLParam(r, "token")

	group, err := h.service.AcceptInvitation(r.Context(), callerID, token)
	if err != nil {
		h.writeInvitationError(w, err)
		return
	}

	slog.Info("invitation accepted", "group_id", group.ID, "user_id", callerID)
	response.JSON(w, http.StatusOK, group.ToResponse())
}

// DeclineInvitation handles POST /invitations/{token}/decline
// @Summary      Decline an invitation
// @Description  Decline an invitation without joining
// @Tags         invitations
// @Produce      json
// @Param        token path string true "Invitation token"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /invitations/{token}/decline [post]
func (h *Handler) DeclineInvitation(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	token := chi.URLParam(r, "token")

	if err := h.service.DeclineInvitation(r.Context(), callerID, token); err != nil {
		h.writeInvitationError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Invitation declined"})
}

func (h *Handler) writeGroupError(w http.ResponseWriter, err error, groupID int64) {
	switch {
	case errors.Is(err, ErrGroupNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotAuthorized):
		response.Forbidden(w, err.Error())
	default:
		slog.Error("group request failed", "error", err, "group_id", groupID)
		response.InternalError(w, "Something went wrong")
	}
}

func (h *Handler) writeInvitationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvitationNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrInvitationResolved):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrInvitationNotYours):
		response.Forbidden(w, err.Error())
	default:
		slog.Error("invitation request failed", "error", err)
		response.InternalError(w, "Something went wrong")
	}
}

func parseID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, key), 10, 64)
}
