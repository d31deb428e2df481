package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "axleague/internal/delivery/http/helpers"
	"axleague/internal/delivery/http/middleware"
	"axleague/internal/domain"
)

// SendInviteRequest is the request body for POST /teams/{teamID}/invites.
// The invitee is addressed by player code, never by user id.
type SendInviteRequest struct {
	PlayerCode string `json:"player_code"`
	// Role the invitee will take on acceptance: "PLAYER" (default) or
	// "STAFF".
	Role string `json:"role"`
}

// Validate implements Validator.
func (s SendInviteRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.PlayerCode) == "" {
		errs = append(errs, "player_code is required")
	}
	if s.Role != "" && !domain.ValidTeamRole(s.Role) {
		errs = append(errs, "role must be \"PLAYER\" or \"STAFF\"")
	}
	return errs
}

// InviteListResponse is the response body for GET /invites
type InviteListResponse struct {
	Invites    []*domain.Invite       `json:"invites"`
	Pagination h.PaginationMeta `json:"pagination"`
}

type InviteController struct {
	Logger  *slog.Logger
	Service domain.InviteService
}

func NewInviteController(logger *slog.Logger, svc domain.InviteService) *InviteController {
	return &InviteController{
		Logger:  logger,
		Service: svc,
	}
}

// Send godoc
// @Summary Invite a user to a team
// @Description Owner-only. Creates the single pending invite for the (team, user) pair and sends a best-effort notification email.
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param teamID path string true "Team ID"
// @Param body body SendInviteRequest true "Invite data"
// @Success 201 {object} helpers.APIResponse "data contains the invite"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /teams/{teamID}/invites [post]
func (c *InviteController) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "not authenticated")
		return
	}
	teamID := r.PathValue("teamID")
	var req SendInviteRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	invite, err := c.Service.SendInvite(r.Context(), userID, &domain.SendInviteInput{
		TeamID:     teamID,
		PlayerCode: strings.TrimSpace(req.PlayerCode),
		InviteRole: req.Role,
	})
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, invite)
}

// Accept godoc
// @Summary Accept an invite
// @Description Consumes the caller's pending invite for the team: creates the membership and resolves the invite atomically.
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param teamID path string true "Team ID"
// @Success 200 {object} helpers.APIResponse "data contains the new membership"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /teams/{teamID}/invites/accept [post]
func (c *InviteController) Accept(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "not authenticated")
		return
	}
	membership, err := c.Service.AcceptInvite(r.Context(), r.PathValue("teamID"), userID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, membership)
}

// Reject godoc
// @Summary Reject an invite
// @Description Resolves the caller's pending invite for the team to REJECTED. The row is retained.
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param teamID path string true "Team ID"
// @Success 204 "no content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /teams/{teamID}/invites/reject [post]
func (c *InviteController) Reject(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "not authenticated")
		return
	}
	if err := c.Service.RejectInvite(r.Context(), r.PathValue("teamID"), userID); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMine godoc
// @Summary List the caller's invites
// @Description Returns the caller's invites newest-first. Filter with ?status=PENDING|ACCEPTED|REJECTED|ALL (default PENDING). Paginated.
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param page query int false "Page (1-indexed)"
// @Param page_size query int false "Page size"
// @Success 200 {object} helpers.APIResponse "data contains invites and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites [get]
func (c *InviteController) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "not authenticated")
		return
	}
	p := h.ParsePagination(r)
	status := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status")))
	invites, total, err := c.Service.ListMyInvites(r.Context(), userID, status, p)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, InviteListResponse{
		Invites:    invites,
		Pagination: h.NewPaginationMeta(p.Page, p.PageSize, total),
	})
}
