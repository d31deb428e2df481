package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "axleague/internal/delivery/http/helpers"
	"axleague/internal/delivery/http/middleware"
	"axleague/internal/domain"
)

// RegisterTeamRequest is the request body for POST /events/{eventID}/registrations
type RegisterTeamRequest struct {
	TeamID   string `json:"team_id"`
	Category string `json:"category"`
}

// Validate implements Validator.
func (r RegisterTeamRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.TeamID) == "" {
		errs = append(errs, "team_id is required")
	}
	if strings.TrimSpace(r.Category) == "" {
		errs = append(errs, "category is required")
	}
	return errs
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewEventController(logger *slog.Logger, svc domain.RegistrationService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// Open godoc
// @Summary Get the event currently open for registration
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the open event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/open [get]
func (c *EventController) Open(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetOpenEvent(r.Context())
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// Register godoc
// @Summary Register a team for an event
// @Description Owner-only. Registers the team in one of the event's declared categories while registration is open. A team registers at most once per event; the team name is snapshotted.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body RegisterTeamRequest true "Registration data"
// @Success 201 {object} helpers.APIResponse "data contains the registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations [post]
func (c *EventController) Register(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "not authenticated")
		return
	}
	var req RegisterTeamRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, err := c.Service.RegisterTeam(r.Context(), userID, &domain.RegisterTeamInput{
		EventID:  r.PathValue("eventID"),
		TeamID:   req.TeamID,
		Category: req.Category,
	})
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// ListRegistrations godoc
// @Summary List an event's registrations grouped by category
// @Description Returns registrations bucketed by the event's declared categories, with per-category counts. Registrations in a category the event no longer declares land in "OTHER".
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains counts and registrations_by_category"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations [get]
func (c *EventController) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	result, err := c.Service.ListRegistrations(r.Context(), r.PathValue("eventID"))
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, result)
}
