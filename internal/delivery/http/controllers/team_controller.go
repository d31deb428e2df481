package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "axleague/internal/delivery/http/helpers"
	"axleague/internal/delivery/http/middleware"
	"axleague/internal/domain"
)

// CreateTeamRequest is the request body for POST /teams
type CreateTeamRequest struct {
	TeamName string  `json:"team_name"`
	Country  *string `json:"country"`
	Province *string `json:"province"`
	// OwnerRole is the team role the creator takes: "PLAYER" (default) or
	// "STAFF".
	OwnerRole string `json:"owner_role"`
}

// Validate implements Validator.
func (c CreateTeamRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.TeamName) == "" {
		errs = append(errs, "team_name is required")
	}
	if c.OwnerRole != "" && !domain.ValidTeamRole(c.OwnerRole) {
		errs = append(errs, "owner_role must be \"PLAYER\" or \"STAFF\"")
	}
	return errs
}

// LogoUploadRequest is the request body for POST /teams/{teamID}/logo-upload
type LogoUploadRequest struct {
	ContentType string `json:"content_type"`
}

// Validate implements Validator.
func (l LogoUploadRequest) Validate() []string {
	if l.ContentType == "" {
		return []string{"content_type is required"}
	}
	return nil
}

type TeamController struct {
	Logger  *slog.Logger
	Service domain.TeamService
}

func NewTeamController(logger *slog.Logger, svc domain.TeamService) *TeamController {
	return &TeamController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Create a team
// @Description Creates a team with a globally unique name (case- and whitespace-insensitive) and makes the caller its owner in the same transaction.
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateTeamRequest true "Team data"
// @Success 201 {object} helpers.APIResponse "data contains the created team"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (name taken)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /teams [post]
func (c *TeamController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "not authenticated")
		return
	}
	var req CreateTeamRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	team, err := c.Service.CreateTeam(r.Context(), userID, &domain.NewTeamInput{
		Name:          req.TeamName,
		Country:       req.Country,
		Province:      req.Province,
		OwnerTeamRole: req.OwnerRole,
	})
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, team)
}

// Details godoc
// @Summary Get team details
// @Description Returns the team with its active members partitioned into players and staff, plus presigned logo and avatar URLs.
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param teamID path string true "Team ID"
// @Success 200 {object} helpers.APIResponse "data contains the team details"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /teams/{teamID} [get]
func (c *TeamController) Details(w http.ResponseWriter, r *http.Request) {
	teamID := r.PathValue("teamID")
	details, err := c.Service.GetTeamDetails(r.Context(), teamID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, details)
}

// MyTeams godoc
// @Summary List the caller's teams
// @Description Returns the caller's active memberships split into owned and member teams.
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains owned_teams and member_teams"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /teams/my-teams [get]
func (c *TeamController) MyTeams(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "not authenticated")
		return
	}
	teams, err := c.Service.ListMyTeams(r.Context(), userID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, teams)
}

// LogoUpload godoc
// @Summary Request a team logo upload URL
// @Description Owner-only. Issues a presigned PUT URL for the team logo and records the object key on the team.
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param teamID path string true "Team ID"
// @Param body body LogoUploadRequest true "Content type of the image"
// @Success 200 {object} helpers.APIResponse "data contains key, upload_url, and expires_in"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /teams/{teamID}/logo-upload [post]
func (c *TeamController) LogoUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "not authenticated")
		return
	}
	teamID := r.PathValue("teamID")
	var req LogoUploadRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	ticket, err := c.Service.RequestLogoUpload(r.Context(), teamID, userID, req.ContentType)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, ticket)
}
