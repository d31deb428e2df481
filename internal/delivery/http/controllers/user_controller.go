package controllers

import (
	"log/slog"
	"net/http"

	h "axleague/internal/delivery/http/helpers"
	"axleague/internal/delivery/http/middleware"
	"axleague/internal/domain"
)

// UpdateProfileRequest is the request body for PATCH /users/me. All fields
// are optional; absent fields stay unchanged.
type UpdateProfileRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Firstname *string `json:"firstname"`
	Surname   *string `json:"surname"`
	Phone     *string `json:"phone"`
	DNI       *string `json:"dni"`
	BirthDate *string `json:"birth_date"`
	Position  *string `json:"position"`
	Side      *string `json:"side"`
	Number    *int    `json:"number"`
}

// AvatarUploadRequest is the request body for POST /users/me/avatar-upload
type AvatarUploadRequest struct {
	ContentType string `json:"content_type"`
}

// Validate implements Validator.
func (a AvatarUploadRequest) Validate() []string {
	if a.ContentType == "" {
		return []string{"content_type is required"}
	}
	return nil
}

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// Me godoc
// @Summary Get the authenticated user's profile
// @Description Returns the caller's profile plus a presigned avatar URL when an avatar has been uploaded.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the profile"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me [get]
func (c *UserController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "not authenticated")
		return
	}
	profile, err := c.Service.GetProfile(r.Context(), userID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, profile)
}

// UpdateMe godoc
// @Summary Update the authenticated user's profile
// @Description Partial update; only the provided fields change. Username and email stay unique; password is re-hashed.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me [patch]
func (c *UserController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "not authenticated")
		return
	}
	var req UpdateProfileRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.UpdateProfile(r.Context(), userID, &domain.ProfileUpdateInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Firstname: req.Firstname,
		Surname:   req.Surname,
		Phone:     req.Phone,
		DNI:       req.DNI,
		BirthDate: req.BirthDate,
		Position:  req.Position,
		Side:      req.Side,
		Number:    req.Number,
	})
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}

// AvatarUpload godoc
// @Summary Request an avatar upload URL
// @Description Issues a presigned PUT URL for the caller's avatar. Accepts image/jpeg and image/png. The object key is recorded on the profile.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AvatarUploadRequest true "Content type of the image"
// @Success 200 {object} helpers.APIResponse "data contains key, upload_url, and expires_in"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me/avatar-upload [post]
func (c *UserController) AvatarUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "not authenticated")
		return
	}
	var req AvatarUploadRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	ticket, err := c.Service.RequestAvatarUpload(r.Context(), userID, req.ContentType)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, ticket)
}
