package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "axleague/internal/delivery/http/helpers"
	"axleague/internal/domain"
)

// writeDomainError maps domain sentinel errors to HTTP status codes and
// writes the standard error envelope. Anything unmapped is a 500 and gets
// logged.
func writeDomainError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "not allowed")
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrTeamNameTaken),
		errors.Is(err, domain.ErrDuplicateUsername),
		errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrAlreadyMember),
		errors.Is(err, domain.ErrAlreadyInvited),
		errors.Is(err, domain.ErrAlreadyRegistered),
		errors.Is(err, domain.ErrInviteNotPending),
		errors.Is(err, domain.ErrRegistrationClosed),
		errors.Is(err, domain.ErrConflict):
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal error")
	}
}
