// Package http wires the controllers into the application router.
package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"axleague/internal/delivery/http/controllers"
	"axleague/internal/delivery/http/middleware"
	"axleague/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	teamController *controllers.TeamController,
	inviteController *controllers.InviteController,
	eventController *controllers.EventController,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Users
	mux.HandleFunc("GET /users/me", auth(userController.Me))
	mux.HandleFunc("PATCH /users/me", auth(userController.UpdateMe))
	mux.HandleFunc("POST /users/me/avatar-upload", auth(userController.AvatarUpload))

	// Teams
	mux.HandleFunc("POST /teams", auth(teamController.Create))
	mux.HandleFunc("GET /teams/my-teams", auth(teamController.MyTeams))
	mux.HandleFunc("GET /teams/{teamID}", auth(teamController.Details))
	mux.HandleFunc("POST /teams/{teamID}/logo-upload", auth(teamController.LogoUpload))

	// Invites
	mux.HandleFunc("POST /teams/{teamID}/invites", auth(inviteController.Send))
	mux.HandleFunc("POST /teams/{teamID}/invites/accept", auth(inviteController.Accept))
	mux.HandleFunc("POST /teams/{teamID}/invites/reject", auth(inviteController.Reject))
	mux.HandleFunc("GET /invites", auth(inviteController.ListMine))

	// Events
	mux.HandleFunc("GET /events/open", auth(eventController.Open))
	mux.HandleFunc("POST /events/{eventID}/registrations", auth(eventController.Register))
	mux.HandleFunc("GET /events/{eventID}/registrations", auth(eventController.ListRegistrations))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
