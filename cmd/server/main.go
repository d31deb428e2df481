package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"axleague/config"
	"axleague/internal/adapters/auth"
	"axleague/internal/adapters/email"
	"axleague/internal/adapters/storage"
	httpdelivery "axleague/internal/delivery/http"
	"axleague/internal/delivery/http/controllers"
	"axleague/internal/delivery/http/middleware"
	"axleague/internal/repository/dynamo"
	"axleague/internal/services"
)

// @title AxLeague API
// @version 1.0
// @description Backend for the AxLeague amateur football league platform.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger()

	awsCfg := aws.Config{
		Region: cfg.AWS.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				cfg.AWS.AccessKeyID,
				cfg.AWS.SecretAccessKey,
				"",
			),
		),
	}

	db := dynamo.NewClient(awsCfg, cfg.AWS.Endpoint)
	userRepo := dynamo.NewUserRepository(db, cfg.Tables)
	teamRepo := dynamo.NewTeamRepository(db, cfg.Tables)
	memberRepo := dynamo.NewMembershipRepository(db, cfg.Tables)
	inviteRepo := dynamo.NewInviteRepository(db, cfg.Tables)
	eventRepo := dynamo.NewEventRepository(db, cfg.Tables)
	regRepo := dynamo.NewRegistrationRepository(db, cfg.Tables)

	issuer := auth.NewJWTIssuer(cfg.JWTSecret)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	signer := storage.NewS3Signer(awsCfg, cfg.Storage)
	mailer := email.NewMailer(cfg.Mailer, awsCfg)
	renderer := email.NewTemplateRenderer()

	emailSvc := services.NewEmailService(mailer, renderer)
	authSvc := services.NewAuthService(userRepo, issuer, cfg.JWTExpiry)
	userSvc := services.NewUserService(userRepo, signer)
	teamSvc := services.NewTeamService(teamRepo, memberRepo, userRepo, signer)
	inviteSvc := services.NewInviteService(inviteRepo, memberRepo, teamRepo, userRepo, emailSvc)
	regSvc := services.NewRegistrationService(regRepo, eventRepo, teamRepo, memberRepo)

	mux := httpdelivery.NewRouter(
		verifier,
		controllers.NewAuthController(logger, authSvc),
		controllers.NewUserController(logger, userSvc),
		controllers.NewTeamController(logger, teamSvc),
		controllers.NewInviteController(logger, inviteSvc),
		controllers.NewEventController(logger, regSvc),
	)

	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
