package main

import (
	api "inboxcal-backend/cmd/api"
	authRepo "inboxcal-backend/internal/auth/repository"
	authUsecase "inboxcal-backend/internal/auth/usecase"
	calendarRepo "inboxcal-backend/internal/calendar/repository"
	calendarUsecase "inboxcal-backend/internal/calendar/usecase"
	emailRepo "inboxcal-backend/internal/email/repository"
	emailUsecase "inboxcal-backend/internal/email/usecase"
	syncRepo "inboxcal-backend/internal/sync/repository"
	syncUsecase "inboxcal-backend/internal/sync/usecase"
	"inboxcal-backend/pkg/config"
	"inboxcal-backend/pkg/database"
	"inboxcal-backend/pkg/gcal"
	"inboxcal-backend/pkg/gmail"
	"inboxcal-backend/pkg/google"
	"inboxcal-backend/pkg/logger"
	"inboxcal-backend/pkg/vault"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		log.Warn("GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET not set, sign-in will fail")
	}

	// Initialize database
	db, err := database.NewConnection(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	tokenVault, err := vault.New(cfg.TokenEncryptionKey, cfg.JWTSecret)
	if err != nil {
		log.WithError(err).Fatal("failed to initialise token vault")
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	mailRepository := emailRepo.NewMailRepository(db)
	calendarRepository := calendarRepo.NewCalendarRepository(db)
	syncStateRepository := syncRepo.NewSyncStateRepository(db)

	// Google clients. Access tokens are minted per cycle and never stored;
	// request pacing is kept per user.
	tokenProvider := google.NewTokenProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)
	gmailService := gmail.NewService(google.NewRateLimiters(cfg.GmailRateLimit, 5))
	calendarService := gcal.NewService(cfg.CalendarHorizon, cfg.CalendarMaxResults, google.NewRateLimiters(5, 1))

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepository, tokenProvider, tokenVault, cfg.JWTSecret, cfg.SessionExpiry)
	mailUsecaseInstance := emailUsecase.NewMailUsecase(mailRepository, gmailService, authUsecaseInstance, tokenProvider)
	calendarUsecaseInstance := calendarUsecase.NewCalendarUsecase(calendarRepository)
	syncUsecaseInstance := syncUsecase.NewCoordinator(
		syncStateRepository,
		authUsecaseInstance,
		tokenProvider,
		cfg.SyncStaleAfter,
		log,
		emailUsecase.NewMailSyncer(gmailService, mailRepository, cfg.GmailSyncLimit, log),
		calendarUsecase.NewCalendarSyncer(calendarService, calendarRepository, log),
	)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, mailUsecaseInstance, calendarUsecaseInstance, syncUsecaseInstance, cfg, log)

	log.WithField("port", cfg.Port).Info("server starting")
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}
