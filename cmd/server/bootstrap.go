package main

import (
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/handlers"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	tokens      *services.TokenService
	ledger      *services.RevocationLedger
	cleanup     *services.CleanupScheduler
	authHandler *handlers.AuthHandler
	taskHandler *handlers.TaskHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	db, err := models.InitDB(&cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	if err := services.CreateAdminIfNotExists(db); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	tokens := services.NewTokenService(&cfg.JWT)
	ledger := services.NewRevocationLedger(tokens)
	store := services.NewRefreshTokenStore(db, tokens)

	var verifier services.CredentialVerifier
	if cfg.LDAP.Enabled {
		verifier = services.NewLDAPVerifier(&cfg.LDAP)
	} else {
		verifier = services.NewLocalVerifier(db)
	}

	sessions := services.NewSessionService(tokens, ledger, store, verifier)

	cleanup := services.NewCleanupScheduler(store)
	cleanup.Start()

	return &appServices{
		tokens:      tokens,
		ledger:      ledger,
		cleanup:     cleanup,
		authHandler: handlers.NewAuthHandler(sessions, cfg.LDAP.Enabled),
		taskHandler: handlers.NewTaskHandler(services.NewTaskService(db)),
	}
}

// shutdown gracefully stops background work.
func (s *appServices) shutdown() {
	s.cleanup.Stop()
	logger.Info().Msg("Schedulers stopped")
}
