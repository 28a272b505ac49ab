package main

import (
	"math/rand"
	"time"

	"github.com/chytanka/chytanka-backend/internal/db"
	"github.com/chytanka/chytanka-backend/internal/handlers"
	"github.com/chytanka/chytanka-backend/internal/logger"
	"github.com/chytanka/chytanka-backend/internal/repos"
	"github.com/chytanka/chytanka-backend/internal/server"
	"github.com/chytanka/chytanka-backend/internal/services"
	"github.com/chytanka/chytanka-backend/internal/utils"
)

func main() {
	mode := utils.GetEnv("MODE", "dev", nil)
	log, err := logger.New(mode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	dbService, err := db.New(log)
	if err != nil {
		log.Fatal("Database connection failed", "error", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Fatal("Database migration failed", "error", err)
	}
	gormDB := dbService.DB()

	profileRepo := repos.NewReadingProfileRepo(gormDB, log)
	textRepo := repos.NewTextDocRepo(gormDB, log)
	sessionRepo := repos.NewReadingSessionRepo(gormDB, log)
	runRepo := repos.NewDiagnosticRunRepo(gormDB, log)

	authService, err := services.NewAuthService(log)
	if err != nil {
		log.Fatal("Auth service init failed", "error", err)
	}
	defer authService.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	profileService := services.NewProfileService(gormDB, log, profileRepo)
	textService := services.NewTextService(log, textRepo, sessionRepo, profileService, rng)
	sessionService := services.NewSessionService(log, sessionRepo, textRepo, profileService)
	diagnosticService := services.NewDiagnosticService(log, runRepo, profileService, textService, authService)

	router := server.NewRouter(server.RouterConfig{
		Log:               log,
		Auth:              authService,
		AuthHandler:       handlers.NewAuthHandler(authService, log),
		ProfileHandler:    handlers.NewProfileHandler(profileService, log),
		SessionHandler:    handlers.NewSessionHandler(sessionService, log),
		TextHandler:       handlers.NewTextHandler(textService, log),
		DiagnosticHandler: handlers.NewDiagnosticHandler(diagnosticService, log),
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Starting server", "port", port, "mode", mode)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
