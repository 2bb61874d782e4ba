package main

import (
	"context"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/maxlibrach/nanas-table/backend/internal/router"
	"github.com/maxlibrach/nanas-table/backend/pkg/config"
	"github.com/maxlibrach/nanas-table/backend/pkg/firebase"
	"github.com/maxlibrach/nanas-table/backend/validators"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg := config.Load()
	if cfg.Env == "development" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Initialize Firebase (auth, firestore, storage)
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.StorageBucket)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Firebase")
	}
	defer firebaseApp.Close()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, firebaseApp, cfg)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
