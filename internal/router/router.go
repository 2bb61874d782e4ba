package router

import (
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/maxlibrach/nanas-table/backend/internal/handlers"
	"github.com/maxlibrach/nanas-table/backend/internal/mailer"
	"github.com/maxlibrach/nanas-table/backend/internal/middleware"
	"github.com/maxlibrach/nanas-table/backend/internal/repositories"
	"github.com/maxlibrach/nanas-table/backend/internal/storage"
	"github.com/maxlibrach/nanas-table/backend/internal/uploads"
	"github.com/maxlibrach/nanas-table/backend/pkg/config"
	"github.com/maxlibrach/nanas-table/backend/pkg/firebase"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.RequestID())
	log.Info().Msg("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, app *firebase.App, cfg *config.Config) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize shared infrastructure ---
	blobs := storage.NewGCSBlobStore(app.Bucket, app.BucketName)

	// --- Initialize Repositories ---
	memoryRepo := repositories.NewFirestoreMemoryRepository(app.Firestore)
	noteRepo := repositories.NewFirestoreNoteRepository(app.Firestore)
	mediaRepo := repositories.NewFirestoreMediaRepository(app.Firestore, blobs)
	recipeRepo := repositories.NewFirestoreRecipeRepository(app.Firestore)
	memoryComments := repositories.NewMemoryCommentRepository(app.Firestore)
	recipeComments := repositories.NewRecipeCommentRepository(app.Firestore)
	familyRepo := repositories.NewFirestoreFamilyMemberRepository(app.Firestore)

	uploader := uploads.NewUploader(blobs, mediaRepo)

	resend := mailer.NewClient(cfg.ResendAPIKey, cfg.ResendFromEmail)
	notifier := mailer.NewNotifier(resend, cfg.NotifyRecipients, cfg.SiteBaseURL)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(app.AuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Info().Msg("Auth routes configured.")

	// --- Protected routes (require the session JWT) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	memoryHandler := handlers.NewMemoryHandler(memoryRepo, noteRepo, mediaRepo, memoryComments, notifier)
	memoryHandler.RegisterMemoryRoutes(api)
	log.Info().Msg("Memory routes configured.")

	mediaHandler := handlers.NewMediaHandler(mediaRepo, memoryRepo, recipeRepo, noteRepo, uploader)
	mediaHandler.RegisterMediaRoutes(api)
	log.Info().Msg("Media routes configured.")

	recipeHandler := handlers.NewRecipeHandler(recipeRepo, mediaRepo, recipeComments, uploader)
	recipeHandler.RegisterRecipeRoutes(api)
	log.Info().Msg("Recipe routes configured.")

	commentHandler := handlers.NewCommentHandler(memoryComments, recipeComments, memoryRepo, recipeRepo)
	commentHandler.RegisterCommentRoutes(api)
	log.Info().Msg("Comment routes configured.")

	familyHandler := handlers.NewFamilyHandler(familyRepo)
	familyHandler.RegisterFamilyRoutes(api)
	log.Info().Msg("Family routes configured.")

	log.Info().Msg("All routes configured.")
}
