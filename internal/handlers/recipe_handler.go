package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maxlibrach/nanas-table/backend/internal/models"
	"github.com/maxlibrach/nanas-table/backend/internal/repositories"
	"github.com/maxlibrach/nanas-table/backend/internal/uploads"
	"github.com/rs/zerolog/log"
)

// RecipeHandler handles HTTP requests related to recipes
type RecipeHandler struct {
	recipeRepo  repositories.RecipeRepository
	mediaRepo   repositories.MediaRepository
	commentRepo repositories.CommentRepository
	uploader    *uploads.Uploader
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(
	recipeRepo repositories.RecipeRepository,
	mediaRepo repositories.MediaRepository,
	commentRepo repositories.CommentRepository,
	uploader *uploads.Uploader,
) *RecipeHandler {
	return &RecipeHandler{
		recipeRepo:  recipeRepo,
		mediaRepo:   mediaRepo,
		commentRepo: commentRepo,
		uploader:    uploader,
	}
}

// RegisterRecipeRoutes registers recipe-related routes
func (h *RecipeHandler) RegisterRecipeRoutes(g *echo.Group) {
	g.POST("/recipes", h.CreateRecipe)
	g.GET("/recipes", h.ListRecipes)
	g.GET("/recipes/:slug", h.GetRecipe)
	g.PUT("/recipes/:id", h.UpdateRecipe)
	g.DELETE("/recipes/:id", h.DeleteRecipe)
	g.POST("/recipes/:id/photos", h.UploadPhotos)
}

// CreateRecipe creates a new recipe; the slug is derived server-side
// from the title.
func (h *RecipeHandler) CreateRecipe(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.CreateRecipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	recipe := &models.Recipe{
		Title:         req.Title,
		Instructions:  req.Instructions,
		Tags:          req.Tags,
		CreatedBy:     user.ID,
		CreatedByName: user.DisplayName,
	}
	if err := h.recipeRepo.CreateRecipe(c.Request().Context(), recipe); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusCreated, recipe)
}

// ListRecipes retrieves all recipes, newest first
func (h *RecipeHandler) ListRecipes(c echo.Context) error {
	recipes, err := h.recipeRepo.ListRecipes(c.Request().Context())
	if err != nil {
		return mapServiceError(err)
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	return c.JSON(http.StatusOK, recipes)
}

// GetRecipe retrieves one recipe by slug (falling back to document id)
// together with the media tagged with it.
func (h *RecipeHandler) GetRecipe(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	recipe, err := h.recipeRepo.GetRecipeBySlug(ctx, slug)
	if err == repositories.ErrRecipeNotFound {
		recipe, err = h.recipeRepo.GetRecipeByID(ctx, slug)
	}
	if err != nil {
		if err == repositories.ErrRecipeNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Recipe not found")
		}
		return mapServiceError(err)
	}

	media, err := h.mediaRepo.ListByRecipeID(ctx, recipe.ID)
	if err != nil {
		log.Warn().Err(err).Str("recipeId", recipe.ID).Msg("Error fetching media for recipe")
		media = []models.Media{}
	}
	if media == nil {
		media = []models.Media{}
	}

	return c.JSON(http.StatusOK, echo.Map{"recipe": recipe, "media": media})
}

// UpdateRecipe applies a typed patch to a recipe
func (h *RecipeHandler) UpdateRecipe(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}
	ctx := c.Request().Context()
	recipeID := c.Param("id")

	var req models.UpdateRecipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.recipeRepo.GetRecipeByID(ctx, recipeID); err != nil {
		return mapServiceError(err)
	}
	if err := h.recipeRepo.UpdateRecipe(ctx, recipeID, &req); err != nil {
		return mapServiceError(err)
	}

	recipe, err := h.recipeRepo.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, recipe)
}

// DeleteRecipe removes a recipe and cascades over its comments. Media
// tagged with the recipe keep their files; only the tag target goes
// away.
func (h *RecipeHandler) DeleteRecipe(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}
	ctx := c.Request().Context()
	recipeID := c.Param("id")

	if _, err := h.recipeRepo.GetRecipeByID(ctx, recipeID); err != nil {
		return mapServiceError(err)
	}

	if _, err := h.commentRepo.DeleteByParentID(ctx, recipeID); err != nil {
		log.Warn().Err(err).Str("recipeId", recipeID).Msg("Error deleting comments during recipe cascade")
	}
	if err := h.recipeRepo.DeleteRecipe(ctx, recipeID); err != nil {
		return mapServiceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadPhotos uploads recipe photos (images only) and appends their
// URLs to the recipe.
func (h *RecipeHandler) UploadPhotos(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	recipeID := c.Param("id")

	if _, err := h.recipeRepo.GetRecipeByID(ctx, recipeID); err != nil {
		return mapServiceError(err)
	}

	files, _, err := readMultipartFiles(c)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No files provided")
	}

	var urls []string
	var failures []uploads.FileError
	for _, f := range files {
		url, err := h.uploader.UploadRecipePhoto(ctx, user, recipeID, f)
		if err != nil {
			failures = append(failures, uploads.FileError{Name: f.Name, Err: err})
			continue
		}
		if err := h.recipeRepo.AddPhotoURL(ctx, recipeID, url); err != nil {
			failures = append(failures, uploads.FileError{Name: f.Name, Err: err})
			continue
		}
		urls = append(urls, url)
	}

	if len(failures) > 0 {
		batchErr := &uploads.BatchError{Failures: failures}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": batchErr.Error(), "photoUrls": urls})
	}
	return c.JSON(http.StatusCreated, echo.Map{"photoUrls": urls})
}
