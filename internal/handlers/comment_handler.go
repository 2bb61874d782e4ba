package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maxlibrach/nanas-table/backend/internal/models"
	"github.com/maxlibrach/nanas-table/backend/internal/repositories"
)

// CommentHandler serves the memory- and recipe-scoped comment
// collections.
type CommentHandler struct {
	memoryComments repositories.CommentRepository
	recipeComments repositories.CommentRepository
	memoryRepo     repositories.MemoryRepository
	recipeRepo     repositories.RecipeRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	memoryComments repositories.CommentRepository,
	recipeComments repositories.CommentRepository,
	memoryRepo repositories.MemoryRepository,
	recipeRepo repositories.RecipeRepository,
) *CommentHandler {
	return &CommentHandler{
		memoryComments: memoryComments,
		recipeComments: recipeComments,
		memoryRepo:     memoryRepo,
		recipeRepo:     recipeRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/memories/:id/comments", h.ListMemoryComments)
	g.POST("/memories/:id/comments", h.AddMemoryComment)
	g.DELETE("/memories/:id/comments/:commentId", h.DeleteMemoryComment)
	g.GET("/recipes/:id/comments", h.ListRecipeComments)
	g.POST("/recipes/:id/comments", h.AddRecipeComment)
	g.DELETE("/recipes/:id/comments/:commentId", h.DeleteRecipeComment)
}

// ListMemoryComments retrieves a memory's comments, oldest first
func (h *CommentHandler) ListMemoryComments(c echo.Context) error {
	comments, err := h.memoryComments.ListByParentID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapServiceError(err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return c.JSON(http.StatusOK, comments)
}

// AddMemoryComment adds a comment to a memory
func (h *CommentHandler) AddMemoryComment(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	memoryID := c.Param("id")

	if _, err := h.memoryRepo.GetMemoryByID(ctx, memoryID); err != nil {
		return mapServiceError(err)
	}
	return h.addComment(c, h.memoryComments, memoryID, user)
}

// DeleteMemoryComment deletes a comment from a memory
func (h *CommentHandler) DeleteMemoryComment(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}
	if err := h.memoryComments.DeleteComment(c.Request().Context(), c.Param("commentId")); err != nil {
		return mapServiceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListRecipeComments retrieves a recipe's comments, oldest first
func (h *CommentHandler) ListRecipeComments(c echo.Context) error {
	comments, err := h.recipeComments.ListByParentID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapServiceError(err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return c.JSON(http.StatusOK, comments)
}

// AddRecipeComment adds a comment to a recipe
func (h *CommentHandler) AddRecipeComment(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	recipeID := c.Param("id")

	if _, err := h.recipeRepo.GetRecipeByID(ctx, recipeID); err != nil {
		return mapServiceError(err)
	}
	return h.addComment(c, h.recipeComments, recipeID, user)
}

// DeleteRecipeComment deletes a comment from a recipe
func (h *CommentHandler) DeleteRecipeComment(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}
	if err := h.recipeComments.DeleteComment(c.Request().Context(), c.Param("commentId")); err != nil {
		return mapServiceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CommentHandler) addComment(c echo.Context, repo repositories.CommentRepository, parentID string, user *models.User) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment := &models.Comment{
		ParentID:   parentID,
		AuthorID:   user.ID,
		AuthorName: user.DisplayName,
		Text:       req.Text,
	}
	if err := repo.CreateComment(c.Request().Context(), comment); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}
