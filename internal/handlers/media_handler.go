package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/maxlibrach/nanas-table/backend/internal/models"
	"github.com/maxlibrach/nanas-table/backend/internal/repositories"
	"github.com/maxlibrach/nanas-table/backend/internal/uploads"
)

// MediaHandler handles media uploads, deletion, recipe tagging and the
// combined note-plus-media contribution flow.
type MediaHandler struct {
	mediaRepo  repositories.MediaRepository
	memoryRepo repositories.MemoryRepository
	recipeRepo repositories.RecipeRepository
	noteRepo   repositories.NoteRepository
	uploader   *uploads.Uploader
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(
	mediaRepo repositories.MediaRepository,
	memoryRepo repositories.MemoryRepository,
	recipeRepo repositories.RecipeRepository,
	noteRepo repositories.NoteRepository,
	uploader *uploads.Uploader,
) *MediaHandler {
	return &MediaHandler{
		mediaRepo:  mediaRepo,
		memoryRepo: memoryRepo,
		recipeRepo: recipeRepo,
		noteRepo:   noteRepo,
		uploader:   uploader,
	}
}

// RegisterMediaRoutes registers media-related routes
func (h *MediaHandler) RegisterMediaRoutes(g *echo.Group) {
	g.POST("/memories/:id/media", h.UploadMedia)
	g.POST("/memories/:id/contributions", h.AddContribution)
	g.DELETE("/media/:id", h.DeleteMedia)
	g.POST("/media/:id/recipes/:recipeId", h.TagRecipe)
	g.DELETE("/media/:id/recipes/:recipeId", h.UntagRecipe)
}

// UploadMedia accepts a multipart batch of files (field "files", with a
// parallel "captions" field) and uploads them sequentially. Files that
// fail do not stop the batch; a partial result reports both the
// uploaded media and the aggregate error.
func (h *MediaHandler) UploadMedia(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	memoryID := c.Param("id")

	if _, err := h.memoryRepo.GetMemoryByID(ctx, memoryID); err != nil {
		return mapServiceError(err)
	}

	files, captions, err := readMultipartFiles(c)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No files provided")
	}

	uploaded, uploadErr := h.uploader.UploadAll(ctx, user, memoryID, files, captions, nil)
	if uploadErr != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":    uploadErr.Error(),
			"uploaded": mediaOrEmpty(uploaded),
		})
	}
	return c.JSON(http.StatusCreated, echo.Map{"uploaded": mediaOrEmpty(uploaded)})
}

// AddContribution adds a note and/or a batch of media to an existing
// memory in one call.
func (h *MediaHandler) AddContribution(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	memoryID := c.Param("id")

	if _, err := h.memoryRepo.GetMemoryByID(ctx, memoryID); err != nil {
		return mapServiceError(err)
	}

	noteText := strings.TrimSpace(c.FormValue("note"))
	files, captions, err := readMultipartFiles(c)
	if err != nil {
		return err
	}
	if noteText == "" && len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "A contribution needs a note or at least one file")
	}

	var note *models.Note
	if noteText != "" {
		note = &models.Note{
			MemoryID:   memoryID,
			AuthorID:   user.ID,
			AuthorName: user.DisplayName,
			Text:       noteText,
		}
		if err := h.noteRepo.CreateNote(ctx, note); err != nil {
			return mapServiceError(err)
		}
	}

	uploaded, uploadErr := h.uploader.UploadAll(ctx, user, memoryID, files, captions, nil)
	if uploadErr != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":    uploadErr.Error(),
			"note":     note,
			"uploaded": mediaOrEmpty(uploaded),
		})
	}
	return c.JSON(http.StatusCreated, echo.Map{"note": note, "uploaded": mediaOrEmpty(uploaded)})
}

// DeleteMedia removes one media item, storage object included
func (h *MediaHandler) DeleteMedia(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}
	if err := h.mediaRepo.DeleteMedia(c.Request().Context(), c.Param("id")); err != nil {
		return mapServiceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// TagRecipe links a recipe to a media item (idempotent set semantics)
func (h *MediaHandler) TagRecipe(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}
	ctx := c.Request().Context()
	mediaID := c.Param("id")
	recipeID := c.Param("recipeId")

	if _, err := h.recipeRepo.GetRecipeByID(ctx, recipeID); err != nil {
		return mapServiceError(err)
	}
	if err := h.mediaRepo.TagRecipe(ctx, mediaID, recipeID); err != nil {
		return mapServiceError(err)
	}

	media, err := h.mediaRepo.GetMediaByID(ctx, mediaID)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, media)
}

// UntagRecipe removes a recipe link from a media item
func (h *MediaHandler) UntagRecipe(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}
	ctx := c.Request().Context()
	mediaID := c.Param("id")
	recipeID := c.Param("recipeId")

	if err := h.mediaRepo.UntagRecipe(ctx, mediaID, recipeID); err != nil {
		return mapServiceError(err)
	}

	media, err := h.mediaRepo.GetMediaByID(ctx, mediaID)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, media)
}

// readMultipartFiles pulls the "files" and parallel "captions" fields
// out of a multipart request, loading file content into memory so a
// failed upload attempt can be retried.
func readMultipartFiles(c echo.Context) ([]uploads.File, []string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, nil // no multipart body; treated as zero files
	}
	fileHeaders := form.File["files"]
	captions := form.Value["captions"]

	files := make([]uploads.File, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		data, err := readFormFile(fh)
		if err != nil {
			return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "Could not read uploaded file "+fh.Filename)
		}
		files = append(files, uploads.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, captions, nil
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func mediaOrEmpty(media []*models.Media) []*models.Media {
	if media == nil {
		return []*models.Media{}
	}
	return media
}
