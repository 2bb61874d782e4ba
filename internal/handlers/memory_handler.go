package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maxlibrach/nanas-table/backend/internal/models"
	"github.com/maxlibrach/nanas-table/backend/internal/repositories"
	"github.com/rs/zerolog/log"
)

// MemoryNotifier is the at-most-once side effect fired after a memory
// is created. Implementations must not block the caller.
type MemoryNotifier interface {
	MemoryCreated(memory models.Memory)
}

// MemoryHandler handles HTTP requests related to memories and their notes
type MemoryHandler struct {
	memoryRepo  repositories.MemoryRepository
	noteRepo    repositories.NoteRepository
	mediaRepo   repositories.MediaRepository
	commentRepo repositories.CommentRepository
	notifier    MemoryNotifier
}

// NewMemoryHandler creates a new MemoryHandler
func NewMemoryHandler(
	memoryRepo repositories.MemoryRepository,
	noteRepo repositories.NoteRepository,
	mediaRepo repositories.MediaRepository,
	commentRepo repositories.CommentRepository,
	notifier MemoryNotifier,
) *MemoryHandler {
	return &MemoryHandler{
		memoryRepo:  memoryRepo,
		noteRepo:    noteRepo,
		mediaRepo:   mediaRepo,
		commentRepo: commentRepo,
		notifier:    notifier,
	}
}

// RegisterMemoryRoutes registers memory-related routes
func (h *MemoryHandler) RegisterMemoryRoutes(g *echo.Group) {
	g.POST("/memories", h.CreateMemory)
	g.GET("/memories", h.ListMemories)
	g.GET("/memories/:code", h.GetMemory)
	g.PUT("/memories/:id", h.UpdateMemory)
	g.DELETE("/memories/:id", h.DeleteMemory)
	g.POST("/memories/:id/notes", h.AddNote)
}

// CreateMemory creates a new memory and fires the family notification
// email in the background.
func (h *MemoryHandler) CreateMemory(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.CreateMemoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	memory := &models.Memory{
		Date:           req.Date,
		Occasion:       req.Occasion,
		Holiday:        req.Holiday,
		Attendees:      req.Attendees,
		OtherAttendees: req.OtherAttendees,
		Meal:           req.Meal,
		Dessert:        req.Dessert,
		Celebration:    req.Celebration,
		CreatedBy:      user.ID,
		CreatedByName:  user.DisplayName,
		Notes:          []models.Note{},
		Media:          []models.Media{},
	}

	if err := h.memoryRepo.CreateMemory(c.Request().Context(), memory); err != nil {
		return mapServiceError(err)
	}

	// Fire-and-forget: the response does not wait for the email and
	// delivery failures are never surfaced to the creator.
	if h.notifier != nil {
		h.notifier.MemoryCreated(*memory)
	}

	return c.JSON(http.StatusCreated, memory)
}

// ListMemories returns all memories ordered by date descending, each
// with its notes and media attached oldest-first. The dependent
// collections are fetched with two batched id-set queries rather than
// per-memory reads.
func (h *MemoryHandler) ListMemories(c echo.Context) error {
	ctx := c.Request().Context()

	memories, err := h.memoryRepo.ListMemories(ctx)
	if err != nil {
		return mapServiceError(err)
	}

	ids := make([]string, len(memories))
	for i, m := range memories {
		ids[i] = m.ID
	}

	notesByMemory, err := h.noteRepo.ListByMemoryIDs(ctx, ids)
	if err != nil {
		log.Warn().Err(err).Msg("Error fetching notes for memories")
		notesByMemory = map[string][]models.Note{}
	}
	mediaByMemory, err := h.mediaRepo.ListByMemoryIDs(ctx, ids)
	if err != nil {
		log.Warn().Err(err).Msg("Error fetching media for memories")
		mediaByMemory = map[string][]models.Media{}
	}

	for i := range memories {
		memories[i].Notes = notesByMemory[memories[i].ID]
		memories[i].Media = mediaByMemory[memories[i].ID]
		if memories[i].Notes == nil {
			memories[i].Notes = []models.Note{}
		}
		if memories[i].Media == nil {
			memories[i].Media = []models.Media{}
		}
	}

	return c.JSON(http.StatusOK, memories)
}

// GetMemory retrieves one memory by event code, falling back to the
// document id for older links.
func (h *MemoryHandler) GetMemory(c echo.Context) error {
	ctx := c.Request().Context()
	code := c.Param("code")

	memory, err := h.memoryRepo.GetMemoryByEventCode(ctx, code)
	if err == repositories.ErrMemoryNotFound {
		memory, err = h.memoryRepo.GetMemoryByID(ctx, code)
	}
	if err != nil {
		if err == repositories.ErrMemoryNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Memory not found")
		}
		return mapServiceError(err)
	}

	notes, err := h.noteRepo.ListByMemoryID(ctx, memory.ID)
	if err != nil {
		log.Warn().Err(err).Str("memoryId", memory.ID).Msg("Error fetching notes for memory")
	}
	media, err := h.mediaRepo.ListByMemoryID(ctx, memory.ID)
	if err != nil {
		log.Warn().Err(err).Str("memoryId", memory.ID).Msg("Error fetching media for memory")
	}
	memory.Notes = notes
	memory.Media = media
	if memory.Notes == nil {
		memory.Notes = []models.Note{}
	}
	if memory.Media == nil {
		memory.Media = []models.Media{}
	}

	return c.JSON(http.StatusOK, memory)
}

// UpdateMemory applies a typed patch to a memory
func (h *MemoryHandler) UpdateMemory(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}
	ctx := c.Request().Context()
	memoryID := c.Param("id")

	var req models.UpdateMemoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.memoryRepo.GetMemoryByID(ctx, memoryID); err != nil {
		return mapServiceError(err)
	}
	if err := h.memoryRepo.UpdateMemory(ctx, memoryID, &req); err != nil {
		return mapServiceError(err)
	}

	memory, err := h.memoryRepo.GetMemoryByID(ctx, memoryID)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, memory)
}

// DeleteMemory removes a memory and cascades over its notes, media
// (storage objects included) and comments. Sub-delete failures are
// logged and do not abort the rest of the cascade.
func (h *MemoryHandler) DeleteMemory(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}
	ctx := c.Request().Context()
	memoryID := c.Param("id")

	if _, err := h.memoryRepo.GetMemoryByID(ctx, memoryID); err != nil {
		return mapServiceError(err)
	}

	if _, err := h.noteRepo.DeleteByMemoryID(ctx, memoryID); err != nil {
		log.Warn().Err(err).Str("memoryId", memoryID).Msg("Error deleting notes during memory cascade")
	}
	if _, err := h.mediaRepo.DeleteByMemoryID(ctx, memoryID); err != nil {
		log.Warn().Err(err).Str("memoryId", memoryID).Msg("Error deleting media during memory cascade")
	}
	if _, err := h.commentRepo.DeleteByParentID(ctx, memoryID); err != nil {
		log.Warn().Err(err).Str("memoryId", memoryID).Msg("Error deleting comments during memory cascade")
	}

	if err := h.memoryRepo.DeleteMemory(ctx, memoryID); err != nil {
		return mapServiceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddNote attaches a note to a memory
func (h *MemoryHandler) AddNote(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	memoryID := c.Param("id")

	var req models.CreateNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.memoryRepo.GetMemoryByID(ctx, memoryID); err != nil {
		return mapServiceError(err)
	}

	note := &models.Note{
		MemoryID:   memoryID,
		AuthorID:   user.ID,
		AuthorName: user.DisplayName,
		Text:       req.Text,
	}
	if err := h.noteRepo.CreateNote(ctx, note); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusCreated, note)
}
