package handlers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/maxlibrach/nanas-table/backend/internal/models"
	"github.com/maxlibrach/nanas-table/backend/internal/repositories"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// In-memory fakes implementing the repository interfaces, used to
// exercise handler orchestration without Firestore.

type fakeMemoryRepo struct {
	mu        sync.Mutex
	memories  map[string]*models.Memory
	nextID    int
	createErr error
}

func newFakeMemoryRepo() *fakeMemoryRepo {
	return &fakeMemoryRepo{memories: map[string]*models.Memory{}}
}

func (r *fakeMemoryRepo) CreateMemory(_ context.Context, memory *models.Memory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if memory.Date == "" || memory.Occasion == "" || memory.Meal == "" || memory.Dessert == "" {
		return fmt.Errorf("missing required fields")
	}
	if len(memory.Attendees) == 0 {
		return fmt.Errorf("attendees must be a non-empty list")
	}
	var taken []string
	for _, m := range r.memories {
		if m.Date == memory.Date {
			taken = append(taken, m.EventCode)
		}
	}
	memory.EventCode = repositories.NextEventCode(memory.Date, taken)
	r.nextID++
	memory.ID = fmt.Sprintf("mem-%d", r.nextID)
	stored := *memory
	r.memories[memory.ID] = &stored
	return nil
}

func (r *fakeMemoryRepo) GetMemoryByID(_ context.Context, id string) (*models.Memory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.memories[id]
	if !ok {
		return nil, status.Error(codes.NotFound, "memory not found")
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMemoryRepo) GetMemoryByEventCode(_ context.Context, eventCode string) (*models.Memory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.memories {
		if m.EventCode == eventCode {
			copied := *m
			return &copied, nil
		}
	}
	return nil, repositories.ErrMemoryNotFound
}

func (r *fakeMemoryRepo) ListMemories(_ context.Context) ([]models.Memory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Memory
	for _, m := range r.memories {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (r *fakeMemoryRepo) UpdateMemory(_ context.Context, id string, patch *models.UpdateMemoryRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.memories[id]
	if !ok {
		return status.Error(codes.NotFound, "memory not found")
	}
	if patch.Date != nil {
		m.Date = *patch.Date
	}
	if patch.Occasion != nil {
		m.Occasion = *patch.Occasion
	}
	if patch.Holiday != nil {
		m.Holiday = *patch.Holiday
	}
	if patch.Attendees != nil {
		m.Attendees = *patch.Attendees
	}
	if patch.OtherAttendees != nil {
		m.OtherAttendees = *patch.OtherAttendees
	}
	if patch.Meal != nil {
		m.Meal = *patch.Meal
	}
	if patch.Dessert != nil {
		m.Dessert = *patch.Dessert
	}
	if patch.Celebration != nil {
		m.Celebration = *patch.Celebration
	}
	if patch.CoverPhotoID != nil {
		m.CoverPhotoID = *patch.CoverPhotoID
	}
	return nil
}

func (r *fakeMemoryRepo) DeleteMemory(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.memories, id)
	return nil
}

type fakeNoteRepo struct {
	notes     []models.Note
	deleteErr error
	nextID    int
}

func (r *fakeNoteRepo) CreateNote(_ context.Context, note *models.Note) error {
	r.nextID++
	note.ID = fmt.Sprintf("note-%d", r.nextID)
	if note.Timestamp == "" {
		note.Timestamp = fmt.Sprintf("2024-01-01T00:00:%02dZ", r.nextID)
	}
	r.notes = append(r.notes, *note)
	return nil
}

func (r *fakeNoteRepo) ListByMemoryID(ctx context.Context, memoryID string) ([]models.Note, error) {
	grouped, err := r.ListByMemoryIDs(ctx, []string{memoryID})
	if err != nil {
		return nil, err
	}
	return grouped[memoryID], nil
}

func (r *fakeNoteRepo) ListByMemoryIDs(_ context.Context, memoryIDs []string) (map[string][]models.Note, error) {
	wanted := map[string]bool{}
	for _, id := range memoryIDs {
		wanted[id] = true
	}
	var matched []models.Note
	for _, n := range r.notes {
		if wanted[n.MemoryID] {
			matched = append(matched, n)
		}
	}
	return repositories.GroupNotesByMemory(matched), nil
}

func (r *fakeNoteRepo) DeleteByMemoryID(_ context.Context, memoryID string) (int, error) {
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	var kept []models.Note
	deleted := 0
	for _, n := range r.notes {
		if n.MemoryID == memoryID {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	r.notes = kept
	return deleted, nil
}

type fakeMediaRepo struct {
	media        map[string]*models.Media
	deletedBlobs []string
	nextID       int
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{media: map[string]*models.Media{}}
}

func (r *fakeMediaRepo) CreateMedia(_ context.Context, media *models.Media) error {
	r.nextID++
	media.ID = fmt.Sprintf("media-%d", r.nextID)
	if media.Timestamp == "" {
		media.Timestamp = fmt.Sprintf("2024-01-01T00:01:%02dZ", r.nextID)
	}
	stored := *media
	r.media[media.ID] = &stored
	return nil
}

func (r *fakeMediaRepo) GetMediaByID(_ context.Context, id string) (*models.Media, error) {
	m, ok := r.media[id]
	if !ok {
		return nil, status.Error(codes.NotFound, "media not found")
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMediaRepo) ListByMemoryID(ctx context.Context, memoryID string) ([]models.Media, error) {
	grouped, err := r.ListByMemoryIDs(ctx, []string{memoryID})
	if err != nil {
		return nil, err
	}
	return grouped[memoryID], nil
}

func (r *fakeMediaRepo) ListByMemoryIDs(_ context.Context, memoryIDs []string) (map[string][]models.Media, error) {
	wanted := map[string]bool{}
	for _, id := range memoryIDs {
		wanted[id] = true
	}
	var matched []models.Media
	for _, m := range r.media {
		if wanted[m.MemoryID] {
			matched = append(matched, *m)
		}
	}
	return repositories.GroupMediaByMemory(matched), nil
}

func (r *fakeMediaRepo) ListByRecipeID(_ context.Context, recipeID string) ([]models.Media, error) {
	var matched []models.Media
	for _, m := range r.media {
		for _, id := range m.RecipeIDs {
			if id == recipeID {
				matched = append(matched, *m)
				break
			}
		}
	}
	return matched, nil
}

func (r *fakeMediaRepo) DeleteMedia(_ context.Context, id string) error {
	m, ok := r.media[id]
	if !ok {
		return status.Error(codes.NotFound, "media not found")
	}
	r.deletedBlobs = append(r.deletedBlobs, m.FileURL)
	delete(r.media, id)
	return nil
}

func (r *fakeMediaRepo) DeleteByMemoryID(_ context.Context, memoryID string) (int, error) {
	deleted := 0
	for id, m := range r.media {
		if m.MemoryID == memoryID {
			r.deletedBlobs = append(r.deletedBlobs, m.FileURL)
			delete(r.media, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeMediaRepo) TagRecipe(_ context.Context, mediaID, recipeID string) error {
	m, ok := r.media[mediaID]
	if !ok {
		return status.Error(codes.NotFound, "media not found")
	}
	for _, id := range m.RecipeIDs {
		if id == recipeID {
			return nil // set semantics: already present
		}
	}
	m.RecipeIDs = append(m.RecipeIDs, recipeID)
	return nil
}

func (r *fakeMediaRepo) UntagRecipe(_ context.Context, mediaID, recipeID string) error {
	m, ok := r.media[mediaID]
	if !ok {
		return status.Error(codes.NotFound, "media not found")
	}
	var kept []string
	for _, id := range m.RecipeIDs {
		if id != recipeID {
			kept = append(kept, id)
		}
	}
	m.RecipeIDs = kept
	return nil
}

type fakeCommentRepo struct {
	comments []models.Comment
	nextID   int
}

func (r *fakeCommentRepo) CreateComment(_ context.Context, comment *models.Comment) error {
	r.nextID++
	comment.ID = fmt.Sprintf("comment-%d", r.nextID)
	if comment.Timestamp == "" {
		comment.Timestamp = fmt.Sprintf("2024-01-01T00:02:%02dZ", r.nextID)
	}
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByParentID(_ context.Context, parentID string) ([]models.Comment, error) {
	var matched []models.Comment
	for _, c := range r.comments {
		if c.ParentID == parentID {
			matched = append(matched, c)
		}
	}
	repositories.SortCommentsByTimestamp(matched)
	return matched, nil
}

func (r *fakeCommentRepo) DeleteComment(_ context.Context, id string) error {
	var kept []models.Comment
	for _, c := range r.comments {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	r.comments = kept
	return nil
}

func (r *fakeCommentRepo) DeleteByParentID(_ context.Context, parentID string) (int, error) {
	var kept []models.Comment
	deleted := 0
	for _, c := range r.comments {
		if c.ParentID == parentID {
			deleted++
			continue
		}
		kept = append(kept, c)
	}
	r.comments = kept
	return deleted, nil
}

type fakeRecipeRepo struct {
	recipes map[string]*models.Recipe
	nextID  int
}

func newFakeRecipeRepo() *fakeRecipeRepo {
	return &fakeRecipeRepo{recipes: map[string]*models.Recipe{}}
}

func (r *fakeRecipeRepo) CreateRecipe(_ context.Context, recipe *models.Recipe) error {
	base := repositories.Slugify(recipe.Title)
	var taken []string
	for _, existing := range r.recipes {
		taken = append(taken, existing.Slug)
	}
	recipe.Slug = repositories.NextSlug(base, taken)
	r.nextID++
	recipe.ID = fmt.Sprintf("recipe-%d", r.nextID)
	stored := *recipe
	r.recipes[recipe.ID] = &stored
	return nil
}

func (r *fakeRecipeRepo) GetRecipeByID(_ context.Context, id string) (*models.Recipe, error) {
	recipe, ok := r.recipes[id]
	if !ok {
		return nil, status.Error(codes.NotFound, "recipe not found")
	}
	copied := *recipe
	return &copied, nil
}

func (r *fakeRecipeRepo) GetRecipeBySlug(_ context.Context, slug string) (*models.Recipe, error) {
	for _, recipe := range r.recipes {
		if recipe.Slug == slug {
			copied := *recipe
			return &copied, nil
		}
	}
	return nil, repositories.ErrRecipeNotFound
}

func (r *fakeRecipeRepo) ListRecipes(_ context.Context) ([]models.Recipe, error) {
	var out []models.Recipe
	for _, recipe := range r.recipes {
		out = append(out, *recipe)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (r *fakeRecipeRepo) UpdateRecipe(_ context.Context, id string, patch *models.UpdateRecipeRequest) error {
	recipe, ok := r.recipes[id]
	if !ok {
		return status.Error(codes.NotFound, "recipe not found")
	}
	if patch.Title != nil {
		recipe.Title = *patch.Title
	}
	if patch.Instructions != nil {
		recipe.Instructions = *patch.Instructions
	}
	if patch.Tags != nil {
		recipe.Tags = *patch.Tags
	}
	if patch.CoverPhotoURL != nil {
		recipe.CoverPhotoURL = *patch.CoverPhotoURL
	}
	return nil
}

func (r *fakeRecipeRepo) AddPhotoURL(_ context.Context, id, photoURL string) error {
	recipe, ok := r.recipes[id]
	if !ok {
		return status.Error(codes.NotFound, "recipe not found")
	}
	for _, url := range recipe.PhotoURLs {
		if url == photoURL {
			return nil
		}
	}
	recipe.PhotoURLs = append(recipe.PhotoURLs, photoURL)
	return nil
}

func (r *fakeRecipeRepo) DeleteRecipe(_ context.Context, id string) error {
	delete(r.recipes, id)
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []models.Memory
}

func (n *fakeNotifier) MemoryCreated(memory models.Memory) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, memory)
}
