package repositories

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/maxlibrach/nanas-table/backend/internal/models"
	"google.golang.org/api/iterator"
)

// NoteRepository defines the interface for note data operations
type NoteRepository interface {
	CreateNote(ctx context.Context, note *models.Note) error
	ListByMemoryID(ctx context.Context, memoryID string) ([]models.Note, error)
	ListByMemoryIDs(ctx context.Context, memoryIDs []string) (map[string][]models.Note, error)
	DeleteByMemoryID(ctx context.Context, memoryID string) (int, error)
}

// FirestoreNoteRepository implements NoteRepository on the notes collection
type FirestoreNoteRepository struct {
	collection *firestore.CollectionRef
}

// NewFirestoreNoteRepository creates a new FirestoreNoteRepository
func NewFirestoreNoteRepository(client *firestore.Client) *FirestoreNoteRepository {
	return &FirestoreNoteRepository{collection: client.Collection("notes")}
}

// CreateNote creates a new note attached to a memory
func (r *FirestoreNoteRepository) CreateNote(ctx context.Context, note *models.Note) error {
	note.Timestamp = time.Now().UTC().Format(time.RFC3339)
	ref, _, err := r.collection.Add(ctx, note)
	if err != nil {
		return err
	}
	note.ID = ref.ID
	return nil
}

// ListByMemoryID retrieves the notes of a memory, oldest first
func (r *FirestoreNoteRepository) ListByMemoryID(ctx context.Context, memoryID string) ([]models.Note, error) {
	grouped, err := r.ListByMemoryIDs(ctx, []string{memoryID})
	if err != nil {
		return nil, err
	}
	return grouped[memoryID], nil
}

// ListByMemoryIDs retrieves notes for a set of memories using chunked
// "in" queries, grouped by memory id and sorted timestamp ascending.
func (r *FirestoreNoteRepository) ListByMemoryIDs(ctx context.Context, memoryIDs []string) (map[string][]models.Note, error) {
	var all []models.Note
	for _, chunk := range chunkStrings(memoryIDs, firestoreInLimit) {
		iter := r.collection.Where("memoryId", "in", chunk).Documents(ctx)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				iter.Stop()
				return nil, err
			}
			var note models.Note
			if err := doc.DataTo(&note); err != nil {
				iter.Stop()
				return nil, err
			}
			note.ID = doc.Ref.ID
			all = append(all, note)
		}
		iter.Stop()
	}
	return GroupNotesByMemory(all), nil
}

// DeleteByMemoryID removes every note attached to a memory and returns
// how many were deleted.
func (r *FirestoreNoteRepository) DeleteByMemoryID(ctx context.Context, memoryID string) (int, error) {
	iter := r.collection.Where("memoryId", "==", memoryID).Documents(ctx)
	defer iter.Stop()

	deleted := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return deleted, err
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
