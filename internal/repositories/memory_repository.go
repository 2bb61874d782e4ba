package repositories

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/maxlibrach/nanas-table/backend/internal/models"
	"google.golang.org/api/iterator"
)

// ErrMemoryNotFound is returned when no memory matches the lookup.
var ErrMemoryNotFound = fmt.Errorf("memory not found")

// MemoryRepository defines the interface for memory data operations
type MemoryRepository interface {
	CreateMemory(ctx context.Context, memory *models.Memory) error
	GetMemoryByID(ctx context.Context, id string) (*models.Memory, error)
	GetMemoryByEventCode(ctx context.Context, eventCode string) (*models.Memory, error)
	ListMemories(ctx context.Context) ([]models.Memory, error)
	UpdateMemory(ctx context.Context, id string, patch *models.UpdateMemoryRequest) error
	DeleteMemory(ctx context.Context, id string) error
}

// FirestoreMemoryRepository implements MemoryRepository on the memories collection
type FirestoreMemoryRepository struct {
	collection *firestore.CollectionRef
}

// NewFirestoreMemoryRepository creates a new FirestoreMemoryRepository
func NewFirestoreMemoryRepository(client *firestore.Client) *FirestoreMemoryRepository {
	return &FirestoreMemoryRepository{collection: client.Collection("memories")}
}

// CreateMemory validates required fields, allocates the event code and
// writes the document. The event code check-then-write is not done in a
// transaction; two concurrent creates on the same date can allocate the
// same code.
func (r *FirestoreMemoryRepository) CreateMemory(ctx context.Context, memory *models.Memory) error {
	if memory.Date == "" || memory.Occasion == "" || memory.Meal == "" || memory.Dessert == "" {
		return fmt.Errorf("missing required fields")
	}
	if len(memory.Attendees) == 0 {
		return fmt.Errorf("attendees must be a non-empty list")
	}
	if memory.CreatedBy == "" {
		return fmt.Errorf("createdBy is required")
	}

	taken, err := r.eventCodesForDate(ctx, memory.Date)
	if err != nil {
		return fmt.Errorf("checking event codes for %s: %w", memory.Date, err)
	}
	memory.EventCode = NextEventCode(memory.Date, taken)
	memory.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	ref, _, err := r.collection.Add(ctx, memory)
	if err != nil {
		return err
	}
	memory.ID = ref.ID
	return nil
}

// eventCodesForDate collects the codes already allocated to memories on
// the given date.
func (r *FirestoreMemoryRepository) eventCodesForDate(ctx context.Context, date string) ([]string, error) {
	iter := r.collection.Where("date", "==", date).Documents(ctx)
	defer iter.Stop()

	var codes []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var memory models.Memory
		if err := doc.DataTo(&memory); err != nil {
			return nil, err
		}
		if memory.EventCode != "" {
			codes = append(codes, memory.EventCode)
		}
	}
	return codes, nil
}

// GetMemoryByID retrieves a memory document by id. Notes and media are
// attached by the caller.
func (r *FirestoreMemoryRepository) GetMemoryByID(ctx context.Context, id string) (*models.Memory, error) {
	doc, err := r.collection.Doc(id).Get(ctx)
	if err != nil {
		return nil, err
	}
	var memory models.Memory
	if err := doc.DataTo(&memory); err != nil {
		return nil, err
	}
	memory.ID = doc.Ref.ID
	return &memory, nil
}

// GetMemoryByEventCode retrieves a memory by its URL event code
func (r *FirestoreMemoryRepository) GetMemoryByEventCode(ctx context.Context, eventCode string) (*models.Memory, error) {
	iter := r.collection.Where("eventCode", "==", eventCode).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, ErrMemoryNotFound
	}
	if err != nil {
		return nil, err
	}
	var memory models.Memory
	if err := doc.DataTo(&memory); err != nil {
		return nil, err
	}
	memory.ID = doc.Ref.ID
	return &memory, nil
}

// ListMemories retrieves all memories ordered by date descending. Notes
// and media are attached by the caller via the batched id-set queries.
func (r *FirestoreMemoryRepository) ListMemories(ctx context.Context) ([]models.Memory, error) {
	iter := r.collection.OrderBy("date", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var memories []models.Memory
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var memory models.Memory
		if err := doc.DataTo(&memory); err != nil {
			return nil, err
		}
		memory.ID = doc.Ref.ID
		memories = append(memories, memory)
	}
	return memories, nil
}

// UpdateMemory applies a typed patch as field updates. Nil fields are
// untouched; set fields are written even when empty, so clearing a
// value is a deliberate act rather than a side effect of falsiness.
func (r *FirestoreMemoryRepository) UpdateMemory(ctx context.Context, id string, patch *models.UpdateMemoryRequest) error {
	var updates []firestore.Update
	if patch.Date != nil {
		updates = append(updates, firestore.Update{Path: "date", Value: *patch.Date})
	}
	if patch.Occasion != nil {
		updates = append(updates, firestore.Update{Path: "occasion", Value: *patch.Occasion})
	}
	if patch.Holiday != nil {
		updates = append(updates, firestore.Update{Path: "holiday", Value: *patch.Holiday})
	}
	if patch.Attendees != nil {
		updates = append(updates, firestore.Update{Path: "attendees", Value: *patch.Attendees})
	}
	if patch.OtherAttendees != nil {
		updates = append(updates, firestore.Update{Path: "otherAttendees", Value: *patch.OtherAttendees})
	}
	if patch.Meal != nil {
		updates = append(updates, firestore.Update{Path: "meal", Value: *patch.Meal})
	}
	if patch.Dessert != nil {
		updates = append(updates, firestore.Update{Path: "dessert", Value: *patch.Dessert})
	}
	if patch.Celebration != nil {
		updates = append(updates, firestore.Update{Path: "celebration", Value: *patch.Celebration})
	}
	if patch.CoverPhotoID != nil {
		updates = append(updates, firestore.Update{Path: "coverPhotoId", Value: *patch.CoverPhotoID})
	}
	if len(updates) == 0 {
		return nil
	}
	_, err := r.collection.Doc(id).Update(ctx, updates)
	return err
}

// DeleteMemory removes the memory document itself. Dependent notes,
// media and comments are removed by the cascading delete in the handler.
func (r *FirestoreMemoryRepository) DeleteMemory(ctx context.Context, id string) error {
	_, err := r.collection.Doc(id).Delete(ctx)
	return err
}
