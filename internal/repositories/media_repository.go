package repositories

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/maxlibrach/nanas-table/backend/internal/models"
	"github.com/maxlibrach/nanas-table/backend/internal/storage"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
)

// MediaRepository defines the interface for media data operations
type MediaRepository interface {
	CreateMedia(ctx context.Context, media *models.Media) error
	GetMediaByID(ctx context.Context, id string) (*models.Media, error)
	ListByMemoryID(ctx context.Context, memoryID string) ([]models.Media, error)
	ListByMemoryIDs(ctx context.Context, memoryIDs []string) (map[string][]models.Media, error)
	ListByRecipeID(ctx context.Context, recipeID string) ([]models.Media, error)
	DeleteMedia(ctx context.Context, id string) error
	DeleteByMemoryID(ctx context.Context, memoryID string) (int, error)
	TagRecipe(ctx context.Context, mediaID, recipeID string) error
	UntagRecipe(ctx context.Context, mediaID, recipeID string) error
}

// FirestoreMediaRepository implements MediaRepository on the media
// collection plus the blob store holding the underlying files.
type FirestoreMediaRepository struct {
	collection *firestore.CollectionRef
	blobs      storage.BlobStore
}

// NewFirestoreMediaRepository creates a new FirestoreMediaRepository
func NewFirestoreMediaRepository(client *firestore.Client, blobs storage.BlobStore) *FirestoreMediaRepository {
	return &FirestoreMediaRepository{collection: client.Collection("media"), blobs: blobs}
}

// CreateMedia writes the metadata document for an already-uploaded blob
func (r *FirestoreMediaRepository) CreateMedia(ctx context.Context, media *models.Media) error {
	if media.MemoryID == "" || media.FileURL == "" || media.FileType == "" ||
		media.UploadedBy == "" || media.UploadedByName == "" {
		return fmt.Errorf("missing required fields for media record")
	}
	if media.Timestamp == "" {
		media.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	ref, _, err := r.collection.Add(ctx, media)
	if err != nil {
		return err
	}
	media.ID = ref.ID
	return nil
}

// GetMediaByID retrieves a media document by id
func (r *FirestoreMediaRepository) GetMediaByID(ctx context.Context, id string) (*models.Media, error) {
	doc, err := r.collection.Doc(id).Get(ctx)
	if err != nil {
		return nil, err
	}
	var media models.Media
	if err := doc.DataTo(&media); err != nil {
		return nil, err
	}
	media.ID = doc.Ref.ID
	return &media, nil
}

// ListByMemoryID retrieves the media of a memory, oldest first
func (r *FirestoreMediaRepository) ListByMemoryID(ctx context.Context, memoryID string) ([]models.Media, error) {
	grouped, err := r.ListByMemoryIDs(ctx, []string{memoryID})
	if err != nil {
		return nil, err
	}
	return grouped[memoryID], nil
}

// ListByMemoryIDs retrieves media for a set of memories using chunked
// "in" queries, grouped by memory id and sorted timestamp ascending.
func (r *FirestoreMediaRepository) ListByMemoryIDs(ctx context.Context, memoryIDs []string) (map[string][]models.Media, error) {
	var all []models.Media
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
			var media models.Media
			if err := doc.DataTo(&media); err != nil {
				iter.Stop()
				return nil, err
			}
			media.ID = doc.Ref.ID
			all = append(all, media)
		}
		iter.Stop()
	}
	return GroupMediaByMemory(all), nil
}

// ListByRecipeID retrieves all media tagged with a recipe
func (r *FirestoreMediaRepository) ListByRecipeID(ctx context.Context, recipeID string) ([]models.Media, error) {
	iter := r.collection.Where("recipeIds", "array-contains", recipeID).Documents(ctx)
	defer iter.Stop()

	var all []models.Media
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var media models.Media
		if err := doc.DataTo(&media); err != nil {
			return nil, err
		}
		media.ID = doc.Ref.ID
		all = append(all, media)
	}
	return all, nil
}

// DeleteMedia removes a media item: the storage object first, then the
// document. A failed blob delete is logged and does not block the
// document delete.
func (r *FirestoreMediaRepository) DeleteMedia(ctx context.Context, id string) error {
	media, err := r.GetMediaByID(ctx, id)
	if err != nil {
		return err
	}
	r.deleteBlob(ctx, media.FileURL)
	_, err = r.collection.Doc(id).Delete(ctx)
	return err
}

// DeleteByMemoryID removes every media item attached to a memory,
// storage objects included, and returns how many documents were deleted.
func (r *FirestoreMediaRepository) DeleteByMemoryID(ctx context.Context, memoryID string) (int, error) {
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
		var media models.Media
		if err := doc.DataTo(&media); err == nil {
			r.deleteBlob(ctx, media.FileURL)
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func (r *FirestoreMediaRepository) deleteBlob(ctx context.Context, fileURL string) {
	if fileURL == "" {
		return
	}
	if err := r.blobs.Delete(ctx, fileURL); err != nil {
		log.Warn().Err(err).Str("fileUrl", fileURL).Msg("Error deleting file from storage")
	}
}

// TagRecipe adds a recipe id to the media's tag list with set
// semantics; tagging twice leaves a single entry.
func (r *FirestoreMediaRepository) TagRecipe(ctx context.Context, mediaID, recipeID string) error {
	_, err := r.collection.Doc(mediaID).Update(ctx, []firestore.Update{
		{Path: "recipeIds", Value: firestore.ArrayUnion(recipeID)},
	})
	return err
}

// UntagRecipe removes a recipe id from the media's tag list
func (r *FirestoreMediaRepository) UntagRecipe(ctx context.Context, mediaID, recipeID string) error {
	_, err := r.collection.Doc(mediaID).Update(ctx, []firestore.Update{
		{Path: "recipeIds", Value: firestore.ArrayRemove(recipeID)},
	})
	return err
}
