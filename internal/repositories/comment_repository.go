package repositories

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/maxlibrach/nanas-table/backend/internal/models"
	"google.golang.org/api/iterator"
)

// CommentRepository defines the interface for comment data operations.
// Memory and recipe comments share the shape but live in separate
// collections; one repository type serves both.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListByParentID(ctx context.Context, parentID string) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
	DeleteByParentID(ctx context.Context, parentID string) (int, error)
}

// FirestoreCommentRepository implements CommentRepository over one of
// the comment collections.
type FirestoreCommentRepository struct {
	collection *firestore.CollectionRef
}

// NewMemoryCommentRepository creates a repository over memoryComments
func NewMemoryCommentRepository(client *firestore.Client) *FirestoreCommentRepository {
	return &FirestoreCommentRepository{collection: client.Collection("memoryComments")}
}

// NewRecipeCommentRepository creates a repository over recipeComments
func NewRecipeCommentRepository(client *firestore.Client) *FirestoreCommentRepository {
	return &FirestoreCommentRepository{collection: client.Collection("recipeComments")}
}

// CreateComment creates a new comment under a parent document
func (r *FirestoreCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.Timestamp = time.Now().UTC().Format(time.RFC3339)
	ref, _, err := r.collection.Add(ctx, comment)
	if err != nil {
		return err
	}
	comment.ID = ref.ID
	return nil
}

// ListByParentID retrieves the comments of a parent document, oldest first
func (r *FirestoreCommentRepository) ListByParentID(ctx context.Context, parentID string) ([]models.Comment, error) {
	iter := r.collection.Where("parentId", "==", parentID).Documents(ctx)
	defer iter.Stop()

	var comments []models.Comment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var comment models.Comment
		if err := doc.DataTo(&comment); err != nil {
			return nil, err
		}
		comment.ID = doc.Ref.ID
		comments = append(comments, comment)
	}
	SortCommentsByTimestamp(comments)
	return comments, nil
}

// DeleteComment deletes a comment by id
func (r *FirestoreCommentRepository) DeleteComment(ctx context.Context, id string) error {
	_, err := r.collection.Doc(id).Delete(ctx)
	return err
}

// DeleteByParentID removes every comment under a parent document and
// returns how many were deleted.
func (r *FirestoreCommentRepository) DeleteByParentID(ctx context.Context, parentID string) (int, error) {
	iter := r.collection.Where("parentId", "==", parentID).Documents(ctx)
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
