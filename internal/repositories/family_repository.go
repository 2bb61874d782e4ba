package repositories

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/maxlibrach/nanas-table/backend/internal/models"
	"google.golang.org/api/iterator"
)

// FamilyMemberRepository defines the interface for the familyMembers collection
type FamilyMemberRepository interface {
	AddFamilyMember(ctx context.Context, member *models.FamilyMember) error
	ListFamilyMembers(ctx context.Context) ([]models.FamilyMember, error)
	DeleteFamilyMember(ctx context.Context, id string) error
}

// FirestoreFamilyMemberRepository implements FamilyMemberRepository
type FirestoreFamilyMemberRepository struct {
	collection *firestore.CollectionRef
}

// NewFirestoreFamilyMemberRepository creates a new FirestoreFamilyMemberRepository
func NewFirestoreFamilyMemberRepository(client *firestore.Client) *FirestoreFamilyMemberRepository {
	return &FirestoreFamilyMemberRepository{collection: client.Collection("familyMembers")}
}

// AddFamilyMember creates a family member document with a generated id
func (r *FirestoreFamilyMemberRepository) AddFamilyMember(ctx context.Context, member *models.FamilyMember) error {
	member.ID = uuid.NewString()
	member.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	_, err := r.collection.Doc(member.ID).Set(ctx, member)
	return err
}

// ListFamilyMembers retrieves all family member documents
func (r *FirestoreFamilyMemberRepository) ListFamilyMembers(ctx context.Context) ([]models.FamilyMember, error) {
	iter := r.collection.OrderBy("name", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var members []models.FamilyMember
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var member models.FamilyMember
		if err := doc.DataTo(&member); err != nil {
			return nil, err
		}
		member.ID = doc.Ref.ID
		members = append(members, member)
	}
	return members, nil
}

// DeleteFamilyMember deletes a family member document by id
func (r *FirestoreFamilyMemberRepository) DeleteFamilyMember(ctx context.Context, id string) error {
	_, err := r.collection.Doc(id).Delete(ctx)
	return err
}
