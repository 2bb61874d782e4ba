package repositories

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/maxlibrach/nanas-table/backend/internal/models"
	"google.golang.org/api/iterator"
)

// ErrRecipeNotFound is returned when no recipe matches the lookup.
var ErrRecipeNotFound = fmt.Errorf("recipe not found")

// RecipeRepository defines the interface for recipe data operations
type RecipeRepository interface {
	CreateRecipe(ctx context.Context, recipe *models.Recipe) error
	GetRecipeByID(ctx context.Context, id string) (*models.Recipe, error)
	GetRecipeBySlug(ctx context.Context, slug string) (*models.Recipe, error)
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, patch *models.UpdateRecipeRequest) error
	AddPhotoURL(ctx context.Context, id, photoURL string) error
	DeleteRecipe(ctx context.Context, id string) error
}

// FirestoreRecipeRepository implements RecipeRepository on the recipes collection
type FirestoreRecipeRepository struct {
	collection *firestore.CollectionRef
}

// NewFirestoreRecipeRepository creates a new FirestoreRecipeRepository
func NewFirestoreRecipeRepository(client *firestore.Client) *FirestoreRecipeRepository {
	return &FirestoreRecipeRepository{collection: client.Collection("recipes")}
}

// CreateRecipe derives the slug from the title, disambiguates it
// against existing slugs and writes the document.
func (r *FirestoreRecipeRepository) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	if recipe.Title == "" || recipe.Instructions == "" {
		return fmt.Errorf("missing required fields")
	}
	if recipe.CreatedBy == "" {
		return fmt.Errorf("createdBy is required")
	}

	base := Slugify(recipe.Title)
	if base == "" {
		base = "recipe"
	}
	taken, err := r.slugsWithPrefix(ctx, base)
	if err != nil {
		return fmt.Errorf("checking slugs for %q: %w", base, err)
	}
	recipe.Slug = NextSlug(base, taken)
	recipe.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	if recipe.Tags == nil {
		recipe.Tags = []string{}
	}

	ref, _, err := r.collection.Add(ctx, recipe)
	if err != nil {
		return err
	}
	recipe.ID = ref.ID
	return nil
}

// slugsWithPrefix collects existing slugs starting with base, enough to
// probe base, base-2, base-3, ...
func (r *FirestoreRecipeRepository) slugsWithPrefix(ctx context.Context, base string) ([]string, error) {
	iter := r.collection.
		Where("slug", ">=", base).
		Where("slug", "<", base+"\uf8ff").
		Documents(ctx)
	defer iter.Stop()

	var slugs []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var recipe models.Recipe
		if err := doc.DataTo(&recipe); err != nil {
			return nil, err
		}
		if recipe.Slug != "" {
			slugs = append(slugs, recipe.Slug)
		}
	}
	return slugs, nil
}

// GetRecipeByID retrieves a recipe by document id
func (r *FirestoreRecipeRepository) GetRecipeByID(ctx context.Context, id string) (*models.Recipe, error) {
	doc, err := r.collection.Doc(id).Get(ctx)
	if err != nil {
		return nil, err
	}
	var recipe models.Recipe
	if err := doc.DataTo(&recipe); err != nil {
		return nil, err
	}
	recipe.ID = doc.Ref.ID
	return &recipe, nil
}

// GetRecipeBySlug retrieves a recipe by its URL slug
func (r *FirestoreRecipeRepository) GetRecipeBySlug(ctx context.Context, slug string) (*models.Recipe, error) {
	iter := r.collection.Where("slug", "==", slug).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, err
	}
	var recipe models.Recipe
	if err := doc.DataTo(&recipe); err != nil {
		return nil, err
	}
	recipe.ID = doc.Ref.ID
	return &recipe, nil
}

// ListRecipes retrieves all recipes, newest first
func (r *FirestoreRecipeRepository) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	iter := r.collection.OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var recipes []models.Recipe
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var recipe models.Recipe
		if err := doc.DataTo(&recipe); err != nil {
			return nil, err
		}
		recipe.ID = doc.Ref.ID
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// UpdateRecipe applies a typed patch as field updates. The slug is not
// recomputed on title change, so existing links keep working.
func (r *FirestoreRecipeRepository) UpdateRecipe(ctx context.Context, id string, patch *models.UpdateRecipeRequest) error {
	var updates []firestore.Update
	if patch.Title != nil {
		updates = append(updates, firestore.Update{Path: "title", Value: *patch.Title})
	}
	if patch.Instructions != nil {
		updates = append(updates, firestore.Update{Path: "instructions", Value: *patch.Instructions})
	}
	if patch.Tags != nil {
		updates = append(updates, firestore.Update{Path: "tags", Value: *patch.Tags})
	}
	if patch.CoverPhotoURL != nil {
		updates = append(updates, firestore.Update{Path: "coverPhotoUrl", Value: *patch.CoverPhotoURL})
	}
	if len(updates) == 0 {
		return nil
	}
	_, err := r.collection.Doc(id).Update(ctx, updates)
	return err
}

// AddPhotoURL appends an uploaded photo URL with set semantics
func (r *FirestoreRecipeRepository) AddPhotoURL(ctx context.Context, id, photoURL string) error {
	_, err := r.collection.Doc(id).Update(ctx, []firestore.Update{
		{Path: "photoUrls", Value: firestore.ArrayUnion(photoURL)},
	})
	return err
}

// DeleteRecipe removes the recipe document. Recipe comments are removed
// by the cascading delete in the handler; media tags pointing at the
// recipe are left in place.
func (r *FirestoreRecipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	_, err := r.collection.Doc(id).Delete(ctx)
	return err
}
