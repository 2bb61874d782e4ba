package models

// Recipe is a family dish record with rich-text instructions, linkable
// to media through media recipe tags. The slug is derived from the
// title and used in URLs in place of the document id.
type Recipe struct {
	ID            string   `json:"id" firestore:"-"`
	Title         string   `json:"title" firestore:"title"`
	Instructions  string   `json:"instructions" firestore:"instructions"`
	Tags          []string `json:"tags" firestore:"tags"`
	Slug          string   `json:"slug" firestore:"slug"`
	CreatedBy     string   `json:"createdBy" firestore:"createdBy"`
	CreatedByName string   `json:"createdByName" firestore:"createdByName"`
	CreatedAt     string   `json:"createdAt" firestore:"createdAt"`
	PhotoURLs     []string `json:"photoUrls,omitempty" firestore:"photoUrls,omitempty"`
	CoverPhotoURL string   `json:"coverPhotoUrl,omitempty" firestore:"coverPhotoUrl,omitempty"`
}

// CreateRecipeRequest defines the request body for creating a recipe
type CreateRecipeRequest struct {
	Title        string   `json:"title" validate:"required,min=1,max=200"`
	Instructions string   `json:"instructions" validate:"required"`
	Tags         []string `json:"tags,omitempty" validate:"omitempty,dive,required"`
}

// UpdateRecipeRequest is a typed patch: nil fields are left untouched.
type UpdateRecipeRequest struct {
	Title         *string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Instructions  *string   `json:"instructions,omitempty" validate:"omitempty,min=1"`
	Tags          *[]string `json:"tags,omitempty"`
	CoverPhotoURL *string   `json:"coverPhotoUrl,omitempty"`
}
