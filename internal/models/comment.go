package models

// Comment is a discussion entry scoped to either a memory or a recipe.
// The two scopes live in separate collections (memoryComments and
// recipeComments); ParentID is the owning document's id.
type Comment struct {
	ID         string `json:"id" firestore:"-"`
	ParentID   string `json:"parentId" firestore:"parentId"`
	AuthorID   string `json:"authorId" firestore:"authorId"`
	AuthorName string `json:"authorName" firestore:"authorName"`
	Text       string `json:"text" firestore:"text"`
	Timestamp  string `json:"timestamp" firestore:"timestamp"`
}

// CreateCommentRequest defines the request body for adding a comment
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}
