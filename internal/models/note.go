package models

// Note is a free-text comment attached to a memory. Kept for the
// original contribution flow; newer per-memory discussion lives in the
// memoryComments collection.
type Note struct {
	ID         string `json:"id" firestore:"-"`
	MemoryID   string `json:"memoryId" firestore:"memoryId"`
	AuthorID   string `json:"authorId" firestore:"authorId"`
	AuthorName string `json:"authorName" firestore:"authorName"`
	Text       string `json:"text" firestore:"text"`
	Timestamp  string `json:"timestamp" firestore:"timestamp"`
}

// CreateNoteRequest defines the request body for adding a note to a memory
type CreateNoteRequest struct {
	Text string `json:"text" validate:"required,min=1"`
}
