package models

// Media file kinds
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Media is an uploaded photo or video attached to a memory, optionally
// tagged with recipes (many-to-many, list of recipe ids on the media
// document).
type Media struct {
	ID             string   `json:"id" firestore:"-"`
	MemoryID       string   `json:"memoryId,omitempty" firestore:"memoryId,omitempty"`
	FileURL        string   `json:"fileUrl" firestore:"fileUrl"`
	FileType       string   `json:"fileType" firestore:"fileType"` // "image" or "video"
	Caption        string   `json:"caption,omitempty" firestore:"caption,omitempty"`
	UploadedBy     string   `json:"uploadedBy" firestore:"uploadedBy"`
	UploadedByName string   `json:"uploadedByName" firestore:"uploadedByName"`
	Timestamp      string   `json:"timestamp" firestore:"timestamp"`
	RecipeIDs      []string `json:"recipeIds,omitempty" firestore:"recipeIds,omitempty"`
}
