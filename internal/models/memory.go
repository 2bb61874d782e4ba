package models

// Occasion kinds for a memory
const (
	OccasionShabbat = "Shabbat Dinner"
	OccasionHoliday = "Holiday Meal"
)

// Memory represents a recorded family-meal event stored in Firestore.
// Notes and Media live in their own collections keyed by memoryId and
// are attached at read time, sorted timestamp ascending.
type Memory struct {
	ID             string   `json:"id" firestore:"-"`
	Date           string   `json:"date" firestore:"date"` // YYYY-MM-DD
	Occasion       string   `json:"occasion" firestore:"occasion"`
	Holiday        string   `json:"holiday,omitempty" firestore:"holiday,omitempty"`
	Attendees      []string `json:"attendees" firestore:"attendees"`
	OtherAttendees string   `json:"otherAttendees,omitempty" firestore:"otherAttendees,omitempty"`
	Meal           string   `json:"meal" firestore:"meal"`
	Dessert        string   `json:"dessert" firestore:"dessert"`
	Celebration    string   `json:"celebration,omitempty" firestore:"celebration,omitempty"`
	CreatedBy      string   `json:"createdBy" firestore:"createdBy"`
	CreatedByName  string   `json:"createdByName,omitempty" firestore:"createdByName,omitempty"`
	CreatedAt      string   `json:"createdAt" firestore:"createdAt"`
	EventCode      string   `json:"eventCode,omitempty" firestore:"eventCode,omitempty"`
	CoverPhotoID   string   `json:"coverPhotoId,omitempty" firestore:"coverPhotoId,omitempty"`
	Notes          []Note   `json:"notes" firestore:"-"`
	Media          []Media  `json:"media" firestore:"-"`
}

// CreateMemoryRequest defines the request body for creating a new memory
type CreateMemoryRequest struct {
	Date           string   `json:"date" validate:"required,datetime=2006-01-02"`
	Occasion       string   `json:"occasion" validate:"required,oneof='Shabbat Dinner' 'Holiday Meal'"`
	Holiday        string   `json:"holiday,omitempty"`
	Attendees      []string `json:"attendees" validate:"required,min=1,dive,required"`
	OtherAttendees string   `json:"otherAttendees,omitempty"`
	Meal           string   `json:"meal" validate:"required"`
	Dessert        string   `json:"dessert" validate:"required"`
	Celebration    string   `json:"celebration,omitempty"`
}

// UpdateMemoryRequest is a typed patch: nil fields are left untouched,
// set fields are written as-is. This replaces the old falsy-value
// stripping, where an empty string could not be distinguished from
// "not provided".
type UpdateMemoryRequest struct {
	Date           *string   `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Occasion       *string   `json:"occasion,omitempty" validate:"omitempty,oneof='Shabbat Dinner' 'Holiday Meal'"`
	Holiday        *string   `json:"holiday,omitempty"`
	Attendees      *[]string `json:"attendees,omitempty" validate:"omitempty,min=1,dive,required"`
	OtherAttendees *string   `json:"otherAttendees,omitempty"`
	Meal           *string   `json:"meal,omitempty" validate:"omitempty,min=1"`
	Dessert        *string   `json:"dessert,omitempty" validate:"omitempty,min=1"`
	Celebration    *string   `json:"celebration,omitempty"`
	CoverPhotoID   *string   `json:"coverPhotoId,omitempty"`
}
