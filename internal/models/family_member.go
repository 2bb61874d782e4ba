package models

// FamilyMember is an entry in the familyMembers collection, managed on
// the My Family page.
type FamilyMember struct {
	ID        string `json:"id" firestore:"-"`
	Name      string `json:"name" firestore:"name"`
	Email     string `json:"email,omitempty" firestore:"email,omitempty"`
	AddedBy   string `json:"addedBy" firestore:"addedBy"`
	CreatedAt string `json:"createdAt" firestore:"createdAt"`
}

// AddFamilyMemberRequest defines the request body for adding a family member
type AddFamilyMemberRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}
