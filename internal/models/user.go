package models

import (
	"github.com/golang-jwt/jwt/v4"
)

// User is the authenticated family member for the current request. It is
// built from the verified token and passed into handlers explicitly; no
// ambient global auth state.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// SignInRequest carries the Firebase ID token obtained by the client
// after completing the Google sign-in flow.
type SignInRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty"`
	jwt.RegisteredClaims
}
