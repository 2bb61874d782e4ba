package handlers

import (
	"context"
	"net/http"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/maxlibrach/nanas-table/backend/internal/family"
	"github.com/maxlibrach/nanas-table/backend/internal/models"
	"github.com/rs/zerolog/log"
)

// TokenVerifier verifies a Firebase ID token. Satisfied by
// *auth.Client; a fake stands in for it in tests.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// AuthHandler gates sign-in behind the family allow-list and issues the
// session JWT used by every other route.
type AuthHandler struct {
	verifier  TokenVerifier
	jwtSecret string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(verifier TokenVerifier, jwtSecret string) *AuthHandler {
	return &AuthHandler{verifier: verifier, jwtSecret: jwtSecret}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signin", h.SignIn)
}

// SignIn verifies the Google sign-in's Firebase ID token, rejects
// emails outside the family allow-list, and returns a session JWT plus
// the mapped user.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.verifier.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	email, _ := token.Claims["email"].(string)
	displayName, ok := family.DisplayName(email)
	if !ok {
		log.Warn().Str("email", email).Msg("Sign-in rejected: email not on the family allow-list")
		return echo.NewHTTPError(http.StatusForbidden, family.RejectionMessage)
	}

	photoURL, _ := token.Claims["picture"].(string)
	user := &models.User{
		ID:          token.UID,
		Email:       email,
		DisplayName: displayName,
		PhotoURL:    photoURL,
	}

	sessionToken, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": sessionToken, "user": user})
}

// generateJWT generates a session JWT for a signed-in family member
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)), // Token expires in 72 hours
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
