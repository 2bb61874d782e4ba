package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maxlibrach/nanas-table/backend/internal/middleware"
	"github.com/maxlibrach/nanas-table/backend/internal/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// currentUser pulls the authenticated family member off the context.
func currentUser(c echo.Context) (*models.User, error) {
	user, ok := c.Get(middleware.UserContextKey).(*models.User)
	if !ok || user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Not signed in")
	}
	return user, nil
}

// mapServiceError translates Firestore/Storage errors into the small
// set of user-facing messages; anything unrecognized falls through to a
// generic try-again message.
func mapServiceError(err error) *echo.HTTPError {
	if httpErr, ok := err.(*echo.HTTPError); ok {
		return httpErr
	}
	switch status.Code(err) {
	case codes.NotFound:
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	case codes.PermissionDenied:
		return echo.NewHTTPError(http.StatusForbidden, "You do not have permission to do that. Please sign in again.")
	case codes.Canceled:
		return echo.NewHTTPError(http.StatusBadRequest, "The request was canceled. Please try again.")
	case codes.Unavailable, codes.DeadlineExceeded:
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Network error. Please check your connection and try again.")
	case codes.ResourceExhausted:
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests right now. Please try again later.")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong, please try again.")
	}
}
