package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maxlibrach/nanas-table/backend/internal/family"
	"github.com/maxlibrach/nanas-table/backend/internal/models"
	"github.com/maxlibrach/nanas-table/backend/internal/repositories"
)

// FamilyHandler serves the familyMembers collection and the static
// attendee roster / holiday options used by the memory form.
type FamilyHandler struct {
	familyRepo repositories.FamilyMemberRepository
}

// NewFamilyHandler creates a new FamilyHandler
func NewFamilyHandler(familyRepo repositories.FamilyMemberRepository) *FamilyHandler {
	return &FamilyHandler{familyRepo: familyRepo}
}

// RegisterFamilyRoutes registers family-related routes
func (h *FamilyHandler) RegisterFamilyRoutes(g *echo.Group) {
	g.GET("/family", h.ListFamilyMembers)
	g.POST("/family", h.AddFamilyMember)
	g.DELETE("/family/:id", h.DeleteFamilyMember)
	g.GET("/family/roster", h.Roster)
}

// ListFamilyMembers retrieves the familyMembers collection
func (h *FamilyHandler) ListFamilyMembers(c echo.Context) error {
	members, err := h.familyRepo.ListFamilyMembers(c.Request().Context())
	if err != nil {
		return mapServiceError(err)
	}
	if members == nil {
		members = []models.FamilyMember{}
	}
	return c.JSON(http.StatusOK, members)
}

// AddFamilyMember adds an entry to the familyMembers collection
func (h *FamilyHandler) AddFamilyMember(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.AddFamilyMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	member := &models.FamilyMember{
		Name:    req.Name,
		Email:   req.Email,
		AddedBy: user.ID,
	}
	if err := h.familyRepo.AddFamilyMember(c.Request().Context(), member); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusCreated, member)
}

// DeleteFamilyMember removes an entry from the familyMembers collection
func (h *FamilyHandler) DeleteFamilyMember(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}
	if err := h.familyRepo.DeleteFamilyMember(c.Request().Context(), c.Param("id")); err != nil {
		return mapServiceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Roster returns the static attendee roster and holiday options
func (h *FamilyHandler) Roster(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"attendees": family.Attendees,
		"holidays":  family.Holidays,
	})
}
