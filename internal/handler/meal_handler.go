package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"cafeteria/internal/service"
)

// MealHandler serves the catalog.
type MealHandler struct {
	catalog service.CatalogService
}

// NewMealHandler creates a new meal handler.
func NewMealHandler(catalog service.CatalogService) *MealHandler {
	return &MealHandler{catalog: catalog}
}

// MealsResponse lists the catalog.
type MealsResponse struct {
	Message   string                     `json:"message"`
	MealsList []service.MealWithFeedback `json:"MealsList"`
}

// ImportResponse reports an import.
type ImportResponse struct {
	Message string `json:"message"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
}

// ListMeals godoc
// @Summary List meals with their feedback
// @Tags meals
// @Produce json
// @Success 200 {object} MealsResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /Meals [get]
func (h *MealHandler) ListMeals(c echo.Context) error {
	meals, err := h.catalog.ListMeals(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, MealsResponse{Message: "meals with feedback", MealsList: meals})
}

// ImportMeals godoc
// @Summary Create or update meals
// @Description Meals with a known _id are updated, the others are created. Chef only.
// @Tags meals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body []service.MealInput true "Meals"
// @Success 200 {object} ImportResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /meals/import [post]
func (h *MealHandler) ImportMeals(c echo.Context) error {
	var req []service.MealInput
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if len(req) == 0 {
		return badRequest("no meals to import")
	}
	for i := range req {
		if err := c.Validate(&req[i]); err != nil {
			return badRequest(fmt.Sprintf("meal %d: %v", i, err))
		}
	}

	created, updated, err := h.catalog.ImportMeals(c.Request().Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, ImportResponse{Message: "meals imported", Created: created, Updated: updated})
}
