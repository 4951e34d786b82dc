// Package recipes exposes TheMealDB recipe lookups over HTTP.
package recipes

import (
	"net/http"
	"strings"

	"meal-planner/internal/api/handlers"
	"meal-planner/internal/core/mealdb"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Handler serves the recipe lookup endpoints.
type Handler struct {
	client *mealdb.Client
}

// NewHandler creates a recipes handler.
func NewHandler(client *mealdb.Client) *Handler {
	return &Handler{client: client}
}

// Search finds recipes by meal name via the name query parameter.
func (h *Handler) Search(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		handlers.RespondError(c, common.NewError(common.ErrCodeInvalidRequest,
			"name query parameter is required", http.StatusBadRequest, nil))
		return
	}

	recipes, err := h.client.SearchByName(c.Request.Context(), name)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// ByIngredient lists recipes containing the given ingredient.
func (h *Handler) ByIngredient(c *gin.Context) {
	ingredient := strings.TrimSpace(c.Query("ingredient"))
	if ingredient == "" {
		handlers.RespondError(c, common.NewError(common.ErrCodeInvalidRequest,
			"ingredient query parameter is required", http.StatusBadRequest, nil))
		return
	}

	recipes, err := h.client.SearchByIngredient(c.Request.Context(), ingredient)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// GetByID fetches one recipe in full detail.
func (h *Handler) GetByID(c *gin.Context) {
	id := c.Param("id")

	recipe, err := h.client.GetByID(c.Request.Context(), id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	if recipe == nil {
		handlers.RespondError(c, common.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, recipe)
}
