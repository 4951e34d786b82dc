// Package profile exposes consumer dietary preferences over HTTP.
package profile

import (
	"context"
	"net/http"

	"meal-planner/internal/api/handlers"
	"meal-planner/internal/api/middleware"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// ConsumerSaver persists consumer preference updates.
type ConsumerSaver interface {
	Save(ctx context.Context, c *common.Consumer) (*common.Consumer, error)
}

// Handler serves the preference endpoints.
type Handler struct {
	store ConsumerSaver
}

// NewHandler creates a profile handler.
func NewHandler(store ConsumerSaver) *Handler {
	return &Handler{store: store}
}

// preferencesPayload is the request and response body for preferences.
type preferencesPayload struct {
	DietType  string   `json:"diet_type"`
	Allergies []string `json:"allergies"`
	Dislikes  []string `json:"dislikes"`
}

func toPayload(p common.PreferenceProfile) preferencesPayload {
	out := preferencesPayload{
		DietType:  p.DietType,
		Allergies: p.Allergies,
		Dislikes:  p.Dislikes,
	}
	if out.Allergies == nil {
		out.Allergies = []string{}
	}
	if out.Dislikes == nil {
		out.Dislikes = []string{}
	}
	return out
}

// GetPreferences returns the authenticated consumer's dietary profile.
func (h *Handler) GetPreferences(c *gin.Context) {
	consumer, ok := middleware.ConsumerFromContext(c)
	if !ok {
		handlers.RespondError(c, common.ErrUnauthorized)
		return
	}

	c.JSON(http.StatusOK, toPayload(consumer.Preferences()))
}

// UpdatePreferences replaces the consumer's dietary profile. Terms are
// stored deduplicated and sorted.
func (h *Handler) UpdatePreferences(c *gin.Context) {
	consumer, ok := middleware.ConsumerFromContext(c)
	if !ok {
		handlers.RespondError(c, common.ErrUnauthorized)
		return
	}

	var payload preferencesPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		handlers.RespondError(c, common.NewError(common.ErrCodeInvalidRequest,
			"invalid preferences body", http.StatusBadRequest, err))
		return
	}

	updated := *consumer
	updated.DietType = payload.DietType
	updated.Allergies = common.SortedTerms(payload.Allergies)
	updated.Dislikes = common.SortedTerms(payload.Dislikes)

	saved, err := h.store.Save(c.Request.Context(), &updated)
	if err != nil {
		handlers.RespondError(c, common.WrapError(common.ErrInternalError, err))
		return
	}

	c.JSON(http.StatusOK, toPayload(saved.Preferences()))
}
