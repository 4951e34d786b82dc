// Package mealplan exposes meal plan generation and retrieval over HTTP.
package mealplan

import (
	"net/http"
	"strconv"

	"meal-planner/internal/api/handlers"
	"meal-planner/internal/api/middleware"
	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

const (
	planTypeWeekly  = "weekly"
	planTypeMonthly = "monthly"

	// Current week plans change at most when regenerated; clients may
	// cache them privately for five minutes.
	currentPlanCacheControl = "private, max-age=300"
)

// Handler serves the meal plan endpoints.
type Handler struct {
	service *mealplan.Service
}

// NewHandler creates a meal plan handler.
func NewHandler(service *mealplan.Service) *Handler {
	return &Handler{service: service}
}

// Generate produces a new plan for the authenticated consumer. The type
// query parameter selects weekly or monthly; omitted means monthly.
func (h *Handler) Generate(c *gin.Context) {
	consumer, ok := middleware.ConsumerFromContext(c)
	if !ok {
		handlers.RespondError(c, common.ErrUnauthorized)
		return
	}

	planType := c.DefaultQuery("type", planTypeMonthly)

	var result *common.PlanResult
	var err error
	switch planType {
	case planTypeWeekly:
		result, err = h.service.GenerateWeeklyPlan(c.Request.Context(), consumer)
	case planTypeMonthly:
		result, err = h.service.GenerateMonthlyPlan(c.Request.Context(), consumer)
	default:
		handlers.RespondError(c, common.NewError(common.ErrCodeInvalidRequest,
			"type must be weekly or monthly", http.StatusBadRequest, nil))
		return
	}
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Current returns the consumer's plan for the current week, or 204 when no
// plan exists yet.
func (h *Handler) Current(c *gin.Context) {
	consumer, ok := middleware.ConsumerFromContext(c)
	if !ok {
		handlers.RespondError(c, common.ErrUnauthorized)
		return
	}

	plan, err := h.service.GetCurrentWeekPlan(c.Request.Context(), consumer.ID)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	if plan == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.Header("Cache-Control", currentPlanCacheControl)
	c.JSON(http.StatusOK, plan)
}

// History returns all of the consumer's plans, newest week first.
func (h *Handler) History(c *gin.Context) {
	consumer, ok := middleware.ConsumerFromContext(c)
	if !ok {
		handlers.RespondError(c, common.ErrUnauthorized)
		return
	}

	plans, err := h.service.GetPlanHistory(c.Request.Context(), consumer.ID)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	if plans == nil {
		plans = []common.WeeklyMealPlan{}
	}

	c.Header("Cache-Control", currentPlanCacheControl)
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// SendEmail delivers one of the consumer's plans to their inbox.
func (h *Handler) SendEmail(c *gin.Context) {
	consumer, ok := middleware.ConsumerFromContext(c)
	if !ok {
		handlers.RespondError(c, common.ErrUnauthorized)
		return
	}

	planID, err := strconv.ParseInt(c.Param("planID"), 10, 64)
	if err != nil {
		handlers.RespondError(c, common.NewError(common.ErrCodeInvalidRequest,
			"plan id must be an integer", http.StatusBadRequest, err))
		return
	}

	if err := h.service.SendPlanByEmail(c.Request.Context(), consumer.ID, planID); err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Meal plan sent successfully"})
}
