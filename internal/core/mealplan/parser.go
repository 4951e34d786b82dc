package mealplan

import (
	"fmt"
	"strings"

	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// mealPlanPayload is the structural contract BuildPrompt demands from the
// generation service.
type mealPlanPayload struct {
	Meals   []mealPayload `json:"meals"`
	Message string        `json:"message"`
}

type mealPayload struct {
	MealName    string   `json:"mealName"`
	Ingredients []string `json:"ingredients"`
	ImgURL      string   `json:"imgUrl"`
}

// ParseMealPlan decodes the raw generation response into meals in generation
// order plus the optional confirmation message.
//
// The raw text is defensively cleaned first: markdown code fences are
// stripped and the outermost JSON object is extracted, since the service
// routinely ignores the "no fences" instruction. A payload that does not
// decode fails the whole batch; an individual entry without a usable name is
// dropped with a warning and its siblings survive.
func ParseMealPlan(raw string) ([]common.Meal, string, error) {
	content := common.CleanJSONFences(raw)
	content = common.ExtractJSONObject(content)

	var payload mealPlanPayload
	if err := common.ParseJSON(content, &payload); err != nil {
		return nil, "", fmt.Errorf("failed to parse meal plan JSON: %w", err)
	}

	meals := make([]common.Meal, 0, len(payload.Meals))
	for i, entry := range payload.Meals {
		name := strings.TrimSpace(entry.MealName)
		if name == "" {
			common.LogWarn("dropping meal entry without a name",
				zap.Int("index", i),
			)
			continue
		}

		ingredients := entry.Ingredients
		if ingredients == nil {
			ingredients = []string{}
		}

		meals = append(meals, common.Meal{
			MealName:    entry.MealName,
			Ingredients: ingredients,
			ImgURL:      entry.ImgURL,
		})
	}

	return meals, payload.Message, nil
}
