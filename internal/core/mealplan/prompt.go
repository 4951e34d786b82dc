package mealplan

import (
	"fmt"
	"strings"

	"meal-planner/internal/pkg/common"
)

// mealsPerWeek is one meal per weekday, Monday through Friday.
const mealsPerWeek = 5

// BuildPrompt renders the generation instruction for a preference profile and
// plan length in weeks. It is pure and deterministic: term sets are sorted
// before interpolation so the same profile always yields the same prompt.
//
// The structural contract the prompt demands from the service is fixed: a
// single JSON object with a "meals" array (mealName, ingredients, optional
// imgUrl) and a short "message" string, with no surrounding prose or fences.
func BuildPrompt(profile common.PreferenceProfile, weeks int) string {
	if weeks < 1 {
		weeks = 1
	}
	totalMeals := weeks * mealsPerWeek

	diet := strings.TrimSpace(profile.DietType)
	if diet == "" {
		diet = "omnivore"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a %d-week meal plan with exactly %d meals: one dinner per weekday (Monday to Friday) for %d weeks.\n\n", weeks, totalMeals, weeks)
	fmt.Fprintf(&b, "Dietary requirements:\n")
	fmt.Fprintf(&b, "- Diet type: %s. Every meal must respect this diet.\n", diet)
	fmt.Fprintf(&b, "- Allergies (never include these or any derivative): %s\n", formatTerms(profile.Allergies))
	fmt.Fprintf(&b, "- Disliked ingredients (never include these): %s\n\n", formatTerms(profile.Dislikes))
	fmt.Fprintf(&b, "Respond with only a JSON object in exactly this shape, with no other text and no markdown code fences:\n")
	fmt.Fprintf(&b, `{"meals":[{"mealName":"name of the meal","ingredients":["ingredient 1","ingredient 2"],"imgUrl":""}],"message":"a short friendly confirmation of the %d-week plan"}`, weeks)
	fmt.Fprintf(&b, "\n\nThe meals array must contain exactly %d entries.", totalMeals)

	return b.String()
}

func formatTerms(terms []string) string {
	sorted := common.SortedTerms(terms)
	if len(sorted) == 0 {
		return "none"
	}
	return strings.Join(sorted, ", ")
}
