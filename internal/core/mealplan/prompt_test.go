package mealplan

import (
	"strings"
	"testing"

	"meal-planner/internal/pkg/common"
)

func TestBuildPromptDeterministic(t *testing.T) {
	a := common.PreferenceProfile{
		DietType:  "vegetarian",
		Allergies: []string{"peanuts", "shellfish"},
		Dislikes:  []string{"mushrooms"},
	}
	b := common.PreferenceProfile{
		DietType:  "vegetarian",
		Allergies: []string{"shellfish", "peanuts", "peanuts"},
		Dislikes:  []string{"mushrooms"},
	}

	if BuildPrompt(a, 1) != BuildPrompt(b, 1) {
		t.Error("prompts for equivalent profiles must be identical")
	}
}

func TestBuildPromptMealCounts(t *testing.T) {
	profile := common.PreferenceProfile{DietType: "omnivore"}

	weekly := BuildPrompt(profile, 1)
	if !strings.Contains(weekly, "exactly 5 meals") {
		t.Errorf("weekly prompt missing meal count:\n%s", weekly)
	}
	if !strings.Contains(weekly, "1-week meal plan") {
		t.Errorf("weekly prompt missing week count:\n%s", weekly)
	}

	monthly := BuildPrompt(profile, 4)
	if !strings.Contains(monthly, "exactly 20 meals") {
		t.Errorf("monthly prompt missing meal count:\n%s", monthly)
	}
	if !strings.Contains(monthly, "4-week meal plan") {
		t.Errorf("monthly prompt missing week count:\n%s", monthly)
	}
}

func TestBuildPromptClampsWeeks(t *testing.T) {
	profile := common.PreferenceProfile{}
	if BuildPrompt(profile, 0) != BuildPrompt(profile, 1) {
		t.Error("weeks below one should be treated as one")
	}
}

func TestBuildPromptDefaults(t *testing.T) {
	prompt := BuildPrompt(common.PreferenceProfile{}, 1)

	if !strings.Contains(prompt, "omnivore") {
		t.Error("empty diet type should default to omnivore")
	}
	if !strings.Contains(prompt, "Allergies (never include these or any derivative): none") {
		t.Errorf("empty allergies should render as none:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Disliked ingredients (never include these): none") {
		t.Errorf("empty dislikes should render as none:\n%s", prompt)
	}
}

func TestBuildPromptContainsWireShape(t *testing.T) {
	prompt := BuildPrompt(common.PreferenceProfile{DietType: "vegan"}, 1)

	for _, want := range []string{`"meals"`, `"mealName"`, `"ingredients"`, `"imgUrl"`, `"message"`, "no markdown code fences"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %s:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptSortsTerms(t *testing.T) {
	prompt := BuildPrompt(common.PreferenceProfile{
		Allergies: []string{"walnuts", "eggs", "milk"},
	}, 1)

	if !strings.Contains(prompt, "eggs, milk, walnuts") {
		t.Errorf("allergy terms should be sorted:\n%s", prompt)
	}
}
