package common

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PreferenceProfile is the dietary constraint set attached to a consumer at
// generation time. Allergies and Dislikes are term sets; order is not meaningful.
type PreferenceProfile struct {
	DietType  string   `json:"diet_type"`
	Allergies []string `json:"allergies"`
	Dislikes  []string `json:"dislikes"`
}

// Consumer is an account that owns preference data and meal plans.
type Consumer struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	DietType  string    `json:"diet_type"`
	Allergies []string  `json:"allergies"`
	Dislikes  []string  `json:"dislikes"`
}

// Preferences returns the consumer's current preference profile.
func (c *Consumer) Preferences() PreferenceProfile {
	return PreferenceProfile{
		DietType:  c.DietType,
		Allergies: c.Allergies,
		Dislikes:  c.Dislikes,
	}
}

// Meal is a single generated meal. Identity is the meal name under
// case-insensitive comparison; ingredient differences are deliberately ignored.
// ID is assigned by the durable store on first persistence (0 = not persisted).
type Meal struct {
	ID          int64    `json:"id"`
	MealName    string   `json:"mealName"`
	Ingredients []string `json:"ingredients"`
	ImgURL      string   `json:"imgUrl"`
}

// NormalizedName returns the cache/identity key for the meal: display name
// with surrounding whitespace trimmed and case folded.
func (m *Meal) NormalizedName() string {
	return NormalizeMealName(m.MealName)
}

// NormalizeMealName trims and case-folds a meal name for identity comparison.
func NormalizeMealName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// WeeklyMealPlan is a persisted plan: the Monday of the ISO week in which it
// was generated, plus the meals in generation order. Plans are immutable after
// persistence; regeneration creates a new plan.
type WeeklyMealPlan struct {
	ID            int64     `json:"id"`
	ConsumerID    uuid.UUID `json:"consumer_id"`
	WeekStartDate time.Time `json:"week_start_date"`
	Meals         []Meal    `json:"meals"`
}

// PlanResult is what a successful generation reports back to the web layer.
type PlanResult struct {
	Plan    *WeeklyMealPlan `json:"meal_plan"`
	Message string          `json:"message"`
}
