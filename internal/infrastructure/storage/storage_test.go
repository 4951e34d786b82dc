package storage

import (
	"context"
	"testing"
	"time"

	"meal-planner/internal/pkg/common"

	"github.com/google/uuid"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestConsumerStoreRoundTrip(t *testing.T) {
	db := openTestDB(t)
	store := NewConsumerStore(db)
	ctx := context.Background()

	saved, err := store.Save(ctx, &common.Consumer{
		Email:     "jo@example.com",
		Name:      "Jo",
		DietType:  "vegetarian",
		Allergies: []string{"peanuts", "shellfish", "peanuts"},
		Dislikes:  []string{"mushrooms"},
	})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if saved.ID == uuid.Nil {
		t.Fatal("Save should assign an id")
	}

	byEmail, err := store.FindByEmail(ctx, "jo@example.com")
	if err != nil {
		t.Fatalf("FindByEmail returned error: %v", err)
	}
	if byEmail == nil {
		t.Fatal("consumer not found by email")
	}
	if byEmail.ID != saved.ID || byEmail.DietType != "vegetarian" {
		t.Errorf("loaded consumer = %+v", byEmail)
	}
	// Terms come back deduplicated and sorted.
	if len(byEmail.Allergies) != 2 || byEmail.Allergies[0] != "peanuts" || byEmail.Allergies[1] != "shellfish" {
		t.Errorf("allergies = %v", byEmail.Allergies)
	}
	if len(byEmail.Dislikes) != 1 || byEmail.Dislikes[0] != "mushrooms" {
		t.Errorf("dislikes = %v", byEmail.Dislikes)
	}

	exists, err := store.ExistsByID(ctx, saved.ID)
	if err != nil || !exists {
		t.Errorf("ExistsByID = %v, %v", exists, err)
	}
}

func TestConsumerStoreUpsertReplacesTerms(t *testing.T) {
	db := openTestDB(t)
	store := NewConsumerStore(db)
	ctx := context.Background()

	saved, err := store.Save(ctx, &common.Consumer{
		Email:     "pat@example.com",
		Allergies: []string{"eggs"},
	})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	saved.DietType = "vegan"
	saved.Allergies = []string{"soy"}
	if _, err := store.Save(ctx, saved); err != nil {
		t.Fatalf("second Save returned error: %v", err)
	}

	loaded, err := store.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if loaded.DietType != "vegan" {
		t.Errorf("diet type = %q", loaded.DietType)
	}
	if len(loaded.Allergies) != 1 || loaded.Allergies[0] != "soy" {
		t.Errorf("allergies = %v, old terms should be gone", loaded.Allergies)
	}
}

func TestConsumerStoreAbsentLookups(t *testing.T) {
	db := openTestDB(t)
	store := NewConsumerStore(db)
	ctx := context.Background()

	c, err := store.FindByEmail(ctx, "ghost@example.com")
	if err != nil || c != nil {
		t.Errorf("FindByEmail = %v, %v; want nil, nil", c, err)
	}

	exists, err := store.ExistsByID(ctx, uuid.New())
	if err != nil || exists {
		t.Errorf("ExistsByID = %v, %v; want false, nil", exists, err)
	}
}

func TestMealStoreRoundTrip(t *testing.T) {
	db := openTestDB(t)
	store := NewMealStore(db)
	ctx := context.Background()

	first, err := store.Save(ctx, &common.Meal{
		MealName:    "Lentil Soup",
		Ingredients: []string{"lentils", "carrot", "onion"},
		ImgURL:      "http://img/1",
	})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("Save should assign an id")
	}

	second, err := store.Save(ctx, &common.Meal{MealName: "Plain Rice", Ingredients: []string{}})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	meals, err := store.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll returned error: %v", err)
	}
	if len(meals) != 2 {
		t.Fatalf("FindAll returned %d meals, want 2", len(meals))
	}
	// Oldest first.
	if meals[0].ID != first.ID || meals[1].ID != second.ID {
		t.Errorf("order = %d, %d", meals[0].ID, meals[1].ID)
	}
	// Ingredients keep generation order.
	if len(meals[0].Ingredients) != 3 || meals[0].Ingredients[0] != "lentils" || meals[0].Ingredients[2] != "onion" {
		t.Errorf("ingredients = %v", meals[0].Ingredients)
	}
	if meals[1].Ingredients == nil || len(meals[1].Ingredients) != 0 {
		t.Errorf("empty ingredient list should load as empty, got %v", meals[1].Ingredients)
	}
}

func TestPlanStoreRoundTrip(t *testing.T) {
	db := openTestDB(t)
	mealStore := NewMealStore(db)
	planStore := NewPlanStore(db, mealStore)
	ctx := context.Background()

	consumerID := uuid.New()
	m1, _ := mealStore.Save(ctx, &common.Meal{MealName: "Soup", Ingredients: []string{"water"}})
	m2, _ := mealStore.Save(ctx, &common.Meal{MealName: "Curry", Ingredients: []string{"rice"}})

	weekStart := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	saved, err := planStore.Save(ctx, &common.WeeklyMealPlan{
		ConsumerID:    consumerID,
		WeekStartDate: weekStart,
		Meals:         []common.Meal{*m2, *m1}, // plan order, not id order
	})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if saved.ID == 0 {
		t.Fatal("Save should assign an id")
	}

	loaded, err := planStore.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if loaded == nil {
		t.Fatal("plan not found")
	}
	if loaded.ConsumerID != consumerID {
		t.Errorf("consumer id = %v", loaded.ConsumerID)
	}
	if !loaded.WeekStartDate.Equal(weekStart) {
		t.Errorf("week start = %v, want %v", loaded.WeekStartDate, weekStart)
	}
	if len(loaded.Meals) != 2 || loaded.Meals[0].ID != m2.ID || loaded.Meals[1].ID != m1.ID {
		t.Errorf("meal order not preserved: %+v", loaded.Meals)
	}
	if len(loaded.Meals[0].Ingredients) != 1 || loaded.Meals[0].Ingredients[0] != "rice" {
		t.Errorf("ingredients = %v", loaded.Meals[0].Ingredients)
	}
}

func TestPlanStoreFindByConsumerAndWeekStart(t *testing.T) {
	db := openTestDB(t)
	mealStore := NewMealStore(db)
	planStore := NewPlanStore(db, mealStore)
	ctx := context.Background()

	consumerID := uuid.New()
	week := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	if _, err := planStore.Save(ctx, &common.WeeklyMealPlan{ConsumerID: consumerID, WeekStartDate: week}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	second, err := planStore.Save(ctx, &common.WeeklyMealPlan{ConsumerID: consumerID, WeekStartDate: week})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	// Regeneration for the same week: the newest plan wins.
	found, err := planStore.FindByConsumerAndWeekStart(ctx, consumerID, week)
	if err != nil {
		t.Fatalf("FindByConsumerAndWeekStart returned error: %v", err)
	}
	if found == nil || found.ID != second.ID {
		t.Errorf("found = %+v, want plan %d", found, second.ID)
	}

	// A different consumer or week finds nothing.
	none, err := planStore.FindByConsumerAndWeekStart(ctx, uuid.New(), week)
	if err != nil || none != nil {
		t.Errorf("foreign consumer lookup = %v, %v; want nil, nil", none, err)
	}
	none, err = planStore.FindByConsumerAndWeekStart(ctx, consumerID, week.AddDate(0, 0, 7))
	if err != nil || none != nil {
		t.Errorf("other week lookup = %v, %v; want nil, nil", none, err)
	}
}

func TestPlanStoreHistoryNewestFirst(t *testing.T) {
	db := openTestDB(t)
	mealStore := NewMealStore(db)
	planStore := NewPlanStore(db, mealStore)
	ctx := context.Background()

	consumerID := uuid.New()
	weeks := []time.Time{
		time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
	}
	for _, w := range weeks {
		if _, err := planStore.Save(ctx, &common.WeeklyMealPlan{ConsumerID: consumerID, WeekStartDate: w}); err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
	}
	// Another consumer's plan must not leak into the history.
	if _, err := planStore.Save(ctx, &common.WeeklyMealPlan{ConsumerID: uuid.New(), WeekStartDate: weeks[0]}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	history, err := planStore.FindByConsumerOrderByWeekStartDesc(ctx, consumerID)
	if err != nil {
		t.Fatalf("history lookup returned error: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history has %d plans, want 3", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].WeekStartDate.After(history[i-1].WeekStartDate) {
			t.Errorf("history not sorted newest first: %v", history)
		}
	}
}

func TestDBPing(t *testing.T) {
	db := openTestDB(t)
	if err := db.Ping(); err != nil {
		t.Errorf("Ping returned error: %v", err)
	}
}
