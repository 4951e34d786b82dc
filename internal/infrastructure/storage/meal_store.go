package storage

import (
	"context"
	"fmt"

	"meal-planner/internal/pkg/common"
)

// MealStore persists meals. Meal rows are append-only: meal identity is the
// normalized name and the cache keeps callers from saving the same name twice.
type MealStore struct {
	db *DB
}

// NewMealStore creates a meal store.
func NewMealStore(db *DB) *MealStore {
	return &MealStore{db: db}
}

// FindAll returns every persisted meal, oldest first, for cache warm-up.
func (s *MealStore) FindAll(ctx context.Context) ([]common.Meal, error) {
	rows, err := s.db.sql.QueryContext(ctx,
		`SELECT id, meal_name, img_url FROM meals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query meals: %w", err)
	}
	defer rows.Close()

	var meals []common.Meal
	for rows.Next() {
		var m common.Meal
		if err := rows.Scan(&m.ID, &m.MealName, &m.ImgURL); err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range meals {
		if meals[i].Ingredients, err = s.loadIngredients(ctx, meals[i].ID); err != nil {
			return nil, err
		}
	}

	return meals, nil
}

// Save inserts a meal and its ingredient list, assigning the surrogate id.
func (s *MealStore) Save(ctx context.Context, meal *common.Meal) (*common.Meal, error) {
	tx, err := s.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO meals (meal_name, img_url) VALUES (?, ?)`,
		meal.MealName, meal.ImgURL)
	if err != nil {
		return nil, fmt.Errorf("failed to insert meal: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read meal id: %w", err)
	}

	for i, ingredient := range meal.Ingredients {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO meal_ingredients (meal_id, position, ingredient) VALUES (?, ?, ?)`,
			id, i, ingredient); err != nil {
			return nil, fmt.Errorf("failed to insert ingredient: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit meal: %w", err)
	}

	saved := *meal
	saved.ID = id
	return &saved, nil
}

func (s *MealStore) loadIngredients(ctx context.Context, mealID int64) ([]string, error) {
	rows, err := s.db.sql.QueryContext(ctx,
		`SELECT ingredient FROM meal_ingredients WHERE meal_id = ? ORDER BY position`, mealID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := []string{}
	for rows.Next() {
		var ing string
		if err := rows.Scan(&ing); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, rows.Err()
}
