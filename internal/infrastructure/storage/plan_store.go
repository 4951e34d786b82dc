package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"meal-planner/internal/pkg/common"

	"github.com/google/uuid"
)

// PlanStore persists weekly meal plans. A plan and its meal references are
// written in one transaction: the plan is fully persisted or not at all.
// Meal rows themselves are committed separately before the plan, so a failed
// plan save never unwinds meals that other plans may already reference.
type PlanStore struct {
	db    *DB
	meals *MealStore
}

// NewPlanStore creates a plan store.
func NewPlanStore(db *DB, meals *MealStore) *PlanStore {
	return &PlanStore{db: db, meals: meals}
}

// Save inserts the plan and its ordered meal references, assigning the plan id.
func (s *PlanStore) Save(ctx context.Context, plan *common.WeeklyMealPlan) (*common.WeeklyMealPlan, error) {
	tx, err := s.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO meal_plans (consumer_id, week_start_date) VALUES (?, ?)`,
		plan.ConsumerID.String(), plan.WeekStartDate.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to insert plan: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read plan id: %w", err)
	}

	for i, meal := range plan.Meals {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO meal_plan_meals (plan_id, position, meal_id) VALUES (?, ?, ?)`,
			id, i, meal.ID); err != nil {
			return nil, fmt.Errorf("failed to insert plan meal: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit plan: %w", err)
	}

	saved := *plan
	saved.ID = id
	return &saved, nil
}

// FindByID loads one plan with its meals, or nil when unknown.
func (s *PlanStore) FindByID(ctx context.Context, id int64) (*common.WeeklyMealPlan, error) {
	row := s.db.sql.QueryRowContext(ctx,
		`SELECT id, consumer_id, week_start_date FROM meal_plans WHERE id = ?`, id)
	return s.scanPlan(ctx, row)
}

// FindByConsumerAndWeekStart loads the consumer's plan for a week, or nil.
// When regeneration produced several plans for the same week the newest wins.
func (s *PlanStore) FindByConsumerAndWeekStart(ctx context.Context, consumerID uuid.UUID, weekStart time.Time) (*common.WeeklyMealPlan, error) {
	row := s.db.sql.QueryRowContext(ctx, `
        SELECT id, consumer_id, week_start_date FROM meal_plans
        WHERE consumer_id = ? AND week_start_date = ?
        ORDER BY id DESC LIMIT 1
    `, consumerID.String(), weekStart.Format(dateLayout))
	return s.scanPlan(ctx, row)
}

// FindByConsumerOrderByWeekStartDesc returns the consumer's full plan
// history, newest week first.
func (s *PlanStore) FindByConsumerOrderByWeekStartDesc(ctx context.Context, consumerID uuid.UUID) ([]common.WeeklyMealPlan, error) {
	rows, err := s.db.sql.QueryContext(ctx, `
        SELECT id, consumer_id, week_start_date FROM meal_plans
        WHERE consumer_id = ?
        ORDER BY week_start_date DESC, id DESC
    `, consumerID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query plan history: %w", err)
	}
	defer rows.Close()

	var plans []common.WeeklyMealPlan
	for rows.Next() {
		plan, err := scanPlanRow(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range plans {
		if plans[i].Meals, err = s.loadPlanMeals(ctx, plans[i].ID); err != nil {
			return nil, err
		}
	}

	return plans, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlanRow(r rowScanner) (*common.WeeklyMealPlan, error) {
	var plan common.WeeklyMealPlan
	var consumerIDStr, weekStartStr string

	if err := r.Scan(&plan.ID, &consumerIDStr, &weekStartStr); err != nil {
		return nil, fmt.Errorf("failed to scan plan: %w", err)
	}

	var err error
	if plan.ConsumerID, err = uuid.Parse(consumerIDStr); err != nil {
		return nil, fmt.Errorf("failed to parse plan consumer id: %w", err)
	}
	if plan.WeekStartDate, err = time.ParseInLocation(dateLayout, weekStartStr, time.UTC); err != nil {
		return nil, fmt.Errorf("failed to parse week start date: %w", err)
	}

	return &plan, nil
}

func (s *PlanStore) scanPlan(ctx context.Context, row *sql.Row) (*common.WeeklyMealPlan, error) {
	plan, err := scanPlanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if plan.Meals, err = s.loadPlanMeals(ctx, plan.ID); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *PlanStore) loadPlanMeals(ctx context.Context, planID int64) ([]common.Meal, error) {
	rows, err := s.db.sql.QueryContext(ctx, `
        SELECT m.id, m.meal_name, m.img_url
        FROM meal_plan_meals pm
        JOIN meals m ON m.id = pm.meal_id
        WHERE pm.plan_id = ?
        ORDER BY pm.position
    `, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to query plan meals: %w", err)
	}
	defer rows.Close()

	var meals []common.Meal
	for rows.Next() {
		var m common.Meal
		if err := rows.Scan(&m.ID, &m.MealName, &m.ImgURL); err != nil {
			return nil, fmt.Errorf("failed to scan plan meal: %w", err)
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range meals {
		if meals[i].Ingredients, err = s.meals.loadIngredients(ctx, meals[i].ID); err != nil {
			return nil, err
		}
	}

	return meals, nil
}
