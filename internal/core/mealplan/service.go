package mealplan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meal-planner/internal/pkg/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TextGenerator sends a prompt to the external generation service and returns
// the raw response text. Any transport error, bad status or empty envelope is
// a single failure kind; the generator never interprets content and never
// retries.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ConsumerStore is the durable consumer lookup.
type ConsumerStore interface {
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	FindByEmail(ctx context.Context, email string) (*common.Consumer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*common.Consumer, error)
}

// MealStore is the durable meal store. Save assigns the surrogate id.
type MealStore interface {
	FindAll(ctx context.Context) ([]common.Meal, error)
	Save(ctx context.Context, meal *common.Meal) (*common.Meal, error)
}

// PlanStore is the durable plan store. Lookups that find nothing return
// (nil, nil); errors are storage failures only.
type PlanStore interface {
	Save(ctx context.Context, plan *common.WeeklyMealPlan) (*common.WeeklyMealPlan, error)
	FindByID(ctx context.Context, id int64) (*common.WeeklyMealPlan, error)
	FindByConsumerAndWeekStart(ctx context.Context, consumerID uuid.UUID, weekStart time.Time) (*common.WeeklyMealPlan, error)
	FindByConsumerOrderByWeekStartDesc(ctx context.Context, consumerID uuid.UUID) ([]common.WeeklyMealPlan, error)
}

// Mailer delivers a plan to its owner by email.
type Mailer interface {
	SendPlan(ctx context.Context, consumer *common.Consumer, plan *common.WeeklyMealPlan) error
}

// Service orchestrates meal-plan generation: prompt construction, the
// generation call, parsing, reconciliation against the meal cache and plan
// persistence.
type Service struct {
	generator TextGenerator
	consumers ConsumerStore
	meals     MealStore
	plans     PlanStore
	cache     *MealCache
	mailer    Mailer
}

// NewService creates a meal-plan service.
func NewService(generator TextGenerator, consumers ConsumerStore, meals MealStore, plans PlanStore, cache *MealCache, mailer Mailer) *Service {
	return &Service{
		generator: generator,
		consumers: consumers,
		meals:     meals,
		plans:     plans,
		cache:     cache,
		mailer:    mailer,
	}
}

// GenerateWeeklyPlan generates and persists a 5-meal plan for one week.
func (s *Service) GenerateWeeklyPlan(ctx context.Context, consumer *common.Consumer) (*common.PlanResult, error) {
	return s.generatePlan(ctx, consumer, 1)
}

// GenerateMonthlyPlan generates and persists a 20-meal plan for four weeks.
func (s *Service) GenerateMonthlyPlan(ctx context.Context, consumer *common.Consumer) (*common.PlanResult, error) {
	return s.generatePlan(ctx, consumer, 4)
}

func (s *Service) generatePlan(ctx context.Context, consumer *common.Consumer, weeks int) (*common.PlanResult, error) {
	common.LogInfo("generating meal plan",
		zap.String("consumer_id", consumer.ID.String()),
		zap.Int("weeks", weeks),
	)

	exists, err := s.consumers.ExistsByID(ctx, consumer.ID)
	if err != nil {
		common.LogError("consumer existence check failed",
			zap.Error(err),
			zap.String("consumer_id", consumer.ID.String()),
		)
		return nil, common.WrapError(common.ErrGenerationFailed, err)
	}
	if !exists {
		common.LogError("consumer does not exist",
			zap.String("consumer_id", consumer.ID.String()),
		)
		return nil, common.ErrInvalidConsumer
	}

	prompt := BuildPrompt(consumer.Preferences(), weeks)

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		common.LogError("generation service call failed",
			zap.Error(err),
			zap.String("consumer_id", consumer.ID.String()),
		)
		return nil, common.WrapError(common.ErrServiceUnavailable, err)
	}

	meals, message, err := ParseMealPlan(raw)
	if err != nil {
		common.LogError("generation response unparseable",
			zap.Error(err),
			zap.String("consumer_id", consumer.ID.String()),
		)
		return nil, common.WrapError(common.ErrNoMealsGenerated, err)
	}
	if len(meals) == 0 {
		common.LogWarn("no meals generated",
			zap.String("consumer_id", consumer.ID.String()),
		)
		return nil, common.ErrNoMealsGenerated
	}
	common.LogInfo("generated meals", zap.Int("count", len(meals)))

	finalMeals, err := s.reconcile(ctx, meals)
	if err != nil {
		common.LogError("meal reconciliation failed",
			zap.Error(err),
			zap.String("consumer_id", consumer.ID.String()),
		)
		return nil, common.WrapError(common.ErrGenerationFailed, err)
	}

	plan := &common.WeeklyMealPlan{
		ConsumerID:    consumer.ID,
		WeekStartDate: WeekStart(time.Now()),
		Meals:         finalMeals,
	}

	saved, err := s.plans.Save(ctx, plan)
	if err != nil {
		common.LogError("failed to persist meal plan",
			zap.Error(err),
			zap.String("consumer_id", consumer.ID.String()),
		)
		return nil, common.WrapError(common.ErrGenerationFailed, err)
	}
	common.LogInfo("meal plan persisted",
		zap.Int64("plan_id", saved.ID),
		zap.Int("meals", len(saved.Meals)),
	)

	if message == "" {
		message = fmt.Sprintf("Your %d-week meal plan with %d meals has been created successfully!",
			weeks, len(finalMeals))
	}

	return &common.PlanResult{Plan: saved, Message: message}, nil
}

// reconcile maps each generated meal to its persisted record: a cache hit is
// reused as-is, a miss is persisted and cached. This is what keeps the
// system-wide invariant that no two persisted meals share a normalized name.
func (s *Service) reconcile(ctx context.Context, meals []common.Meal) ([]common.Meal, error) {
	final := make([]common.Meal, 0, len(meals))
	for _, meal := range meals {
		if cached, ok := s.cache.Get(meal.MealName); ok {
			common.LogDebug("reusing cached meal", zap.String("meal", cached.MealName))
			final = append(final, cached)
			continue
		}

		saved, err := s.meals.Save(ctx, &meal)
		if err != nil {
			return nil, fmt.Errorf("failed to save meal %q: %w", meal.MealName, err)
		}
		common.LogDebug("persisted new meal",
			zap.String("meal", saved.MealName),
			zap.Int64("meal_id", saved.ID),
		)
		s.cache.Add(*saved)
		final = append(final, *saved)
	}
	return final, nil
}

// GetCurrentWeekPlan returns the consumer's plan for the current ISO week, or
// nil when none exists.
func (s *Service) GetCurrentWeekPlan(ctx context.Context, consumerID uuid.UUID) (*common.WeeklyMealPlan, error) {
	common.LogDebug("fetching current week plan", zap.String("consumer_id", consumerID.String()))
	return s.plans.FindByConsumerAndWeekStart(ctx, consumerID, WeekStart(time.Now()))
}

// GetPlanHistory returns all of the consumer's plans, newest week first.
func (s *Service) GetPlanHistory(ctx context.Context, consumerID uuid.UUID) ([]common.WeeklyMealPlan, error) {
	common.LogDebug("fetching plan history", zap.String("consumer_id", consumerID.String()))
	return s.plans.FindByConsumerOrderByWeekStartDesc(ctx, consumerID)
}

// SendPlanByEmail delivers an existing plan to the consumer that owns it.
// A plan id that does not exist is NOT_FOUND; a plan owned by a different
// consumer is a caller error, not a delivery failure.
func (s *Service) SendPlanByEmail(ctx context.Context, consumerID uuid.UUID, planID int64) error {
	common.LogInfo("sending meal plan by email",
		zap.Int64("plan_id", planID),
		zap.String("consumer_id", consumerID.String()),
	)

	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return common.WrapError(common.ErrInternalError, err)
	}
	if plan == nil {
		return common.WrapError(common.ErrNotFound, errors.New("meal plan not found"))
	}
	if plan.ConsumerID != consumerID {
		return common.ErrPlanOwnership
	}

	consumer, err := s.consumers.FindByID(ctx, consumerID)
	if err != nil {
		return common.WrapError(common.ErrInternalError, err)
	}
	if consumer == nil {
		return common.ErrInvalidConsumer
	}

	if s.mailer == nil {
		return common.WrapError(common.ErrEmailDelivery, errors.New("mail delivery is not configured"))
	}

	if err := s.mailer.SendPlan(ctx, consumer, plan); err != nil {
		common.LogError("failed to send meal plan email",
			zap.Error(err),
			zap.Int64("plan_id", planID),
			zap.String("email", consumer.Email),
		)
		return common.WrapError(common.ErrEmailDelivery, err)
	}

	common.LogInfo("meal plan email sent",
		zap.Int64("plan_id", planID),
		zap.String("email", consumer.Email),
	)
	return nil
}

// WeekStart returns the Monday of t's ISO week, truncated to midnight UTC.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	d := t.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
