// Package mealdb wraps the public TheMealDB recipe API. Lookups are read
// only and safe to cache; when Redis is configured, responses are cached
// with a TTL so repeated searches do not hit the upstream API.
package mealdb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// RecipeSummary is a single recipe as returned by TheMealDB. Detail fields
// are empty on filter endpoints, which only return id, name and thumbnail.
type RecipeSummary struct {
	ID           string `json:"idMeal"`
	Name         string `json:"strMeal"`
	Category     string `json:"strCategory,omitempty"`
	Area         string `json:"strArea,omitempty"`
	Instructions string `json:"strInstructions,omitempty"`
	Thumbnail    string `json:"strMealThumb"`
}

// apiResponse mirrors the upstream envelope; meals is null on no match.
type apiResponse struct {
	Meals []RecipeSummary `json:"meals"`
}

// Client queries TheMealDB, consulting the in-process meal cache first for
// name searches so meals the planner already generated resolve locally.
type Client struct {
	client *resty.Client
	cache  *mealplan.MealCache
	store  *ResponseCache
}

// NewClient creates a TheMealDB client. responses may be nil, which
// disables the Redis response cache.
func NewClient(cfg *config.MealDBConfig, cache *mealplan.MealCache, responses *ResponseCache) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		client: client,
		cache:  cache,
		store:  responses,
	}
}

// SearchByName looks up recipes matching a meal name. A locally cached meal
// short-circuits the remote call.
func (c *Client) SearchByName(ctx context.Context, name string) ([]RecipeSummary, error) {
	if c.cache != nil {
		if meal, ok := c.cache.Get(name); ok {
			return []RecipeSummary{toSummary(meal)}, nil
		}
	}
	return c.fetch(ctx, "/search.php", "s", name)
}

// SearchByIngredient lists recipes containing an ingredient.
func (c *Client) SearchByIngredient(ctx context.Context, ingredient string) ([]RecipeSummary, error) {
	return c.fetch(ctx, "/filter.php", "i", ingredient)
}

// GetByID fetches one recipe in full detail, or nil when unknown.
func (c *Client) GetByID(ctx context.Context, id string) (*RecipeSummary, error) {
	recipes, err := c.fetch(ctx, "/lookup.php", "i", id)
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, nil
	}
	return &recipes[0], nil
}

func (c *Client) fetch(ctx context.Context, path, param, value string) ([]RecipeSummary, error) {
	cacheKey := fmt.Sprintf("mealdb:%s:%s=%s", path, param, value)
	if c.store != nil {
		if recipes, ok := c.store.Get(ctx, cacheKey); ok {
			return recipes, nil
		}
	}

	var result apiResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam(param, value).
		SetResult(&result).
		Get(path)
	if err != nil {
		return nil, common.WrapError(common.ErrServiceUnavailable,
			fmt.Errorf("mealdb request failed: %w", err))
	}
	if resp.StatusCode() != 200 {
		return nil, common.WrapError(common.ErrServiceUnavailable,
			fmt.Errorf("mealdb returned status %d", resp.StatusCode()))
	}

	recipes := result.Meals
	if recipes == nil {
		recipes = []RecipeSummary{}
	}

	if c.store != nil {
		c.store.Set(ctx, cacheKey, recipes)
	}
	return recipes, nil
}

func toSummary(meal common.Meal) RecipeSummary {
	return RecipeSummary{
		ID:        strconv.FormatInt(meal.ID, 10),
		Name:      meal.MealName,
		Thumbnail: meal.ImgURL,
	}
}

const defaultTimeout = 10 * time.Second
