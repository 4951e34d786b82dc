package mealplan

import (
	"sync"

	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultCacheSize is the bound used when no capacity is configured.
const DefaultCacheSize = 1000

// MealCache is the process-wide index of known meals, keyed by normalized
// meal name. It is the sole arbiter of whether a generated meal is new before
// the orchestrator persists it. The cache is bounded: when full, the
// oldest-inserted entry is evicted (FIFO by insertion, lookups do not refresh
// recency). Re-inserting an existing key overwrites in place and does not
// consume a fresh slot.
type MealCache struct {
	mu      sync.RWMutex
	maxSize int
	entries map[string]common.Meal
	order   []string
}

// NewMealCache creates a cache bounded to maxSize entries.
func NewMealCache(maxSize int) *MealCache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &MealCache{
		maxSize: maxSize,
		entries: make(map[string]common.Meal, maxSize),
	}
}

// Init bulk-loads the durable meal records at process start. Loading goes
// through the same insertion rule, so a durable store holding more rows than
// the cache bound will evict the oldest loads; that is an operational limit,
// not an error.
func (c *MealCache) Init(meals []common.Meal) {
	for _, meal := range meals {
		c.Add(meal)
	}
	common.LogInfo("meal cache initialized",
		zap.Int("entries", c.Len()),
		zap.Int("max_size", c.maxSize),
	)
}

// Get looks up a meal by name. The name is trimmed and case-folded before the
// lookup; an empty or unknown name reports a miss.
func (c *MealCache) Get(name string) (common.Meal, bool) {
	key := common.NormalizeMealName(name)
	if key == "" {
		return common.Meal{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	meal, ok := c.entries[key]
	return meal, ok
}

// Add inserts a meal under its normalized name. Meals without a usable name
// are ignored. Check-size, maybe-evict and insert happen as one atomic step
// under the write lock.
func (c *MealCache) Add(meal common.Meal) {
	key := meal.NormalizedName()
	if key == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		// Overwrite in place; insertion order is unchanged.
		c.entries[key] = meal
		return
	}

	if len(c.entries) >= c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		common.LogWarn("meal cache exceeded max size, evicted oldest entry",
			zap.String("evicted", oldest),
			zap.Int("max_size", c.maxSize),
		)
	}

	c.entries[key] = meal
	c.order = append(c.order, key)
}

// Len reports the current number of cached meals.
func (c *MealCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
