package api

import (
	"context"
	"net/http"
	"time"

	healthHandler "meal-planner/internal/api/handlers/health"
	mealplanHandler "meal-planner/internal/api/handlers/mealplan"
	profileHandler "meal-planner/internal/api/handlers/profile"
	recipesHandler "meal-planner/internal/api/handlers/recipes"
	"meal-planner/internal/api/middleware"
	"meal-planner/internal/core/mealdb"
	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/storage"
	"meal-planner/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// Plan generation waits on the generation service, so the request
	// timeout has to cover a full upstream round trip.
	timeoutDuration = 120 * time.Second
	// Preference updates are the largest accepted body (1MB).
	maxBodySize = 1 << 20
)

// Dependencies carries the constructed services the router wires up.
type Dependencies struct {
	PlanService   *mealplan.Service
	ConsumerStore *storage.ConsumerStore
	MealDB        *mealdb.Client
	DB            *storage.DB
}

// SetupRouter builds the gin engine with all middleware and routes.
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	common.LogInfo("starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", middleware.ConsumerEmailHeader},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	// Request timeout wrapper.
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
			})
			c.Abort()
		}
	})

	health := healthHandler.NewHandler(cfg, deps.DB)
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	api := router.Group("/api/v1")
	{
		identity := middleware.ConsumerIdentity(deps.ConsumerStore)

		plans := mealplanHandler.NewHandler(deps.PlanService)
		planGroup := api.Group("/mealplan", identity)
		{
			planGroup.POST("/generate", plans.Generate)
			planGroup.GET("/current", plans.Current)
			planGroup.GET("/history", plans.History)
			planGroup.POST("/:planID/email", plans.SendEmail)
		}

		profile := profileHandler.NewHandler(deps.ConsumerStore)
		profileGroup := api.Group("/profile", identity)
		{
			profileGroup.GET("/preferences", profile.GetPreferences)
			profileGroup.PUT("/preferences", profile.UpdatePreferences)
		}

		recipes := recipesHandler.NewHandler(deps.MealDB)
		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.GET("/search", recipes.Search)
			recipeGroup.GET("/by-ingredient", recipes.ByIngredient)
			recipeGroup.GET("/:id", recipes.GetByID)
		}
	}

	common.LogInfo("router setup completed",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router
}
