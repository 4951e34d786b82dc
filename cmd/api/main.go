package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meal-planner/internal/api"
	"meal-planner/internal/core/ai/openai"
	"meal-planner/internal/core/mealdb"
	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/email"
	"meal-planner/internal/infrastructure/storage"
	"meal-planner/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("configuration loaded",
		zap.String("env", cfg.App.Env),
		zap.String("model", cfg.OpenAI.Model),
		zap.String("database", cfg.Database.Path),
	)

	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		common.LogFatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	consumerStore := storage.NewConsumerStore(db)
	mealStore := storage.NewMealStore(db)
	planStore := storage.NewPlanStore(db, mealStore)

	// Warm the meal cache from previously generated meals.
	mealCache := mealplan.NewMealCache(cfg.Cache.MaxSize)
	meals, err := mealStore.FindAll(context.Background())
	if err != nil {
		common.LogFatal("failed to load meals for cache warm-up", zap.Error(err))
	}
	mealCache.Init(meals)

	generator := openai.NewClient(&cfg.OpenAI)
	defer generator.Close()

	responseCache, err := mealdb.NewResponseCache(&cfg.Redis)
	if err != nil {
		common.LogFatal("failed to connect recipe cache", zap.Error(err))
	}
	defer responseCache.Close()

	mealDBClient := mealdb.NewClient(&cfg.MealDB, mealCache, responseCache)

	mailer, err := email.NewMailer(&cfg.SMTP)
	if err != nil {
		common.LogFatal("failed to initialize mailer", zap.Error(err))
	}

	planService := mealplan.NewService(generator, consumerStore, mealStore, planStore, mealCache, mailerOrNil(mailer))

	router := api.SetupRouter(cfg, api.Dependencies{
		PlanService:   planService,
		ConsumerStore: consumerStore,
		MealDB:        mealDBClient,
		DB:            db,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("starting server",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	common.LogInfo("server exited")
}

// mailerOrNil keeps the service's Mailer interface nil when mail is
// disabled, instead of a non-nil interface wrapping a nil *Mailer.
func mailerOrNil(m *email.Mailer) mealplan.Mailer {
	if m == nil {
		return nil
	}
	return m
}
