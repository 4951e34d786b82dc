package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"meal-planner/internal/api/middleware"
	"meal-planner/internal/infrastructure/storage"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) (*gin.Engine, *storage.ConsumerStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	consumers := storage.NewConsumerStore(db)
	if _, err := consumers.Save(context.Background(), &common.Consumer{
		Email:    "jo@example.com",
		DietType: "omnivore",
		Dislikes: []string{"celery"},
	}); err != nil {
		t.Fatalf("failed to seed consumer: %v", err)
	}

	router := gin.New()
	h := NewHandler(consumers)
	group := router.Group("/api/v1/profile", middleware.ConsumerIdentity(consumers))
	group.GET("/preferences", h.GetPreferences)
	group.PUT("/preferences", h.UpdatePreferences)

	return router, consumers
}

func TestGetPreferences(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile/preferences", nil)
	req.Header.Set(middleware.ConsumerEmailHeader, "jo@example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		DietType  string   `json:"diet_type"`
		Allergies []string `json:"allergies"`
		Dislikes  []string `json:"dislikes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.DietType != "omnivore" {
		t.Errorf("diet type = %q", body.DietType)
	}
	if body.Allergies == nil {
		t.Error("allergies should encode as an empty list, not null")
	}
	if len(body.Dislikes) != 1 || body.Dislikes[0] != "celery" {
		t.Errorf("dislikes = %v", body.Dislikes)
	}
}

func TestUpdatePreferences(t *testing.T) {
	router, consumers := newTestRouter(t)

	payload := `{"diet_type":"vegan","allergies":["soy","peanuts","soy"],"dislikes":[]}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile/preferences", strings.NewReader(payload))
	req.Header.Set(middleware.ConsumerEmailHeader, "jo@example.com")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	saved, err := consumers.FindByEmail(context.Background(), "jo@example.com")
	if err != nil || saved == nil {
		t.Fatalf("failed to reload consumer: %v", err)
	}
	if saved.DietType != "vegan" {
		t.Errorf("diet type = %q", saved.DietType)
	}
	if len(saved.Allergies) != 2 || saved.Allergies[0] != "peanuts" || saved.Allergies[1] != "soy" {
		t.Errorf("allergies = %v, want deduplicated and sorted", saved.Allergies)
	}
	if len(saved.Dislikes) != 0 {
		t.Errorf("dislikes = %v, old terms should be replaced", saved.Dislikes)
	}
}

func TestUpdatePreferencesRejectsBadBody(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile/preferences", strings.NewReader("not json"))
	req.Header.Set(middleware.ConsumerEmailHeader, "jo@example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}
