package health

import (
	"net/http"
	"runtime"
	"time"

	"meal-planner/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the health probe payload.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping() error
}

// Handler serves the health, readiness and liveness probes.
type Handler struct {
	config *config.Config
	db     Pinger
}

// NewHandler creates a health handler backed by the database probe.
func NewHandler(cfg *config.Config, db Pinger) *Handler {
	return &Handler{config: cfg, db: db}
}

// HealthCheck reports process health and runtime stats.
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.config.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	})
}

// ReadinessCheck fails when the database is unreachable.
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck answers as long as the process can serve requests.
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
