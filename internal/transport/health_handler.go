package transport

import (
	"context"
	"net/http"
	"time"

	"descartables/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

// DBHealth reports the state of the relational store.
type DBHealth interface {
	Health(ctx context.Context) map[string]string
}

// HealthHandler reports whether the catalog store and the session store
// answer.
type HealthHandler struct {
	db    DBHealth
	redis *redis.Client
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db DBHealth, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbStats := h.db.Health(ctx)
	redisStatus := "up"
	if err := h.redis.Ping(ctx).Err(); err != nil {
		redisStatus = "down: " + err.Error()
	}

	if dbStats["status"] != "up" || redisStatus != "up" {
		middleware.RespondWithErrorDetails(w, http.StatusServiceUnavailable, "dependencies unavailable", map[string]interface{}{
			"database": dbStats,
			"redis":    redisStatus,
		})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"database": dbStats,
		"redis":    redisStatus,
	})
}
