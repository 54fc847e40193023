// internal/handlers/health.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/davalosm/papeleria-pos/internal/adapters/memstore"
	"github.com/davalosm/papeleria-pos/internal/core/ports"
)

type HealthHandler struct {
	store     *memstore.Store
	cache     ports.CacheRepository // nil when the report cache is disabled
	version   string
	startedAt time.Time
	logger    *slog.Logger
}

func NewHealthHandler(store *memstore.Store, cache ports.CacheRepository, version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		store:     store,
		cache:     cache,
		version:   version,
		startedAt: time.Now(),
		logger:    logger.With(slog.String("handler", "health")),
	}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	branches, inventory, sales := h.store.Counts()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
		"store": map[string]int{
			"branches":  branches,
			"inventory": inventory,
			"sales":     sales,
		},
	})
}

// Readiness handles GET /ready. The store lives in process memory so the
// only external dependency to probe is the report cache, when enabled.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			h.logger.ErrorContext(r.Context(), "cache ping failed",
				slog.String("error", err.Error()))
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"reason": "cache unreachable",
			})
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
