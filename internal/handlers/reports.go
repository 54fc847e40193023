// internal/handlers/reports.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	redis_a "github.com/davalosm/papeleria-pos/internal/adapters/redis_adapter"
	"github.com/davalosm/papeleria-pos/internal/core/ports"
)

// ReportHandler handles the reporting dashboard endpoints. Reports are pure
// functions of the ledger, so they cache safely; the sales handler
// invalidates the report keyspace whenever a new ticket lands.
type ReportHandler struct {
	service  ports.ReportService
	cache    ports.CacheRepository // nil when the report cache is disabled
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(service ports.ReportService, cache ports.CacheRepository, cacheTTL time.Duration, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		service:  service,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With(slog.String("handler", "reports")),
	}
}

// Summary handles GET /api/v1/reports/summary.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := parseReportParams(r)

	if h.cache == nil {
		report, err := h.service.Summarize(ctx, params)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to summarize",
				slog.String("error", err.Error()))
			respondError(w, http.StatusInternalServerError, "Failed to build report")
			return
		}
		respondJSON(w, http.StatusOK, report)
		return
	}

	cacheKey := redis_a.BuildKey(redis_a.PrefixReport, params.BranchID, params.From, params.To)
	var report ports.Report
	err := h.cache.GetOrSet(ctx, cacheKey, &report, func() (interface{}, error) {
		return h.service.Summarize(ctx, params)
	}, h.cacheTTL)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to summarize",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

func parseReportParams(r *http.Request) ports.ReportParams {
	params := ports.ReportParams{
		BranchID: ports.BranchAll,
		From:     r.URL.Query().Get("from"),
		To:       r.URL.Query().Get("to"),
	}
	if branch := r.URL.Query().Get("branch"); branch != "" {
		params.BranchID = branch
	}
	return params
}
