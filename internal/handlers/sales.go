// internal/handlers/sales.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	redis_a "github.com/davalosm/papeleria-pos/internal/adapters/redis_adapter"
	"github.com/davalosm/papeleria-pos/internal/core/domain"
	"github.com/davalosm/papeleria-pos/internal/core/ports"
)

// SalesHandler handles checkout and ledger HTTP requests.
type SalesHandler struct {
	service ports.SaleService
	cache   ports.CacheRepository // nil when the report cache is disabled
	logger  *slog.Logger
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(service ports.SaleService, cache ports.CacheRepository, logger *slog.Logger) *SalesHandler {
	return &SalesHandler{
		service: service,
		cache:   cache,
		logger:  logger.With(slog.String("handler", "sales")),
	}
}

// RecordSaleRequest represents the request body for POST /api/v1/sales.
type RecordSaleRequest struct {
	BranchID string            `json:"branch_id"`
	Method   string            `json:"method"`
	Lines    []domain.CartLine `json:"lines"`
}

// RecordSale handles POST /api/v1/sales.
func (h *SalesHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RecordSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sale, err := h.service.Record(ctx, req.BranchID, domain.PaymentMethod(req.Method), req.Lines)
	if err != nil {
		h.logger.WarnContext(ctx, "sale rejected",
			slog.String("branch_id", req.BranchID),
			slog.String("error", err.Error()))
		respondDomainError(w, err)
		return
	}

	// New ledger entries invalidate every cached report.
	if h.cache != nil {
		if err := h.cache.DeletePattern(ctx, string(redis_a.PrefixReport)+":*"); err != nil {
			h.logger.WarnContext(ctx, "failed to invalidate report cache",
				slog.String("error", err.Error()))
		}
	}

	respondJSON(w, http.StatusCreated, sale)
}

// ListSales handles GET /api/v1/sales.
func (h *SalesHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	branch := r.URL.Query().Get("branch")
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	sales, err := h.service.List(ctx, branch, from, to)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list sales",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to list sales")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sales": sales,
		"count": len(sales),
	})
}
