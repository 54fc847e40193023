// internal/handlers/inventory.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/davalosm/papeleria-pos/internal/core/domain"
	"github.com/davalosm/papeleria-pos/internal/core/ports"
)

// InventoryHandler handles inventory-related HTTP requests.
type InventoryHandler struct {
	service ports.InventoryService
	logger  *slog.Logger
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(service ports.InventoryService, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "inventory")),
	}
}

// ListInventory handles GET /api/v1/inventory.
func (h *InventoryHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.service.List(ctx, h.parseListParams(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list inventory",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to list inventory")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// CreateProduct handles POST /api/v1/inventory.
func (h *InventoryHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item := req.ToDomain()
	if err := h.service.AddProduct(ctx, item); err != nil {
		h.logger.ErrorContext(ctx, "failed to create product",
			slog.String("error", err.Error()))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

// Restock handles POST /api/v1/inventory/{id}/restock.
func (h *InventoryHandler) Restock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req RestockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.BranchID == "" {
		respondError(w, http.StatusBadRequest, "branch_id is required")
		return
	}

	if err := h.service.Restock(ctx, productID, req.BranchID, req.Quantity); err != nil {
		h.logger.ErrorContext(ctx, "failed to restock",
			slog.Int64("product_id", productID),
			slog.String("error", err.Error()))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"product_id": productID,
		"branch_id":  req.BranchID,
		"quantity":   req.Quantity,
	})
}

// parseListParams parses query parameters for listing inventory.
func (h *InventoryHandler) parseListParams(r *http.Request) ports.ListParams {
	params := ports.ListParams{
		BranchID: ports.BranchAll,
		Page:     1,
		PageSize: 5,
	}

	if branch := r.URL.Query().Get("branch"); branch != "" {
		params.BranchID = branch
	}
	params.Search = r.URL.Query().Get("search")
	params.Category = r.URL.Query().Get("category")

	if sortBy := r.URL.Query().Get("sort"); sortBy != "" {
		params.SortBy = sortBy
	}
	if order := r.URL.Query().Get("order"); order == "asc" || order == "desc" {
		params.SortOrder = order
	}

	if page := r.URL.Query().Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}
	if size := r.URL.Query().Get("page_size"); size != "" {
		if s, err := strconv.Atoi(size); err == nil && s > 0 {
			params.PageSize = s
		}
	}

	return params
}

// Request DTOs

// CreateProductRequest represents the request body for creating a product.
type CreateProductRequest struct {
	Name     string          `json:"name"`
	Category string          `json:"category,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	MinStock int             `json:"min_stock"`
	BranchID string          `json:"branch_id"`
}

// Validate validates the create product request.
func (r *CreateProductRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.BranchID == "" {
		return fmt.Errorf("branch_id is required")
	}
	if r.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative")
	}
	if r.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}
	return nil
}

// ToDomain converts the request to a domain model. The product ID is
// assigned by the service.
func (r *CreateProductRequest) ToDomain() *domain.InventoryItem {
	return &domain.InventoryItem{
		Product: domain.Product{
			Name:     r.Name,
			Category: domain.ProductCategory(r.Category),
			Price:    r.Price,
		},
		Stock:    r.Stock,
		MinStock: r.MinStock,
		BranchID: r.BranchID,
	}
}

// RestockRequest represents the request body for a restock operation.
type RestockRequest struct {
	BranchID string `json:"branch_id"`
	Quantity int    `json:"quantity"`
}
