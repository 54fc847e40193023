// internal/core/services/inventory.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/davalosm/papeleria-pos/internal/core/domain"
	"github.com/davalosm/papeleria-pos/internal/core/ports"
)

// InventoryService handles catalog and stock business logic.
type InventoryService struct {
	repo   ports.InventoryRepository
	logger *slog.Logger
}

// Statically assert that *InventoryService implements the InventoryService port.
var _ ports.InventoryService = (*InventoryService)(nil)

// NewInventoryService creates a new inventory service.
func NewInventoryService(repo ports.InventoryRepository, logger *slog.Logger) *InventoryService {
	return &InventoryService{
		repo:   repo,
		logger: logger.With(slog.String("service", "inventory")),
	}
}

// AddProduct appends a new stock-keeping record. When the item carries no
// product ID one is assigned as max existing id + 1 (1 when the catalog is
// empty).
func (s *InventoryService) AddProduct(ctx context.Context, item *domain.InventoryItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if item.ID == 0 {
		id, err := s.repo.NextProductID(ctx)
		if err != nil {
			return fmt.Errorf("failed to assign product id: %w", err)
		}
		item.ID = id
	}
	if err := s.repo.Add(ctx, *item); err != nil {
		return fmt.Errorf("failed to add product: %w", err)
	}

	s.logger.InfoContext(ctx, "product added",
		slog.Int64("product_id", item.ID),
		slog.String("name", item.Name),
		slog.String("branch_id", item.BranchID))

	return nil
}

// Restock adds quantity to the matching (productID, branchID) record.
// Quantity must be at least 1. A restock against an untracked product is a
// no-op, surfaced only as a warning log.
func (s *InventoryService) Restock(ctx context.Context, productID int64, branchID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: restock quantity must be at least 1", domain.ErrInvalidOperation)
	}

	newStock, err := s.repo.AdjustStock(ctx, productID, branchID, quantity)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "restock target not tracked, ignoring",
				slog.Int64("product_id", productID),
				slog.String("branch_id", branchID))
			return nil
		}
		return fmt.Errorf("failed to restock: %w", err)
	}

	s.logger.InfoContext(ctx, "stock replenished",
		slog.Int64("product_id", productID),
		slog.String("branch_id", branchID),
		slog.Int("quantity", quantity),
		slog.Int("stock", newStock))

	return nil
}

// List retrieves inventory items with filtering, stable sorting and
// page-based slicing. The requested page clamps to the last valid page so
// a shrinking result set never strands the caller out of range.
func (s *InventoryService) List(ctx context.Context, params ports.ListParams) (*ports.ListResult, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	filtered := items[:0:0]
	search := strings.ToLower(params.Search)
	for i := range items {
		if params.BranchID != "" && params.BranchID != ports.BranchAll && items[i].BranchID != params.BranchID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(items[i].Name), search) {
			continue
		}
		if params.Category != "" && string(items[i].Category) != params.Category {
			continue
		}
		filtered = append(filtered, items[i])
	}

	if params.SortBy != "" {
		sortItems(filtered, params.SortBy, params.SortOrder == "desc")
	}

	pageSize := normalizePageSize(params.PageSize)
	totalPages := (len(filtered) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	page := params.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	paged := make([]domain.InventoryItem, end-start)
	copy(paged, filtered[start:end])
	for i := range paged {
		paged[i].Status = paged[i].StockStatus()
	}

	return &ports.ListResult{
		Items:      paged,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: len(filtered),
		TotalPages: totalPages,
	}, nil
}

func normalizePageSize(size int) int {
	for _, allowed := range ports.AllowedPageSizes {
		if size == allowed {
			return size
		}
	}
	return ports.AllowedPageSizes[0]
}

// sortItems sorts in place by the named field. Ties keep their previous
// relative order.
func sortItems(items []domain.InventoryItem, field string, desc bool) {
	less := func(a, b *domain.InventoryItem) bool {
		switch field {
		case "id":
			return a.ID < b.ID
		case "category":
			return a.Category < b.Category
		case "price":
			return a.Price.LessThan(b.Price)
		case "stock":
			return a.Stock < b.Stock
		case "min_stock":
			return a.MinStock < b.MinStock
		case "branch":
			return a.BranchID < b.BranchID
		default: // name
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(&items[j], &items[i])
		}
		return less(&items[i], &items[j])
	})
}
