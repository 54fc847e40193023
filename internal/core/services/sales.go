// internal/core/services/sales.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/davalosm/papeleria-pos/internal/core/domain"
	"github.com/davalosm/papeleria-pos/internal/core/ports"
)

// SaleService handles the sale recorder: it validates a cart, stamps and
// totals the ticket, appends it to the ledger and reconciles stock.
type SaleService struct {
	sales     ports.SaleRepository
	inventory ports.InventoryRepository
	branches  ports.BranchRepository
	logger    *slog.Logger

	// Now supplies the checkout timestamp; tests override it.
	Now func() time.Time
}

// Statically assert that *SaleService implements the SaleService port.
var _ ports.SaleService = (*SaleService)(nil)

// NewSaleService creates a new sale service.
func NewSaleService(sales ports.SaleRepository, inventory ports.InventoryRepository, branches ports.BranchRepository, logger *slog.Logger) *SaleService {
	return &SaleService{
		sales:     sales,
		inventory: inventory,
		branches:  branches,
		logger:    logger.With(slog.String("service", "sales")),
		Now:       time.Now,
	}
}

// Record validates and commits one checkout: it stamps the current date and
// time, computes totals, decrements stock for every cart line tracked in the
// branch's inventory and then prepends the sale to the ledger, which assigns
// the next ticket ID. Lines not tracked in that branch are skipped with a
// warning; the sale still records the attempted line. Stock may be driven
// negative, there is no reservation between viewing availability and
// recording the sale.
func (s *SaleService) Record(ctx context.Context, branchID string, method domain.PaymentMethod, cart []domain.CartLine) (*domain.Sale, error) {
	if branchID == "" {
		return nil, fmt.Errorf("%w: branch is required", domain.ErrInvalidOperation)
	}
	branch, err := s.branches.FindByID(ctx, branchID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown branch %s", domain.ErrInvalidOperation, branchID)
		}
		return nil, fmt.Errorf("failed to resolve branch: %w", err)
	}
	if len(cart) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", domain.ErrInvalidOperation)
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unsupported payment method %q", domain.ErrInvalidOperation, method)
	}
	for i := range cart {
		if err := cart[i].Validate(); err != nil {
			return nil, fmt.Errorf("validation failed for line %s: %w", cart[i].Name, err)
		}
	}

	sale := &domain.Sale{
		BranchID:   branch.ID,
		BranchName: branch.Name,
		Method:     method,
		Lines:      append([]domain.CartLine(nil), cart...),
	}
	sale.Stamp(s.Now())
	sale.ComputeTotals()

	// Stock is reconciled before the ticket is committed so a failing
	// adjustment never leaves a ledger entry behind.
	for i := range sale.Lines {
		line := &sale.Lines[i]
		newStock, err := s.inventory.AdjustStock(ctx, line.ProductID, branch.ID, -line.Quantity)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.logger.WarnContext(ctx, "sold line not tracked in branch inventory",
					slog.Int64("product_id", line.ProductID),
					slog.String("branch_id", branch.ID))
				continue
			}
			return nil, fmt.Errorf("failed to decrement stock: %w", err)
		}
		if newStock < 0 {
			s.logger.WarnContext(ctx, "stock driven negative by sale",
				slog.Int64("product_id", line.ProductID),
				slog.String("branch_id", branch.ID),
				slog.Int("stock", newStock))
		}
	}

	if err := s.sales.Append(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to append sale: %w", err)
	}

	s.logger.InfoContext(ctx, "sale recorded",
		slog.String("ticket", sale.ID),
		slog.String("branch_id", branch.ID),
		slog.String("method", string(method)),
		slog.Int("articles", sale.TotalArticles),
		slog.String("total", sale.Total.String()))

	return sale, nil
}

// List returns ledger entries, most-recent-first, filtered by branch and
// inclusive date range. Empty or "all" branch selects every branch; an
// absent date bound is unbounded.
func (s *SaleService) List(ctx context.Context, branchID, from, to string) ([]domain.Sale, error) {
	sales, err := s.sales.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	out := make([]domain.Sale, 0, len(sales))
	for i := range sales {
		if matchesSaleFilter(&sales[i], branchID, from, to) {
			out = append(out, sales[i])
		}
	}
	return out, nil
}

// matchesSaleFilter applies the shared branch/date-range filter. Dates are
// ISO strings so inclusive bounds compare lexicographically.
func matchesSaleFilter(sale *domain.Sale, branchID, from, to string) bool {
	if branchID != "" && branchID != ports.BranchAll && sale.BranchID != branchID {
		return false
	}
	if from != "" && sale.Date < from {
		return false
	}
	if to != "" && sale.Date > to {
		return false
	}
	return true
}
