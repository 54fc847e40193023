// internal/core/ports/repositories.go
package ports

import (
	"context"

	"github.com/davalosm/papeleria-pos/internal/core/domain"
)

// BranchRepository is the storage port for the branch directory.
type BranchRepository interface {
	Add(ctx context.Context, branch domain.Branch) error
	// Update replaces the branch with the given ID wholesale. Historical
	// sales keep the name snapshot taken when they were recorded.
	Update(ctx context.Context, id string, branch domain.Branch) error
	FindByID(ctx context.Context, id string) (*domain.Branch, error)
	FindByUsername(ctx context.Context, username string) (*domain.Branch, error)
	List(ctx context.Context) ([]domain.Branch, error)
}

// InventoryRepository is the storage port for stock-keeping records.
type InventoryRepository interface {
	Add(ctx context.Context, item domain.InventoryItem) error
	// NextProductID returns max existing product id + 1, or 1 when empty.
	NextProductID(ctx context.Context) (int64, error)
	FindByProduct(ctx context.Context, productID int64, branchID string) (*domain.InventoryItem, error)
	// AdjustStock adds delta (which may be negative) to the stock of the
	// exact (productID, branchID) record and returns the new level. Stock
	// is allowed to go negative. Returns domain.ErrNotFound when no such
	// record exists.
	AdjustStock(ctx context.Context, productID int64, branchID string, delta int) (int, error)
	List(ctx context.Context) ([]domain.InventoryItem, error)
}

// SaleRepository is the storage port for the append-only sales ledger.
type SaleRepository interface {
	// Append assigns the next sequential ticket ID and prepends the sale
	// to the ledger, which is kept most-recent-first.
	Append(ctx context.Context, sale *domain.Sale) error
	List(ctx context.Context) ([]domain.Sale, error)
	Count(ctx context.Context) (int, error)
}
