// internal/core/domain/inventory.go
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductCategory represents product categories. The catalog ships with the
// four stationery categories below but free-text categories are accepted.
type ProductCategory string

// Category constants
const (
	CategoryStationery ProductCategory = "Papelería"
	CategorySchool     ProductCategory = "Escolar"
	CategoryOffice     ProductCategory = "Oficina"
	CategoryWriting    ProductCategory = "Escritura"
)

// StockStatus is derived from the current stock level; it is never stored.
type StockStatus string

// Stock status constants
const (
	StockDepleted StockStatus = "depleted"
	StockLow      StockStatus = "low"
	StockOptimal  StockStatus = "optimal"
)

// Product is a catalog entry. Once a product has been referenced by a sale
// line its identifying fields are treated as immutable.
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Category ProductCategory `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

// InventoryItem is a stock-keeping record: one per (product id, branch)
// pair. The same product id may appear in several branches as distinct
// records; uniqueness across branches is not enforced by the model.
type InventoryItem struct {
	Product
	Stock    int    `json:"stock"`
	MinStock int    `json:"min_stock"`
	BranchID string `json:"branch_id"`

	// Status is derived at read time by the listing service.
	Status StockStatus `json:"status,omitempty"`
}

// Validate performs domain validation on the inventory item.
func (i *InventoryItem) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("%w: product name is required", ErrInvalidOperation)
	}
	if i.Price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidOperation)
	}
	if i.Stock < 0 {
		return fmt.Errorf("%w: initial stock cannot be negative", ErrInvalidOperation)
	}
	if i.MinStock < 0 {
		return fmt.Errorf("%w: minimum stock cannot be negative", ErrInvalidOperation)
	}
	if i.BranchID == "" {
		return fmt.Errorf("%w: branch is required", ErrInvalidOperation)
	}
	if i.Category == "" {
		i.Category = CategoryStationery
	}
	return nil
}

// StockStatus derives the stock state from the current level and the
// minimum threshold. Negative stock (an accepted oversell outcome) reports
// as depleted.
func (i *InventoryItem) StockStatus() StockStatus {
	switch {
	case i.Stock <= 0:
		return StockDepleted
	case i.Stock <= i.MinStock:
		return StockLow
	default:
		return StockOptimal
	}
}
