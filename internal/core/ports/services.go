// internal/core/ports/services.go
package ports

import (
	"context"

	"github.com/davalosm/papeleria-pos/internal/core/domain"
)

// BranchAll is the branch filter value selecting every branch.
const BranchAll = "all"

// SaleService is the application service port for the sale recorder.
type SaleService interface {
	Record(ctx context.Context, branchID string, method domain.PaymentMethod, cart []domain.CartLine) (*domain.Sale, error)
	List(ctx context.Context, branchID, from, to string) ([]domain.Sale, error)
}

// InventoryService is the application service port for the inventory store.
type InventoryService interface {
	AddProduct(ctx context.Context, item *domain.InventoryItem) error
	Restock(ctx context.Context, productID int64, branchID string, quantity int) error
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

// BranchService is the application service port for the branch directory.
type BranchService interface {
	Add(ctx context.Context, branch *domain.Branch, password string) error
	Update(ctx context.Context, id string, branch domain.Branch, password string) error
	List(ctx context.Context) ([]domain.Branch, error)
	// Authenticate returns the identity for valid credentials and
	// (nil, nil) when the credentials are declined. Only infrastructure
	// failures are reported as errors.
	Authenticate(ctx context.Context, username, password string) (*domain.Identity, error)
}

// ReportService is the application service port for the reporting
// aggregator.
type ReportService interface {
	Summarize(ctx context.Context, params ReportParams) (*Report, error)
}

// Page sizes accepted by the inventory read model.
var AllowedPageSizes = []int{5, 10, 20}

// ListParams holds parameters for listing inventory.
type ListParams struct {
	BranchID  string // empty or BranchAll selects every branch
	Search    string // case-insensitive name substring
	Category  string
	SortBy    string // id, name, category, price, stock, min_stock, branch
	SortOrder string // asc (default) or desc
	Page      int
	PageSize  int // one of AllowedPageSizes
}

// ListResult holds the result of listing inventory.
type ListResult struct {
	Items      []domain.InventoryItem `json:"items"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalCount int                    `json:"total_count"`
	TotalPages int                    `json:"total_pages"`
}
