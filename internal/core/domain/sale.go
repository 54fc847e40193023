// internal/core/domain/sale.go
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a ticket was paid.
type PaymentMethod string

// Payment method constants
const (
	PaymentCash     PaymentMethod = "Efectivo"
	PaymentCard     PaymentMethod = "Tarjeta"
	PaymentTransfer PaymentMethod = "Transferencia"
)

// Valid reports whether the payment method is one of the supported values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// Wire formats for sale timestamps. Dates compare lexicographically, which
// the report date-range filter relies on.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// CartLine is a transient line item not yet committed to a sale. Product
// name, category and unit price are carried as a snapshot so the ticket
// stays stable if the catalog changes later.
type CartLine struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Category  ProductCategory `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Validate performs domain validation on the cart line.
func (l *CartLine) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("%w: line product name is required", ErrInvalidOperation)
	}
	if l.Quantity < 1 {
		return fmt.Errorf("%w: line quantity must be at least 1", ErrInvalidOperation)
	}
	if l.Price.IsNegative() {
		return fmt.Errorf("%w: line price cannot be negative", ErrInvalidOperation)
	}
	return nil
}

// Subtotal returns quantity times unit price.
func (l *CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Sale is an immutable record of one completed checkout. It is created
// exactly once, owned by the ledger, and never mutated or deleted. The
// branch name is a snapshot taken at checkout, not a live reference.
type Sale struct {
	ID            string          `json:"id"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	BranchID      string          `json:"branch_id"`
	BranchName    string          `json:"branch_name"`
	Method        PaymentMethod   `json:"method"`
	Lines         []CartLine      `json:"lines"`
	TotalArticles int             `json:"total_articles"`
	Total         decimal.Decimal `json:"total"`
}

// Stamp sets the sale's date and time from the given instant.
func (s *Sale) Stamp(now time.Time) {
	s.Date = now.Format(DateLayout)
	s.Time = now.Format(TimeLayout)
}

// ComputeTotals fills the derived totals from the lines: total amount is
// sum(quantity * unit price) and total articles is sum(quantity).
func (s *Sale) ComputeTotals() {
	total := decimal.Zero
	articles := 0
	for i := range s.Lines {
		total = total.Add(s.Lines[i].Subtotal())
		articles += s.Lines[i].Quantity
	}
	s.Total = total
	s.TotalArticles = articles
}
