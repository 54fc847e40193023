// internal/core/ports/report.go
package ports

import (
	"github.com/davalosm/papeleria-pos/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportParams selects the ledger slice to aggregate. Dates are inclusive
// bounds in domain.DateLayout format; an absent bound is unbounded.
type ReportParams struct {
	BranchID string // empty or BranchAll selects every branch
	From     string
	To       string
}

// ProductRank is one entry of the per-product sales ranking.
type ProductRank struct {
	Name     string          `json:"name"`
	Units    int             `json:"units_sold"`
	Revenue  decimal.Decimal `json:"revenue"`
	Category string          `json:"category,omitempty"`
}

// SeriesPoint is one bucket of the revenue time series. The label is a
// calendar date, or an HH:00 hour when the range collapses to a single day.
type SeriesPoint struct {
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

// Report is the derived view over the filtered ledger. It is a pure
// function of the ledger and the params: identical inputs produce
// identical reports.
type Report struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalArticles int             `json:"total_articles"`
	Ranking       []ProductRank   `json:"ranking"`
	TopSellers    []ProductRank   `json:"top_sellers"`
	BottomSellers []ProductRank   `json:"bottom_sellers"`
	Series        []SeriesPoint   `json:"series"`
	SingleDay     bool            `json:"single_day"`
	Sales         []domain.Sale   `json:"sales"`
}
