// internal/core/services/reports.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/davalosm/papeleria-pos/internal/core/domain"
	"github.com/davalosm/papeleria-pos/internal/core/ports"
)

// ReportService derives KPIs, rankings and a revenue time series from the
// sales ledger. Summarize is a pure function of the ledger and its params,
// it can be recomputed on every view refresh (and is therefore safe to
// cache and invalidate coarsely).
type ReportService struct {
	sales  ports.SaleRepository
	logger *slog.Logger
}

// Statically assert that *ReportService implements the ReportService port.
var _ ports.ReportService = (*ReportService)(nil)

// NewReportService creates a new report service.
func NewReportService(sales ports.SaleRepository, logger *slog.Logger) *ReportService {
	return &ReportService{
		sales:  sales,
		logger: logger.With(slog.String("service", "reports")),
	}
}

// Summarize aggregates the ledger slice selected by params. The product
// ranking orders by units sold descending with ties broken by product name
// ascending, so identical inputs always produce identical output. The time
// series buckets by hour of day when the range collapses to a single day
// and by calendar date otherwise.
func (s *ReportService) Summarize(ctx context.Context, params ports.ReportParams) (*ports.Report, error) {
	sales, err := s.sales.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger: %w", err)
	}

	singleDay := params.From != "" && params.From == params.To

	report := &ports.Report{
		TotalRevenue:  decimal.Zero,
		Ranking:       []ports.ProductRank{},
		TopSellers:    []ports.ProductRank{},
		BottomSellers: []ports.ProductRank{},
		Series:        []ports.SeriesPoint{},
		SingleDay:     singleDay,
		Sales:         []domain.Sale{},
	}

	byProduct := make(map[string]*ports.ProductRank)
	buckets := make(map[string]decimal.Decimal)

	for i := range sales {
		sale := &sales[i]
		if !matchesSaleFilter(sale, params.BranchID, params.From, params.To) {
			continue
		}
		report.Sales = append(report.Sales, *sale)
		report.TotalRevenue = report.TotalRevenue.Add(sale.Total)
		report.TotalArticles += sale.TotalArticles

		label := sale.Date
		if singleDay {
			label = hourBucket(sale.Time)
		}
		buckets[label] = buckets[label].Add(sale.Total)

		for j := range sale.Lines {
			line := &sale.Lines[j]
			rank, ok := byProduct[line.Name]
			if !ok {
				rank = &ports.ProductRank{Name: line.Name, Category: string(line.Category)}
				byProduct[line.Name] = rank
			}
			rank.Units += line.Quantity
			rank.Revenue = rank.Revenue.Add(line.Subtotal())
		}
	}

	for _, rank := range byProduct {
		report.Ranking = append(report.Ranking, *rank)
	}
	sort.Slice(report.Ranking, func(i, j int) bool {
		if report.Ranking[i].Units != report.Ranking[j].Units {
			return report.Ranking[i].Units > report.Ranking[j].Units
		}
		return report.Ranking[i].Name < report.Ranking[j].Name
	})

	report.TopSellers = append(report.TopSellers, headOf(report.Ranking, 10)...)
	report.BottomSellers = append(report.BottomSellers, headOf(reversed(report.Ranking), 3)...)

	for label, total := range buckets {
		report.Series = append(report.Series, ports.SeriesPoint{Label: label, Total: total})
	}
	sort.Slice(report.Series, func(i, j int) bool {
		return report.Series[i].Label < report.Series[j].Label
	})

	s.logger.DebugContext(ctx, "report computed",
		slog.String("branch_id", params.BranchID),
		slog.Int("sales", len(report.Sales)),
		slog.Int("products", len(report.Ranking)))

	return report, nil
}

// hourBucket truncates an HH:MM time to its HH:00 hour bucket.
func hourBucket(hhmm string) string {
	if len(hhmm) < 2 {
		return hhmm
	}
	return hhmm[:2] + ":00"
}

func headOf(ranking []ports.ProductRank, n int) []ports.ProductRank {
	if len(ranking) < n {
		n = len(ranking)
	}
	return ranking[:n]
}

func reversed(ranking []ports.ProductRank) []ports.ProductRank {
	out := make([]ports.ProductRank, len(ranking))
	for i := range ranking {
		out[len(ranking)-1-i] = ranking[i]
	}
	return out
}
