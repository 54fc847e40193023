package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davalosm/papeleria-pos/internal/core/domain"
	"github.com/davalosm/papeleria-pos/internal/core/ports"
	"github.com/davalosm/papeleria-pos/internal/core/services"
	"github.com/davalosm/papeleria-pos/test/helpers"
)

func TestSaleService_Record(t *testing.T) {
	store := helpers.SeededStore(t)
	svc := services.NewSaleService(store.Sales(), store.Inventory(), store.Branches(), helpers.TestLogger())
	svc.Now = helpers.FixedClock(2025, time.January, 1, 10, 30)
	ctx := context.Background()

	cart := []domain.CartLine{
		{ProductID: 1, Name: "Hojas Blancas Carta", Category: domain.CategoryStationery, Price: decimal.RequireFromString("85.00"), Quantity: 2},
		{ProductID: 3, Name: "Lápiz HB Mirado 2", Category: domain.CategoryWriting, Price: decimal.RequireFromString("6.00"), Quantity: 3},
	}

	sale, err := svc.Record(ctx, "1", domain.PaymentCash, cart)
	require.NoError(t, err)

	assert.Equal(t, "TKT-00001", sale.ID)
	assert.Equal(t, "2025-01-01", sale.Date)
	assert.Equal(t, "10:30", sale.Time)
	assert.Equal(t, "1", sale.BranchID)
	assert.Equal(t, "HelloKitty", sale.BranchName)
	assert.Equal(t, 5, sale.TotalArticles)
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("188.00")),
		"total %s", sale.Total)

	// Stock reconciled per line.
	paper, err := store.Inventory().FindByProduct(ctx, 1, "1")
	require.NoError(t, err)
	assert.Equal(t, 148, paper.Stock)

	pencil, err := store.Inventory().FindByProduct(ctx, 3, "1")
	require.NoError(t, err)
	assert.Equal(t, 97, pencil.Stock)
}

func TestSaleService_Record_Rejections(t *testing.T) {
	store := helpers.SeededStore(t)
	svc := services.NewSaleService(store.Sales(), store.Inventory(), store.Branches(), helpers.TestLogger())
	ctx := context.Background()

	validCart := helpers.SampleCart(3, "Lápiz HB Mirado 2", "6.00", 1)

	tests := []struct {
		name     string
		branchID string
		method   domain.PaymentMethod
		cart     []domain.CartLine
		errorMsg string
	}{
		{
			name:     "missing_branch",
			branchID: "",
			method:   domain.PaymentCash,
			cart:     validCart,
			errorMsg: "branch is required",
		},
		{
			name:     "unknown_branch",
			branchID: "99",
			method:   domain.PaymentCash,
			cart:     validCart,
			errorMsg: "unknown branch",
		},
		{
			name:     "empty_cart",
			branchID: "1",
			method:   domain.PaymentCash,
			cart:     nil,
			errorMsg: "cart is empty",
		},
		{
			name:     "bad_method",
			branchID: "1",
			method:   "Cheque",
			cart:     validCart,
			errorMsg: "unsupported payment method",
		},
		{
			name:     "zero_quantity_line",
			branchID: "1",
			method:   domain.PaymentCash,
			cart:     []domain.CartLine{{ProductID: 3, Name: "Lápiz HB Mirado 2", Quantity: 0}},
			errorMsg: "quantity must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Record(ctx, tt.branchID, tt.method, tt.cart)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidOperation)
			assert.Contains(t, err.Error(), tt.errorMsg)

			// Nothing lands in the ledger on a rejection.
			count, err := store.Sales().Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, count)
		})
	}
}

func TestSaleService_Record_UntrackedLineStillSells(t *testing.T) {
	store := helpers.SeededStore(t)
	svc := services.NewSaleService(store.Sales(), store.Inventory(), store.Branches(), helpers.TestLogger())
	ctx := context.Background()

	// Product 1 is tracked only in branch 1; selling it from branch 2
	// records the ticket and skips the stock adjustment.
	cart := helpers.SampleCart(1, "Hojas Blancas Carta", "85.00", 2)

	sale, err := svc.Record(ctx, "2", domain.PaymentCard, cart)
	require.NoError(t, err)
	assert.Equal(t, "Norte", sale.BranchName)
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("170.00")))

	item, err := store.Inventory().FindByProduct(ctx, 1, "1")
	require.NoError(t, err)
	assert.Equal(t, 150, item.Stock, "other branch's stock untouched")
}

func TestSaleService_Record_OversellDrivesStockNegative(t *testing.T) {
	store := helpers.SeededStore(t)
	invService := services.NewInventoryService(store.Inventory(), helpers.TestLogger())
	svc := services.NewSaleService(store.Sales(), store.Inventory(), store.Branches(), helpers.TestLogger())
	ctx := context.Background()

	// Track a thin stock line, top it up, then oversell it.
	require.NoError(t, store.Inventory().Add(ctx, *helpers.SampleItem(50, "Tijeras Escolares", "22.00", 10, 5, "2")))
	require.NoError(t, invService.Restock(ctx, 50, "2", 4))

	item, err := store.Inventory().FindByProduct(ctx, 50, "2")
	require.NoError(t, err)
	require.Equal(t, 14, item.Stock)

	_, err = svc.Record(ctx, "2", domain.PaymentCash, helpers.SampleCart(50, "Tijeras Escolares", "22.00", 20))
	require.NoError(t, err)

	item, err = store.Inventory().FindByProduct(ctx, 50, "2")
	require.NoError(t, err)
	assert.Equal(t, -6, item.Stock)
	assert.Equal(t, domain.StockDepleted, item.StockStatus())
}

func TestSaleService_List_Filters(t *testing.T) {
	store := helpers.SeededStore(t)
	svc := services.NewSaleService(store.Sales(), store.Inventory(), store.Branches(), helpers.TestLogger())
	ctx := context.Background()

	record := func(branchID string, day int) {
		svc.Now = helpers.FixedClock(2025, time.January, day, 12, 0)
		_, err := svc.Record(ctx, branchID, domain.PaymentCash, helpers.SampleCart(3, "Lápiz HB Mirado 2", "6.00", 1))
		require.NoError(t, err)
	}
	record("1", 1)
	record("2", 2)
	record("1", 3)

	tests := []struct {
		name     string
		branchID string
		from     string
		to       string
		want     int
	}{
		{name: "all_branches_all_dates", branchID: "all", want: 3},
		{name: "empty_branch_means_all", branchID: "", want: 3},
		{name: "branch_only", branchID: "1", want: 2},
		{name: "from_bound_inclusive", branchID: "all", from: "2025-01-02", want: 2},
		{name: "to_bound_inclusive", branchID: "all", to: "2025-01-02", want: 2},
		{name: "closed_range", branchID: "1", from: "2025-01-02", to: "2025-01-03", want: 1},
		{name: "empty_window", branchID: "all", from: "2025-02-01", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sales, err := svc.List(ctx, tt.branchID, tt.from, tt.to)
			require.NoError(t, err)
			assert.Len(t, sales, tt.want)
		})
	}
}

func TestSaleService_List_MostRecentFirst(t *testing.T) {
	store := helpers.SeededStore(t)
	svc := services.NewSaleService(store.Sales(), store.Inventory(), store.Branches(), helpers.TestLogger())
	ctx := context.Background()

	for day := 1; day <= 3; day++ {
		svc.Now = helpers.FixedClock(2025, time.January, day, 12, 0)
		_, err := svc.Record(ctx, "1", domain.PaymentCash, helpers.SampleCart(3, "Lápiz HB Mirado 2", "6.00", 1))
		require.NoError(t, err)
	}

	sales, err := svc.List(ctx, "all", "", "")
	require.NoError(t, err)
	require.Len(t, sales, 3)
	assert.Equal(t, "TKT-00003", sales[0].ID)
	assert.Equal(t, "2025-01-03", sales[0].Date)
	assert.Equal(t, "TKT-00001", sales[2].ID)
}

// brokenInventory wraps a real inventory view but fails every stock
// adjustment.
type brokenInventory struct {
	ports.InventoryRepository
}

func (brokenInventory) AdjustStock(context.Context, int64, string, int) (int, error) {
	return 0, errors.New("inventory backend unavailable")
}

func TestSaleService_Record_StockFailureLeavesLedgerEmpty(t *testing.T) {
	store := helpers.SeededStore(t)
	svc := services.NewSaleService(store.Sales(), brokenInventory{store.Inventory()}, store.Branches(), helpers.TestLogger())
	ctx := context.Background()

	_, err := svc.Record(ctx, "1", domain.PaymentCash, helpers.SampleCart(3, "Lápiz HB Mirado 2", "6.00", 1))
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to decrement stock")

	count, err := store.Sales().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "no ticket committed when stock reconciliation fails")
}
