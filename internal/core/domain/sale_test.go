package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davalosm/papeleria-pos/internal/core/domain"
)

func TestPaymentMethod_Valid(t *testing.T) {
	tests := []struct {
		name   string
		method domain.PaymentMethod
		want   bool
	}{
		{name: "cash", method: domain.PaymentCash, want: true},
		{name: "card", method: domain.PaymentCard, want: true},
		{name: "transfer", method: domain.PaymentTransfer, want: true},
		{name: "empty", method: "", want: false},
		{name: "unknown", method: "Cheque", want: false},
		{name: "wrong_case", method: "efectivo", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.method.Valid())
		})
	}
}

func TestCartLine_Validate(t *testing.T) {
	tests := []struct {
		name      string
		line      domain.CartLine
		wantError bool
		errorMsg  string
	}{
		{
			name: "valid_line",
			line: domain.CartLine{
				ProductID: 1,
				Name:      "Pluma Negra",
				Price:     decimal.NewFromFloat(12.5),
				Quantity:  2,
			},
			wantError: false,
		},
		{
			name:      "missing_name",
			line:      domain.CartLine{ProductID: 1, Quantity: 1},
			wantError: true,
			errorMsg:  "line product name is required",
		},
		{
			name:      "zero_quantity",
			line:      domain.CartLine{Name: "Pluma Negra", Quantity: 0},
			wantError: true,
			errorMsg:  "line quantity must be at least 1",
		},
		{
			name: "negative_price",
			line: domain.CartLine{
				Name:     "Pluma Negra",
				Price:    decimal.NewFromFloat(-1),
				Quantity: 1,
			},
			wantError: true,
			errorMsg:  "line price cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.line.Validate()
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCartLine_Subtotal(t *testing.T) {
	line := domain.CartLine{
		Price:    decimal.RequireFromString("35.50"),
		Quantity: 3,
	}
	assert.True(t, line.Subtotal().Equal(decimal.RequireFromString("106.50")))
}

func TestSale_Stamp(t *testing.T) {
	sale := &domain.Sale{}
	sale.Stamp(time.Date(2025, time.January, 15, 9, 5, 42, 0, time.Local))

	assert.Equal(t, "2025-01-15", sale.Date)
	assert.Equal(t, "09:05", sale.Time)
}

func TestSale_ComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		lines        []domain.CartLine
		wantTotal    string
		wantArticles int
	}{
		{
			name:         "empty_lines",
			lines:        nil,
			wantTotal:    "0",
			wantArticles: 0,
		},
		{
			name: "single_line",
			lines: []domain.CartLine{
				{Price: decimal.RequireFromString("6.00"), Quantity: 3},
			},
			wantTotal:    "18.00",
			wantArticles: 3,
		},
		{
			name: "multiple_lines",
			lines: []domain.CartLine{
				{Price: decimal.RequireFromString("85.00"), Quantity: 2},
				{Price: decimal.RequireFromString("35.50"), Quantity: 1},
			},
			wantTotal:    "205.50",
			wantArticles: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sale := &domain.Sale{Lines: tt.lines}
			sale.ComputeTotals()

			assert.True(t, sale.Total.Equal(decimal.RequireFromString(tt.wantTotal)),
				"total %s, want %s", sale.Total, tt.wantTotal)
			assert.Equal(t, tt.wantArticles, sale.TotalArticles)
		})
	}
}
