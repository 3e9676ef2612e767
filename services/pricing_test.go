package services

import (
	"errors"
	"testing"

	"salonbiz-backend/apperr"
	"salonbiz-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLineTotal(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		price    string
		want     string
	}{
		{"simple", 2, "9.50", "19.00"},
		{"largest total", 1, "99999999.99", "99999999.99"},
		{"free item", 4, "0", "0.00"},
		{"many cents", 7, "0.10", "0.70"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeLineTotal(tt.quantity, decimal.RequireFromString(tt.price))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestComputeLineTotalRejectsInvalid(t *testing.T) {
	_, err := ComputeLineTotal(0, decimal.NewFromInt(5))
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "quantity")

	_, err = ComputeLineTotal(1, decimal.NewFromInt(-1))
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "unit_price")
}

func TestComputeLineTotalRejectsOutOfRangeMoney(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		price    string
		field    string
	}{
		{"sub-cent price", 2, "0.125", "unit_price"},
		{"price too large", 1, "100000000", "unit_price"},
		{"total too large", 2, "50000000.00", "total_price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeLineTotal(tt.quantity, decimal.RequireFromString(tt.price))
			var verr *apperr.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}

	// Trailing zeros beyond two places are still whole cents.
	got, err := ComputeLineTotal(3, decimal.RequireFromString("0.100"))
	require.NoError(t, err)
	assert.Equal(t, "0.30", got.StringFixed(2))
}

func TestSumLineTotalsRejectsOversizedTotal(t *testing.T) {
	lines := []models.OrderItemLine{
		{Quantity: 1, UnitPrice: decimal.RequireFromString("60000000.00")},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("40000000.00")},
	}
	_, err := SumLineTotals(lines)
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "total")
}

func TestSumLineTotalsIgnoresStoredTotals(t *testing.T) {
	lines := []models.OrderItemLine{
		{Quantity: 2, UnitPrice: decimal.RequireFromString("9.50"), TotalPrice: decimal.NewFromInt(999)},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("40.00")},
	}
	total, err := SumLineTotals(lines)
	require.NoError(t, err)
	assert.Equal(t, "59.00", total.StringFixed(2))

	empty, err := SumLineTotals(nil)
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
}
