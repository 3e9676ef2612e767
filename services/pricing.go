package services

import (
	"fmt"

	"salonbiz-backend/apperr"
	"salonbiz-backend/models"

	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the number of decimal places money is kept at.
const CurrencyPlaces = 2

// MaxAmount is the exclusive upper bound of every stored money value. Money
// columns are decimal(10,2).
var MaxAmount = decimal.New(1, 8)

var amountTooLarge = fmt.Sprintf("must be less than %s", MaxAmount.String())

// ValidatePrice checks a money input before it is stored.
func ValidatePrice(field string, price decimal.Decimal) error {
	switch {
	case price.IsNegative():
		return apperr.FieldValidation(field, "must not be negative")
	case !price.Equal(price.Truncate(CurrencyPlaces)):
		return apperr.FieldValidation(field, fmt.Sprintf("must have at most %d decimal places", CurrencyPlaces))
	case price.GreaterThanOrEqual(MaxAmount):
		return apperr.FieldValidation(field, amountTooLarge)
	}
	return nil
}

// ComputeLineTotal returns quantity * unitPrice at currency precision.
func ComputeLineTotal(quantity int, unitPrice decimal.Decimal) (decimal.Decimal, error) {
	if quantity < 1 {
		return decimal.Zero, apperr.FieldValidation("quantity", "must be at least 1")
	}
	if err := ValidatePrice("unit_price", unitPrice); err != nil {
		return decimal.Zero, err
	}
	total := unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(CurrencyPlaces)
	if total.GreaterThanOrEqual(MaxAmount) {
		return decimal.Zero, apperr.FieldValidation("total_price", amountTooLarge)
	}
	return total, nil
}

// SumLineTotals re-derives each line's total from quantity and unit price and
// returns their sum. Stored TotalPrice values are ignored.
func SumLineTotals(lines []models.OrderItemLine) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range lines {
		lt, err := ComputeLineTotal(line.Quantity, line.UnitPrice)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(lt)
	}
	if total.GreaterThanOrEqual(MaxAmount) {
		return decimal.Zero, apperr.FieldValidation("total", amountTooLarge)
	}
	return total.Round(CurrencyPlaces), nil
}
