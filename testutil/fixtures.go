package testutil

import (
	"testing"
	"time"

	"salonbiz-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Fixtures is a minimal set of reference rows most tests need.
type Fixtures struct {
	Customer        models.Customer
	AppointmentType models.AppointmentType
	Income          models.OrderType
	Expense         models.OrderType
	Cash            models.PaymentType
	Shampoo         models.OrderItem
	Haircut         models.OrderItem
}

// Seed inserts one customer, one appointment type, both order types, a
// payment type and two catalog items.
func Seed(t testing.TB, db *gorm.DB) *Fixtures {
	t.Helper()
	f := &Fixtures{
		Customer: models.Customer{
			FirstName:   "Ana",
			LastName:    "Souza",
			Email:       "ana@example.com",
			Phone:       "+5511999990000",
			DateOfBirth: time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
			Gender:      models.GenderFemale,
			IsActive:    true,
			AddressCity: "Sao Paulo",
			Tags:        []string{"VIP"},
		},
		AppointmentType: models.AppointmentType{Description: "Haircut"},
		Income:          models.OrderType{Type: models.OrderTypeIncome},
		Expense:         models.OrderType{Type: models.OrderTypeExpense},
		Cash:            models.PaymentType{Type: "Cash"},
		Shampoo: models.OrderItem{
			Description:       "Shampoo",
			InventoryQuantity: 10,
			UnitPrice:         decimal.RequireFromString("9.50"),
		},
		Haircut: models.OrderItem{
			Description:       "Haircut",
			InventoryQuantity: 2,
			UnitPrice:         decimal.RequireFromString("40.00"),
		},
	}
	for _, row := range []any{&f.Customer, &f.AppointmentType, &f.Income, &f.Expense, &f.Cash, &f.Shampoo, &f.Haircut} {
		require.NoError(t, db.Create(row).Error)
	}
	return f
}
