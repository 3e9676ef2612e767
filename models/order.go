package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	OrderTypeIncome  = "Income"
	OrderTypeExpense = "Expense"
)

var (
	DefaultOrderTypes   = []string{OrderTypeIncome, OrderTypeExpense}
	DefaultPaymentTypes = []string{"Cash", "Credit Card", "Debit Card", "Exchange", "Bank Slip", "Pix"}
)

// LowStockThreshold is the inventory level below which a catalog item is
// reported as low on stock.
const LowStockThreshold = 5

type OrderType struct {
	Base
	Type string `gorm:"size:20;uniqueIndex;not null"`
}

type PaymentType struct {
	Base
	Type string `gorm:"size:20;uniqueIndex;not null"`
}

// OrderItem is a catalog entry that order lines sell.
type OrderItem struct {
	Base
	Description       string          `gorm:"size:255;not null"`
	InventoryQuantity int             `gorm:"not null;default:0"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

type Order struct {
	Base

	CustomerID    uuid.UUID       `gorm:"type:char(36);index;not null"`
	OrderTypeID   uuid.UUID       `gorm:"type:char(36);index;not null"`
	PaymentTypeID uuid.UUID       `gorm:"type:char(36);index;not null"`
	AppointmentID *uuid.UUID      `gorm:"type:char(36);index"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Customer    *Customer    `gorm:"foreignKey:CustomerID"`
	OrderType   *OrderType   `gorm:"foreignKey:OrderTypeID"`
	PaymentType *PaymentType `gorm:"foreignKey:PaymentTypeID"`
	Appointment *Appointment `gorm:"foreignKey:AppointmentID;constraint:OnDelete:SET NULL"`

	Lines []OrderItemLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItemLine is one catalog item sold within an order. UnitPrice is the
// price at the time of sale; TotalPrice is always Quantity * UnitPrice.
type OrderItemLine struct {
	Base

	OrderID     uuid.UUID       `gorm:"type:char(36);index;not null"`
	OrderItemID uuid.UUID       `gorm:"type:char(36);index;not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	OrderItem *OrderItem `gorm:"foreignKey:OrderItemID"`
}
