package services

import (
	"context"
	"fmt"
	"time"

	"salonbiz-backend/models"
	"salonbiz-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportService answers read-only questions about orders.
type ReportService struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func NewReportService(db *gorm.DB, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{db: db, loc: loc, now: time.Now}
}

type OrderFilter struct {
	OrderTypeID   *uuid.UUID
	PaymentTypeID *uuid.UUID
	CustomerID    *uuid.UUID
	AppointmentID *uuid.UUID
	OrderTypeName string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Search        string
	Ordering      string
}

var orderOrdering = map[string]string{
	"created_at": "orders.created_at",
	"updated_at": "orders.updated_at",
	"total":      "orders.total",
}

func (s *ReportService) filtered(ctx context.Context, f OrderFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Order{})
	if f.OrderTypeID != nil {
		q = q.Where("orders.order_type_id = ?", *f.OrderTypeID)
	}
	if f.PaymentTypeID != nil {
		q = q.Where("orders.payment_type_id = ?", *f.PaymentTypeID)
	}
	if f.CustomerID != nil {
		q = q.Where("orders.customer_id = ?", *f.CustomerID)
	}
	if f.AppointmentID != nil {
		q = q.Where("orders.appointment_id = ?", *f.AppointmentID)
	}
	if f.OrderTypeName != "" {
		q = q.Where("orders.order_type_id IN (?)",
			s.db.WithContext(ctx).Model(&models.OrderType{}).Select("id").Where("type = ?", f.OrderTypeName))
	}
	if f.CreatedAfter != nil {
		q = q.Where("orders.created_at >= ?", f.CreatedAfter.UTC())
	}
	if f.CreatedBefore != nil {
		q = q.Where("orders.created_at < ?", f.CreatedBefore.UTC())
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Joins("JOIN customers ON customers.id = orders.customer_id").
			Where("LOWER(customers.first_name) LIKE ? OR LOWER(customers.last_name) LIKE ? OR LOWER(customers.email) LIKE ?", p, p, p)
	}
	return q.Session(&gorm.Session{})
}

// ListOrders returns one page of orders matching f with their details.
func (s *ReportService) ListOrders(ctx context.Context, f OrderFilter, page, pageSize int) ([]models.Order, int64, error) {
	order, err := parseOrdering(f.Ordering, orderOrdering, "-created_at")
	if err != nil {
		return nil, 0, err
	}

	q := s.filtered(ctx, f)
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	var orders []models.Order
	if err := withOrderDetail(q).Order(order).Scopes(paginate(page, pageSize)).Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, count, nil
}

// FindOrders returns every order matching f, newest first.
func (s *ReportService) FindOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	if err := withOrderDetail(s.filtered(ctx, f)).Order("orders.created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	return orders, nil
}

// Today lists orders created on the current calendar day.
func (s *ReportService) Today(ctx context.Context) ([]models.Order, error) {
	start, end := utils.DayWindow(s.now(), s.loc)
	return s.FindOrders(ctx, OrderFilter{CreatedAfter: &start, CreatedBefore: &end})
}

// ThisMonth lists orders created in the current calendar month.
func (s *ReportService) ThisMonth(ctx context.Context) ([]models.Order, error) {
	start, end := utils.MonthWindow(s.now(), s.loc)
	return s.FindOrders(ctx, OrderFilter{CreatedAfter: &start, CreatedBefore: &end})
}

// ByOrderType lists orders whose type label is name, e.g. Income.
func (s *ReportService) ByOrderType(ctx context.Context, name string) ([]models.Order, error) {
	return s.FindOrders(ctx, OrderFilter{OrderTypeName: name})
}

func (s *ReportService) ByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	return s.FindOrders(ctx, OrderFilter{CustomerID: &customerID})
}

type MonthStatistics struct {
	Orders    int64
	Income    decimal.Decimal
	Expense   decimal.Decimal
	NetProfit decimal.Decimal
}

type OrderTypeStatistics struct {
	OrderType   string
	Orders      int64
	Total       decimal.Decimal
	MonthOrders int64
	MonthTotal  decimal.Decimal
}

type Statistics struct {
	TotalOrders   int64
	IncomeOrders  int64
	ExpenseOrders int64
	TotalIncome   decimal.Decimal
	TotalExpense  decimal.Decimal
	NetProfit     decimal.Decimal
	ThisMonth     MonthStatistics
	ByOrderType   []OrderTypeStatistics
}

// Statistics aggregates order counts and totals per order type, all-time and
// for the current month, in a single query so both views come from the same
// snapshot.
func (s *ReportService) Statistics(ctx context.Context) (*Statistics, error) {
	monthStart, monthEnd := utils.MonthWindow(s.now(), s.loc)

	var rows []OrderTypeStatistics
	err := s.db.WithContext(ctx).
		Table("orders").
		Select(`order_types.type AS order_type,
			COUNT(*) AS orders,
			COALESCE(SUM(orders.total), 0) AS total,
			COALESCE(SUM(CASE WHEN orders.created_at >= ? AND orders.created_at < ? THEN 1 ELSE 0 END), 0) AS month_orders,
			COALESCE(SUM(CASE WHEN orders.created_at >= ? AND orders.created_at < ? THEN orders.total ELSE 0 END), 0) AS month_total`,
			monthStart, monthEnd, monthStart, monthEnd).
		Joins("JOIN order_types ON order_types.id = orders.order_type_id").
		Group("order_types.type").
		Order("order_types.type ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate order statistics: %w", err)
	}

	stats := &Statistics{ByOrderType: rows}
	for i := range rows {
		row := &rows[i]
		row.Total = row.Total.Round(CurrencyPlaces)
		row.MonthTotal = row.MonthTotal.Round(CurrencyPlaces)

		stats.TotalOrders += row.Orders
		stats.ThisMonth.Orders += row.MonthOrders
		switch row.OrderType {
		case models.OrderTypeIncome:
			stats.IncomeOrders += row.Orders
			stats.TotalIncome = stats.TotalIncome.Add(row.Total)
			stats.ThisMonth.Income = stats.ThisMonth.Income.Add(row.MonthTotal)
		case models.OrderTypeExpense:
			stats.ExpenseOrders += row.Orders
			stats.TotalExpense = stats.TotalExpense.Add(row.Total)
			stats.ThisMonth.Expense = stats.ThisMonth.Expense.Add(row.MonthTotal)
		}
	}
	stats.NetProfit = stats.TotalIncome.Sub(stats.TotalExpense)
	stats.ThisMonth.NetProfit = stats.ThisMonth.Income.Sub(stats.ThisMonth.Expense)
	if stats.ByOrderType == nil {
		stats.ByOrderType = []OrderTypeStatistics{}
	}
	return stats, nil
}
