package services

import (
	"context"
	"errors"
	"fmt"

	"salonbiz-backend/apperr"
	"salonbiz-backend/config"
	"salonbiz-backend/models"
	"salonbiz-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderService owns the order aggregate. Every write that touches lines ends
// with recomputeTotal inside the same transaction.
type OrderService struct {
	db      *gorm.DB
	logger  *zap.Logger
	metrics *config.Metrics
}

func NewOrderService(db *gorm.DB, logger *zap.Logger, metrics *config.Metrics) *OrderService {
	return &OrderService{db: db, logger: logger, metrics: metrics}
}

// LineInput is one requested line. A nil UnitPrice takes the catalog price.
type LineInput struct {
	OrderItemID uuid.UUID
	Quantity    int
	UnitPrice   *decimal.Decimal
}

type CreateOrderInput struct {
	CustomerID    uuid.UUID
	OrderTypeID   uuid.UUID
	PaymentTypeID uuid.UUID
	AppointmentID *uuid.UUID
	Items         []LineInput
}

// UpdateOrderInput patches the order header. Nil fields are left alone;
// Appointment distinguishes "absent" from an explicit null.
type UpdateOrderInput struct {
	CustomerID    *uuid.UUID
	OrderTypeID   *uuid.UUID
	PaymentTypeID *uuid.UUID
	Appointment   utils.Optional[uuid.UUID]
}

// CreateWithItems persists an order and all its lines in one transaction.
func (s *OrderService) CreateWithItems(ctx context.Context, in CreateOrderInput) (order *models.Order, err error) {
	ctx, span := startSpan(ctx, "OrderService.CreateWithItems", attribute.Int("items", len(in.Items)))
	defer func() {
		s.metrics.IncrOrderWrite("create", err)
		endSpan(span, err)
	}()

	if err := validateLineInputs(in.Items); err != nil {
		return nil, err
	}

	orderID := uuid.New()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkHeaderRefs(tx, &in.CustomerID, &in.OrderTypeID, &in.PaymentTypeID, in.AppointmentID); err != nil {
			return err
		}

		catalog, err := loadCatalog(tx, in.Items)
		if err != nil {
			return err
		}

		lines := make([]models.OrderItemLine, 0, len(in.Items))
		for i, item := range in.Items {
			price := catalog[item.OrderItemID].UnitPrice
			if item.UnitPrice != nil {
				price = *item.UnitPrice
			}
			lineTotal, err := ComputeLineTotal(item.Quantity, price)
			if err != nil {
				return lineFieldErr(i, err)
			}
			lines = append(lines, models.OrderItemLine{
				OrderID:     orderID,
				OrderItemID: item.OrderItemID,
				Quantity:    item.Quantity,
				UnitPrice:   price,
				TotalPrice:  lineTotal,
			})
		}

		total, err := SumLineTotals(lines)
		if err != nil {
			return err
		}

		record := models.Order{
			Base:          models.Base{ID: orderID},
			CustomerID:    in.CustomerID,
			OrderTypeID:   in.OrderTypeID,
			PaymentTypeID: in.PaymentTypeID,
			AppointmentID: in.AppointmentID,
			Total:         total,
		}
		if err := tx.Omit(clause.Associations).Create(&record).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
			return fmt.Errorf("create order lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", orderID.String()),
		zap.Int("lines", len(in.Items)),
	)
	return s.Get(ctx, orderID)
}

// Get loads an order with its lines and every label the wire form needs.
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := withOrderDetail(s.db.WithContext(ctx)).First(&order, "orders.id = ?", id).Error
	if err != nil {
		return nil, lookupErr(err, "order", id)
	}
	return &order, nil
}

// Update changes header references. Totals are never taken from input.
func (s *OrderService) Update(ctx context.Context, id uuid.UUID, in UpdateOrderInput) (err error) {
	ctx, span := startSpan(ctx, "OrderService.Update", attribute.String("order_id", id.String()))
	defer func() {
		s.metrics.IncrOrderWrite("update", err)
		endSpan(span, err)
	}()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, id); err != nil {
			return err
		}

		var appointmentID *uuid.UUID
		if in.Appointment.Set {
			appointmentID = in.Appointment.Ptr()
		}
		if err := checkHeaderRefs(tx, in.CustomerID, in.OrderTypeID, in.PaymentTypeID, appointmentID); err != nil {
			return err
		}

		updates := map[string]any{}
		if in.CustomerID != nil {
			updates["customer_id"] = *in.CustomerID
		}
		if in.OrderTypeID != nil {
			updates["order_type_id"] = *in.OrderTypeID
		}
		if in.PaymentTypeID != nil {
			updates["payment_type_id"] = *in.PaymentTypeID
		}
		if in.Appointment.Set {
			updates["appointment_id"] = appointmentID
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("update order %s: %w", id, err)
		}
		return nil
	})
}

// Delete removes an order and its lines atomically.
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := startSpan(ctx, "OrderService.Delete", attribute.String("order_id", id.String()))
	defer func() {
		s.metrics.IncrOrderWrite("delete", err)
		endSpan(span, err)
	}()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, id); err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItemLine{}).Error; err != nil {
			return fmt.Errorf("delete lines of order %s: %w", id, err)
		}
		if err := tx.Delete(&models.Order{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete order %s: %w", id, err)
		}
		return nil
	})
}

// RecomputeTotal re-derives the stored total from the current lines.
func (s *OrderService) RecomputeTotal(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	ctx, span := startSpan(ctx, "OrderService.RecomputeTotal", attribute.String("order_id", id.String()))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.recomputeTotal(tx, id)
	})
	s.metrics.IncrOrderWrite("recompute", err)
	endSpan(span, err)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// recomputeTotal is the only place an order total is written after creation.
// It must run inside the transaction of the mutation that triggered it.
func (s *OrderService) recomputeTotal(tx *gorm.DB, orderID uuid.UUID) error {
	if err := lockOrder(tx, orderID); err != nil {
		return err
	}

	var lines []models.OrderItemLine
	if err := tx.Where("order_id = ?", orderID).Find(&lines).Error; err != nil {
		return fmt.Errorf("load lines of order %s: %w", orderID, err)
	}
	total, err := SumLineTotals(lines)
	if err != nil {
		return err
	}
	if total.IsNegative() {
		return apperr.Validation("order %s total would be negative", orderID)
	}

	if err := tx.Model(&models.Order{}).Where("id = ?", orderID).Update("total", total).Error; err != nil {
		return fmt.Errorf("update total of order %s: %w", orderID, err)
	}
	s.metrics.IncrRecompute()
	return nil
}

// lockOrder takes a row lock on the order, failing with NotFound when absent.
func lockOrder(tx *gorm.DB, id uuid.UUID) error {
	var order models.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&order, "id = ?", id).Error
	if err != nil {
		return lookupErr(err, "order", id)
	}
	return nil
}

func withOrderDetail(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Customer").
		Preload("OrderType").
		Preload("PaymentType").
		Preload("Appointment").
		Preload("Appointment.AppointmentType").
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Lines.OrderItem")
}

func validateLineInputs(items []LineInput) error {
	if len(items) == 0 {
		return apperr.FieldValidation("order_items", "at least one item is required")
	}
	fields := map[string]string{}
	for i, item := range items {
		if item.OrderItemID == uuid.Nil {
			fields[fmt.Sprintf("order_items[%d].order_item", i)] = "is required"
		}
		if item.Quantity < 1 {
			fields[fmt.Sprintf("order_items[%d].quantity", i)] = "must be at least 1"
		}
		if item.UnitPrice != nil {
			var verr *apperr.ValidationError
			if errors.As(ValidatePrice("unit_price", *item.UnitPrice), &verr) {
				fields[fmt.Sprintf("order_items[%d].unit_price", i)] = verr.Fields["unit_price"]
			}
		}
	}
	if len(fields) > 0 {
		return &apperr.ValidationError{Message: "invalid order items", Fields: fields}
	}
	return nil
}

// lineFieldErr re-keys a line-level ValidationError under order_items[i].
func lineFieldErr(i int, err error) error {
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) == 0 {
		return err
	}
	fields := make(map[string]string, len(verr.Fields))
	for k, v := range verr.Fields {
		fields[fmt.Sprintf("order_items[%d].%s", i, k)] = v
	}
	return &apperr.ValidationError{Message: "invalid order items", Fields: fields}
}

// checkHeaderRefs verifies each non-nil reference exists.
func checkHeaderRefs(tx *gorm.DB, customerID, orderTypeID, paymentTypeID, appointmentID *uuid.UUID) error {
	refs := []struct {
		id       *uuid.UUID
		model    any
		field    string
		resource string
	}{
		{customerID, &models.Customer{}, "customer", "customer"},
		{orderTypeID, &models.OrderType{}, "order_type", "order type"},
		{paymentTypeID, &models.PaymentType{}, "payment_type", "payment type"},
		{appointmentID, &models.Appointment{}, "appointment", "appointment"},
	}
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		if err := requireRef(tx, ref.model, ref.field, ref.resource, *ref.id); err != nil {
			return err
		}
	}
	return nil
}

// loadCatalog fetches every catalog item the lines reference.
func loadCatalog(tx *gorm.DB, items []LineInput) (map[uuid.UUID]models.OrderItem, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.OrderItemID)
	}

	var found []models.OrderItem
	if err := tx.Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("load catalog items: %w", err)
	}
	catalog := make(map[uuid.UUID]models.OrderItem, len(found))
	for _, item := range found {
		catalog[item.ID] = item
	}

	for i, item := range items {
		if _, ok := catalog[item.OrderItemID]; !ok {
			return nil, apperr.FieldValidation(
				fmt.Sprintf("order_items[%d].order_item", i),
				fmt.Sprintf("order item %s does not exist", item.OrderItemID),
			)
		}
	}
	return catalog, nil
}
