package services

import (
	"context"
	"errors"
	"fmt"

	"salonbiz-backend/apperr"
	"salonbiz-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LineWriteInput creates or patches a single order line. For a create,
// OrderID, OrderItemID and Quantity are required.
type LineWriteInput struct {
	OrderID     *uuid.UUID
	OrderItemID *uuid.UUID
	Quantity    *int
	UnitPrice   *decimal.Decimal
}

type LineFilter struct {
	OrderID     *uuid.UUID
	OrderItemID *uuid.UUID
	Quantity    *int
	Search      string
	Ordering    string
}

var lineOrdering = map[string]string{
	"created_at":  "order_item_lines.created_at",
	"updated_at":  "order_item_lines.updated_at",
	"quantity":    "order_item_lines.quantity",
	"unit_price":  "order_item_lines.unit_price",
	"total_price": "order_item_lines.total_price",
}

// AddLine appends a line to an existing order and recomputes its total.
func (s *OrderService) AddLine(ctx context.Context, in LineWriteInput) (line *models.OrderItemLine, err error) {
	ctx, span := startSpan(ctx, "OrderService.AddLine")
	defer func() {
		s.metrics.IncrOrderWrite("add_line", err)
		endSpan(span, err)
	}()

	fields := map[string]string{}
	if in.OrderID == nil {
		fields["order"] = "is required"
	}
	if in.OrderItemID == nil {
		fields["order_item"] = "is required"
	}
	if in.Quantity == nil {
		fields["quantity"] = "is required"
	}
	if len(fields) > 0 {
		return nil, &apperr.ValidationError{Message: "invalid order line", Fields: fields}
	}

	record := models.OrderItemLine{
		OrderID:     *in.OrderID,
		OrderItemID: *in.OrderItemID,
		Quantity:    *in.Quantity,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRef(tx, &models.Order{}, "order", "order", record.OrderID); err != nil {
			return err
		}
		item, err := loadOrderItem(tx, record.OrderItemID)
		if err != nil {
			return err
		}
		record.UnitPrice = item.UnitPrice
		if in.UnitPrice != nil {
			record.UnitPrice = *in.UnitPrice
		}
		if record.TotalPrice, err = ComputeLineTotal(record.Quantity, record.UnitPrice); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&record).Error; err != nil {
			return fmt.Errorf("create order line: %w", err)
		}
		return s.recomputeTotal(tx, record.OrderID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetLine(ctx, record.ID)
}

// UpdateLine patches a line. A line moved to another order recomputes both
// orders; the source order must keep at least one line.
func (s *OrderService) UpdateLine(ctx context.Context, id uuid.UUID, in LineWriteInput) (line *models.OrderItemLine, err error) {
	ctx, span := startSpan(ctx, "OrderService.UpdateLine", attribute.String("line_id", id.String()))
	defer func() {
		s.metrics.IncrOrderWrite("update_line", err)
		endSpan(span, err)
	}()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.OrderItemLine
		if err := tx.First(&record, "id = ?", id).Error; err != nil {
			return lookupErr(err, "order line", id)
		}
		previousOrder := record.OrderID

		if in.OrderID != nil && *in.OrderID != record.OrderID {
			if err := requireRef(tx, &models.Order{}, "order", "order", *in.OrderID); err != nil {
				return err
			}
			if err := ensureNotLastLine(tx, record.OrderID); err != nil {
				return err
			}
			record.OrderID = *in.OrderID
		}
		if in.OrderItemID != nil && *in.OrderItemID != record.OrderItemID {
			item, err := loadOrderItem(tx, *in.OrderItemID)
			if err != nil {
				return err
			}
			record.OrderItemID = item.ID
			record.UnitPrice = item.UnitPrice
		}
		if in.Quantity != nil {
			record.Quantity = *in.Quantity
		}
		if in.UnitPrice != nil {
			record.UnitPrice = *in.UnitPrice
		}

		var err error
		if record.TotalPrice, err = ComputeLineTotal(record.Quantity, record.UnitPrice); err != nil {
			return err
		}

		if err := tx.Model(&models.OrderItemLine{}).Where("id = ?", id).Updates(map[string]any{
			"order_id":      record.OrderID,
			"order_item_id": record.OrderItemID,
			"quantity":      record.Quantity,
			"unit_price":    record.UnitPrice,
			"total_price":   record.TotalPrice,
		}).Error; err != nil {
			return fmt.Errorf("update order line %s: %w", id, err)
		}

		if previousOrder != record.OrderID {
			if err := s.recomputeTotal(tx, previousOrder); err != nil {
				return err
			}
		}
		return s.recomputeTotal(tx, record.OrderID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetLine(ctx, id)
}

// RemoveLine deletes a line and recomputes its order. An order's last line
// cannot be removed; delete the order instead.
func (s *OrderService) RemoveLine(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := startSpan(ctx, "OrderService.RemoveLine", attribute.String("line_id", id.String()))
	defer func() {
		s.metrics.IncrOrderWrite("remove_line", err)
		endSpan(span, err)
	}()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.OrderItemLine
		if err := tx.First(&record, "id = ?", id).Error; err != nil {
			return lookupErr(err, "order line", id)
		}
		if err := lockOrder(tx, record.OrderID); err != nil {
			return err
		}
		if err := ensureNotLastLine(tx, record.OrderID); err != nil {
			return err
		}
		if err := tx.Delete(&models.OrderItemLine{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete order line %s: %w", id, err)
		}
		return s.recomputeTotal(tx, record.OrderID)
	})
}

func (s *OrderService) GetLine(ctx context.Context, id uuid.UUID) (*models.OrderItemLine, error) {
	var line models.OrderItemLine
	if err := s.db.WithContext(ctx).Preload("OrderItem").First(&line, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "order line", id)
	}
	return &line, nil
}

func (s *OrderService) ListLines(ctx context.Context, f LineFilter, page, pageSize int) ([]models.OrderItemLine, int64, error) {
	order, err := parseOrdering(f.Ordering, lineOrdering, "-created_at")
	if err != nil {
		return nil, 0, err
	}

	q := s.db.WithContext(ctx).Model(&models.OrderItemLine{})
	if f.OrderID != nil {
		q = q.Where("order_item_lines.order_id = ?", *f.OrderID)
	}
	if f.OrderItemID != nil {
		q = q.Where("order_item_lines.order_item_id = ?", *f.OrderItemID)
	}
	if f.Quantity != nil {
		q = q.Where("order_item_lines.quantity = ?", *f.Quantity)
	}
	if f.Search != "" {
		q = q.Joins("JOIN order_items ON order_items.id = order_item_lines.order_item_id").
			Where("LOWER(order_items.description) LIKE ?", likePattern(f.Search))
	}
	q = q.Session(&gorm.Session{})

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("count order lines: %w", err)
	}
	var lines []models.OrderItemLine
	if err := q.Preload("OrderItem").Order(order).Scopes(paginate(page, pageSize)).Find(&lines).Error; err != nil {
		return nil, 0, fmt.Errorf("list order lines: %w", err)
	}
	return lines, count, nil
}

func loadOrderItem(tx *gorm.DB, id uuid.UUID) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := tx.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.FieldValidation("order_item", fmt.Sprintf("order item %s does not exist", id))
		}
		return nil, fmt.Errorf("load order item %s: %w", id, err)
	}
	return &item, nil
}

func ensureNotLastLine(tx *gorm.DB, orderID uuid.UUID) error {
	n, err := countRefs(tx, &models.OrderItemLine{}, "order_id", orderID)
	if err != nil {
		return fmt.Errorf("count lines of order %s: %w", orderID, err)
	}
	if n <= 1 {
		return apperr.Validation("order %s must keep at least one line", orderID)
	}
	return nil
}
