package services

import (
	"context"
	"fmt"
	"strings"

	"salonbiz-backend/apperr"
	"salonbiz-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogService manages order items, the products and services that order
// lines sell.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

type OrderItemInput struct {
	Description       *string
	InventoryQuantity *int
	UnitPrice         *decimal.Decimal
}

type OrderItemFilter struct {
	Search   string
	Ordering string
}

var orderItemOrdering = map[string]string{
	"description":        "description",
	"unit_price":         "unit_price",
	"inventory_quantity": "inventory_quantity",
	"created_at":         "created_at",
}

func (s *CatalogService) List(ctx context.Context, f OrderItemFilter, page, pageSize int) ([]models.OrderItem, int64, error) {
	order, err := parseOrdering(f.Ordering, orderItemOrdering, "description")
	if err != nil {
		return nil, 0, err
	}

	q := s.db.WithContext(ctx).Model(&models.OrderItem{})
	if f.Search != "" {
		q = q.Where("LOWER(description) LIKE ?", likePattern(f.Search))
	}
	q = q.Session(&gorm.Session{})

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("count order items: %w", err)
	}
	var items []models.OrderItem
	if err := q.Order(order).Scopes(paginate(page, pageSize)).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("list order items: %w", err)
	}
	return items, count, nil
}

// LowStock lists items whose inventory is below models.LowStockThreshold.
func (s *CatalogService) LowStock(ctx context.Context) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.WithContext(ctx).
		Where("inventory_quantity < ?", models.LowStockThreshold).
		Order("inventory_quantity ASC, description ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list low stock items: %w", err)
	}
	return items, nil
}

func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "order item", id)
	}
	return &item, nil
}

func (s *CatalogService) Create(ctx context.Context, in OrderItemInput) (*models.OrderItem, error) {
	fields := map[string]string{}
	if in.Description == nil || strings.TrimSpace(*in.Description) == "" {
		fields["description"] = "is required"
	}
	if in.UnitPrice == nil {
		fields["unit_price"] = "is required"
	}
	if len(fields) > 0 {
		return nil, &apperr.ValidationError{Message: "invalid order item", Fields: fields}
	}

	var item models.OrderItem
	if err := applyOrderItemInput(&item, in); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("create order item: %w", err)
	}
	return &item, nil
}

// Update patches a catalog entry. Lines already sold keep their captured
// unit price.
func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, in OrderItemInput) (*models.OrderItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyOrderItemInput(item, in); err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(item).Updates(map[string]any{
		"description":        item.Description,
		"inventory_quantity": item.InventoryQuantity,
		"unit_price":         item.UnitPrice,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("update order item %s: %w", id, err)
	}
	return s.Get(ctx, id)
}

// Delete removes a catalog entry no order line refers to.
func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.OrderItem
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			return lookupErr(err, "order item", id)
		}
		n, err := countRefs(tx, &models.OrderItemLine{}, "order_item_id", id)
		if err != nil {
			return fmt.Errorf("count lines using order item %s: %w", id, err)
		}
		if n > 0 {
			return apperr.Conflict("order item %s is used by %d order lines", id, n)
		}
		return tx.Delete(&item).Error
	})
}

func applyOrderItemInput(item *models.OrderItem, in OrderItemInput) error {
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if d == "" {
			return apperr.FieldValidation("description", "must not be empty")
		}
		item.Description = d
	}
	if in.InventoryQuantity != nil {
		if *in.InventoryQuantity < 0 {
			return apperr.FieldValidation("inventory_quantity", "must not be negative")
		}
		item.InventoryQuantity = *in.InventoryQuantity
	}
	if in.UnitPrice != nil {
		if err := ValidatePrice("unit_price", *in.UnitPrice); err != nil {
			return err
		}
		item.UnitPrice = *in.UnitPrice
	}
	return nil
}
