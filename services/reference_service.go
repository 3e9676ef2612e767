package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"salonbiz-backend/apperr"
	"salonbiz-backend/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// typeLabel is satisfied by the label-only reference tables.
type typeLabel interface {
	models.OrderType | models.PaymentType
}

// LabelStore manages one label-only reference table (order types or payment
// types): unique non-empty labels, and no deletes while orders point at a row.
type LabelStore[T typeLabel] struct {
	db        *gorm.DB
	resource  string
	refColumn string
	label     func(*T) *string
}

func NewOrderTypeStore(db *gorm.DB) *LabelStore[models.OrderType] {
	return &LabelStore[models.OrderType]{
		db:        db,
		resource:  "order type",
		refColumn: "order_type_id",
		label:     func(t *models.OrderType) *string { return &t.Type },
	}
}

func NewPaymentTypeStore(db *gorm.DB) *LabelStore[models.PaymentType] {
	return &LabelStore[models.PaymentType]{
		db:        db,
		resource:  "payment type",
		refColumn: "payment_type_id",
		label:     func(t *models.PaymentType) *string { return &t.Type },
	}
}

func (s *LabelStore[T]) List(ctx context.Context) ([]T, error) {
	var rows []T
	if err := s.db.WithContext(ctx).Order("type ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", s.resource, err)
	}
	return rows, nil
}

func (s *LabelStore[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	var row T
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, s.resource, id)
	}
	return &row, nil
}

// FindByLabel looks a row up by its label.
func (s *LabelStore[T]) FindByLabel(ctx context.Context, label string) (*T, error) {
	var row T
	err := s.db.WithContext(ctx).Where("type = ?", label).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Resource: s.resource, ID: label}
	}
	if err != nil {
		return nil, fmt.Errorf("load %s %q: %w", s.resource, label, err)
	}
	return &row, nil
}

func (s *LabelStore[T]) Create(ctx context.Context, label string) (*T, error) {
	label, err := s.checkLabel(ctx, uuid.Nil, label)
	if err != nil {
		return nil, err
	}
	var row T
	*s.label(&row) = label
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("create %s: %w", s.resource, err)
	}
	return &row, nil
}

func (s *LabelStore[T]) Update(ctx context.Context, id uuid.UUID, label string) (*T, error) {
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if label, err = s.checkLabel(ctx, id, label); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(row).Update("type", label).Error; err != nil {
		return nil, fmt.Errorf("update %s %s: %w", s.resource, id, err)
	}
	return s.Get(ctx, id)
}

// Delete removes an unreferenced row.
func (s *LabelStore[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row T
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			return lookupErr(err, s.resource, id)
		}
		n, err := countRefs(tx, &models.Order{}, s.refColumn, id)
		if err != nil {
			return fmt.Errorf("count orders using %s %s: %w", s.resource, id, err)
		}
		if n > 0 {
			return apperr.Conflict("%s %s is used by %d orders", s.resource, id, n)
		}
		return tx.Delete(&row).Error
	})
}

// Ensure creates each missing label and leaves existing ones alone.
func (s *LabelStore[T]) Ensure(ctx context.Context, labels []string) error {
	for _, label := range labels {
		var row T
		*s.label(&row) = label
		if err := s.db.WithContext(ctx).Where("type = ?", label).FirstOrCreate(&row).Error; err != nil {
			return fmt.Errorf("ensure %s %q: %w", s.resource, label, err)
		}
	}
	return nil
}

func (s *LabelStore[T]) checkLabel(ctx context.Context, self uuid.UUID, label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", apperr.FieldValidation("type", "must not be empty")
	}
	if len(label) > 20 {
		return "", apperr.FieldValidation("type", "must be at most 20 characters")
	}
	var count int64
	var row T
	q := s.db.WithContext(ctx).Model(&row).Where("type = ?", label)
	if self != uuid.Nil {
		q = q.Where("id <> ?", self)
	}
	if err := q.Count(&count).Error; err != nil {
		return "", fmt.Errorf("check %s label: %w", s.resource, err)
	}
	if count > 0 {
		return "", apperr.Conflict("%s %q already exists", s.resource, label)
	}
	return label, nil
}

// EnsureReferenceData seeds the default order and payment types. It is safe
// to call on every start-up.
func EnsureReferenceData(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	if err := NewOrderTypeStore(db).Ensure(ctx, models.DefaultOrderTypes); err != nil {
		return err
	}
	if err := NewPaymentTypeStore(db).Ensure(ctx, models.DefaultPaymentTypes); err != nil {
		return err
	}
	logger.Debug("reference data ensured")
	return nil
}
