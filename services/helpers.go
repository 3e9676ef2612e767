package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"salonbiz-backend/apperr"
	"salonbiz-backend/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("salonbiz-backend/services")

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan records err on the span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// lookupErr turns gorm.ErrRecordNotFound into a NotFoundError and wraps
// anything else.
func lookupErr(err error, resource string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(resource, id)
	}
	return fmt.Errorf("load %s %s: %w", resource, id, err)
}

// requireRef checks that a referenced row exists, reporting a missing one as
// a ValidationError on field.
func requireRef(tx *gorm.DB, model any, field, resource string, id uuid.UUID) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check %s %s: %w", resource, id, err)
	}
	if count == 0 {
		return apperr.FieldValidation(field, fmt.Sprintf("%s %s does not exist", resource, id))
	}
	return nil
}

// countRefs counts rows of model whose column equals id.
func countRefs(tx *gorm.DB, model any, column string, id uuid.UUID) (int64, error) {
	var count int64
	err := tx.Model(model).Where(column+" = ?", id).Count(&count).Error
	return count, err
}

func paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

func parseOrdering(value string, allowed map[string]string, fallback string) (string, error) {
	order, err := utils.ParseOrdering(value, allowed, fallback)
	if err != nil {
		return "", apperr.FieldValidation("ordering", err.Error())
	}
	return order, nil
}

// likePattern builds a case-insensitive LIKE pattern; match it against a
// LOWER(...) column.
func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}
