package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type labelStore[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uuid.UUID) (*T, error)
	Create(ctx context.Context, label string) (*T, error)
	Update(ctx context.Context, id uuid.UUID, label string) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LabelController serves the label-only reference tables, order types and
// payment types, which share a wire shape.
type LabelController[T any] struct {
	store     labelStore[T]
	serialize func(*T) OrderTypeResponse
	logger    *zap.Logger
}

func NewLabelController[T any](store labelStore[T], serialize func(*T) OrderTypeResponse, logger *zap.Logger) *LabelController[T] {
	return &LabelController[T]{store: store, serialize: serialize, logger: logger}
}

type LabelRequest struct {
	Type string `json:"type" binding:"required,max=20"`
}

func (lc *LabelController[T]) List(c *gin.Context) {
	rows, err := lc.store.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, lc.logger)
		return
	}
	c.JSON(http.StatusOK, mapSlice(rows, lc.serialize))
}

func (lc *LabelController[T]) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	row, err := lc.store.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, lc.logger)
		return
	}
	c.JSON(http.StatusOK, lc.serialize(row))
}

func (lc *LabelController[T]) Create(c *gin.Context) {
	var req LabelRequest
	if !bindJSON(c, &req) {
		return
	}
	row, err := lc.store.Create(c.Request.Context(), req.Type)
	if err != nil {
		handleServiceError(c, err, lc.logger)
		return
	}
	c.JSON(http.StatusCreated, lc.serialize(row))
}

func (lc *LabelController[T]) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req LabelRequest
	if !bindJSON(c, &req) {
		return
	}
	row, err := lc.store.Update(c.Request.Context(), id, req.Type)
	if err != nil {
		handleServiceError(c, err, lc.logger)
		return
	}
	c.JSON(http.StatusOK, lc.serialize(row))
}

func (lc *LabelController[T]) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := lc.store.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, lc.logger)
		return
	}
	c.Status(http.StatusNoContent)
}
