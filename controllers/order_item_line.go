package controllers

import (
	"net/http"
	"strconv"

	"salonbiz-backend/services"
	"salonbiz-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderItemLineController exposes individual order lines. Every write goes
// through the order service so the parent total is recomputed.
type OrderItemLineController struct {
	orders *services.OrderService
	logger *zap.Logger
}

func NewOrderItemLineController(orders *services.OrderService, logger *zap.Logger) *OrderItemLineController {
	return &OrderItemLineController{orders: orders, logger: logger}
}

type CreateLineRequest struct {
	Order     uuid.UUID        `json:"order" binding:"required"`
	OrderItem uuid.UUID        `json:"order_item" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

type UpdateLineRequest struct {
	Order     *uuid.UUID       `json:"order"`
	OrderItem *uuid.UUID       `json:"order_item"`
	Quantity  *int             `json:"quantity" binding:"omitempty,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

func (lc *OrderItemLineController) List(c *gin.Context) {
	f := services.LineFilter{Search: c.Query("search"), Ordering: c.Query("ordering")}
	var ok bool
	if f.OrderID, ok = queryUUID(c, "order"); !ok {
		return
	}
	if f.OrderItemID, ok = queryUUID(c, "order_item"); !ok {
		return
	}
	if v := c.Query("quantity"); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil {
			utils.RespondWithFieldErrors(c, http.StatusBadRequest, "invalid query", map[string]string{"quantity": "must be an integer"})
			return
		}
		f.Quantity = &q
	}

	pageNum, pageSize := utils.ParsePagination(c)
	lines, count, err := lc.orders.ListLines(c.Request.Context(), f, pageNum, pageSize)
	if err != nil {
		handleServiceError(c, err, lc.logger)
		return
	}
	writePage(c, mapSlice(lines, serializeLine), count, pageNum, pageSize)
}

func (lc *OrderItemLineController) Create(c *gin.Context) {
	var req CreateLineRequest
	if !bindJSON(c, &req) {
		return
	}
	line, err := lc.orders.AddLine(c.Request.Context(), services.LineWriteInput{
		OrderID:     &req.Order,
		OrderItemID: &req.OrderItem,
		Quantity:    &req.Quantity,
		UnitPrice:   req.UnitPrice,
	})
	if err != nil {
		handleServiceError(c, err, lc.logger)
		return
	}
	c.JSON(http.StatusCreated, serializeLine(line))
}

func (lc *OrderItemLineController) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	line, err := lc.orders.GetLine(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, lc.logger)
		return
	}
	c.JSON(http.StatusOK, serializeLine(line))
}

func (lc *OrderItemLineController) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateLineRequest
	if !bindJSON(c, &req) {
		return
	}
	line, err := lc.orders.UpdateLine(c.Request.Context(), id, services.LineWriteInput{
		OrderID:     req.Order,
		OrderItemID: req.OrderItem,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
	})
	if err != nil {
		handleServiceError(c, err, lc.logger)
		return
	}
	c.JSON(http.StatusOK, serializeLine(line))
}

func (lc *OrderItemLineController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := lc.orders.RemoveLine(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, lc.logger)
		return
	}
	c.Status(http.StatusNoContent)
}
