package controllers

import (
	"net/http"

	"salonbiz-backend/services"
	"salonbiz-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderItemController manages the catalog of sellable items.
type OrderItemController struct {
	catalog *services.CatalogService
	logger  *zap.Logger
}

func NewOrderItemController(catalog *services.CatalogService, logger *zap.Logger) *OrderItemController {
	return &OrderItemController{catalog: catalog, logger: logger}
}

type OrderItemRequest struct {
	Description       *string          `json:"description" binding:"omitempty,max=255"`
	InventoryQuantity *int             `json:"inventory_quantity" binding:"omitempty,min=0"`
	UnitPrice         *decimal.Decimal `json:"unit_price"`
}

func (r OrderItemRequest) input() services.OrderItemInput {
	return services.OrderItemInput{
		Description:       r.Description,
		InventoryQuantity: r.InventoryQuantity,
		UnitPrice:         r.UnitPrice,
	}
}

func (ic *OrderItemController) List(c *gin.Context) {
	pageNum, pageSize := utils.ParsePagination(c)
	items, count, err := ic.catalog.List(c.Request.Context(), services.OrderItemFilter{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	}, pageNum, pageSize)
	if err != nil {
		handleServiceError(c, err, ic.logger)
		return
	}
	writePage(c, mapSlice(items, serializeOrderItem), count, pageNum, pageSize)
}

func (ic *OrderItemController) LowStock(c *gin.Context) {
	items, err := ic.catalog.LowStock(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, ic.logger)
		return
	}
	c.JSON(http.StatusOK, mapSlice(items, serializeOrderItem))
}

func (ic *OrderItemController) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := ic.catalog.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, ic.logger)
		return
	}
	c.JSON(http.StatusOK, serializeOrderItem(item))
}

func (ic *OrderItemController) Create(c *gin.Context) {
	var req OrderItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := ic.catalog.Create(c.Request.Context(), req.input())
	if err != nil {
		handleServiceError(c, err, ic.logger)
		return
	}
	c.JSON(http.StatusCreated, serializeOrderItem(item))
}

func (ic *OrderItemController) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req OrderItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := ic.catalog.Update(c.Request.Context(), id, req.input())
	if err != nil {
		handleServiceError(c, err, ic.logger)
		return
	}
	c.JSON(http.StatusOK, serializeOrderItem(item))
}

func (ic *OrderItemController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := ic.catalog.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, ic.logger)
		return
	}
	c.Status(http.StatusNoContent)
}
