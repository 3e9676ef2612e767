package controllers

import (
	"net/http"
	"time"

	"salonbiz-backend/models"
	"salonbiz-backend/services"
	"salonbiz-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderController struct {
	orders  *services.OrderService
	reports *services.ReportService
	loc     *time.Location
	logger  *zap.Logger
}

func NewOrderController(orders *services.OrderService, reports *services.ReportService, loc *time.Location, logger *zap.Logger) *OrderController {
	return &OrderController{orders: orders, reports: reports, loc: loc, logger: logger}
}

type OrderLineRequest struct {
	OrderItem uuid.UUID        `json:"order_item" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest is the create_with_items body. A client-supplied total
// is not part of it and is ignored.
type CreateOrderRequest struct {
	Customer    uuid.UUID          `json:"customer" binding:"required"`
	OrderType   uuid.UUID          `json:"order_type" binding:"required"`
	PaymentType uuid.UUID          `json:"payment_type" binding:"required"`
	Appointment *uuid.UUID         `json:"appointment"`
	OrderItems  []OrderLineRequest `json:"order_items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest patches the header. An explicit null appointment clears
// it.
type UpdateOrderRequest struct {
	Customer    *uuid.UUID                `json:"customer"`
	OrderType   *uuid.UUID                `json:"order_type"`
	PaymentType *uuid.UUID                `json:"payment_type"`
	Appointment utils.Optional[uuid.UUID] `json:"appointment"`
}

// Create handles both POST /orders/ and POST /orders/create_with_items/.
func (oc *OrderController) Create(c *gin.Context) {
	var req CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	in := services.CreateOrderInput{
		CustomerID:    req.Customer,
		OrderTypeID:   req.OrderType,
		PaymentTypeID: req.PaymentType,
		AppointmentID: req.Appointment,
		Items:         make([]services.LineInput, 0, len(req.OrderItems)),
	}
	for _, item := range req.OrderItems {
		in.Items = append(in.Items, services.LineInput{
			OrderItemID: item.OrderItem,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	order, err := oc.orders.CreateWithItems(c.Request.Context(), in)
	if err != nil {
		handleServiceError(c, err, oc.logger)
		return
	}
	c.JSON(http.StatusCreated, serializeOrder(order))
}

func (oc *OrderController) List(c *gin.Context) {
	f := services.OrderFilter{Search: c.Query("search"), Ordering: c.Query("ordering")}
	var ok bool
	if f.OrderTypeID, ok = queryUUID(c, "order_type"); !ok {
		return
	}
	if f.PaymentTypeID, ok = queryUUID(c, "payment_type"); !ok {
		return
	}
	if f.CustomerID, ok = queryUUID(c, "customer"); !ok {
		return
	}
	if f.AppointmentID, ok = queryUUID(c, "appointment"); !ok {
		return
	}
	if f.CreatedAfter, ok = queryTime(c, "created_after", oc.loc); !ok {
		return
	}
	if f.CreatedBefore, ok = queryTime(c, "created_before", oc.loc); !ok {
		return
	}

	pageNum, pageSize := utils.ParsePagination(c)
	orders, count, err := oc.reports.ListOrders(c.Request.Context(), f, pageNum, pageSize)
	if err != nil {
		handleServiceError(c, err, oc.logger)
		return
	}
	writePage(c, mapSlice(orders, serializeOrder), count, pageNum, pageSize)
}

func (oc *OrderController) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := oc.orders.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, oc.logger)
		return
	}
	c.JSON(http.StatusOK, serializeOrder(order))
}

// Update serves PUT and PATCH. The total is never taken from the body.
func (oc *OrderController) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	err := oc.orders.Update(ctx, id, services.UpdateOrderInput{
		CustomerID:    req.Customer,
		OrderTypeID:   req.OrderType,
		PaymentTypeID: req.PaymentType,
		Appointment:   req.Appointment,
	})
	if err != nil {
		handleServiceError(c, err, oc.logger)
		return
	}
	order, err := oc.orders.Get(ctx, id)
	if err != nil {
		handleServiceError(c, err, oc.logger)
		return
	}
	c.JSON(http.StatusOK, serializeOrder(order))
}

func (oc *OrderController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := oc.orders.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, oc.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

func (oc *OrderController) RecomputeTotal(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := oc.orders.RecomputeTotal(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, oc.logger)
		return
	}
	c.JSON(http.StatusOK, serializeOrder(order))
}

func (oc *OrderController) Today(c *gin.Context) {
	oc.respondOrders(c)(oc.reports.Today(c.Request.Context()))
}

func (oc *OrderController) ThisMonth(c *gin.Context) {
	oc.respondOrders(c)(oc.reports.ThisMonth(c.Request.Context()))
}

func (oc *OrderController) Income(c *gin.Context) {
	oc.respondOrders(c)(oc.reports.ByOrderType(c.Request.Context(), models.OrderTypeIncome))
}

func (oc *OrderController) Expense(c *gin.Context) {
	oc.respondOrders(c)(oc.reports.ByOrderType(c.Request.Context(), models.OrderTypeExpense))
}

func (oc *OrderController) ByCustomer(c *gin.Context) {
	customerID, ok := requiredCustomerUUID(c)
	if !ok {
		return
	}
	oc.respondOrders(c)(oc.reports.ByCustomer(c.Request.Context(), customerID))
}

func (oc *OrderController) respondOrders(c *gin.Context) func([]models.Order, error) {
	return func(orders []models.Order, err error) {
		if err != nil {
			handleServiceError(c, err, oc.logger)
			return
		}
		c.JSON(http.StatusOK, mapSlice(orders, serializeOrder))
	}
}
