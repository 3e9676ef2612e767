package controllers

import (
	"net/http"

	"salonbiz-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardController struct {
	dashboard *services.DashboardService
	logger    *zap.Logger
}

func NewDashboardController(dashboard *services.DashboardService, logger *zap.Logger) *DashboardController {
	return &DashboardController{dashboard: dashboard, logger: logger}
}

type DashboardOverview struct {
	ActiveCustomers      int64                   `json:"active_customers"`
	AppointmentsToday    []AppointmentResponse   `json:"appointments_today"`
	UpcomingAppointments []AppointmentResponse   `json:"upcoming_appointments"`
	ThisMonth            MonthStatisticsResponse `json:"this_month"`
	LowStockItems        []OrderItemResponse     `json:"low_stock_items"`
}

func (dc *DashboardController) Overview(c *gin.Context) {
	o, err := dc.dashboard.Overview(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, dc.logger)
		return
	}
	c.JSON(http.StatusOK, DashboardOverview{
		ActiveCustomers:      o.ActiveCustomers,
		AppointmentsToday:    mapSlice(o.AppointmentsToday, serializeAppointment),
		UpcomingAppointments: mapSlice(o.UpcomingAppointments, serializeAppointment),
		ThisMonth:            serializeMonth(o.ThisMonth),
		LowStockItems:        mapSlice(o.LowStockItems, serializeOrderItem),
	})
}
