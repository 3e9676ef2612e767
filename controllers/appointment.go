package controllers

import (
	"net/http"
	"time"

	"salonbiz-backend/models"
	"salonbiz-backend/services"
	"salonbiz-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AppointmentController struct {
	appts  *services.AppointmentService
	logger *zap.Logger
}

func NewAppointmentController(appts *services.AppointmentService, logger *zap.Logger) *AppointmentController {
	return &AppointmentController{appts: appts, logger: logger}
}

type AppointmentRequest struct {
	Customer           *uuid.UUID `json:"customer"`
	AppointmentType    *uuid.UUID `json:"appointment_type"`
	StartTime          *time.Time `json:"start_time"`
	EndTime            *time.Time `json:"end_time"`
	Status             *string    `json:"status" binding:"omitempty,oneof=scheduled confirmed cancelled"`
	Notes              *string    `json:"notes"`
	CancellationReason *string    `json:"cancellation_reason"`
}

func (r AppointmentRequest) input() services.AppointmentInput {
	return services.AppointmentInput{
		CustomerID:         r.Customer,
		AppointmentTypeID:  r.AppointmentType,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		Status:             r.Status,
		Notes:              r.Notes,
		CancellationReason: r.CancellationReason,
	}
}

type CancelRequest struct {
	CancellationReason string `json:"cancellation_reason"`
}

func (ac *AppointmentController) List(c *gin.Context) {
	f := services.AppointmentFilter{
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	}
	var ok bool
	if f.CustomerID, ok = queryUUID(c, "customer"); !ok {
		return
	}
	if f.AppointmentTypeID, ok = queryUUID(c, "appointment_type"); !ok {
		return
	}

	pageNum, pageSize := utils.ParsePagination(c)
	appts, count, err := ac.appts.List(c.Request.Context(), f, pageNum, pageSize)
	if err != nil {
		handleServiceError(c, err, ac.logger)
		return
	}
	writePage(c, mapSlice(appts, serializeAppointment), count, pageNum, pageSize)
}

func (ac *AppointmentController) Today(c *gin.Context) {
	ac.respondList(c)(ac.appts.Today(c.Request.Context()))
}

func (ac *AppointmentController) Upcoming(c *gin.Context) {
	ac.respondList(c)(ac.appts.Upcoming(c.Request.Context()))
}

func (ac *AppointmentController) ByCustomer(c *gin.Context) {
	customerID, ok := requiredCustomerUUID(c)
	if !ok {
		return
	}
	ac.respondList(c)(ac.appts.ByCustomer(c.Request.Context(), customerID))
}

func (ac *AppointmentController) respondList(c *gin.Context) func([]models.Appointment, error) {
	return func(appts []models.Appointment, err error) {
		if err != nil {
			handleServiceError(c, err, ac.logger)
			return
		}
		c.JSON(http.StatusOK, mapSlice(appts, serializeAppointment))
	}
}

func (ac *AppointmentController) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	appt, err := ac.appts.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, ac.logger)
		return
	}
	c.JSON(http.StatusOK, serializeAppointment(appt))
}

func (ac *AppointmentController) Create(c *gin.Context) {
	var req AppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	appt, err := ac.appts.Create(c.Request.Context(), req.input())
	if err != nil {
		handleServiceError(c, err, ac.logger)
		return
	}
	c.JSON(http.StatusCreated, serializeAppointment(appt))
}

func (ac *AppointmentController) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req AppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	appt, err := ac.appts.Update(c.Request.Context(), id, req.input())
	if err != nil {
		handleServiceError(c, err, ac.logger)
		return
	}
	c.JSON(http.StatusOK, serializeAppointment(appt))
}

func (ac *AppointmentController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := ac.appts.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, ac.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ac *AppointmentController) Confirm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	appt, err := ac.appts.Confirm(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, ac.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment confirmed successfully", "appointment": serializeAppointment(appt)})
}

// Cancel accepts an optional cancellation_reason; an empty body is fine.
func (ac *AppointmentController) Cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req CancelRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	appt, err := ac.appts.Cancel(c.Request.Context(), id, req.CancellationReason)
	if err != nil {
		handleServiceError(c, err, ac.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled successfully", "appointment": serializeAppointment(appt)})
}
