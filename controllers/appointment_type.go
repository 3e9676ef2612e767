package controllers

import (
	"net/http"

	"salonbiz-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AppointmentTypeController struct {
	types  *services.AppointmentTypeService
	logger *zap.Logger
}

func NewAppointmentTypeController(types *services.AppointmentTypeService, logger *zap.Logger) *AppointmentTypeController {
	return &AppointmentTypeController{types: types, logger: logger}
}

type AppointmentTypeRequest struct {
	Description string `json:"description" binding:"required,max=100"`
}

func (tc *AppointmentTypeController) List(c *gin.Context) {
	types, err := tc.types.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		handleServiceError(c, err, tc.logger)
		return
	}
	c.JSON(http.StatusOK, mapSlice(types, serializeAppointmentType))
}

func (tc *AppointmentTypeController) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	t, err := tc.types.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, tc.logger)
		return
	}
	c.JSON(http.StatusOK, serializeAppointmentType(t))
}

func (tc *AppointmentTypeController) Create(c *gin.Context) {
	var req AppointmentTypeRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := tc.types.Create(c.Request.Context(), req.Description)
	if err != nil {
		handleServiceError(c, err, tc.logger)
		return
	}
	c.JSON(http.StatusCreated, serializeAppointmentType(t))
}

func (tc *AppointmentTypeController) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req AppointmentTypeRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := tc.types.Update(c.Request.Context(), id, req.Description)
	if err != nil {
		handleServiceError(c, err, tc.logger)
		return
	}
	c.JSON(http.StatusOK, serializeAppointmentType(t))
}

func (tc *AppointmentTypeController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := tc.types.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, tc.logger)
		return
	}
	c.Status(http.StatusNoContent)
}
