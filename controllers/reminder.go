package controllers

import (
	"net/http"

	"salonbiz-backend/services"
	"salonbiz-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReminderController serves notification templates and the log of sent
// notifications.
type ReminderController struct {
	templates *services.ReminderTemplateService
	logger    *zap.Logger
}

func NewReminderController(templates *services.ReminderTemplateService, logger *zap.Logger) *ReminderController {
	return &ReminderController{templates: templates, logger: logger}
}

type ReminderTemplateRequest struct {
	Kind     *string `json:"kind" binding:"omitempty,oneof=confirmation cancellation reminder"`
	Message  *string `json:"message"`
	IsActive *bool   `json:"is_active"`
}

func (r ReminderTemplateRequest) input() services.ReminderTemplateInput {
	return services.ReminderTemplateInput{Kind: r.Kind, Message: r.Message, IsActive: r.IsActive}
}

func (rc *ReminderController) ListTemplates(c *gin.Context) {
	templates, err := rc.templates.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, rc.logger)
		return
	}
	c.JSON(http.StatusOK, mapSlice(templates, serializeReminderTemplate))
}

func (rc *ReminderController) GetTemplate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	t, err := rc.templates.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, rc.logger)
		return
	}
	c.JSON(http.StatusOK, serializeReminderTemplate(t))
}

func (rc *ReminderController) CreateTemplate(c *gin.Context) {
	var req ReminderTemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := rc.templates.Create(c.Request.Context(), req.input())
	if err != nil {
		handleServiceError(c, err, rc.logger)
		return
	}
	c.JSON(http.StatusCreated, serializeReminderTemplate(t))
}

func (rc *ReminderController) UpdateTemplate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ReminderTemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := rc.templates.Update(c.Request.Context(), id, req.input())
	if err != nil {
		handleServiceError(c, err, rc.logger)
		return
	}
	c.JSON(http.StatusOK, serializeReminderTemplate(t))
}

func (rc *ReminderController) DeleteTemplate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := rc.templates.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, rc.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rc *ReminderController) ListLogs(c *gin.Context) {
	f := services.ReminderLogFilter{Kind: c.Query("kind"), Status: c.Query("status")}
	var ok bool
	if f.AppointmentID, ok = queryUUID(c, "appointment"); !ok {
		return
	}
	if f.CustomerID, ok = queryUUID(c, "customer"); !ok {
		return
	}

	pageNum, pageSize := utils.ParsePagination(c)
	logs, count, err := rc.templates.Logs(c.Request.Context(), f, pageNum, pageSize)
	if err != nil {
		handleServiceError(c, err, rc.logger)
		return
	}
	writePage(c, mapSlice(logs, serializeReminderLog), count, pageNum, pageSize)
}
