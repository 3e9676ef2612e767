package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"salonbiz-backend/apperr"
	"salonbiz-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReminderTemplateService manages the message templates used for customer
// notifications and exposes the notification log.
type ReminderTemplateService struct {
	db *gorm.DB
}

func NewReminderTemplateService(db *gorm.DB) *ReminderTemplateService {
	return &ReminderTemplateService{db: db}
}

type ReminderTemplateInput struct {
	Kind     *string
	Message  *string
	IsActive *bool
}

type ReminderLogFilter struct {
	AppointmentID *uuid.UUID
	CustomerID    *uuid.UUID
	Kind          string
	Status        string
}

func (s *ReminderTemplateService) List(ctx context.Context) ([]models.ReminderTemplate, error) {
	var templates []models.ReminderTemplate
	if err := s.db.WithContext(ctx).Order("kind ASC").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("list reminder templates: %w", err)
	}
	return templates, nil
}

func (s *ReminderTemplateService) Get(ctx context.Context, id uuid.UUID) (*models.ReminderTemplate, error) {
	var t models.ReminderTemplate
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "reminder template", id)
	}
	return &t, nil
}

// Create adds the template for a kind. There is at most one per kind.
func (s *ReminderTemplateService) Create(ctx context.Context, in ReminderTemplateInput) (*models.ReminderTemplate, error) {
	fields := map[string]string{}
	if in.Kind == nil {
		fields["kind"] = "is required"
	}
	if in.Message == nil || strings.TrimSpace(*in.Message) == "" {
		fields["message"] = "is required"
	}
	if len(fields) > 0 {
		return nil, &apperr.ValidationError{Message: "invalid reminder template", Fields: fields}
	}

	t := models.ReminderTemplate{IsActive: true}
	if err := applyTemplateInput(&t, in); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureKindFree(tx, t.Kind, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Create(&t).Error; err != nil {
			return fmt.Errorf("create reminder template: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *ReminderTemplateService) Update(ctx context.Context, id uuid.UUID, in ReminderTemplateInput) (*models.ReminderTemplate, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.ReminderTemplate
		if err := tx.First(&t, "id = ?", id).Error; err != nil {
			return lookupErr(err, "reminder template", id)
		}
		if err := applyTemplateInput(&t, in); err != nil {
			return err
		}
		if in.Kind != nil {
			if err := ensureKindFree(tx, t.Kind, id); err != nil {
				return err
			}
		}
		if err := tx.Save(&t).Error; err != nil {
			return fmt.Errorf("update reminder template %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *ReminderTemplateService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.ReminderTemplate{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete reminder template %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("reminder template", id)
	}
	return nil
}

// Logs lists recorded notification attempts, newest first.
func (s *ReminderTemplateService) Logs(ctx context.Context, f ReminderLogFilter, page, pageSize int) ([]models.ReminderLog, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.ReminderLog{})
	if f.AppointmentID != nil {
		q = q.Where("appointment_id = ?", *f.AppointmentID)
	}
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	q = q.Session(&gorm.Session{})

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("count reminder logs: %w", err)
	}
	var logs []models.ReminderLog
	if err := q.Order("sent_at DESC").Scopes(paginate(page, pageSize)).Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("list reminder logs: %w", err)
	}
	return logs, count, nil
}

func applyTemplateInput(t *models.ReminderTemplate, in ReminderTemplateInput) error {
	if in.Kind != nil {
		if !slices.Contains(models.ReminderKinds, *in.Kind) {
			return apperr.FieldValidation("kind", fmt.Sprintf("must be one of %s", strings.Join(models.ReminderKinds, ", ")))
		}
		t.Kind = *in.Kind
	}
	if in.Message != nil {
		msg := strings.TrimSpace(*in.Message)
		if msg == "" {
			return apperr.FieldValidation("message", "must not be empty")
		}
		t.Message = msg
	}
	if in.IsActive != nil {
		t.IsActive = *in.IsActive
	}
	return nil
}

func ensureKindFree(tx *gorm.DB, kind string, self uuid.UUID) error {
	var existing models.ReminderTemplate
	err := tx.Where("kind = ? AND id <> ?", kind, self).First(&existing).Error
	switch {
	case err == nil:
		return apperr.Conflict("a %s template already exists", kind)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return fmt.Errorf("check reminder template kind: %w", err)
	}
}
