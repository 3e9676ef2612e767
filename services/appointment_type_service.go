package services

import (
	"context"
	"fmt"
	"strings"

	"salonbiz-backend/apperr"
	"salonbiz-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentTypeService struct {
	db *gorm.DB
}

func NewAppointmentTypeService(db *gorm.DB) *AppointmentTypeService {
	return &AppointmentTypeService{db: db}
}

func (s *AppointmentTypeService) List(ctx context.Context, search string) ([]models.AppointmentType, error) {
	q := s.db.WithContext(ctx).Order("description ASC")
	if search != "" {
		q = q.Where("LOWER(description) LIKE ?", likePattern(search))
	}
	var types []models.AppointmentType
	if err := q.Find(&types).Error; err != nil {
		return nil, fmt.Errorf("list appointment types: %w", err)
	}
	return types, nil
}

func (s *AppointmentTypeService) Get(ctx context.Context, id uuid.UUID) (*models.AppointmentType, error) {
	var t models.AppointmentType
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "appointment type", id)
	}
	return &t, nil
}

func (s *AppointmentTypeService) Create(ctx context.Context, description string) (*models.AppointmentType, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperr.FieldValidation("description", "is required")
	}
	t := models.AppointmentType{Description: description}
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, fmt.Errorf("create appointment type: %w", err)
	}
	return &t, nil
}

func (s *AppointmentTypeService) Update(ctx context.Context, id uuid.UUID, description string) (*models.AppointmentType, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperr.FieldValidation("description", "must not be empty")
	}
	if err := s.db.WithContext(ctx).Model(t).Update("description", description).Error; err != nil {
		return nil, fmt.Errorf("update appointment type %s: %w", id, err)
	}
	return s.Get(ctx, id)
}

// Delete removes an appointment type no appointment uses.
func (s *AppointmentTypeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.AppointmentType
		if err := tx.First(&t, "id = ?", id).Error; err != nil {
			return lookupErr(err, "appointment type", id)
		}
		n, err := countRefs(tx, &models.Appointment{}, "appointment_type_id", id)
		if err != nil {
			return fmt.Errorf("count appointments of type %s: %w", id, err)
		}
		if n > 0 {
			return apperr.Conflict("appointment type %s is used by %d appointments", id, n)
		}
		return tx.Delete(&t).Error
	})
}
