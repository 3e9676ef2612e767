package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"salonbiz-backend/apperr"
	"salonbiz-backend/models"
	"salonbiz-backend/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Notifier is told about appointment status changes.
type Notifier interface {
	Notify(ctx context.Context, kind string, appt *models.Appointment) *models.ReminderLog
}

type AppointmentService struct {
	db       *gorm.DB
	logger   *zap.Logger
	notifier Notifier
	loc      *time.Location
	now      func() time.Time
}

func NewAppointmentService(db *gorm.DB, logger *zap.Logger, notifier Notifier, loc *time.Location) *AppointmentService {
	if loc == nil {
		loc = time.UTC
	}
	return &AppointmentService{db: db, logger: logger, notifier: notifier, loc: loc, now: time.Now}
}

// AppointmentInput creates or patches an appointment; nil fields are untouched.
type AppointmentInput struct {
	CustomerID         *uuid.UUID
	AppointmentTypeID  *uuid.UUID
	StartTime          *time.Time
	EndTime            *time.Time
	Status             *string
	Notes              *string
	CancellationReason *string
}

type AppointmentFilter struct {
	Status            string
	CustomerID        *uuid.UUID
	AppointmentTypeID *uuid.UUID
	Search            string
	Ordering          string
}

var appointmentOrdering = map[string]string{
	"created_at": "appointments.created_at",
	"updated_at": "appointments.updated_at",
	"start_time": "appointments.start_time",
	"end_time":   "appointments.end_time",
}

func (s *AppointmentService) withDetail(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Customer").Preload("AppointmentType")
}

func (s *AppointmentService) List(ctx context.Context, f AppointmentFilter, page, pageSize int) ([]models.Appointment, int64, error) {
	order, err := parseOrdering(f.Ordering, appointmentOrdering, "-start_time")
	if err != nil {
		return nil, 0, err
	}

	q := s.db.WithContext(ctx).Model(&models.Appointment{})
	if f.Status != "" {
		q = q.Where("appointments.status = ?", f.Status)
	}
	if f.CustomerID != nil {
		q = q.Where("appointments.customer_id = ?", *f.CustomerID)
	}
	if f.AppointmentTypeID != nil {
		q = q.Where("appointments.appointment_type_id = ?", *f.AppointmentTypeID)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.
			Joins("JOIN customers ON customers.id = appointments.customer_id").
			Joins("JOIN appointment_types ON appointment_types.id = appointments.appointment_type_id").
			Where("LOWER(customers.first_name) LIKE ? OR LOWER(customers.last_name) LIKE ? OR LOWER(customers.email) LIKE ? OR LOWER(appointment_types.description) LIKE ? OR LOWER(appointments.notes) LIKE ?",
				p, p, p, p, p)
	}
	q = q.Session(&gorm.Session{})

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}
	var appts []models.Appointment
	err = q.Preload("Customer").Preload("AppointmentType").
		Order(order).Scopes(paginate(page, pageSize)).Find(&appts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	return appts, count, nil
}

// Today lists appointments starting on the current calendar day.
func (s *AppointmentService) Today(ctx context.Context) ([]models.Appointment, error) {
	start, end := utils.DayWindow(s.now(), s.loc)
	var appts []models.Appointment
	err := s.withDetail(ctx).
		Where("start_time >= ? AND start_time < ?", start, end).
		Order("start_time ASC").
		Find(&appts).Error
	if err != nil {
		return nil, fmt.Errorf("list today's appointments: %w", err)
	}
	return appts, nil
}

// Upcoming lists scheduled or confirmed appointments that have not started.
func (s *AppointmentService) Upcoming(ctx context.Context) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.withDetail(ctx).
		Where("start_time >= ? AND status IN ?", s.now().UTC(), []string{models.StatusScheduled, models.StatusConfirmed}).
		Order("start_time ASC").
		Find(&appts).Error
	if err != nil {
		return nil, fmt.Errorf("list upcoming appointments: %w", err)
	}
	return appts, nil
}

// Between lists active appointments starting in [from, to).
func (s *AppointmentService) Between(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.withDetail(ctx).
		Where("start_time >= ? AND start_time < ? AND status IN ?", from.UTC(), to.UTC(),
			[]string{models.StatusScheduled, models.StatusConfirmed}).
		Order("start_time ASC").
		Find(&appts).Error
	if err != nil {
		return nil, fmt.Errorf("list appointments between %s and %s: %w", from, to, err)
	}
	return appts, nil
}

func (s *AppointmentService) ByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.withDetail(ctx).
		Where("customer_id = ?", customerID).
		Order("start_time DESC").
		Find(&appts).Error
	if err != nil {
		return nil, fmt.Errorf("list appointments of customer %s: %w", customerID, err)
	}
	return appts, nil
}

func (s *AppointmentService) Get(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appt models.Appointment
	if err := s.withDetail(ctx).First(&appt, "appointments.id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "appointment", id)
	}
	return &appt, nil
}

func (s *AppointmentService) Create(ctx context.Context, in AppointmentInput) (*models.Appointment, error) {
	fields := map[string]string{}
	if in.CustomerID == nil {
		fields["customer"] = "is required"
	}
	if in.AppointmentTypeID == nil {
		fields["appointment_type"] = "is required"
	}
	if in.StartTime == nil {
		fields["start_time"] = "is required"
	}
	if in.EndTime == nil {
		fields["end_time"] = "is required"
	}
	if len(fields) > 0 {
		return nil, &apperr.ValidationError{Message: "invalid appointment", Fields: fields}
	}

	appt := models.Appointment{Status: models.StatusScheduled}
	if in.Status != nil && *in.Status != models.StatusScheduled {
		return nil, apperr.FieldValidation("status", "new appointments start as scheduled")
	}
	if err := applyAppointmentInput(&appt, in); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRef(tx, &models.Customer{}, "customer", "customer", appt.CustomerID); err != nil {
			return err
		}
		if err := requireRef(tx, &models.AppointmentType{}, "appointment_type", "appointment type", appt.AppointmentTypeID); err != nil {
			return err
		}
		if err := tx.Omit("Customer", "AppointmentType").Create(&appt).Error; err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, appt.ID)
}

// Update patches an appointment. A status change goes through the same
// state machine as Confirm and Cancel.
func (s *AppointmentService) Update(ctx context.Context, id uuid.UUID, in AppointmentInput) (*models.Appointment, error) {
	var previous string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var appt models.Appointment
		if err := tx.First(&appt, "id = ?", id).Error; err != nil {
			return lookupErr(err, "appointment", id)
		}
		previous = appt.Status

		if in.Status != nil && !models.CanTransition(appt.Status, *in.Status) {
			return apperr.FieldValidation("status",
				fmt.Sprintf("cannot change status from %s to %s", appt.Status, *in.Status))
		}
		if err := applyAppointmentInput(&appt, in); err != nil {
			return err
		}
		if in.CustomerID != nil {
			if err := requireRef(tx, &models.Customer{}, "customer", "customer", appt.CustomerID); err != nil {
				return err
			}
		}
		if in.AppointmentTypeID != nil {
			if err := requireRef(tx, &models.AppointmentType{}, "appointment_type", "appointment type", appt.AppointmentTypeID); err != nil {
				return err
			}
		}
		if err := tx.Omit("Customer", "AppointmentType").Save(&appt).Error; err != nil {
			return fmt.Errorf("update appointment %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	appt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if previous != appt.Status {
		s.notifyStatus(ctx, appt)
	}
	return appt, nil
}

// Confirm moves a scheduled appointment to confirmed. Confirming a
// cancelled appointment is rejected.
func (s *AppointmentService) Confirm(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	return s.transition(ctx, id, models.StatusConfirmed, nil)
}

// Cancel cancels a scheduled or confirmed appointment. Cancelling twice is a
// no-op apart from recording a newly supplied reason.
func (s *AppointmentService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*models.Appointment, error) {
	var r *string
	if reason = strings.TrimSpace(reason); reason != "" {
		r = &reason
	}
	return s.transition(ctx, id, models.StatusCancelled, r)
}

func (s *AppointmentService) transition(ctx context.Context, id uuid.UUID, to string, reason *string) (appt *models.Appointment, err error) {
	ctx, span := startSpan(ctx, "AppointmentService.transition",
		attribute.String("appointment_id", id.String()),
		attribute.String("to", to),
	)
	defer func() { endSpan(span, err) }()

	var changed bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Appointment
		if err := tx.First(&current, "id = ?", id).Error; err != nil {
			return lookupErr(err, "appointment", id)
		}
		if !models.CanTransition(current.Status, to) {
			return apperr.Validation("cannot change appointment %s from %s to %s", id, current.Status, to)
		}

		updates := map[string]any{"status": to}
		if reason != nil {
			updates["cancellation_reason"] = *reason
		}
		if err := tx.Model(&models.Appointment{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("update appointment %s status: %w", id, err)
		}
		changed = current.Status != to
		return nil
	})
	if err != nil {
		return nil, err
	}

	if appt, err = s.Get(ctx, id); err != nil {
		return nil, err
	}
	if changed {
		s.logger.Info("appointment status changed",
			zap.String("appointment_id", id.String()),
			zap.String("status", to),
		)
		s.notifyStatus(ctx, appt)
	}
	return appt, nil
}

func (s *AppointmentService) notifyStatus(ctx context.Context, appt *models.Appointment) {
	if s.notifier == nil {
		return
	}
	switch appt.Status {
	case models.StatusConfirmed:
		s.notifier.Notify(ctx, models.ReminderKindConfirmation, appt)
	case models.StatusCancelled:
		s.notifier.Notify(ctx, models.ReminderKindCancellation, appt)
	}
}

// Delete removes an appointment. Orders that referenced it keep existing
// with the reference cleared.
func (s *AppointmentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var appt models.Appointment
		if err := tx.First(&appt, "id = ?", id).Error; err != nil {
			return lookupErr(err, "appointment", id)
		}
		if err := tx.Model(&models.Order{}).Where("appointment_id = ?", id).Update("appointment_id", nil).Error; err != nil {
			return fmt.Errorf("detach orders from appointment %s: %w", id, err)
		}
		if err := tx.Where("appointment_id = ?", id).Delete(&models.ReminderLog{}).Error; err != nil {
			return fmt.Errorf("delete reminder logs of appointment %s: %w", id, err)
		}
		return tx.Delete(&appt).Error
	})
}

func applyAppointmentInput(a *models.Appointment, in AppointmentInput) error {
	if in.CustomerID != nil {
		a.CustomerID = *in.CustomerID
	}
	if in.AppointmentTypeID != nil {
		a.AppointmentTypeID = *in.AppointmentTypeID
	}
	if in.StartTime != nil {
		a.StartTime = in.StartTime.UTC()
	}
	if in.EndTime != nil {
		a.EndTime = in.EndTime.UTC()
	}
	if in.Status != nil {
		a.Status = *in.Status
	}
	if in.Notes != nil {
		a.Notes = *in.Notes
	}
	if in.CancellationReason != nil {
		a.CancellationReason = *in.CancellationReason
	}
	if !a.EndTime.After(a.StartTime) {
		return apperr.FieldValidation("end_time", "must be after start time")
	}
	return nil
}
