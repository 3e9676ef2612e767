package models

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentType struct {
	Base
	Description string `gorm:"size:255;not null"`
}

const (
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

var AppointmentStatuses = []string{StatusScheduled, StatusConfirmed, StatusCancelled}

type Appointment struct {
	Base

	CustomerID         uuid.UUID `gorm:"type:char(36);index;not null"`
	AppointmentTypeID  uuid.UUID `gorm:"type:char(36);index;not null"`
	StartTime          time.Time `gorm:"index;not null"`
	EndTime            time.Time `gorm:"not null"`
	Status             string    `gorm:"size:20;index;not null"`
	Notes              string    `gorm:"type:text"`
	CancellationReason string    `gorm:"type:text"`

	Customer        *Customer        `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	AppointmentType *AppointmentType `gorm:"foreignKey:AppointmentTypeID"`
}

// DurationMinutes is end minus start, truncated to whole minutes.
func (a *Appointment) DurationMinutes() int {
	if a.StartTime.IsZero() || a.EndTime.IsZero() {
		return 0
	}
	return int(a.EndTime.Sub(a.StartTime).Minutes())
}

// CanTransition reports whether the status machine allows from -> to.
// Cancelled is terminal; re-cancelling is an allowed no-op.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusScheduled:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled
	}
	return false
}
