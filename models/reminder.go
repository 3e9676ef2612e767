package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReminderKindConfirmation = "confirmation"
	ReminderKindCancellation = "cancellation"
	ReminderKindReminder     = "reminder"
)

var ReminderKinds = []string{ReminderKindConfirmation, ReminderKindCancellation, ReminderKindReminder}

// ReminderTemplate is the message body sent for one kind of appointment
// notification. Placeholders: [CustomerName], [AppointmentType], [StartTime].
type ReminderTemplate struct {
	Base
	Kind     string `gorm:"size:20;uniqueIndex;not null"`
	Message  string `gorm:"type:text;not null"`
	IsActive bool   `gorm:"not null"`
}

type ReminderLog struct {
	Base

	AppointmentID uuid.UUID `gorm:"type:char(36);index;not null"`
	CustomerID    uuid.UUID `gorm:"type:char(36);index;not null"`
	Kind          string    `gorm:"size:20"` // confirmation, cancellation, reminder
	Channel       string    `gorm:"size:20"` // whatsapp, sms
	Status        string    `gorm:"size:20"` // sent, failed, skipped
	Message       string    `gorm:"type:text"`
	ErrorMessage  string    `gorm:"type:text"`
	SentAt        time.Time
}
