package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonbiz-backend/config"
	"salonbiz-backend/models"

	"github.com/sony/gobreaker"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MessageSender delivers one text message. channel is "sms" or "whatsapp".
type MessageSender interface {
	Send(ctx context.Context, channel, to, body string) (string, error)
}

// TwilioSender sends through the Twilio REST API behind a circuit breaker.
type TwilioSender struct {
	client       *twilio.RestClient
	breaker      *gobreaker.CircuitBreaker
	phoneNumber  string
	whatsappFrom string
}

func NewTwilioSender(cfg *config.Config) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		}),
		breaker:      NewCircuitBreaker("twilio"),
		phoneNumber:  cfg.TwilioPhoneNumber,
		whatsappFrom: cfg.TwilioWhatsAppNumber,
	}
}

// NewCircuitBreaker opens after five requests with a 60% failure ratio and
// probes again after ten seconds.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
	})
}

func (t *TwilioSender) Send(ctx context.Context, channel, to, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetBody(body)
	if channel == ChannelWhatsApp {
		params.SetTo("whatsapp:" + to)
		params.SetFrom("whatsapp:" + t.whatsappFrom)
	} else {
		params.SetTo(to)
		params.SetFrom(t.phoneNumber)
	}

	result, err := t.breaker.Execute(func() (any, error) {
		return t.client.Api.CreateMessage(params)
	})
	if err != nil {
		return "", fmt.Errorf("twilio send: %w", err)
	}
	resp, _ := result.(*twilioApi.ApiV2010Message)
	if resp != nil && resp.Sid != nil {
		return *resp.Sid, nil
	}
	return "", nil
}

const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"

	NotificationSent    = "sent"
	NotificationFailed  = "failed"
	NotificationSkipped = "skipped"
)

// AppointmentNotifier tells customers about appointment changes. Failures
// are logged and recorded, never returned to the caller.
type AppointmentNotifier struct {
	db      *gorm.DB
	sender  MessageSender
	logger  *zap.Logger
	metrics *config.Metrics
	loc     *time.Location
	now     func() time.Time
}

// NewAppointmentNotifier builds a notifier. A nil sender records every
// notification as skipped.
func NewAppointmentNotifier(db *gorm.DB, sender MessageSender, logger *zap.Logger, metrics *config.Metrics, loc *time.Location) *AppointmentNotifier {
	if loc == nil {
		loc = time.UTC
	}
	return &AppointmentNotifier{db: db, sender: sender, logger: logger, metrics: metrics, loc: loc, now: time.Now}
}

var defaultTemplates = map[string]string{
	models.ReminderKindConfirmation: "Hi [CustomerName], your [AppointmentType] on [StartTime] is confirmed.",
	models.ReminderKindCancellation: "Hi [CustomerName], your [AppointmentType] on [StartTime] was cancelled.",
	models.ReminderKindReminder:     "Hi [CustomerName], this is a reminder of your [AppointmentType] on [StartTime].",
}

// Notify sends one notification of kind for appt and records the attempt.
// appt must have Customer and AppointmentType loaded.
func (n *AppointmentNotifier) Notify(ctx context.Context, kind string, appt *models.Appointment) *models.ReminderLog {
	if appt.Customer == nil {
		n.logger.Warn("notification skipped, customer not loaded", zap.String("appointment_id", appt.ID.String()))
		return nil
	}

	message, err := n.render(ctx, kind, appt)
	if err != nil {
		n.logger.Warn("notification template lookup failed", zap.String("kind", kind), zap.Error(err))
		return nil
	}

	channel, to := ChannelSMS, appt.Customer.Phone
	if strings.HasPrefix(to, "+") {
		channel = ChannelWhatsApp
	}

	entry := models.ReminderLog{
		AppointmentID: appt.ID,
		CustomerID:    appt.CustomerID,
		Kind:          kind,
		Channel:       channel,
		Message:       message,
		Status:        NotificationSkipped,
		SentAt:        n.now().UTC(),
	}

	if n.sender != nil {
		sid, err := n.sender.Send(ctx, channel, to, message)
		if err != nil {
			entry.Status = NotificationFailed
			entry.ErrorMessage = err.Error()
			n.logger.Warn("notification failed",
				zap.String("appointment_id", appt.ID.String()),
				zap.String("kind", kind),
				zap.Error(err),
			)
		} else {
			entry.Status = NotificationSent
			n.logger.Info("notification sent",
				zap.String("appointment_id", appt.ID.String()),
				zap.String("kind", kind),
				zap.String("sid", sid),
			)
		}
	}
	n.metrics.IncrNotification(kind, entry.Status)

	if err := n.db.WithContext(ctx).Create(&entry).Error; err != nil {
		n.logger.Error("failed to record notification", zap.String("appointment_id", appt.ID.String()), zap.Error(err))
	}
	return &entry
}

func (n *AppointmentNotifier) render(ctx context.Context, kind string, appt *models.Appointment) (string, error) {
	text := defaultTemplates[kind]

	var tmpl models.ReminderTemplate
	err := n.db.WithContext(ctx).Where("kind = ? AND is_active = ?", kind, true).First(&tmpl).Error
	switch {
	case err == nil:
		text = tmpl.Message
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return "", err
	}

	typeName := "appointment"
	if appt.AppointmentType != nil {
		typeName = appt.AppointmentType.Description
	}
	return strings.NewReplacer(
		"[CustomerName]", appt.Customer.FullName(),
		"[AppointmentType]", typeName,
		"[StartTime]", appt.StartTime.In(n.loc).Format("2006-01-02 15:04"),
	).Replace(text), nil
}
