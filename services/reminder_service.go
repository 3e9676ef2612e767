package services

import (
	"context"
	"fmt"
	"time"

	"salonbiz-backend/models"
	"salonbiz-backend/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReminderService sends a reminder for every active appointment starting the
// next day. It runs on a cron schedule in the reporting time zone.
type ReminderService struct {
	appts    *AppointmentService
	notifier Notifier
	logger   *zap.Logger
	schedule string
	loc      *time.Location
	now      func() time.Time
	cron     *cron.Cron
}

func NewReminderService(appts *AppointmentService, notifier Notifier, logger *zap.Logger, schedule string, loc *time.Location) *ReminderService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReminderService{
		appts:    appts,
		notifier: notifier,
		logger:   logger,
		schedule: schedule,
		loc:      loc,
		now:      time.Now,
	}
}

// Start registers the daily job and starts the scheduler.
func (s *ReminderService) Start() error {
	c := cron.New(cron.WithLocation(s.loc))
	_, err := c.AddFunc(s.schedule, func() {
		if _, err := s.SendDailyReminders(context.Background()); err != nil {
			s.logger.Error("daily reminders failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reminders %q: %w", s.schedule, err)
	}
	c.Start()
	s.cron = c
	s.logger.Info("reminder scheduler started", zap.String("schedule", s.schedule))
	return nil
}

// Stop waits for a running job to finish.
func (s *ReminderService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// SendDailyReminders notifies customers of tomorrow's appointments and
// returns the recorded attempts.
func (s *ReminderService) SendDailyReminders(ctx context.Context) ([]models.ReminderLog, error) {
	start, end := utils.DayWindow(s.now().In(s.loc).AddDate(0, 0, 1), s.loc)
	appts, err := s.appts.Between(ctx, start, end)
	if err != nil {
		return nil, err
	}

	logs := make([]models.ReminderLog, 0, len(appts))
	for i := range appts {
		if entry := s.notifier.Notify(ctx, models.ReminderKindReminder, &appts[i]); entry != nil {
			logs = append(logs, *entry)
		}
	}
	s.logger.Info("daily reminders processed",
		zap.Int("appointments", len(appts)),
		zap.Int("attempts", len(logs)),
	)
	return logs, nil
}
