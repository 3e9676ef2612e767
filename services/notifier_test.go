package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"salonbiz-backend/config"
	"salonbiz-backend/models"
	"salonbiz-backend/testutil"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	err      error
	channels []string
	to       []string
	bodies   []string
}

func (f *fakeSender) Send(_ context.Context, channel, to, body string) (string, error) {
	f.channels = append(f.channels, channel)
	f.to = append(f.to, to)
	f.bodies = append(f.bodies, body)
	if f.err != nil {
		return "", f.err
	}
	return "SM123", nil
}

func TestNotifyRendersTemplateAndLogs(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.Seed(t, db)
	ctx := context.Background()
	sender := &fakeSender{}
	metrics := config.NewMetrics()
	notifier := NewAppointmentNotifier(db, sender, zap.NewNop(), metrics, time.UTC)
	appts := NewAppointmentService(db, zap.NewNop(), notifier, time.UTC)

	_, err := NewReminderTemplateService(db).Create(ctx, ReminderTemplateInput{
		Kind:    str(models.ReminderKindConfirmation),
		Message: str("Ola [CustomerName]! [AppointmentType] em [StartTime]."),
	})
	require.NoError(t, err)

	appt := scheduleAt(t, appts, fx, time.Date(2030, 3, 10, 14, 30, 0, 0, time.UTC))
	_, err = appts.Confirm(ctx, appt.ID)
	require.NoError(t, err)

	require.Len(t, sender.bodies, 1)
	assert.Equal(t, "Ola Ana Souza! Haircut em 2030-03-10 14:30.", sender.bodies[0])
	assert.Equal(t, ChannelWhatsApp, sender.channels[0])
	assert.Equal(t, "+5511999990000", sender.to[0])

	logs, count, err := NewReminderTemplateService(db).Logs(ctx, ReminderLogFilter{AppointmentID: &appt.ID}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, NotificationSent, logs[0].Status)
	assert.Equal(t, models.ReminderKindConfirmation, logs[0].Kind)
	series, err := promtest.GatherAndCount(metrics.Registry, "salonbiz_notifications_total")
	require.NoError(t, err)
	assert.Equal(t, 1, series)
}

func TestNotifyRecordsFailureAndSkip(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.Seed(t, db)
	ctx := context.Background()
	appts := NewAppointmentService(db, zap.NewNop(), nil, time.UTC)
	appt := scheduleAt(t, appts, fx, time.Date(2030, 3, 10, 14, 30, 0, 0, time.UTC))

	failing := NewAppointmentNotifier(db, &fakeSender{err: errors.New("boom")}, zap.NewNop(), nil, time.UTC)
	entry := failing.Notify(ctx, models.ReminderKindReminder, appt)
	require.NotNil(t, entry)
	assert.Equal(t, NotificationFailed, entry.Status)
	assert.Contains(t, entry.ErrorMessage, "boom")
	assert.Contains(t, entry.Message, "reminder of your Haircut")

	skipping := NewAppointmentNotifier(db, nil, zap.NewNop(), nil, time.UTC)
	entry = skipping.Notify(ctx, models.ReminderKindCancellation, appt)
	require.NotNil(t, entry)
	assert.Equal(t, NotificationSkipped, entry.Status)

	_, count, err := NewReminderTemplateService(db).Logs(ctx, ReminderLogFilter{CustomerID: &fx.Customer.ID}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestSendDailyRemindersCoversTomorrowOnly(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.Seed(t, db)
	ctx := context.Background()
	sender := &fakeSender{}
	notifier := NewAppointmentNotifier(db, sender, zap.NewNop(), nil, time.UTC)
	appts := NewAppointmentService(db, zap.NewNop(), nil, time.UTC)

	now := time.Date(2030, 3, 10, 9, 0, 0, 0, time.UTC)
	scheduleAt(t, appts, fx, now.Add(2*time.Hour))
	tomorrow := scheduleAt(t, appts, fx, now.Add(25*time.Hour))
	cancelled := scheduleAt(t, appts, fx, now.Add(26*time.Hour))
	_, err := appts.Cancel(ctx, cancelled.ID, "")
	require.NoError(t, err)
	scheduleAt(t, appts, fx, now.Add(50*time.Hour))

	reminders := NewReminderService(appts, notifier, zap.NewNop(), "0 9 * * *", time.UTC)
	reminders.now = func() time.Time { return now }

	logs, err := reminders.SendDailyReminders(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, tomorrow.ID, logs[0].AppointmentID)
	assert.Equal(t, models.ReminderKindReminder, logs[0].Kind)
	assert.Len(t, sender.bodies, 1)
}

func TestReminderServiceRejectsBadSchedule(t *testing.T) {
	reminders := NewReminderService(nil, nil, zap.NewNop(), "not a schedule", time.UTC)
	assert.Error(t, reminders.Start())
	reminders.Stop()
}

func TestReminderTemplateKindIsUnique(t *testing.T) {
	svc := NewReminderTemplateService(testutil.NewDB(t))
	ctx := context.Background()

	tmpl, err := svc.Create(ctx, ReminderTemplateInput{Kind: str(models.ReminderKindReminder), Message: str("see you")})
	require.NoError(t, err)
	assert.True(t, tmpl.IsActive)

	_, err = svc.Create(ctx, ReminderTemplateInput{Kind: str(models.ReminderKindReminder), Message: str("again")})
	assert.Error(t, err)

	_, err = svc.Create(ctx, ReminderTemplateInput{Kind: str("birthday"), Message: str("x")})
	assert.Error(t, err)

	off := false
	updated, err := svc.Update(ctx, tmpl.ID, ReminderTemplateInput{IsActive: &off})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	require.NoError(t, svc.Delete(ctx, tmpl.ID))
	assert.Error(t, svc.Delete(ctx, tmpl.ID))
}
