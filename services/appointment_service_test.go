package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"salonbiz-backend/apperr"
	"salonbiz-backend/models"
	"salonbiz-backend/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu    sync.Mutex
	kinds []string
}

func (r *recordingNotifier) Notify(_ context.Context, kind string, appt *models.Appointment) *models.ReminderLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, kind)
	return &models.ReminderLog{AppointmentID: appt.ID, Kind: kind, Status: NotificationSkipped}
}

func newAppointmentService(t *testing.T) (*AppointmentService, *recordingNotifier, *gorm.DB, *testutil.Fixtures) {
	t.Helper()
	db := testutil.NewDB(t)
	fx := testutil.Seed(t, db)
	n := &recordingNotifier{}
	return NewAppointmentService(db, zap.NewNop(), n, time.UTC), n, db, fx
}

func scheduleAt(t *testing.T, svc *AppointmentService, fx *testutil.Fixtures, start time.Time) *models.Appointment {
	t.Helper()
	end := start.Add(45 * time.Minute)
	appt, err := svc.Create(context.Background(), AppointmentInput{
		CustomerID:        &fx.Customer.ID,
		AppointmentTypeID: &fx.AppointmentType.ID,
		StartTime:         &start,
		EndTime:           &end,
	})
	require.NoError(t, err)
	return appt
}

func TestCreateAppointment(t *testing.T) {
	svc, _, _, fx := newAppointmentService(t)
	start := time.Date(2030, 3, 10, 14, 0, 0, 0, time.UTC)

	appt := scheduleAt(t, svc, fx, start)
	assert.Equal(t, models.StatusScheduled, appt.Status)
	assert.Equal(t, 45, appt.DurationMinutes())
	assert.Equal(t, "Haircut", appt.AppointmentType.Description)
	assert.Equal(t, "Ana Souza", appt.Customer.FullName())
}

func TestCreateAppointmentValidation(t *testing.T) {
	svc, _, _, fx := newAppointmentService(t)
	ctx := context.Background()
	start := time.Date(2030, 3, 10, 14, 0, 0, 0, time.UTC)
	before := start.Add(-time.Minute)

	_, err := svc.Create(ctx, AppointmentInput{
		CustomerID:        &fx.Customer.ID,
		AppointmentTypeID: &fx.AppointmentType.ID,
		StartTime:         &start,
		EndTime:           &before,
	})
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "end_time")

	end := start.Add(time.Hour)
	missing := uuid.New()
	_, err = svc.Create(ctx, AppointmentInput{
		CustomerID:        &missing,
		AppointmentTypeID: &fx.AppointmentType.ID,
		StartTime:         &start,
		EndTime:           &end,
	})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "customer")

	confirmed := models.StatusConfirmed
	_, err = svc.Create(ctx, AppointmentInput{
		CustomerID:        &fx.Customer.ID,
		AppointmentTypeID: &fx.AppointmentType.ID,
		StartTime:         &start,
		EndTime:           &end,
		Status:            &confirmed,
	})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "status")
}

func TestAppointmentStateMachine(t *testing.T) {
	svc, notifier, _, fx := newAppointmentService(t)
	ctx := context.Background()
	appt := scheduleAt(t, svc, fx, time.Date(2030, 3, 10, 14, 0, 0, 0, time.UTC))

	confirmed, err := svc.Confirm(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, confirmed.Status)

	// confirming twice changes nothing and sends nothing
	_, err = svc.Confirm(ctx, appt.ID)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, appt.ID, "client sick")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, "client sick", cancelled.CancellationReason)

	again, err := svc.Cancel(ctx, appt.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "client sick", again.CancellationReason)

	_, err = svc.Confirm(ctx, appt.ID)
	var verr *apperr.ValidationError
	assert.True(t, errors.As(err, &verr))

	assert.Equal(t, []string{models.ReminderKindConfirmation, models.ReminderKindCancellation}, notifier.kinds)
}

func TestUpdateStatusUsesStateMachine(t *testing.T) {
	svc, notifier, _, fx := newAppointmentService(t)
	ctx := context.Background()
	appt := scheduleAt(t, svc, fx, time.Date(2030, 3, 10, 14, 0, 0, 0, time.UTC))

	cancelled := models.StatusCancelled
	notes := "moved by phone"
	updated, err := svc.Update(ctx, appt.ID, AppointmentInput{Status: &cancelled, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)
	assert.Equal(t, notes, updated.Notes)
	assert.Equal(t, []string{models.ReminderKindCancellation}, notifier.kinds)

	scheduled := models.StatusScheduled
	_, err = svc.Update(ctx, appt.ID, AppointmentInput{Status: &scheduled})
	var verr *apperr.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestTodayAndUpcoming(t *testing.T) {
	svc, _, _, fx := newAppointmentService(t)
	ctx := context.Background()
	now := time.Date(2030, 3, 10, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	yesterday := scheduleAt(t, svc, fx, now.Add(-20*time.Hour))
	later := scheduleAt(t, svc, fx, now.Add(3*time.Hour))
	tomorrow := scheduleAt(t, svc, fx, now.Add(26*time.Hour))
	cancelled := scheduleAt(t, svc, fx, now.Add(48*time.Hour))
	_, err := svc.Cancel(ctx, cancelled.ID, "")
	require.NoError(t, err)

	today, err := svc.Today(ctx)
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, later.ID, today[0].ID)

	upcoming, err := svc.Upcoming(ctx)
	require.NoError(t, err)
	ids := []uuid.UUID{}
	for _, a := range upcoming {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []uuid.UUID{later.ID, tomorrow.ID}, ids)
	assert.NotContains(t, ids, yesterday.ID)
}

func TestDeleteAppointmentDetachesOrders(t *testing.T) {
	svc, _, db, fx := newAppointmentService(t)
	ctx := context.Background()
	appt := scheduleAt(t, svc, fx, time.Date(2030, 3, 10, 14, 0, 0, 0, time.UTC))

	orders := NewOrderService(db, zap.NewNop(), nil)
	in := orderInput(fx, LineInput{OrderItemID: fx.Shampoo.ID, Quantity: 1})
	in.AppointmentID = &appt.ID
	order, err := orders.CreateWithItems(ctx, in)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, appt.ID))

	order, err = orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, order.AppointmentID)

	_, err = svc.Get(ctx, appt.ID)
	var nf *apperr.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestListAppointments(t *testing.T) {
	svc, _, _, fx := newAppointmentService(t)
	ctx := context.Background()
	first := scheduleAt(t, svc, fx, time.Date(2030, 3, 10, 14, 0, 0, 0, time.UTC))
	second := scheduleAt(t, svc, fx, time.Date(2030, 3, 11, 14, 0, 0, 0, time.UTC))
	_, err := svc.Confirm(ctx, second.ID)
	require.NoError(t, err)

	appts, count, err := svc.List(ctx, AppointmentFilter{}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.Equal(t, second.ID, appts[0].ID)

	appts, count, err = svc.List(ctx, AppointmentFilter{Status: models.StatusScheduled, Search: "hair"}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, first.ID, appts[0].ID)
}
