package services

import (
	"context"
	"testing"
	"time"

	"salonbiz-backend/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDashboardOverview(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.Seed(t, db)
	ctx := context.Background()
	now := time.Now().UTC()

	appts := NewAppointmentService(db, zap.NewNop(), nil, time.UTC)
	reports := NewReportService(db, time.UTC)
	scheduleAt(t, appts, fx, now.Add(24*time.Hour))

	_, err := NewOrderService(db, zap.NewNop(), nil).CreateWithItems(ctx, orderInput(fx,
		LineInput{OrderItemID: fx.Haircut.ID, Quantity: 2},
	))
	require.NoError(t, err)

	overview, err := NewDashboardService(db, appts, reports, NewCatalogService(db)).Overview(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 1, overview.ActiveCustomers)
	assert.Len(t, overview.UpcomingAppointments, 1)
	assert.Equal(t, "80.00", overview.ThisMonth.Income.StringFixed(2))
	assert.Equal(t, "80.00", overview.ThisMonth.NetProfit.StringFixed(2))
	require.Len(t, overview.LowStockItems, 1)
	assert.Equal(t, "Haircut", overview.LowStockItems[0].Description)
}
