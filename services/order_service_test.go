package services

import (
	"context"
	"errors"
	"testing"

	"salonbiz-backend/apperr"
	"salonbiz-backend/config"
	"salonbiz-backend/models"
	"salonbiz-backend/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newOrderService(t *testing.T) (*OrderService, *gorm.DB, *testutil.Fixtures) {
	t.Helper()
	db := testutil.NewDB(t)
	fx := testutil.Seed(t, db)
	return NewOrderService(db, zap.NewNop(), config.NewMetrics()), db, fx
}

func orderInput(fx *testutil.Fixtures, items ...LineInput) CreateOrderInput {
	return CreateOrderInput{
		CustomerID:    fx.Customer.ID,
		OrderTypeID:   fx.Income.ID,
		PaymentTypeID: fx.Cash.ID,
		Items:         items,
	}
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCreateWithItemsComputesTotal(t *testing.T) {
	svc, _, fx := newOrderService(t)
	ctx := context.Background()

	order, err := svc.CreateWithItems(ctx, orderInput(fx,
		LineInput{OrderItemID: fx.Shampoo.ID, Quantity: 2, UnitPrice: price("9.50")},
	))
	require.NoError(t, err)

	assert.Equal(t, "19.00", order.Total.StringFixed(2))
	require.Len(t, order.Lines, 1)
	assert.Equal(t, "19.00", order.Lines[0].TotalPrice.StringFixed(2))
	assert.Equal(t, "Shampoo", order.Lines[0].OrderItem.Description)
	assert.Equal(t, models.OrderTypeIncome, order.OrderType.Type)
	assert.Equal(t, "Ana", order.Customer.FirstName)
}

func TestCreateWithItemsUsesCatalogPrice(t *testing.T) {
	svc, _, fx := newOrderService(t)

	order, err := svc.CreateWithItems(context.Background(), orderInput(fx,
		LineInput{OrderItemID: fx.Haircut.ID, Quantity: 1},
		LineInput{OrderItemID: fx.Shampoo.ID, Quantity: 3},
	))
	require.NoError(t, err)

	assert.Equal(t, "68.50", order.Total.StringFixed(2))
	assert.Len(t, order.Lines, 2)
}

func TestCreateWithItemsRejectsEmptyItems(t *testing.T) {
	svc, db, fx := newOrderService(t)

	_, err := svc.CreateWithItems(context.Background(), orderInput(fx))
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "order_items")

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateWithItemsPersistsNothingOnMissingReference(t *testing.T) {
	svc, db, fx := newOrderService(t)
	ctx := context.Background()

	_, err := svc.CreateWithItems(ctx, orderInput(fx,
		LineInput{OrderItemID: fx.Shampoo.ID, Quantity: 1},
		LineInput{OrderItemID: uuid.New(), Quantity: 1},
	))
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "order_items[1].order_item")

	in := orderInput(fx, LineInput{OrderItemID: fx.Shampoo.ID, Quantity: 1})
	in.PaymentTypeID = uuid.New()
	_, err = svc.CreateWithItems(ctx, in)
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "payment_type")

	var orders, lines int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItemLine{}).Count(&lines).Error)
	assert.Zero(t, orders)
	assert.Zero(t, lines)
}

func TestCreateWithItemsRejectsUnstorablePrices(t *testing.T) {
	svc, db, fx := newOrderService(t)
	ctx := context.Background()

	_, err := svc.CreateWithItems(ctx, orderInput(fx,
		LineInput{OrderItemID: fx.Haircut.ID, Quantity: 1},
		LineInput{OrderItemID: fx.Shampoo.ID, Quantity: 2, UnitPrice: price("0.125")},
	))
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "order_items[1].unit_price")

	_, err = svc.CreateWithItems(ctx, orderInput(fx,
		LineInput{OrderItemID: fx.Shampoo.ID, Quantity: 1, UnitPrice: price("1000000000")},
	))
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "order_items[0].unit_price")

	_, err = svc.CreateWithItems(ctx, orderInput(fx,
		LineInput{OrderItemID: fx.Shampoo.ID, Quantity: 3, UnitPrice: price("40000000.00")},
	))
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "order_items[0].total_price")

	_, err = svc.CreateWithItems(ctx, orderInput(fx,
		LineInput{OrderItemID: fx.Shampoo.ID, Quantity: 1, UnitPrice: price("60000000.00")},
		LineInput{OrderItemID: fx.Haircut.ID, Quantity: 1, UnitPrice: price("40000000.00")},
	))
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "total")

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestStoredLinesMatchOrderTotal(t *testing.T) {
	svc, _, fx := newOrderService(t)
	ctx := context.Background()

	order, err := svc.CreateWithItems(ctx, orderInput(fx,
		LineInput{OrderItemID: fx.Shampoo.ID, Quantity: 3, UnitPrice: price("0.130")},
		LineInput{OrderItemID: fx.Haircut.ID, Quantity: 1},
	))
	require.NoError(t, err)

	sum := decimal.Zero
	for _, line := range order.Lines {
		want := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		assert.True(t, want.Equal(line.TotalPrice), "line %s: %s x %d != %s",
			line.ID, line.UnitPrice, line.Quantity, line.TotalPrice)
		sum = sum.Add(line.TotalPrice)
	}
	assert.True(t, sum.Equal(order.Total), "sum %s != total %s", sum, order.Total)
	assert.Equal(t, "40.39", order.Total.StringFixed(2))

	_, err = svc.AddLine(ctx, LineWriteInput{
		OrderID:     &order.ID,
		OrderItemID: &fx.Shampoo.ID,
		Quantity:    intPtr(1),
		UnitPrice:   price("2.005"),
	})
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "unit_price")

	line := order.Lines[0]
	_, err = svc.UpdateLine(ctx, line.ID, LineWriteInput{Quantity: intPtr(5), UnitPrice: price("99999999.00")})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "total_price")

	reloaded, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "40.39", reloaded.Total.StringFixed(2))
}

func TestLineMutationsRecomputeTotal(t *testing.T) {
	svc, _, fx := newOrderService(t)
	ctx := context.Background()

	order, err := svc.CreateWithItems(ctx, orderInput(fx,
		LineInput{OrderItemID: fx.Shampoo.ID, Quantity: 2, UnitPrice: price("9.50")},
		LineInput{OrderItemID: fx.Haircut.ID, Quantity: 1},
	))
	require.NoError(t, err)
	require.Equal(t, "59.00", order.Total.StringFixed(2))

	added, err := svc.AddLine(ctx, LineWriteInput{
		OrderID:     &order.ID,
		OrderItemID: &fx.Shampoo.ID,
		Quantity:    intPtr(1),
		UnitPrice:   price("5.25"),
	})
	require.NoError(t, err)
	assert.Equal(t, "5.25", added.TotalPrice.StringFixed(2))

	order, err = svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "64.25", order.Total.StringFixed(2))

	_, err = svc.UpdateLine(ctx, added.ID, LineWriteInput{Quantity: intPtr(4)})
	require.NoError(t, err)
	order, err = svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "80.00", order.Total.StringFixed(2))

	require.NoError(t, svc.RemoveLine(ctx, added.ID))
	order, err = svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "59.00", order.Total.StringFixed(2))
	assert.Len(t, order.Lines, 2)
}

func TestRemoveLastLineIsRejected(t *testing.T) {
	svc, _, fx := newOrderService(t)
	ctx := context.Background()

	order, err := svc.CreateWithItems(ctx, orderInput(fx,
		LineInput{OrderItemID: fx.Shampoo.ID, Quantity: 1},
		LineInput{OrderItemID: fx.Haircut.ID, Quantity: 1},
	))
	require.NoError(t, err)

	shampoo, haircut := lineFor(order, fx.Shampoo.ID), lineFor(order, fx.Haircut.ID)
	require.NoError(t, svc.RemoveLine(ctx, shampoo.ID))
	err = svc.RemoveLine(ctx, haircut.ID)
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))

	order, err = svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, order.Lines, 1)
	assert.Equal(t, "40.00", order.Total.StringFixed(2))
}

func TestMovingLineRecomputesBothOrders(t *testing.T) {
	svc, _, fx := newOrderService(t)
	ctx := context.Background()

	first, err := svc.CreateWithItems(ctx, orderInput(fx,
		LineInput{OrderItemID: fx.Shampoo.ID, Quantity: 2},
		LineInput{OrderItemID: fx.Haircut.ID, Quantity: 1},
	))
	require.NoError(t, err)
	second, err := svc.CreateWithItems(ctx, orderInput(fx,
		LineInput{OrderItemID: fx.Haircut.ID, Quantity: 1},
	))
	require.NoError(t, err)

	_, err = svc.UpdateLine(ctx, lineFor(first, fx.Shampoo.ID).ID, LineWriteInput{OrderID: &second.ID})
	require.NoError(t, err)

	first, err = svc.Get(ctx, first.ID)
	require.NoError(t, err)
	second, err = svc.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "40.00", first.Total.StringFixed(2))
	assert.Equal(t, "59.00", second.Total.StringFixed(2))

	// the source order would be left empty
	_, err = svc.UpdateLine(ctx, first.Lines[0].ID, LineWriteInput{OrderID: &second.ID})
	var verr *apperr.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestRecomputeTotalRepairsDrift(t *testing.T) {
	svc, db, fx := newOrderService(t)
	ctx := context.Background()

	order, err := svc.CreateWithItems(ctx, orderInput(fx,
		LineInput{OrderItemID: fx.Shampoo.ID, Quantity: 2, UnitPrice: price("9.50")},
	))
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).Update("total", "1.00").Error)

	order, err = svc.RecomputeTotal(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "19.00", order.Total.StringFixed(2))
}

func TestUpdateHeaderAndDelete(t *testing.T) {
	svc, db, fx := newOrderService(t)
	ctx := context.Background()

	order, err := svc.CreateWithItems(ctx, orderInput(fx,
		LineInput{OrderItemID: fx.Shampoo.ID, Quantity: 1},
	))
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, order.ID, UpdateOrderInput{OrderTypeID: &fx.Expense.ID}))
	order, err = svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderTypeExpense, order.OrderType.Type)
	assert.Equal(t, "9.50", order.Total.StringFixed(2))

	missing := uuid.New()
	err = svc.Update(ctx, order.ID, UpdateOrderInput{CustomerID: &missing})
	var verr *apperr.ValidationError
	assert.True(t, errors.As(err, &verr))

	require.NoError(t, svc.Delete(ctx, order.ID))
	var lines int64
	require.NoError(t, db.Model(&models.OrderItemLine{}).Where("order_id = ?", order.ID).Count(&lines).Error)
	assert.Zero(t, lines)

	_, err = svc.Get(ctx, order.ID)
	var nf *apperr.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestListLinesFilters(t *testing.T) {
	svc, _, fx := newOrderService(t)
	ctx := context.Background()

	order, err := svc.CreateWithItems(ctx, orderInput(fx,
		LineInput{OrderItemID: fx.Shampoo.ID, Quantity: 2},
		LineInput{OrderItemID: fx.Haircut.ID, Quantity: 1},
	))
	require.NoError(t, err)

	lines, count, err := svc.ListLines(ctx, LineFilter{OrderID: &order.ID, Search: "sham"}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, lines, 1)
	assert.Equal(t, fx.Shampoo.ID, lines[0].OrderItemID)

	_, _, err = svc.ListLines(ctx, LineFilter{Ordering: "bogus"}, 1, 20)
	var verr *apperr.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func intPtr(v int) *int { return &v }

func lineFor(order *models.Order, itemID uuid.UUID) models.OrderItemLine {
	for _, l := range order.Lines {
		if l.OrderItemID == itemID {
			return l
		}
	}
	return models.OrderItemLine{}
}
