package services

import (
	"context"
	"errors"
	"testing"

	"salonbiz-backend/apperr"
	"salonbiz-backend/models"
	"salonbiz-backend/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCatalogLowStockAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.Seed(t, db)
	ctx := context.Background()
	catalog := NewCatalogService(db)

	low, err := catalog.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, fx.Haircut.ID, low[0].ID)

	_, err = NewOrderService(db, zap.NewNop(), nil).CreateWithItems(ctx, orderInput(fx,
		LineInput{OrderItemID: fx.Haircut.ID, Quantity: 1},
	))
	require.NoError(t, err)

	err = catalog.Delete(ctx, fx.Haircut.ID)
	var cerr *apperr.ConflictError
	assert.True(t, errors.As(err, &cerr))
	require.NoError(t, catalog.Delete(ctx, fx.Shampoo.ID))
}

func TestCatalogPriceChangeKeepsSoldLines(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.Seed(t, db)
	ctx := context.Background()
	catalog := NewCatalogService(db)
	orders := NewOrderService(db, zap.NewNop(), nil)

	order, err := orders.CreateWithItems(ctx, orderInput(fx, LineInput{OrderItemID: fx.Shampoo.ID, Quantity: 2}))
	require.NoError(t, err)

	item, err := catalog.Update(ctx, fx.Shampoo.ID, OrderItemInput{UnitPrice: price("12.00")})
	require.NoError(t, err)
	assert.Equal(t, "12.00", item.UnitPrice.StringFixed(2))

	order, err = orders.RecomputeTotal(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "19.00", order.Total.StringFixed(2))

	var verr *apperr.ValidationError
	for _, bad := range []string{"-1", "1.005", "100000000"} {
		_, err = catalog.Create(ctx, OrderItemInput{Description: str("Gel"), UnitPrice: price(bad)})
		require.True(t, errors.As(err, &verr), "price %s", bad)
		assert.Contains(t, verr.Fields, "unit_price")
	}
	_, err = catalog.Update(ctx, fx.Shampoo.ID, OrderItemInput{UnitPrice: price("12.345")})
	require.True(t, errors.As(err, &verr))
}

func TestLabelStores(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.Seed(t, db)
	ctx := context.Background()
	payments := NewPaymentTypeStore(db)

	pix, err := payments.Create(ctx, "Pix")
	require.NoError(t, err)

	_, err = payments.Create(ctx, "Pix")
	var cerr *apperr.ConflictError
	assert.True(t, errors.As(err, &cerr))

	_, err = payments.Create(ctx, "a label that is far too long")
	var verr *apperr.ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = NewOrderService(db, zap.NewNop(), nil).CreateWithItems(ctx, orderInput(fx,
		LineInput{OrderItemID: fx.Shampoo.ID, Quantity: 1},
	))
	require.NoError(t, err)
	err = payments.Delete(ctx, fx.Cash.ID)
	assert.True(t, errors.As(err, &cerr))
	require.NoError(t, payments.Delete(ctx, pix.ID))

	require.NoError(t, EnsureReferenceData(ctx, db, zap.NewNop()))
	require.NoError(t, EnsureReferenceData(ctx, db, zap.NewNop()))
	types, err := NewOrderTypeStore(db).List(ctx)
	require.NoError(t, err)
	assert.Len(t, types, len(models.DefaultOrderTypes))
	all, err := payments.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(models.DefaultPaymentTypes))
}
