package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"salonbiz-backend/apperr"
	"salonbiz-backend/models"
	"salonbiz-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleServiceErrorMapsTaxonomy(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperr.FieldValidation("quantity", "must be at least 1"), http.StatusBadRequest},
		{apperr.NotFound("order", uuid.New()), http.StatusNotFound},
		{apperr.Conflict("order type %q is in use", "Income"), http.StatusConflict},
		{apperr.Auth("invalid credentials"), http.StatusUnauthorized},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		c, rec := testContext(http.MethodGet, "/", "")
		handleServiceError(c, tc.err, zap.NewNop())
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
	}

	c, rec := testContext(http.MethodGet, "/", "")
	handleServiceError(c, apperr.FieldValidation("quantity", "must be at least 1"), zap.NewNop())
	assert.Equal(t, "must be at least 1", errorBody(t, rec).Fields["quantity"])

	c, rec = testContext(http.MethodGet, "/", "")
	handleServiceError(c, errors.New("pq: password authentication failed"), zap.NewNop())
	assert.Equal(t, "internal server error", errorBody(t, rec).Error)
}

func TestBindJSONReportsFieldsByJSONName(t *testing.T) {
	c, rec := testContext(http.MethodPost, "/", `{"customer":"`+uuid.NewString()+`","order_items":[{"quantity":0}]}`)
	var req CreateOrderRequest
	assert.False(t, bindJSON(c, &req))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	fields := errorBody(t, rec).Fields
	assert.Equal(t, "is required", fields["order_type"])
	assert.Equal(t, "is required", fields["payment_type"])
	assert.Equal(t, "is required", fields["order_items[0].order_item"])
	assert.Equal(t, "is required", fields["order_items[0].quantity"])
	assert.NotContains(t, fields, "customer")
}

func TestBindJSONReportsTypeMismatch(t *testing.T) {
	c, rec := testContext(http.MethodPost, "/", `{"quantity":"two"}`)
	var req UpdateLineRequest
	assert.False(t, bindJSON(c, &req))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorBody(t, rec).Fields, "quantity")
}

func TestQueryHelpers(t *testing.T) {
	c, _ := testContext(http.MethodGet, "/?is_active=false&tags=VIP,%20Loyal,,&created_after=2030-03-01", "")

	active, ok := queryBool(c, "is_active")
	require.True(t, ok)
	require.NotNil(t, active)
	assert.False(t, *active)

	assert.Equal(t, []string{"VIP", "Loyal"}, queryList(c, "tags"))

	after, ok := queryTime(c, "created_after", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC), *after)

	missing, ok := queryUUID(c, "customer")
	assert.True(t, ok)
	assert.Nil(t, missing)

	c, rec := testContext(http.MethodGet, "/?is_active=maybe", "")
	_, ok = queryBool(c, "is_active")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSerializeOrderRendersMoneyAsStrings(t *testing.T) {
	order := models.Order{
		Total: decimal.RequireFromString("19"),
		Lines: []models.OrderItemLine{{
			Quantity:   2,
			UnitPrice:  decimal.RequireFromString("9.5"),
			TotalPrice: decimal.RequireFromString("19"),
			OrderItem:  &models.OrderItem{Description: "Shampoo"},
		}},
		Customer: &models.Customer{FirstName: "Ana", LastName: "Souza"},
	}

	resp := serializeOrder(&order)
	assert.Equal(t, "19.00", resp.Total)
	assert.Equal(t, "Ana Souza", resp.CustomerName)
	require.Len(t, resp.OrderItems, 1)
	assert.Equal(t, "9.50", resp.OrderItems[0].UnitPrice)
	assert.Equal(t, "Shampoo", resp.OrderItems[0].OrderItemDescription)
	assert.Nil(t, resp.AppointmentInfo)
}
