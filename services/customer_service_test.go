package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"salonbiz-backend/apperr"
	"salonbiz-backend/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func str(s string) *string { return &s }

func customerInput(first, email string, tags ...string) CustomerInput {
	dob := time.Date(1988, 11, 2, 0, 0, 0, 0, time.UTC)
	return CustomerInput{
		FirstName:           str(first),
		LastName:            str("Lima"),
		Email:               str(email),
		Phone:               str("+5511988887777"),
		DateOfBirth:         &dob,
		Gender:              str("other"),
		AddressStreet:       str("Rua Augusta"),
		AddressNumber:       str("100"),
		AddressNeighborhood: str("Consolacao"),
		AddressCity:         str("Sao Paulo"),
		AddressState:        str("SP"),
		AddressZipCode:      str("01305-000"),
		AddressCountry:      str("Brazil"),
		Tags:                &tags,
	}
}

func TestCreateCustomer(t *testing.T) {
	svc := NewCustomerService(testutil.NewDB(t), zap.NewNop())
	ctx := context.Background()

	c, err := svc.Create(ctx, customerInput("Bia", "Bia@Example.com", "VIP"))
	require.NoError(t, err)
	assert.True(t, c.IsActive)
	assert.Equal(t, "bia@example.com", c.Email)
	assert.Equal(t, "Rua Augusta, 100, Consolacao, Sao Paulo, SP, 01305-000, Brazil", c.FullAddress())

	_, err = svc.Create(ctx, customerInput("Other", "bia@example.com"))
	var cerr *apperr.ConflictError
	assert.True(t, errors.As(err, &cerr))
}

func TestCreateCustomerValidation(t *testing.T) {
	svc := NewCustomerService(testutil.NewDB(t), zap.NewNop())

	_, err := svc.Create(context.Background(), CustomerInput{FirstName: str("Solo")})
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "date_of_birth")

	in := customerInput("Bia", "bia@example.com", "Gold")
	in.Phone = str("12ab")
	_, err = svc.Create(context.Background(), in)
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "phone")
	assert.Contains(t, verr.Fields, "tags")
}

func TestCustomerDeactivateAndFilter(t *testing.T) {
	svc := NewCustomerService(testutil.NewDB(t), zap.NewNop())
	ctx := context.Background()

	a, err := svc.Create(ctx, customerInput("Alice", "alice@example.com"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, customerInput("Bruna", "bruna@example.com"))
	require.NoError(t, err)

	off, err := svc.SetActive(ctx, a.ID, false)
	require.NoError(t, err)
	assert.False(t, off.IsActive)

	active := true
	list, count, err := svc.List(ctx, CustomerFilter{IsActive: &active}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, "Bruna", list[0].FirstName)

	list, count, err = svc.List(ctx, CustomerFilter{Search: "ALI"}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, a.ID, list[0].ID)
}

func TestAdvancedSearchRequiresEveryTag(t *testing.T) {
	svc := NewCustomerService(testutil.NewDB(t), zap.NewNop())
	ctx := context.Background()

	both, err := svc.Create(ctx, customerInput("Carla", "carla@example.com", "VIP", "Diabetic"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, customerInput("Dora", "dora@example.com", "VIP"))
	require.NoError(t, err)

	found, total, err := svc.Search(ctx, AdvancedSearch{Tags: []string{"VIP", "Diabetic"}}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, both.ID, found[0].ID)

	found, total, err = svc.Search(ctx, AdvancedSearch{Location: "paulo", Tags: []string{"VIP"}}, 2, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, found, 1)
	assert.Equal(t, "Dora", found[0].FirstName)
}
