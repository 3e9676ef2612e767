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

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(testutil.NewDB(t), AuthConfig{
		Secret:     "test-secret",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}, zap.NewNop())
}

func register(t *testing.T, svc *AuthService) {
	t.Helper()
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "reception",
		Email:    "Front@Salon.test",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	register(t, svc)

	user, pair, err := svc.Login(ctx, "front@salon.test", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "reception", user.Username)
	assert.NotNil(t, user.LastLogin)
	assert.NotEqual(t, "s3cret-pass", user.Password)

	subject, err := svc.ValidateAccessToken(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), subject)

	_, err = svc.ValidateAccessToken(pair.Refresh)
	var aerr *apperr.AuthError
	assert.True(t, errors.As(err, &aerr), "refresh token must not pass as access token")

	_, _, err = svc.Login(ctx, "reception", "wrong-password")
	assert.True(t, errors.As(err, &aerr))
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t)
	register(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{Username: "x", Email: "nope", Password: "short"})
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")

	_, err = svc.Register(context.Background(), RegisterInput{Username: "reception", Email: "other@salon.test", Password: "long-enough"})
	var cerr *apperr.ConflictError
	assert.True(t, errors.As(err, &cerr))
}

func TestRefreshRotatesAndLogoutRevokes(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	register(t, svc)
	_, pair, err := svc.Login(ctx, "reception", "s3cret-pass")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Refresh, rotated.Refresh)

	_, err = svc.Refresh(ctx, pair.Refresh)
	var aerr *apperr.AuthError
	assert.True(t, errors.As(err, &aerr), "a rotated refresh token is single use")

	require.NoError(t, svc.Logout(ctx, rotated.Refresh))
	_, err = svc.Refresh(ctx, rotated.Refresh)
	assert.True(t, errors.As(err, &aerr))
}

func TestExpiredAccessToken(t *testing.T) {
	svc := newAuthService(t)
	register(t, svc)
	_, pair, err := svc.Login(context.Background(), "reception", "s3cret-pass")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = svc.ValidateAccessToken(pair.Access)
	var aerr *apperr.AuthError
	assert.True(t, errors.As(err, &aerr))
}

func TestUpdateProfile(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	register(t, svc)
	user, _, err := svc.Login(ctx, "reception", "s3cret-pass")
	require.NoError(t, err)

	first := "Maria"
	email := "maria@salon.test"
	updated, err := svc.UpdateProfile(ctx, user.ID, ProfileInput{FirstName: &first, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "Maria", updated.FirstName)
	assert.Equal(t, "maria@salon.test", updated.Email)

	bad := "invalid"
	_, err = svc.UpdateProfile(ctx, user.ID, ProfileInput{Email: &bad})
	var verr *apperr.ValidationError
	assert.True(t, errors.As(err, &verr))
}
