package user

import (
	"context"
	"testing"
	"time"

	"mothernatural-backend/pkg/config"
	"mothernatural-backend/pkg/middleware"
	"mothernatural-backend/services/settings"
	"mothernatural-backend/services/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db := testutil.NewTestDB(t,
		&User{},
		&settings.LowStockSettings{},
		&settings.LoyaltySettings{},
		&settings.GameSettings{},
	)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TokenTTL = time.Hour

	svc := NewService(ServiceParams{
		DB:       db,
		Config:   cfg,
		Settings: settings.NewService(settings.ServiceParams{DB: db}),
	})
	return svc, db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &RegisterRequest{
		Name:     "Maya Green",
		Email:    "Maya@Example.com",
		Password: "sunflower42",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "maya@example.com", resp.User.Email)
	assert.Equal(t, RoleMember, resp.User.Role)
	assert.Empty(t, resp.User.PasswordHash, "hash must not serialize")

	login, err := svc.Login(ctx, &LoginRequest{Email: "maya@example.com", Password: "sunflower42"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	claims, err := middleware.ParseToken(svc.cfg, login.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.Subject)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Name: "A", Email: "dup@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &RegisterRequest{Name: "B", Email: "dup@example.com", Password: "password2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Name: "A", Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginRequest{Email: "a@example.com", Password: "wrong-password"})
	require.Error(t, err)
}

func TestSignInAwardsPoints(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &RegisterRequest{Name: "A", Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	fresh, err := svc.Get(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, fresh.LoyaltyPoints, "registration counts as first sign-in")

	_, err = svc.Login(ctx, &LoginRequest{Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	fresh, err = svc.Get(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 10, fresh.LoyaltyPoints)
	assert.EqualValues(t, 10, fresh.TotalPointsEarned)
	assert.NotNil(t, fresh.LastSignInAt)
}

func TestSyncUpsert(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Sync(ctx, &SyncRequest{Email: "ext@example.com", Name: "Ext User", Provider: "google"})
	require.NoError(t, err)
	assert.Equal(t, "google", first.User.Provider)
	assert.NotEmpty(t, first.Token)

	second, err := svc.Sync(ctx, &SyncRequest{Email: "ext@example.com", Name: "Renamed User"})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID, "sync must not duplicate accounts")
	assert.Equal(t, "Renamed User", second.User.Name)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
