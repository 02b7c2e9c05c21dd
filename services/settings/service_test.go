package settings

import (
	"context"
	"testing"

	"mothernatural-backend/services/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db := testutil.NewTestDB(t, &LowStockSettings{}, &LoyaltySettings{}, &GameSettings{})
	return NewService(ServiceParams{DB: db})
}

func TestDefaultsSeedOnFirstRead(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	low, err := svc.LowStock(ctx)
	require.NoError(t, err)
	assert.True(t, low.Enabled)
	assert.Equal(t, 5, low.DefaultThreshold)

	loyalty, err := svc.Loyalty(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, loyalty.PointsPerDollar)
	assert.EqualValues(t, 100, loyalty.ReferralPoints)
	assert.EqualValues(t, 5, loyalty.SignInPoints)

	game, err := svc.Game(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, game.WaterCooldownHours)
	assert.EqualValues(t, 5000, game.LargePurchaseThreshold)
}

func TestUpdateLowStockPersistsDisable(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	enabled := false
	email := "alerts@example.com"
	_, err := svc.UpdateLowStock(ctx, &UpdateLowStockRequest{Enabled: &enabled, NotificationEmail: &email})
	require.NoError(t, err)

	row, err := svc.LowStock(ctx)
	require.NoError(t, err)
	assert.False(t, row.Enabled, "disabling must stick")
	assert.Equal(t, email, row.NotificationEmail)
}

func TestUpdateLowStockRejectsNegativeThreshold(t *testing.T) {
	svc := newTestService(t)
	bad := -1
	_, err := svc.UpdateLowStock(context.Background(), &UpdateLowStockRequest{DefaultThreshold: &bad})
	require.Error(t, err)
}

func TestUpdateLoyalty(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	rate := 2.0
	_, err := svc.UpdateLoyalty(ctx, &UpdateLoyaltyRequest{PointsPerDollar: &rate})
	require.NoError(t, err)

	row, err := svc.Loyalty(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, row.PointsPerDollar)
	assert.EqualValues(t, 100, row.ReferralPoints, "untouched fields keep defaults")
}

func TestUpdateGame(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cooldown := 6
	threshold := int64(10000)
	_, err := svc.UpdateGame(ctx, &UpdateGameRequest{
		WaterCooldownHours:     &cooldown,
		LargePurchaseThreshold: &threshold,
	})
	require.NoError(t, err)

	row, err := svc.Game(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, row.WaterCooldownHours)
	assert.EqualValues(t, 10000, row.LargePurchaseThreshold)
	assert.Equal(t, 1.0, row.WaterGrowth, "untouched fields keep defaults")
}

func TestUpdateGameRejectsNegativeCooldown(t *testing.T) {
	svc := newTestService(t)
	bad := -1
	_, err := svc.UpdateGame(context.Background(), &UpdateGameRequest{WaterCooldownHours: &bad})
	require.Error(t, err)
}

func TestUpdateGameRejectsNegativeGrowth(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	bad := -1.0

	for name, req := range map[string]*UpdateGameRequest{
		"water":         {WaterGrowth: &bad},
		"feed":          {FeedGrowthPerUnit: &bad},
		"referral":      {ReferralGrowth: &bad},
		"smallPurchase": {SmallPurchaseGrowth: &bad},
		"largePurchase": {LargePurchaseGrowth: &bad},
	} {
		_, err := svc.UpdateGame(ctx, req)
		require.Error(t, err, "field %s must reject negatives", name)
	}

	row, err := svc.Game(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, row.WaterGrowth, "rejected updates leave defaults intact")
}
