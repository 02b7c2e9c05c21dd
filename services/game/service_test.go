package game

import (
	"context"
	"testing"
	"time"

	"mothernatural-backend/services/settings"
	"mothernatural-backend/services/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db := testutil.NewTestDB(t,
		&PlantGame{},
		&GameReward{},
		&settings.LowStockSettings{},
		&settings.LoyaltySettings{},
		&settings.GameSettings{},
	)
	return NewService(ServiceParams{
		DB:       db,
		Settings: settings.NewService(settings.ServiceParams{DB: db}),
	})
}

func startGame(t *testing.T, svc *Service, userID string) *PlantGame {
	t.Helper()
	row, err := svc.Start(context.Background(), userID, &StartRequest{
		RewardType:      "product",
		ManifestationID: "healing",
	})
	require.NoError(t, err)
	return row
}

func TestStartGame(t *testing.T) {
	svc := newTestService(t)

	row := startGame(t, svc, "user-1")
	assert.Equal(t, "Aloe Plant", row.PlantType)
	assert.Equal(t, 28, row.TargetDays)
	assert.Equal(t, "Free Product", row.RewardName)
	assert.InDelta(t, 28*24*time.Hour, row.EndsAt.Sub(row.StartedAt), float64(time.Second))
	assert.Zero(t, row.GrowthPercentage)
}

func TestStartRejectsSecondActiveGame(t *testing.T) {
	svc := newTestService(t)
	startGame(t, svc, "user-1")

	_, err := svc.Start(context.Background(), "user-1", &StartRequest{
		RewardType:      "class",
		ManifestationID: "peace",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already growing")
}

func TestStartValidatesCatalogs(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Start(ctx, "user-1", &StartRequest{RewardType: "car", ManifestationID: "healing"})
	require.Error(t, err)

	_, err = svc.Start(ctx, "user-1", &StartRequest{RewardType: "class", ManifestationID: "wealth"})
	require.Error(t, err)
}

func TestWaterCooldown(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	startGame(t, svc, "user-1")

	row, err := svc.Water(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, row.GrowthPercentage)
	assert.Equal(t, 1, row.WaterCount)

	_, err = svc.Water(ctx, "user-1")
	require.Error(t, err, "second water inside the cooldown must fail")

	// Jump past the 4h cooldown.
	svc.now = func() time.Time { return time.Now().Add(4*time.Hour + time.Minute) }
	row, err = svc.Water(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2.0, row.GrowthPercentage)
	assert.Equal(t, 2, row.WaterCount)
}

func TestFeedGrowth(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	startGame(t, svc, "user-1")

	row, err := svc.Feed(ctx, "user-1", &FeedRequest{Units: 3})
	require.NoError(t, err)
	assert.Equal(t, 6.0, row.GrowthPercentage)
}

func TestPurchaseGrowthThreshold(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	startGame(t, svc, "user-1")

	svc.AddPurchaseGrowth(ctx, "user-1", 4999)
	row, err := svc.ActiveGame(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5.0, row.GrowthPercentage)

	svc.AddPurchaseGrowth(ctx, "user-1", 5000)
	row, err = svc.ActiveGame(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 15.0, row.GrowthPercentage)
}

func TestGrowthCapsAndCompletes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	startGame(t, svc, "user-1")

	row, err := svc.Feed(ctx, "user-1", &FeedRequest{Units: 60})
	require.NoError(t, err)
	assert.Equal(t, 100.0, row.GrowthPercentage, "growth caps at 100")
	assert.True(t, row.Completed)
	require.NotNil(t, row.CompletedAt)

	active, err := svc.ActiveGame(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, active, "completed game is no longer active")

	rewards, err := svc.Rewards(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, rewards, 1)
	assert.Equal(t, "product", rewards[0].RewardType)
	assert.Nil(t, rewards[0].ClaimedAt)
}

func TestClaimRewardOnce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	startGame(t, svc, "user-1")

	_, err := svc.Feed(ctx, "user-1", &FeedRequest{Units: 50})
	require.NoError(t, err)

	rewards, err := svc.Rewards(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, rewards, 1)

	claimed, err := svc.ClaimReward(ctx, "user-1", rewards[0].ID)
	require.NoError(t, err)
	assert.NotNil(t, claimed.ClaimedAt)

	_, err = svc.ClaimReward(ctx, "user-1", rewards[0].ID)
	require.Error(t, err, "a reward claims exactly once")

	_, err = svc.ClaimReward(ctx, "someone-else", rewards[0].ID)
	require.Error(t, err, "players cannot claim another player's reward")
}

func TestLazyExpiry(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	row := startGame(t, svc, "user-1")

	svc.now = func() time.Time { return row.EndsAt.Add(time.Hour) }

	active, err := svc.ActiveGame(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, active, "past-deadline game expires on read")

	// Expired game frees the slot for a new one.
	svc.now = time.Now
	fresh, err := svc.Start(ctx, "user-1", &StartRequest{RewardType: "class", ManifestationID: "peace"})
	require.NoError(t, err)
	assert.Equal(t, 60, fresh.TargetDays)
}
