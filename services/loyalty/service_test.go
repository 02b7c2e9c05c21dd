package loyalty

import (
	"context"
	"testing"

	"mothernatural-backend/services/game"
	"mothernatural-backend/services/settings"
	"mothernatural-backend/services/testutil"
	"mothernatural-backend/services/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db := testutil.NewTestDB(t,
		&user.User{},
		&game.PlantGame{},
		&game.GameReward{},
		&settings.LowStockSettings{},
		&settings.LoyaltySettings{},
		&settings.GameSettings{},
	)

	settingsSvc := settings.NewService(settings.ServiceParams{DB: db})
	gameSvc := game.NewService(game.ServiceParams{DB: db, Settings: settingsSvc})
	svc := NewService(ServiceParams{DB: db, Settings: settingsSvc, Game: gameSvc})
	return svc, db
}

func seedUser(t *testing.T, db *gorm.DB, points int64) *user.User {
	t.Helper()
	record := &user.User{
		ID:                uuid.NewString(),
		Name:              "Member",
		Email:             uuid.NewString() + "@example.com",
		LoyaltyPoints:     points,
		TotalPointsEarned: points,
	}
	require.NoError(t, db.Create(record).Error)
	return record
}

func TestTierForPoints(t *testing.T) {
	cases := []struct {
		points   int64
		tier     string
		next     string
		progress float64
	}{
		{0, "seed", "root", 0},
		{50, "seed", "root", 50},
		{100, "root", "bloom", 0},
		{450, "root", "bloom", 87.5},
		{500, "bloom", "divine", 0},
		{999, "bloom", "divine", 99.8},
		{1000, "divine", "", 100},
		{5000, "divine", "", 100},
	}

	for _, tc := range cases {
		current, next, progress := TierForPoints(tc.points)
		assert.Equal(t, tc.tier, current.ID, "points=%d", tc.points)
		if tc.next == "" {
			assert.Nil(t, next, "points=%d", tc.points)
		} else {
			require.NotNil(t, next, "points=%d", tc.points)
			assert.Equal(t, tc.next, next.ID, "points=%d", tc.points)
		}
		assert.InDelta(t, tc.progress, progress, 0.01, "points=%d", tc.points)
	}
}

func TestStats(t *testing.T) {
	svc, db := newTestService(t)
	record := seedUser(t, db, 450)

	stats, err := svc.Stats(context.Background(), record.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 450, stats.Points)
	assert.Equal(t, "root", stats.Tier.ID)
	require.NotNil(t, stats.NextTier)
	assert.Equal(t, "bloom", stats.NextTier.ID)
	assert.InDelta(t, 87.5, stats.TierProgress, 0.01)
}

func TestStatsTierFollowsLifetimeEarnings(t *testing.T) {
	svc, db := newTestService(t)

	// A member who earned 500 points but spent most of them keeps the
	// tier their lifetime earnings reached.
	record := &user.User{
		ID:                uuid.NewString(),
		Email:             uuid.NewString() + "@example.com",
		LoyaltyPoints:     50,
		TotalPointsEarned: 500,
	}
	require.NoError(t, db.Create(record).Error)

	stats, err := svc.Stats(context.Background(), record.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 50, stats.Points)
	assert.Equal(t, "bloom", stats.Tier.ID, "spending points must not demote the tier")
}

func TestGenerateReferralCodeIsStable(t *testing.T) {
	svc, db := newTestService(t)
	record := seedUser(t, db, 0)
	ctx := context.Background()

	code, err := svc.GenerateReferralCode(ctx, record.ID)
	require.NoError(t, err)
	assert.Len(t, code, referralCodeLength)

	again, err := svc.GenerateReferralCode(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, code, again)
}

func TestRedeemReferral(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	referrer := seedUser(t, db, 0)
	redeemer := seedUser(t, db, 0)

	code, err := svc.GenerateReferralCode(ctx, referrer.ID)
	require.NoError(t, err)

	result, err := svc.RedeemReferral(ctx, redeemer.ID, &RedeemReferralRequest{Code: code})
	require.NoError(t, err)
	assert.EqualValues(t, 100, result.PointsAwarded)

	var fresh user.User
	require.NoError(t, db.First(&fresh, "id = ?", referrer.ID).Error)
	assert.EqualValues(t, 100, fresh.LoyaltyPoints)
	assert.Equal(t, 1, fresh.ReferralCount)

	var redeemed user.User
	require.NoError(t, db.First(&redeemed, "id = ?", redeemer.ID).Error)
	assert.Equal(t, referrer.ID, redeemed.ReferredBy)

	// Second redemption on the same account fails.
	_, err = svc.RedeemReferral(ctx, redeemer.ID, &RedeemReferralRequest{Code: code})
	require.Error(t, err)
}

func TestRedeemOwnCodeRejected(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	record := seedUser(t, db, 0)

	code, err := svc.GenerateReferralCode(ctx, record.ID)
	require.NoError(t, err)

	_, err = svc.RedeemReferral(ctx, record.ID, &RedeemReferralRequest{Code: code})
	require.Error(t, err)
}

func TestRedeemUnknownCode(t *testing.T) {
	svc, db := newTestService(t)
	record := seedUser(t, db, 0)

	_, err := svc.RedeemReferral(context.Background(), record.ID, &RedeemReferralRequest{Code: "NOPE1234"})
	require.Error(t, err)
}

func TestRedeemReferralGrowsReferrerPlant(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	referrer := seedUser(t, db, 0)
	redeemer := seedUser(t, db, 0)

	_, err := svc.game.Start(ctx, referrer.ID, &game.StartRequest{RewardType: "product", ManifestationID: "growth"})
	require.NoError(t, err)

	code, err := svc.GenerateReferralCode(ctx, referrer.ID)
	require.NoError(t, err)

	_, err = svc.RedeemReferral(ctx, redeemer.ID, &RedeemReferralRequest{Code: code})
	require.NoError(t, err)

	plant, err := svc.game.ActiveGame(ctx, referrer.ID)
	require.NoError(t, err)
	require.NotNil(t, plant)
	assert.Equal(t, 5.0, plant.GrowthPercentage)
}

func TestAwardPurchasePoints(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	record := seedUser(t, db, 0)

	points, err := svc.AwardPurchasePoints(ctx, record.ID, 6050)
	require.NoError(t, err)
	assert.EqualValues(t, 60, points, "points round down to whole dollars")

	var fresh user.User
	require.NoError(t, db.First(&fresh, "id = ?", record.ID).Error)
	assert.EqualValues(t, 60, fresh.LoyaltyPoints)

	points, err = svc.AwardPurchasePoints(ctx, record.ID, 50)
	require.NoError(t, err)
	assert.Zero(t, points, "sub-dollar orders earn nothing")
}
