package settings

import (
	"context"

	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/pkg/repository"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	lowStock repository.Repository[LowStockSettings]
	loyalty  repository.Repository[LoyaltySettings]
	game     repository.Repository[GameSettings]
}

type ServiceParams struct {
	fx.In
	DB *gorm.DB
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:       p.DB,
		lowStock: repository.ProvideStore[LowStockSettings](p.DB),
		loyalty:  repository.ProvideStore[LoyaltySettings](p.DB),
		game:     repository.ProvideStore[GameSettings](p.DB),
	}
}

// LowStock returns the restock alert settings, creating defaults on
// first read.
func (s *Service) LowStock(ctx context.Context) (*LowStockSettings, error) {
	row, err := s.lowStock.FindOne(ctx, &LowStockSettings{ID: singletonID})
	if err != nil {
		return nil, errutil.Internal("failed to load low stock settings", err)
	}
	if row == nil {
		row = defaultLowStock()
		if err := s.lowStock.Create(ctx, row); err != nil {
			return nil, errutil.Internal("failed to seed low stock settings", err)
		}
	}
	return row, nil
}

type UpdateLowStockRequest struct {
	Enabled           *bool   `json:"enabled"`
	NotificationEmail *string `json:"notificationEmail"`
	DefaultThreshold  *int    `json:"defaultThreshold"`
}

func (s *Service) UpdateLowStock(ctx context.Context, req *UpdateLowStockRequest) (*LowStockSettings, error) {
	row, err := s.LowStock(ctx)
	if err != nil {
		return nil, err
	}

	if req.Enabled != nil {
		row.Enabled = *req.Enabled
	}
	if req.NotificationEmail != nil {
		row.NotificationEmail = *req.NotificationEmail
	}
	if req.DefaultThreshold != nil {
		if *req.DefaultThreshold < 0 {
			return nil, errutil.ValidationFailed("defaultThreshold must not be negative", nil)
		}
		row.DefaultThreshold = *req.DefaultThreshold
	}

	patch := map[string]any{
		"enabled":            row.Enabled,
		"notification_email": row.NotificationEmail,
		"default_threshold":  row.DefaultThreshold,
	}
	if err := s.lowStock.Update(ctx, row.ID, patch); err != nil {
		return nil, errutil.Internal("failed to update low stock settings", err)
	}
	return row, nil
}

// Loyalty returns the accrual settings, creating defaults on first read.
func (s *Service) Loyalty(ctx context.Context) (*LoyaltySettings, error) {
	row, err := s.loyalty.FindOne(ctx, &LoyaltySettings{ID: singletonID})
	if err != nil {
		return nil, errutil.Internal("failed to load loyalty settings", err)
	}
	if row == nil {
		row = defaultLoyalty()
		if err := s.loyalty.Create(ctx, row); err != nil {
			return nil, errutil.Internal("failed to seed loyalty settings", err)
		}
	}
	return row, nil
}

type UpdateLoyaltyRequest struct {
	PointsPerDollar *float64 `json:"pointsPerDollar"`
	ReferralPoints  *int64   `json:"referralPoints"`
	SignInPoints    *int64   `json:"signInPoints"`
}

func (s *Service) UpdateLoyalty(ctx context.Context, req *UpdateLoyaltyRequest) (*LoyaltySettings, error) {
	row, err := s.Loyalty(ctx)
	if err != nil {
		return nil, err
	}

	if req.PointsPerDollar != nil {
		if *req.PointsPerDollar < 0 {
			return nil, errutil.ValidationFailed("pointsPerDollar must not be negative", nil)
		}
		row.PointsPerDollar = *req.PointsPerDollar
	}
	if req.ReferralPoints != nil {
		row.ReferralPoints = *req.ReferralPoints
	}
	if req.SignInPoints != nil {
		row.SignInPoints = *req.SignInPoints
	}

	patch := map[string]any{
		"points_per_dollar": row.PointsPerDollar,
		"referral_points":   row.ReferralPoints,
		"sign_in_points":    row.SignInPoints,
	}
	if err := s.loyalty.Update(ctx, row.ID, patch); err != nil {
		return nil, errutil.Internal("failed to update loyalty settings", err)
	}
	return row, nil
}

// Game returns the plant growth settings, creating defaults on first
// read.
func (s *Service) Game(ctx context.Context) (*GameSettings, error) {
	row, err := s.game.FindOne(ctx, &GameSettings{ID: singletonID})
	if err != nil {
		return nil, errutil.Internal("failed to load game settings", err)
	}
	if row == nil {
		row = defaultGame()
		if err := s.game.Create(ctx, row); err != nil {
			return nil, errutil.Internal("failed to seed game settings", err)
		}
	}
	return row, nil
}

type UpdateGameRequest struct {
	WaterGrowth            *float64 `json:"waterGrowth"`
	WaterCooldownHours     *int     `json:"waterCooldownHours"`
	FeedGrowthPerUnit      *float64 `json:"feedGrowthPerUnit"`
	ReferralGrowth         *float64 `json:"referralGrowth"`
	SmallPurchaseGrowth    *float64 `json:"smallPurchaseGrowth"`
	LargePurchaseGrowth    *float64 `json:"largePurchaseGrowth"`
	LargePurchaseThreshold *int64   `json:"largePurchaseThresholdCents"`
}

func (s *Service) UpdateGame(ctx context.Context, req *UpdateGameRequest) (*GameSettings, error) {
	row, err := s.Game(ctx)
	if err != nil {
		return nil, err
	}

	// Growth increments must never be negative: plant growth only moves
	// forward.
	if req.WaterGrowth != nil {
		if *req.WaterGrowth < 0 {
			return nil, errutil.ValidationFailed("waterGrowth must not be negative", nil)
		}
		row.WaterGrowth = *req.WaterGrowth
	}
	if req.WaterCooldownHours != nil {
		if *req.WaterCooldownHours < 0 {
			return nil, errutil.ValidationFailed("waterCooldownHours must not be negative", nil)
		}
		row.WaterCooldownHours = *req.WaterCooldownHours
	}
	if req.FeedGrowthPerUnit != nil {
		if *req.FeedGrowthPerUnit < 0 {
			return nil, errutil.ValidationFailed("feedGrowthPerUnit must not be negative", nil)
		}
		row.FeedGrowthPerUnit = *req.FeedGrowthPerUnit
	}
	if req.ReferralGrowth != nil {
		if *req.ReferralGrowth < 0 {
			return nil, errutil.ValidationFailed("referralGrowth must not be negative", nil)
		}
		row.ReferralGrowth = *req.ReferralGrowth
	}
	if req.SmallPurchaseGrowth != nil {
		if *req.SmallPurchaseGrowth < 0 {
			return nil, errutil.ValidationFailed("smallPurchaseGrowth must not be negative", nil)
		}
		row.SmallPurchaseGrowth = *req.SmallPurchaseGrowth
	}
	if req.LargePurchaseGrowth != nil {
		if *req.LargePurchaseGrowth < 0 {
			return nil, errutil.ValidationFailed("largePurchaseGrowth must not be negative", nil)
		}
		row.LargePurchaseGrowth = *req.LargePurchaseGrowth
	}
	if req.LargePurchaseThreshold != nil {
		if *req.LargePurchaseThreshold < 0 {
			return nil, errutil.ValidationFailed("largePurchaseThresholdCents must not be negative", nil)
		}
		row.LargePurchaseThreshold = *req.LargePurchaseThreshold
	}

	patch := map[string]any{
		"water_growth":             row.WaterGrowth,
		"water_cooldown_hours":     row.WaterCooldownHours,
		"feed_growth_per_unit":     row.FeedGrowthPerUnit,
		"referral_growth":          row.ReferralGrowth,
		"small_purchase_growth":    row.SmallPurchaseGrowth,
		"large_purchase_growth":    row.LargePurchaseGrowth,
		"large_purchase_threshold": row.LargePurchaseThreshold,
	}
	if err := s.game.Update(ctx, row.ID, patch); err != nil {
		return nil, errutil.Internal("failed to update game settings", err)
	}
	return row, nil
}
