package game

import (
	"context"
	"errors"
	"time"

	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/pkg/repository"
	"mothernatural-backend/services/settings"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxGrowth = 100.0

type Service struct {
	db       *gorm.DB
	games    repository.Repository[PlantGame]
	rewards  repository.Repository[GameReward]
	settings *settings.Service

	// now is swappable so tests can steer cooldowns and expiry.
	now func() time.Time
}

type ServiceParams struct {
	fx.In
	DB       *gorm.DB
	Settings *settings.Service
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:       p.DB,
		games:    repository.ProvideStore[PlantGame](p.DB),
		rewards:  repository.ProvideStore[GameReward](p.DB),
		settings: p.Settings,
		now:      time.Now,
	}
}

// ActiveGame returns the player's in-progress game, expiring it lazily
// when its deadline has passed. Returns nil when no game is active.
func (s *Service) ActiveGame(ctx context.Context, userID string) (*PlantGame, error) {
	var row PlantGame
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND completed = ? AND expired = ?", userID, false, false).
		Order("started_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errutil.Internal("failed to load plant game", err)
	}

	if s.now().After(row.EndsAt) {
		row.Expired = true
		if err := s.games.Update(ctx, row.ID, &PlantGame{Expired: true}); err != nil {
			return nil, errutil.Internal("failed to expire plant game", err)
		}
		return nil, nil
	}

	return &row, nil
}

type StartRequest struct {
	RewardType      string `json:"rewardType" binding:"required"`
	RewardID        string `json:"rewardId"`
	RewardName      string `json:"rewardName"`
	ManifestationID string `json:"manifestationId" binding:"required"`
}

// Start plants a new game. Only one active game per player.
func (s *Service) Start(ctx context.Context, userID string, req *StartRequest) (*PlantGame, error) {
	rewardType, ok := rewardTypeByID(req.RewardType)
	if !ok {
		return nil, errutil.ValidationFailed("unknown reward type", nil)
	}
	manifestation, ok := manifestationByID(req.ManifestationID)
	if !ok {
		return nil, errutil.ValidationFailed("unknown manifestation", nil)
	}

	active, err := s.ActiveGame(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, errutil.Conflict("a plant is already growing", nil)
	}

	now := s.now()
	row := &PlantGame{
		ID:                uuid.NewString(),
		UserID:            userID,
		RewardType:        rewardType.ID,
		RewardID:          req.RewardID,
		RewardName:        req.RewardName,
		ManifestationID:   manifestation.ID,
		ManifestationName: manifestation.Name,
		PlantType:         manifestation.PlantType,
		PlantImage:        manifestation.PlantImage,
		TargetDays:        rewardType.TargetDays,
		StartedAt:         now,
		EndsAt:            now.Add(time.Duration(rewardType.TargetDays) * 24 * time.Hour),
	}
	if row.RewardName == "" {
		row.RewardName = rewardType.Name
	}

	if err := s.games.Create(ctx, row); err != nil {
		return nil, errutil.Internal("failed to start plant game", err)
	}
	return row, nil
}

// Water advances growth once per cooldown window.
func (s *Service) Water(ctx context.Context, userID string) (*PlantGame, error) {
	row, err := s.ActiveGame(ctx, userID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errutil.NotFound("no active plant game", nil)
	}

	cfg, err := s.settings.Game(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	cooldown := time.Duration(cfg.WaterCooldownHours) * time.Hour
	if row.LastWateredAt != nil && now.Sub(*row.LastWateredAt) < cooldown {
		nextAt := row.LastWateredAt.Add(cooldown)
		return nil, errutil.UnprocessableEntity("plant was watered recently", nil,
			errutil.WithDetails(errutil.Detail{Field: "nextWaterAt", Message: nextAt.Format(time.RFC3339)}))
	}

	row.WaterCount++
	row.LastWateredAt = &now
	return s.applyGrowth(ctx, row, cfg.WaterGrowth)
}

type FeedRequest struct {
	Units int `json:"units" binding:"required,min=1"`
}

// Feed advances growth per unit of plant food, no cooldown.
func (s *Service) Feed(ctx context.Context, userID string, req *FeedRequest) (*PlantGame, error) {
	row, err := s.ActiveGame(ctx, userID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errutil.NotFound("no active plant game", nil)
	}

	cfg, err := s.settings.Game(ctx)
	if err != nil {
		return nil, err
	}

	return s.applyGrowth(ctx, row, cfg.FeedGrowthPerUnit*float64(req.Units))
}

// AddReferralGrowth credits the referrer's plant when their code is
// redeemed. No active game is not an error.
func (s *Service) AddReferralGrowth(ctx context.Context, userID string) {
	row, err := s.ActiveGame(ctx, userID)
	if err != nil || row == nil {
		return
	}

	cfg, err := s.settings.Game(ctx)
	if err != nil {
		zap.L().Warn("failed to load game settings for referral growth", zap.Error(err))
		return
	}

	if _, err := s.applyGrowth(ctx, row, cfg.ReferralGrowth); err != nil {
		zap.L().Warn("failed to apply referral growth", zap.Error(err), zap.String("user_id", userID))
	}
}

// AddPurchaseGrowth credits the buyer's plant after a paid order;
// larger orders grow the plant faster. No active game is not an error.
func (s *Service) AddPurchaseGrowth(ctx context.Context, userID string, amountCents int64) {
	row, err := s.ActiveGame(ctx, userID)
	if err != nil || row == nil {
		return
	}

	cfg, err := s.settings.Game(ctx)
	if err != nil {
		zap.L().Warn("failed to load game settings for purchase growth", zap.Error(err))
		return
	}

	growth := cfg.SmallPurchaseGrowth
	if amountCents >= cfg.LargePurchaseThreshold {
		growth = cfg.LargePurchaseGrowth
	}

	if _, err := s.applyGrowth(ctx, row, growth); err != nil {
		zap.L().Warn("failed to apply purchase growth", zap.Error(err), zap.String("user_id", userID))
	}
}

// applyGrowth adds growth, caps it, and completes the game (minting
// its reward) when the plant reaches full growth.
func (s *Service) applyGrowth(ctx context.Context, row *PlantGame, amount float64) (*PlantGame, error) {
	row.GrowthPercentage += amount
	if row.GrowthPercentage > maxGrowth {
		row.GrowthPercentage = maxGrowth
	}

	if row.GrowthPercentage >= maxGrowth && !row.Completed {
		now := s.now()
		row.Completed = true
		row.CompletedAt = &now

		reward := &GameReward{
			ID:         uuid.NewString(),
			UserID:     row.UserID,
			GameID:     row.ID,
			RewardType: row.RewardType,
			RewardID:   row.RewardID,
			RewardName: row.RewardName,
		}
		if err := s.rewards.Create(ctx, reward); err != nil {
			return nil, errutil.Internal("failed to mint game reward", err)
		}
	}

	patch := map[string]any{
		"growth_percentage": row.GrowthPercentage,
		"water_count":       row.WaterCount,
		"last_watered_at":   row.LastWateredAt,
		"completed":         row.Completed,
		"completed_at":      row.CompletedAt,
	}
	if err := s.db.WithContext(ctx).Model(&PlantGame{}).Where("id = ?", row.ID).Updates(patch).Error; err != nil {
		return nil, errutil.Internal("failed to save plant game", err)
	}
	return row, nil
}

// Rewards lists every reward the player has earned, newest first.
func (s *Service) Rewards(ctx context.Context, userID string) ([]GameReward, error) {
	var rows []GameReward
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, errutil.Internal("failed to list rewards", err)
	}
	return rows, nil
}

// ClaimReward marks a reward as used. Each reward claims exactly once.
func (s *Service) ClaimReward(ctx context.Context, userID, rewardID string) (*GameReward, error) {
	row, err := s.rewards.FindOne(ctx, &GameReward{ID: rewardID})
	if err != nil {
		return nil, errutil.Internal("failed to load reward", err)
	}
	if row == nil || row.UserID != userID {
		return nil, errutil.NotFound("reward not found", nil)
	}
	if row.ClaimedAt != nil {
		return nil, errutil.Conflict("reward already claimed", nil)
	}

	now := s.now()
	row.ClaimedAt = &now
	if err := s.rewards.Update(ctx, row.ID, &GameReward{ClaimedAt: &now}); err != nil {
		return nil, errutil.Internal("failed to claim reward", err)
	}
	return row, nil
}
