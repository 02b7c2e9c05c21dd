package loyalty

import (
	"context"
	"math"

	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/pkg/repository"
	"mothernatural-backend/pkg/sequence"
	"mothernatural-backend/services/game"
	"mothernatural-backend/services/settings"
	"mothernatural-backend/services/user"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const referralCodeLength = 8

type Service struct {
	db       *gorm.DB
	users    repository.Repository[user.User]
	settings *settings.Service
	game     *game.Service
}

type ServiceParams struct {
	fx.In
	DB       *gorm.DB
	Settings *settings.Service
	Game     *game.Service
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:       p.DB,
		users:    repository.ProvideStore[user.User](p.DB),
		settings: p.Settings,
		game:     p.Game,
	}
}

// Stats summarizes a member's points, tier, and referral standing.
func (s *Service) Stats(ctx context.Context, userID string) (*UserStats, error) {
	record, err := s.users.FindOne(ctx, &user.User{ID: userID})
	if err != nil {
		return nil, errutil.Internal("failed to load account", err)
	}
	if record == nil {
		return nil, errutil.NotFound("user not found", nil)
	}

	// Tier standing follows lifetime earnings, not the spendable balance,
	// so spending points never demotes a member.
	current, next, progress := TierForPoints(record.TotalPointsEarned)
	return &UserStats{
		Points:            record.LoyaltyPoints,
		TotalPointsEarned: record.TotalPointsEarned,
		Tier:              current,
		NextTier:          next,
		TierProgress:      progress,
		ReferralCode:      record.ReferralCode,
		ReferralCount:     record.ReferralCount,
	}, nil
}

// GenerateReferralCode mints the member's shareable code. The code is
// stable: repeat calls return the existing one.
func (s *Service) GenerateReferralCode(ctx context.Context, userID string) (string, error) {
	record, err := s.users.FindOne(ctx, &user.User{ID: userID})
	if err != nil {
		return "", errutil.Internal("failed to load account", err)
	}
	if record == nil {
		return "", errutil.NotFound("user not found", nil)
	}
	if record.ReferralCode != "" {
		return record.ReferralCode, nil
	}

	var code string
	for {
		candidate, err := sequence.RandomAlphaNumeric(referralCodeLength)
		if err != nil {
			return "", errutil.Internal("failed to generate referral code", err)
		}
		existing, err := s.users.FindOne(ctx, &user.User{ReferralCode: candidate})
		if err != nil {
			return "", errutil.Internal("failed to check referral code", err)
		}
		if existing == nil {
			code = candidate
			break
		}
	}

	if err := s.users.Update(ctx, userID, &user.User{ReferralCode: code}); err != nil {
		return "", errutil.Internal("failed to save referral code", err)
	}
	return code, nil
}

type RedeemReferralRequest struct {
	Code string `json:"code" binding:"required"`
}

type RedeemReferralResult struct {
	ReferrerName  string `json:"referrerName"`
	PointsAwarded int64  `json:"pointsAwarded"`
}

// RedeemReferral links a member to the referrer who invited them. Each
// member redeems at most one code, never their own. The referrer earns
// the configured bonus points plus plant growth.
func (s *Service) RedeemReferral(ctx context.Context, userID string, req *RedeemReferralRequest) (*RedeemReferralResult, error) {
	redeemer, err := s.users.FindOne(ctx, &user.User{ID: userID})
	if err != nil {
		return nil, errutil.Internal("failed to load account", err)
	}
	if redeemer == nil {
		return nil, errutil.NotFound("user not found", nil)
	}
	if redeemer.ReferredBy != "" {
		return nil, errutil.Conflict("a referral code was already redeemed on this account", nil)
	}

	referrer, err := s.users.FindOne(ctx, &user.User{ReferralCode: req.Code})
	if err != nil {
		return nil, errutil.Internal("failed to look up referral code", err)
	}
	if referrer == nil {
		return nil, errutil.NotFound("referral code not found", nil)
	}
	if referrer.ID == redeemer.ID {
		return nil, errutil.UnprocessableEntity("you cannot redeem your own code", nil)
	}

	cfg, err := s.settings.Loyalty(ctx)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user.User{}).Where("id = ?", redeemer.ID).
			Update("referred_by", referrer.ID).Error; err != nil {
			return err
		}
		return tx.Model(&user.User{}).Where("id = ?", referrer.ID).
			Updates(map[string]any{
				"loyalty_points":      gorm.Expr("loyalty_points + ?", cfg.ReferralPoints),
				"total_points_earned": gorm.Expr("total_points_earned + ?", cfg.ReferralPoints),
				"referral_count":      gorm.Expr("referral_count + 1"),
			}).Error
	})
	if err != nil {
		return nil, errutil.Internal("failed to redeem referral", err)
	}

	s.game.AddReferralGrowth(ctx, referrer.ID)

	return &RedeemReferralResult{
		ReferrerName:  referrer.Name,
		PointsAwarded: cfg.ReferralPoints,
	}, nil
}

// AwardPurchasePoints credits points for a paid order, one point per
// configured dollar, rounded down.
func (s *Service) AwardPurchasePoints(ctx context.Context, userID string, amountCents int64) (int64, error) {
	cfg, err := s.settings.Loyalty(ctx)
	if err != nil {
		return 0, err
	}

	points := int64(math.Floor(float64(amountCents) / 100.0 * cfg.PointsPerDollar))
	if points <= 0 {
		return 0, nil
	}

	err = s.db.WithContext(ctx).Model(&user.User{}).Where("id = ?", userID).
		Updates(map[string]any{
			"loyalty_points":      gorm.Expr("loyalty_points + ?", points),
			"total_points_earned": gorm.Expr("total_points_earned + ?", points),
		}).Error
	if err != nil {
		return 0, errutil.Internal("failed to award purchase points", err)
	}

	zap.L().Info("awarded purchase points",
		zap.String("user_id", userID),
		zap.Int64("points", points),
	)
	return points, nil
}
