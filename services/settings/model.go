package settings

import "time"

const singletonID = "default"

// LowStockSettings controls the restock alert sent after a sale drains
// a product.
type LowStockSettings struct {
	ID                string    `gorm:"primaryKey" json:"-"`
	Enabled           bool      `json:"enabled"`
	NotificationEmail string    `json:"notificationEmail"`
	DefaultThreshold  int       `json:"defaultThreshold"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (LowStockSettings) TableName() string {
	return "low_stock_settings"
}

// LoyaltySettings controls how points accrue.
type LoyaltySettings struct {
	ID              string    `gorm:"primaryKey" json:"-"`
	PointsPerDollar float64   `json:"pointsPerDollar"`
	ReferralPoints  int64     `json:"referralPoints"`
	SignInPoints    int64     `json:"signInPoints"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (LoyaltySettings) TableName() string {
	return "loyalty_settings"
}

// GameSettings controls plant growth pacing.
type GameSettings struct {
	ID                     string    `gorm:"primaryKey" json:"-"`
	WaterGrowth            float64   `json:"waterGrowth"`
	WaterCooldownHours     int       `json:"waterCooldownHours"`
	FeedGrowthPerUnit      float64   `json:"feedGrowthPerUnit"`
	ReferralGrowth         float64   `json:"referralGrowth"`
	SmallPurchaseGrowth    float64   `json:"smallPurchaseGrowth"`
	LargePurchaseGrowth    float64   `json:"largePurchaseGrowth"`
	LargePurchaseThreshold int64     `json:"largePurchaseThresholdCents"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

func (GameSettings) TableName() string {
	return "game_settings"
}

func defaultLowStock() *LowStockSettings {
	return &LowStockSettings{
		ID:               singletonID,
		Enabled:          true,
		DefaultThreshold: 5,
	}
}

func defaultLoyalty() *LoyaltySettings {
	return &LoyaltySettings{
		ID:              singletonID,
		PointsPerDollar: 1.0,
		ReferralPoints:  100,
		SignInPoints:    5,
	}
}

func defaultGame() *GameSettings {
	return &GameSettings{
		ID:                     singletonID,
		WaterGrowth:            1.0,
		WaterCooldownHours:     4,
		FeedGrowthPerUnit:      2.0,
		ReferralGrowth:         5.0,
		SmallPurchaseGrowth:    5.0,
		LargePurchaseGrowth:    10.0,
		LargePurchaseThreshold: 5000,
	}
}
