package game

import "time"

// RewardType describes what a finished plant earns and how long the
// plant takes to mature.
type RewardType struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TargetDays int    `json:"targetDays"`
}

// RewardTypes are the claimable reward categories. Bigger rewards grow
// on longer timelines.
func RewardTypes() []RewardType {
	return []RewardType{
		{ID: "class", Name: "Free Class", TargetDays: 60},
		{ID: "retreat", Name: "Retreat Discount", TargetDays: 90},
		{ID: "product", Name: "Free Product", TargetDays: 28},
		{ID: "service", Name: "Free Service", TargetDays: 28},
	}
}

// Manifestation is the intention a player sets when planting; each one
// maps to a plant variety.
type Manifestation struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PlantType  string `json:"plantType"`
	PlantImage string `json:"plantImage"`
}

func Manifestations() []Manifestation {
	return []Manifestation{
		{ID: "abundance", Name: "Abundance", PlantType: "Money Tree", PlantImage: "/images/plants/money-tree.png"},
		{ID: "healing", Name: "Healing", PlantType: "Aloe Plant", PlantImage: "/images/plants/aloe.png"},
		{ID: "love", Name: "Love", PlantType: "Rose Bush", PlantImage: "/images/plants/rose-bush.png"},
		{ID: "peace", Name: "Peace", PlantType: "Lavender", PlantImage: "/images/plants/lavender.png"},
		{ID: "growth", Name: "Growth", PlantType: "Bamboo", PlantImage: "/images/plants/bamboo.png"},
	}
}

func rewardTypeByID(id string) (RewardType, bool) {
	for _, rt := range RewardTypes() {
		if rt.ID == id {
			return rt, true
		}
	}
	return RewardType{}, false
}

func manifestationByID(id string) (Manifestation, bool) {
	for _, m := range Manifestations() {
		if m.ID == id {
			return m, true
		}
	}
	return Manifestation{}, false
}

// PlantGame is one player's growth run. A player has at most one game
// that is neither completed nor expired.
type PlantGame struct {
	ID                string     `gorm:"primaryKey" json:"id"`
	UserID            string     `gorm:"index" json:"userId"`
	RewardType        string     `json:"rewardType"`
	RewardID          string     `json:"rewardId"`
	RewardName        string     `json:"rewardName"`
	ManifestationID   string     `json:"manifestationId"`
	ManifestationName string     `json:"manifestationName"`
	PlantType         string     `json:"plantType"`
	PlantImage        string     `json:"plantImage"`
	TargetDays        int        `json:"targetDays"`
	GrowthPercentage  float64    `json:"growthPercentage"`
	WaterCount        int        `json:"waterCount"`
	LastWateredAt     *time.Time `json:"lastWateredAt,omitempty"`
	StartedAt         time.Time  `json:"startedAt"`
	EndsAt            time.Time  `json:"endsAt"`
	Completed         bool       `json:"completed"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
	Expired           bool       `json:"expired"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func (PlantGame) TableName() string {
	return "plant_games"
}

// GameReward is earned exactly once per completed game and can be
// claimed exactly once.
type GameReward struct {
	ID         string     `gorm:"primaryKey" json:"id"`
	UserID     string     `gorm:"index" json:"userId"`
	GameID     string     `gorm:"uniqueIndex" json:"gameId"`
	RewardType string     `json:"rewardType"`
	RewardID   string     `json:"rewardId"`
	RewardName string     `json:"rewardName"`
	ClaimedAt  *time.Time `json:"claimedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (GameReward) TableName() string {
	return "game_rewards"
}
