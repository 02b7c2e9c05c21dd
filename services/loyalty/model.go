package loyalty

// Tier is a loyalty rank. Ranks are fixed; a member's tier is derived
// from lifetime earned points, never stored.
type Tier struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Tagline        string `json:"tagline"`
	PointsRequired int64  `json:"pointsRequired"`
}

// Tiers returns the ladder in ascending order.
func Tiers() []Tier {
	return []Tier{
		{ID: "seed", Name: "Seed", Tagline: "Every journey starts with a single seed.", PointsRequired: 0},
		{ID: "root", Name: "Root", Tagline: "Your practice is taking root.", PointsRequired: 100},
		{ID: "bloom", Name: "Bloom", Tagline: "Watch yourself flourish.", PointsRequired: 500},
		{ID: "divine", Name: "Divine", Tagline: "Radiating at your highest frequency.", PointsRequired: 1000},
	}
}

// TierForPoints maps a points balance onto the ladder. Progress is the
// percentage of the way from the current tier to the next one; at the
// top tier it is always 100.
func TierForPoints(points int64) (current Tier, next *Tier, progress float64) {
	ladder := Tiers()
	current = ladder[0]
	for i := range ladder {
		if points >= ladder[i].PointsRequired {
			current = ladder[i]
			if i+1 < len(ladder) {
				n := ladder[i+1]
				next = &n
			} else {
				next = nil
			}
		}
	}

	if next == nil {
		return current, nil, 100
	}

	span := next.PointsRequired - current.PointsRequired
	progress = float64(points-current.PointsRequired) / float64(span) * 100
	return current, next, progress
}

// UserStats is the member-facing loyalty summary.
type UserStats struct {
	Points            int64   `json:"points"`
	TotalPointsEarned int64   `json:"totalPointsEarned"`
	Tier              Tier    `json:"tier"`
	NextTier          *Tier   `json:"nextTier,omitempty"`
	TierProgress      float64 `json:"tierProgress"`
	ReferralCode      string  `json:"referralCode,omitempty"`
	ReferralCount     int     `json:"referralCount"`
}
