package user

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User is an account row. Loyalty state (points, referral code, tier
// progress inputs) lives directly on the user so reads stay a single
// lookup.
type User struct {
	ID                string     `gorm:"primaryKey" json:"id"`
	Name              string     `json:"name"`
	Email             string     `gorm:"uniqueIndex" json:"email"`
	PasswordHash      string     `json:"-"`
	Role              string     `gorm:"default:member" json:"role"`
	Provider          string     `json:"provider"`
	LoyaltyPoints     int64      `json:"loyaltyPoints"`
	TotalPointsEarned int64      `json:"totalPointsEarned"`
	ReferralCode      string     `gorm:"index" json:"referralCode"`
	ReferredBy        string     `json:"referredBy,omitempty"`
	ReferralCount     int        `json:"referralCount"`
	LastSignInAt      *time.Time `json:"lastSignInAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
