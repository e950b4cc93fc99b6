package domain

import "time"

// Defaults applied when the signup flow creates a users row itself.
const (
	DefaultSeedsBalance = 0
	DefaultCashBalance  = 0.00
	DefaultUserLevel    = 1
	DefaultWaterBalance = 100
)

type User struct {
	ID               string    `db:"id" json:"id"`
	Email            string    `db:"email" json:"email"`
	SeedsBalance     int64     `db:"seeds_balance" json:"seeds_balance"`
	CashBalance      float64   `db:"cash_balance" json:"cash_balance"`
	UserLevel        int       `db:"user_level" json:"user_level"`
	TotalHarvests    int64     `db:"total_harvests" json:"total_harvests"`
	ExperiencePoints int64     `db:"experience_points" json:"experience_points"`
	WaterBalance     int64     `db:"water_balance" json:"water_balance"`
	ReferralCode     string    `db:"referral_code" json:"referral_code"`
	ReferralCount    int       `db:"referral_count" json:"referral_count"`
	IsWaitlistUser   bool      `db:"is_waitlist_user" json:"is_waitlist_user"`
	ReferredBy       *string   `db:"referred_by" json:"referred_by,omitempty"`
	CreationDate     time.Time `db:"creation_date" json:"creation_date"`
}

// NewWaitlistUser returns a users row with the documented starting balances.
func NewWaitlistUser(id, email, referralCode string, referredBy *string) *User {
	return &User{
		ID:             id,
		Email:          email,
		SeedsBalance:   DefaultSeedsBalance,
		CashBalance:    DefaultCashBalance,
		UserLevel:      DefaultUserLevel,
		WaterBalance:   DefaultWaterBalance,
		ReferralCode:   referralCode,
		IsWaitlistUser: true,
		ReferredBy:     referredBy,
	}
}
