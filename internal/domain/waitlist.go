package domain

import "time"

// ReferrerDirect is stored when the signup page had no referring URL.
const ReferrerDirect = "direct"

// Survey holds the answers from the waitlist form.
type Survey struct {
	GameType     string   `json:"game_type"`
	RewardedApps []string `json:"rewarded_apps"`
	Devices      []string `json:"devices"`
}

// Fingerprint is a coarse description of the visitor's environment. It is
// never stored on its own, only copied into the signup row.
type Fingerprint struct {
	IP         string `json:"ip"`
	Timezone   string `json:"timezone"`
	Browser    string `json:"browser"`
	OS         string `json:"os"`
	DeviceType string `json:"device_type"`
	Hash       string `json:"hash"`
}

type WaitlistSignup struct {
	ID              int64     `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	Email           string    `db:"email" json:"email"`
	GameType        string    `db:"game_type" json:"game_type"`
	RewardedApps    []string  `db:"rewarded_apps" json:"rewarded_apps"`
	Devices         []string  `db:"devices" json:"devices"`
	IPAddress       string    `db:"ip_address" json:"ip_address"`
	Timezone        string    `db:"timezone" json:"timezone"`
	Browser         string    `db:"browser" json:"browser"`
	OS              string    `db:"os" json:"os"`
	DeviceType      string    `db:"device_type" json:"device_type"`
	FingerprintHash string    `db:"fingerprint_hash" json:"fingerprint_hash"`
	Referrer        string    `db:"referrer" json:"referrer"`
	EmailVerified   bool      `db:"email_verified" json:"email_verified"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Dashboard is the merged users + waitlist_signups view shown after signup.
type Dashboard struct {
	Email         string    `json:"email"`
	SeedsBalance  int64     `json:"seeds_balance"`
	ReferralCode  string    `json:"referral_code"`
	ReferralCount int       `json:"referral_count"`
	CreationDate  time.Time `json:"creation_date"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// VerificationResult is the first row returned by process_email_verification,
// passed through without interpretation.
type VerificationResult map[string]any
