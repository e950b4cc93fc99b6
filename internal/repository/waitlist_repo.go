package repository

import (
	"context"

	"github.com/MegaUnlimited-io/farmcash-public/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WaitlistRepository handles waitlist_signups and the verification RPC
type WaitlistRepository struct {
	db *pgxpool.Pool
}

func NewWaitlistRepository(db *pgxpool.Pool) *WaitlistRepository {
	return &WaitlistRepository{db: db}
}

func (r *WaitlistRepository) Create(ctx context.Context, s *domain.WaitlistSignup) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO waitlist_signups (user_id, email, game_type, rewarded_apps, devices, ip_address,
		                              timezone, browser, os, device_type, fingerprint_hash, referrer)
		VALUES ($1::uuid, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12)
		RETURNING id, email_verified, created_at
	`, s.UserID, s.Email, s.GameType, s.RewardedApps, s.Devices, s.IPAddress,
		s.Timezone, s.Browser, s.OS, s.DeviceType, s.FingerprintHash, s.Referrer,
	).Scan(&s.ID, &s.EmailVerified, &s.CreatedAt)
	return wrap(err, "create waitlist signup")
}

func (r *WaitlistRepository) FindByUserID(ctx context.Context, userID string) (*domain.WaitlistSignup, error) {
	var s domain.WaitlistSignup
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id::text, COALESCE(email, ''), COALESCE(game_type, ''),
		       COALESCE(rewarded_apps, '{}'), COALESCE(devices, '{}'), COALESCE(ip_address, ''),
		       COALESCE(timezone, ''), COALESCE(browser, ''), COALESCE(os, ''), COALESCE(device_type, ''),
		       COALESCE(fingerprint_hash, ''), COALESCE(referrer, ''), email_verified, created_at
		FROM waitlist_signups
		WHERE user_id = $1::uuid
	`, userID).Scan(
		&s.ID, &s.UserID, &s.Email, &s.GameType,
		&s.RewardedApps, &s.Devices, &s.IPAddress,
		&s.Timezone, &s.Browser, &s.OS, &s.DeviceType,
		&s.FingerprintHash, &s.Referrer, &s.EmailVerified, &s.CreatedAt,
	)
	if err != nil {
		return nil, wrap(err, "find waitlist signup")
	}
	return &s, nil
}

// ProcessEmailVerification calls the process_email_verification function,
// which marks the signup verified and awards signup credit. The first result
// row is returned untouched; an empty result yields an empty map.
func (r *WaitlistRepository) ProcessEmailVerification(ctx context.Context, userID string, referredBy *string) (domain.VerificationResult, error) {
	rows, err := r.db.Query(ctx,
		`SELECT * FROM process_email_verification(p_user_id => $1::uuid, p_referred_by => $2::uuid)`,
		userID, referredBy,
	)
	if err != nil {
		return nil, wrap(err, "process_email_verification")
	}

	results, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, wrap(err, "process_email_verification")
	}
	if len(results) == 0 {
		return domain.VerificationResult{}, nil
	}
	return domain.VerificationResult(results[0]), nil
}
