package repository

import (
	"context"

	"github.com/MegaUnlimited-io/farmcash-public/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id::text, COALESCE(email, ''), seeds_balance, cash_balance::float8, user_level,
		        total_harvests, experience_points, water_balance, COALESCE(referral_code, ''),
		        COALESCE(referral_count, 0), is_waitlist_user, referred_by::text, creation_date
		 FROM users
		 WHERE id = $1::uuid`,
		id,
	)

	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.SeedsBalance,
		&u.CashBalance,
		&u.UserLevel,
		&u.TotalHarvests,
		&u.ExperiencePoints,
		&u.WaterBalance,
		&u.ReferralCode,
		&u.ReferralCount,
		&u.IsWaitlistUser,
		&u.ReferredBy,
		&u.CreationDate,
	); err != nil {
		return nil, wrap(err, "find user "+id)
	}

	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (id, email, seeds_balance, cash_balance, user_level, total_harvests,
		                    experience_points, water_balance, referral_code, is_waitlist_user, referred_by)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::uuid)
		 RETURNING creation_date`,
		u.ID,
		u.Email,
		u.SeedsBalance,
		u.CashBalance,
		u.UserLevel,
		u.TotalHarvests,
		u.ExperiencePoints,
		u.WaterBalance,
		u.ReferralCode,
		u.IsWaitlistUser,
		u.ReferredBy,
	).Scan(&u.CreationDate)
	return wrap(err, "create user")
}

// MarkWaitlist flags an existing user as a waitlist user and records the
// referrer. referralCode fills in a missing code; an existing one is kept.
func (r *UserRepository) MarkWaitlist(ctx context.Context, id string, referredBy *string, referralCode string) (string, error) {
	var stored string
	err := r.db.QueryRow(ctx, `
		UPDATE users
		SET is_waitlist_user = true,
		    referred_by = $2::uuid,
		    referral_code = COALESCE(NULLIF(referral_code, ''), NULLIF($3, ''))
		WHERE id = $1::uuid
		RETURNING COALESCE(referral_code, '')`,
		id, referredBy, referralCode,
	).Scan(&stored)
	if err != nil {
		return "", wrap(err, "update user")
	}
	return stored, nil
}

// Delete removes a users row. Only used to undo a half-finished signup.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1::uuid`, id)
	return wrap(err, "delete user")
}

// FindIDByReferralCode finds user by their referral code
func (r *UserRepository) FindIDByReferralCode(ctx context.Context, code string) (string, error) {
	var userID string
	err := r.db.QueryRow(ctx,
		`SELECT id::text FROM users WHERE referral_code = $1`,
		code,
	).Scan(&userID)
	if err != nil {
		return "", wrap(err, "find referral code")
	}
	return userID, nil
}

// DashboardProfile returns the users half of the dashboard view.
func (r *UserRepository) DashboardProfile(ctx context.Context, id string) (*domain.Dashboard, error) {
	var d domain.Dashboard
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(email, ''), seeds_balance, COALESCE(referral_code, ''),
		        COALESCE(referral_count, 0), creation_date
		 FROM users
		 WHERE id = $1::uuid`,
		id,
	).Scan(&d.Email, &d.SeedsBalance, &d.ReferralCode, &d.ReferralCount, &d.CreationDate)
	if err != nil {
		return nil, wrap(err, "dashboard profile")
	}
	return &d, nil
}

// CountOrphanedWaitlistUsers counts waitlist users without a signup row.
func (r *UserRepository) CountOrphanedWaitlistUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM users u
		 LEFT JOIN waitlist_signups w ON w.user_id = u.id
		 WHERE u.is_waitlist_user AND w.user_id IS NULL`,
	).Scan(&n)
	return n, wrap(err, "count orphaned users")
}
