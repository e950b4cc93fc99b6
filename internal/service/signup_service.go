package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MegaUnlimited-io/farmcash-public/internal/domain"
	"github.com/MegaUnlimited-io/farmcash-public/internal/logger"
)

// UserStore is the users table as seen by the signup flow. FindByID returns
// an error wrapping domain.ErrNotFound when the row is absent.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	// MarkWaitlist flags the user as a waitlist member and returns the
	// stored referral code. referralCode is only written when the row has
	// none.
	MarkWaitlist(ctx context.Context, id string, referredBy *string, referralCode string) (string, error)
	Delete(ctx context.Context, id string) error
}

// SignupStore is the waitlist_signups table.
type SignupStore interface {
	Create(ctx context.Context, s *domain.WaitlistSignup) error
}

// CodeAllocator hands out unused referral codes.
type CodeAllocator interface {
	Allocate(ctx context.Context) (string, error)
}

// WelcomeSender emails a new waitlist member their referral code.
type WelcomeSender interface {
	SendWelcome(ctx context.Context, toEmail, referralCode string) error
}

type SignupInput struct {
	UserID      string
	Email       string
	Survey      domain.Survey
	Fingerprint domain.Fingerprint
	// ReferredBy is the referrer's user id, empty when there is none.
	ReferredBy string
	// Referrer is the referring page URL.
	Referrer string
}

type SignupResult struct {
	UserID       string                 `json:"user_id"`
	ReferralCode string                 `json:"referral_code"`
	CreatedUser  bool                   `json:"created_user"`
	Signup       *domain.WaitlistSignup `json:"signup"`
}

// SignupService writes the users and waitlist_signups rows for a waitlist
// submission.
type SignupService struct {
	users     UserStore
	signups   SignupStore
	allocator CodeAllocator
	welcome   WelcomeSender
	log       *slog.Logger
}

func NewSignupService(users UserStore, signups SignupStore, allocator CodeAllocator) *SignupService {
	return &SignupService{
		users:     users,
		signups:   signups,
		allocator: allocator,
		log:       logger.Component("signup"),
	}
}

// WithWelcome enables the welcome email after a successful signup.
func (s *SignupService) WithWelcome(w WelcomeSender) *SignupService {
	s.welcome = w
	return s
}

// CreateWaitlistUser makes sure a users row exists with waitlist metadata and
// inserts exactly one waitlist_signups row. A users row created by this call
// is deleted again if the waitlist insert fails.
func (s *SignupService) CreateWaitlistUser(ctx context.Context, in SignupInput) (*SignupResult, error) {
	var referredBy *string
	if in.ReferredBy != "" {
		referredBy = &in.ReferredBy
	}

	res := &SignupResult{UserID: in.UserID}

	existing, err := s.users.FindByID(ctx, in.UserID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code, err := s.allocator.Allocate(ctx)
		if err != nil {
			WaitlistSignups.WithLabelValues("failed").Inc()
			return nil, fmt.Errorf("allocate referral code: %w", err)
		}

		u := domain.NewWaitlistUser(in.UserID, in.Email, code, referredBy)
		if err := s.users.Create(ctx, u); err != nil {
			s.log.Error("error creating user record", "user_id", in.UserID, "error", err)
			WaitlistSignups.WithLabelValues("failed").Inc()
			return nil, fmt.Errorf("create user record: %w", err)
		}
		res.ReferralCode = code
		res.CreatedUser = true

	case err != nil:
		WaitlistSignups.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("look up user record: %w", err)

	default:
		// rows created by the auth trigger may not carry a code yet
		code := ""
		if existing.ReferralCode == "" {
			code, err = s.allocator.Allocate(ctx)
			if err != nil {
				WaitlistSignups.WithLabelValues("failed").Inc()
				return nil, fmt.Errorf("allocate referral code: %w", err)
			}
		}
		stored, err := s.users.MarkWaitlist(ctx, in.UserID, referredBy, code)
		if err != nil {
			s.log.Error("error updating user record", "user_id", in.UserID, "error", err)
			WaitlistSignups.WithLabelValues("failed").Inc()
			return nil, fmt.Errorf("update user record: %w", err)
		}
		res.ReferralCode = stored
	}

	signup := &domain.WaitlistSignup{
		UserID:          in.UserID,
		Email:           in.Email,
		GameType:        in.Survey.GameType,
		RewardedApps:    nonNil(in.Survey.RewardedApps),
		Devices:         nonNil(in.Survey.Devices),
		IPAddress:       in.Fingerprint.IP,
		Timezone:        in.Fingerprint.Timezone,
		Browser:         in.Fingerprint.Browser,
		OS:              in.Fingerprint.OS,
		DeviceType:      in.Fingerprint.DeviceType,
		FingerprintHash: in.Fingerprint.Hash,
		Referrer:        in.Referrer,
	}
	if signup.Referrer == "" {
		signup.Referrer = domain.ReferrerDirect
	}

	if err := s.signups.Create(ctx, signup); err != nil {
		s.log.Error("error creating waitlist record", "user_id", in.UserID, "error", err)
		if res.CreatedUser {
			s.compensate(ctx, in.UserID)
		}
		WaitlistSignups.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("create waitlist record: %w", err)
	}
	res.Signup = signup

	if res.CreatedUser {
		WaitlistSignups.WithLabelValues("created_user").Inc()
	} else {
		WaitlistSignups.WithLabelValues("existing_user").Inc()
	}

	if s.welcome != nil {
		if err := s.welcome.SendWelcome(ctx, in.Email, res.ReferralCode); err != nil {
			s.log.Warn("welcome email failed", "user_id", in.UserID, "error", err)
		}
	}

	return res, nil
}

// compensate removes the users row created earlier in the same call. It uses
// a context that survives cancellation of the request.
func (s *SignupService) compensate(ctx context.Context, userID string) {
	if err := s.users.Delete(context.WithoutCancel(ctx), userID); err != nil {
		s.log.Error("could not remove orphaned user record", "user_id", userID, "error", err)
		SignupCompensations.WithLabelValues("failed").Inc()
		return
	}
	SignupCompensations.WithLabelValues("deleted").Inc()
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
