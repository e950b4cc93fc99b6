package service

import (
	"context"
	"fmt"

	"github.com/MegaUnlimited-io/farmcash-public/internal/domain"
)

type DashboardProfiles interface {
	DashboardProfile(ctx context.Context, id string) (*domain.Dashboard, error)
}

type SignupFinder interface {
	FindByUserID(ctx context.Context, userID string) (*domain.WaitlistSignup, error)
}

// DashboardService joins a user's profile with their waitlist status.
type DashboardService struct {
	users   DashboardProfiles
	signups SignupFinder
}

func NewDashboardService(users DashboardProfiles, signups SignupFinder) *DashboardService {
	return &DashboardService{users: users, signups: signups}
}

// Get fails if either row is missing.
func (s *DashboardService) Get(ctx context.Context, userID string) (*domain.Dashboard, error) {
	d, err := s.users.DashboardProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user data: %w", err)
	}

	signup, err := s.signups.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch waitlist data: %w", err)
	}

	d.EmailVerified = signup.EmailVerified
	d.CreatedAt = signup.CreatedAt
	return d, nil
}
