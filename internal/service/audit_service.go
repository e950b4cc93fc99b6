package service

import (
	"context"

	"github.com/MegaUnlimited-io/farmcash-public/internal/domain"
	"github.com/MegaUnlimited-io/farmcash-public/internal/logger"
)

// AuditStore persists audit entries.
type AuditStore interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	GetByUserID(ctx context.Context, userID string, limit int) ([]*domain.AuditLog, error)
}

// AuditService handles audit logging. A nil *AuditService discards entries.
type AuditService struct {
	repo AuditStore
}

// NewAuditService creates a new audit service
func NewAuditService(repo AuditStore) *AuditService {
	return &AuditService{repo: repo}
}

// Log creates a new audit log entry
func (s *AuditService) Log(ctx context.Context, userID, action, category string, details map[string]interface{}) {
	s.LogWithRequest(ctx, userID, action, category, "", "", details)
}

// LogWithRequest creates an audit log with request info (IP, User-Agent)
func (s *AuditService) LogWithRequest(ctx context.Context, userID, action, category, ip, userAgent string, details map[string]interface{}) {
	if s == nil || s.repo == nil {
		return
	}

	log := &domain.AuditLog{
		UserID:    userID,
		Action:    action,
		Category:  category,
		Details:   details,
		IP:        ip,
		UserAgent: userAgent,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		logger.Error("failed to create audit log", "error", err, "action", action, "user_id", userID)
	}
}

// LogSignUp logs an account registration
func (s *AuditService) LogSignUp(ctx context.Context, userID, ip, userAgent string) {
	s.LogWithRequest(ctx, userID, domain.AuditActionSignUp, domain.AuditCategoryAuth, ip, userAgent, nil)
}

// LogMagicLink logs a passwordless login request. The user is not known yet.
func (s *AuditService) LogMagicLink(ctx context.Context, email, ip, userAgent string) {
	s.LogWithRequest(ctx, "", domain.AuditActionMagicLink, domain.AuditCategoryAuth, ip, userAgent,
		map[string]interface{}{"email": email})
}

// LogLogout logs a sign out
func (s *AuditService) LogLogout(ctx context.Context, userID, ip, userAgent string) {
	s.LogWithRequest(ctx, userID, domain.AuditActionLogout, domain.AuditCategoryAuth, ip, userAgent, nil)
}

// LogWaitlistSignup logs a completed waitlist submission
func (s *AuditService) LogWaitlistSignup(ctx context.Context, res *SignupResult, fp domain.Fingerprint, userAgent string) {
	details := map[string]interface{}{
		"referral_code":    res.ReferralCode,
		"created_user":     res.CreatedUser,
		"fingerprint_hash": fp.Hash,
	}
	if res.Signup != nil {
		details["signup_id"] = res.Signup.ID
	}
	s.LogWithRequest(ctx, res.UserID, domain.AuditActionWaitlistSignup, domain.AuditCategoryWaitlist, fp.IP, userAgent, details)
}

// LogEmailVerified logs a processed verification
func (s *AuditService) LogEmailVerified(ctx context.Context, userID string, referredBy *string) {
	details := map[string]interface{}{}
	if referredBy != nil {
		details["referred_by"] = *referredBy
	}
	s.Log(ctx, userID, domain.AuditActionEmailVerified, domain.AuditCategoryWaitlist, details)
}

// LogReferralCaptured logs a landing with a ?ref= code
func (s *AuditService) LogReferralCaptured(ctx context.Context, code, ip, userAgent string) {
	s.LogWithRequest(ctx, "", domain.AuditActionReferralCaptured, domain.AuditCategoryReferral, ip, userAgent,
		map[string]interface{}{"code": code})
}

// GetUserAuditLogs returns audit logs for a user
func (s *AuditService) GetUserAuditLogs(ctx context.Context, userID string, limit int) ([]*domain.AuditLog, error) {
	if s == nil || s.repo == nil {
		return nil, nil
	}
	return s.repo.GetByUserID(ctx, userID, limit)
}
