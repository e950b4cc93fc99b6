package service

import (
	"context"
	"fmt"

	"github.com/MegaUnlimited-io/farmcash-public/internal/domain"
	"github.com/MegaUnlimited-io/farmcash-public/internal/logger"
)

// VerificationProcessor runs the backend's award-on-verification procedure.
type VerificationProcessor interface {
	ProcessEmailVerification(ctx context.Context, userID string, referredBy *string) (domain.VerificationResult, error)
}

type VerificationService struct {
	rpc   VerificationProcessor
	audit *AuditService
}

func NewVerificationService(rpc VerificationProcessor, audit *AuditService) *VerificationService {
	return &VerificationService{rpc: rpc, audit: audit}
}

// Process marks userID verified and awards signup credit. referredBy may be
// empty.
func (s *VerificationService) Process(ctx context.Context, userID, referredBy string) (domain.VerificationResult, error) {
	var ref *string
	if referredBy != "" {
		ref = &referredBy
	}

	logger.Debug("calling process_email_verification", "user_id", userID, "referred_by", referredBy)

	res, err := s.rpc.ProcessEmailVerification(ctx, userID, ref)
	if err != nil {
		logger.Error("error processing verification", "user_id", userID, "error", err)
		return nil, fmt.Errorf("process verification: %w", err)
	}

	logger.Debug("process_email_verification returned", "user_id", userID, "result", res)
	s.audit.LogEmailVerified(ctx, userID, ref)
	return res, nil
}
