package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MegaUnlimited-io/farmcash-public/internal/domain"
)

type fakeRPC struct {
	userID     string
	referredBy *string
	res        domain.VerificationResult
	err        error
}

func (f *fakeRPC) ProcessEmailVerification(_ context.Context, userID string, referredBy *string) (domain.VerificationResult, error) {
	f.userID, f.referredBy = userID, referredBy
	return f.res, f.err
}

type memAudit struct {
	logs []*domain.AuditLog
}

func (m *memAudit) Create(_ context.Context, l *domain.AuditLog) error {
	m.logs = append(m.logs, l)
	return nil
}

func (m *memAudit) GetByUserID(_ context.Context, userID string, limit int) ([]*domain.AuditLog, error) {
	var out []*domain.AuditLog
	for _, l := range m.logs {
		if l.UserID == userID && len(out) < limit {
			out = append(out, l)
		}
	}
	return out, nil
}

func TestVerificationProcess(t *testing.T) {
	rpc := &fakeRPC{res: domain.VerificationResult{"success": true, "seeds_awarded": int32(50)}}
	audit := &memAudit{}
	svc := NewVerificationService(rpc, NewAuditService(audit))

	res, err := svc.Process(context.Background(), userID, referrerID)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res["success"] != true {
		t.Fatalf("unexpected result %v", res)
	}
	if rpc.userID != userID || rpc.referredBy == nil || *rpc.referredBy != referrerID {
		t.Fatalf("rpc called with %q %v", rpc.userID, rpc.referredBy)
	}
	if len(audit.logs) != 1 || audit.logs[0].Action != domain.AuditActionEmailVerified {
		t.Fatalf("audit logs = %+v", audit.logs)
	}
}

func TestVerificationProcessWithoutReferrer(t *testing.T) {
	rpc := &fakeRPC{res: domain.VerificationResult{}}
	if _, err := NewVerificationService(rpc, nil).Process(context.Background(), userID, ""); err != nil {
		t.Fatalf("process: %v", err)
	}
	if rpc.referredBy != nil {
		t.Fatalf("referred_by should be nil")
	}
}

func TestVerificationProcessError(t *testing.T) {
	audit := &memAudit{}
	svc := NewVerificationService(&fakeRPC{err: errBackend}, NewAuditService(audit))
	if _, err := svc.Process(context.Background(), userID, ""); !errors.Is(err, errBackend) {
		t.Fatalf("err = %v", err)
	}
	if len(audit.logs) != 0 {
		t.Fatalf("failed verification must not be audited")
	}
}
