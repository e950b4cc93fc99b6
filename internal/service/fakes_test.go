package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MegaUnlimited-io/farmcash-public/internal/domain"
)

// fakeUsers is an in-memory users table that records every call.
type fakeUsers struct {
	rows      map[string]*domain.User
	findErr   error
	createErr error
	updateErr error
	deleteErr error
	calls     []string
}

func newFakeUsers(existing ...*domain.User) *fakeUsers {
	f := &fakeUsers{rows: make(map[string]*domain.User)}
	for _, u := range existing {
		f.rows[u.ID] = u
	}
	return f
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	f.calls = append(f.calls, "find")
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.rows[id]
	if !ok {
		return nil, fmt.Errorf("find user %s: %w", id, domain.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	f.calls = append(f.calls, "create")
	if f.createErr != nil {
		return f.createErr
	}
	cp := *u
	f.rows[u.ID] = &cp
	return nil
}

func (f *fakeUsers) MarkWaitlist(_ context.Context, id string, referredBy *string, referralCode string) (string, error) {
	f.calls = append(f.calls, "mark")
	if f.updateErr != nil {
		return "", f.updateErr
	}
	u, ok := f.rows[id]
	if !ok {
		return "", domain.ErrNotFound
	}
	u.IsWaitlistUser = true
	u.ReferredBy = referredBy
	if u.ReferralCode == "" {
		u.ReferralCode = referralCode
	}
	return u.ReferralCode, nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	f.calls = append(f.calls, "delete")
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.rows, id)
	return nil
}

type fakeSignups struct {
	rows      []*domain.WaitlistSignup
	createErr error
	// seenUser is a snapshot of the users table at insert time
	users    *fakeUsers
	seenUser *domain.User
}

func (f *fakeSignups) Create(_ context.Context, s *domain.WaitlistSignup) error {
	if f.users != nil {
		f.seenUser = f.users.rows[s.UserID]
	}
	if f.createErr != nil {
		return f.createErr
	}
	s.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, s)
	return nil
}

func (f *fakeSignups) FindByUserID(_ context.Context, userID string) (*domain.WaitlistSignup, error) {
	for _, s := range f.rows {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, fmt.Errorf("find waitlist signup: %w", domain.ErrNotFound)
}

type fakeAllocator struct {
	code  string
	err   error
	calls int
}

func (f *fakeAllocator) Allocate(context.Context) (string, error) {
	f.calls++
	return f.code, f.err
}

type fakeWelcome struct {
	to, code string
	err      error
}

func (f *fakeWelcome) SendWelcome(_ context.Context, to, code string) error {
	f.to, f.code = to, code
	return f.err
}

var errBackend = errors.New("backend unavailable")
