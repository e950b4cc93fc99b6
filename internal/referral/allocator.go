// Package referral allocates waitlist referral codes and keeps the code a
// visitor arrived with.
package referral

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/MegaUnlimited-io/farmcash-public/internal/domain"
	"github.com/MegaUnlimited-io/farmcash-public/internal/logger"
)

// Alphabet omits I, O, 0 and 1.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	CodeLength         = 6
	DefaultMaxAttempts = 5
)

var ErrCodeSpaceExhausted = errors.New("failed to generate unique referral code after multiple attempts")

// CodeLookup finds the user owning a referral code. It must return an error
// wrapping domain.ErrNotFound when no user has the code.
type CodeLookup interface {
	FindIDByReferralCode(ctx context.Context, code string) (string, error)
}

// IntN returns a uniform integer in [0, n).
type IntN func(n int) (int, error)

func cryptoIntN(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// Generate returns a random code of CodeLength symbols from Alphabet.
func Generate(intn IntN) (string, error) {
	if intn == nil {
		intn = cryptoIntN
	}
	buf := make([]byte, CodeLength)
	for i := range buf {
		n, err := intn(len(Alphabet))
		if err != nil {
			return "", err
		}
		buf[i] = Alphabet[n]
	}
	return string(buf), nil
}

// IsValidCode reports whether code has the shape of a referral code.
func IsValidCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(Alphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}

// Allocator hands out codes that were unused at the time of the check. The
// check and the later insert are not atomic; the unique index on
// users.referral_code catches the rare lost race.
type Allocator struct {
	lookup      CodeLookup
	maxAttempts int
	intn        IntN
	log         *slog.Logger

	// OnCollision is called for every code that was already taken.
	OnCollision func()
}

func NewAllocator(lookup CodeLookup, maxAttempts int) *Allocator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Allocator{
		lookup:      lookup,
		maxAttempts: maxAttempts,
		intn:        cryptoIntN,
		log:         logger.Component("referral"),
	}
}

// WithRand replaces the random source.
func (a *Allocator) WithRand(intn IntN) *Allocator {
	a.intn = intn
	return a
}

func (a *Allocator) Allocate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		code, err := Generate(a.intn)
		if err != nil {
			return "", fmt.Errorf("generate referral code: %w", err)
		}

		_, err = a.lookup.FindIDByReferralCode(ctx, code)
		if errors.Is(err, domain.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("check referral code: %w", err)
		}

		a.log.Warn("referral code collision detected, retrying",
			"code", code, "attempt", attempt+1, "max_attempts", a.maxAttempts)
		if a.OnCollision != nil {
			a.OnCollision()
		}
	}
	return "", ErrCodeSpaceExhausted
}

// ResolveReferrer returns the id of the user owning code, or "" when the code
// is empty, unknown, or the lookup fails.
func ResolveReferrer(ctx context.Context, lookup CodeLookup, code string) string {
	if code == "" {
		return ""
	}
	id, err := lookup.FindIDByReferralCode(ctx, code)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Error("error looking up referral code", "code", code, "error", err)
		}
		return ""
	}
	return id
}
