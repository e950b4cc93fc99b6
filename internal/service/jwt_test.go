package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenVerifierRoundTrip(t *testing.T) {
	v := NewTokenVerifier("test-secret")
	tok, err := v.GenerateJWT(userID, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	sub, err := v.UserIDFromToken(context.Background(), tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != userID {
		t.Fatalf("sub = %q", sub)
	}
}

func TestTokenVerifierRejects(t *testing.T) {
	v := NewTokenVerifier("test-secret")

	expired, _ := v.GenerateJWT(userID, -time.Minute)
	wrongKey, _ := NewTokenVerifier("other").GenerateJWT(userID, time.Hour)
	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": userID}).SignedString([]byte("test-secret"))
	noSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))

	cases := map[string]string{
		"garbage":   "not-a-token",
		"expired":   expired,
		"wrong key": wrongKey,
		"no exp":    noExp,
		"no sub":    noSub,
	}
	for name, tok := range cases {
		if _, err := v.UserIDFromToken(context.Background(), tok); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
