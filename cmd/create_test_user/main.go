package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/MegaUnlimited-io/farmcash-public/internal/db"
	"github.com/MegaUnlimited-io/farmcash-public/internal/domain"
	"github.com/MegaUnlimited-io/farmcash-public/internal/fingerprint"
	"github.com/MegaUnlimited-io/farmcash-public/internal/referral"
	"github.com/MegaUnlimited-io/farmcash-public/internal/repository"
	"github.com/MegaUnlimited-io/farmcash-public/internal/service"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Seeds a waitlist user directly in the database and prints a token for it.
// The auth service is not involved, so the account cannot sign in by email.
func main() {
	_ = godotenv.Load()

	email := flag.String("email", "tester@farmcash.local", "email for the test user")
	refCode := flag.String("ref", "", "referral code of an existing user")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	users := repository.NewUserRepository(pool)
	signups := repository.NewWaitlistRepository(pool)
	svc := service.NewSignupService(users, signups, referral.NewAllocator(users, referral.DefaultMaxAttempts))
	ctx := context.Background()

	userID := uuid.NewString()
	fp := fingerprint.NewCollector(fingerprint.StaticIP("127.0.0.1")).Collect(ctx, fingerprint.StaticEnvironment{
		UA: "create_test_user",
		TZ: "UTC",
	})

	res, err := svc.CreateWaitlistUser(ctx, service.SignupInput{
		UserID:      userID,
		Email:       *email,
		Survey:      domain.Survey{GameType: "test", RewardedApps: []string{}, Devices: []string{"desktop"}},
		Fingerprint: fp,
		ReferredBy:  referral.ResolveReferrer(ctx, users, *refCode),
	})
	if err != nil {
		log.Fatalf("create waitlist user failed: %v", err)
	}
	log.Printf("user created id=%s referral_code=%s\n", res.UserID, res.ReferralCode)

	// verify read
	d, err := service.NewDashboardService(users, signups).Get(ctx, userID)
	if err != nil {
		log.Fatalf("dashboard read failed: %v", err)
	}
	log.Printf("fetched email=%s seeds=%d referral_code=%s verified=%v\n", d.Email, d.SeedsBalance, d.ReferralCode, d.EmailVerified)

	secret := os.Getenv("SUPABASE_JWT_SECRET")
	if secret == "" {
		log.Println("SUPABASE_JWT_SECRET not set, no token printed")
		return
	}
	token, err := service.NewTokenVerifier(secret).GenerateJWT(userID, 24*time.Hour)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
