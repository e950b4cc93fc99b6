package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/MegaUnlimited-io/farmcash-public/internal/domain"
	"github.com/MegaUnlimited-io/farmcash-public/internal/referral"
	"github.com/MegaUnlimited-io/farmcash-public/internal/repository"
	"github.com/MegaUnlimited-io/farmcash-public/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	var names []string
	for _, f := range files {
		if filepath.Ext(f.Name()) == ".sql" {
			names = append(names, f.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		b, err := os.ReadFile(filepath.Join(migDir, name))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", name, err)
		}
	}
}

func connect(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db
}

func newSignup(users *repository.UserRepository, signups *repository.WaitlistRepository) *service.SignupService {
	return service.NewSignupService(users, signups, referral.NewAllocator(users, referral.DefaultMaxAttempts))
}

func signupInput(email, referredBy string) service.SignupInput {
	return service.SignupInput{
		UserID: uuid.NewString(),
		Email:  email,
		Survey: domain.Survey{GameType: "idle", RewardedApps: []string{"Mistplay"}, Devices: []string{"android"}},
		Fingerprint: domain.Fingerprint{
			Timezone: "UTC", Browser: "Chrome", OS: "Android", DeviceType: "mobile", Hash: "abc123",
		},
		ReferredBy: referredBy,
	}
}

func TestWaitlistSignupAndVerification(t *testing.T) {
	db := connect(t)
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	signups := repository.NewWaitlistRepository(db)
	svc := newSignup(users, signups)

	referrer, err := svc.CreateWaitlistUser(ctx, signupInput("referrer@example.com", ""))
	if err != nil {
		t.Fatalf("referrer signup: %v", err)
	}
	if !referral.IsValidCode(referrer.ReferralCode) {
		t.Fatalf("bad code %q", referrer.ReferralCode)
	}

	id, err := users.FindIDByReferralCode(ctx, referrer.ReferralCode)
	if err != nil || id != referrer.UserID {
		t.Fatalf("lookup code = %q, %v", id, err)
	}

	in := signupInput("friend@example.com", referrer.UserID)
	friend, err := svc.CreateWaitlistUser(ctx, in)
	if err != nil {
		t.Fatalf("friend signup: %v", err)
	}

	u, err := users.FindByID(ctx, friend.UserID)
	if err != nil {
		t.Fatalf("find friend: %v", err)
	}
	if u.WaterBalance != 100 || u.UserLevel != 1 || u.SeedsBalance != 0 || !u.IsWaitlistUser {
		t.Fatalf("unexpected defaults %+v", u)
	}
	if u.ReferredBy == nil || *u.ReferredBy != referrer.UserID {
		t.Fatalf("referred_by = %v", u.ReferredBy)
	}

	s, err := signups.FindByUserID(ctx, friend.UserID)
	if err != nil {
		t.Fatalf("find signup: %v", err)
	}
	if s.Referrer != domain.ReferrerDirect || s.IPAddress != "" || s.EmailVerified {
		t.Fatalf("unexpected signup %+v", s)
	}

	res, err := signups.ProcessEmailVerification(ctx, friend.UserID, &referrer.UserID)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if res["success"] != true {
		t.Fatalf("result = %v", res)
	}

	d, err := service.NewDashboardService(users, signups).Get(ctx, friend.UserID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if !d.EmailVerified || d.SeedsBalance == 0 {
		t.Fatalf("dashboard = %+v", d)
	}

	rd, err := service.NewDashboardService(users, signups).Get(ctx, referrer.UserID)
	if err != nil {
		t.Fatalf("referrer dashboard: %v", err)
	}
	if rd.ReferralCount != 1 {
		t.Fatalf("referral_count = %d", rd.ReferralCount)
	}

	// a second verification awards nothing
	res, err = signups.ProcessEmailVerification(ctx, friend.UserID, nil)
	if err != nil || res["success"] != false {
		t.Fatalf("second verify = %v, %v", res, err)
	}
}

func TestExistingUserKeepsCode(t *testing.T) {
	db := connect(t)
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	signups := repository.NewWaitlistRepository(db)

	// row created outside the signup flow, as a backend trigger would
	id := uuid.NewString()
	pre := domain.NewWaitlistUser(id, "trigger@example.com", "", nil)
	pre.IsWaitlistUser = false
	pre.ReferralCode = "TRG" + id[:3]
	if err := users.Create(ctx, pre); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	in := signupInput("trigger@example.com", "")
	in.UserID = id
	res, err := newSignup(users, signups).CreateWaitlistUser(ctx, in)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if res.CreatedUser || res.ReferralCode != pre.ReferralCode {
		t.Fatalf("result = %+v", res)
	}

	// a second signup for the same user hits the unique constraint
	if _, err := newSignup(users, signups).CreateWaitlistUser(ctx, in); !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("err = %v; want duplicate", err)
	}
}

func TestTriggerCreatedUserGetsCode(t *testing.T) {
	db := connect(t)
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	signups := repository.NewWaitlistRepository(db)

	// the auth trigger leaves referral_code NULL
	id := uuid.NewString()
	if _, err := db.Exec(ctx, `INSERT INTO users (id, email) VALUES ($1::uuid, $2)`, id, "nullcode@example.com"); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	in := signupInput("nullcode@example.com", "")
	in.UserID = id
	res, err := newSignup(users, signups).CreateWaitlistUser(ctx, in)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if res.CreatedUser || len(res.ReferralCode) != 6 {
		t.Fatalf("result = %+v", res)
	}

	u, err := users.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if u.ReferralCode != res.ReferralCode || !u.IsWaitlistUser {
		t.Fatalf("stored user = %+v", u)
	}
}

func TestMissingRowsAreNotFound(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	users := repository.NewUserRepository(db)

	if _, err := users.FindByID(ctx, uuid.NewString()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if _, err := users.FindIDByReferralCode(ctx, "ZZZZZZ"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if _, err := repository.NewWaitlistRepository(db).FindByUserID(ctx, uuid.NewString()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestAuditRepository(t *testing.T) {
	db := connect(t)
	ctx := context.Background()

	audit := service.NewAuditService(repository.NewAuditRepository(db))
	id := uuid.NewString()
	audit.LogSignUp(ctx, id, "203.0.113.9", "Mozilla/5.0")
	audit.LogMagicLink(ctx, "someone@example.com", "", "")

	logs, err := audit.GetUserAuditLogs(ctx, id, 10)
	if err != nil {
		t.Fatalf("get logs: %v", err)
	}
	if len(logs) != 1 || logs[0].Action != domain.AuditActionSignUp || logs[0].IP != "203.0.113.9" {
		t.Fatalf("logs = %+v", logs)
	}
}
