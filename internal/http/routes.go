package http

import (
	"context"

	"github.com/MegaUnlimited-io/farmcash-public/internal/config"
	"github.com/MegaUnlimited-io/farmcash-public/internal/email"
	"github.com/MegaUnlimited-io/farmcash-public/internal/http/handlers"
	"github.com/MegaUnlimited-io/farmcash-public/internal/http/middleware"
	"github.com/MegaUnlimited-io/farmcash-public/internal/logger"
	"github.com/MegaUnlimited-io/farmcash-public/internal/referral"
	"github.com/MegaUnlimited-io/farmcash-public/internal/repository"
	"github.com/MegaUnlimited-io/farmcash-public/internal/service"
	"github.com/MegaUnlimited-io/farmcash-public/internal/supabase"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
)

// RegisterRoutes wires repositories, services and handlers onto r. rdb may be
// nil. middleware.SetRedisClient must be called first so the limiters pick
// the right backend.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config, version string) {
	users := repository.NewUserRepository(db)
	signups := repository.NewWaitlistRepository(db)
	audit := service.NewAuditService(repository.NewAuditRepository(db))

	authClient := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.AppURL+"/verify/", cfg.HTTPTimeout)

	allocator := referral.NewAllocator(users, cfg.ReferralCodeAttempts)
	allocator.OnCollision = service.ReferralCollisions.Inc

	signupService := service.NewSignupService(users, signups, allocator)
	if cfg.ResendAPIKey != "" {
		signupService.WithWelcome(email.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppURL))
	}

	storage := handlers.CookieStore(!cfg.DevMode)
	if cfg.ReferralStore == config.ReferralStoreRedis {
		if rdb != nil {
			storage = handlers.RedisStore(rdb, !cfg.DevMode)
		} else {
			logger.Warn("REFERRAL_STORE=redis but redis is unavailable, using cookies")
		}
	}

	// local verification when the JWT secret is known, otherwise ask the auth API
	var tokens middleware.TokenResolver = authClient
	if cfg.SupabaseJWTSecret != "" {
		tokens = service.NewTokenVerifier(cfg.SupabaseJWTSecret)
	}
	requireAuth := middleware.Auth(tokens)

	h := &handlers.Handler{
		Auth:         authClient,
		Waitlist:     signupService,
		Dashboard:    service.NewDashboardService(users, signups),
		Verification: service.NewVerificationService(signups, audit),
		Codes:        users,
		AuditService: audit,
		Storage:      storage,
	}

	var redisPing handlers.Pinger
	if rdb != nil {
		redisPing = handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}
	healthHandler := handlers.NewHealthHandler(db, redisPing, version)

	r.Use(middleware.Metrics())

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(cfg.APIRateLimit, cfg.APIRateWindow))

	auth := v1.Group("/auth")
	{
		auth.POST("/signup", middleware.ScopedRateLimit("auth_signup", cfg.SignupRateLimit, cfg.SignupRateWindow), h.SignUp)
		auth.POST("/magic-link", middleware.ScopedRateLimit("magic_link", cfg.SignupRateLimit, cfg.SignupRateWindow), h.MagicLink)
		auth.GET("/session", requireAuth, h.Session)
		auth.POST("/signout", requireAuth, h.SignOut)
	}

	waitlist := v1.Group("/waitlist")
	{
		waitlist.POST("/signup", middleware.ScopedRateLimit("waitlist_signup", cfg.SignupRateLimit, cfg.SignupRateWindow), h.WaitlistSignup)
		waitlist.POST("/verification", requireAuth, middleware.UserRateLimit("verification", cfg.SignupRateLimit, cfg.SignupRateWindow), h.WaitlistVerification)
	}

	v1.POST("/verify", middleware.ScopedRateLimit("verify", cfg.SignupRateLimit, cfg.SignupRateWindow), h.Verify)
	v1.GET("/dashboard", requireAuth, h.GetDashboard)
	v1.GET("/dashboard/activity", requireAuth, h.DashboardActivity)

	ref := v1.Group("/referral")
	{
		ref.GET("/capture", h.CaptureReferral)
		ref.GET("/stored", h.StoredReferral)
		ref.DELETE("/stored", h.ClearReferral)
		ref.GET("/lookup", h.LookupReferral)
	}
}
