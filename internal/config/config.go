package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MegaUnlimited-io/farmcash-public/internal/logger"
	"github.com/MegaUnlimited-io/farmcash-public/internal/referral"

	"github.com/joho/godotenv"
)

const (
	ReferralStoreCookie = "cookie"
	ReferralStoreRedis  = "redis"
)

type Config struct {
	AppPort     string
	AppURL      string
	DatabaseURL string
	DevMode     bool

	SupabaseURL       string
	SupabaseAnonKey   string
	SupabaseJWTSecret string // empty: tokens are checked against /auth/v1/user

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AllowedOrigins []string

	LogLevel  string
	LogFormat string

	ResendAPIKey string // empty disables the welcome email
	EmailFrom    string

	ReferralCodeAttempts int
	ReferralStore        string
	HTTPTimeout          time.Duration
	OrphanCheckInterval  time.Duration

	APIRateLimit     int
	APIRateWindow    time.Duration
	SignupRateLimit  int
	SignupRateWindow time.Duration
}

// Load reads configuration from the environment, after loading .env if present.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	supabaseURL := strings.TrimRight(os.Getenv("SUPABASE_URL"), "/")
	if supabaseURL == "" {
		logger.Fatal("SUPABASE_URL is not set")
	}

	anonKey := os.Getenv("SUPABASE_ANON_KEY")
	if anonKey == "" {
		logger.Fatal("SUPABASE_ANON_KEY is not set")
	}

	port := getEnv("APP_PORT", "8080")

	store := strings.ToLower(getEnv("REFERRAL_STORE", ReferralStoreCookie))
	if store != ReferralStoreCookie && store != ReferralStoreRedis {
		logger.Warn("unknown REFERRAL_STORE, using cookie", "value", store)
		store = ReferralStoreCookie
	}

	var origins []string
	for _, o := range strings.Split(getEnv("ALLOWED_ORIGINS", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		AppPort:     port,
		AppURL:      strings.TrimRight(getEnv("APP_URL", "http://localhost:"+port), "/"),
		DatabaseURL: dbURL,
		DevMode:     os.Getenv("DEV_MODE") == "true",

		SupabaseURL:       supabaseURL,
		SupabaseAnonKey:   anonKey,
		SupabaseJWTSecret: os.Getenv("SUPABASE_JWT_SECRET"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		AllowedOrigins: origins,

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    getEnv("EMAIL_FROM", "FarmCash <hello@farmcash.app>"),

		ReferralCodeAttempts: getInt("REFERRAL_CODE_ATTEMPTS", referral.DefaultMaxAttempts),
		ReferralStore:        store,
		HTTPTimeout:          getSeconds("HTTP_TIMEOUT_SECONDS", 10),
		OrphanCheckInterval:  getSeconds("ORPHAN_CHECK_INTERVAL_SECONDS", 300),

		APIRateLimit:     getInt("API_RATE_LIMIT", 60),
		APIRateWindow:    getSeconds("API_RATE_WINDOW_SECONDS", 60),
		SignupRateLimit:  getInt("SIGNUP_RATE_LIMIT", 5),
		SignupRateWindow: getSeconds("SIGNUP_RATE_WINDOW_SECONDS", 60),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getInt falls back to def on garbage or negative values. Zero is only
// accepted for keys whose default is zero.
func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || (n == 0 && def != 0) {
		logger.Warn("ignoring invalid integer setting", "key", key, "value", v)
		return def
	}
	return n
}

func getSeconds(key string, def int) time.Duration {
	return time.Duration(getInt(key, def)) * time.Second
}
