package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/MegaUnlimited-io/farmcash-public/internal/domain"
	"github.com/MegaUnlimited-io/farmcash-public/internal/fingerprint"
	"github.com/MegaUnlimited-io/farmcash-public/internal/http/middleware"
	"github.com/MegaUnlimited-io/farmcash-public/internal/platform"
	"github.com/MegaUnlimited-io/farmcash-public/internal/referral"
	"github.com/MegaUnlimited-io/farmcash-public/internal/service"
	"github.com/MegaUnlimited-io/farmcash-public/internal/supabase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// AuthAPI is the hosted auth service.
type AuthAPI interface {
	SignUp(ctx context.Context, email, password string) (*supabase.Session, error)
	SendMagicLink(ctx context.Context, email string) error
	Session(ctx context.Context, accessToken string) (*supabase.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	Verify(ctx context.Context, token, verifyType string) (*supabase.VerifyResult, error)
}

type WaitlistWriter interface {
	CreateWaitlistUser(ctx context.Context, in service.SignupInput) (*service.SignupResult, error)
}

type DashboardReader interface {
	Get(ctx context.Context, userID string) (*domain.Dashboard, error)
}

type VerificationRunner interface {
	Process(ctx context.Context, userID, referredBy string) (domain.VerificationResult, error)
}

// StorageFactory returns the referral-code storage for the current visitor.
type StorageFactory func(c *gin.Context) platform.Storage

type Handler struct {
	Auth         AuthAPI
	Waitlist     WaitlistWriter
	Dashboard    DashboardReader
	Verification VerificationRunner
	Codes        referral.CodeLookup
	AuditService *service.AuditService
	Storage      StorageFactory
}

// CookieStore keeps the referral code in a long-lived cookie.
func CookieStore(secure bool) StorageFactory {
	return func(c *gin.Context) platform.Storage {
		return platform.NewCookieStorage(c, secure)
	}
}

// RedisStore keeps the referral code in Redis under the visitor id cookie.
func RedisStore(client *redis.Client, secure bool) StorageFactory {
	return VisitorStore(secure, func(visitor string) platform.Storage {
		return platform.NewRedisStorage(client, visitor)
	})
}

// VisitorStore opens a server-side storage namespaced by the visitor id.
func VisitorStore(secure bool, open func(visitor string) platform.Storage) StorageFactory {
	return func(c *gin.Context) platform.Storage {
		return open(visitorID(c, secure))
	}
}

const (
	visitorCookie       = "farmcash_visitor"
	visitorCookieMaxAge = 10 * 365 * 24 * 60 * 60
	ctxVisitorID        = "visitor_id"
)

// visitorID returns the opaque id from the visitor cookie, issuing a new
// one on first use. Values that are not UUIDs are replaced.
func visitorID(c *gin.Context, secure bool) string {
	if id := c.GetString(ctxVisitorID); id != "" {
		return id
	}
	id, err := c.Cookie(visitorCookie)
	if err != nil || uuid.Validate(id) != nil {
		id = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(visitorCookie, id, visitorCookieMaxAge, "/", "", secure, true)
	}
	c.Set(ctxVisitorID, id)
	return id
}

func (h *Handler) referralCache(c *gin.Context) *referral.Cache {
	return referral.NewCache(h.Storage(c))
}

// requestFingerprint describes the caller. The IP is the client IP as seen
// by gin; fallbackTZ is used when the X-Timezone header is absent.
func requestFingerprint(c *gin.Context, fallbackTZ string) domain.Fingerprint {
	collector := fingerprint.NewCollector(fingerprint.StaticIP(c.ClientIP()))
	return collector.Collect(c.Request.Context(), fingerprint.RequestEnvironment{Request: c.Request, FallbackTZ: fallbackTZ})
}

// getUserID returns the id stored by the auth middleware.
func getUserID(c *gin.Context) (string, bool) {
	id := c.GetString(middleware.ContextUserID)
	return id, id != ""
}

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// respondErr maps err to a status: not found is 404, a unique conflict is 409,
// an auth API error keeps the upstream status, everything else is 500.
func respondErr(c *gin.Context, err error) {
	var apiErr *supabase.APIError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		respondError(c, http.StatusConflict, err.Error())
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		respondError(c, status, apiErr.Message)
	default:
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}
