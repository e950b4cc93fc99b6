package handlers

import (
	"net/http"
	"strings"

	"github.com/MegaUnlimited-io/farmcash-public/internal/domain"
	"github.com/MegaUnlimited-io/farmcash-public/internal/logger"
	"github.com/MegaUnlimited-io/farmcash-public/internal/referral"
	"github.com/MegaUnlimited-io/farmcash-public/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WaitlistSignupRequest struct {
	Email        string   `json:"email" binding:"required,email"`
	Password     string   `json:"password"`
	GameType     string   `json:"game_type"`
	RewardedApps []string `json:"rewarded_apps"`
	Devices      []string `json:"devices"`
	// Timezone is the browser's IANA zone, used when X-Timezone is not sent.
	Timezone string `json:"timezone"`
	// Referrer is the page the visitor came from.
	Referrer string `json:"referrer"`
	// ReferralCode overrides the stored code from the landing link.
	ReferralCode string `json:"referral_code"`
}

type WaitlistSignupResponse struct {
	UserID       string `json:"user_id"`
	ReferralCode string `json:"referral_code"`
	CreatedUser  bool   `json:"created_user"`
	// AccessToken is empty when the account must confirm its email first.
	AccessToken string `json:"access_token,omitempty"`
}

// WaitlistSignup creates the auth account, then the users and
// waitlist_signups rows.
func (h *Handler) WaitlistSignup(c *gin.Context) {
	var req WaitlistSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "valid email is required")
		return
	}

	ctx := c.Request.Context()
	fp := requestFingerprint(c, req.Timezone)

	code := strings.ToUpper(strings.TrimSpace(req.ReferralCode))
	if code == "" {
		stored, _, err := h.referralCache(c).Get(ctx)
		if err != nil {
			logger.Warn("could not read stored referral code", "error", err)
		}
		code = stored
	}
	referredBy := referral.ResolveReferrer(ctx, h.Codes, code)

	sess, err := h.Auth.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		respondErr(c, err)
		return
	}
	if sess.User == nil || sess.User.ID == "" {
		respondError(c, http.StatusBadGateway, "auth service returned no user")
		return
	}

	res, err := h.Waitlist.CreateWaitlistUser(ctx, service.SignupInput{
		UserID: sess.User.ID,
		Email:  req.Email,
		Survey: domain.Survey{
			GameType:     req.GameType,
			RewardedApps: req.RewardedApps,
			Devices:      req.Devices,
		},
		Fingerprint: fp,
		ReferredBy:  referredBy,
		Referrer:    req.Referrer,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	h.AuditService.LogSignUp(ctx, res.UserID, fp.IP, c.Request.UserAgent())
	h.AuditService.LogWaitlistSignup(ctx, res, fp, c.Request.UserAgent())

	respondOK(c, http.StatusCreated, WaitlistSignupResponse{
		UserID:       res.UserID,
		ReferralCode: res.ReferralCode,
		CreatedUser:  res.CreatedUser,
		AccessToken:  sess.AccessToken,
	})
}

type VerificationRequest struct {
	// ReferredBy is the referrer's user id. When empty the stored referral
	// code is resolved instead.
	ReferredBy string `json:"referred_by"`
}

// WaitlistVerification awards signup credit once the email is confirmed.
func (h *Handler) WaitlistVerification(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req VerificationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid body")
			return
		}
	}
	if req.ReferredBy != "" {
		if _, err := uuid.Parse(req.ReferredBy); err != nil {
			respondError(c, http.StatusBadRequest, "referred_by must be a user id")
			return
		}
	}

	ctx := c.Request.Context()
	cache := h.referralCache(c)

	referredBy := req.ReferredBy
	if referredBy == "" {
		code, _, err := cache.Get(ctx)
		if err != nil {
			logger.Warn("could not read stored referral code", "error", err)
		}
		referredBy = referral.ResolveReferrer(ctx, h.Codes, code)
	}
	if referredBy == userID {
		referredBy = ""
	}

	res, err := h.Verification.Process(ctx, userID, referredBy)
	if err != nil {
		respondErr(c, err)
		return
	}

	if err := cache.Clear(ctx); err != nil {
		logger.Warn("could not clear stored referral code", "error", err)
	}
	respondOK(c, http.StatusOK, res)
}
