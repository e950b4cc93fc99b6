package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MegaUnlimited-io/farmcash-public/internal/domain"
	"github.com/MegaUnlimited-io/farmcash-public/internal/referral"

	"github.com/gin-gonic/gin"
)

// CaptureReferral stores the ?ref= code from a landing link. The code is
// kept as given; it is only checked when the visitor signs up.
func (h *Handler) CaptureReferral(c *gin.Context) {
	code := strings.TrimSpace(c.Query("ref"))
	if code == "" {
		respondOK(c, http.StatusOK, gin.H{"stored": false})
		return
	}

	if err := h.referralCache(c).Store(c.Request.Context(), code); err != nil {
		respondErr(c, err)
		return
	}

	h.AuditService.LogReferralCaptured(c.Request.Context(), code, c.ClientIP(), c.Request.UserAgent())
	respondOK(c, http.StatusOK, gin.H{"stored": true, "code": code})
}

func (h *Handler) StoredReferral(c *gin.Context) {
	code, ok, err := h.referralCache(c).Get(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	if !ok {
		respondOK(c, http.StatusOK, gin.H{"code": nil})
		return
	}
	respondOK(c, http.StatusOK, gin.H{"code": code})
}

func (h *Handler) ClearReferral(c *gin.Context) {
	if err := h.referralCache(c).Clear(c.Request.Context()); err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"cleared": true})
}

// LookupReferral reports whether a code belongs to a user, without exposing who.
func (h *Handler) LookupReferral(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Query("code")))
	if !referral.IsValidCode(code) {
		respondOK(c, http.StatusOK, gin.H{"valid": false})
		return
	}

	_, err := h.Codes.FindIDByReferralCode(c.Request.Context(), code)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondOK(c, http.StatusOK, gin.H{"valid": false})
	case err != nil:
		respondErr(c, err)
	default:
		respondOK(c, http.StatusOK, gin.H{"valid": true})
	}
}
