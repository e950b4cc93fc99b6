package handlers

import (
	"net/http"

	"github.com/MegaUnlimited-io/farmcash-public/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
}

// SignUp creates an auth account. A random password is used when none is given.
func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "valid email is required")
		return
	}

	sess, err := h.Auth.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondErr(c, err)
		return
	}

	if sess.User != nil {
		h.AuditService.LogSignUp(c.Request.Context(), sess.User.ID, c.ClientIP(), c.Request.UserAgent())
	}
	respondOK(c, http.StatusOK, sess)
}

type MagicLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *Handler) MagicLink(c *gin.Context) {
	var req MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "valid email is required")
		return
	}

	if err := h.Auth.SendMagicLink(c.Request.Context(), req.Email); err != nil {
		respondErr(c, err)
		return
	}

	h.AuditService.LogMagicLink(c.Request.Context(), req.Email, c.ClientIP(), c.Request.UserAgent())
	respondOK(c, http.StatusOK, gin.H{"sent": true})
}

// Session returns the current user for the bearer token.
func (h *Handler) Session(c *gin.Context) {
	sess, err := h.Auth.Session(c.Request.Context(), c.GetString(middleware.ContextAccessToken))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, sess)
}

func (h *Handler) SignOut(c *gin.Context) {
	userID, _ := getUserID(c)
	if err := h.Auth.SignOut(c.Request.Context(), c.GetString(middleware.ContextAccessToken)); err != nil {
		respondErr(c, err)
		return
	}

	h.AuditService.LogLogout(c.Request.Context(), userID, c.ClientIP(), c.Request.UserAgent())
	respondOK(c, http.StatusOK, gin.H{"signed_out": true})
}
