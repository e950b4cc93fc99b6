package handlers

import (
	"net/http"
	"strconv"

	"github.com/MegaUnlimited-io/farmcash-public/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var VerifyRelayRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "verify_relay_requests_total",
		Help: "Verification tokens relayed to the auth API, by upstream status",
	},
	[]string{"status"},
)

func init() {
	prometheus.MustRegister(VerifyRelayRequests)
}

type VerifyRequest struct {
	Token string `json:"token"`
	Type  string `json:"type"`
}

// Verify relays a one-time token to the auth API so the API key stays on the
// server. The upstream status code is passed back unchanged. The request body
// is forwarded as-is, without validation.
func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid body")
		return
	}

	res, err := h.Auth.Verify(c.Request.Context(), req.Token, req.Type)
	if err != nil {
		logger.Error("verification relay failed", "error", err)
		VerifyRelayRequests.WithLabelValues("error").Inc()
		c.JSON(http.StatusBadGateway, gin.H{"success": false})
		return
	}

	VerifyRelayRequests.WithLabelValues(strconv.Itoa(res.StatusCode)).Inc()
	c.JSON(res.StatusCode, gin.H{"success": res.Success})
}
