package handlers

import (
	"net/http"

	"github.com/MegaUnlimited-io/farmcash-public/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetDashboard(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	d, err := h.Dashboard.Get(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, http.StatusOK, d)
}

const activityLimit = 20

// DashboardActivity lists the caller's most recent audit entries.
func (h *Handler) DashboardActivity(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	logs, err := h.AuditService.GetUserAuditLogs(c.Request.Context(), userID, activityLimit)
	if err != nil {
		respondErr(c, err)
		return
	}
	if logs == nil {
		logs = []*domain.AuditLog{}
	}

	respondOK(c, http.StatusOK, gin.H{"activity": logs})
}
