package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientInfo struct {
	last  time.Time
	count int
}

type memoryLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
}

// allow reports whether ident may make another request in the current window.
func (l *memoryLimiter) allow(ident string, maxRequests int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	ci, ok := l.clients[ident]
	if !ok || now.Sub(ci.last) > window {
		l.clients[ident] = &clientInfo{last: now, count: 1}
		return true
	}

	ci.count++
	return ci.count <= maxRequests
}

// SimpleRateLimit blocks clients that send more than maxRequests per window.
// State is per process; RateLimit prefers Redis when it is configured.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	l := &memoryLimiter{clients: make(map[string]*clientInfo)}
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP(), maxRequests, window) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			abortLimited(c, window)
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}

// RateLimit limits per client IP using Redis when a client has been set, and
// an in-process window otherwise.
func RateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	if redisClient == nil {
		return SimpleRateLimit(maxRequests, window)
	}
	return RedisRateLimit(maxRequests, window)
}

func abortLimited(c *gin.Context, window time.Duration) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"success":     false,
		"error":       "rate limit exceeded",
		"retry_after": int(window.Seconds()),
	})
}
