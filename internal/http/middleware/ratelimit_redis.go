package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// SetRedisClient shares a connected client with the limiters. A nil client
// makes the Redis limiters fail open.
func SetRedisClient(client *redis.Client) {
	redisClient = client
}

// RedisRateLimit implements a fixed-window rate limiter using Redis INCR/EXPIRE.
// key format: rl:<window_seconds>:<client_ip>
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		limitByKey(c, key, c.FullPath(), maxRequests, window)
	}
}

// ScopedRateLimit is RedisRateLimit with its own counter, so a route can carry
// a tighter limit than its group. key format: rl:<scope>:<client_ip>:<window_seconds>
func ScopedRateLimit(scope string, maxRequests int, window time.Duration) gin.HandlerFunc {
	if redisClient == nil {
		return SimpleRateLimit(maxRequests, window)
	}
	return func(c *gin.Context) {
		key := "rl:" + scope + ":" + c.ClientIP() + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		limitByKey(c, key, scope, maxRequests, window)
	}
}

// UserRateLimit limits an authenticated user across devices and IPs. It must
// run after Auth. key format: rl:<scope>:<user_id>:<window_seconds>
func UserRateLimit(scope string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}

		key := "rl:" + scope + ":" + userID + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		limitByKey(c, key, scope, maxRequests, window)
	}
}

func limitByKey(c *gin.Context, key, endpoint string, maxRequests int, window time.Duration) {
	if redisClient == nil {
		c.Next()
		return
	}

	ctx := context.Background()
	val, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		// fail open
		c.Header("X-RateLimit-Error", "redis-error")
		c.Next()
		return
	}

	if val == 1 {
		redisClient.Expire(ctx, key, window)
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(maxRequests)-val), 10))

	if val > int64(maxRequests) {
		RLBlocked.WithLabelValues(endpoint).Inc()
		abortLimited(c, window)
		return
	}

	RLRequests.WithLabelValues(endpoint).Inc()
	c.Next()
}
