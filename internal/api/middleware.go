// internal/api/middleware.go
package api

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shannenjosh/verifyeye/internal/utils"
)

// RateLimiter implements a fixed-window limiter keyed per client.
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.RWMutex
}

type visitor struct {
	limit     int
	remaining int
	reset     time.Time
}

// NewRateLimiter creates a limiter and starts its cleanup loop.
func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
	}

	go rl.cleanup()

	return rl
}

// cleanup drops visitors whose window expired.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, v := range rl.visitors {
			if now.After(v.reset) {
				delete(rl.visitors, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow consumes one request from the client's window.
func (rl *RateLimiter) Allow(key string, limit int, window time.Duration) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, exists := rl.visitors[key]

	if !exists || now.After(v.reset) {
		rl.visitors[key] = &visitor{
			limit:     limit,
			remaining: limit - 1,
			reset:     now.Add(window),
		}
		return true
	}

	if v.remaining <= 0 {
		return false
	}

	v.remaining--
	return true
}

// headers returns the current limit/remaining/reset values for a key.
func (rl *RateLimiter) headers(key string, limit int, window time.Duration) (int, int, int64) {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	v, exists := rl.visitors[key]
	if !exists {
		return limit, limit, time.Now().Add(window).Unix()
	}

	remaining := v.remaining
	if remaining < 0 {
		remaining = 0
	}

	return limit, remaining, v.reset.Unix()
}

// RateLimitByIP limits requests per client IP. Every middleware
// instance owns its own limiter, so each budget (default, detection,
// generation) keeps an independent window per client and nested route
// groups never drain one another's allowance.
func RateLimitByIP(limit int, window time.Duration) gin.HandlerFunc {
	rl := NewRateLimiter()

	return func(c *gin.Context) {
		key := c.ClientIP()

		if !rl.Allow(key, limit, window) {
			l, remaining, reset := rl.headers(key, limit, window)
			c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", l))
			c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
			c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", reset))

			c.JSON(http.StatusTooManyRequests, gin.H{
				"success":   false,
				"error":     "Rate limit exceeded",
				"code":      "RATE_LIMIT_EXCEEDED",
				"timestamp": time.Now().Format(time.RFC3339),
			})
			c.Abort()
			return
		}

		l, remaining, reset := rl.headers(key, limit, window)
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", l))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", reset))

		c.Next()
	}
}

// DetectionRateLimit budgets the detection endpoints.
func DetectionRateLimit() gin.HandlerFunc {
	return RateLimitByIP(60, time.Minute)
}

// GenerationRateLimit budgets generation and summarization, which hold
// the generative oracle busy far longer per request.
func GenerationRateLimit() gin.HandlerFunc {
	return RateLimitByIP(15, time.Minute)
}

// DefaultRateLimit applies to all remaining API endpoints.
func DefaultRateLimit() gin.HandlerFunc {
	return RateLimitByIP(100, time.Minute)
}

// RecoveryMiddleware converts handler panics into the standard error
// envelope instead of gin's bare 500.
func RecoveryMiddleware() gin.HandlerFunc {
	helper := NewResponseHelper()

	return gin.CustomRecovery(func(c *gin.Context, _ interface{}) {
		helper.InternalError(c, ErrorInternalError, "internal server error")
		c.Abort()
	})
}

// MetricsMiddleware records per-endpoint request counts and latency.
func MetricsMiddleware() gin.HandlerFunc {
	collector := utils.GetMetricsCollector()

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		collector.RecordRequest(endpoint, time.Since(start), c.Writer.Status() < 500)
	}
}
