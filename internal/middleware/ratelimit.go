// Package middleware holds the gin middleware of the vote API.
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/votechain/metavote/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL         = 10 * time.Minute
	limiterCleanupInterval = 5 * time.Minute
)

// RateLimiter limits requests per client IP with a token bucket each.
type RateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int

	stop     chan struct{}
	stopOnce sync.Once
}

type limiterEntry struct {
	limiter    *rate.Limiter
	mu         sync.Mutex
	lastAccess time.Time
}

// NewRateLimiter starts a limiter allowing requestsPerSecond with the given
// burst. Stop ends its cleanup loop.
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		rate:  rate.Limit(requestsPerSecond),
		burst: burst,
		stop:  make(chan struct{}),
	}
	go rl.cleanup(limiterCleanupInterval)
	return rl
}

// Stop ends the cleanup loop.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.evictIdle(now)
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.limiters.Range(func(key, value interface{}) bool {
		entry := value.(*limiterEntry)
		entry.mu.Lock()
		idle := now.Sub(entry.lastAccess) > limiterIdleTTL
		entry.mu.Unlock()
		if idle {
			rl.limiters.Delete(key)
		}
		return true
	})
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	now := time.Now()
	if val, ok := rl.limiters.Load(key); ok {
		entry := val.(*limiterEntry)
		entry.mu.Lock()
		entry.lastAccess = now
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst), lastAccess: now}
	actual, _ := rl.limiters.LoadOrStore(key, entry)
	return actual.(*limiterEntry).limiter
}

// Middleware rejects requests over the limit with 429. Health and metrics
// endpoints are exempt.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.URL.Path {
		case "/health", "/metrics":
			c.Next()
			return
		}

		clientID := c.ClientIP()
		if clientID == "" {
			clientID = "unknown"
		}
		limiter := rl.limiterFor(clientID)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.burst))
		if !limiter.Allow() {
			logger.Log.Warn("Rate limit exceeded",
				zap.String("client_ip", clientID),
				zap.String("path", c.Request.URL.Path),
				zap.String("correlation_id", GetCorrelationID(c)),
			)
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests. Please try again later.",
				"retry_after": 1,
			})
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
		c.Next()
	}
}
