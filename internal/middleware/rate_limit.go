package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nyahub/nya-api/pkg/apperror"
	"golang.org/x/time/rate"
)

// Limiter decides whether a keyed caller may proceed. Implementations are
// injected so protected endpoints can swap policies without touching
// handler code.
type Limiter interface {
	Allow(key string) bool
}

// IPRateLimiter implements a per-key token bucket limiter
type IPRateLimiter struct {
	visitors map[string]*rate.Limiter
	mu       sync.Mutex
	r        rate.Limit
	b        int
}

// NewIPRateLimiter creates a limiter allowing count events per window for
// each distinct key.
func NewIPRateLimiter(count int, window time.Duration) *IPRateLimiter {
	rl := &IPRateLimiter{
		visitors: make(map[string]*rate.Limiter),
		r:        rate.Limit(float64(count) / window.Seconds()),
		b:        count,
	}

	go rl.cleanupVisitors()

	return rl
}

func (rl *IPRateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	limiter, exists := rl.visitors[key]
	if !exists {
		limiter = rate.NewLimiter(rl.r, rl.b)
		rl.visitors[key] = limiter
	}
	rl.mu.Unlock()

	return limiter.Allow()
}

// cleanupVisitors removes idle entries so the map does not grow unbounded.
func (rl *IPRateLimiter) cleanupVisitors() {
	for {
		time.Sleep(time.Minute)

		rl.mu.Lock()
		for key, limiter := range rl.visitors {
			if limiter.Tokens() >= float64(rl.b) {
				delete(rl.visitors, key)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit returns a middleware that keys the limiter by client IP.
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			abortWithAppError(c, apperror.New(429, "rate_limited", "Rate limit exceeded. Try again later."))
			return
		}
		c.Next()
	}
}
