package middleware

import (
	"context"
	"sync"
	"time"

	"teamboard-api/internal/logger"
	"teamboard-api/pkg/status"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// IPRateLimiter is a token bucket per client IP
type IPRateLimiter struct {
	mu     sync.RWMutex
	limits map[string]*rate.Limiter
	r      rate.Limit
	b      int
	logger *logger.Logger
}

// NewIPRateLimiter creates a limiter allowing r events per second with burst b.
// Idle buckets are swept until ctx is cancelled.
func NewIPRateLimiter(ctx context.Context, r rate.Limit, b int, log *logger.Logger) *IPRateLimiter {
	i := &IPRateLimiter{
		limits: make(map[string]*rate.Limiter),
		r:      r,
		b:      b,
		logger: log,
	}

	go i.cleanUpVisitors(ctx, 3*time.Minute)

	return i
}

// GetLimiter returns the bucket for ip, creating it on first use
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.RLock()
	limiter, exists := i.limits[ip]
	i.mu.RUnlock()

	if !exists {
		i.mu.Lock()
		limiter, exists = i.limits[ip]
		if !exists {
			limiter = rate.NewLimiter(i.r, i.b)
			i.limits[ip] = limiter
		}
		i.mu.Unlock()
	}

	return limiter
}

// sweep removes buckets that have refilled completely
func (i *IPRateLimiter) sweep(now time.Time) int {
	i.mu.Lock()
	defer i.mu.Unlock()

	removed := 0
	for ip, limiter := range i.limits {
		if limiter.TokensAt(now) >= float64(limiter.Burst()) {
			delete(i.limits, ip)
			removed++
		}
	}
	return removed
}

// cleanUpVisitors periodically sweeps idle buckets
func (i *IPRateLimiter) cleanUpVisitors(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := i.sweep(now); removed > 0 {
				i.logger.Debugf("Rate limiter cleanup removed %d inactive IPs", removed)
			}
		}
	}
}

// Middleware rejects requests over the limit with 429
func (i *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown_ip"
		}

		if !i.GetLimiter(ip).Allow() {
			status.Abort(c, status.CodeTooManyRequests, "Too many requests, slow down")
			return
		}

		c.Next()
	}
}
