package mw

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a client's limiter survives without requests.
const limiterIdleTTL = 10 * time.Minute

// ClientLimiters hands out one token bucket per client IP. Buckets of clients
// that went quiet expire instead of accumulating for the life of the process.
type ClientLimiters struct {
	limiters *cache.Cache
	r        rate.Limit
	b        int
}

// NewClientLimiters creates buckets refilling at r per second with burst b.
func NewClientLimiters(r rate.Limit, b int) *ClientLimiters {
	return &ClientLimiters{
		limiters: cache.New(limiterIdleTTL, 2*limiterIdleTTL),
		r:        r,
		b:        b,
	}
}

// Get returns the limiter for ip, creating it on first use.
func (l *ClientLimiters) Get(ip string) *rate.Limiter {
	if v, found := l.limiters.Get(ip); found {
		limiter := v.(*rate.Limiter)
		l.limiters.Set(ip, limiter, cache.DefaultExpiration)
		return limiter
	}

	limiter := rate.NewLimiter(l.r, l.b)
	if err := l.limiters.Add(ip, limiter, cache.DefaultExpiration); err != nil {
		// Another request for the same client won the race.
		if v, found := l.limiters.Get(ip); found {
			return v.(*rate.Limiter)
		}
	}
	return limiter
}

// RateLimiter is a middleware for IP-based rate limiting. Only the listed
// methods are limited; with none given every request counts.
func RateLimiter(r rate.Limit, b int, methods ...string) gin.HandlerFunc {
	limiters := NewClientLimiters(r, b)
	return func(c *gin.Context) {
		if len(methods) > 0 && !contains(methods, c.Request.Method) {
			c.Next()
			return
		}
		if !limiters.Get(c.ClientIP()).Allow() {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
