package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// SlidingWindowLimiter limits requests per key (client IP) over a rolling
// window. Location pings arrive continuously from every active client, so
// the limit has to be generous but still cut off a runaway poller.
type SlidingWindowLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
}

func NewSlidingWindowLimiter(limit int, window time.Duration) *SlidingWindowLimiter {
	l := &SlidingWindowLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
	go l.sweep()
	return l
}

func (l *SlidingWindowLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	cutoff := now.Add(-l.window)
	valid := l.requests[key][:0]
	for _, t := range l.requests[key] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	if len(valid) >= l.limit {
		l.requests[key] = valid
		return false
	}
	l.requests[key] = append(valid, now)
	return true
}

// sweep drops idle keys so the map does not grow with every client that
// ever connected.
func (l *SlidingWindowLimiter) sweep() {
	tick := time.NewTicker(time.Minute)
	for range tick.C {
		l.mu.Lock()
		cutoff := time.Now().Add(-l.window)
		for key, times := range l.requests {
			live := false
			for _, t := range times {
				if t.After(cutoff) {
					live = true
					break
				}
			}
			if !live {
				delete(l.requests, key)
			}
		}
		l.mu.Unlock()
	}
}

// RateLimit rejects requests over the limit with 429.
func RateLimit(limiter *SlidingWindowLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
