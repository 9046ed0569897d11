package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"rasid/pkg/ctxkeys"
)

// RateLimiter enforces a fixed-window per-user request limit.
type RateLimiter struct {
	defaultLimit int
	overrides    map[string]int
	window       time.Duration
	mu           sync.Mutex
	usage        map[string]*rateUsage
}

type rateUsage struct {
	windowStart time.Time
	count       int
}

func NewRateLimiter(defaultLimit int, overrides map[string]int) *RateLimiter {
	if overrides == nil {
		overrides = map[string]int{}
	}
	return &RateLimiter{
		defaultLimit: defaultLimit,
		overrides:    overrides,
		window:       time.Hour,
		usage:        make(map[string]*rateUsage),
	}
}

// Allow reports whether the user may make another request in the current
// window, plus the remaining quota and seconds until the window resets.
func (rl *RateLimiter) Allow(userID string) (bool, int, int) {
	if rl == nil || userID == "" {
		return true, 0, 0
	}
	// overrides and defaultLimit are immutable after construction, safe to
	// read without the lock.
	limit := rl.defaultLimit
	if override, ok := rl.overrides[userID]; ok {
		limit = override
	}
	if limit <= 0 {
		return true, 0, 0
	}

	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.usage[userID]
	if !ok || now.Sub(entry.windowStart) >= rl.window {
		entry = &rateUsage{windowStart: now, count: 0}
		rl.usage[userID] = entry
	}

	if entry.count >= limit {
		resetSeconds := int(entry.windowStart.Add(rl.window).Sub(now).Seconds())
		if resetSeconds < 0 {
			resetSeconds = 0
		}
		return false, 0, resetSeconds
	}

	entry.count++
	remaining := limit - entry.count
	resetSeconds := int(entry.windowStart.Add(rl.window).Sub(now).Seconds())
	if resetSeconds < 0 {
		resetSeconds = 0
	}
	return true, remaining, resetSeconds
}

func (rl *RateLimiter) Cleanup() {
	if rl == nil {
		return
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := time.Now()
	for id, entry := range rl.usage {
		if now.Sub(entry.windowStart) >= 2*rl.window {
			delete(rl.usage, id)
		}
	}
}

func (rl *RateLimiter) StartCleanup(ctx context.Context) {
	if rl == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(rl.window)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Cleanup()
			}
		}
	}()
}

// Middleware rejects requests over the per-user chat quota.
func Middleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := ctxkeys.GetUserID(c.Request.Context())
		if rl != nil {
			allowed, remaining, resetSeconds := rl.Allow(userID)
			if !allowed {
				c.JSON(http.StatusTooManyRequests, gin.H{
					"error":       "تم تجاوز الحد المسموح من الطلبات. حاول مرة أخرى لاحقاً.",
					"retry_after": resetSeconds,
				})
				c.Abort()
				return
			}
			c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
			c.Header("X-RateLimit-Reset", strconv.Itoa(resetSeconds))
		}
		c.Next()
	}
}
