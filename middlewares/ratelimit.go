package middlewares

import (
	"context"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

type rateEntry struct {
	windowStart time.Time
	count       int
}

// RateLimiter is a fixed-window per-client request counter. Fiber runs
// handlers on multiple goroutines, so the map is mutex-guarded.
type RateLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string]*rateEntry

	// now is swappable so tests can drive the clock.
	now func() time.Time
}

// NewRateLimiter returns a limiter allowing max requests per window per key.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		max:     max,
		window:  window,
		entries: make(map[string]*rateEntry),
		now:     time.Now,
	}
}

// Allow reports whether another request from key fits in the current
// window. A fresh or expired window resets the count to 1 and allows.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	e, ok := rl.entries[key]
	if !ok || now.Sub(e.windowStart) >= rl.window {
		rl.entries[key] = &rateEntry{windowStart: now, count: 1}
		return true
	}
	e.count++
	return e.count <= rl.max
}

// RetryAfter returns how long key must wait for a fresh window.
func (rl *RateLimiter) RetryAfter(key string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	e, ok := rl.entries[key]
	if !ok {
		return 0
	}
	remaining := rl.window - rl.now().Sub(e.windowStart)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Sweep deletes entries whose window has expired, bounding memory growth.
func (rl *RateLimiter) Sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, e := range rl.entries {
		if now.Sub(e.windowStart) >= rl.window {
			delete(rl.entries, key)
		}
	}
}

// StartSweeper runs Sweep on a fixed interval until ctx is cancelled.
func (rl *RateLimiter) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Sweep()
		}
	}
}

func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.entries)
}

// ClientKey resolves the originating client address: the first hop of
// X-Forwarded-For when a proxy set it, else the socket address.
func ClientKey(c *fiber.Ctx) string {
	if fwd := c.Get(fiber.HeaderXForwardedFor); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		if fwd = strings.TrimSpace(fwd); fwd != "" {
			return fwd
		}
	}
	return c.IP()
}

// RateLimit gates every request through rl, keyed by client IP. Rejections
// answer 429 with a Retry-After hint for the rest of the window.
func RateLimit(rl *RateLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := ClientKey(c)
		if rl.Allow(key) {
			return c.Next()
		}
		secs := int(math.Ceil(rl.RetryAfter(key).Seconds()))
		if secs < 1 {
			secs = 1
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(secs))
		return c.Status(fiber.StatusTooManyRequests).SendString("Too Many Requests")
	}
}
