package middlewares

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_FixedWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(3, time.Minute)
	rl.now = func() time.Time { return now }

	t.Run("allows up to the ceiling", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			assert.True(t, rl.Allow("1.2.3.4"), "request %d should pass", i+1)
		}
		assert.False(t, rl.Allow("1.2.3.4"), "request over the ceiling must be rejected")
	})

	t.Run("keys are independent", func(t *testing.T) {
		assert.True(t, rl.Allow("5.6.7.8"))
	})

	t.Run("window expiry resets the count", func(t *testing.T) {
		now = now.Add(time.Minute)
		assert.True(t, rl.Allow("1.2.3.4"))
		assert.True(t, rl.Allow("1.2.3.4"))
	})
}

func TestRateLimiter_RetryAfter(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }

	require.True(t, rl.Allow("k"))
	now = now.Add(20 * time.Second)
	assert.Equal(t, 40*time.Second, rl.RetryAfter("k"))
	assert.Equal(t, time.Duration(0), rl.RetryAfter("unknown"))
}

func TestRateLimiter_Sweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(10, time.Minute)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	rl.Allow("b")
	now = now.Add(30 * time.Second)
	rl.Allow("c")
	require.Equal(t, 3, rl.size())

	now = now.Add(31 * time.Second) // a and b expired, c still live
	rl.Sweep()
	assert.Equal(t, 1, rl.size())
}

func TestRateLimit_Middleware(t *testing.T) {
	newApp := func(rl *RateLimiter) *fiber.App {
		app := fiber.New()
		app.Use(RateLimit(rl))
		app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
		return app
	}

	t.Run("rejects with 429 and Retry-After over quota", func(t *testing.T) {
		app := newApp(NewRateLimiter(2, time.Minute))

		for i := 0; i < 2; i++ {
			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		}
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
	})

	t.Run("forwarded-for header keys the limiter", func(t *testing.T) {
		app := newApp(NewRateLimiter(1, time.Minute))

		first := httptest.NewRequest("GET", "/", nil)
		first.Header.Set(fiber.HeaderXForwardedFor, "10.0.0.1, 172.16.0.1")
		resp, err := app.Test(first)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		// Same first hop: over quota.
		again := httptest.NewRequest("GET", "/", nil)
		again.Header.Set(fiber.HeaderXForwardedFor, "10.0.0.1")
		resp, err = app.Test(again)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

		// Different client behind the same proxy: fresh window.
		other := httptest.NewRequest("GET", "/", nil)
		other.Header.Set(fiber.HeaderXForwardedFor, "10.0.0.2")
		resp, err = app.Test(other)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
