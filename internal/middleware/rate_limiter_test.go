package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRateLimiter creates a rate limiter with miniredis for testing
func setupTestRateLimiter(tb testing.TB, maxRequests int, window time.Duration) (*RateLimiter, *miniredis.Miniredis) {
	mr := miniredis.RunT(tb)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	tb.Cleanup(func() { _ = client.Close() })

	rl := NewRateLimiter(client, RateLimiterConfig{
		MaxRequests: maxRequests,
		Window:      window,
		Prefix:      "test",
	})

	return rl, mr
}

func newLimitedRouter(rl *RateLimiter, withUser bool) *gin.Engine {
	router := gin.New()
	if withUser {
		router.Use(func(c *gin.Context) {
			if id := c.GetHeader("X-Test-User"); id != "" {
				c.Set("user_id", id)
			}
			c.Next()
		})
	}
	router.Use(rl.Middleware())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func doRequest(router *gin.Engine, remoteAddr, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = remoteAddr
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_AllowsRequestsUnderLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl, _ := setupTestRateLimiter(t, 5, time.Minute)
	router := newLimitedRouter(rl, false)

	for i := 0; i < 5; i++ {
		w := doRequest(router, "192.168.1.1:12345", "")
		assert.Equal(t, http.StatusOK, w.Code, "Request %d should succeed", i+1)
	}
}

func TestRateLimiter_BlocksRequestsOverLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl, _ := setupTestRateLimiter(t, 5, time.Minute)
	router := newLimitedRouter(rl, false)

	for i := 0; i < 5; i++ {
		w := doRequest(router, "192.168.1.1:12345", "")
		assert.Equal(t, http.StatusOK, w.Code, "Request %d should succeed", i+1)
	}

	w := doRequest(router, "192.168.1.1:12345", "")

	assert.Equal(t, http.StatusTooManyRequests, w.Code, "6th request should be rate limited")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"rate_limited"`)
}

func TestRateLimiter_DifferentIPsIndependent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl, _ := setupTestRateLimiter(t, 3, time.Minute)
	router := newLimitedRouter(rl, false)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(router, "192.168.1.1:12345", "").Code)
	}
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(router, "192.168.1.2:12345", "").Code)
	}

	assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "192.168.1.1:12345", "").Code)
}

func TestRateLimiter_KeysByUserWhenAuthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl, _ := setupTestRateLimiter(t, 2, time.Minute)
	router := newLimitedRouter(rl, true)

	// Same user from two addresses shares one budget
	assert.Equal(t, http.StatusOK, doRequest(router, "10.0.0.1:1", "user_a").Code)
	assert.Equal(t, http.StatusOK, doRequest(router, "10.0.0.2:1", "user_a").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "10.0.0.3:1", "user_a").Code)

	// A different user behind the same address is unaffected
	assert.Equal(t, http.StatusOK, doRequest(router, "10.0.0.1:1", "user_b").Code)
}

func TestRateLimiter_CheckLimit(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, err := rl.CheckLimit(ctx, "user_a")
		require.NoError(t, err)
		assert.True(t, allowed, "Request %d should be allowed", i+1)
	}

	allowed, retryAfter, err := rl.CheckLimit(ctx, "user_a")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestRateLimiter_WindowExpiry(t *testing.T) {
	rl, mr := setupTestRateLimiter(t, 2, time.Second)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, err := rl.CheckLimit(ctx, "user_a")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, _, err := rl.CheckLimit(ctx, "user_a")
	require.NoError(t, err)
	assert.False(t, allowed, "3rd request should be denied")

	mr.FastForward(2 * time.Second)

	allowed, _, err = rl.CheckLimit(ctx, "user_a")
	require.NoError(t, err)
	assert.True(t, allowed, "Request should be allowed after window expires")
}

func TestRateLimiter_Reset(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 1, time.Minute)
	ctx := context.Background()

	allowed, _, err := rl.CheckLimit(ctx, "user_a")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, _, err = rl.CheckLimit(ctx, "user_a")
	require.NoError(t, err)
	require.False(t, allowed)

	require.NoError(t, rl.Reset(ctx, "user_a"))

	allowed, _, err = rl.CheckLimit(ctx, "user_a")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiter_FailsOpenWhenRedisIsDown(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl, mr := setupTestRateLimiter(t, 1, time.Minute)
	router := newLimitedRouter(rl, false)
	mr.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(router, "192.168.1.1:12345", "").Code)
	}
}

func TestRateLimiter_SequentialBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl, _ := setupTestRateLimiter(t, 10, time.Minute)
	router := newLimitedRouter(rl, false)

	successCount := 0
	rateLimitedCount := 0
	for i := 0; i < 20; i++ {
		switch doRequest(router, "192.168.1.1:12345", "").Code {
		case http.StatusOK:
			successCount++
		case http.StatusTooManyRequests:
			rateLimitedCount++
		}
	}

	assert.Equal(t, 10, successCount)
	assert.Equal(t, 10, rateLimitedCount)
}

func BenchmarkRateLimiter_CheckLimit(b *testing.B) {
	rl, _ := setupTestRateLimiter(b, 1000000, time.Minute)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = rl.CheckLimit(ctx, "user_a")
	}
}
