package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/fridgechef/backend/internal/testhelpers"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedRouter(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(nil), rl.RateLimitMiddleware())
	r.POST("/analyze", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func post(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/analyze", nil))
	return w
}

func TestRateLimitDisabled(t *testing.T) {
	for _, rl := range []*RateLimiter{nil, NewModelCallRateLimiter(nil, 5)} {
		w := post(limitedRouter(rl))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimitRedisDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	w := post(limitedRouter(NewModelCallRateLimiter(client, 5)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Error"))
}

func TestRateLimitEnforced(t *testing.T) {
	client := testhelpers.SetupTestRedis(t)
	r := limitedRouter(NewModelCallRateLimiter(client, 2))

	for i := 0; i < 2; i++ {
		w := post(r)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}
	w := post(r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestIsAllowedCountsPerKey(t *testing.T) {
	client := testhelpers.SetupTestRedis(t)
	rl := NewRateLimiter(client, RateLimitConfig{Window: time.Minute, Limit: 1, KeyPrefix: "test"})
	ctx := context.Background()

	allowed, _, _, err := rl.IsAllowed(ctx, "a")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, _, err = rl.IsAllowed(ctx, "a")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, remaining, reset, err := rl.IsAllowed(ctx, "b")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 0, remaining)
	assert.True(t, reset.After(time.Now()))
}
