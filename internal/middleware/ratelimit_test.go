package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/sectionhub/internal/app/models/dto"
)

func TestRateLimiterRejectsBurstOverflow(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	router := gin.New()
	router.POST("/login", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(t, router, http.MethodPost, "/login", nil, nil).Code)
	assert.Equal(t, http.StatusOK, perform(t, router, http.MethodPost, "/login", nil, nil).Code)

	w := perform(t, router, http.MethodPost, "/login", nil, nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, dto.ErrorKindRateLimited, decodeError(t, w).Error)

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, perform(t, router, http.MethodPost, "/login", nil, nil).Code)
}

func TestRateLimiterTracksClientsSeparately(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	router := gin.New()
	router.POST("/login", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(t, router, http.MethodPost, "/login", nil, map[string]string{"X-Forwarded-For": "10.0.0.1"}).Code)
	assert.Equal(t, http.StatusOK, perform(t, router, http.MethodPost, "/login", nil, map[string]string{"X-Forwarded-For": "10.0.0.2"}).Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(t, router, http.MethodPost, "/login", nil, map[string]string{"X-Forwarded-For": "10.0.0.1"}).Code)
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	rl.lastCleanup = now

	rl.getLimiter("10.0.0.1")
	require.Len(t, rl.limiters, 1)

	now = now.Add(limiterIdleTTL + time.Minute)
	rl.getLimiter("10.0.0.2")
	assert.Len(t, rl.limiters, 1)
	assert.Contains(t, rl.limiters, "10.0.0.2")
}
