package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMemoryLimiterFixedWindow(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(3, time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("checkout:1.2.3.4"))
	assert.True(t, l.Allow("checkout:1.2.3.4"))
	assert.True(t, l.Allow("checkout:1.2.3.4"))
	assert.False(t, l.Allow("checkout:1.2.3.4"))
	assert.False(t, l.Allow("checkout:1.2.3.4"))

	// A different key keeps its own budget.
	assert.True(t, l.Allow("checkout:5.6.7.8"))

	// The window expires and the bucket reopens.
	now = now.Add(61 * time.Second)
	assert.True(t, l.Allow("checkout:1.2.3.4"))
}

func TestMemoryLimiterSeparateActions(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)

	assert.True(t, l.Allow("checkout:1.2.3.4"))
	assert.False(t, l.Allow("checkout:1.2.3.4"))
	assert.True(t, l.Allow("generate:1.2.3.4"))
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", RateLimit("ping", NewMemoryLimiter(2, time.Minute)), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests")
}
