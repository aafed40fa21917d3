package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homestay/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.RateLimitConfig {
	return &config.RateLimitConfig{
		Enabled:                 true,
		WindowDuration:          time.Minute,
		DefaultRequests:         5,
		PublicRequests:          5,
		BookingRequests:         3,
		BookingCriticalRequests: 2,
		AdminRequests:           5,
		AnalyticsRequests:       5,
		HealthRequests:          5,
		WhitelistedIPs:          []string{"10.0.0.1"},
	}
}

func TestGetRateLimitType(t *testing.T) {
	testCases := []struct {
		method, path string
		expected     RateLimitType
	}{
		{"GET", "/health", RateLimitTypeHealth},
		{"POST", "/api/v1/admin/bookings/:id/refunded", RateLimitTypeAdmin},
		{"GET", "/api/v1/owner/analytics/dashboard", RateLimitTypeAnalytics},
		{"POST", "/api/v1/bookings", RateLimitTypeBookingCritical},
		{"POST", "/api/v1/bookings/:id/cancel", RateLimitTypeBookingCritical},
		{"POST", "/api/v1/bookings/:id/id-proof", RateLimitTypeBookingCritical},
		{"POST", "/api/v1/bookings/:id/id-proof/review", RateLimitTypeBooking},
		{"GET", "/api/v1/bookings/:id", RateLimitTypeBooking},
		{"GET", "/api/v1/owner/guests", RateLimitTypeBooking},
		{"GET", "/api/v1/hotels/:id/availability", RateLimitTypePublic},
		{"GET", "/api/v1/hotels/:id/reviews", RateLimitTypePublic},
		{"GET", "/unknown", RateLimitTypeDefault},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, getRateLimitType(tc.method, tc.path))
		})
	}
}

func TestIsAllowed_InProcessLimiter(t *testing.T) {
	limiter := NewRateLimiter(nil, testConfig())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := limiter.IsAllowed(ctx, "192.168.1.10", RateLimitTypeBookingCritical)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}

	result, err := limiter.IsAllowed(ctx, "192.168.1.10", RateLimitTypeBookingCritical)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, 2, result.Limit)

	// Buckets are separate per client and per type
	result, err = limiter.IsAllowed(ctx, "192.168.1.11", RateLimitTypeBookingCritical)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	result, err = limiter.IsAllowed(ctx, "192.168.1.10", RateLimitTypeBooking)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestIsAllowed_WhitelistAndDisabled(t *testing.T) {
	cfg := testConfig()
	limiter := NewRateLimiter(nil, cfg)
	for i := 0; i < 10; i++ {
		result, err := limiter.IsAllowed(context.Background(), "10.0.0.1", RateLimitTypeBookingCritical)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}

	cfg = testConfig()
	cfg.Enabled = false
	limiter = NewRateLimiter(nil, cfg)
	for i := 0; i < 10; i++ {
		result, err := limiter.IsAllowed(context.Background(), "192.168.1.10", RateLimitTypeBookingCritical)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(NewRateLimiter(nil, testConfig())))
	r.POST("/api/v1/bookings/:id/cancel", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/abc/cancel", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
