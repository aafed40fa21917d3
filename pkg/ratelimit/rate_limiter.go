package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"homestay/internal/shared/config"
	"homestay/internal/shared/constants"
	"homestay/pkg/logger"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type RateLimitType string

const (
	RateLimitTypeDefault         RateLimitType = "default"
	RateLimitTypePublic          RateLimitType = "public"
	RateLimitTypeBooking         RateLimitType = "booking"
	RateLimitTypeBookingCritical RateLimitType = "booking_critical"
	RateLimitTypeAdmin           RateLimitType = "admin"
	RateLimitTypeAnalytics       RateLimitType = "analytics"
	RateLimitTypeHealth          RateLimitType = "health"
)

// Result represents rate limit check result
type Result struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}

// Atomic sliding window over a sorted set of request timestamps
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local window_start = tonumber(ARGV[1])
	local now = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current_count = redis.call('ZCARD', key)
	if current_count >= limit then
		redis.call('PEXPIRE', key, window_ms)
		return {current_count + 1, 0}
	end

	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, window_ms)
	return {current_count + 1, limit - current_count - 1}
`)

// RateLimiter uses Redis, and a per-process token bucket while Redis is unreachable
type RateLimiter struct {
	client    *redis.Client
	config    *config.RateLimitConfig
	whitelist map[string]bool
	log       *logger.Logger

	mu    sync.Mutex
	local map[string]*rate.Limiter
}

func NewRateLimiter(client *redis.Client, cfg *config.RateLimitConfig) *RateLimiter {
	whitelist := make(map[string]bool, len(cfg.WhitelistedIPs))
	for _, ip := range cfg.WhitelistedIPs {
		whitelist[ip] = true
	}
	return &RateLimiter{
		client:    client,
		config:    cfg,
		whitelist: whitelist,
		log:       logger.GetDefault().WithComponent("ratelimit"),
		local:     make(map[string]*rate.Limiter),
	}
}

// IsAllowed checks if the request is allowed
func (r *RateLimiter) IsAllowed(ctx context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	limit := r.getLimit(limitType)
	if !r.config.Enabled || r.whitelist[clientIP] {
		return &Result{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit,
			ResetTime: time.Now().Add(r.config.WindowDuration).Unix(),
		}, nil
	}

	key := fmt.Sprintf("%s:ratelimit:%s:%s", constants.CACHE_PREFIX, clientIP, limitType)
	if r.client == nil {
		return r.checkLocal(key, limit), nil
	}

	result, err := r.checkLimit(ctx, key, limit)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.log.WarnContext(ctx, "Redis rate limit check failed, using in-process limiter", "error", err)
		return r.checkLocal(key, limit), nil
	}
	return result, nil
}

// checkLimit performs the sliding window check in Redis
func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int) (*Result, error) {
	now := time.Now()
	windowStart := now.Add(-r.config.WindowDuration)

	values, err := slidingWindow.Run(ctx, r.client, []string{key},
		windowStart.UnixMilli(),
		now.UnixMilli(),
		limit,
		r.config.WindowDuration.Milliseconds(),
		fmt.Sprintf("%d", now.UnixNano()),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis eval failed: %w", err)
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected redis response")
	}

	return &Result{
		Allowed:   values[0] <= int64(limit),
		Limit:     limit,
		Remaining: int(values[1]),
		ResetTime: now.Add(r.config.WindowDuration).Unix(),
	}, nil
}

// checkLocal refills limit tokens per window for each key
func (r *RateLimiter) checkLocal(key string, limit int) *Result {
	r.mu.Lock()
	limiter, ok := r.local[key]
	if !ok {
		every := r.config.WindowDuration / time.Duration(max(limit, 1))
		limiter = rate.NewLimiter(rate.Every(every), limit)
		r.local[key] = limiter
	}
	r.mu.Unlock()

	allowed := limiter.Allow()
	remaining := int(limiter.Tokens())
	if remaining < 0 {
		remaining = 0
	}
	return &Result{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: remaining,
		ResetTime: time.Now().Add(r.config.WindowDuration).Unix(),
	}
}

func (r *RateLimiter) getLimit(limitType RateLimitType) int {
	switch limitType {
	case RateLimitTypePublic:
		return r.config.PublicRequests
	case RateLimitTypeBooking:
		return r.config.BookingRequests
	case RateLimitTypeBookingCritical:
		return r.config.BookingCriticalRequests
	case RateLimitTypeAdmin:
		return r.config.AdminRequests
	case RateLimitTypeAnalytics:
		return r.config.AnalyticsRequests
	case RateLimitTypeHealth:
		return r.config.HealthRequests
	default:
		return r.config.DefaultRequests
	}
}
