package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homestay/internal/shared/constants"
	"homestay/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockBusy is returned when another request keeps the hotel lock for all retries
var ErrLockBusy = errors.New("hotel booking lock busy")

// HotelLocker serializes reservation attempts per hotel ahead of the database
type HotelLocker interface {
	Acquire(ctx context.Context, hotelID uuid.UUID) (release func(), err error)
}

// Lua script releasing the lock only when the caller still owns it
const luaReleaseHotelLock = `
-- KEYS[1] = lock key
-- ARGV[1] = owner token
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisHotelLocker is a SET NX lock with a TTL so a crashed holder never blocks a hotel
type RedisHotelLocker struct {
	redis   *redis.Client
	ttl     time.Duration
	retries int
	delay   time.Duration
	log     *logger.Logger
}

func NewRedisHotelLocker(client *redis.Client, ttl time.Duration, retries int, delay time.Duration) *RedisHotelLocker {
	if ttl <= 0 {
		ttl = constants.TTL_HOTEL_BOOKING_LOCK
	}
	if retries < 1 {
		retries = 1
	}
	return &RedisHotelLocker{
		redis:   client,
		ttl:     ttl,
		retries: retries,
		delay:   delay,
		log:     logger.GetDefault().WithComponent("hotel-lock"),
	}
}

func (l *RedisHotelLocker) Acquire(ctx context.Context, hotelID uuid.UUID) (func(), error) {
	if l.redis == nil {
		return nil, fmt.Errorf("redis client not available")
	}

	key := constants.BuildHotelLockKey(hotelID.String())
	token := uuid.NewString()

	for attempt := 0; attempt < l.retries; attempt++ {
		ok, err := l.redis.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire hotel lock: %w", err)
		}
		if ok {
			return func() {
				// Release with a fresh context so a cancelled request still frees the lock
				releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := l.redis.Eval(releaseCtx, luaReleaseHotelLock, []string{key}, token).Err(); err != nil {
					// The lock lingers until its TTL expires
					l.log.Error("Failed to release hotel lock", "hotel_id", hotelID.String(), "ttl", l.ttl.String(), "error", err)
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.delay):
		}
	}

	return nil, ErrLockBusy
}

// PreloadScripts loads the release script into Redis
func (l *RedisHotelLocker) PreloadScripts(ctx context.Context) error {
	if l.redis == nil {
		return fmt.Errorf("redis client not available")
	}
	if _, err := l.redis.ScriptLoad(ctx, luaReleaseHotelLock).Result(); err != nil {
		return fmt.Errorf("failed to load hotel lock release script: %w", err)
	}
	return nil
}
