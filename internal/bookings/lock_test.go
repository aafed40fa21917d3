package bookings

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRedis answers lock commands in-process so no server is needed
type scriptedRedis struct {
	mu         sync.Mutex
	acquired   bool
	releaseErr error
	calls      []string
}

func (h *scriptedRedis) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("dial disabled in tests")
	}
}

func (h *scriptedRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.calls = append(h.calls, cmd.Name())

		switch c := cmd.(type) {
		case *redis.BoolCmd:
			c.SetVal(h.acquired)
			return nil
		case *redis.Cmd:
			if h.releaseErr != nil {
				return h.releaseErr
			}
			c.SetVal(int64(1))
			return nil
		}
		return errors.New("unexpected command " + cmd.Name())
	}
}

func (h *scriptedRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (h *scriptedRedis) count(name string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, c := range h.calls {
		if c == name {
			n++
		}
	}
	return n
}

func newScriptedClient(h *scriptedRedis) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(h)
	return client
}

func TestRedisHotelLocker_NilClient(t *testing.T) {
	locker := NewRedisHotelLocker(nil, time.Second, 3, time.Millisecond)

	release, err := locker.Acquire(context.Background(), uuid.New())
	assert.Error(t, err)
	assert.Nil(t, release)
	assert.False(t, errors.Is(err, ErrLockBusy))
}

func TestRedisHotelLocker_AcquireAndRelease(t *testing.T) {
	h := &scriptedRedis{acquired: true}
	locker := NewRedisHotelLocker(newScriptedClient(h), time.Second, 3, time.Millisecond)

	release, err := locker.Acquire(context.Background(), uuid.New())
	require.NoError(t, err)
	release()

	assert.Equal(t, 1, h.count("set"))
	assert.Equal(t, 1, h.count("eval"))
}

func TestRedisHotelLocker_ReleaseFailureDoesNotPanic(t *testing.T) {
	h := &scriptedRedis{acquired: true, releaseErr: errors.New("connection reset")}
	locker := NewRedisHotelLocker(newScriptedClient(h), time.Second, 1, time.Millisecond)

	release, err := locker.Acquire(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotPanics(t, release)
	assert.Equal(t, 1, h.count("eval"))
}

func TestRedisHotelLocker_RetriesExhausted(t *testing.T) {
	h := &scriptedRedis{acquired: false}
	locker := NewRedisHotelLocker(newScriptedClient(h), time.Second, 4, time.Millisecond)

	release, err := locker.Acquire(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrLockBusy)
	assert.Nil(t, release)
	assert.Equal(t, 4, h.count("set"))
}

func TestRedisHotelLocker_CancelledWhileWaiting(t *testing.T) {
	h := &scriptedRedis{acquired: false}
	locker := NewRedisHotelLocker(newScriptedClient(h), time.Second, 100, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := locker.Acquire(ctx, uuid.New())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, h.count("set"))
}
