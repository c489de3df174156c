package lockRepo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSlotLocker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	locker := NewRedisSlotLocker(client)
	ctx := context.Background()
	key := SlotKey("i1", "2025-03-10")

	release, err := locker.Acquire(ctx, key, time.Second)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, key, time.Second)
	assert.ErrorIs(t, err, ErrLockHeld)

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists(key))

	release2, err := locker.Acquire(ctx, key, time.Second)
	require.NoError(t, err)
	require.NoError(t, release2(ctx))
}

func TestRedisSlotLockerReleaseKeepsForeignLease(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	locker := NewRedisSlotLocker(client)
	ctx := context.Background()
	key := SlotKey("i1", "2025-03-10")

	release, err := locker.Acquire(ctx, key, time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	_, err = locker.Acquire(ctx, key, time.Second)
	require.NoError(t, err, "expired lease can be taken over")

	require.NoError(t, release(ctx))
	assert.True(t, mr.Exists(key), "stale holder must not release the new lease")
}
