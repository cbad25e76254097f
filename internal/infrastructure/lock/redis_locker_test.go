package lock_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/jhoicas/lot-costing-api/internal/domain"
	"github.com/jhoicas/lot-costing-api/internal/infrastructure/lock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocker(t *testing.T) (*miniredis.Miniredis, *lock.RedisLocker) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, lock.NewRedisLocker(client)
}

func TestRedisLocker_SecondObtainIsLocked(t *testing.T) {
	_, locker := newLocker(t)
	ctx := context.Background()

	first, err := locker.Obtain(ctx, "costing:lot:ING:L1", time.Minute)
	require.NoError(t, err)

	_, err = locker.Obtain(ctx, "costing:lot:ING:L1", time.Minute)
	assert.ErrorIs(t, err, domain.ErrLocked)

	other, err := locker.Obtain(ctx, "costing:lot:ING:L2", time.Minute)
	require.NoError(t, err)
	require.NoError(t, other.Release(ctx))

	require.NoError(t, first.Release(ctx))
	again, err := locker.Obtain(ctx, "costing:lot:ING:L1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
}

func TestRedisLocker_ExpiredLockReleaseIsNoop(t *testing.T) {
	mr, locker := newLocker(t)
	ctx := context.Background()

	lk, err := locker.Obtain(ctx, "costing:sync-manufacturing", time.Second)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	assert.NoError(t, lk.Release(ctx))
}
