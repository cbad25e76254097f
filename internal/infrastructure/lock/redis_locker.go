package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/jhoicas/lot-costing-api/internal/application/inventory"
	"github.com/jhoicas/lot-costing-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

var _ inventory.Locker = (*RedisLocker)(nil)

// RedisLocker candados distribuidos con redislock. Sin reintentos: quien llega segundo recibe ErrLocked.
type RedisLocker struct {
	client *redislock.Client
}

// NewRedisLocker construye el locker sobre un cliente go-redis.
func NewRedisLocker(rdb redis.UniversalClient) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb)}
}

func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (inventory.Lock, error) {
	lk, err := l.client.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%s: %w", key, domain.ErrLocked)
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}
	return redisLock{lk}, nil
}

type redisLock struct {
	lk *redislock.Lock
}

// Release ignora ErrLockNotHeld: el TTL ya lo liberó.
func (r redisLock) Release(ctx context.Context) error {
	if err := r.lk.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
		return err
	}
	return nil
}
