package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// RedisLocker hands out redislock locks under the application key prefix.
type RedisLocker struct {
	client *redislock.Client
}

var _ portsrepo.Locker = (*RedisLocker)(nil)

func NewRedisLocker(client redis.UniversalClient) *RedisLocker {
	return &RedisLocker{client: redislock.New(client)}
}

func lockKey(key string) string {
	return fmt.Sprintf("%s:lock:%s", keyPrefix, key)
}

// Obtain makes a single attempt; a held key yields portsrepo.ErrLockNotObtained.
func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (portsrepo.Lock, error) {
	lock, err := l.client.Obtain(ctx, lockKey(key), ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", portsrepo.ErrLockNotObtained, key)
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}
	return redisLock{lock: lock}, nil
}

type redisLock struct {
	lock *redislock.Lock
}

// Release treats an already expired lock as released.
func (l redisLock) Release(ctx context.Context) error {
	if err := l.lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
		return err
	}
	return nil
}
