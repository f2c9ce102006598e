package adapters

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/budget-tracker/backend/internal/application/adapter"
)

// DefaultSweepLockKey is the Redis key guarding the lifecycle sweep.
const DefaultSweepLockKey = "budget-tracker:lifecycle-sweep"

// releaseScript deletes the key only when it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSweepLock is a SET NX lock so one instance sweeps at a time.
type RedisSweepLock struct {
	client *redis.Client
	key    string
	token  string
}

// NewRedisSweepLock creates a lock on key. An empty key uses DefaultSweepLockKey.
func NewRedisSweepLock(client *redis.Client, key string) *RedisSweepLock {
	if key == "" {
		key = DefaultSweepLockKey
	}
	return &RedisSweepLock{
		client: client,
		key:    key,
		token:  uuid.NewString(),
	}
}

// Acquire tries to take the lock for ttl.
func (l *RedisSweepLock) Acquire(ctx context.Context, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, l.key, l.token, ttl).Result()
}

// Release drops the lock if this instance still holds it.
func (l *RedisSweepLock) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err()
}

// LocalSweepLock is the lock used when no Redis is configured. It always succeeds.
type LocalSweepLock struct{}

// Acquire always takes the lock.
func (LocalSweepLock) Acquire(context.Context, time.Duration) (bool, error) { return true, nil }

// Release is a no-op.
func (LocalSweepLock) Release(context.Context) error { return nil }

var (
	_ adapter.SweepLock = (*RedisSweepLock)(nil)
	_ adapter.SweepLock = LocalSweepLock{}
)
