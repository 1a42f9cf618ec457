package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our value, so an
// expired lock taken over by another process is left alone.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// redisClient is the subset of *redis.Client the locker needs.
type redisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisLocker is a Locker shared by every server process pointing at the
// same Redis. A lock expires after ttl if its holder dies.
type RedisLocker struct {
	client redisClient
	prefix string
	ttl    time.Duration
	retry  time.Duration
}

func NewRedisLocker(client redisClient, prefix string, ttl, retry time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if retry <= 0 {
		retry = 25 * time.Millisecond
	}
	return &RedisLocker{client: client, prefix: prefix, ttl: ttl, retry: retry}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}
	owner := hex.EncodeToString(b)
	full := l.prefix + key

	for {
		ok, err := l.client.SetNX(ctx, full, owner, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: lock %s: %v", domain.ErrStorageUnavailable, key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: waiting for lock %s: %v", domain.ErrStorageUnavailable, key, ctx.Err())
		case <-time.After(l.retry):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := l.client.Eval(ctx, releaseScript, []string{full}, owner).Err(); err != nil {
				logger.Warn("Failed to release lock", "key", full, "error", err)
			}
		})
	}, nil
}
