package lock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"tandem/pkg/platform/sentinel"
)

const keyPrefix = "tandem:lock:"

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a lease lock shared across instances. A holder that dies
// loses the lease after TTL.
type RedisLocker struct {
	client        redis.UniversalClient
	ttl           time.Duration
	retryInterval time.Duration
	waitTimeout   time.Duration
	logger        *slog.Logger
}

type RedisOption func(*RedisLocker)

func WithTTL(d time.Duration) RedisOption {
	return func(r *RedisLocker) {
		if d > 0 {
			r.ttl = d
		}
	}
}

func WithRetryInterval(d time.Duration) RedisOption {
	return func(r *RedisLocker) {
		if d > 0 {
			r.retryInterval = d
		}
	}
}

func WithRedisWaitTimeout(d time.Duration) RedisOption {
	return func(r *RedisLocker) {
		r.waitTimeout = d
	}
}

func WithLogger(logger *slog.Logger) RedisOption {
	return func(r *RedisLocker) {
		r.logger = logger
	}
}

func NewRedisLocker(client redis.UniversalClient, opts ...RedisOption) *RedisLocker {
	r := &RedisLocker{
		client:        client,
		ttl:           30 * time.Second,
		retryInterval: 50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	redisKey := keyPrefix + key

	waitCtx, cancel := withWait(ctx, r.waitTimeout)
	defer cancel()

	ticker := time.NewTicker(r.retryInterval)
	defer ticker.Stop()
	for {
		ok, err := r.client.SetNX(waitCtx, redisKey, token, r.ttl).Result()
		if err != nil {
			if waitCtx.Err() != nil {
				return nil, waitError(ctx, key)
			}
			return nil, fmt.Errorf("%w: acquire redis lock: %v", sentinel.ErrUnavailable, err)
		}
		if ok {
			return r.releaser(redisKey, token), nil
		}
		select {
		case <-ticker.C:
		case <-waitCtx.Done():
			return nil, waitError(ctx, key)
		}
	}
}

func (r *RedisLocker) releaser(redisKey, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() { r.release(redisKey, token) })
	}
}

// release uses a fresh context so a cancelled request still frees the lease.
func (r *RedisLocker) release(redisKey, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, r.client, []string{redisKey}, token).Err(); err != nil && r.logger != nil {
		r.logger.Warn("failed to release redis lock", "key", redisKey, "error", err)
	}
}
