package lock

import (
	"context"
	"fmt"
	"time"

	"aquadash/domain/shared"
	apperrors "aquadash/pkg/errors"
	"aquadash/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// releaseScript 仅当锁仍由本持有者持有时删除
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisOptions struct {
	KeyPrefix    string
	TTL          time.Duration
	WaitTimeout  time.Duration
	PollInterval time.Duration
}

// RedisLocker SET NX PX 实现的分布式锁，TTL 兜底持有者崩溃
type RedisLocker struct {
	client *redis.Client
	opts   RedisOptions
}

func NewRedisLocker(client *redis.Client, opts RedisOptions) *RedisLocker {
	if opts.TTL <= 0 {
		opts.TTL = 10 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 25 * time.Millisecond
	}
	return &RedisLocker{client: client, opts: opts}
}

func (l *RedisLocker) key(k string) string {
	return l.opts.KeyPrefix + k
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.key(key)
	token := uuid.NewString()

	waitCtx := ctx
	if l.opts.WaitTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, l.opts.WaitTimeout)
		defer cancel()
	}

	ticker := time.NewTicker(l.opts.PollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(waitCtx, redisKey, token, l.opts.TTL).Result()
		if err != nil && waitCtx.Err() == nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			return l.unlockFunc(redisKey, token), nil
		}

		select {
		case <-ticker.C:
		case <-waitCtx.Done():
			return nil, fmt.Errorf("lock %s: %w", key, apperrors.ErrLockTimeout)
		}
	}
}

func (l *RedisLocker) unlockFunc(redisKey, token string) func() {
	return func() {
		// 调用方 ctx 可能已取消，释放使用独立的短超时
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
			logger.Warn("failed to release order lock",
				zap.String("key", redisKey),
				zap.Error(err),
			)
		}
	}
}

var _ shared.Locker = (*RedisLocker)(nil)
