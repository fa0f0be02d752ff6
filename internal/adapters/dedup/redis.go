// Package dedup filters webhook replays. The mail provider retries
// deliveries on anything it considers a failure, so the same message id can
// arrive more than once.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "mailmint:seen:"

// RedisFilter tracks seen message ids in Redis with a TTL. It implements
// core.DedupFilter.
type RedisFilter struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisFilter connects to Redis and verifies the connection.
func NewRedisFilter(ctx context.Context, addr, password string, db int, ttl time.Duration, logger *zap.Logger) (*RedisFilter, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisFilter{rdb: rdb, ttl: ttl, logger: logger}, nil
}

// IsNew atomically records the message id and reports whether this is its
// first sighting within the TTL window.
func (f *RedisFilter) IsNew(ctx context.Context, messageID string) (bool, error) {
	ok, err := f.rdb.SetNX(ctx, keyPrefix+messageID, 1, f.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check failed: %w", err)
	}
	if !ok {
		f.logger.Debug("duplicate webhook delivery", zap.String("message_id", messageID))
	}
	return ok, nil
}

// Close closes the Redis client.
func (f *RedisFilter) Close() error {
	return f.rdb.Close()
}
