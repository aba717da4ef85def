package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces index keys in a shared Redis
const redisKeyPrefix = "dinnermatch:index:"

// RedisConfig is used to open the Redis date index
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient opens a client and checks the connection
func NewRedisClient(ctx context.Context, c RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", c.Addr, err)
	}
	return rdb, nil
}

// RedisDateIndex keeps date → record id entries as plain Redis strings.
// Entries expire after TTL since only recent days are looked up.
type RedisDateIndex struct {
	Client redis.Cmdable
	TTL    time.Duration
}

func (ri *RedisDateIndex) Lookup(ctx context.Context, kind, date string) (string, error) {
	id, err := ri.Client.Get(ctx, redisKeyPrefix+indexKey(kind, date)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read index key for %s: %w", date, err)
	}
	return id, nil
}

func (ri *RedisDateIndex) Remember(ctx context.Context, kind, date, recordID string) error {
	if err := ri.Client.Set(ctx, redisKeyPrefix+indexKey(kind, date), recordID, ri.TTL).Err(); err != nil {
		return fmt.Errorf("failed to write index key for %s: %w", date, err)
	}
	return nil
}

func (ri *RedisDateIndex) RememberIfAbsent(ctx context.Context, kind, date, recordID string) error {
	if err := ri.Client.SetNX(ctx, redisKeyPrefix+indexKey(kind, date), recordID, ri.TTL).Err(); err != nil {
		return fmt.Errorf("failed to add index key for %s: %w", date, err)
	}
	return nil
}
