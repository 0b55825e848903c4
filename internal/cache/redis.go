package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	// Prefix namespaces every key, e.g. "events-api:".
	Prefix string
}

// Redis is a Cache shared between API replicas. Redis failures degrade to misses.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedis(cfg RedisConfig) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return NewRedisFromClient(client, cfg.TTL, cfg.Prefix)
}

func NewRedisFromClient(client *redis.Client, ttl time.Duration, prefix string) *Redis {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &Redis{client: client, ttl: ttl, prefix: prefix}
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Default().WarnContext(ctx, "cache_get_failed", "key", key, "err", err)
		}
		return nil, false
	}

	return b, true
}

func (c *Redis) Set(ctx context.Context, key string, val []byte) {
	err := c.client.Set(ctx, c.prefix+key, val, c.ttl).Err()
	if err != nil {
		slog.Default().WarnContext(ctx, "cache_set_failed", "key", key, "err", err)
	}
}

func (c *Redis) Delete(ctx context.Context, key string) {
	err := c.client.Del(ctx, c.prefix+key).Err()
	if err != nil {
		slog.Default().WarnContext(ctx, "cache_delete_failed", "key", key, "err", err)
	}
}

// this ping function checks redis connectivity

func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Redis) Close() error {
	return c.client.Close()
}
