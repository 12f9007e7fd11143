package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"traveltodo/internal/config"

	redis "github.com/redis/go-redis/v9"
)

// Client wraps the go-redis client used for tokens and chat history.
type Client struct {
	inner *redis.Client
}

// ErrCacheMiss mirrors redis.Nil for callers.
var ErrCacheMiss = redis.Nil

var errNotInitialized = errors.New("redis client not initialized")

// Connect dials redis with the configured address and verifies it with PING.
func Connect(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	host := cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port == 0 {
		port = 6379
	}
	return Dial(ctx, &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Dial connects with explicit options.
func Dial(ctx context.Context, opts *redis.Options) (*Client, error) {
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return &Client{inner: client}, nil
}

func (c *Client) ready() bool {
	return c != nil && c.inner != nil
}

// Ping checks the connection.
func (c *Client) Ping(ctx context.Context) error {
	if !c.ready() {
		return errNotInitialized
	}
	return c.inner.Ping(ctx).Err()
}

// Set stores a key with TTL.
func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.ready() {
		return errNotInitialized
	}
	return c.inner.Set(ctx, key, value, ttl).Err()
}

// Get fetches the key as string.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if !c.ready() {
		return "", errNotInitialized
	}
	return c.inner.Get(ctx, key).Result()
}

// Del removes provided keys.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	if !c.ready() {
		return errNotInitialized
	}
	if len(keys) == 0 {
		return nil
	}
	return c.inner.Del(ctx, keys...).Err()
}

// PushCapped appends values to a list, trims it to the newest keep entries and
// refreshes the TTL, all in one MULTI block.
func (c *Client) PushCapped(ctx context.Context, key string, keep int64, ttl time.Duration, values ...interface{}) error {
	if !c.ready() {
		return errNotInitialized
	}
	if len(values) == 0 {
		return nil
	}
	_, err := c.inner.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		if keep > 0 {
			pipe.LTrim(ctx, key, -keep, -1)
		}
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

// Range returns list entries between start and stop (inclusive).
func (c *Client) Range(ctx context.Context, key string, start, stop int64) ([]string, error) {
	if !c.ready() {
		return nil, errNotInitialized
	}
	return c.inner.LRange(ctx, key, start, stop).Result()
}

// Exists reports whether key is present.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	if !c.ready() {
		return false, errNotInitialized
	}
	n, err := c.inner.Exists(ctx, key).Result()
	return n > 0, err
}

// Close closes client.
func (c *Client) Close() error {
	if !c.ready() {
		return nil
	}
	return c.inner.Close()
}
