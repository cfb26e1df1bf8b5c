package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps the Redis connection shared by the queue store and the
// failure journal.
type Client struct {
	rdb    *redis.Client
	prefix string
}

// Config holds Redis connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	// Prefix namespaces every key, e.g. "docqueue"
	Prefix string `yaml:"prefix"`
}

// NewClient creates a new Redis client and checks the connection.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewClientFromRedis(rdb, cfg.Prefix), nil
}

// NewClientFromRedis wraps an existing go-redis client.
func NewClientFromRedis(rdb *redis.Client, prefix string) *Client {
	if prefix == "" {
		prefix = "docqueue"
	}
	return &Client{rdb: rdb, prefix: prefix}
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Key helpers
func (c *Client) queueKey(name string) string {
	return fmt.Sprintf("%s:queue:%s", c.prefix, name)
}

func (c *Client) failedKey(name string) string {
	return fmt.Sprintf("%s:failed:%s", c.prefix, name)
}
