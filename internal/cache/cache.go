package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is a redis-backed cache that never fails its caller: when redis is
// unreachable every read is a miss and every write is dropped. A nil
// *Client behaves the same way.
type Client struct {
	client    *redis.Client
	namespace string
	logger    *slog.Logger
}

// New creates a cache whose keys are prefixed with namespace.
func New(addr, password string, db int, namespace string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		namespace: namespace,
		logger:    logger,
	}
}

// Ping reports whether redis answers. Startup uses it only to log.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errors.New("cache disabled")
	}
	return c.client.Ping(ctx).Err()
}

// Get returns the value or nil on a miss.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		c.logger.Debug("cache get failed", "key", key, "error", err)
		return nil, nil
	}
	return res, nil
}

// Set stores value with ttl.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		c.logger.Debug("cache set failed", "key", key, "error", err)
	}
	return nil
}

// Delete removes key.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		c.logger.Debug("cache delete failed", "key", key, "error", err)
	}
	return nil
}

// Close releases the redis connection pool.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) key(k string) string {
	if c.namespace == "" {
		return k
	}
	return c.namespace + ":" + k
}
