package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps redis.Client but fails safe: every redis error reads as a miss
// and every failed write is dropped. A nil *Client is a valid, always-empty cache.
type Client struct {
	client redis.Cmdable
	prefix string
}

// New returns a client for addr, or nil when addr is empty.
func New(addr, password string, db int) *Client {
	if addr == "" {
		return nil
	}
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts), prefix: "goaltracker:"}
}

// Ping reports whether redis is reachable. Callers use it for startup logging only.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return errors.New("cache disabled")
	}
	return c.client.Ping(ctx).Err()
}

// GetJSON decodes the value at key into v. It reports false on a miss,
// on any redis failure and on undecodable data.
func (c *Client) GetJSON(ctx context.Context, key string, v any) bool {
	if c == nil {
		return false
	}
	res, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		// redis.Nil and connectivity errors alike
		return false
	}
	return json.Unmarshal(res, v) == nil
}

// SetJSON stores v with ttl, ignoring redis errors.
func (c *Client) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.prefix+key, payload, ttl).Err()
}

// Delete removes a key, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, key string) {
	if c == nil {
		return
	}
	_ = c.client.Del(ctx, c.prefix+key).Err()
}

// Counter reads the integer at key. A missing key reads as zero; the second
// result is false when redis could not answer.
func (c *Client) Counter(ctx context.Context, key string) (int64, bool) {
	if c == nil {
		return 0, false
	}
	n, err := c.client.Get(ctx, c.prefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		return 0, false
	}
	return n, true
}

// Incr bumps the counter at key, ignoring redis errors.
func (c *Client) Incr(ctx context.Context, key string) {
	if c == nil {
		return
	}
	_ = c.client.Incr(ctx, c.prefix+key).Err()
}

// Close releases the connection pool.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if closer, ok := c.client.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
