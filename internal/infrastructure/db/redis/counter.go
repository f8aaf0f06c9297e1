package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Counter is a shared monotonic counter; the first call for a key returns 1.
type Counter struct {
	client *redis.Client
}

func NewCounter(client *redis.Client) *Counter {
	return &Counter{client: client}
}

func (c *Counter) Next(ctx context.Context, key string) (int64, error) {
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("counter %s: %w", key, err)
	}
	return n, nil
}
