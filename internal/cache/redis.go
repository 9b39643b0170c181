package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// pageTTL bounds staleness even if an invalidation is lost (say, the
// server crashes between the DB write and the INCR).
const pageTTL = 5 * time.Minute

// Redis implements FeedCache on a Redis server.
//
// INVALIDATION VIA VERSIONING:
// Page keys embed a generation counter: "feed:v{N}:page:{P}". Invalidate
// is a single INCR on the counter — every old key instantly becomes
// unreachable and expires on its own TTL. This avoids SCAN/DEL over an
// unbounded page keyspace and makes invalidation O(1) regardless of how
// many pages were cached.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis feed cache and verifies the connection.
func NewRedis(ctx context.Context, addr string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cache: pinging redis at %s: %w", addr, err)
	}
	return &Redis{client: client}, nil
}

// Close releases the client's connection pool.
func (c *Redis) Close() error {
	return c.client.Close()
}

func (c *Redis) GetPage(ctx context.Context, page int) (string, bool, error) {
	key, err := c.pageKey(ctx, page)
	if err != nil {
		return "", false, err
	}

	html, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache: getting %s: %w", key, err)
	}
	return html, true, nil
}

func (c *Redis) SetPage(ctx context.Context, page int, html string) error {
	key, err := c.pageKey(ctx, page)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, key, html, pageTTL).Err(); err != nil {
		return fmt.Errorf("cache: setting %s: %w", key, err)
	}
	return nil
}

func (c *Redis) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, "feed:version").Err(); err != nil {
		return fmt.Errorf("cache: bumping feed version: %w", err)
	}
	return nil
}

// pageKey builds the versioned key for a feed page. A missing version key
// reads as generation 0, which is fine — all readers and writers see the
// same absent value.
func (c *Redis) pageKey(ctx context.Context, page int) (string, error) {
	version, err := c.client.Get(ctx, "feed:version").Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("cache: reading feed version: %w", err)
	}
	return fmt.Sprintf("feed:v%d:page:%d", version, page), nil
}
