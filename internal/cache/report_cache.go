package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
)

const versionKeyPrefix = "report:version:"

// ReportCache keeps per-owner report aggregates in Redis. Every key embeds the owner's
// version counter, so bumping the counter orphans all cached entries of that owner.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ portssvc.ReportCache = (*ReportCache)(nil)

// NewReportCache instantiates the cache helper. A nil client computes every value directly.
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}

func versionKey(ownerID string) string {
	return versionKeyPrefix + ownerID
}

// Version returns the owner's current cache version, initialising it when missing.
func (c *ReportCache) Version(ctx context.Context, ownerID string) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	key := versionKey(ownerID)
	ver, err := c.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		// SetNX so a concurrent Bump is never overwritten.
		if err := c.client.SetNX(ctx, key, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, key).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey composes "report:{owner}:{parts}:{version}".
func (c *ReportCache) BuildKey(ctx context.Context, ownerID string, parts ...string) (string, error) {
	base := strings.Join(append([]string{"report", ownerID}, parts...), ":")
	if c == nil || c.client == nil {
		return base, nil
	}
	ver, err := c.Version(ctx, ownerID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", base, ver), nil
}

// FetchJSON loads a cached value or populates it using the loader.
func (c *ReportCache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c != nil && c.client != nil {
		payload, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			return json.Unmarshal(payload, dest)
		}
		if !errors.Is(err, redis.Nil) {
			return err
		}
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c != nil && c.client != nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			return err
		}
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalidates every cached aggregate of the owner.
func (c *ReportCache) Bump(ctx context.Context, ownerID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, versionKey(ownerID)).Err()
}
