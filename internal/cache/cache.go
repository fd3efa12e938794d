// Package cache provides a Redis-backed read-through cache for buyer
// records and list views. Mutations publish domain events; this package
// subscribes and invalidates so callers never serve stale views after a
// successful write.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"buyerleads_backend/internal/buyers/transport"
	"buyerleads_backend/internal/events"
	"buyerleads_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	recordKeyPrefix = "buyers:record:"
	listKeyPrefix   = "buyers:list:"
	listVersionKey  = "buyers:list:version"
)

// BuyerCache stores serialized responses in Redis. List keys embed a
// version counter; invalidation bumps the counter, which orphans every old
// list entry at once and lets TTL reclaim them.
type BuyerCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// New creates a buyer cache on the given Redis client.
func New(client *redis.Client, ttl time.Duration, log *logger.Logger) *BuyerCache {
	return &BuyerCache{client: client, ttl: ttl, log: log}
}

// SubscribeInvalidation registers the cache's invalidation handlers on the
// event bus. Created and imported records orphan list views; updates also
// drop the single-record entry.
func (c *BuyerCache) SubscribeInvalidation(bus events.Bus) {
	bus.Subscribe(events.BuyerCreated{}.EventName(), events.HandlerFunc(func(ctx context.Context, _ events.Event) error {
		return c.invalidateLists(ctx)
	}))
	bus.Subscribe(events.BuyersImported{}.EventName(), events.HandlerFunc(func(ctx context.Context, _ events.Event) error {
		return c.invalidateLists(ctx)
	}))
	bus.Subscribe(events.BuyerUpdated{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		updated, ok := event.(events.BuyerUpdated)
		if !ok {
			return nil
		}
		if err := c.client.Del(ctx, recordKeyPrefix+updated.BuyerID.String()).Err(); err != nil {
			return err
		}
		return c.invalidateLists(ctx)
	}))
}

// GetRecord returns the cached record, if present.
func (c *BuyerCache) GetRecord(ctx context.Context, id uuid.UUID) (transport.BuyerResponse, bool) {
	var record transport.BuyerResponse
	if !c.get(ctx, recordKeyPrefix+id.String(), &record) {
		return transport.BuyerResponse{}, false
	}
	return record, true
}

// SetRecord caches a record view.
func (c *BuyerCache) SetRecord(ctx context.Context, record transport.BuyerResponse) {
	c.set(ctx, recordKeyPrefix+record.ID.String(), record)
}

// GetList returns the cached list view for the query key, if present.
func (c *BuyerCache) GetList(ctx context.Context, key string) (transport.BuyerListResponse, bool) {
	versioned, ok := c.listKey(ctx, key)
	if !ok {
		return transport.BuyerListResponse{}, false
	}
	var list transport.BuyerListResponse
	if !c.get(ctx, versioned, &list) {
		return transport.BuyerListResponse{}, false
	}
	return list, true
}

// SetList caches a list view under the current version.
func (c *BuyerCache) SetList(ctx context.Context, key string, list transport.BuyerListResponse) {
	versioned, ok := c.listKey(ctx, key)
	if !ok {
		return
	}
	c.set(ctx, versioned, list)
}

func (c *BuyerCache) invalidateLists(ctx context.Context) error {
	return c.client.Incr(ctx, listVersionKey).Err()
}

func (c *BuyerCache) listKey(ctx context.Context, key string) (string, bool) {
	version, err := c.client.Get(ctx, listVersionKey).Int64()
	if err != nil && err != redis.Nil {
		c.warn("cache version read failed", err)
		return "", false
	}
	return fmt.Sprintf("%s%d:%s", listKeyPrefix, version, key), true
}

func (c *BuyerCache) get(ctx context.Context, key string, target interface{}) bool {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.warn("cache read failed", err)
		}
		return false
	}
	if err := json.Unmarshal(payload, target); err != nil {
		c.warn("cache decode failed", err)
		return false
	}
	return true
}

func (c *BuyerCache) set(ctx context.Context, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.warn("cache encode failed", err)
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.warn("cache write failed", err)
	}
}

// warn logs and moves on: the cache is an optimization, never a failure
// source for the request path.
func (c *BuyerCache) warn(message string, err error) {
	if c.log != nil {
		c.log.Warn(message, "error", err)
	}
}
