package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a best-effort read-side cache for orders plus a fast path for
// idempotency lookups. The database stays the source of truth: every cache
// method may silently miss.
type Cache interface {
	GetOrder(ctx context.Context, id string) (*Order, bool)
	SetOrder(ctx context.Context, o *Order)
	OrderIDForRequest(ctx context.Context, clientRequestID string) (string, bool)
	RememberRequest(ctx context.Context, clientRequestID, orderID string)
}

const (
	keyOrder     = "order:%s"
	keyPlaceIdem = "idem:place:%s"

	orderTTL = 10 * time.Minute
	idemTTL  = 24 * time.Hour
)

type redisCache struct{ rdb *redis.Client }

// NewRedisCache creates an order cache backed by Redis.
func NewRedisCache(rdb *redis.Client) Cache { return &redisCache{rdb: rdb} }

func (c *redisCache) GetOrder(ctx context.Context, id string) (*Order, bool) {
	raw, err := c.rdb.Get(ctx, fmt.Sprintf(keyOrder, id)).Bytes()
	if err != nil {
		return nil, false
	}
	o := &Order{}
	if err := json.Unmarshal(raw, o); err != nil {
		return nil, false
	}
	return o, true
}

func (c *redisCache) SetOrder(ctx context.Context, o *Order) {
	raw, err := json.Marshal(o)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, fmt.Sprintf(keyOrder, o.ID), raw, orderTTL).Err()
}

func (c *redisCache) OrderIDForRequest(ctx context.Context, clientRequestID string) (string, bool) {
	id, err := c.rdb.Get(ctx, fmt.Sprintf(keyPlaceIdem, clientRequestID)).Result()
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

func (c *redisCache) RememberRequest(ctx context.Context, clientRequestID, orderID string) {
	_ = c.rdb.Set(ctx, fmt.Sprintf(keyPlaceIdem, clientRequestID), orderID, idemTTL).Err()
}
