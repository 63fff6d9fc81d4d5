package repos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"discountd/internal/domain"
)

// CachedItems is a read-through Redis cache in front of an ItemLookup.
// With a nil client every lookup goes straight to the wrapped lookup.
type CachedItems struct {
	next   domain.ItemLookup
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewCachedItems(next domain.ItemLookup, client *redis.Client, ttl time.Duration, logger zerolog.Logger) *CachedItems {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedItems{next: next, client: client, ttl: ttl, logger: logger}
}

func itemKey(storeID, productID string) string {
	return "discountd:item:" + storeID + ":" + productID
}

func (c *CachedItems) Item(storeID, productID string) (domain.Item, error) {
	if c.client == nil {
		return c.next.Item(storeID, productID)
	}

	ctx := context.Background()
	key := itemKey(storeID, productID)
	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil && len(raw) > 0 {
		var item domain.Item
		if err := json.Unmarshal(raw, &item); err == nil {
			return item, nil
		}
	} else if err != nil && err != redis.Nil {
		c.logger.Warn().Err(err).Str("cache_key", key).Msg("item cache read failed")
	}

	item, err := c.next.Item(storeID, productID)
	if err != nil {
		return domain.Item{}, err
	}
	if raw, err := json.Marshal(item); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.Warn().Err(err).Str("cache_key", key).Msg("item cache write failed")
		}
	}
	return item, nil
}

// Invalidate drops the cached snapshot of a product.
func (c *CachedItems) Invalidate(storeID, productID string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(context.Background(), itemKey(storeID, productID)).Err()
}
