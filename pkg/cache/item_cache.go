package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// ItemCacheTTL is the time-to-live for cached items.
	ItemCacheTTL = 24 * time.Hour

	itemCacheKeyPrefix = "items"
)

// CachedItem is the denormalized read model stored in Redis as JSON. It
// mirrors the item aggregate so cache hits can serve full item reads without
// touching Postgres.
type CachedItem struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Code     string    `json:"code,omitempty"`

	Purchasable     bool            `json:"purchasable"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	CostAccountID   uuid.UUID       `json:"cost_account_id,omitempty"`
	CostDescription string          `json:"cost_description,omitempty"`

	Sellable        bool            `json:"sellable"`
	SellPrice       decimal.Decimal `json:"sell_price"`
	SellAccountID   uuid.UUID       `json:"sell_account_id,omitempty"`
	SellDescription string          `json:"sell_description,omitempty"`

	InventoryAccountID uuid.UUID `json:"inventory_account_id,omitempty"`
	CategoryID         uuid.UUID `json:"category_id,omitempty"`
	Note               string    `json:"note,omitempty"`
	Active             bool      `json:"active"`

	OpeningQuantity int             `json:"opening_quantity"`
	OpeningCost     decimal.Decimal `json:"opening_cost"`
	OpeningDate     *time.Time      `json:"opening_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemCache provides structured read/write operations for item cache entries.
// Keys are scoped by tenantID to prevent cross-tenant data leakage.
// Key format: "items:{tenantID}:{itemID}"
type ItemCache struct {
	client *RedisClient
}

// NewItemCache creates a new ItemCache backed by the given RedisClient.
func NewItemCache(r *RedisClient) *ItemCache {
	return &ItemCache{client: r}
}

// Get retrieves a cached item by tenant + item ID.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *ItemCache) Get(ctx context.Context, tenantID, itemID uuid.UUID) (*CachedItem, error) {
	data, err := c.client.Client().Get(ctx, c.key(tenantID, itemID)).Bytes()
	if err != nil {
		return nil, err // redis.Nil on miss
	}
	var item CachedItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("cache unmarshal: %w", err)
	}
	return &item, nil
}

// Set writes a cached item as JSON with a 24-hour TTL.
func (c *ItemCache) Set(ctx context.Context, item *CachedItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	key := c.key(item.TenantID, item.ID)
	if err := c.client.Client().Set(ctx, key, data, ItemCacheTTL).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached item.
func (c *ItemCache) Delete(ctx context.Context, tenantID, itemID uuid.UUID) error {
	if err := c.client.Client().Del(ctx, c.key(tenantID, itemID)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// key builds the Redis key: "items:{tenantID}:{itemID}"
func (c *ItemCache) key(tenantID, itemID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", itemCacheKeyPrefix, tenantID, itemID)
}
