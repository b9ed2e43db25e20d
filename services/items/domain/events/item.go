package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Watermill topics published by the items context.
const (
	TopicItemCreated = "items.created"
	TopicItemEdited  = "items.edited"
	TopicItemDeleted = "items.deleted"
)

// ItemCreatedEvent is published after a new item is persisted.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicItemCreated).
type ItemCreatedEvent struct {
	EventID    uuid.UUID       `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int             `json:"version"`  // Schema version; increment on breaking changes
	ItemID     uuid.UUID       `json:"item_id"`
	TenantID   uuid.UUID       `json:"tenant_id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Active     bool            `json:"active"`
	SellPrice  decimal.Decimal `json:"sell_price"`
	CostPrice  decimal.Decimal `json:"cost_price"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// ItemEditedEvent is published after an item edit is persisted. It carries
// the post-edit state so read models can be refreshed without a query.
type ItemEditedEvent struct {
	EventID    uuid.UUID       `json:"event_id"`
	Version    int             `json:"version"`
	ItemID     uuid.UUID       `json:"item_id"`
	TenantID   uuid.UUID       `json:"tenant_id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Active     bool            `json:"active"`
	SellPrice  decimal.Decimal `json:"sell_price"`
	CostPrice  decimal.Decimal `json:"cost_price"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// ItemDeletedEvent is published after an item (or each item of a bulk batch)
// is deleted, so read models can evict the entry.
type ItemDeletedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	ItemID     uuid.UUID `json:"item_id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
