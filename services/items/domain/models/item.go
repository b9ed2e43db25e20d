package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemType classifies how an item participates in transactions.
type ItemType string

const (
	ItemTypeService      ItemType = "service"
	ItemTypeInventory    ItemType = "inventory"
	ItemTypeNonInventory ItemType = "non-inventory"
)

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeService, ItemTypeInventory, ItemTypeNonInventory:
		return true
	}
	return false
}

// Item is the core aggregate for this bounded context.
// Opening* fields are only meaningful for inventory items and are fixed at
// creation time; edits never touch them.
type Item struct {
	ID       uuid.UUID
	TenantID uuid.UUID // tenant scope - always filter by this in queries
	Name     ItemName
	Type     ItemType
	Code     string // optional SKU / code

	Purchasable     bool
	CostPrice       decimal.Decimal
	CostAccountID   uuid.UUID
	CostDescription string

	Sellable        bool
	SellPrice       decimal.Decimal
	SellAccountID   uuid.UUID
	SellDescription string

	InventoryAccountID uuid.UUID
	CategoryID         uuid.UUID
	Note               string
	Active             bool

	OpeningQuantity int
	OpeningCost     decimal.Decimal
	OpeningDate     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemCandidate is the pre-validated payload handed to the consistency
// validator. Field-shape constraints (type enum membership, numeric ranges,
// string lengths) are enforced by the transport layer; uuid.Nil marks an
// absent account or category reference.
type ItemCandidate struct {
	Name string
	Type ItemType
	Code string

	Purchasable     bool
	CostPrice       decimal.Decimal
	CostAccountID   uuid.UUID
	CostDescription string

	Sellable        bool
	SellPrice       decimal.Decimal
	SellAccountID   uuid.UUID
	SellDescription string

	InventoryAccountID uuid.UUID
	CategoryID         uuid.UUID
	Note               string

	// Active defaults to true when nil.
	Active *bool

	// OpeningQuantity defaults to 0 for inventory items when nil.
	OpeningQuantity *int
	OpeningCost     decimal.Decimal
	OpeningDate     *time.Time
}
