package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/bookkeeper/services/items/domain/models"
)

// ItemRequest is the request body shared by POST /items and POST /items/{id}.
// Field-shape constraints live here as validator tags; cross-entity rules
// (account classifications, name uniqueness) are the domain validator's job.
type ItemRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255" example:"Office Chair"`
	Type string `json:"type" validate:"required,oneof=service inventory non-inventory" example:"inventory"`
	Code string `json:"code" validate:"omitempty,max=64" example:"CHAIR-001"`

	Purchasable     bool            `json:"purchasable"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	CostAccountID   uuid.UUID       `json:"cost_account_id" validate:"omitempty"`
	CostDescription string          `json:"cost_description" validate:"omitempty,max=1000"`

	Sellable        bool            `json:"sellable"`
	SellPrice       decimal.Decimal `json:"sell_price"`
	SellAccountID   uuid.UUID       `json:"sell_account_id" validate:"omitempty"`
	SellDescription string          `json:"sell_description" validate:"omitempty,max=1000"`

	InventoryAccountID uuid.UUID `json:"inventory_account_id" validate:"omitempty"`
	CategoryID         uuid.UUID `json:"category_id" validate:"omitempty"`
	Note               string    `json:"note" validate:"omitempty,max=1000"`

	// Active defaults to true when omitted.
	Active *bool `json:"active"`

	// Opening balances apply to inventory items only and are fixed at
	// creation; values sent on edit are ignored.
	OpeningQuantity *int            `json:"opening_quantity" validate:"omitempty,gte=0"`
	OpeningCost     decimal.Decimal `json:"opening_cost"`
	OpeningDate     *time.Time      `json:"opening_date"`
} // @name ItemRequest

// toCandidate maps the request body to the domain candidate.
func (r *ItemRequest) toCandidate() models.ItemCandidate {
	return models.ItemCandidate{
		Name:               r.Name,
		Type:               models.ItemType(r.Type),
		Code:               r.Code,
		Purchasable:        r.Purchasable,
		CostPrice:          r.CostPrice,
		CostAccountID:      r.CostAccountID,
		CostDescription:    r.CostDescription,
		Sellable:           r.Sellable,
		SellPrice:          r.SellPrice,
		SellAccountID:      r.SellAccountID,
		SellDescription:    r.SellDescription,
		InventoryAccountID: r.InventoryAccountID,
		CategoryID:         r.CategoryID,
		Note:               r.Note,
		Active:             r.Active,
		OpeningQuantity:    r.OpeningQuantity,
		OpeningCost:        r.OpeningCost,
		OpeningDate:        r.OpeningDate,
	}
}

// ItemResponse is the item representation returned by all item endpoints.
type ItemResponse struct {
	ID       uuid.UUID `json:"id"        example:"123e4567-e89b-12d3-a456-426614174000"`
	TenantID uuid.UUID `json:"tenant_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name     string    `json:"name"      example:"Office Chair"`
	Type     string    `json:"type"      example:"inventory"`
	Code     string    `json:"code,omitempty"`

	Purchasable     bool            `json:"purchasable"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	CostAccountID   *uuid.UUID      `json:"cost_account_id,omitempty"`
	CostDescription string          `json:"cost_description,omitempty"`

	Sellable        bool            `json:"sellable"`
	SellPrice       decimal.Decimal `json:"sell_price"`
	SellAccountID   *uuid.UUID      `json:"sell_account_id,omitempty"`
	SellDescription string          `json:"sell_description,omitempty"`

	InventoryAccountID *uuid.UUID `json:"inventory_account_id,omitempty"`
	CategoryID         *uuid.UUID `json:"category_id,omitempty"`
	Note               string     `json:"note,omitempty"`
	Active             bool       `json:"active"`

	OpeningQuantity int             `json:"opening_quantity"`
	OpeningCost     decimal.Decimal `json:"opening_cost"`
	OpeningDate     *time.Time      `json:"opening_date,omitempty"`

	CreatedAt time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
} // @name ItemResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"item not found"`
} // @name ErrorResponse

// ValidationFailures is the 422/409/404 body produced by the domain validator.
type ValidationFailures struct {
	Errors []struct {
		Type    string      `json:"type" example:"SELL_ACCOUNT_NOT_INCOME"`
		Field   string      `json:"field,omitempty" example:"sell_account_id"`
		ItemIDs []uuid.UUID `json:"item_ids,omitempty"`
	} `json:"errors"`
} // @name ValidationFailures

func newItemResponse(item *models.Item) ItemResponse {
	return ItemResponse{
		ID:                 item.ID,
		TenantID:           item.TenantID,
		Name:               item.Name.String(),
		Type:               string(item.Type),
		Code:               item.Code,
		Purchasable:        item.Purchasable,
		CostPrice:          item.CostPrice,
		CostAccountID:      optionalUUID(item.CostAccountID),
		CostDescription:    item.CostDescription,
		Sellable:           item.Sellable,
		SellPrice:          item.SellPrice,
		SellAccountID:      optionalUUID(item.SellAccountID),
		SellDescription:    item.SellDescription,
		InventoryAccountID: optionalUUID(item.InventoryAccountID),
		CategoryID:         optionalUUID(item.CategoryID),
		Note:               item.Note,
		Active:             item.Active,
		OpeningQuantity:    item.OpeningQuantity,
		OpeningCost:        item.OpeningCost,
		OpeningDate:        item.OpeningDate,
		CreatedAt:          item.CreatedAt,
		UpdatedAt:          item.UpdatedAt,
	}
}

// optionalUUID maps uuid.Nil to a JSON-omitted field.
func optionalUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
