package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// FailureKind is a machine-readable validation failure code. Kinds are data,
// not control flow: the validator collects every applicable failure and
// returns them together inside a single *ValidationError.
type FailureKind string

const (
	ItemNotFound                    FailureKind = "ITEM_NOT_FOUND"
	ItemCategoryNotFound            FailureKind = "ITEM_CATEGORY_NOT_FOUND"
	ItemNameExists                  FailureKind = "ITEM_NAME_EXISTS"
	CostAccountNotFound             FailureKind = "COST_ACCOUNT_NOT_FOUND"
	CostAccountNotCOGS              FailureKind = "COST_ACCOUNT_NOT_COGS"
	SellAccountNotFound             FailureKind = "SELL_ACCOUNT_NOT_FOUND"
	SellAccountNotIncome            FailureKind = "SELL_ACCOUNT_NOT_INCOME"
	InventoryAccountNotFound        FailureKind = "INVENTORY_ACCOUNT_NOT_FOUND"
	InventoryAccountNotCurrentAsset FailureKind = "INVENTORY_ACCOUNT_NOT_CURRENT_ASSET"
	ItemHasAssociatedTransactions   FailureKind = "ITEM_HAS_ASSOCIATED_TRANSACTIONS"
	ItemsHaveAssociatedTransactions FailureKind = "ITEMS_HAVE_ASSOCIATED_TRANSACTIONS"
)

// Failure is one validation failure record. Field names the offending request
// field when the failure is field-scoped; ItemIDs carries the offending subset
// for aggregate failures (bulk delete, missing ids).
type Failure struct {
	Kind    FailureKind `json:"type"`
	Field   string      `json:"field,omitempty"`
	ItemIDs []uuid.UUID `json:"item_ids,omitempty"`
}

// ValidationError carries the ordered list of failures produced by one
// validator invocation. It is returned as a value, never panicked, and is
// distinct from infrastructure faults, which propagate as plain errors.
type ValidationError struct {
	Failures []Failure
}

// Error implements the error interface with a compact kind listing.
func (e *ValidationError) Error() string {
	kinds := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		kinds[i] = string(f.Kind)
	}
	return fmt.Sprintf("item validation failed: %s", strings.Join(kinds, ", "))
}

// HasKind reports whether any collected failure carries the given kind.
func (e *ValidationError) HasKind(kind FailureKind) bool {
	for _, f := range e.Failures {
		if f.Kind == kind {
			return true
		}
	}
	return false
}

// Only reports whether every collected failure carries the given kind.
// errhttp uses this to pick 404/409 over the generic 422.
func (e *ValidationError) Only(kind FailureKind) bool {
	if len(e.Failures) == 0 {
		return false
	}
	for _, f := range e.Failures {
		if f.Kind != kind {
			return false
		}
	}
	return true
}
