// Package services contains stateless domain services for the items bounded
// context. The item consistency validator is a pure decision function: it
// performs read-only lookups against the account, category, and item
// directories, mutates nothing, and returns its verdict as data.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	itemdomain "github.com/ghuser/bookkeeper/services/items/domain"
	"github.com/ghuser/bookkeeper/services/items/domain/models"
)

// AccountDirectory is the read-only lookup of ledger accounts this context
// consumes. The accounts themselves belong to another context.
type AccountDirectory interface {
	// FindAccountByID returns (nil, nil) when no account matches.
	FindAccountByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Account, error)
}

// CategoryDirectory is the read-only lookup of item categories.
type CategoryDirectory interface {
	// FindCategoryByID returns (nil, nil) when no category matches.
	FindCategoryByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Category, error)
}

// ItemDirectory is the read-only view of the item store the validator needs.
type ItemDirectory interface {
	// FindItemByID returns (nil, nil) when no item matches.
	FindItemByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Item, error)

	// FindItemByName matches active items case-insensitively, skipping
	// excludeID when non-nil. Returns (nil, nil) when no item matches.
	FindItemByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID uuid.UUID) (*models.Item, error)

	// ItemExists reports whether an item with the given ID exists for the tenant.
	ItemExists(ctx context.Context, tenantID, id uuid.UUID) (bool, error)

	// CountItemTransactions returns the number of transactions referencing the item.
	CountItemTransactions(ctx context.Context, tenantID, id uuid.UUID) (int, error)
}

// ItemValidator enforces the cross-entity consistency rules for items:
// account existence and classification, category existence, tenant-scoped
// name uniqueness, and the no-associated-transactions deletion guard.
//
// All applicable checks run on every invocation - failures accumulate rather
// than short-circuit, so one response can report a wrong sell account and a
// duplicate name at the same time. Directory errors are infrastructure
// faults and propagate immediately; they are never folded into the
// validation taxonomy.
type ItemValidator struct {
	accounts   AccountDirectory
	categories CategoryDirectory
	items      ItemDirectory
}

// NewItemValidator returns an ItemValidator over the given directories.
func NewItemValidator(accounts AccountDirectory, categories CategoryDirectory, items ItemDirectory) *ItemValidator {
	return &ItemValidator{accounts: accounts, categories: categories, items: items}
}

// accountRule declares one conditional account requirement. When applies
// returns true the referenced account must exist and carry the wanted
// classification. Keeping the rules in one table keeps them auditable;
// evaluation order is the order below.
type accountRule struct {
	field     string
	want      models.Classification
	missing   itemdomain.FailureKind
	mismatch  itemdomain.FailureKind
	applies   func(c models.ItemCandidate) bool
	accountID func(c models.ItemCandidate) uuid.UUID
}

var accountRules = []accountRule{
	{
		field:     "inventory_account_id",
		want:      models.ClassificationCurrentAsset,
		missing:   itemdomain.InventoryAccountNotFound,
		mismatch:  itemdomain.InventoryAccountNotCurrentAsset,
		applies:   func(c models.ItemCandidate) bool { return c.Type == models.ItemTypeInventory },
		accountID: func(c models.ItemCandidate) uuid.UUID { return c.InventoryAccountID },
	},
	{
		field:     "cost_account_id",
		want:      models.ClassificationCOGS,
		missing:   itemdomain.CostAccountNotFound,
		mismatch:  itemdomain.CostAccountNotCOGS,
		applies:   func(c models.ItemCandidate) bool { return c.Purchasable },
		accountID: func(c models.ItemCandidate) uuid.UUID { return c.CostAccountID },
	},
	{
		field:     "sell_account_id",
		want:      models.ClassificationIncome,
		missing:   itemdomain.SellAccountNotFound,
		mismatch:  itemdomain.SellAccountNotIncome,
		applies:   func(c models.ItemCandidate) bool { return c.Sellable },
		accountID: func(c models.ItemCandidate) uuid.UUID { return c.SellAccountID },
	},
}

// ValidateForCreate runs every applicable consistency check against the
// candidate and either returns the normalized item ready for persistence or a
// *ValidationError carrying the ordered failure list.
//
// The uniqueness check here is a best-effort pre-check; the store's unique
// constraint remains the authoritative tie-breaker under concurrent writers.
func (v *ItemValidator) ValidateForCreate(ctx context.Context, tenantID uuid.UUID, candidate models.ItemCandidate) (*models.Item, error) {
	var failures []itemdomain.Failure

	failures, err := v.checkReferences(ctx, tenantID, candidate, failures)
	if err != nil {
		return nil, err
	}
	failures, err = v.checkNameUnique(ctx, tenantID, candidate.Name, uuid.Nil, failures)
	if err != nil {
		return nil, err
	}

	if len(failures) > 0 {
		return nil, &itemdomain.ValidationError{Failures: failures}
	}
	return normalize(tenantID, candidate), nil
}

// ValidateForEdit re-runs the create checks for an existing item, excluding
// the item itself from the uniqueness check. The item must exist; otherwise
// the result is a single ITEM_NOT_FOUND failure and no further checks run,
// since there is nothing to re-validate against.
func (v *ItemValidator) ValidateForEdit(ctx context.Context, tenantID, itemID uuid.UUID, candidate models.ItemCandidate) (*models.Item, error) {
	existing, err := v.items.FindItemByID(ctx, tenantID, itemID)
	if err != nil {
		return nil, fmt.Errorf("find item: %w", err)
	}
	if existing == nil {
		return nil, &itemdomain.ValidationError{Failures: []itemdomain.Failure{
			{Kind: itemdomain.ItemNotFound, ItemIDs: []uuid.UUID{itemID}},
		}}
	}

	var failures []itemdomain.Failure
	failures, err = v.checkReferences(ctx, tenantID, candidate, failures)
	if err != nil {
		return nil, err
	}
	failures, err = v.checkNameUnique(ctx, tenantID, candidate.Name, itemID, failures)
	if err != nil {
		return nil, err
	}

	if len(failures) > 0 {
		return nil, &itemdomain.ValidationError{Failures: failures}
	}

	item := normalize(tenantID, candidate)
	item.ID = existing.ID
	item.CreatedAt = existing.CreatedAt
	// Opening balances are fixed at creation; edits never touch them.
	item.OpeningQuantity = existing.OpeningQuantity
	item.OpeningCost = existing.OpeningCost
	item.OpeningDate = existing.OpeningDate
	return item, nil
}

// ValidateDeletable checks that the item exists and has no associated
// transactions. Both checks run; a missing item trivially has no references.
// The decision is idempotent over unchanged store state.
func (v *ItemValidator) ValidateDeletable(ctx context.Context, tenantID, itemID uuid.UUID) error {
	var failures []itemdomain.Failure

	exists, err := v.items.ItemExists(ctx, tenantID, itemID)
	if err != nil {
		return fmt.Errorf("check item exists: %w", err)
	}
	if !exists {
		failures = append(failures, itemdomain.Failure{
			Kind: itemdomain.ItemNotFound, ItemIDs: []uuid.UUID{itemID},
		})
	}

	refs, err := v.items.CountItemTransactions(ctx, tenantID, itemID)
	if err != nil {
		return fmt.Errorf("count item transactions: %w", err)
	}
	if refs > 0 {
		failures = append(failures, itemdomain.Failure{
			Kind: itemdomain.ItemHasAssociatedTransactions, ItemIDs: []uuid.UUID{itemID},
		})
	}

	if len(failures) > 0 {
		return &itemdomain.ValidationError{Failures: failures}
	}
	return nil
}

// ValidateBulkDeletable checks every id in the batch. Missing ids aggregate
// into one ITEM_NOT_FOUND failure; ids with transaction references aggregate
// into one ITEMS_HAVE_ASSOCIATED_TRANSACTIONS failure carrying the offending
// subset. Any failure blocks the entire batch - bulk delete is all-or-nothing.
func (v *ItemValidator) ValidateBulkDeletable(ctx context.Context, tenantID uuid.UUID, itemIDs []uuid.UUID) error {
	var missing, referenced []uuid.UUID

	for _, id := range itemIDs {
		exists, err := v.items.ItemExists(ctx, tenantID, id)
		if err != nil {
			return fmt.Errorf("check item exists: %w", err)
		}
		if !exists {
			missing = append(missing, id)
			continue
		}

		refs, err := v.items.CountItemTransactions(ctx, tenantID, id)
		if err != nil {
			return fmt.Errorf("count item transactions: %w", err)
		}
		if refs > 0 {
			referenced = append(referenced, id)
		}
	}

	var failures []itemdomain.Failure
	if len(missing) > 0 {
		failures = append(failures, itemdomain.Failure{
			Kind: itemdomain.ItemNotFound, ItemIDs: missing,
		})
	}
	if len(referenced) > 0 {
		failures = append(failures, itemdomain.Failure{
			Kind: itemdomain.ItemsHaveAssociatedTransactions, ItemIDs: referenced,
		})
	}

	if len(failures) > 0 {
		return &itemdomain.ValidationError{Failures: failures}
	}
	return nil
}

// checkReferences evaluates the account rule table and the category lookup,
// appending any failures in rule order.
func (v *ItemValidator) checkReferences(ctx context.Context, tenantID uuid.UUID, c models.ItemCandidate, failures []itemdomain.Failure) ([]itemdomain.Failure, error) {
	for _, rule := range accountRules {
		if !rule.applies(c) {
			continue
		}
		id := rule.accountID(c)
		if id == uuid.Nil {
			failures = append(failures, itemdomain.Failure{Kind: rule.missing, Field: rule.field})
			continue
		}
		account, err := v.accounts.FindAccountByID(ctx, tenantID, id)
		if err != nil {
			return nil, fmt.Errorf("find account %s: %w", id, err)
		}
		switch {
		case account == nil:
			failures = append(failures, itemdomain.Failure{Kind: rule.missing, Field: rule.field})
		case account.Classification != rule.want:
			failures = append(failures, itemdomain.Failure{Kind: rule.mismatch, Field: rule.field})
		}
	}

	if c.CategoryID != uuid.Nil {
		category, err := v.categories.FindCategoryByID(ctx, tenantID, c.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("find category %s: %w", c.CategoryID, err)
		}
		if category == nil {
			failures = append(failures, itemdomain.Failure{Kind: itemdomain.ItemCategoryNotFound, Field: "category_id"})
		}
	}
	return failures, nil
}

// checkNameUnique appends ITEM_NAME_EXISTS when another active item in the
// tenant already carries the name. excludeID skips the item being edited.
func (v *ItemValidator) checkNameUnique(ctx context.Context, tenantID uuid.UUID, name string, excludeID uuid.UUID, failures []itemdomain.Failure) ([]itemdomain.Failure, error) {
	existing, err := v.items.FindItemByName(ctx, tenantID, name, excludeID)
	if err != nil {
		return nil, fmt.Errorf("find item by name: %w", err)
	}
	if existing != nil {
		failures = append(failures, itemdomain.Failure{Kind: itemdomain.ItemNameExists, Field: "name"})
	}
	return failures, nil
}

// normalize applies defaults and produces the item ready for persistence:
// active defaults to true, inventory items get a zero opening quantity when
// unspecified, and non-inventory items carry no opening balances at all.
func normalize(tenantID uuid.UUID, c models.ItemCandidate) *models.Item {
	now := time.Now().UTC()
	item := &models.Item{
		ID:                 uuid.New(),
		TenantID:           tenantID,
		Name:               models.ItemName(c.Name),
		Type:               c.Type,
		Code:               c.Code,
		Purchasable:        c.Purchasable,
		CostPrice:          c.CostPrice,
		CostAccountID:      c.CostAccountID,
		CostDescription:    c.CostDescription,
		Sellable:           c.Sellable,
		SellPrice:          c.SellPrice,
		SellAccountID:      c.SellAccountID,
		SellDescription:    c.SellDescription,
		InventoryAccountID: c.InventoryAccountID,
		CategoryID:         c.CategoryID,
		Note:               c.Note,
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if c.Active != nil {
		item.Active = *c.Active
	}
	if c.Type == models.ItemTypeInventory {
		if c.OpeningQuantity != nil {
			item.OpeningQuantity = *c.OpeningQuantity
		}
		item.OpeningCost = c.OpeningCost
		item.OpeningDate = c.OpeningDate
	}
	return item
}
