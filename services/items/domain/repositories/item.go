package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/bookkeeper/services/items/domain/models"
)

// QueryOpts contains pagination parameters for list queries.
type QueryOpts struct {
	Limit  int // Maximum number of records to return
	Offset int // Number of records to skip
}

// ItemRepository is the persistence interface for the Item aggregate.
// The domain layer owns this interface; infrastructure implements it.
// Mutations run only after the consistency validator has approved the
// operation; the read methods double as the validator's item directory.
type ItemRepository interface {
	// Insert persists a validated item. Returns ErrItemNameTaken when the
	// tenant-scoped unique name constraint rejects the write.
	Insert(ctx context.Context, item *models.Item) error

	// Update persists changes to an existing item. Returns ErrItemNameTaken
	// on unique name violations and ErrItemNotFound when no row matched.
	Update(ctx context.Context, item *models.Item) error

	// GetByID retrieves an item scoped to the tenant. Returns ErrItemNotFound
	// when no item matches.
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Item, error)

	// FindByTenantID retrieves a paginated list of items for the tenant.
	// Returns the items slice and the total count (ignoring pagination).
	FindByTenantID(ctx context.Context, tenantID uuid.UUID, opts QueryOpts) ([]*models.Item, int, error)

	// Delete removes an item by ID scoped to the tenant.
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// DeleteBulk removes the given items in a single transaction -
	// all rows are deleted or none are.
	DeleteBulk(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) error

	// SetActive toggles the item's active flag. Returns ErrItemNotFound when
	// no row matched.
	SetActive(ctx context.Context, tenantID, id uuid.UUID, active bool) error

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

// AccountRepository is the read-only account directory this context consumes.
type AccountRepository interface {
	// FindAccountByID returns (nil, nil) when no account matches.
	FindAccountByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Account, error)
}

// CategoryRepository is the read-only category directory.
type CategoryRepository interface {
	// FindCategoryByID returns (nil, nil) when no category matches.
	FindCategoryByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Category, error)
}
