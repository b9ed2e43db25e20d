package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	pkgcache "github.com/ghuser/bookkeeper/pkg/cache"
	itemdomain "github.com/ghuser/bookkeeper/services/items/domain"
	"github.com/ghuser/bookkeeper/services/items/domain/models"
	"github.com/ghuser/bookkeeper/services/items/domain/repositories"
	domainsvcs "github.com/ghuser/bookkeeper/services/items/domain/services"
)

// ItemService orchestrates item writes through the consistency validator and
// serves reads through a Redis read-through cache. Event publishing is handled
// by the repository layer (outbox pattern).
type ItemService struct {
	repo      repositories.ItemRepository
	validator *domainsvcs.ItemValidator
	cache     *pkgcache.ItemCache
}

// NewItemService returns an ItemService wired with the given repository,
// validator, and cache.
func NewItemService(repo repositories.ItemRepository, validator *domainsvcs.ItemValidator, itemCache *pkgcache.ItemCache) *ItemService {
	return &ItemService{repo: repo, validator: validator, cache: itemCache}
}

// Create validates and persists a new item. The repository publishes
// ItemCreatedEvent in the same transaction.
//
// A unique constraint rejection at insert time surfaces as the same
// ITEM_NAME_EXISTS failure the validator's pre-check produces, so concurrent
// writers racing past the pre-check get a consistent response.
func (s *ItemService) Create(ctx context.Context, tenantID uuid.UUID, candidate models.ItemCandidate) (*models.Item, error) {
	if _, err := models.NewItemName(candidate.Name); err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItemName, err)
	}

	item, err := s.validator.ValidateForCreate(ctx, tenantID, candidate)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, item); err != nil {
		if errors.Is(err, itemdomain.ErrItemNameTaken) {
			return nil, nameTakenFailure()
		}
		return nil, fmt.Errorf("save item: %w", err)
	}
	return item, nil
}

// Edit validates and persists changes to an existing item. Opening balances
// are immutable; the validator carries them over from the stored item.
func (s *ItemService) Edit(ctx context.Context, tenantID, itemID uuid.UUID, candidate models.ItemCandidate) (*models.Item, error) {
	if _, err := models.NewItemName(candidate.Name); err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItemName, err)
	}

	item, err := s.validator.ValidateForEdit(ctx, tenantID, itemID, candidate)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, itemdomain.ErrItemNameTaken) {
			return nil, nameTakenFailure()
		}
		return nil, fmt.Errorf("update item: %w", err)
	}

	s.evict(tenantID, itemID)
	return item, nil
}

// GetByID retrieves an item using a read-through cache pattern:
//  1. Check Redis cache first.
//  2. On cache miss (or cache error), query Postgres.
//  3. Asynchronously warm the cache with the Postgres result.
func (s *ItemService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Item, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, tenantID, id); err == nil {
			return fromCached(cached), nil
		} else if !errors.Is(err, redis.Nil) {
			// Cache error; fall through to Postgres.
			_ = err
		}
	}

	item, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	if s.cache != nil {
		go func() {
			_ = s.cache.Set(context.Background(), ToCachedItem(item))
		}()
	}

	return item, nil
}

// List returns a paginated slice of items for the tenant plus total count.
func (s *ItemService) List(ctx context.Context, tenantID uuid.UUID, opts repositories.QueryOpts) ([]*models.Item, int, error) {
	items, total, err := s.repo.FindByTenantID(ctx, tenantID, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	return items, total, nil
}

// Delete removes an item once the deletion guard approves: the item must
// exist and have no associated transactions.
func (s *ItemService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.validator.ValidateDeletable(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	s.evict(tenantID, id)
	return nil
}

// BulkDelete removes a batch of items atomically. Any item in the batch that
// is missing or has transaction references blocks the whole batch.
func (s *ItemService) BulkDelete(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) error {
	if err := s.validator.ValidateBulkDeletable(ctx, tenantID, ids); err != nil {
		return err
	}
	if err := s.repo.DeleteBulk(ctx, tenantID, ids); err != nil {
		return fmt.Errorf("bulk delete items: %w", err)
	}
	for _, id := range ids {
		s.evict(tenantID, id)
	}
	return nil
}

// SetActive activates or inactivates an item. Inactivating releases the
// item's name for reuse by new active items.
func (s *ItemService) SetActive(ctx context.Context, tenantID, id uuid.UUID, active bool) error {
	if err := s.repo.SetActive(ctx, tenantID, id, active); err != nil {
		if errors.Is(err, itemdomain.ErrItemNotFound) {
			return err
		}
		return fmt.Errorf("set item active: %w", err)
	}
	s.evict(tenantID, id)
	return nil
}

// evict drops the cached read model; best-effort, stale entries also expire
// via TTL.
func (s *ItemService) evict(tenantID, id uuid.UUID) {
	if s.cache != nil {
		_ = s.cache.Delete(context.Background(), tenantID, id)
	}
}

func nameTakenFailure() error {
	return &itemdomain.ValidationError{Failures: []itemdomain.Failure{
		{Kind: itemdomain.ItemNameExists, Field: "name"},
	}}
}

// ToCachedItem maps an item aggregate to its Redis read model. The worker
// uses it to warm the cache from domain events.
func ToCachedItem(item *models.Item) *pkgcache.CachedItem {
	return &pkgcache.CachedItem{
		ID:                 item.ID,
		TenantID:           item.TenantID,
		Name:               item.Name.String(),
		Type:               string(item.Type),
		Code:               item.Code,
		Purchasable:        item.Purchasable,
		CostPrice:          item.CostPrice,
		CostAccountID:      item.CostAccountID,
		CostDescription:    item.CostDescription,
		Sellable:           item.Sellable,
		SellPrice:          item.SellPrice,
		SellAccountID:      item.SellAccountID,
		SellDescription:    item.SellDescription,
		InventoryAccountID: item.InventoryAccountID,
		CategoryID:         item.CategoryID,
		Note:               item.Note,
		Active:             item.Active,
		OpeningQuantity:    item.OpeningQuantity,
		OpeningCost:        item.OpeningCost,
		OpeningDate:        item.OpeningDate,
		CreatedAt:          item.CreatedAt,
		UpdatedAt:          item.UpdatedAt,
	}
}

func fromCached(cached *pkgcache.CachedItem) *models.Item {
	return &models.Item{
		ID:                 cached.ID,
		TenantID:           cached.TenantID,
		Name:               models.ItemName(cached.Name),
		Type:               models.ItemType(cached.Type),
		Code:               cached.Code,
		Purchasable:        cached.Purchasable,
		CostPrice:          cached.CostPrice,
		CostAccountID:      cached.CostAccountID,
		CostDescription:    cached.CostDescription,
		Sellable:           cached.Sellable,
		SellPrice:          cached.SellPrice,
		SellAccountID:      cached.SellAccountID,
		SellDescription:    cached.SellDescription,
		InventoryAccountID: cached.InventoryAccountID,
		CategoryID:         cached.CategoryID,
		Note:               cached.Note,
		Active:             cached.Active,
		OpeningQuantity:    cached.OpeningQuantity,
		OpeningCost:        cached.OpeningCost,
		OpeningDate:        cached.OpeningDate,
		CreatedAt:          cached.CreatedAt,
		UpdatedAt:          cached.UpdatedAt,
	}
}
