package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/ghuser/bookkeeper/pkg/database"
	"github.com/ghuser/bookkeeper/pkg/events"
	itemdomain "github.com/ghuser/bookkeeper/services/items/domain"
	domainevents "github.com/ghuser/bookkeeper/services/items/domain/events"
	"github.com/ghuser/bookkeeper/services/items/domain/models"
	"github.com/ghuser/bookkeeper/services/items/domain/repositories"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

const itemColumns = `id, tenant_id, name, type, code, purchasable, cost_price,
	cost_account_id, cost_description, sellable, sell_price, sell_account_id,
	sell_description, inventory_account_id, category_id, note, active,
	opening_quantity, opening_cost, opening_date, created_at, updated_at`

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
// Domain events are published through the event bus's transactional publisher
// in the same transaction as the row change (outbox pattern).
type ItemRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewItemRepository returns an ItemRepository backed by the given connection
// pool and event bus.
func NewItemRepository(db *database.Database, bus *events.EventBus) *ItemRepository {
	return &ItemRepository{db: db, bus: bus}
}

// Insert persists a new item and publishes ItemCreatedEvent within the same
// transaction. Returns ErrItemNameTaken on unique constraint violations - the
// store is the authoritative uniqueness tie-breaker under concurrent writers.
func (r *ItemRepository) Insert(ctx context.Context, item *models.Item) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO items (`+itemColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
				$14, $15, $16, $17, $18, $19, $20, $21, $22)`,
			insertArgs(item)...,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return itemdomain.ErrItemNameTaken
			}
			return fmt.Errorf("insert item: %w", err)
		}

		if r.bus != nil {
			if err := r.publishSnapshot(tx, domainevents.TopicItemCreated, item); err != nil {
				return fmt.Errorf("publish item created: %w", err)
			}
		}
		return nil
	})
}

// Update persists a validated edit and publishes ItemEditedEvent within the
// same transaction. Returns ErrItemNotFound when no row matched and
// ErrItemNameTaken on unique constraint violations.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE items SET
				name = $3, type = $4, code = $5, purchasable = $6,
				cost_price = $7, cost_account_id = $8, cost_description = $9,
				sellable = $10, sell_price = $11, sell_account_id = $12,
				sell_description = $13, inventory_account_id = $14,
				category_id = $15, note = $16, active = $17, updated_at = $18
			WHERE id = $1 AND tenant_id = $2`,
			item.ID, item.TenantID, item.Name.String(), string(item.Type), item.Code,
			item.Purchasable, item.CostPrice, nullUUID(item.CostAccountID), item.CostDescription,
			item.Sellable, item.SellPrice, nullUUID(item.SellAccountID), item.SellDescription,
			nullUUID(item.InventoryAccountID), nullUUID(item.CategoryID), item.Note,
			item.Active, item.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return itemdomain.ErrItemNameTaken
			}
			return fmt.Errorf("update item: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return itemdomain.ErrItemNotFound
		}

		if r.bus != nil {
			if err := r.publishSnapshot(tx, domainevents.TopicItemEdited, item); err != nil {
				return fmt.Errorf("publish item edited: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves an item scoped to the tenant. Returns ErrItemNotFound
// when no item matches.
func (r *ItemRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Item, error) {
	item, err := r.FindItemByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, itemdomain.ErrItemNotFound
	}
	return item, nil
}

// FindByTenantID retrieves a paginated list of items and total count for the tenant.
func (r *ItemRepository) FindByTenantID(ctx context.Context, tenantID uuid.UUID, opts repositories.QueryOpts) ([]*models.Item, int, error) {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE tenant_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`,
		tenantID, opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate items: %w", err)
	}

	var total int
	if err := r.db.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE tenant_id = $1`, tenantID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}
	return items, total, nil
}

// Delete removes an item and publishes ItemDeletedEvent within the same transaction.
func (r *ItemRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM items WHERE id = $1 AND tenant_id = $2`, id, tenantID,
		); err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
		if r.bus != nil {
			if err := r.publishDeleted(tx, tenantID, id); err != nil {
				return fmt.Errorf("publish item deleted: %w", err)
			}
		}
		return nil
	})
}

// DeleteBulk removes the given items in one transaction - all rows are
// deleted or none are - and publishes one ItemDeletedEvent per item.
func (r *ItemRepository) DeleteBulk(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM items WHERE id = $1 AND tenant_id = $2`, id, tenantID,
			); err != nil {
				return fmt.Errorf("delete item %s: %w", id, err)
			}
			if r.bus != nil {
				if err := r.publishDeleted(tx, tenantID, id); err != nil {
					return fmt.Errorf("publish item deleted: %w", err)
				}
			}
		}
		return nil
	})
}

// SetActive toggles the active flag. Returns ErrItemNotFound when no row matched.
func (r *ItemRepository) SetActive(ctx context.Context, tenantID, id uuid.UUID, active bool) error {
	res, err := r.db.DB().ExecContext(ctx, `
		UPDATE items SET active = $3, updated_at = $4
		WHERE id = $1 AND tenant_id = $2`,
		id, tenantID, active, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set item active: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return itemdomain.ErrItemNotFound
	}
	return nil
}

// FindItemByID returns (nil, nil) when no item matches.
func (r *ItemRepository) FindItemByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Item, error) {
	row := r.db.DB().QueryRowContext(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// FindItemByName matches active items case-insensitively, skipping excludeID
// when non-nil. Returns (nil, nil) when no item matches.
func (r *ItemRepository) FindItemByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID uuid.UUID) (*models.Item, error) {
	row := r.db.DB().QueryRowContext(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE tenant_id = $1 AND lower(name) = lower($2) AND active
			AND ($3::uuid IS NULL OR id <> $3)`,
		tenantID, name, nullUUID(excludeID),
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ItemExists reports whether an item with the given ID exists for the tenant.
func (r *ItemRepository) ItemExists(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.DB().QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM items WHERE id = $1 AND tenant_id = $2)`,
		id, tenantID,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("check item exists: %w", err)
	}
	return exists, nil
}

// CountItemTransactions returns the number of transactions referencing the item.
func (r *ItemRepository) CountItemTransactions(ctx context.Context, tenantID, id uuid.UUID) (int, error) {
	var count int
	if err := r.db.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM item_transactions WHERE item_id = $1 AND tenant_id = $2`,
		id, tenantID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count item transactions: %w", err)
	}
	return count, nil
}

// publishSnapshot publishes the post-write item snapshot. ItemCreatedEvent
// and ItemEditedEvent share one payload shape; the topic tells them apart.
func (r *ItemRepository) publishSnapshot(tx *sql.Tx, topic string, item *models.Item) error {
	event := domainevents.ItemCreatedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ItemID:     item.ID,
		TenantID:   item.TenantID,
		Name:       item.Name.String(),
		Type:       string(item.Type),
		Active:     item.Active,
		SellPrice:  item.SellPrice,
		CostPrice:  item.CostPrice,
		OccurredAt: item.UpdatedAt,
	}
	return r.publish(tx, topic, event.EventID, event)
}

func (r *ItemRepository) publishDeleted(tx *sql.Tx, tenantID, id uuid.UUID) error {
	event := domainevents.ItemDeletedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ItemID:     id,
		TenantID:   tenantID,
		OccurredAt: time.Now().UTC(),
	}
	return r.publish(tx, domainevents.TopicItemDeleted, event.EventID, event)
}

func (r *ItemRepository) publish(tx *sql.Tx, topic string, eventID uuid.UUID, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set("event_id", eventID.String())
	msg.Metadata.Set("event_version", "1")
	p, err := r.bus.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	return p.Publish(topic, msg)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func insertArgs(item *models.Item) []any {
	return []any{
		item.ID, item.TenantID, item.Name.String(), string(item.Type), item.Code,
		item.Purchasable, item.CostPrice, nullUUID(item.CostAccountID), item.CostDescription,
		item.Sellable, item.SellPrice, nullUUID(item.SellAccountID), item.SellDescription,
		nullUUID(item.InventoryAccountID), nullUUID(item.CategoryID), item.Note,
		item.Active, item.OpeningQuantity, item.OpeningCost, nullTime(item.OpeningDate),
		item.CreatedAt, item.UpdatedAt,
	}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var (
		item                              models.Item
		name, typ                         string
		costAccount, sellAccount          uuid.NullUUID
		inventoryAccount, category        uuid.NullUUID
		costPrice, sellPrice, openingCost decimal.NullDecimal
		openingDate                       sql.NullTime
	)
	err := row.Scan(
		&item.ID, &item.TenantID, &name, &typ, &item.Code,
		&item.Purchasable, &costPrice, &costAccount, &item.CostDescription,
		&item.Sellable, &sellPrice, &sellAccount, &item.SellDescription,
		&inventoryAccount, &category, &item.Note, &item.Active,
		&item.OpeningQuantity, &openingCost, &openingDate,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan item: %w", err)
	}

	item.Name = models.ItemName(name)
	item.Type = models.ItemType(typ)
	item.CostAccountID = costAccount.UUID
	item.SellAccountID = sellAccount.UUID
	item.InventoryAccountID = inventoryAccount.UUID
	item.CategoryID = category.UUID
	item.CostPrice = costPrice.Decimal
	item.SellPrice = sellPrice.Decimal
	item.OpeningCost = openingCost.Decimal
	if openingDate.Valid {
		d := openingDate.Time
		item.OpeningDate = &d
	}
	return &item, nil
}

func nullUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
