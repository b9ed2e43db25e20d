package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/bookkeeper/pkg/database"
	"github.com/ghuser/bookkeeper/services/items/domain/models"
)

// CategoryRepository is the read-only item category directory backed by PostgreSQL.
type CategoryRepository struct {
	db *database.Database
}

// NewCategoryRepository returns a CategoryRepository backed by the given pool.
func NewCategoryRepository(db *database.Database) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// FindCategoryByID returns (nil, nil) when no category matches.
func (r *CategoryRepository) FindCategoryByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.DB().QueryRowContext(ctx, `
		SELECT id, tenant_id, name FROM item_categories
		WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	).Scan(&category.ID, &category.TenantID, &category.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query category: %w", err)
	}
	return &category, nil
}
