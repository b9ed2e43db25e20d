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

// AccountRepository is the read-only account directory backed by PostgreSQL.
// The chart of accounts is owned by another bounded context; this context
// only ever reads it for reference validation.
type AccountRepository struct {
	db *database.Database
}

// NewAccountRepository returns an AccountRepository backed by the given pool.
func NewAccountRepository(db *database.Database) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindAccountByID returns (nil, nil) when no account matches.
func (r *AccountRepository) FindAccountByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Account, error) {
	var (
		account        models.Account
		classification string
	)
	err := r.db.DB().QueryRowContext(ctx, `
		SELECT id, tenant_id, name, classification FROM accounts
		WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	).Scan(&account.ID, &account.TenantID, &account.Name, &classification)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query account: %w", err)
	}
	account.Classification = models.Classification(classification)
	return &account, nil
}
