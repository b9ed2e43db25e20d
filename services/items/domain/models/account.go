package models

import "github.com/google/uuid"

// Classification is the accounting category of an account. The validator uses
// it to check that a referenced account is being used for its intended purpose.
type Classification string

const (
	ClassificationCOGS         Classification = "cogs"
	ClassificationIncome       Classification = "income"
	ClassificationCurrentAsset Classification = "current-asset"
	ClassificationOther        Classification = "other"
)

// Account is the read-only view of a ledger account exposed by the account
// directory. This context never mutates accounts.
type Account struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	Name           string
	Classification Classification
}

// Category is the read-only view of an item category.
type Category struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	Name     string
}
