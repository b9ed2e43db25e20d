package domain

import "errors"

// Sentinel errors for the items domain. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrItemNameTaken is returned by the persistence layer when the
	// tenant-scoped unique name constraint rejects a write. Callers treat it
	// as equivalent to the ItemNameExists validation failure - the store is
	// the authoritative tie-breaker under concurrent creation.
	ErrItemNameTaken = errors.New("item name already taken")

	// ErrInvalidItemName indicates the item name violates domain constraints.
	ErrInvalidItemName = errors.New("invalid item name")
)
