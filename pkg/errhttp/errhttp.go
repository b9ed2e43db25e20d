// Package errhttp maps domain errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/bookkeeper/pkg/httpx"
	itemdomain "github.com/ghuser/bookkeeper/services/items/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
//
// A *itemdomain.ValidationError renders as {"errors": [...]} listing every
// collected failure. The status is 422 unless all failures share a kind with
// a more specific code: ITEM_NOT_FOUND → 404, ITEM_NAME_EXISTS → 409,
// ITEM_HAS_ASSOCIATED_TRANSACTIONS / ITEMS_HAVE_ASSOCIATED_TRANSACTIONS → 409.
//
// Sentinel errors are matched with errors.Is() so wrapping is transparent.
// Anything unrecognized is an infrastructure fault and maps to 500.
func WriteError(w http.ResponseWriter, err error) {
	var verr *itemdomain.ValidationError
	if errors.As(err, &verr) {
		httpx.JSON(w, validationStatus(verr), map[string]any{"errors": verr.Failures})
		return
	}
	httpx.JSONError(w, mapErrorToStatus(err), err.Error())
}

func validationStatus(verr *itemdomain.ValidationError) int {
	switch {
	case verr.Only(itemdomain.ItemNotFound):
		return http.StatusNotFound // 404
	case verr.Only(itemdomain.ItemNameExists):
		return http.StatusConflict // 409
	case verr.Only(itemdomain.ItemHasAssociatedTransactions),
		verr.Only(itemdomain.ItemsHaveAssociatedTransactions):
		return http.StatusConflict // 409
	default:
		return http.StatusUnprocessableEntity // 422
	}
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, itemdomain.ErrItemNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, itemdomain.ErrItemNameTaken):
		return http.StatusConflict // 409
	case errors.Is(err, itemdomain.ErrInvalidItemName):
		return http.StatusUnprocessableEntity // 422
	default:
		return http.StatusInternalServerError // 500
	}
}
