package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ghuser/bookkeeper/pkg/auth"
	"github.com/ghuser/bookkeeper/pkg/errhttp"
	"github.com/ghuser/bookkeeper/pkg/httpx"
	appsvcs "github.com/ghuser/bookkeeper/services/items/application/services"
)

// BulkDeleteItemsHandler handles DELETE /items?ids=... requests.
type BulkDeleteItemsHandler struct {
	svc *appsvcs.Services
}

// NewBulkDeleteItemsHandler returns a BulkDeleteItemsHandler backed by the given services.
func NewBulkDeleteItemsHandler(svc *appsvcs.Services) *BulkDeleteItemsHandler {
	return &BulkDeleteItemsHandler{svc: svc}
}

// Execute deletes a batch of items atomically. One missing or referenced item
// blocks the whole batch.
//
//	@Summary		Bulk delete items
//	@Description	Deletes the given items in one transaction; all or nothing
//	@Tags			items
//	@Produce		json
//	@Param			ids	query	string	true	"Comma-separated item IDs"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ValidationFailures
//	@Failure		409	{object}	ValidationFailures
//	@Router			/items [delete]
func (h *BulkDeleteItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	tenantID, err := auth.TenantIDFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	ids, err := parseIDList(r.URL.Query().Get("ids"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.svc.Item.BulkDelete(r.Context(), tenantID, ids); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseIDList parses a non-empty comma-separated UUID list, deduplicating
// repeated ids.
func parseIDList(raw string) ([]uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errIDsRequired
	}

	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, errInvalidIDList
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

var (
	errIDsRequired   = errors.New("ids query parameter is required")
	errInvalidIDList = errors.New("ids must be a comma-separated list of UUIDs")
)
