package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/bookkeeper/pkg/auth"
	"github.com/ghuser/bookkeeper/pkg/errhttp"
	"github.com/ghuser/bookkeeper/pkg/httpx"
	appsvcs "github.com/ghuser/bookkeeper/services/items/application/services"
)

// ItemStateHandler handles POST /items/{id}/activate and
// POST /items/{id}/inactivate. Both endpoints share the implementation; only
// the target state differs.
type ItemStateHandler struct {
	svc    *appsvcs.Services
	active bool
}

// NewActivateItemHandler returns the handler for POST /items/{id}/activate.
func NewActivateItemHandler(svc *appsvcs.Services) *ItemStateHandler {
	return &ItemStateHandler{svc: svc, active: true}
}

// NewInactivateItemHandler returns the handler for POST /items/{id}/inactivate.
// Inactivating an item releases its name for reuse by new active items.
func NewInactivateItemHandler(svc *appsvcs.Services) *ItemStateHandler {
	return &ItemStateHandler{svc: svc, active: false}
}

// Execute toggles the item's active state.
//
//	@Summary		Activate or inactivate item
//	@Description	Sets the item's active flag
//	@Tags			items
//	@Produce		json
//	@Param			id	path	string	true	"Item ID"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/items/{id}/activate [post]
func (h *ItemStateHandler) Execute(w http.ResponseWriter, r *http.Request) {
	tenantID, err := auth.TenantIDFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid item id"})
		return
	}

	if err := h.svc.Item.SetActive(r.Context(), tenantID, itemID, h.active); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
