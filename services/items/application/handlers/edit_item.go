package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/bookkeeper/pkg/auth"
	"github.com/ghuser/bookkeeper/pkg/errhttp"
	"github.com/ghuser/bookkeeper/pkg/httpx"
	pkgvalidator "github.com/ghuser/bookkeeper/pkg/validator"
	appsvcs "github.com/ghuser/bookkeeper/services/items/application/services"
)

// EditItemHandler handles POST /items/{id} requests.
type EditItemHandler struct {
	svc *appsvcs.Services
}

// NewEditItemHandler returns an EditItemHandler backed by the given services.
func NewEditItemHandler(svc *appsvcs.Services) *EditItemHandler {
	return &EditItemHandler{svc: svc}
}

// Execute edits an existing item. Opening balances are immutable and any
// opening fields in the body are ignored.
//
//	@Summary		Edit item
//	@Description	Re-validates and updates an existing item
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Item ID"
//	@Param			request	body		ItemRequest	true	"Item edit request"
//	@Success		200		{object}	ItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ValidationFailures
//	@Failure		409		{object}	ValidationFailures
//	@Failure		422		{object}	ValidationFailures
//	@Router			/items/{id} [post]
func (h *EditItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
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

	req, ok := pkgvalidator.ValidateRequest[ItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Item.Edit(r.Context(), tenantID, itemID, req.toCandidate())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, newItemResponse(item))
}
