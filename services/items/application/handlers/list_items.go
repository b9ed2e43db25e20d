package handlers

import (
	"net/http"
	"strconv"

	"github.com/ghuser/bookkeeper/pkg/auth"
	"github.com/ghuser/bookkeeper/pkg/errhttp"
	"github.com/ghuser/bookkeeper/pkg/httpx"
	appsvcs "github.com/ghuser/bookkeeper/services/items/application/services"
	"github.com/ghuser/bookkeeper/services/items/domain/repositories"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

// ListItemsResponse is the paginated list envelope.
type ListItemsResponse struct {
	Items []ItemResponse `json:"items"`
	Total int            `json:"total" example:"42"`
	Page  int            `json:"page" example:"1"`
	Limit int            `json:"limit" example:"12"`
} // @name ListItemsResponse

// ListItemsHandler handles GET /items requests.
type ListItemsHandler struct {
	svc *appsvcs.Services
}

// NewListItemsHandler returns a ListItemsHandler backed by the given services.
func NewListItemsHandler(svc *appsvcs.Services) *ListItemsHandler {
	return &ListItemsHandler{svc: svc}
}

// Execute lists the tenant's items with pagination.
//
//	@Summary		List items
//	@Description	Returns a page of items plus the total count
//	@Tags			items
//	@Produce		json
//	@Param			page	query		int	false	"Page number (1-based)"	default(1)
//	@Param			limit	query		int	false	"Page size"				default(12)
//	@Success		200		{object}	ListItemsResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/items [get]
func (h *ListItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	tenantID, err := auth.TenantIDFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(r, "limit", defaultPageSize)
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	items, total, err := h.svc.Item.List(r.Context(), tenantID, repositories.QueryOpts{
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	resp := ListItemsResponse{
		Items: make([]ItemResponse, 0, len(items)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, newItemResponse(item))
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// queryInt parses an integer query parameter, returning def on absence or
// parse failure.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
