package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/bookkeeper/pkg/app"
	"github.com/ghuser/bookkeeper/services/items/application/handlers"
	appsvcs "github.com/ghuser/bookkeeper/services/items/application/services"
)

// ItemRoutes registers item endpoints on the provided chi router.
func ItemRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	r.Group(func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Post("/", handlers.NewPostItemHandler(svcs).Execute)
			r.Get("/", handlers.NewListItemsHandler(svcs).Execute)
			r.Delete("/", handlers.NewBulkDeleteItemsHandler(svcs).Execute)

			r.Get("/{id}", handlers.NewGetItemHandler(svcs).Execute)
			r.Post("/{id}", handlers.NewEditItemHandler(svcs).Execute)
			r.Delete("/{id}", handlers.NewDeleteItemHandler(svcs).Execute)
			r.Post("/{id}/activate", handlers.NewActivateItemHandler(svcs).Execute)
			r.Post("/{id}/inactivate", handlers.NewInactivateItemHandler(svcs).Execute)
		})
	})
}
