package services

import (
	"github.com/ghuser/bookkeeper/pkg/app"
	"github.com/ghuser/bookkeeper/pkg/cache"
	domainsvcs "github.com/ghuser/bookkeeper/services/items/domain/services"
	"github.com/ghuser/bookkeeper/services/items/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Item *ItemService
}

// New wires all item application services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	repo := postgres.NewItemRepository(a.Db, a.EventBus)
	accounts := postgres.NewAccountRepository(a.Db)
	categories := postgres.NewCategoryRepository(a.Db)
	validator := domainsvcs.NewItemValidator(accounts, categories, repo)
	itemCache := cache.NewItemCache(a.Redis)
	return &Services{
		Item: NewItemService(repo, validator, itemCache),
	}
}
