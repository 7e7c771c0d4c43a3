package attractions_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"tripbuddy/internal/infra"
	"tripbuddy/internal/repositories"
	"tripbuddy/internal/services"
	mem "tripbuddy/pkg/memcache"
)

var Module = fx.Provide(
	provideAttractionRepo, provideAttractionService)

func provideAttractionRepo(db *gorm.DB) repositories.AttractionRepository {
	return repositories.NewAttractionRepository(db)
}

func provideAttractionService(
	attractionRepo repositories.AttractionRepository,
	cache mem.Store,
	cfg *infra.Config,
) services.AttractionServiceInterface {
	return services.NewAttractionService(attractionRepo, cache, cfg.CacheTTL)
}
