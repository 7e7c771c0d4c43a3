package itinerary_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"tripbuddy/internal/repositories"
	"tripbuddy/internal/services"
)

var Module = fx.Provide(
	provideTripAttractionRepo, provideItineraryService)

func provideTripAttractionRepo(db *gorm.DB) repositories.TripAttractionRepository {
	return repositories.NewTripAttractionRepository(db)
}

func provideItineraryService(
	tripRepo repositories.TripRepository,
	linkRepo repositories.TripAttractionRepository,
	attractionRepo repositories.AttractionRepository,
) services.ItineraryServiceInterface {
	return services.NewItineraryService(tripRepo, linkRepo, attractionRepo)
}
