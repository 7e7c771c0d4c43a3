package controllers_fx

import (
	"go.uber.org/fx"
	"tripbuddy/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewTripController),
	fx.Provide(controllers.NewAttractionController),
	fx.Provide(controllers.NewItineraryController))
