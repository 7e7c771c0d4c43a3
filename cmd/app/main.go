package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"tripbuddy/cmd/fx/account_fx"
	"tripbuddy/cmd/fx/attractions_fx"
	"tripbuddy/cmd/fx/config_fx"
	"tripbuddy/cmd/fx/controllers_fx"
	"tripbuddy/cmd/fx/db_fx"
	"tripbuddy/cmd/fx/identity_fx"
	"tripbuddy/cmd/fx/itinerary_fx"
	"tripbuddy/cmd/fx/memcache_fx"
	"tripbuddy/cmd/fx/trips_fx"
	"tripbuddy/internal/api/controllers"
	"tripbuddy/internal/infra"
	"tripbuddy/pkg/middleware"
	"tripbuddy/pkg/utils"
)

// @title TripBuddy API
// @version 1.0
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		identity_fx.Module,
		account_fx.Module,
		trips_fx.Module,
		attractions_fx.Module,
		itinerary_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRateLimiter),
		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func ProvideRateLimiter(lc fx.Lifecycle, cfg *infra.Config) *middleware.RateLimiter {
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	stop := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go limiter.Run(time.Minute, stop)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(stop)
			return nil
		},
	})
	return limiter
}

func StartServer(lc fx.Lifecycle, cfg *infra.Config, engine *gin.Engine) {
	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.TraceIDHeader},
		ExposedHeaders:   []string{middleware.TraceIDHeader},
		AllowCredentials: true,
	}).Handler(engine)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				logrus.WithField("addr", srv.Addr).Info("Starting HTTP server")
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logrus.WithError(err).Fatal("HTTP server stopped unexpectedly")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logrus.Info("Stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

func ProvideRouter(
	cfg *infra.Config,
	log *logrus.Logger,
	verifier utils.IdentityVerifier,
	limiter *middleware.RateLimiter,
	tripController *controllers.TripController,
	attractionController *controllers.AttractionController,
	itineraryController *controllers.ItineraryController) *gin.Engine {

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(log))
	r.Use(limiter.Limit())
	r.Use(middleware.IdentityMiddleware(verifier, cfg.AuthRequired))

	RegisterRoutes(r, tripController, attractionController, itineraryController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	tripController *controllers.TripController,
	attractionController *controllers.AttractionController,
	itineraryController *controllers.ItineraryController) {

	api := r.Group("/api/v1")

	tripsGroup := api.Group("/trips")
	tripsGroup.GET("", tripController.GetAllTrips)
	tripsGroup.GET("/auth0id", tripController.GetTripsByAuth0Id)
	tripsGroup.GET("/:id", tripController.GetTripById)
	tripsGroup.GET("/:id/attractions", itineraryController.ListTripAttractions)
	tripsGroup.POST("", tripController.AddTrip)
	tripsGroup.PUT("/:id", tripController.UpdateTrip)
	tripsGroup.DELETE("/:id", tripController.DeleteTrip)

	api.GET("/users/:userId/trips", tripController.GetTripsByUserId)

	itineraryGroup := api.Group("/itineraries")
	itineraryGroup.GET("", itineraryController.GetItinerary)
	itineraryGroup.POST("/attractions", itineraryController.SaveAttraction)
	itineraryGroup.DELETE("/attractions/:associationId", itineraryController.RemoveAttraction)

	attractionsGroup := api.Group("/attractions")
	attractionsGroup.GET("/random-activities", attractionController.RandomAttractions)
	attractionsGroup.GET("/search", attractionController.SearchAttractions)
	attractionsGroup.GET("/:id", attractionController.GetAttraction)
	attractionsGroup.POST("", attractionController.CreateAttraction)
}
