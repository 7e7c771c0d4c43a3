package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	dbm "tripbuddy/internal/models/db_models"
	"tripbuddy/internal/models/request_models"
	"tripbuddy/internal/models/response_models"
	"tripbuddy/internal/repositories"
	"tripbuddy/pkg/utils"
)

// ItineraryServiceInterface manages which attractions are saved under which
// trip.
type ItineraryServiceInterface interface {
	GetItinerary(ctx context.Context, auth0ID string) (*response_models.ItineraryResponse, error)
	ListTripAttractions(ctx context.Context, tripID uint) ([]response_models.TripAttraction, error)
	SaveAttraction(ctx context.Context, auth0ID string, req request_models.SaveAttractionRequest) (*response_models.SaveAttractionResponse, error)
	RemoveAttraction(ctx context.Context, auth0ID string, associationID uint) error
}

type ItineraryService struct {
	tripRepo       repositories.TripRepository
	linkRepo       repositories.TripAttractionRepository
	attractionRepo repositories.AttractionRepository
}

func NewItineraryService(
	tripRepo repositories.TripRepository,
	linkRepo repositories.TripAttractionRepository,
	attractionRepo repositories.AttractionRepository,
) ItineraryServiceInterface {
	return &ItineraryService{
		tripRepo:       tripRepo,
		linkRepo:       linkRepo,
		attractionRepo: attractionRepo,
	}
}

func (s *ItineraryService) GetItinerary(ctx context.Context, auth0ID string) (*response_models.ItineraryResponse, error) {
	if auth0ID == "" {
		return nil, utils.ErrUnauthenticated
	}

	trips, err := s.tripRepo.GetTripsByAuth0Id(ctx, auth0ID)
	if err != nil {
		logrus.WithError(err).WithField("auth0_id", auth0ID).Error("Error listing trips for itinerary")
		return nil, utils.ErrDatabaseError
	}

	ids := make([]uint, 0, len(trips))
	for _, t := range trips {
		ids = append(ids, t.ID)
	}

	links, err := s.linkRepo.ListByTripIds(ctx, ids)
	if err != nil {
		logrus.WithError(err).WithField("auth0_id", auth0ID).Error("Error listing trip attractions")
		return nil, utils.ErrDatabaseError
	}

	byTrip := make(map[uint][]response_models.TripAttraction, len(trips))
	for _, link := range links {
		byTrip[link.TripID] = append(byTrip[link.TripID], toTripAttraction(link))
	}

	out := &response_models.ItineraryResponse{
		ListOfTrips: toTripResponses(trips),
		Trips:       make([]response_models.TripWithAttractions, 0, len(trips)),
	}
	for _, t := range trips {
		attractions := byTrip[t.ID]
		if attractions == nil {
			attractions = []response_models.TripAttraction{}
		}
		out.Trips = append(out.Trips, response_models.TripWithAttractions{
			Trip:        toTripResponse(t),
			Attractions: attractions,
		})
	}
	return out, nil
}

func (s *ItineraryService) ListTripAttractions(ctx context.Context, tripID uint) ([]response_models.TripAttraction, error) {
	trip, err := s.tripRepo.GetTripById(ctx, tripID)
	if err != nil {
		logrus.WithError(err).WithField("trip_id", tripID).Error("Error fetching trip")
		return nil, utils.ErrDatabaseError
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}

	links, err := s.linkRepo.ListByTrip(ctx, tripID)
	if err != nil {
		logrus.WithError(err).WithField("trip_id", tripID).Error("Error listing trip attractions")
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.TripAttraction, 0, len(links))
	for _, link := range links {
		out = append(out, toTripAttraction(link))
	}
	return out, nil
}

// SaveAttraction saves an attraction under an existing trip of the caller,
// or under a brand-new trip. The new-trip path is a single transaction, so a
// failure never leaves an empty trip behind.
func (s *ItineraryService) SaveAttraction(
	ctx context.Context,
	auth0ID string,
	req request_models.SaveAttractionRequest,
) (*response_models.SaveAttractionResponse, error) {

	if auth0ID == "" {
		return nil, utils.ErrUnauthenticated
	}
	if req.AttractionID == 0 {
		return nil, fmt.Errorf("%w: attraction_id is required", utils.ErrInvalidInput)
	}

	attraction, err := s.attractionRepo.GetById(ctx, req.AttractionID)
	if err != nil {
		logrus.WithError(err).WithField("attraction_id", req.AttractionID).Error("Error fetching attraction")
		return nil, utils.ErrDatabaseError
	}
	if attraction == nil {
		return nil, utils.ErrAttractionNotFound
	}

	switch req.Trip.Kind {
	case request_models.TripSelectionNew:
		return s.saveToNewTrip(ctx, auth0ID, req)
	case request_models.TripSelectionExisting:
		return s.saveToExistingTrip(ctx, auth0ID, req)
	default:
		return nil, fmt.Errorf("%w: trip.kind must be %q or %q", utils.ErrInvalidInput,
			request_models.TripSelectionExisting, request_models.TripSelectionNew)
	}
}

func (s *ItineraryService) saveToNewTrip(
	ctx context.Context,
	auth0ID string,
	req request_models.SaveAttractionRequest,
) (*response_models.SaveAttractionResponse, error) {

	name := strings.TrimSpace(req.Trip.TripName)
	if name == "" {
		return nil, fmt.Errorf("%w: trip.trip_name is required for a new trip", utils.ErrInvalidInput)
	}

	trip, link, err := s.tripRepo.CreateTripWithAttraction(ctx, &dbm.Trip{TripName: name, Auth0ID: auth0ID}, req.AttractionID)
	if err != nil {
		logrus.WithError(err).WithField("attraction_id", req.AttractionID).Error("Error creating trip with attraction")
		return nil, utils.ErrDatabaseError
	}

	return &response_models.SaveAttractionResponse{
		Trip:        toTripResponse(*trip),
		Association: toTripAttraction(*link),
	}, nil
}

func (s *ItineraryService) saveToExistingTrip(
	ctx context.Context,
	auth0ID string,
	req request_models.SaveAttractionRequest,
) (*response_models.SaveAttractionResponse, error) {

	if req.Trip.TripID == 0 {
		return nil, fmt.Errorf("%w: trip.trip_id is required for an existing trip", utils.ErrInvalidInput)
	}

	trip, err := s.ownedTrip(ctx, auth0ID, req.Trip.TripID)
	if err != nil {
		return nil, err
	}

	exists, err := s.linkRepo.Exists(ctx, trip.ID, req.AttractionID)
	if err != nil {
		logrus.WithError(err).WithField("trip_id", trip.ID).Error("Error checking trip attraction")
		return nil, utils.ErrDatabaseError
	}
	if exists {
		return nil, utils.ErrAlreadyInTrip
	}

	link, err := s.linkRepo.Attach(ctx, trip.ID, req.AttractionID)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrAlreadyInTrip
		}
		logrus.WithError(err).WithField("trip_id", trip.ID).Error("Error attaching attraction")
		return nil, utils.ErrDatabaseError
	}

	return &response_models.SaveAttractionResponse{
		Trip:        toTripResponse(*trip),
		Association: toTripAttraction(*link),
	}, nil
}

// RemoveAttraction deletes one association. The attraction record stays.
func (s *ItineraryService) RemoveAttraction(ctx context.Context, auth0ID string, associationID uint) error {
	if auth0ID == "" {
		return utils.ErrUnauthenticated
	}

	link, err := s.linkRepo.GetById(ctx, associationID)
	if err != nil {
		logrus.WithError(err).WithField("association_id", associationID).Error("Error fetching trip attraction")
		return utils.ErrDatabaseError
	}
	if link == nil {
		return utils.ErrAssociationNotFound
	}

	if _, err := s.ownedTrip(ctx, auth0ID, link.TripID); err != nil {
		return err
	}

	affected, err := s.linkRepo.Detach(ctx, associationID)
	if err != nil {
		logrus.WithError(err).WithField("association_id", associationID).Error("Error removing trip attraction")
		return utils.ErrDatabaseError
	}
	if affected == 0 {
		return utils.ErrAssociationNotFound
	}
	return nil
}

func (s *ItineraryService) ownedTrip(ctx context.Context, auth0ID string, tripID uint) (*dbm.Trip, error) {
	trip, err := s.tripRepo.GetTripById(ctx, tripID)
	if err != nil {
		logrus.WithError(err).WithField("trip_id", tripID).Error("Error fetching trip")
		return nil, utils.ErrDatabaseError
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}
	if trip.Auth0ID != auth0ID {
		return nil, utils.ErrForbidden
	}
	return trip, nil
}

func toTripAttraction(link dbm.TripAttraction) response_models.TripAttraction {
	return response_models.TripAttraction{
		FormattedAttraction: toFormattedAttraction(link.Attraction),
		TripID:              link.TripID,
		AssociationID:       link.ID,
	}
}
