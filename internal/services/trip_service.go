package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	dbm "tripbuddy/internal/models/db_models"
	"tripbuddy/internal/models/request_models"
	"tripbuddy/internal/models/response_models"
	"tripbuddy/internal/repositories"
	"tripbuddy/pkg/utils"
)

type TripServiceInterface interface {
	GetAllTrips(ctx context.Context) ([]response_models.TripResponse, error)
	GetTripById(ctx context.Context, id uint) (*response_models.TripResponse, error)
	GetTripsByUserId(ctx context.Context, userID uint) ([]response_models.TripResponse, error)
	GetTripsByAuth0Id(ctx context.Context, auth0ID string) ([]response_models.TripResponse, error)
	AddTrip(ctx context.Context, auth0ID string, req request_models.CreateTripRequest) (*response_models.TripResponse, error)
	UpdateTrip(ctx context.Context, caller string, id uint, req request_models.UpdateTripRequest) (*response_models.TripResponse, error)
	DeleteTrip(ctx context.Context, caller string, id uint) error
}

type TripService struct {
	tripRepo repositories.TripRepository
}

func NewTripService(tripRepo repositories.TripRepository) TripServiceInterface {
	return &TripService{
		tripRepo: tripRepo,
	}
}

func (s *TripService) GetAllTrips(ctx context.Context) ([]response_models.TripResponse, error) {
	trips, err := s.tripRepo.GetAllTrips(ctx)
	if err != nil {
		logrus.WithError(err).Error("Error listing trips")
		return nil, utils.ErrDatabaseError
	}
	return toTripResponses(trips), nil
}

// GetTripById returns utils.ErrTripNotFound when no trip has that id.
func (s *TripService) GetTripById(ctx context.Context, id uint) (*response_models.TripResponse, error) {
	trip, err := s.tripRepo.GetTripById(ctx, id)
	if err != nil {
		logrus.WithError(err).WithField("trip_id", id).Error("Error fetching trip")
		return nil, utils.ErrDatabaseError
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}

	out := toTripResponse(*trip)
	return &out, nil
}

func (s *TripService) GetTripsByUserId(ctx context.Context, userID uint) ([]response_models.TripResponse, error) {
	trips, err := s.tripRepo.GetTripsByUserId(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Error listing trips for user")
		return nil, utils.ErrDatabaseError
	}
	return toTripResponses(trips), nil
}

func (s *TripService) GetTripsByAuth0Id(ctx context.Context, auth0ID string) ([]response_models.TripResponse, error) {
	if auth0ID == "" {
		return nil, utils.ErrUnauthenticated
	}

	trips, err := s.tripRepo.GetTripsByAuth0Id(ctx, auth0ID)
	if err != nil {
		logrus.WithError(err).WithField("auth0_id", auth0ID).Error("Error listing trips for identity")
		return nil, utils.ErrDatabaseError
	}
	return toTripResponses(trips), nil
}

func (s *TripService) AddTrip(ctx context.Context, auth0ID string, req request_models.CreateTripRequest) (*response_models.TripResponse, error) {
	name := strings.TrimSpace(req.TripName)
	if name == "" {
		return nil, fmt.Errorf("%w: trip_name is required", utils.ErrInvalidInput)
	}
	if auth0ID == "" {
		return nil, fmt.Errorf("%w: auth0Id is required", utils.ErrInvalidInput)
	}

	trip, err := s.tripRepo.AddTrip(ctx, &dbm.Trip{TripName: name, Auth0ID: auth0ID})
	if err != nil {
		logrus.WithError(err).Error("Error creating trip")
		return nil, utils.ErrDatabaseError
	}

	out := toTripResponse(*trip)
	return &out, nil
}

// UpdateTrip changes only the fields present in req. When caller is set, the
// trip must belong to it; the check runs in the same transaction as the write.
func (s *TripService) UpdateTrip(
	ctx context.Context,
	caller string,
	id uint,
	req request_models.UpdateTripRequest,
) (*response_models.TripResponse, error) {

	updates := map[string]interface{}{}
	if req.TripName != nil {
		name := strings.TrimSpace(*req.TripName)
		if name == "" {
			return nil, fmt.Errorf("%w: trip_name cannot be empty", utils.ErrInvalidInput)
		}
		updates["trip_name"] = name
	}
	if req.Auth0ID != nil {
		if *req.Auth0ID == "" {
			return nil, fmt.Errorf("%w: auth0Id cannot be empty", utils.ErrInvalidInput)
		}
		updates["auth0_id"] = *req.Auth0ID
	}

	trip, err := s.tripRepo.UpdateTripById(ctx, id, caller, updates)
	if err != nil {
		if errors.Is(err, repositories.ErrTripNotOwned) {
			return nil, utils.ErrForbidden
		}
		logrus.WithError(err).WithField("trip_id", id).Error("Error updating trip")
		return nil, utils.ErrDatabaseError
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}

	out := toTripResponse(*trip)
	return &out, nil
}

func (s *TripService) DeleteTrip(ctx context.Context, caller string, id uint) error {
	affected, err := s.tripRepo.DeleteTripById(ctx, id, caller)
	if err != nil {
		if errors.Is(err, repositories.ErrTripNotOwned) {
			return utils.ErrForbidden
		}
		logrus.WithError(err).WithField("trip_id", id).Error("Error deleting trip")
		return utils.ErrDatabaseError
	}
	if affected == 0 {
		return utils.ErrTripNotFound
	}
	return nil
}

func toTripResponse(trip dbm.Trip) response_models.TripResponse {
	return response_models.TripResponse{
		ID:       trip.ID,
		TripName: trip.TripName,
		Auth0ID:  trip.Auth0ID,
	}
}

func toTripResponses(trips []dbm.Trip) []response_models.TripResponse {
	out := make([]response_models.TripResponse, 0, len(trips))
	for _, trip := range trips {
		out = append(out, toTripResponse(trip))
	}
	return out
}
