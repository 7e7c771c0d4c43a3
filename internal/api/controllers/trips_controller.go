package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"tripbuddy/internal/models/request_models"
	"tripbuddy/internal/models/response_models"
	"tripbuddy/internal/services"
	"tripbuddy/pkg/middleware"
	"tripbuddy/pkg/utils"
)

type TripController struct {
	tripService services.TripServiceInterface
}

func NewTripController(tripService services.TripServiceInterface) *TripController {
	return &TripController{
		tripService: tripService,
	}
}

// GetAllTrips godoc
// @Summary List all trips
// @Tags Trips
// @Produce json
// @Success 200 {array} response_models.TripResponse
// @Failure 500 {object} utils.APIError
// @Router /trips [get]
func (t *TripController) GetAllTrips(c *gin.Context) {
	trips, err := t.tripService.GetAllTrips(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch trips")
		return
	}

	utils.RespondJSON(c, http.StatusOK, trips)
}

// GetTripsByAuth0Id godoc
// @Summary List the caller's trips
// @Description Trips owned by the verified identity. Without an identity verifier the auth0Id query parameter is used.
// @Tags Trips
// @Produce json
// @Param auth0Id query string false "Owner identity (only when authentication is disabled)"
// @Success 200 {array} response_models.TripResponse
// @Failure 400 {object} utils.APIError
// @Failure 500 {object} utils.APIError
// @Router /trips/auth0id [get]
func (t *TripController) GetTripsByAuth0Id(c *gin.Context) {
	auth0ID := middleware.Auth0ID(c, c.Query("auth0Id"))
	if auth0ID == "" {
		utils.RespondError(c, http.StatusBadRequest, "auth0Id is required")
		return
	}

	trips, err := t.tripService.GetTripsByAuth0Id(c.Request.Context(), auth0ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch trips")
		return
	}

	utils.RespondJSON(c, http.StatusOK, trips)
}

// GetTripsByUserId godoc
// @Summary List the trips an account is a member of
// @Tags Trips
// @Produce json
// @Param userId path int true "Account ID"
// @Success 200 {array} response_models.TripResponse
// @Failure 400 {object} utils.APIError
// @Failure 500 {object} utils.APIError
// @Router /users/{userId}/trips [get]
func (t *TripController) GetTripsByUserId(c *gin.Context) {
	userID, ok := uintParam(c, "userId")
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	trips, err := t.tripService.GetTripsByUserId(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch trips")
		return
	}

	utils.RespondJSON(c, http.StatusOK, trips)
}

// GetTripById godoc
// @Summary Get a trip
// @Description Returns the trip, or a null body with status 200 when no trip has this id.
// @Tags Trips
// @Produce json
// @Param id path int true "Trip ID"
// @Success 200 {object} response_models.TripResponse
// @Failure 400 {object} utils.APIError
// @Failure 500 {object} utils.APIError
// @Router /trips/{id} [get]
func (t *TripController) GetTripById(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid trip id")
		return
	}
	// ids are positive, so anything else simply has no row
	if id <= 0 {
		utils.RespondJSON(c, http.StatusOK, nil)
		return
	}

	trip, err := t.tripService.GetTripById(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, utils.ErrTripNotFound) {
			utils.RespondJSON(c, http.StatusOK, nil)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch trip")
		return
	}

	utils.RespondJSON(c, http.StatusOK, trip)
}

// AddTrip godoc
// @Summary Create a trip
// @Tags Trips
// @Accept json
// @Produce json
// @Param request body request_models.CreateTripRequest true "Trip name and owner"
// @Success 201 {object} response_models.TripResponse
// @Failure 400 {object} utils.APIError
// @Failure 500 {object} utils.APIError
// @Router /trips [post]
func (t *TripController) AddTrip(c *gin.Context) {
	var req request_models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid trip payload")
		return
	}

	auth0ID := middleware.Auth0ID(c, req.Auth0ID)
	if auth0ID == "" {
		utils.RespondError(c, http.StatusBadRequest, "auth0Id is required")
		return
	}

	trip, err := t.tripService.AddTrip(c.Request.Context(), auth0ID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, trip)
}

// UpdateTrip godoc
// @Summary Update a trip
// @Description Partial update; fields missing from the body keep their value.
// @Tags Trips
// @Accept json
// @Produce json
// @Param id path int true "Trip ID"
// @Param request body request_models.UpdateTripRequest true "Fields to change"
// @Success 200 {object} response_models.MessageResponse
// @Failure 400 {object} utils.APIError
// @Failure 401 {object} utils.APIError
// @Failure 403 {object} utils.APIError
// @Failure 404 {object} utils.APIError
// @Failure 500 {object} utils.APIError
// @Security BearerAuth
// @Router /trips/{id} [put]
func (t *TripController) UpdateTrip(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, "Invalid trip id")
		return
	}

	var req request_models.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid trip update")
		return
	}

	caller, ok := tripCaller(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrUnauthenticated)
		return
	}

	if _, err := t.tripService.UpdateTrip(c.Request.Context(), caller, id, req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, response_models.MessageResponse{Message: "Trip updated successfully"})
}

// DeleteTrip godoc
// @Summary Delete a trip
// @Description Removes the trip and its saved attractions; the attractions themselves are kept.
// @Tags Trips
// @Produce json
// @Param id path int true "Trip ID"
// @Success 200 {object} response_models.MessageResponse
// @Failure 400 {object} utils.APIError
// @Failure 401 {object} utils.APIError
// @Failure 403 {object} utils.APIError
// @Failure 404 {object} utils.APIError
// @Failure 500 {object} utils.APIError
// @Security BearerAuth
// @Router /trips/{id} [delete]
func (t *TripController) DeleteTrip(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, "Invalid trip id")
		return
	}

	caller, ok := tripCaller(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrUnauthenticated)
		return
	}

	if err := t.tripService.DeleteTrip(c.Request.Context(), caller, id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, response_models.MessageResponse{Message: "Trip deleted successfully"})
}

// tripCaller returns the identity that owner-checked writes run as. An empty
// caller is only allowed when no verifier is configured; ok is false for an
// anonymous request once tokens are being verified.
func tripCaller(c *gin.Context) (caller string, ok bool) {
	caller = middleware.Auth0ID(c, "")
	if caller == "" && middleware.VerificationEnabled(c) {
		return "", false
	}
	return caller, true
}
