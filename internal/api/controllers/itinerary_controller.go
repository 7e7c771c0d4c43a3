package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"tripbuddy/internal/models/request_models"
	"tripbuddy/internal/models/response_models"
	"tripbuddy/internal/services"
	"tripbuddy/pkg/middleware"
	"tripbuddy/pkg/utils"
)

type ItineraryController struct {
	itineraryService services.ItineraryServiceInterface
}

func NewItineraryController(itineraryService services.ItineraryServiceInterface) *ItineraryController {
	return &ItineraryController{
		itineraryService: itineraryService,
	}
}

// GetItinerary godoc
// @Summary The caller's trips with their saved attractions
// @Tags Itinerary
// @Produce json
// @Param auth0Id query string false "Owner identity (only when authentication is disabled)"
// @Success 200 {object} response_models.ItineraryResponse
// @Failure 401 {object} utils.APIError
// @Security BearerAuth
// @Router /itineraries [get]
func (i *ItineraryController) GetItinerary(c *gin.Context) {
	out, err := i.itineraryService.GetItinerary(c.Request.Context(), middleware.Auth0ID(c, c.Query("auth0Id")))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, out)
}

// ListTripAttractions godoc
// @Summary Attractions saved under a trip
// @Tags Itinerary
// @Produce json
// @Param id path int true "Trip ID"
// @Success 200 {array} response_models.TripAttraction
// @Failure 404 {object} utils.APIError
// @Router /trips/{id}/attractions [get]
func (i *ItineraryController) ListTripAttractions(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, "Invalid trip id")
		return
	}

	out, err := i.itineraryService.ListTripAttractions(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, out)
}

// SaveAttraction godoc
// @Summary Save an attraction under a trip
// @Description trip.kind "existing" needs trip.trip_id; trip.kind "new" needs trip.trip_name and creates the trip in the same transaction.
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body request_models.SaveAttractionRequest true "Attraction and trip selection"
// @Success 201 {object} response_models.SaveAttractionResponse
// @Failure 400 {object} utils.APIError
// @Failure 403 {object} utils.APIError
// @Failure 404 {object} utils.APIError
// @Failure 409 {object} utils.APIError
// @Security BearerAuth
// @Example {json} Request Body Example:
//
//	{
//	  "attraction_id": 7,
//	  "trip": {"kind": "new", "trip_name": "Road Trip"}
//	}
//
// @Router /itineraries/attractions [post]
func (i *ItineraryController) SaveAttraction(c *gin.Context) {
	var req request_models.SaveAttractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "attraction_id and trip.kind are required")
		return
	}

	out, err := i.itineraryService.SaveAttraction(c.Request.Context(), middleware.Auth0ID(c, c.Query("auth0Id")), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, out)
}

// RemoveAttraction godoc
// @Summary Remove a saved attraction from its trip
// @Description Deletes the association only; the attraction is kept.
// @Tags Itinerary
// @Produce json
// @Param associationId path int true "Association ID"
// @Success 200 {object} response_models.MessageResponse
// @Failure 403 {object} utils.APIError
// @Failure 404 {object} utils.APIError
// @Security BearerAuth
// @Router /itineraries/attractions/{associationId} [delete]
func (i *ItineraryController) RemoveAttraction(c *gin.Context) {
	id, ok := uintParam(c, "associationId")
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, "Invalid association id")
		return
	}

	if err := i.itineraryService.RemoveAttraction(c.Request.Context(), middleware.Auth0ID(c, c.Query("auth0Id")), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, response_models.MessageResponse{Message: "Attraction removed from trip"})
}
