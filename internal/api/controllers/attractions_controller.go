package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"tripbuddy/internal/models/request_models"
	"tripbuddy/internal/services"
	"tripbuddy/pkg/utils"
)

type AttractionController struct {
	attractionService services.AttractionServiceInterface
}

func NewAttractionController(attractionService services.AttractionServiceInterface) *AttractionController {
	return &AttractionController{
		attractionService: attractionService,
	}
}

// RandomAttractions godoc
// @Summary Random attractions for the discovery feed
// @Tags Attractions
// @Produce json
// @Param count query int false "How many to return (1-50, default 12)"
// @Success 200 {array} response_models.FormattedAttraction
// @Failure 400 {object} utils.APIError
// @Failure 500 {object} utils.APIError
// @Router /attractions/random-activities [get]
func (a *AttractionController) RandomAttractions(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", strconv.Itoa(services.DefaultRandomCount)))
	if err != nil || count < 1 || count > services.MaxRandomCount {
		utils.RespondError(c, http.StatusBadRequest, "Invalid count (must be 1-50)")
		return
	}

	attractions, err := a.attractionService.RandomAttractions(c.Request.Context(), count)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, attractions)
}

// SearchAttractions godoc
// @Summary Search attractions by name and rating
// @Tags Attractions
// @Produce json
// @Param q query string false "Name fragment"
// @Param minRating query number false "Minimum user rating (0-5)"
// @Param page query int false "Page number, starting at 1"
// @Param pageSize query int false "Results per page (1-100)"
// @Success 200 {array} response_models.FormattedAttraction
// @Failure 400 {object} utils.APIError
// @Failure 500 {object} utils.APIError
// @Router /attractions/search [get]
func (a *AttractionController) SearchAttractions(c *gin.Context) {
	var query request_models.SearchAttractionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid search parameters")
		return
	}

	attractions, err := a.attractionService.SearchAttractions(c.Request.Context(), query)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, attractions)
}

// GetAttraction godoc
// @Summary Get an attraction
// @Tags Attractions
// @Produce json
// @Param id path int true "Attraction ID"
// @Success 200 {object} response_models.FormattedAttraction
// @Failure 400 {object} utils.APIError
// @Failure 404 {object} utils.APIError
// @Failure 500 {object} utils.APIError
// @Router /attractions/{id} [get]
func (a *AttractionController) GetAttraction(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, "Invalid attraction id")
		return
	}

	attraction, err := a.attractionService.GetAttraction(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, attraction)
}

// CreateAttraction godoc
// @Summary Add an attraction to the catalogue
// @Tags Attractions
// @Accept json
// @Produce json
// @Param request body request_models.CreateAttractionRequest true "Attraction details"
// @Success 201 {object} response_models.FormattedAttraction
// @Failure 400 {object} utils.APIError
// @Failure 500 {object} utils.APIError
// @Router /attractions [post]
func (a *AttractionController) CreateAttraction(c *gin.Context) {
	var req request_models.CreateAttractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid attraction payload")
		return
	}

	attraction, err := a.attractionService.CreateAttraction(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, attraction)
}
