package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"wanderplan/internal/models/request_models"
	"wanderplan/internal/services"
	"wanderplan/pkg/middleware"
	"wanderplan/pkg/utils"
)

type ItineraryController struct {
	itineraryService services.ItineraryServiceInterface
	quotaService     services.QuotaServiceInterface
}

func NewItineraryController(
	itineraryService services.ItineraryServiceInterface,
	quotaService services.QuotaServiceInterface,
) *ItineraryController {
	return &ItineraryController{
		itineraryService: itineraryService,
		quotaService:     quotaService,
	}
}

// GenerateItinerary godoc
// @Summary Generate a travel itinerary
// @Description Ask the language model for a day-by-day itinerary, normalize it and attach weather
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body request_models.ItineraryRequest true "Trip request"
// @Success 201 {object} response_models.ItineraryResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries [post]
func (i *ItineraryController) GenerateItinerary(c *gin.Context) {
	owner, ok := middleware.OwnerID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req request_models.ItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	itinerary, err := i.itineraryService.Generate(c.Request.Context(), owner, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, itinerary, "Itinerary generated successfully")
}

// RegenerateDay godoc
// @Summary Regenerate one day of an itinerary
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param day path int true "Day number (1-based)"
// @Param request body request_models.RegenerateDayRequest false "Instructions for the new day"
// @Success 200 {object} response_models.ItineraryResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id}/days/{day}/regenerate [post]
func (i *ItineraryController) RegenerateDay(c *gin.Context) {
	owner, ok := middleware.OwnerID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid itinerary ID")
		return
	}
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid day number")
		return
	}

	var req request_models.RegenerateDayRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
			return
		}
	}

	itinerary, err := i.itineraryService.RegenerateDay(c.Request.Context(), owner, id, day, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, itinerary, "Day regenerated successfully")
}

// GetItinerary godoc
// @Summary Get an itinerary by ID
// @Tags Itinerary
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} response_models.ItineraryResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id} [get]
func (i *ItineraryController) GetItinerary(c *gin.Context) {
	owner, ok := middleware.OwnerID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid itinerary ID")
		return
	}

	itinerary, err := i.itineraryService.GetByID(c.Request.Context(), owner, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, itinerary, "Itinerary fetched successfully")
}

// ListItineraries godoc
// @Summary List the caller's itineraries
// @Tags Itinerary
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} response_models.ItineraryListResponse
// @Security BearerAuth
// @Router /itineraries [get]
func (i *ItineraryController) ListItineraries(c *gin.Context) {
	owner, ok := middleware.OwnerID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page number")
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page size (must be 1-100)")
		return
	}

	list, err := i.itineraryService.List(c.Request.Context(), owner, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, list, "Itineraries fetched successfully")
}

// GetQuota godoc
// @Summary Remaining generations this month
// @Tags Itinerary
// @Produce json
// @Success 200 {object} map[string]int "remaining is -1 when unlimited"
// @Security BearerAuth
// @Router /me/quota [get]
func (i *ItineraryController) GetQuota(c *gin.Context) {
	owner, ok := middleware.OwnerID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	remaining, err := i.quotaService.Remaining(c.Request.Context(), owner)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"remaining": remaining}, "Quota fetched successfully")
}

func (i *ItineraryController) Health(c *gin.Context) {
	utils.RespondSuccess(c, gin.H{"status": "ok"}, "")
}
