package api

import (
	"github.com/gin-gonic/gin"
	"wanderplan/internal/api/controllers"
	"wanderplan/pkg/middleware"
	"wanderplan/pkg/utils"
)

func NewRouter(
	allowedOrigins []string,
	issuer *utils.TokenIssuer,
	itineraryController *controllers.ItineraryController,
	planController *controllers.PlanController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware(allowedOrigins))

	RegisterRoutes(r, issuer, itineraryController, planController)
	return r
}

func RegisterRoutes(
	r *gin.Engine,
	issuer *utils.TokenIssuer,
	itineraryController *controllers.ItineraryController,
	planController *controllers.PlanController) {

	r.GET("/health", itineraryController.Health)

	plans := r.Group("/plans")
	plans.GET("", planController.ListPlans)
	plans.GET("/:code", planController.GetPlan)

	authed := r.Group("/", middleware.JWTAuthMiddleware(issuer))
	authed.GET("/me/quota", itineraryController.GetQuota)

	itineraries := authed.Group("/itineraries")
	itineraries.POST("", itineraryController.GenerateItinerary)
	itineraries.GET("", itineraryController.ListItineraries)
	itineraries.GET("/:id", itineraryController.GetItinerary)
	itineraries.POST("/:id/days/:day/regenerate", itineraryController.RegenerateDay)
}
