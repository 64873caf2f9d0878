package api

import (
	"github.com/gin-gonic/gin"
	"github.com/pageza/fridgechef/backend/internal/middleware"
	"github.com/pageza/fridgechef/backend/internal/service"
)

// SetupAPI registers the /api/v1 routes. A nil validator leaves the API
// open; callers then share the anonymous user.
func SetupAPI(router *gin.Engine, chef service.Chef, favorites *service.FavoriteService, validator middleware.TokenValidator, rateLimiter *middleware.RateLimiter) {
	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(validator))
	{
		NewChefHandler(chef, rateLimiter).RegisterRoutes(v1)
		NewFavoritesHandler(favorites).RegisterRoutes(v1)
	}
}
