package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/fridgechef/backend/internal/api"
	"github.com/pageza/fridgechef/backend/internal/database"
	"github.com/pageza/fridgechef/backend/internal/middleware"
	"github.com/pageza/fridgechef/backend/internal/service"
	"gorm.io/gorm"
)

// Dependencies are the collaborators the routes are wired to. Validator and
// RateLimiter may be nil.
type Dependencies struct {
	DB             *gorm.DB
	Chef           service.Chef
	Favorites      *service.FavoriteService
	Validator      middleware.TokenValidator
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.CORS(deps.AllowedOrigins),
		middleware.RequestLogger(),
		middleware.ErrorHandler(),
	)

	router.GET("/health", healthHandler(deps))

	api.SetupAPI(router, deps.Chef, deps.Favorites, deps.Validator, deps.RateLimiter)

	return router
}

func healthHandler(deps Dependencies) gin.HandlerFunc {
	mode := "live"
	if _, ok := deps.Chef.(*service.FallbackChef); ok {
		mode = "fallback"
	}
	return func(c *gin.Context) {
		if deps.DB != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := database.HealthCheck(ctx, deps.DB); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": mode})
	}
}
