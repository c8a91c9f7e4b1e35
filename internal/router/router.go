package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/api"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth       *api.AuthHandler
	Favourites *api.FavouritesHandler
	Recipes    *api.RecipeHandler
	Upstream   *api.UpstreamHandler
	Health     *api.HealthHandler
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
		middleware.CORS(),
	)

	router.GET("/health", h.Health.Health)

	apiGroup := router.Group("/api")
	h.Auth.RegisterRoutes(apiGroup)
	h.Favourites.RegisterRoutes(apiGroup)
	h.Recipes.RegisterRoutes(apiGroup)
	h.Upstream.RegisterRoutes(apiGroup)

	return router
}
