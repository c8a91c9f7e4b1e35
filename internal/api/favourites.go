package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/middleware"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/service"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/types"
)

type FavouritesHandler struct {
	favourites *service.FavouritesService
	auth       middleware.TokenValidator
	logger     *zap.Logger
}

func NewFavouritesHandler(favourites *service.FavouritesService, auth middleware.TokenValidator, logger *zap.Logger) *FavouritesHandler {
	return &FavouritesHandler{favourites: favourites, auth: auth, logger: logger}
}

func (h *FavouritesHandler) RegisterRoutes(router *gin.RouterGroup) {
	favourites := router.Group("/favourites")
	{
		favourites.OPTIONS("", h.Options)
		favourites.GET("", middleware.AuthMiddleware(h.auth), h.ListFavourites)
		favourites.POST("", middleware.AuthMiddleware(h.auth), h.AddFavourite)
		favourites.DELETE("", middleware.AuthMiddleware(h.auth), h.RemoveFavourite)
	}
}

func (h *FavouritesHandler) Options(c *gin.Context) {
	c.Status(http.StatusOK)
}

// ListFavourites returns the user's favourites. When the recipe API quota is
// used up the records are degraded and the response still succeeds.
func (h *FavouritesHandler) ListFavourites(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	resolved, err := h.favourites.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resolved)
}

func (h *FavouritesHandler) AddFavourite(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req types.FavouriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipe ID is required"})
		return
	}

	fav, err := h.favourites.Add(c.Request.Context(), userID, req.RecipeID)
	if err != nil {
		if errors.Is(err, service.ErrUniqueConstraint) {
			c.JSON(http.StatusConflict, gin.H{"error": "Recipe is already in favorites"})
			return
		}
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, fav)
}

func (h *FavouritesHandler) RemoveFavourite(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req types.FavouriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipe ID is required"})
		return
	}

	if err := h.favourites.Remove(c.Request.Context(), userID, req.RecipeID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
