package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/service"
)

type RecipeHandler struct {
	recipes   *service.RecipeService
	rateLimit gin.HandlerFunc
	logger    *zap.Logger
}

// NewRecipeHandler creates a handler for the upstream-backed recipe endpoints.
// rateLimit may be nil.
func NewRecipeHandler(recipes *service.RecipeService, rateLimit gin.HandlerFunc, logger *zap.Logger) *RecipeHandler {
	if rateLimit == nil {
		rateLimit = func(c *gin.Context) { c.Next() }
	}
	return &RecipeHandler{recipes: recipes, rateLimit: rateLimit, logger: logger}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes", h.rateLimit)
	{
		recipes.GET("/search", h.SearchRecipes)
		recipes.GET("/random", h.RandomRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.GET("/:id/similar", h.SimilarRecipes)
	}
}

func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	params := service.SearchParams{
		Query:        c.Query("query"),
		Cuisine:      c.Query("cuisine"),
		Diet:         c.Query("diet"),
		Intolerances: c.Query("intolerances"),
		Type:         c.Query("type"),
		Page:         queryInt(c, "page", 0),
		PageSize:     queryInt(c, "pageSize", 0),
	}
	if params.Query == "" {
		params.Query = c.Query("q")
	}

	body, err := h.recipes.Search(c.Request.Context(), params)
	h.respond(c, body, err)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	body, err := h.recipes.Get(c.Request.Context(), id)
	h.respond(c, body, err)
}

func (h *RecipeHandler) SimilarRecipes(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	body, err := h.recipes.Similar(c.Request.Context(), id, queryInt(c, "number", 0))
	h.respond(c, body, err)
}

func (h *RecipeHandler) RandomRecipes(c *gin.Context) {
	var tags []string
	if raw := c.Query("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}
	body, err := h.recipes.Random(c.Request.Context(), queryInt(c, "number", 0), tags)
	h.respond(c, body, err)
}

func (h *RecipeHandler) respond(c *gin.Context, body json.RawMessage, err error) {
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func recipeID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe ID"})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return n
}
