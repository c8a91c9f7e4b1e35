package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/api"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/types"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/upstream"
)

type staticValidator struct {
	token string
}

func (v staticValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if token != v.token {
		return nil, errors.New("invalid token")
	}
	return &types.TokenClaims{UserID: uuid.New()}, nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func TestSetupRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)
	keys := upstream.NewKeyRotator([]string{"abcdef123456"}, logger)

	router := SetupRouter(Handlers{
		Auth:       api.NewAuthHandler(nil, logger),
		Favourites: api.NewFavouritesHandler(nil, nil, logger),
		Recipes:    api.NewRecipeHandler(nil, nil, logger),
		Upstream:   api.NewUpstreamHandler(keys, staticValidator{token: "valid"}),
		Health:     api.NewHealthHandler(map[string]api.Pinger{"database": okPinger{}}),
	}, logger)

	routes := map[string]bool{}
	for _, r := range router.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /health",
		"GET /api/favourites",
		"POST /api/favourites",
		"DELETE /api/favourites",
		"OPTIONS /api/favourites",
		"GET /api/recipes/search",
		"GET /api/recipes/random",
		"GET /api/recipes/:id",
		"GET /api/recipes/:id/similar",
		"POST /api/auth/register",
		"POST /api/auth/login",
		"GET /api/upstream/keys",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/upstream/keys", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "3456")

	req := httptest.NewRequest(http.MethodGet, "/api/upstream/keys", nil)
	req.Header.Set("Authorization", "Bearer valid")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"available":1,"keys":[{"index":0,"key":"********3456","state":"unknown"}]}`, w.Body.String())
}
