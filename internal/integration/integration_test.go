package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/api"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/cache"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/database"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/middleware"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/router"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/service"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/testhelpers"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/upstream"
)

// TestFavouritesAgainstPostgresAndRedis runs the full stack with the
// production backends: Postgres for favourites and Redis for the response
// cache and rate limiting.
func TestFavouritesAgainstPostgresAndRedis(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)
	rdb := testhelpers.SetupTestRedis(t)
	logger := zaptest.NewLogger(t)
	gin.SetMode(gin.TestMode)

	var hits atomic.Int32
	fake := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		ids := strings.Split(r.URL.Query().Get("ids"), ",")
		records := make([]string, len(ids))
		for i, id := range ids {
			records[i] = fmt.Sprintf(`{"id":%s,"title":"Recipe %s"}`, id, id)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[" + strings.Join(records, ",") + "]"))
	}))
	t.Cleanup(fake.Close)

	keys := upstream.NewKeyRotator([]string{"integration-key"}, logger)
	client := upstream.NewClient(keys, cache.NewRedis(rdb, "recipes"), upstream.Options{
		BaseURL:  fake.URL,
		CacheTTL: time.Minute,
		Logger:   logger,
	})
	auth := service.NewAuthService(db, "integration-secret")
	favourites := service.NewFavouritesService(
		service.NewFavouriteStore(db),
		service.NewFavouritesResolver(client, logger),
	)

	engine := router.SetupRouter(router.Handlers{
		Auth:       api.NewAuthHandler(auth, logger),
		Favourites: api.NewFavouritesHandler(favourites, auth, logger),
		Recipes: api.NewRecipeHandler(service.NewRecipeService(client),
			middleware.NewUpstreamRateLimiter(rdb, 100, logger).RateLimitMiddleware(), logger),
		Upstream: api.NewUpstreamHandler(keys, auth),
		Health: api.NewHealthHandler(map[string]api.Pinger{
			"database": database.HealthCheck{DB: db},
			"redis":    database.RedisHealthCheck{Client: rdb},
		}),
	}, logger)

	do := func(method, path, token string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var registered struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))

	for _, id := range []int{3, 1, 2} {
		w = do(http.MethodPost, "/api/favourites", registered.Token, map[string]int{"recipeId": id})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	w = do(http.MethodPost, "/api/favourites", registered.Token, map[string]int{"recipeId": 1})
	require.Equal(t, http.StatusConflict, w.Code)

	for i := 0; i < 2; i++ {
		w = do(http.MethodGet, "/api/favourites", registered.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"results":[
			{"id":3,"title":"Recipe 3"},
			{"id":1,"title":"Recipe 1"},
			{"id":2,"title":"Recipe 2"}
		]}`, w.Body.String())
	}
	assert.EqualValues(t, 1, hits.Load(), "second listing is served from Redis")

	cached, err := rdb.Keys(context.Background(), "recipes:*").Result()
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	w = do(http.MethodGet, "/api/recipes/search?query=soup", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
}
