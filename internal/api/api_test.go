package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/cache"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/middleware"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/service"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/testhelpers"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/upstream"
)

// testEnv wires the real services against SQLite and a fake recipe API.
type testEnv struct {
	router   *gin.Engine
	auth     *service.AuthService
	keys     *upstream.KeyRotator
	upstream *httptest.Server
	hits     *atomic.Int32
}

func newTestEnv(t *testing.T, handler http.HandlerFunc) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hits := &atomic.Int32{}
	fake := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(fake.Close)

	logger := zaptest.NewLogger(t)
	db := testhelpers.SetupTestDB(t)
	keys := upstream.NewKeyRotator([]string{"primary-key", "backup-key"}, logger)
	client := upstream.NewClient(keys, cache.NewMemory(), upstream.Options{
		BaseURL:  fake.URL,
		CacheTTL: time.Minute,
		Timeout:  200 * time.Millisecond,
		Logger:   logger,
	})

	auth := service.NewAuthService(db, "test-secret")
	favourites := service.NewFavouritesService(
		service.NewFavouriteStore(db),
		service.NewFavouritesResolver(client, logger),
	)

	router := gin.New()
	router.Use(middleware.CORS())
	apiGroup := router.Group("/api")
	NewAuthHandler(auth, logger).RegisterRoutes(apiGroup)
	NewFavouritesHandler(favourites, auth, logger).RegisterRoutes(apiGroup)
	NewRecipeHandler(service.NewRecipeService(client), nil, logger).RegisterRoutes(apiGroup)
	NewUpstreamHandler(keys, auth).RegisterRoutes(apiGroup)

	return &testEnv{router: router, auth: auth, keys: keys, upstream: fake, hits: hits}
}

// token registers a fresh user and returns a bearer token for them.
func (e *testEnv) token(t *testing.T, email string) string {
	t.Helper()
	_, token, err := e.auth.Register(context.Background(), "Test User", email, "password123")
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
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
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// writeJSON is a fake upstream response helper.
func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

