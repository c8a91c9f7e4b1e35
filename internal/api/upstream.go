package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/middleware"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/upstream"
)

// KeyStatusReporter exposes the masked state of the upstream credentials.
type KeyStatusReporter interface {
	Status() []upstream.KeyStatus
}

type UpstreamHandler struct {
	keys KeyStatusReporter
	auth middleware.TokenValidator
}

func NewUpstreamHandler(keys KeyStatusReporter, auth middleware.TokenValidator) *UpstreamHandler {
	return &UpstreamHandler{keys: keys, auth: auth}
}

func (h *UpstreamHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/upstream/keys", middleware.AuthMiddleware(h.auth), h.KeyStatus)
}

func (h *UpstreamHandler) KeyStatus(c *gin.Context) {
	statuses := h.keys.Status()
	available := 0
	for _, s := range statuses {
		if s.State != upstream.QuotaExhausted.String() {
			available++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"keys":      statuses,
		"available": available,
	})
}
