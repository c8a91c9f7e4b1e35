package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/service"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/upstream"
)

// respondError maps service and upstream errors to a status code and JSON body.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("kind", upstream.KindOf(err).String()),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": msg})
}

func statusFor(err error) (int, string) {
	var uerr *upstream.Error
	switch {
	case errors.Is(err, service.ErrInvalidRecipeID):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, upstream.ErrQuotaExceeded):
		return http.StatusTooManyRequests, "Recipe API quota exhausted, please try again later"
	case errors.Is(err, upstream.ErrTransient):
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout, "Recipe API timed out"
		}
		return http.StatusServiceUnavailable, "Recipe API unavailable"
	case errors.As(err, &uerr) && uerr.StatusCode == http.StatusNotFound:
		return http.StatusNotFound, "Recipe not found"
	case errors.Is(err, upstream.ErrFatal):
		return http.StatusBadGateway, "Recipe API request failed"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
