package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nyahub/nya-api/pkg/apperror"
	"github.com/nyahub/nya-api/pkg/logger"
	"go.uber.org/zap"
)

// respondError renders err as the JSON error envelope and attaches it to the
// gin context so the observability middleware can log the reason. Anything
// that is not an *apperror.Error becomes an opaque 500.
func respondError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
	if appErr, ok := apperror.As(err); ok {
		c.JSON(appErr.Status, appErr.Payload())
		return
	}
	logger.Error("Unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, apperror.Internal("Internal server error").Payload())
}

// respondBindError renders a request body or query binding failure.
func respondBindError(c *gin.Context, err error) {
	respondError(c, apperror.BadRequest("validation_error", validationMessage(err)))
}
