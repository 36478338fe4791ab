// Package response renders the uniform {data, error} envelope of the API.
// Mutations never raise across the HTTP boundary: failures come back inside
// the envelope with a status code derived from the error.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"task-admin-api/internal/domain"
	"task-admin-api/internal/logger"

	"go.uber.org/zap"
)

// OK sends a successful data response.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"data":  data,
		"error": nil,
	})
}

// Mutated acknowledges a successful mutation with an empty envelope.
func Mutated(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data":  nil,
		"error": nil,
	})
}

// MutationError reports a failed mutation inside the envelope.
func MutationError(c *gin.Context, err error) {
	logger.Get().Warn("mutation failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.JSON(statusOf(err), gin.H{
		"data":  nil,
		"error": err.Error(),
	})
}

// BadRequest reports malformed request input.
func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"data":  nil,
		"error": err.Error(),
	})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
