package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/votechain/metavote/internal/metatx"
	"github.com/votechain/metavote/internal/middleware"
	"github.com/votechain/metavote/internal/pipeline"
	"go.uber.org/zap"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// sendError logs err with the request's correlation ID and sends message as
// a JSON error response.
func sendError(c *gin.Context, statusCode int, message string, err error) {
	log := middleware.LoggerFromContext(c.Request.Context())
	fields := []zap.Field{
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Int("status", statusCode),
	}
	if statusCode >= http.StatusInternalServerError {
		log.Error(message, fields...)
	} else {
		log.Warn(message, fields...)
	}
	c.JSON(statusCode, ErrorResponse{Error: message})
}

// sendSuccess sends data as JSON
func sendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// statusClientClosedRequest is the nginx convention for a caller that went away.
const statusClientClosedRequest = 499

// handleSubmissionError maps a pipeline or chain error to a status code.
// Context errors win over the typed error that wraps them.
func handleSubmissionError(c *gin.Context, err error, action string) {
	var (
		invalid     *metatx.InvalidRequestError
		rejected    *metatx.RelayRejectedError
		unreachable *metatx.RelayUnreachableError
		discovery   *metatx.DiscoveryError
		chainErr    *metatx.ChainReadError
		cfgErr      *metatx.ConfigurationError
		signing     *metatx.SigningError
	)

	wrapped := errors.Wrap(err, action)
	switch {
	case errors.As(err, &invalid):
		sendError(c, http.StatusBadRequest, invalid.Error(), wrapped)
	case errors.Is(err, pipeline.ErrSubmissionInFlight):
		sendError(c, http.StatusConflict, "Another vote from this sender is in flight", wrapped)
	case errors.Is(err, context.DeadlineExceeded):
		sendError(c, http.StatusGatewayTimeout, "Request timed out", wrapped)
	case errors.Is(err, context.Canceled):
		sendError(c, statusClientClosedRequest, "Request cancelled", wrapped)
	case errors.As(err, &rejected):
		reason := rejected.Message
		if reason == "" {
			reason = http.StatusText(rejected.StatusCode)
		}
		sendError(c, http.StatusUnprocessableEntity, "Relay rejected the vote: "+reason, wrapped)
	case errors.As(err, &unreachable):
		sendError(c, http.StatusBadGateway, "Relay service unreachable", wrapped)
	case errors.As(err, &discovery):
		sendError(c, http.StatusServiceUnavailable, "Contract addresses unavailable", wrapped)
	case errors.As(err, &chainErr):
		sendError(c, http.StatusServiceUnavailable, "Blockchain node unavailable", wrapped)
	case errors.As(err, &cfgErr), errors.As(err, &signing):
		sendError(c, http.StatusInternalServerError, "Service misconfigured", wrapped)
	default:
		sendError(c, http.StatusInternalServerError, "Internal server error", wrapped)
	}
}
