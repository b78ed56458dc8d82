package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/votechain/metavote/internal/logger"
	"go.uber.org/zap"
)

const (
	CorrelationIDHeader = "X-Correlation-ID"
	correlationIDKey    = "correlationID"

	// maxCorrelationIDLength bounds caller supplied IDs before they reach logs.
	maxCorrelationIDLength = 128
)

type contextKey string

const correlationIDContextKey contextKey = "correlationID"

// CorrelationID tags every request with an ID, taken from the
// X-Correlation-ID header or generated, and logs the request once it is done.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		correlationID := c.GetHeader(CorrelationIDHeader)
		if correlationID == "" || len(correlationID) > maxCorrelationIDLength {
			correlationID = uuid.New().String()
		}

		c.Set(correlationIDKey, correlationID)
		c.Header(CorrelationIDHeader, correlationID)
		c.Request = c.Request.WithContext(WithCorrelationID(c.Request.Context(), correlationID))

		c.Next()

		logger.Log.Info("Request handled",
			zap.String("correlation_id", correlationID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// GetCorrelationID returns the ID stored by CorrelationID.
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(correlationIDKey)
}

// WithCorrelationID stores id in ctx.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDContextKey, id)
}

// CorrelationIDFromContext returns the ID stored by WithCorrelationID.
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDContextKey).(string)
	return id
}

// LoggerFromContext returns the package logger tagged with the request's
// correlation ID, if any.
func LoggerFromContext(ctx context.Context) *zap.Logger {
	if id := CorrelationIDFromContext(ctx); id != "" {
		return logger.Log.With(zap.String("correlation_id", id))
	}
	return logger.Log
}
