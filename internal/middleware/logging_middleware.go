// internal/middleware/logging_middleware.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bee-counter/internal/utils"
)

// LoggingMiddleware logs every request once it has been served
func LoggingMiddleware(logger *utils.ServiceLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()

		requestLogger := &utils.ServiceLogger{
			Logger: utils.LoggerWithRequestID(logger.Logger, c.GetString(utils.RequestIDKey)),
		}
		requestLogger.LogAPIRequest(
			c.Request.Method,
			c.FullPath(),
			c.Request.UserAgent(),
			c.ClientIP(),
			c.Writer.Status(),
			time.Since(startTime),
		)

		for _, e := range c.Errors {
			requestLogger.Debug("Request error", zap.Error(e.Err))
		}
	}
}
