package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// RequestIDKey is the context key the request logger stores its id under.
const RequestIDKey = "request_id"

type LoggingMiddleware struct {
	logger *logrus.Logger
}

func NewLoggingMiddleware(logger *logrus.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

// RequestLogging tags every request with a generated id, echoes it back in
// X-Request-ID and logs one completion line with status and latency.
func (m *LoggingMiddleware) RequestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Set(RequestIDKey, requestID)
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			start := time.Now()
			err := next(c)

			if m.logger != nil {
				m.logger.WithFields(logrus.Fields{
					"request_id": requestID,
					"method":     c.Request().Method,
					"path":       c.Request().URL.Path,
					"status":     c.Response().Status,
					"latency_ms": time.Since(start).Milliseconds(),
				}).Info("request completed")
			}
			return err
		}
	}
}
