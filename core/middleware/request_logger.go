package middleware

import (
	"time"

	"quickmeet-api/core/logger"
	"quickmeet-api/core/utils"

	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger tags every request with a short opaque id and logs the
// outcome with latency.
func (m *Middleware) RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = utils.GenerateID()
			}
			c.Response().Header().Set(requestIDHeader, requestID)

			start := time.Now()
			err := next(c)

			logger.Info("Request",
				"request_id", requestID,
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
			)

			return err
		}
	}
}
