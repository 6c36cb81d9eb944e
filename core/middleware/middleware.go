package middleware

import (
	"strings"

	"quickmeet-api/core/constants"
	"quickmeet-api/core/errors"
	"quickmeet-api/core/logger"
	"quickmeet-api/core/utils"

	"github.com/labstack/echo/v4"
)

// Middleware bundles the route middlewares shared by all modules.
type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

// AuthMiddleware validates the bearer token and stores its claims in the
// request context under constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(401, errors.NewAppError(errors.ErrMissingAuthorizationHeader, "missing authorization header", nil))
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				return c.JSON(401, errors.NewAppError(errors.ErrInvalidTokenFormat, "invalid token format", nil))
			}

			claims, err := utils.ValidateAndParseToken(authHeader)
			if err != nil {
				logger.Warn("Middleware:AuthMiddleware:InvalidToken", "error", err)
				return c.JSON(401, errors.NewAppError(errors.ErrUnauthorized, "invalid or expired token", err))
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}
