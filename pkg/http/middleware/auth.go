package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

const apiKeyHeader = "X-API-Key"

// KeyAuth checks the shared-secret API key header. Requests pass through
// unchecked in the development environment or when no secret is set.
func KeyAuth(secret, environment string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if environment == "development" || secret == "" {
				return next(c)
			}

			key := c.Request().Header.Get(apiKeyHeader)
			if subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"status":  http.StatusUnauthorized,
					"message": "Unauthorized",
				})
			}

			return next(c)
		}
	}
}
