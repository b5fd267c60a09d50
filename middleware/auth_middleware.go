// middleware/auth_middleware.go
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/visatrack/visatrack_backend/models"
)

// RequireRole checks if the authenticated user has one of the allowed roles.
// A present session with the wrong role is a 403, distinct from the 401 the
// JWT middleware returns when no session exists.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := ExtractRole(c)

			if role == "" {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error: "Not authenticated",
				})
			}

			for _, allowed := range allowedRoles {
				if role == allowed {
					return next(c)
				}
			}

			return c.JSON(http.StatusForbidden, models.ErrorResponse{
				Error: "Unauthorized",
			})
		}
	}
}
