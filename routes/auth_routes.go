// routes/auth_routes.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/visatrack/visatrack_backend/controllers"
	"github.com/visatrack/visatrack_backend/middleware"
)

// RegisterAuthRoutes wires the authentication endpoints. Signup, login,
// and the public admin directory need no token; logout and me do.
func RegisterAuthRoutes(e *echo.Echo, auth *controllers.AuthController, directory *controllers.ActivityController) {
	api := e.Group("/api/auth")
	api.POST("/signup", auth.Signup)
	api.POST("/login", auth.Login)

	e.GET("/api/admins/public", directory.GetAdminsPublic)

	session := api.Group("", middleware.JWTMiddleware())
	session.POST("/logout", auth.Logout)
	session.GET("/me", auth.Me)
}
