// routes/client_routes.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/visatrack/visatrack_backend/controllers"
	"github.com/visatrack/visatrack_backend/middleware"
	"github.com/visatrack/visatrack_backend/models"
)

// RegisterClientRoutes wires the client self-service surface. Every
// route requires a valid token with the client role.
func RegisterClientRoutes(e *echo.Echo, client *controllers.ClientController) {
	api := e.Group("/api/client",
		middleware.JWTMiddleware(),
		middleware.RequireRole(models.RoleClient),
	)

	api.GET("/applications", client.GetApplications)
	api.POST("/applications", client.CreateApplication)
	api.PATCH("/applications/:id/progress", client.UpdateApplicationProgress)

	api.GET("/profile", client.GetProfile)
	api.PATCH("/profile", client.UpdateProfile)

	api.PATCH("/choose-agent", client.ChooseAgent)
	api.GET("/agent", client.GetAgent)
}
