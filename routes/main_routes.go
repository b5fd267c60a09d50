// routes/main_routes.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/visatrack/visatrack_backend/controllers"
	"github.com/visatrack/visatrack_backend/middleware"
)

// RegisterSharedRoutes wires the endpoints open to every authenticated
// role: documents, the activity feed, and the directories.
func RegisterSharedRoutes(e *echo.Echo, docs *controllers.DocumentController, feed *controllers.ActivityController) {
	api := e.Group("/api", middleware.JWTMiddleware())

	api.POST("/documents", docs.Upload)
	api.GET("/documents/my", docs.MyDocuments)
	api.PATCH("/documents/:id/status", docs.UpdateStatus)

	api.GET("/activities", feed.GetActivities)
	api.GET("/agents/available", feed.GetAvailableAgents)
	api.GET("/admins", feed.GetAdmins)
}
