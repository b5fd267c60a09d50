// routes/agent_routes.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/visatrack/visatrack_backend/controllers"
	"github.com/visatrack/visatrack_backend/middleware"
	"github.com/visatrack/visatrack_backend/models"
)

// RegisterAgentRoutes wires the agent surface. Every route requires a
// valid token with the agent role.
func RegisterAgentRoutes(e *echo.Echo, agent *controllers.AgentController) {
	api := e.Group("/api/agent",
		middleware.JWTMiddleware(),
		middleware.RequireRole(models.RoleAgent),
	)

	api.GET("/clients", agent.GetClients)
	api.POST("/clients", agent.CreateClient)
	api.GET("/clients/:clientId/documents", agent.GetClientDocuments)
	api.GET("/documents", agent.GetClientsDocuments)

	api.GET("/applications", agent.GetApplications)
	api.PATCH("/applications/:id/status", agent.UpdateApplicationStatus)

	api.GET("/commissions", agent.GetCommissions)

	api.GET("/profile", agent.GetProfile)
	api.PATCH("/profile", agent.UpdateProfile)
}
