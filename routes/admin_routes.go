// routes/admin_routes.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/visatrack/visatrack_backend/controllers"
	"github.com/visatrack/visatrack_backend/middleware"
	"github.com/visatrack/visatrack_backend/models"
)

// RegisterAdminRoutes wires the admin management surface. Every route
// requires a valid token with the admin role.
func RegisterAdminRoutes(e *echo.Echo, admin *controllers.AdminController) {
	api := e.Group("/api/admin",
		middleware.JWTMiddleware(),
		middleware.RequireRole(models.RoleAdmin),
	)

	api.GET("/agents", admin.GetAgents)
	api.POST("/agents", admin.CreateAgent)
	api.GET("/agents/:id", admin.GetAgent)
	api.PATCH("/agents/:id", admin.UpdateAgent)
	api.PATCH("/agents/:id/status", admin.UpdateAgentStatus)
	api.PATCH("/agents/:id/commission", admin.UpdateAgentCommission)
	api.PATCH("/agents/:id/password", admin.UpdateAgentPassword)

	api.GET("/clients", admin.GetClients)
	api.GET("/clients/:id", admin.GetClient)
	api.PATCH("/clients/:id", admin.UpdateClient)
	api.PATCH("/clients/:id/password", admin.UpdateClientPassword)

	api.GET("/applications", admin.GetApplications)
	api.PATCH("/applications/:id/assign-agent", admin.AssignAgent)

	api.GET("/commissions", admin.GetCommissions)
	api.PATCH("/commissions/:id/status", admin.UpdateCommissionStatus)

	api.GET("/documents", admin.GetDocuments)
	api.GET("/documents/:ownerType/:ownerId", admin.GetDocumentsByOwner)

	api.POST("/clear-data", admin.ClearData)
}
