// controllers/activity_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/visatrack/visatrack_backend/middleware"
	"github.com/visatrack/visatrack_backend/models"
	"github.com/visatrack/visatrack_backend/repositories"
)

// ActivityController serves the activity feed and the cross-role
// directory endpoints.
type ActivityController struct {
	store  *repositories.Storage
	logger *log.Logger
}

// NewActivityController creates a new activity controller.
func NewActivityController(store *repositories.Storage) *ActivityController {
	return &ActivityController{
		store:  store,
		logger: log.New(os.Stdout, "[FEED] ", log.LstdFlags),
	}
}

// GetActivities returns the caller's feed. Admins see their own actions;
// agents and clients see actions by or about them.
func (ctrl *ActivityController) GetActivities(c echo.Context) error {
	userID, _ := middleware.ExtractUserID(c)
	role := middleware.ExtractRole(c)

	ctx := c.Request().Context()

	var (
		activities []models.ActivityWithActor
		err        error
	)
	if role == models.RoleAdmin {
		activities, err = ctrl.store.GetActivitiesForAdmin(ctx, userID)
	} else {
		activities, err = ctrl.store.GetActivitiesForRole(ctx, role, userID)
	}
	if err != nil {
		ctrl.logger.Printf("list activities failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch activities"})
	}

	return c.JSON(http.StatusOK, activities)
}

// GetAvailableAgents lists the Active agents under the caller's admin.
// The admin is the caller themselves for admins, and the linked admin
// for agents and clients.
func (ctrl *ActivityController) GetAvailableAgents(c echo.Context) error {
	userID, _ := middleware.ExtractUserID(c)
	role := middleware.ExtractRole(c)

	ctx := c.Request().Context()

	var adminID int64
	switch role {
	case models.RoleAdmin:
		adminID = userID
	case models.RoleAgent:
		agent, err := ctrl.store.GetAgentByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Agent profile not found"})
			}
			ctrl.logger.Printf("agent lookup failed: %v", err)
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		}
		adminID = agent.AdminID
	case models.RoleClient:
		client, err := ctrl.store.GetClientByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Client profile not found"})
			}
			ctrl.logger.Printf("client lookup failed: %v", err)
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		}
		adminID = client.AdminID
	default:
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Not authenticated"})
	}

	agents, err := ctrl.store.GetAgentsByAdminID(ctx, adminID)
	if err != nil {
		ctrl.logger.Printf("list agents failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch agents"})
	}

	available := []models.AgentWithUser{}
	for _, agent := range agents {
		if agent.Status == models.AgentStatusActive {
			available = append(available, agent)
		}
	}

	return c.JSON(http.StatusOK, available)
}

// GetAdmins returns the full admin directory for authenticated callers.
func (ctrl *ActivityController) GetAdmins(c echo.Context) error {
	admins, err := ctrl.store.GetAllAdmins(c.Request().Context())
	if err != nil {
		ctrl.logger.Printf("list admins failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch admins"})
	}

	return c.JSON(http.StatusOK, admins)
}

// GetAdminsPublic returns the unauthenticated admin directory used by the
// signup form: ids and names only, no emails.
func (ctrl *ActivityController) GetAdminsPublic(c echo.Context) error {
	admins, err := ctrl.store.GetAllAdmins(c.Request().Context())
	if err != nil {
		ctrl.logger.Printf("list admins failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch admins"})
	}

	public := make([]models.AdminSummary, 0, len(admins))
	for _, admin := range admins {
		public = append(public, models.AdminSummary{ID: admin.ID, Name: admin.Name})
	}

	return c.JSON(http.StatusOK, public)
}
