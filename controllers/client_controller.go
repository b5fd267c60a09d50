// controllers/client_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/visatrack/visatrack_backend/middleware"
	"github.com/visatrack/visatrack_backend/models"
	"github.com/visatrack/visatrack_backend/repositories"
	"github.com/visatrack/visatrack_backend/utils"
)

// ClientController handles the client self-service surface.
type ClientController struct {
	store  *repositories.Storage
	logger *log.Logger
}

// NewClientController creates a new client controller.
func NewClientController(store *repositories.Storage) *ClientController {
	return &ClientController{
		store:  store,
		logger: log.New(os.Stdout, "[CLIENT] ", log.LstdFlags),
	}
}

// actingClient resolves the caller's client row from the session.
func (ctrl *ClientController) actingClient(c echo.Context) (models.Client, bool) {
	userID, _ := middleware.ExtractUserID(c)

	client, err := ctrl.store.GetClientByUserID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Client profile not found"})
		} else {
			ctrl.logger.Printf("client lookup failed: %v", err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		}
		return models.Client{}, false
	}
	return client, true
}

// assignedAgent loads the client's agent with identity joined, or nil.
func (ctrl *ClientController) assignedAgent(c echo.Context, client models.Client) (*models.AgentWithUser, error) {
	if client.AgentID == nil {
		return nil, nil
	}

	ctx := c.Request().Context()

	agent, err := ctrl.store.GetAgentByID(ctx, *client.AgentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	user, err := ctrl.store.GetUserByID(ctx, agent.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &models.AgentWithUser{Agent: agent, User: user.Public()}, nil
}

// GetApplications lists the client's own applications.
func (ctrl *ClientController) GetApplications(c echo.Context) error {
	client, ok := ctrl.actingClient(c)
	if !ok {
		return nil
	}

	applications, err := ctrl.store.GetApplicationsByClientID(c.Request().Context(), client.ID)
	if err != nil {
		ctrl.logger.Printf("list applications failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch applications"})
	}

	return c.JSON(http.StatusOK, applications)
}

// CreateApplication files a new visa application for the client.
func (ctrl *ClientController) CreateApplication(c echo.Context) error {
	client, ok := ctrl.actingClient(c)
	if !ok {
		return nil
	}

	var req models.CreateApplicationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Visa type and target country are required"})
	}

	ctx := c.Request().Context()

	application, err := ctrl.store.CreateApplication(ctx, models.Application{
		ClientID:      client.ID,
		VisaType:      utils.SanitizeInput(req.VisaType),
		TargetCountry: utils.SanitizeInput(req.TargetCountry),
		Purpose:       utils.SanitizeInput(req.Purpose),
		Status:        models.ApplicationStatusDocumentReview,
		Progress:      10,
		LastAction:    "Application Submitted",
	})
	if err != nil {
		ctrl.logger.Printf("create application failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create application"})
	}

	ctrl.recordActivity(c, models.Activity{
		ActorID:      client.UserID,
		ActorRole:    models.RoleClient,
		TargetType:   models.RoleClient,
		TargetID:     client.ID,
		ActivityType: models.ActivityApplicationSubmitted,
		Description:  "New visa application submitted",
		Metadata:     map[string]interface{}{"applicationId": application.ID, "visaType": application.VisaType},
	})

	return c.JSON(http.StatusOK, application)
}

// UpdateApplicationProgress moves the progress slider on one of the
// client's own applications.
func (ctrl *ClientController) UpdateApplicationProgress(c echo.Context) error {
	client, ok := ctrl.actingClient(c)
	if !ok {
		return nil
	}

	applicationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid application id"})
	}

	var req models.UpdateApplicationProgressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Progress is required"})
	}
	if *req.Progress < 0 || *req.Progress > 100 {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Progress must be between 0 and 100"})
	}

	ctx := c.Request().Context()

	application, err := ctrl.store.GetApplicationByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Application not found"})
		}
		ctrl.logger.Printf("application lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
	if application.ClientID != client.ID {
		return c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Access denied"})
	}

	lastAction := req.LastAction
	if lastAction == "" {
		lastAction = application.LastAction
	}
	if err := ctrl.store.UpdateApplicationProgress(ctx, applicationID, *req.Progress, lastAction); err != nil {
		ctrl.logger.Printf("update progress failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update progress"})
	}

	ctrl.recordActivity(c, models.Activity{
		ActorID:      client.UserID,
		ActorRole:    models.RoleClient,
		TargetType:   models.RoleClient,
		TargetID:     client.ID,
		ActivityType: models.ActivityApplicationUpdated,
		Description:  "Application progress updated",
		Metadata:     map[string]interface{}{"applicationId": applicationID, "progress": *req.Progress},
	})

	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Progress updated"})
}

// GetProfile returns the client's own profile, with the assigned agent
// joined when one exists.
func (ctrl *ClientController) GetProfile(c echo.Context) error {
	client, ok := ctrl.actingClient(c)
	if !ok {
		return nil
	}

	user, err := ctrl.store.GetUserByID(c.Request().Context(), client.UserID)
	if err != nil {
		ctrl.logger.Printf("profile user lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}

	agent, err := ctrl.assignedAgent(c, client)
	if err != nil {
		ctrl.logger.Printf("assigned agent lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}

	return c.JSON(http.StatusOK, models.ClientWithRelations{
		Client: client,
		User:   user.Public(),
		Agent:  agent,
	})
}

// UpdateProfile applies a partial self-service update. Agent assignment
// goes through the choose-agent endpoint, so agentId is dropped here.
func (ctrl *ClientController) UpdateProfile(c echo.Context) error {
	client, ok := ctrl.actingClient(c)
	if !ok {
		return nil
	}

	var req models.UpdateClientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
	}
	req.AgentID = nil

	ctx := c.Request().Context()

	updated, err := ctrl.store.UpdateClientProfile(ctx, client.ID, req)
	if err != nil {
		ctrl.logger.Printf("update profile failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update profile"})
	}

	if req.Name != nil {
		if err := ctrl.store.UpdateUserName(ctx, client.UserID, utils.SanitizeInput(*req.Name)); err != nil {
			ctrl.logger.Printf("update name failed: %v", err)
		}
	}

	ctrl.recordActivity(c, models.Activity{
		ActorID:      client.UserID,
		ActorRole:    models.RoleClient,
		TargetType:   models.RoleClient,
		TargetID:     client.ID,
		ActivityType: models.ActivityProfileUpdated,
		Description:  "Client updated profile",
	})

	return c.JSON(http.StatusOK, updated)
}

// ChooseAgent lets the client pick an agent from their admin's roster.
func (ctrl *ClientController) ChooseAgent(c echo.Context) error {
	client, ok := ctrl.actingClient(c)
	if !ok {
		return nil
	}

	var req models.ChooseAgentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Agent id is required"})
	}

	ctx := c.Request().Context()

	agent, err := ctrl.store.GetAgentByID(ctx, req.AgentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Agent not found"})
		}
		ctrl.logger.Printf("agent lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
	if agent.AdminID != client.AdminID {
		return c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "You can only choose agents from your assigned admin"})
	}

	if err := ctrl.store.AssignAgentToClient(ctx, client.ID, agent.ID); err != nil {
		ctrl.logger.Printf("choose agent failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to choose agent"})
	}

	ctrl.recordActivity(c, models.Activity{
		ActorID:      client.UserID,
		ActorRole:    models.RoleClient,
		TargetType:   models.RoleAgent,
		TargetID:     agent.ID,
		ActivityType: models.ActivityAgentAssigned,
		Description:  "Client chose an agent",
		Metadata:     map[string]interface{}{"clientId": client.ID},
	})

	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Agent chosen successfully"})
}

// GetAgent returns the client's assigned agent, or an explicit null.
func (ctrl *ClientController) GetAgent(c echo.Context) error {
	client, ok := ctrl.actingClient(c)
	if !ok {
		return nil
	}

	agent, err := ctrl.assignedAgent(c, client)
	if err != nil {
		ctrl.logger.Printf("assigned agent lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"agent": agent})
}

func (ctrl *ClientController) recordActivity(c echo.Context, activity models.Activity) {
	if _, err := ctrl.store.CreateActivity(c.Request().Context(), activity); err != nil {
		ctrl.logger.Printf("record activity failed: %v", err)
	}
}
