// controllers/agent_controller.go
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

// Defaults for the application seeded when an agent provisions a client.
const (
	defaultVisaType      = "F-1 Student"
	defaultTargetCountry = "United States"
)

// AgentController handles the agent-scoped surface. The acting agent row
// is always resolved from the session user id, never from the request.
type AgentController struct {
	store  *repositories.Storage
	logger *log.Logger
}

// NewAgentController creates a new agent controller.
func NewAgentController(store *repositories.Storage) *AgentController {
	return &AgentController{
		store:  store,
		logger: log.New(os.Stdout, "[AGENT] ", log.LstdFlags),
	}
}

// actingAgent resolves the caller's agent row from the session.
func (ctrl *AgentController) actingAgent(c echo.Context) (models.Agent, bool) {
	userID, _ := middleware.ExtractUserID(c)

	agent, err := ctrl.store.GetAgentByUserID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Agent profile not found"})
		} else {
			ctrl.logger.Printf("agent lookup failed: %v", err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		}
		return models.Agent{}, false
	}
	return agent, true
}

// GetClients lists the clients assigned to the calling agent.
func (ctrl *AgentController) GetClients(c echo.Context) error {
	agent, ok := ctrl.actingAgent(c)
	if !ok {
		return nil
	}

	clients, err := ctrl.store.GetClientsByAgentID(c.Request().Context(), agent.ID)
	if err != nil {
		ctrl.logger.Printf("list clients failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch clients"})
	}

	return c.JSON(http.StatusOK, clients)
}

// CreateClient provisions a client account under the calling agent. The
// client lands under the agent's own admin, already assigned to the
// agent, and receives an initial application so the pipeline is never
// empty. The temporary password is surfaced once and emailed best-effort.
func (ctrl *AgentController) CreateClient(c echo.Context) error {
	agent, ok := ctrl.actingAgent(c)
	if !ok {
		return nil
	}

	var req models.CreateClientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Name and email are required"})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid email format"})
	}
	req.Name = utils.SanitizeInput(req.Name)

	ctx := c.Request().Context()

	if _, err := ctrl.store.GetUserByEmail(ctx, email); err == nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Email already registered"})
	} else if !errors.Is(err, repositories.ErrNotFound) {
		ctrl.logger.Printf("email lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create client"})
	}

	password, err := utils.GenerateTemporaryPassword()
	if err != nil {
		ctrl.logger.Printf("temporary password generation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create client"})
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		ctrl.logger.Printf("password hash failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create client"})
	}

	user, err := ctrl.store.CreateUser(ctx, req.Name, email, hash, models.RoleClient)
	if err != nil {
		ctrl.logger.Printf("create user failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create client"})
	}

	client, err := ctrl.store.CreateClient(ctx, user.ID, agent.AdminID, &agent.ID)
	if err != nil {
		ctrl.logger.Printf("create client row failed, deleting user %d: %v", user.ID, err)
		if delErr := ctrl.store.DeleteUser(ctx, user.ID); delErr != nil {
			ctrl.logger.Printf("compensation delete failed for user %d: %v", user.ID, delErr)
		}
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create client"})
	}

	visaType := req.VisaType
	if visaType == "" {
		visaType = defaultVisaType
	}
	if _, err := ctrl.store.CreateApplication(ctx, models.Application{
		ClientID:      client.ID,
		VisaType:      visaType,
		TargetCountry: defaultTargetCountry,
		Status:        models.ApplicationStatusDocumentReview,
		Progress:      0,
		LastAction:    "Account Created",
	}); err != nil {
		ctrl.logger.Printf("seed application failed for client %d: %v", client.ID, err)
	}

	if err := utils.SendTemporaryPasswordEmail(email, req.Name, password); err != nil {
		ctrl.logger.Printf("temporary password email to %s failed: %v", email, err)
	}

	return c.JSON(http.StatusOK, models.CreatedClientResponse{
		Client:            client,
		User:              user.Public(),
		TemporaryPassword: password,
	})
}

// GetApplications lists applications of the agent's assigned clients.
func (ctrl *AgentController) GetApplications(c echo.Context) error {
	agent, ok := ctrl.actingAgent(c)
	if !ok {
		return nil
	}

	applications, err := ctrl.store.GetApplicationsByAgentID(c.Request().Context(), agent.ID)
	if err != nil {
		ctrl.logger.Printf("list applications failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch applications"})
	}

	return c.JSON(http.StatusOK, applications)
}

// UpdateApplicationStatus moves an application of an assigned client to a
// new workflow status.
func (ctrl *AgentController) UpdateApplicationStatus(c echo.Context) error {
	agent, ok := ctrl.actingAgent(c)
	if !ok {
		return nil
	}

	applicationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid application id"})
	}

	var req models.UpdateApplicationStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
	}
	if !models.IsValidApplicationStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid application status"})
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

	client, err := ctrl.store.GetClientByID(ctx, application.ClientID)
	if err != nil || client.AgentID == nil || *client.AgentID != agent.ID {
		return c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Access denied"})
	}

	if err := ctrl.store.UpdateApplicationStatus(ctx, applicationID, req.Status); err != nil {
		ctrl.logger.Printf("update application status failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update status"})
	}

	ctrl.recordActivity(c, models.Activity{
		ActorID:      agent.UserID,
		ActorRole:    models.RoleAgent,
		TargetType:   models.RoleClient,
		TargetID:     client.ID,
		ActivityType: models.ActivityApplicationUpdated,
		Description:  "Application status updated to " + req.Status,
		Metadata:     map[string]interface{}{"applicationId": applicationID, "status": req.Status},
	})

	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Status updated"})
}

// GetCommissions lists the agent's commissions with running totals.
func (ctrl *AgentController) GetCommissions(c echo.Context) error {
	agent, ok := ctrl.actingAgent(c)
	if !ok {
		return nil
	}

	commissions, err := ctrl.store.GetCommissionsByAgentID(c.Request().Context(), agent.ID)
	if err != nil {
		ctrl.logger.Printf("list commissions failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch commissions"})
	}

	totals := models.CommissionTotals{}
	for _, commission := range commissions {
		amount := utils.ParseAmount(commission.Amount)
		switch commission.Status {
		case models.CommissionStatusPending:
			totals.Pending += amount
		case models.CommissionStatusApproved:
			totals.Approved += amount
		case models.CommissionStatusPaid:
			totals.Paid += amount
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"commissions": commissions,
		"totals":      totals,
	})
}

// GetProfile returns the agent's own profile with identity joined.
func (ctrl *AgentController) GetProfile(c echo.Context) error {
	agent, ok := ctrl.actingAgent(c)
	if !ok {
		return nil
	}

	user, err := ctrl.store.GetUserByID(c.Request().Context(), agent.UserID)
	if err != nil {
		ctrl.logger.Printf("profile user lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}

	return c.JSON(http.StatusOK, models.AgentWithUser{Agent: agent, User: user.Public()})
}

// UpdateProfile applies a partial self-service update. Commission terms
// and status are admin-owned, so they are dropped from the payload here.
func (ctrl *AgentController) UpdateProfile(c echo.Context) error {
	agent, ok := ctrl.actingAgent(c)
	if !ok {
		return nil
	}

	var req models.UpdateAgentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
	}
	req.CommissionRate = nil
	req.CommissionAmount = nil
	req.Status = nil

	ctx := c.Request().Context()

	updated, err := ctrl.store.UpdateAgentProfile(ctx, agent.ID, req)
	if err != nil {
		ctrl.logger.Printf("update profile failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update profile"})
	}

	if req.Name != nil {
		if err := ctrl.store.UpdateUserName(ctx, agent.UserID, utils.SanitizeInput(*req.Name)); err != nil {
			ctrl.logger.Printf("update name failed: %v", err)
		}
	}

	ctrl.recordActivity(c, models.Activity{
		ActorID:      agent.UserID,
		ActorRole:    models.RoleAgent,
		TargetType:   models.RoleAgent,
		TargetID:     agent.ID,
		ActivityType: models.ActivityProfileUpdated,
		Description:  "Agent updated profile",
	})

	return c.JSON(http.StatusOK, updated)
}

// GetClientsDocuments lists the documents of every client assigned to
// the calling agent, newest first.
func (ctrl *AgentController) GetClientsDocuments(c echo.Context) error {
	agent, ok := ctrl.actingAgent(c)
	if !ok {
		return nil
	}

	documents, err := ctrl.store.GetDocumentsByAgentClients(c.Request().Context(), agent.ID)
	if err != nil {
		ctrl.logger.Printf("list client documents failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch documents"})
	}

	return c.JSON(http.StatusOK, documents)
}

// GetClientDocuments lists one assigned client's documents.
func (ctrl *AgentController) GetClientDocuments(c echo.Context) error {
	agent, ok := ctrl.actingAgent(c)
	if !ok {
		return nil
	}

	clientID, err := strconv.ParseInt(c.Param("clientId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid client id"})
	}

	ctx := c.Request().Context()

	client, err := ctrl.store.GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Client not found"})
		}
		ctrl.logger.Printf("client lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
	if client.AgentID == nil || *client.AgentID != agent.ID {
		return c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Client not assigned to you"})
	}

	documents, err := ctrl.store.GetDocumentsByOwner(ctx, models.RoleClient, client.ID)
	if err != nil {
		ctrl.logger.Printf("list client documents failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch documents"})
	}

	return c.JSON(http.StatusOK, documents)
}

func (ctrl *AgentController) recordActivity(c echo.Context, activity models.Activity) {
	if _, err := ctrl.store.CreateActivity(c.Request().Context(), activity); err != nil {
		ctrl.logger.Printf("record activity failed: %v", err)
	}
}
