// controllers/admin_controller.go
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

// AdminController handles the admin-scoped management surface. Every
// handler re-fetches the target record and compares its admin linkage to
// the caller before mutating; client-supplied ids are never trusted alone.
type AdminController struct {
	store  *repositories.Storage
	logger *log.Logger
}

// NewAdminController creates a new admin controller.
func NewAdminController(store *repositories.Storage) *AdminController {
	return &AdminController{
		store:  store,
		logger: log.New(os.Stdout, "[ADMIN] ", log.LstdFlags),
	}
}

func pathID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// GetAgents lists the agents under the calling admin.
func (ctrl *AdminController) GetAgents(c echo.Context) error {
	adminID, _ := middleware.ExtractUserID(c)

	agents, err := ctrl.store.GetAgentsByAdminID(c.Request().Context(), adminID)
	if err != nil {
		ctrl.logger.Printf("list agents failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch agents"})
	}

	return c.JSON(http.StatusOK, agents)
}

// CreateAgent provisions an agent account under the calling admin with a
// server-minted temporary password, surfaced once in the response and
// emailed best-effort.
func (ctrl *AdminController) CreateAgent(c echo.Context) error {
	adminID, _ := middleware.ExtractUserID(c)

	var req models.CreateAgentRequest
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
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create agent"})
	}

	password, err := utils.GenerateTemporaryPassword()
	if err != nil {
		ctrl.logger.Printf("temporary password generation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create agent"})
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		ctrl.logger.Printf("password hash failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create agent"})
	}

	user, err := ctrl.store.CreateUser(ctx, req.Name, email, hash, models.RoleAgent)
	if err != nil {
		ctrl.logger.Printf("create user failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create agent"})
	}

	agent, err := ctrl.store.CreateAgent(ctx, user.ID, adminID)
	if err != nil {
		ctrl.logger.Printf("create agent row failed, deleting user %d: %v", user.ID, err)
		if delErr := ctrl.store.DeleteUser(ctx, user.ID); delErr != nil {
			ctrl.logger.Printf("compensation delete failed for user %d: %v", user.ID, delErr)
		}
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create agent"})
	}

	if err := utils.SendTemporaryPasswordEmail(email, req.Name, password); err != nil {
		ctrl.logger.Printf("temporary password email to %s failed: %v", email, err)
	}

	return c.JSON(http.StatusOK, models.CreatedAgentResponse{
		Agent:             agent,
		User:              user.Public(),
		TemporaryPassword: password,
	})
}

// ownedAgent fetches an agent and verifies it belongs to the caller.
func (ctrl *AdminController) ownedAgent(c echo.Context, adminID int64) (models.Agent, bool) {
	agentID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid agent id"})
		return models.Agent{}, false
	}

	agent, err := ctrl.store.GetAgentByID(c.Request().Context(), agentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Agent not found"})
		} else {
			ctrl.logger.Printf("agent lookup failed: %v", err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		}
		return models.Agent{}, false
	}

	if agent.AdminID != adminID {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Access denied"})
		return models.Agent{}, false
	}

	return agent, true
}

// ownedClient fetches a client and verifies it belongs to the caller.
func (ctrl *AdminController) ownedClient(c echo.Context, adminID int64) (models.Client, bool) {
	clientID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid client id"})
		return models.Client{}, false
	}

	client, err := ctrl.store.GetClientByID(c.Request().Context(), clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Client not found"})
		} else {
			ctrl.logger.Printf("client lookup failed: %v", err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		}
		return models.Client{}, false
	}

	if client.AdminID != adminID {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Access denied"})
		return models.Client{}, false
	}

	return client, true
}

// GetAgent returns one agent under the calling admin.
func (ctrl *AdminController) GetAgent(c echo.Context) error {
	adminID, _ := middleware.ExtractUserID(c)

	agent, ok := ctrl.ownedAgent(c, adminID)
	if !ok {
		return nil
	}

	user, err := ctrl.store.GetUserByID(c.Request().Context(), agent.UserID)
	if err != nil {
		ctrl.logger.Printf("agent user lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}

	return c.JSON(http.StatusOK, models.AgentWithUser{Agent: agent, User: user.Public()})
}

// UpdateAgent applies a partial profile update to an owned agent.
func (ctrl *AdminController) UpdateAgent(c echo.Context) error {
	adminID, _ := middleware.ExtractUserID(c)

	agent, ok := ctrl.ownedAgent(c, adminID)
	if !ok {
		return nil
	}

	var req models.UpdateAgentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
	}
	if req.Status != nil && *req.Status != models.AgentStatusActive && *req.Status != models.AgentStatusInactive {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid agent status"})
	}

	ctx := c.Request().Context()

	updated, err := ctrl.store.UpdateAgentProfile(ctx, agent.ID, req)
	if err != nil {
		ctrl.logger.Printf("update agent failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update agent"})
	}

	if req.Name != nil {
		if err := ctrl.store.UpdateUserName(ctx, agent.UserID, utils.SanitizeInput(*req.Name)); err != nil {
			ctrl.logger.Printf("update agent name failed: %v", err)
		}
	}

	ctrl.recordActivity(c, models.Activity{
		ActorID:      adminID,
		ActorRole:    models.RoleAdmin,
		TargetType:   models.RoleAgent,
		TargetID:     agent.ID,
		ActivityType: models.ActivityProfileUpdated,
		Description:  "Admin updated agent profile",
	})

	return c.JSON(http.StatusOK, updated)
}

// UpdateAgentStatus toggles an owned agent's status.
func (ctrl *AdminController) UpdateAgentStatus(c echo.Context) error {
	adminID, _ := middleware.ExtractUserID(c)

	agent, ok := ctrl.ownedAgent(c, adminID)
	if !ok {
		return nil
	}

	var req models.UpdateAgentStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid agent status"})
	}

	if err := ctrl.store.UpdateAgentStatus(c.Request().Context(), agent.ID, req.Status); err != nil {
		ctrl.logger.Printf("update agent status failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update status"})
	}

	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Status updated"})
}

// UpdateAgentCommission sets an owned agent's commission terms.
func (ctrl *AdminController) UpdateAgentCommission(c echo.Context) error {
	adminID, _ := middleware.ExtractUserID(c)

	agent, ok := ctrl.ownedAgent(c, adminID)
	if !ok {
		return nil
	}

	var req models.UpdateAgentCommissionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Commission rate is required"})
	}

	if err := ctrl.store.UpdateAgentCommission(c.Request().Context(), agent.ID, req.CommissionRate, req.CommissionAmount); err != nil {
		ctrl.logger.Printf("update agent commission failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update commission"})
	}

	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Commission updated"})
}

// UpdateAgentPassword resets an owned agent's password.
func (ctrl *AdminController) UpdateAgentPassword(c echo.Context) error {
	adminID, _ := middleware.ExtractUserID(c)

	agent, ok := ctrl.ownedAgent(c, adminID)
	if !ok {
		return nil
	}

	return ctrl.resetPassword(c, agent.UserID)
}

// UpdateClientPassword resets an owned client's password.
func (ctrl *AdminController) UpdateClientPassword(c echo.Context) error {
	adminID, _ := middleware.ExtractUserID(c)

	client, ok := ctrl.ownedClient(c, adminID)
	if !ok {
		return nil
	}

	return ctrl.resetPassword(c, client.UserID)
}

func (ctrl *AdminController) resetPassword(c echo.Context, userID int64) error {
	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Password must be at least 6 characters"})
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		ctrl.logger.Printf("password hash failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update password"})
	}

	if err := ctrl.store.UpdateUserPassword(c.Request().Context(), userID, hash); err != nil {
		ctrl.logger.Printf("password update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update password"})
	}

	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Password updated"})
}

// GetClients lists the clients under the calling admin.
func (ctrl *AdminController) GetClients(c echo.Context) error {
	adminID, _ := middleware.ExtractUserID(c)

	clients, err := ctrl.store.GetClientsByAdminID(c.Request().Context(), adminID)
	if err != nil {
		ctrl.logger.Printf("list clients failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch clients"})
	}

	return c.JSON(http.StatusOK, clients)
}

// GetClient returns one client under the calling admin.
func (ctrl *AdminController) GetClient(c echo.Context) error {
	adminID, _ := middleware.ExtractUserID(c)

	client, ok := ctrl.ownedClient(c, adminID)
	if !ok {
		return nil
	}

	user, err := ctrl.store.GetUserByID(c.Request().Context(), client.UserID)
	if err != nil {
		ctrl.logger.Printf("client user lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}

	return c.JSON(http.StatusOK, models.ClientWithUser{Client: client, User: user.Public()})
}

// UpdateClient applies a partial profile update to an owned client. An
// agentId change is validated against the same-admin constraint before
// the merge: a missing agent is 404, a cross-admin agent is 403.
func (ctrl *AdminController) UpdateClient(c echo.Context) error {
	adminID, _ := middleware.ExtractUserID(c)

	client, ok := ctrl.ownedClient(c, adminID)
	if !ok {
		return nil
	}

	var req models.UpdateClientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
	}

	ctx := c.Request().Context()

	if req.AgentID != nil {
		agent, err := ctrl.store.GetAgentByID(ctx, *req.AgentID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Agent not found"})
			}
			ctrl.logger.Printf("agent lookup failed: %v", err)
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		}
		if agent.AdminID != client.AdminID {
			return c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Access denied"})
		}
	}

	updated, err := ctrl.store.UpdateClientProfile(ctx, client.ID, req)
	if err != nil {
		ctrl.logger.Printf("update client failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update client"})
	}

	if req.Name != nil {
		if err := ctrl.store.UpdateUserName(ctx, client.UserID, utils.SanitizeInput(*req.Name)); err != nil {
			ctrl.logger.Printf("update client name failed: %v", err)
		}
	}

	ctrl.recordActivity(c, models.Activity{
		ActorID:      adminID,
		ActorRole:    models.RoleAdmin,
		TargetType:   models.RoleClient,
		TargetID:     client.ID,
		ActivityType: models.ActivityProfileUpdated,
		Description:  "Admin updated client profile",
	})

	return c.JSON(http.StatusOK, updated)
}

// GetApplications lists applications across the admin's client tree.
func (ctrl *AdminController) GetApplications(c echo.Context) error {
	adminID, _ := middleware.ExtractUserID(c)

	applications, err := ctrl.store.GetApplicationsByAdminID(c.Request().Context(), adminID)
	if err != nil {
		ctrl.logger.Printf("list applications failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch applications"})
	}

	return c.JSON(http.StatusOK, applications)
}

// AssignAgent attaches an agent to the client behind an application. The
// agent must exist and live under the same admin as the client.
func (ctrl *AdminController) AssignAgent(c echo.Context) error {
	adminID, _ := middleware.ExtractUserID(c)

	applicationID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid application id"})
	}

	var req models.AssignAgentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Agent id is required"})
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
	if err != nil || client.AdminID != adminID {
		return c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Access denied"})
	}

	agent, err := ctrl.store.GetAgentByID(ctx, req.AgentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Agent not found"})
		}
		ctrl.logger.Printf("agent lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
	if agent.AdminID != client.AdminID {
		return c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Access denied"})
	}

	if err := ctrl.store.AssignAgentToClient(ctx, client.ID, agent.ID); err != nil {
		ctrl.logger.Printf("assign agent failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to assign agent"})
	}

	ctrl.recordActivity(c, models.Activity{
		ActorID:      adminID,
		ActorRole:    models.RoleAdmin,
		TargetType:   "application",
		TargetID:     applicationID,
		ActivityType: models.ActivityAgentAssigned,
		Description:  "Admin assigned agent to client",
		Metadata:     map[string]interface{}{"agentId": agent.ID, "clientId": client.ID},
	})

	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Agent assigned successfully"})
}

// GetCommissions lists commissions owed by the admin's agents, together
// with pending/approved/paid totals summed at query time.
func (ctrl *AdminController) GetCommissions(c echo.Context) error {
	adminID, _ := middleware.ExtractUserID(c)

	commissions, err := ctrl.store.GetCommissionsByAdminID(c.Request().Context(), adminID)
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

// UpdateCommissionStatus sets a payout status. Ownership runs through the
// commission's agent: the agent must belong to the calling admin.
func (ctrl *AdminController) UpdateCommissionStatus(c echo.Context) error {
	adminID, _ := middleware.ExtractUserID(c)

	commissionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid commission id"})
	}

	var req models.UpdateCommissionStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
	}
	if !models.IsValidCommissionStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid commission status"})
	}

	ctx := c.Request().Context()

	commission, err := ctrl.store.GetCommissionByID(ctx, commissionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Commission not found"})
		}
		ctrl.logger.Printf("commission lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}

	agent, err := ctrl.store.GetAgentByID(ctx, commission.AgentID)
	if err != nil || agent.AdminID != adminID {
		return c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Access denied"})
	}

	if err := ctrl.store.UpdateCommissionStatus(ctx, commissionID, req.Status); err != nil {
		ctrl.logger.Printf("update commission status failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update status"})
	}

	ctrl.recordActivity(c, models.Activity{
		ActorID:      adminID,
		ActorRole:    models.RoleAdmin,
		TargetType:   "commission",
		TargetID:     commissionID,
		ActivityType: models.ActivityStatusChanged,
		Description:  "Commission status updated to " + req.Status,
	})

	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Status updated"})
}

// GetDocuments lists every document in the admin's ownership tree.
func (ctrl *AdminController) GetDocuments(c echo.Context) error {
	adminID, _ := middleware.ExtractUserID(c)

	documents, err := ctrl.store.GetDocumentsByAdminID(c.Request().Context(), adminID)
	if err != nil {
		ctrl.logger.Printf("list documents failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch documents"})
	}

	return c.JSON(http.StatusOK, documents)
}

// GetDocumentsByOwner lists one owner's documents after verifying the
// owner sits in the admin's tree.
func (ctrl *AdminController) GetDocumentsByOwner(c echo.Context) error {
	adminID, _ := middleware.ExtractUserID(c)

	ownerType := c.Param("ownerType")
	ownerID, err := strconv.ParseInt(c.Param("ownerId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid owner id"})
	}

	ctx := c.Request().Context()

	switch ownerType {
	case models.RoleClient:
		client, err := ctrl.store.GetClientByID(ctx, ownerID)
		if err != nil || client.AdminID != adminID {
			return c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Access denied"})
		}
	case models.RoleAgent:
		agent, err := ctrl.store.GetAgentByID(ctx, ownerID)
		if err != nil || agent.AdminID != adminID {
			return c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Access denied"})
		}
	case models.RoleAdmin:
		if ownerID != adminID {
			return c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Access denied"})
		}
	default:
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid owner type"})
	}

	documents, err := ctrl.store.GetDocumentsByOwner(ctx, ownerType, ownerID)
	if err != nil {
		ctrl.logger.Printf("list owner documents failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch documents"})
	}

	return c.JSON(http.StatusOK, documents)
}

// ClearData wipes every collection. The caller's own session token keeps
// working until logout; the account behind it is gone.
func (ctrl *AdminController) ClearData(c echo.Context) error {
	if err := ctrl.store.ClearAllData(c.Request().Context()); err != nil {
		ctrl.logger.Printf("clear data failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to clear data"})
	}

	if token := middleware.RawToken(c); token != "" {
		middleware.BlacklistToken(token)
	}

	return c.JSON(http.StatusOK, models.MessageResponse{Message: "All data cleared successfully"})
}

// recordActivity appends a feed row; failures are logged, never surfaced.
func (ctrl *AdminController) recordActivity(c echo.Context, activity models.Activity) {
	if _, err := ctrl.store.CreateActivity(c.Request().Context(), activity); err != nil {
		ctrl.logger.Printf("record activity failed: %v", err)
	}
}
