// controllers/document_controller.go
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

// DocumentController handles document registration and review across all
// three roles. Documents are external URLs; nothing is stored locally.
type DocumentController struct {
	store  *repositories.Storage
	logger *log.Logger
}

// NewDocumentController creates a new document controller.
func NewDocumentController(store *repositories.Storage) *DocumentController {
	return &DocumentController{
		store:  store,
		logger: log.New(os.Stdout, "[DOCS] ", log.LstdFlags),
	}
}

// canTouchOwner reports whether the caller may act on documents of the
// given owner entity. Clients reach only themselves; agents reach
// themselves and their assigned clients; admins reach their whole tree.
func (ctrl *DocumentController) canTouchOwner(c echo.Context, role string, userID int64, ownerType string, ownerID int64) (bool, error) {
	ctx := c.Request().Context()

	switch role {
	case models.RoleClient:
		if ownerType != models.RoleClient {
			return false, nil
		}
		client, err := ctrl.store.GetClientByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		return client.ID == ownerID, nil

	case models.RoleAgent:
		agent, err := ctrl.store.GetAgentByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		switch ownerType {
		case models.RoleAgent:
			return agent.ID == ownerID, nil
		case models.RoleClient:
			client, err := ctrl.store.GetClientByID(ctx, ownerID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return false, nil
				}
				return false, err
			}
			return client.AgentID != nil && *client.AgentID == agent.ID, nil
		}
		return false, nil

	case models.RoleAdmin:
		switch ownerType {
		case models.RoleAdmin:
			return ownerID == userID, nil
		case models.RoleAgent:
			agent, err := ctrl.store.GetAgentByID(ctx, ownerID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return false, nil
				}
				return false, err
			}
			return agent.AdminID == userID, nil
		case models.RoleClient:
			client, err := ctrl.store.GetClientByID(ctx, ownerID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return false, nil
				}
				return false, err
			}
			return client.AdminID == userID, nil
		}
	}
	return false, nil
}

// Upload registers an external document URL against an owner entity the
// caller is allowed to act for.
func (ctrl *DocumentController) Upload(c echo.Context) error {
	userID, _ := middleware.ExtractUserID(c)
	role := middleware.ExtractRole(c)

	var req models.CreateDocumentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Owner, name, type, and path are required"})
	}

	if !utils.IsValidDocumentURL(req.Path) {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid document URL. Only http:// and https:// URLs are allowed."})
	}

	allowed, err := ctrl.canTouchOwner(c, role, userID, req.OwnerType, req.OwnerID)
	if err != nil {
		ctrl.logger.Printf("ownership check failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
	if !allowed {
		return c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Access denied"})
	}

	doc, err := ctrl.store.CreateDocument(c.Request().Context(), models.Document{
		OwnerType:    req.OwnerType,
		OwnerID:      req.OwnerID,
		UploadedByID: userID,
		Name:         utils.SanitizeInput(req.Name),
		Type:         utils.SanitizeInput(req.Type),
		Path:         req.Path,
		Status:       models.DocumentStatusPending,
	})
	if err != nil {
		ctrl.logger.Printf("create document failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to upload document"})
	}

	ctrl.recordActivity(c, models.Activity{
		ActorID:      userID,
		ActorRole:    role,
		TargetType:   req.OwnerType,
		TargetID:     req.OwnerID,
		ActivityType: models.ActivityDocumentUploaded,
		Description:  "Document uploaded: " + doc.Name,
		Metadata:     map[string]interface{}{"documentId": doc.ID, "documentType": doc.Type},
	})

	return c.JSON(http.StatusOK, doc)
}

// MyDocuments lists the documents owned by the caller's own entity.
// Admins browse through their dedicated listing endpoints instead.
func (ctrl *DocumentController) MyDocuments(c echo.Context) error {
	userID, _ := middleware.ExtractUserID(c)
	role := middleware.ExtractRole(c)

	ctx := c.Request().Context()

	switch role {
	case models.RoleClient:
		client, err := ctrl.store.GetClientByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Client profile not found"})
			}
			ctrl.logger.Printf("client lookup failed: %v", err)
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		}
		documents, err := ctrl.store.GetDocumentsByOwner(ctx, models.RoleClient, client.ID)
		if err != nil {
			ctrl.logger.Printf("list documents failed: %v", err)
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch documents"})
		}
		return c.JSON(http.StatusOK, documents)

	case models.RoleAgent:
		agent, err := ctrl.store.GetAgentByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Agent profile not found"})
			}
			ctrl.logger.Printf("agent lookup failed: %v", err)
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		}
		documents, err := ctrl.store.GetDocumentsByOwner(ctx, models.RoleAgent, agent.ID)
		if err != nil {
			ctrl.logger.Printf("list documents failed: %v", err)
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch documents"})
		}
		return c.JSON(http.StatusOK, documents)
	}

	return c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Access denied"})
}

// UpdateStatus moves a document through review. Admins review anything
// in their tree; agents review only their assigned clients' documents.
func (ctrl *DocumentController) UpdateStatus(c echo.Context) error {
	userID, _ := middleware.ExtractUserID(c)
	role := middleware.ExtractRole(c)

	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid document id"})
	}

	var req models.UpdateDocumentStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
	}
	if !models.IsValidDocumentStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid document status"})
	}

	ctx := c.Request().Context()

	doc, err := ctrl.store.GetDocumentByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Document not found"})
		}
		ctrl.logger.Printf("document lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}

	var allowed bool
	switch role {
	case models.RoleAdmin:
		allowed, err = ctrl.canTouchOwner(c, role, userID, doc.OwnerType, doc.OwnerID)
	case models.RoleAgent:
		// Agents review client paperwork only, never their own or peers'.
		if doc.OwnerType == models.RoleClient {
			allowed, err = ctrl.canTouchOwner(c, role, userID, doc.OwnerType, doc.OwnerID)
		}
	}
	if err != nil {
		ctrl.logger.Printf("ownership check failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
	if !allowed {
		return c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Access denied"})
	}

	notes := utils.SanitizeInput(req.Notes)
	if err := ctrl.store.UpdateDocumentStatus(ctx, documentID, req.Status, notes); err != nil {
		ctrl.logger.Printf("update document status failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update status"})
	}

	ctrl.recordActivity(c, models.Activity{
		ActorID:      userID,
		ActorRole:    role,
		TargetType:   doc.OwnerType,
		TargetID:     doc.OwnerID,
		ActivityType: models.ActivityDocumentReviewed,
		Description:  "Document " + doc.Name + " marked " + req.Status,
		Metadata:     map[string]interface{}{"documentId": doc.ID, "status": req.Status},
	})

	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Status updated"})
}

func (ctrl *DocumentController) recordActivity(c echo.Context, activity models.Activity) {
	if _, err := ctrl.store.CreateActivity(c.Request().Context(), activity); err != nil {
		ctrl.logger.Printf("record activity failed: %v", err)
	}
}
