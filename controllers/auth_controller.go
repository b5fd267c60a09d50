// controllers/auth_controller.go
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
	"github.com/visatrack/visatrack_backend/utils"
)

// AuthController contains authentication logic.
type AuthController struct {
	store  *repositories.Storage
	logger *log.Logger
}

// NewAuthController creates a new auth controller.
func NewAuthController(store *repositories.Storage) *AuthController {
	return &AuthController{
		store:  store,
		logger: log.New(os.Stdout, "[AUTH] ", log.LstdFlags),
	}
}

// Signup handles self-registration. Agents and clients must name the admin
// they work under; the role row is created right after the user row, and a
// role-row failure deletes the freshly created user so no orphan remains.
func (ac *AuthController) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "All fields are required"})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid email format"})
	}
	req.Email = email
	req.Name = utils.SanitizeInput(req.Name)

	ctx := c.Request().Context()

	if _, err := ac.store.GetUserByEmail(ctx, req.Email); err == nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Email already registered"})
	} else if !errors.Is(err, repositories.ErrNotFound) {
		ac.logger.Printf("signup email lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Signup failed"})
	}

	// Agents and clients must select an admin when self-registering
	if req.Role == models.RoleAgent || req.Role == models.RoleClient {
		if req.AdminID == nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Please select an admin to work with"})
		}
		admin, err := ac.store.GetUserByID(ctx, *req.AdminID)
		if err != nil || admin.Role != models.RoleAdmin {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Selected admin does not exist"})
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		ac.logger.Printf("password hash failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Signup failed"})
	}

	user, err := ac.store.CreateUser(ctx, req.Name, req.Email, hash, req.Role)
	if err != nil {
		ac.logger.Printf("create user failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Signup failed"})
	}

	switch req.Role {
	case models.RoleAgent:
		if _, err := ac.store.CreateAgent(ctx, user.ID, *req.AdminID); err != nil {
			ac.logger.Printf("create agent row failed, deleting user %d: %v", user.ID, err)
			if delErr := ac.store.DeleteUser(ctx, user.ID); delErr != nil {
				ac.logger.Printf("compensation delete failed for user %d: %v", user.ID, delErr)
			}
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Signup failed"})
		}
	case models.RoleClient:
		if _, err := ac.store.CreateClient(ctx, user.ID, *req.AdminID, nil); err != nil {
			ac.logger.Printf("create client row failed, deleting user %d: %v", user.ID, err)
			if delErr := ac.store.DeleteUser(ctx, user.ID); delErr != nil {
				ac.logger.Printf("compensation delete failed for user %d: %v", user.ID, delErr)
			}
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Signup failed"})
		}
	}

	token, err := middleware.GenerateJWT(user.ID, user.Email, user.Role)
	if err != nil {
		ac.logger.Printf("token generation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Signup failed"})
	}

	return c.JSON(http.StatusOK, models.AuthResponse{User: user.Public(), Token: token})
}

// Login validates the password hash and the requested role. A correct
// password with a mismatched role is rejected identically to a bad
// password, so the response never reveals which part was wrong.
func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "All fields are required"})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid credentials"})
	}

	ctx := c.Request().Context()

	user, err := ac.store.GetUserByEmail(ctx, email)
	if err != nil || user.Role != req.Role {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid credentials"})
	}

	if !utils.CheckPassword(user.Password, req.Password) {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid credentials"})
	}

	token, err := middleware.GenerateJWT(user.ID, user.Email, user.Role)
	if err != nil {
		ac.logger.Printf("token generation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Login failed"})
	}

	return c.JSON(http.StatusOK, models.AuthResponse{User: user.Public(), Token: token})
}

// Logout invalidates the presented session token.
func (ac *AuthController) Logout(c echo.Context) error {
	token := middleware.RawToken(c)
	if token == "" {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Not authenticated"})
	}

	middleware.BlacklistToken(token)
	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Logged out successfully"})
}

// Me returns the authenticated user.
func (ac *AuthController) Me(c echo.Context) error {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Not authenticated"})
	}

	user, err := ac.store.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
		}
		ac.logger.Printf("me lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]models.PublicUser{"user": user.Public()})
}
