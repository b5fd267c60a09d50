// middleware/jwt_middleware.go
package middleware

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/visatrack/visatrack_backend/config"
)

// JwtCustomClaims for JWT token. The session is the pair {userId, role};
// there is no refresh or expiry logic.
type JwtCustomClaims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// Valid implements the Claims interface for Echo's JWT middleware.
func (c JwtCustomClaims) Valid() error {
	if c.ExpiresAt > 0 && time.Now().Unix() > c.ExpiresAt {
		return errors.New("token is expired")
	}
	if c.NotBefore > 0 && time.Now().Unix() < c.NotBefore {
		return errors.New("token used before valid")
	}
	return nil
}

// Token blacklist. Logout invalidates the presented token. Backed by Redis
// when configured, otherwise an in-process map.
var (
	tokenBlacklist   = make(map[string]struct{})
	tokenBlacklistMu sync.RWMutex
)

const blacklistKeyPrefix = "token:blacklist:"

// BlacklistToken invalidates a token.
func BlacklistToken(token string) {
	if config.RedisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := config.RedisClient.Set(ctx, blacklistKeyPrefix+token, "1", 0).Err(); err == nil {
			return
		}
		// Fall through to the in-memory map on Redis failure
	}
	tokenBlacklistMu.Lock()
	tokenBlacklist[token] = struct{}{}
	tokenBlacklistMu.Unlock()
}

// IsTokenBlacklisted checks if a token has been invalidated.
func IsTokenBlacklisted(token string) bool {
	tokenBlacklistMu.RLock()
	_, exists := tokenBlacklist[token]
	tokenBlacklistMu.RUnlock()
	if exists {
		return true
	}
	if config.RedisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		n, err := config.RedisClient.Exists(ctx, blacklistKeyPrefix+token).Result()
		if err == nil && n > 0 {
			return true
		}
	}
	return false
}

// JWTMiddleware returns a configured JWT middleware. Missing or invalid
// tokens map to 401; the error body uses the standard error envelope.
func JWTMiddleware() echo.MiddlewareFunc {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Printf("Warning: JWT_SECRET environment variable is not set")
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return echo.NewHTTPError(echo.ErrUnauthorized.Code, "JWT configuration error")
			}
		}
	}

	return echoMiddleware.JWTWithConfig(echoMiddleware.JWTConfig{
		SigningKey: []byte(secret),
		Claims:     &JwtCustomClaims{},
		SuccessHandler: func(c echo.Context) {
			token := c.Get("user").(*jwt.Token)

			if IsTokenBlacklisted(token.Raw) {
				c.Error(echo.NewHTTPError(echo.ErrUnauthorized.Code, "Token has been invalidated"))
				return
			}

			claims := token.Claims.(*JwtCustomClaims)
			c.Set("userId", claims.UserID)
			c.Set("role", claims.Role)
			c.Set("email", claims.Email)
		},
		ErrorHandler: func(err error) error {
			return echo.NewHTTPError(echo.ErrUnauthorized.Code, "Not authenticated")
		},
	})
}

// GenerateJWT generates a new session token carrying {userId, role}.
func GenerateJWT(userID int64, email, role string) (string, error) {
	claims := &JwtCustomClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: 0, // sessions do not expire
			IssuedAt:  time.Now().Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET environment variable is required")
	}

	return token.SignedString([]byte(secret))
}

// GetUserFromToken extracts the session claims from the request context.
func GetUserFromToken(c echo.Context) *JwtCustomClaims {
	user := c.Get("user")
	if user == nil {
		return nil
	}

	token, ok := user.(*jwt.Token)
	if !ok {
		return nil
	}

	claims, ok := token.Claims.(*JwtCustomClaims)
	if !ok {
		return nil
	}

	return claims
}

// ExtractUserID returns the authenticated user's id.
func ExtractUserID(c echo.Context) (int64, error) {
	if userID, ok := c.Get("userId").(int64); ok && userID != 0 {
		return userID, nil
	}

	claims := GetUserFromToken(c)
	if claims != nil && claims.UserID != 0 {
		return claims.UserID, nil
	}

	return 0, errors.New("invalid user ID in token")
}

// ExtractRole returns the authenticated user's role, or "".
func ExtractRole(c echo.Context) string {
	if role, ok := c.Get("role").(string); ok && role != "" {
		return role
	}

	claims := GetUserFromToken(c)
	if claims != nil {
		return claims.Role
	}

	return ""
}

// RawToken returns the presented token string, for blacklisting on logout.
func RawToken(c echo.Context) string {
	user := c.Get("user")
	if user == nil {
		return ""
	}
	token, ok := user.(*jwt.Token)
	if !ok {
		return ""
	}
	return token.Raw
}
