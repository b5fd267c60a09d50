// middleware/jwt_middleware_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visatrack/visatrack_backend/config"
)

func TestGenerateJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT(42, "agent@example.com", "agent")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims := &JwtCustomClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "agent@example.com", claims.Email)
	assert.Equal(t, "agent", claims.Role)
	assert.Zero(t, claims.ExpiresAt)
}

func TestJWTMiddlewareSessionContext(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT(7, "client@example.com", "client")
	require.NoError(t, err)

	e := echo.New()
	e.GET("/whoami", func(c echo.Context) error {
		userID, err := ExtractUserID(c)
		require.NoError(t, err)
		return c.JSON(http.StatusOK, map[string]interface{}{
			"userId": userID,
			"role":   ExtractRole(c),
		})
	}, JWTMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userId":7`)
	assert.Contains(t, rec.Body.String(), `"role":"client"`)

	// No token at all
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBlacklistInMemory(t *testing.T) {
	config.RedisClient = nil

	assert.False(t, IsTokenBlacklisted("tok-memory"))
	BlacklistToken("tok-memory")
	assert.True(t, IsTokenBlacklisted("tok-memory"))
}

func TestBlacklistRedisBacked(t *testing.T) {
	srv := miniredis.RunT(t)
	config.RedisClient = redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { config.RedisClient = nil })

	BlacklistToken("tok-redis")
	assert.True(t, IsTokenBlacklisted("tok-redis"))
	assert.True(t, srv.Exists("token:blacklist:tok-redis"))
}

func TestBlacklistedTokenRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	config.RedisClient = nil

	token, err := GenerateJWT(9, "admin@example.com", "admin")
	require.NoError(t, err)
	BlacklistToken(token)

	e := echo.New()
	e.GET("/whoami", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, JWTMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
