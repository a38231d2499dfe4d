package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vessel-tracker/internal/config"
	"vessel-tracker/pkg/utils"
)

const testSecret = "test-secret"

func newAuthRouter(t *testing.T, roleGuard gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret, ExpiryHours: 1}}

	router := gin.New()
	group := router.Group("/protected")
	group.Use(AuthMiddleware(cfg))
	if roleGuard != nil {
		group.Use(roleGuard)
	}
	group.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": c.GetString("role")})
	})
	return router
}

func doAuthed(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	router := newAuthRouter(t, nil)

	token, err := utils.GenerateToken("user-1", "ops@example.com", "operator", testSecret, 1)
	require.NoError(t, err)

	rec := doAuthed(router, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "operator")
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	router := newAuthRouter(t, nil)

	rec := doAuthed(router, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_BadToken(t *testing.T) {
	router := newAuthRouter(t, nil)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"wrong secret", mustToken(t, "other-secret")},
		{"expired", mustExpiredToken(t)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doAuthed(router, tt.token)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRoleMiddleware_AllowsAndDenies(t *testing.T) {
	operatorToken, err := utils.GenerateToken("user-1", "ops@example.com", "operator", testSecret, 1)
	require.NoError(t, err)
	viewerToken, err := utils.GenerateToken("user-2", "viewer@example.com", "viewer", testSecret, 1)
	require.NoError(t, err)

	router := newAuthRouter(t, OperatorOrAdmin())
	assert.Equal(t, http.StatusOK, doAuthed(router, operatorToken).Code)
	assert.Equal(t, http.StatusForbidden, doAuthed(router, viewerToken).Code)

	adminRouter := newAuthRouter(t, AdminOnly())
	assert.Equal(t, http.StatusForbidden, doAuthed(adminRouter, operatorToken).Code)
}

func mustToken(t *testing.T, secret string) string {
	t.Helper()
	token, err := utils.GenerateToken("user-1", "ops@example.com", "operator", secret, 1)
	require.NoError(t, err)
	return token
}

func mustExpiredToken(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateToken("user-1", "ops@example.com", "operator", testSecret, -1)
	require.NoError(t, err)
	return token
}
