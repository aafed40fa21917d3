package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homestay/internal/shared/config"
	"homestay/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newRouter(cfg *config.Config, roles ...users.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{JWTAuthWithConfig(cfg)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRoles(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		id, role, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, id+":"+string(role))
	})
	r.GET("/me", handlers...)
	return r
}

func TestJWTAuth(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret"}}

	valid := signToken(t, cfg.JWT.Secret, jwt.MapClaims{
		"user_id": "guest-1",
		"email":   "guest@example.com",
		"role":    "guest",
		"type":    "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	refresh := signToken(t, cfg.JWT.Secret, jwt.MapClaims{
		"user_id": "guest-1",
		"type":    "refresh",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	wrongKey := signToken(t, "other-secret", jwt.MapClaims{
		"user_id": "guest-1",
		"type":    "access",
	})

	testCases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "valid access token", header: "Bearer " + valid, status: http.StatusOK, body: "guest-1:GUEST"},
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "not bearer", header: "Token " + valid, status: http.StatusUnauthorized},
		{name: "refresh token", header: "Bearer " + refresh, status: http.StatusUnauthorized},
		{name: "bad signature", header: "Bearer " + wrongKey, status: http.StatusUnauthorized},
	}

	r := newRouter(cfg)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, w.Body.String())
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret"}}
	guest := signToken(t, cfg.JWT.Secret, jwt.MapClaims{"user_id": "g", "role": "GUEST", "type": "access"})
	owner := signToken(t, cfg.JWT.Secret, jwt.MapClaims{"user_id": "o", "role": "OWNER", "type": "access"})

	r := newRouter(cfg, users.RoleOwner, users.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+guest)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+owner)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "o:OWNER", w.Body.String())
}
