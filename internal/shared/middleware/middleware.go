package middleware

import (
	"net/http"
	"strings"

	"homestay/internal/shared/config"
	"homestay/internal/shared/utils/response"
	"homestay/internal/users"
	"homestay/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextUserRole  = "user_role"
)

// JWTAuthWithConfig validates access tokens issued by the identity service
func JWTAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	log := logger.GetDefault()

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.LogAuthFailure(c.Request.Context(), "missing authorization header", c.ClientIP())
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authorization header is required", nil, nil)
			c.Abort()
			return
		}

		claims, err := parseAccessToken(authHeader, cfg.JWT.Secret)
		if err != nil {
			log.LogAuthFailure(c.Request.Context(), err.Error(), c.ClientIP())
			response.RespondJSON(c, "error", http.StatusUnauthorized, err.Error(), nil, nil)
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

type authError string

func (e authError) Error() string { return string(e) }

func parseAccessToken(authHeader, secret string) (jwt.MapClaims, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, authError("authorization header format must be Bearer {token}")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, authError("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, authError("invalid token claims")
	}
	if tokenType, ok := claims["type"]; !ok || tokenType != "access" {
		return nil, authError("invalid token type")
	}
	if _, ok := claims["user_id"].(string); !ok {
		return nil, authError("token has no subject")
	}
	return claims, nil
}

func setClaims(c *gin.Context, claims jwt.MapClaims) {
	c.Set(ContextUserID, claims["user_id"])
	c.Set(ContextUserEmail, claims["email"])
	role, _ := claims["role"].(string)
	c.Set(ContextUserRole, strings.ToUpper(role))
}

// CurrentUser returns the authenticated caller set by JWTAuth
func CurrentUser(c *gin.Context) (userID string, role users.Role, ok bool) {
	userID = c.GetString(ContextUserID)
	if userID == "" {
		return "", "", false
	}
	return userID, users.Role(c.GetString(ContextUserRole)), true
}

// RequireRole middleware checks if user has required role
func RequireRole(requiredRole users.Role) gin.HandlerFunc {
	return RequireRoles(requiredRole)
}

// RequireAdmin middleware that requires admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(users.RoleAdmin)
}

// RequireRoles middleware checks if user has any of the required roles
func RequireRoles(requiredRoles ...users.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(ContextUserRole)
		if !exists {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "user role not found in context", nil, nil)
			c.Abort()
			return
		}

		role, _ := userRole.(string)
		for _, required := range requiredRoles {
			if role == string(required) {
				c.Next()
				return
			}
		}

		response.RespondJSON(c, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
		c.Abort()
	}
}
