package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-space/core/internal/models"
	"github.com/inkwell-space/core/internal/pkg/jwt"
	"github.com/inkwell-space/core/internal/pkg/response"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "user_role"
)

// Auth returns a middleware that enforces JWT authentication.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := validateToken(extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyRole, claims.Role)
		c.Next()
	}
}

// AdminOnly enforces authentication and the ADMIN role. A valid token with
// the wrong role is treated the same as no token.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := validateToken(extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		if claims.Role != string(models.RoleAdmin) {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyRole, claims.Role)
		c.Next()
	}
}

// OptionalAuth sets the user identity if a valid token is present, but does
// not block the request.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := validateToken(extractToken(c)); err == nil && claims.UserID != "" {
			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeyRole, claims.Role)
		}
		c.Next()
	}
}

func validateToken(rawToken string) (*jwt.Claims, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return nil, errors.New("token is required")
	}
	return jwt.Parse(token)
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// IsAuthenticated returns true if the request has a valid auth token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != ""
}

// IsAdmin returns true if the request is authenticated as the owner.
func IsAdmin(c *gin.Context) bool {
	v, _ := c.Get(ContextKeyRole)
	role, _ := v.(string)
	return role == string(models.RoleAdmin)
}

func extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
