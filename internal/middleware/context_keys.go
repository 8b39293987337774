package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDKey    = contextKey("userID")
	roleKey      = contextKey("role")
)

// Role is the caller's role claim.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	return GetUserIDFromCtx(c.Request.Context())
}

// GetUserIDFromCtx retrieves the authenticated user ID from a request context.
func GetUserIDFromCtx(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetRoleFromContext returns the caller's role. Unknown or missing roles are
// treated as student.
func GetRoleFromContext(c *gin.Context) Role {
	if role, ok := c.Request.Context().Value(roleKey).(Role); ok && role == RoleAdmin {
		return RoleAdmin
	}
	return RoleStudent
}

// IsAdmin is shorthand for GetRoleFromContext(c) == RoleAdmin.
func IsAdmin(c *gin.Context) bool {
	return GetRoleFromContext(c) == RoleAdmin
}
