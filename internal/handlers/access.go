package handlers

import (
	"net/http"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/middleware"
	"github.com/gin-gonic/gin"
)

// callerID returns the authenticated user, writing a 401 when there is none.
func callerID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// studentFilter returns the ownership check for service-level reads, nil for admins.
func studentFilter(c *gin.Context) func(studentID string) bool {
	if middleware.IsAdmin(c) {
		return nil
	}
	userID, _ := middleware.GetUserIDFromContext(c)
	return func(studentID string) bool {
		return userID != "" && userID == studentID
	}
}

// canAccessStudent allows admins everything and students only their own data.
// Student IDs are the subject of the student's token.
func canAccessStudent(c *gin.Context, studentID string) bool {
	if middleware.IsAdmin(c) {
		return true
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if ok && userID == studentID {
		return true
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	return false
}
