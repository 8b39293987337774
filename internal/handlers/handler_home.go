package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker func(ctx context.Context) error

// getHealth godoc
// @Summary Show the status of server.
// @Tags root
// @Produce plain
// @Success 200 {string} string "OK"
// @Failure 503 {string} string "database unreachable"
// @Router /health [get]
func getHealth(check HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				c.String(http.StatusServiceUnavailable, "database unreachable")
				return
			}
		}
		c.String(http.StatusOK, "OK")
	}
}

func getHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Academic Credit Ledger API v1"})
}
