package middleware

import (
	"net/http"
	"strings"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/utils/analytics"
	"github.com/gin-gonic/gin"
)

var pathsToSkip = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// AnalyticsMiddleware records a PostHog event for every successful authenticated request.
// The event name is derived from the route, e.g. "api_v1_credits_:creditID_approve".
func AnalyticsMiddleware(tracker *analytics.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !tracker.Enabled() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}
		eventName := strings.ReplaceAll(strings.TrimPrefix(c.FullPath(), "/"), "/", "_")
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
			"role":        string(GetRoleFromContext(c)),
		}
		for _, p := range c.Params {
			props[p.Key] = p.Value
		}
		tracker.Enqueue(userID, eventName, props)
	}
}

// TrackEvent sends a custom event on behalf of the authenticated caller.
func TrackEvent(c *gin.Context, tracker *analytics.Tracker, eventName string, properties map[string]any) {
	if !tracker.Enabled() {
		return
	}
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}
	if properties == nil {
		properties = make(map[string]any)
	}
	tracker.Enqueue(userID, eventName, properties)
}
