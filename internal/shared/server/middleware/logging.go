package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"workvouch/internal/shared/telemetry"
)

// Logging emits a structured log per request. Handlers may add "employeeId"
// or "plan" to the gin context to have them included.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if employerID := EmployerIDFromContext(c); employerID != "" {
			fields["employer_id"] = employerID
		}
		if employeeID := c.GetString("employeeId"); employeeID != "" {
			fields["employee_id"] = employeeID
		}
		if plan := c.GetString("plan"); plan != "" {
			fields["plan"] = plan
		}
		telemetry.Info("request.complete", fields)
	}
}
