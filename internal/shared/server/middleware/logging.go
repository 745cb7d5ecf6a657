package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fit-backend/internal/shared/metrics"
	"fit-backend/internal/shared/telemetry"
)

// Context keys handlers set so the request log can carry domain ids.
const (
	ResultIDKey      = "fitResultId"
	ResumeFileIDKey  = "resumeFileId"
	CorrelationIDKey = "correlationId"
)

// Logging emits a structured log per request and counts it.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.IncHTTPRequest(route, status)

		telemetry.Info("request.complete", map[string]any{
			"request_id":     RequestIDFromContext(c),
			"method":         c.Request.Method,
			"route":          route,
			"path":           c.Request.URL.Path,
			"status":         status,
			"duration_ms":    float64(latency.Microseconds()) / 1000.0,
			"user_id":        c.GetString(userIDKey),
			"is_guest":       c.GetBool(isGuestKey),
			"fit_result_id":  c.GetString(ResultIDKey),
			"resume_file_id": c.GetString(ResumeFileIDKey),
			"correlation_id": c.GetString(CorrelationIDKey),
			"client_ip":      c.ClientIP(),
		})
	}
}
