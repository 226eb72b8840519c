package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger assigns a request id and logs one line per request. Health
// and metrics probes are not logged.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("request_id", rid)
		c.Header(requestIDHeader, rid)

		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		if path == "/health" || path == "/metrics" {
			return
		}
		if q := c.Request.URL.RawQuery; q != "" {
			path += "?" + q
		}

		fields := []zap.Field{
			zap.String("request_id", rid),
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}
		for _, ginErr := range c.Errors {
			fields = append(fields, zap.Error(ginErr.Err))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.Error("Server error", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("Client error", fields...)
		default:
			log.Info("Request completed", fields...)
		}
	}
}
