package middleware

import (
	"encoding/json"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

// AccessLogger replaces Gin's default logger with compact JSON lines
// suitable for centralized aggregation. Request bodies and credentials are
// never logged.
func AccessLogger() gin.HandlerFunc {
	hostname, _ := os.Hostname()
	return gin.LoggerWithFormatter(func(p gin.LogFormatterParams) string {
		entry := struct {
			Timestamp string  `json:"ts"`
			Level     string  `json:"level"`
			Hostname  string  `json:"host"`
			RequestID string  `json:"requestId,omitempty"`
			ClientIP  string  `json:"ip"`
			Method    string  `json:"method"`
			Path      string  `json:"path"`
			Status    int     `json:"status"`
			LatencyMs float64 `json:"latencyMs"`
			Size      int     `json:"size"`
			Error     string  `json:"error,omitempty"`
		}{
			Timestamp: p.TimeStamp.UTC().Format(time.RFC3339Nano),
			Level:     "info",
			Hostname:  hostname,
			ClientIP:  p.ClientIP,
			Method:    p.Method,
			Path:      p.Path,
			Status:    p.StatusCode,
			LatencyMs: float64(p.Latency) / float64(time.Millisecond),
			Size:      p.BodySize,
			Error:     p.ErrorMessage,
		}
		if id, ok := p.Keys["requestId"].(string); ok {
			entry.RequestID = id
		}
		b, _ := json.Marshal(entry)
		return string(b) + "\n"
	})
}
