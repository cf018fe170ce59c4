package log

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the per-request id in both directions
const RequestIDHeader = "X-Request-ID"

// GinMiddleware assigns a request id (reusing a caller-supplied one), stores it on the request
// context and logs one line per request through logrus.
func GinMiddleware(entry *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), requestID))

		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"duration":   time.Since(start),
			"client_ip":  c.ClientIP(),
		}
		reqLog := entry.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= 500:
			reqLog.Error("Request failed")
		case status >= 400:
			reqLog.Warn("Request rejected")
		default:
			reqLog.Info("Request served")
		}
	}
}
