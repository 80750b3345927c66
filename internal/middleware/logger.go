package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"imobcrm/internal/pkg/logger"
	"imobcrm/internal/pkg/response"
)

// ErrorLogger logs every request, reports server errors and recovers from panics.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("panic: %v", recovered)
				logger.LogError("panic", err, requestFields(c, start, map[string]interface{}{
					"stack": string(debug.Stack()),
				}))
				response.Abort(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
				return
			}

			for _, ginErr := range c.Errors {
				logger.LogError("request_error", ginErr.Err, requestFields(c, start, map[string]interface{}{
					"gin_error_type": fmt.Sprintf("%v", ginErr.Type),
					"meta":           ginErr.Meta,
				}))
			}
			if len(c.Errors) == 0 && c.Writer.Status() >= http.StatusInternalServerError {
				logger.LogError("http_error", errors.New(http.StatusText(c.Writer.Status())), requestFields(c, start, nil))
				return
			}

			logrus.WithFields(requestFields(c, start, nil)).Info("request")
		}()

		c.Next()
	}
}

func requestFields(c *gin.Context, start time.Time, extra map[string]interface{}) logrus.Fields {
	fields := logrus.Fields{
		"status":     c.Writer.Status(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"client_ip":  c.ClientIP(),
		"user_id":    c.GetInt64(ContextUserID),
		"role":       c.GetString(ContextRole),
		"request_id": requestID(c),
		"latency":    time.Since(start).String(),
	}
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}
