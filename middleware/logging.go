// logging.go - Request logging and CORS middleware

package middleware

import (
	"net/http"
	"time"

	"go-training-backend/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request through log.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		keyvals := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
		}
		switch {
		case status >= 500:
			log.Error("request", keyvals...)
		case status >= 400:
			log.Warn("request", keyvals...)
		default:
			log.Info("request", keyvals...)
		}
	}
}

// CORS allows the browser front end to call the API from another origin.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
