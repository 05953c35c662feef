package middleware

import (
	"fmt"
	"net/http"
	"time"

	"fieldcrm/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

func RequestID(logg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(requestIDHeader, reqID)

		if logg != nil {
			ctx := logg.WithRequestID(c.Request.Context(), reqID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

func Logging(logg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if logg == nil {
			c.Next()
			return
		}

		ctx := logg.WithFields(c.Request.Context(), map[string]any{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})
		c.Request = c.Request.WithContext(ctx)
		start := time.Now()

		c.Next()

		// Handlers may have added fields (user id) to the request context.
		ctx = logg.WithFields(c.Request.Context(), map[string]any{
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		logg.Info(ctx, "request.complete")
	}
}

func Recoverer(logg *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		if logg != nil {
			ctx := logg.WithField(c.Request.Context(), "panic", fmt.Sprint(rec))
			logg.Error(ctx, "panic.recovered", fmt.Errorf("panic: %v", rec))
		}
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}
