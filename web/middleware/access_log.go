package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/to404hanga/contest_gateway/pkg/gintool"
	"github.com/to404hanga/contest_gateway/pkg/logger"
)

type AccessLogMiddlewareBuilder struct {
	log       logger.Logger
	skipPaths map[string]struct{}
}

// NewAccessLogMiddlewareBuilder 默认不记录健康检查与 /metrics
func NewAccessLogMiddlewareBuilder(log logger.Logger) *AccessLogMiddlewareBuilder {
	return &AccessLogMiddlewareBuilder{
		log: log,
		skipPaths: map[string]struct{}{
			"/health":      {},
			"/health/jobs": {},
			"/metrics":     {},
		},
	}
}

func (b *AccessLogMiddlewareBuilder) Build() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, skip := b.skipPaths[c.Request.URL.Path]; skip {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.String("route", c.FullPath()),
			logger.Int("status", status),
			logger.Duration("latency", time.Since(start)),
			logger.String("client_ip", c.ClientIP()),
		}
		if code := c.GetString(gintool.ErrorCodeKey); code != "" {
			fields = append(fields, logger.String("code", code))
		}
		// 请求上下文中已带有 RequestID 等字段
		ctx := c.Request.Context()
		if status >= http.StatusInternalServerError {
			b.log.ErrorContext(ctx, "request", fields...)
			return
		}
		b.log.InfoContext(ctx, "request", fields...)
	}
}
