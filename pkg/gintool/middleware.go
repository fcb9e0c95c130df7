package gintool

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/to404hanga/contest_gateway/constants"
)

// ContextMiddleware 上下文中间件, 生成请求 ID 并写入日志字段
func ContextMiddleware(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderRequestIDKey)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(constants.ContextRequestIDKey, requestID)
		if version != "" {
			c.Set(apiVersionKey, version)
		}
		c.Header(constants.HeaderRequestIDKey, requestID)
		c.Request = c.Request.WithContext(GinContextToLoggerContext(c))
		c.Next()
	}
}
