package gintool

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/to404hanga/contest_gateway/constants"
	"github.com/to404hanga/contest_gateway/pkg/logger"
)

// GinContextToLoggerContext 将 Gin 上下文转换为 Logger 上下文
func GinContextToLoggerContext(c *gin.Context) context.Context {
	fields := make([]logger.Field, 0, 3)

	if requestID := c.GetString(constants.ContextRequestIDKey); requestID != "" {
		fields = append(fields, logger.String("RequestID", requestID))
	}
	if projectID := c.GetHeader(constants.HeaderProjectIDKey); projectID != "" {
		fields = append(fields, logger.String("ProjectID", projectID))
	}

	return logger.ContextWithFields(c.Request.Context(), fields...)
}

// BindUser 把已认证的用户写入请求参数与日志上下文
func BindUser(c *gin.Context, p interface{ SetUserID(string) }, userID string) {
	if userID == "" {
		return
	}
	p.SetUserID(userID)
	c.Request = c.Request.WithContext(
		logger.ContextWithFields(c.Request.Context(), logger.String("UserID", userID)))
}
