package middleware

import (
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/to404hanga/contest_gateway/pkg/apierr"
	"github.com/to404hanga/contest_gateway/pkg/gintool"
	"github.com/to404hanga/contest_gateway/pkg/logger"
)

type RecoveryMiddlewareBuilder struct {
	log logger.Logger
}

func NewRecoveryMiddlewareBuilder(log logger.Logger) *RecoveryMiddlewareBuilder {
	return &RecoveryMiddlewareBuilder{
		log: log,
	}
}

// Build panic 转为 INTERNAL_SERVER_ERROR 信封, 堆栈写入日志
func (b *RecoveryMiddlewareBuilder) Build() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		b.log.ErrorContext(c.Request.Context(), "panic recovered",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.String("panic", fmt.Sprint(rec)),
			logger.String("stack", string(debug.Stack())))
		gintool.Abort(c, apierr.Wrap(fmt.Errorf("panic: %v", rec),
			http.StatusInternalServerError, apierr.CodeInternalServerError, "Внутренняя ошибка сервера."))
	})
}
