package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/to404hanga/contest_gateway/constants"
	"github.com/to404hanga/contest_gateway/pkg/apierr"
	"github.com/to404hanga/contest_gateway/pkg/gintool"
	"github.com/to404hanga/contest_gateway/pkg/logger"
	cgjwt "github.com/to404hanga/contest_gateway/web/jwt"
)

type JWTMiddlewareBuilder struct {
	cgjwt.Handler
	log logger.Logger
}

func NewJWTMiddlewareBuilder(handler cgjwt.Handler, log logger.Logger) *JWTMiddlewareBuilder {
	return &JWTMiddlewareBuilder{
		Handler: handler,
		log:     log,
	}
}

// Optional 没有 Authorization 头时匿名放行, 有则必须合法
func (m *JWTMiddlewareBuilder) Optional() gin.HandlerFunc {
	return m.build(false)
}

// Required 必须携带合法的 bearer token
func (m *JWTMiddlewareBuilder) Required() gin.HandlerFunc {
	return m.build(true)
}

func (m *JWTMiddlewareBuilder) build(required bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, present := m.ExtractToken(ctx)
		if !present {
			if required {
				gintool.Abort(ctx, apierr.Wrap(cgjwt.ErrTokenMissing, http.StatusForbidden, apierr.CodeTokenIncorrect, "Учетные данные не были предоставлены."))
				return
			}
			ctx.Next()
			return
		}

		uc, err := m.ParseToken(token)
		if err == nil {
			err = m.CheckSession(ctx.Request.Context(), uc.Ssid)
		}
		if err != nil {
			m.log.WarnContext(ctx.Request.Context(), "JWT authentication failed", logger.Error(err))
			gintool.Abort(ctx, authError(err))
			return
		}

		ctx.Set(constants.ContextUserClaimsKey, uc)
		ctx.Next()
	}
}

func authError(err error) *apierr.Error {
	switch {
	case errors.Is(err, cgjwt.ErrTokenExpired):
		return apierr.Wrap(err, http.StatusUnauthorized, apierr.CodeTokenExpired, "Токен устарел")
	case errors.Is(err, cgjwt.ErrTokenIncorrect):
		return apierr.Wrap(err, http.StatusUnauthorized, apierr.CodeTokenIncorrect, "Некорректный токен")
	}
	return apierr.Wrap(err, http.StatusInternalServerError, apierr.CodeInternalServerError, "session check failed")
}
