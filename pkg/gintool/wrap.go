package gintool

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/to404hanga/contest_gateway/constants"
	"github.com/to404hanga/contest_gateway/model"
	"github.com/to404hanga/contest_gateway/pkg/apierr"
	"github.com/to404hanga/contest_gateway/pkg/logger"
	"github.com/to404hanga/contest_gateway/web/jwt"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator 与 binding 标签共用的校验器, gin 自带的绑定校验已关闭
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.SetTagName("binding")
	})
	return validate
}

// WrapHandler 包装处理函数: uri -> header -> query -> body, 然后统一校验
func WrapHandler[T any, PT interface {
	*T
	model.CommonParamInterface
}](h func(c *gin.Context, param PT), log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		param := PT(new(T))

		// 1) URI
		if len(c.Params) > 0 {
			if err := c.ShouldBindUri(param); err != nil {
				Abort(c, &apierr.BindError{Source: "uri", Err: err})
				log.WarnContext(ctx, "WrapHandler bind uri failed", logger.Error(err))
				return
			}
		}

		// 2) Header, 缺失或非法的项目头返回 401
		if err := c.ShouldBindHeader(param); err != nil {
			Abort(c, &apierr.BindError{Source: "header", Err: err})
			log.WarnContext(ctx, "WrapHandler bind header failed", logger.Error(err))
			return
		}
		if err := Validator().Struct(param.Common()); err != nil {
			Abort(c, apierr.Wrap(err, http.StatusUnauthorized, apierr.CodeBadRequest, headerMessage(err)))
			log.WarnContext(ctx, "WrapHandler invalid headers", logger.Error(err))
			return
		}

		// 3) Query
		if c.Request.URL != nil && c.Request.URL.RawQuery != "" {
			if err := c.ShouldBindQuery(param); err != nil {
				Abort(c, &apierr.BindError{Source: "query", Err: err})
				log.WarnContext(ctx, "WrapHandler bind query failed", logger.Error(err))
				return
			}
		}

		// 4) Body
		if err := bindBody(c, param); err != nil {
			Abort(c, &apierr.BindError{Source: "body", Err: err})
			log.WarnContext(ctx, "WrapHandler bind body failed", logger.Error(err))
			return
		}

		if err := Validator().Struct(param); err != nil {
			Abort(c, err)
			log.WarnContext(ctx, "WrapHandler validate failed", logger.Error(err))
			return
		}

		if claims, ok := UserClaims(c); ok {
			BindUser(c, param, claims.UserID)
		}

		h(c, param)
	}
}

// UserClaims 取出认证中间件写入的用户信息
func UserClaims(c *gin.Context) (jwt.UserClaims, bool) {
	v, exists := c.Get(constants.ContextUserClaimsKey)
	if !exists {
		return jwt.UserClaims{}, false
	}
	claims, ok := v.(jwt.UserClaims)
	return claims, ok && claims.UserID != ""
}

func bindBody(c *gin.Context, param any) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody || c.Request.ContentLength == 0 {
		return nil
	}
	switch c.ContentType() {
	case binding.MIMEMultipartPOSTForm:
		return c.ShouldBindWith(param, binding.FormMultipart)
	case binding.MIMEPOSTForm:
		return c.ShouldBindWith(param, binding.FormPost)
	default:
		return c.ShouldBindJSON(param)
	}
}

func headerMessage(err error) string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		f := errs[0]
		return fmt.Sprintf("header %s is invalid: %s", headerName(f.StructField()), f.Tag())
	}
	return err.Error()
}

func headerName(field string) string {
	switch field {
	case "ProjectID":
		return constants.HeaderProjectIDKey
	case "AccountID":
		return constants.HeaderAccountIDKey
	}
	return field
}
