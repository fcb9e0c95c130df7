package gintool

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/to404hanga/contest_gateway/pkg/apierr"
)

const (
	DefaultAPIVersion = "0.0.1"

	apiVersionKey = "contest_gateway/api_version"
	// ErrorCodeKey 失败请求的错误码, 供指标中间件读取
	ErrorCodeKey = "contest_gateway/error_code"
)

type Detail struct {
	Code    string `json:"code"`
	Message any    `json:"message"`
}

type Info struct {
	APIVersion string `json:"api_version"`
	Count      *int   `json:"count,omitempty"`
}

// Response 统一响应信封
type Response struct {
	Detail Detail `json:"detail"`
	Data   any    `json:"data"`
	Info   Info   `json:"info"`
}

func apiVersion(c *gin.Context) string {
	if v := c.GetString(apiVersionKey); v != "" {
		return v
	}
	return DefaultAPIVersion
}

// GinResponse 以指定状态码写出信封
func GinResponse(c *gin.Context, status int, resp *Response) {
	resp.Info.APIVersion = apiVersion(c)
	c.JSON(status, resp)
}

// OK 写出单个对象
func OK(c *gin.Context, status int, data any) {
	GinResponse(c, status, &Response{
		Detail: Detail{Code: apierr.CodeOK, Message: "success"},
		Data:   data,
	})
}

// List 写出列表, info.count 为实际返回的条数
func List[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	count := len(items)
	GinResponse(c, http.StatusOK, &Response{
		Detail: Detail{Code: apierr.CodeOK, Message: "success"},
		Data:   items,
		Info:   Info{Count: &count},
	})
}

// Abort 把错误映射为信封并终止请求
func Abort(c *gin.Context, err error) *apierr.Error {
	apiErr := apierr.From(err)
	c.Set(ErrorCodeKey, apiErr.Code)
	_ = c.Error(err)
	resp := &Response{
		Detail: Detail{Code: apiErr.Code, Message: apiErr.Message},
	}
	resp.Info.APIVersion = apiVersion(c)
	c.AbortWithStatusJSON(apiErr.Status, resp)
	return apiErr
}
