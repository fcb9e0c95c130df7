package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/to404hanga/contest_gateway/constants"
)

type CORSMiddlewareBuilder struct {
	cfg cors.Config
}

func NewCORSMiddlewareBuilder(allowOrigins, allowMethods, allowHeaders, exposeHeaders []string, allowCredentials bool, maxAge time.Duration) *CORSMiddlewareBuilder {
	cfg := cors.Config{
		AllowMethods:     allowMethods,
		AllowHeaders:     allowHeaders,
		ExposeHeaders:    append(exposeHeaders, constants.HeaderRequestIDKey),
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	}
	// 通配符与凭据不能同时使用
	if len(allowOrigins) == 0 || (len(allowOrigins) == 1 && allowOrigins[0] == "*" && !allowCredentials) {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowOrigins
	}
	if len(cfg.AllowMethods) == 0 {
		cfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	}
	if len(cfg.AllowHeaders) == 0 {
		cfg.AllowHeaders = []string{
			"Content-Type",
			constants.HeaderAuthorizationKey,
			constants.HeaderProjectIDKey,
			constants.HeaderAccountIDKey,
			constants.HeaderRequestIDKey,
		}
	}
	return &CORSMiddlewareBuilder{cfg: cfg}
}

func (b *CORSMiddlewareBuilder) Build() gin.HandlerFunc {
	return cors.New(b.cfg)
}
