package ioc

import (
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/to404hanga/contest_gateway/config"
	"github.com/to404hanga/contest_gateway/pkg/logger"
	"github.com/to404hanga/contest_gateway/web/jwt"
	"github.com/to404hanga/contest_gateway/web/middleware"
)

func InitJWTHandler(rdb redis.Cmdable) jwt.Handler {
	var cfg config.JWTConfig
	if err := viper.UnmarshalKey(cfg.Key(), &cfg); err != nil {
		log.Panicf("unmarshal jwt config failed: %v", err)
	}
	cfg.PublicKey = viper.GetString("jwt.publicKey")
	if cfg.Algorithm == "" {
		cfg.Algorithm = "RS256"
	}

	var sessions redis.Cmdable
	if cfg.CheckSession {
		if rdb == nil {
			log.Panicf("jwt.checkSession requires redis")
		}
		sessions = rdb
	}
	handler, err := jwt.NewRedisJWTHandler(sessions, cfg.Algorithm, cfg.PublicKey)
	if err != nil {
		log.Panicf("init jwt handler failed: %v", err)
	}
	return handler
}

func InitJWTMiddlewareBuilder(handler jwt.Handler, l logger.Logger) *middleware.JWTMiddlewareBuilder {
	return middleware.NewJWTMiddlewareBuilder(handler, l)
}
