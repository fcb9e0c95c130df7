package ioc

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"github.com/to404hanga/contest_gateway/config"
	"github.com/to404hanga/contest_gateway/job"
	"github.com/to404hanga/contest_gateway/pkg/gintool"
	"github.com/to404hanga/contest_gateway/pkg/logger"
	"github.com/to404hanga/contest_gateway/web"
	"github.com/to404hanga/contest_gateway/web/middleware"
)

func apiVersion() string {
	var cfg config.APIConfig
	if err := viper.UnmarshalKey(cfg.Key(), &cfg); err != nil {
		log.Panicf("unmarshal api config failed: %v", err)
	}
	if cfg.Version == "" {
		return gintool.DefaultAPIVersion
	}
	return cfg.Version
}

func InitHealthHandler(scheduler *job.CronScheduler, l logger.Logger) *web.HealthHandler {
	return web.NewHealthHandler(apiVersion(), scheduler, l)
}

func InitGinServer(l logger.Logger, contestHandler *web.ContestHandler, configsHandler *web.ConfigsHandler, healthHandler *web.HealthHandler) *web.GinServer {
	var cfg config.ServerConfig
	if err := viper.UnmarshalKey(cfg.Key(), &cfg); err != nil {
		log.Panicf("unmarshal server config failed, err: %v", err)
	}

	// 优先使用环境变量中设置的服务端口
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8000"
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	corsBuilder := middleware.NewCORSMiddlewareBuilder(
		cfg.AllowOrigins,
		cfg.AllowMethods,
		cfg.AllowHeaders,
		cfg.ExposeHeaders,
		cfg.AllowCredentials,
		time.Duration(cfg.MaxAge)*time.Second)

	engine := gin.New()
	engine.Use(
		middleware.NewRecoveryMiddlewareBuilder(l).Build(),
		corsBuilder.Build(),
		gintool.ContextMiddleware(apiVersion()),
		middleware.NewPrometheusMiddlewareBuilder().Build(),
		middleware.NewAccessLogMiddlewareBuilder(l).Build(),
	)

	contestHandler.Register(engine)
	configsHandler.Register(engine)
	healthHandler.Register(engine)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.Pprof {
		pprof.Register(engine)
	}

	return web.NewGinServer(engine, cfg.Addr, millis(cfg.ReadHeaderTimeout, 10*time.Second))
}

func millis(ms int, fallback time.Duration) time.Duration {
	if ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
