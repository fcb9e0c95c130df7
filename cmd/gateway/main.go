package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultConfigPath      = "./config/config.yaml"
	defaultShutdownTimeout = 15 * time.Second
)

func main() {
	// .env 只在本地开发时存在
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Panicf("load .env failed: %v", err)
	}

	cfile := pflag.String("config", defaultConfigPath, "config file path")
	pflag.Parse()

	viper.SetConfigFile(*cfile)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		log.Panicf("read config file failed: %v", err)
	}

	gin.DisableBindValidation()

	app, cleanup := BuildApp()
	defer cleanup()

	if err := app.Scheduler.Start(); err != nil {
		log.Panicf("cron scheduler failed: %v", err)
	}
	// 预热失败不阻止启动, 首个请求会再次换取 token
	if err := app.WarmUp(context.Background()); err != nil {
		log.Printf("token warmup failed: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("gin server start, addr: %s", app.Server.Addr)
		errCh <- app.Server.Start()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			log.Printf("gin server failed: %v", err)
		}
	case <-ctx.Done():
		log.Println("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout())
	defer cancel()
	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		log.Printf("gin server shutdown failed: %v", err)
	}
	app.Scheduler.Stop()
}

func shutdownTimeout() time.Duration {
	if ms := viper.GetInt("server.shutdownTimeout"); ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultShutdownTimeout
}
