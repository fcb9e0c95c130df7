package ioc

import (
	"log"
	"time"

	"github.com/spf13/viper"
	"github.com/to404hanga/contest_gateway/config"
	"github.com/to404hanga/contest_gateway/job"
	"github.com/to404hanga/contest_gateway/pkg/logger"
	"github.com/to404hanga/contest_gateway/pkg/raida"
)

const defaultWarmupCron = "@every 50m"

func InitScheduler(tokens *raida.TokenProvider, l logger.Logger) *job.CronScheduler {
	var cfg config.TokenConfig
	if err := viper.UnmarshalKey(cfg.Key(), &cfg); err != nil {
		log.Panicf("unmarshal token config failed: %v", err)
	}
	if cfg.Warmup.CronExpr == "" {
		cfg.Warmup.CronExpr = defaultWarmupCron
	}

	scheduler := job.NewCronScheduler(l)
	err := scheduler.AddJob(job.NewTokenWarmupJob(tokens,
		cfg.Warmup.CronExpr,
		cfg.Warmup.Enabled,
		millis(cfg.Warmup.Timeout, 30*time.Second),
		l))
	if err != nil {
		log.Panicf("add token warmup job failed: %v", err)
	}
	return scheduler
}
