package ioc

import (
	"log"

	"github.com/spf13/viper"
	"github.com/to404hanga/contest_gateway/config"
	"github.com/to404hanga/contest_gateway/constants"
	"github.com/to404hanga/contest_gateway/pkg/logger"
)

func InitLogger() logger.Logger {
	var cfg config.LogConfig
	if err := viper.UnmarshalKey(cfg.Key(), &cfg); err != nil {
		log.Panicf("unmarshal log config failed: %v", err)
	}
	zl, err := logger.New(cfg.Level, cfg.Format)
	if err != nil {
		log.Panicf("init logger failed: %v", err)
	}
	return logger.NewZapLogger(zl).With(logger.String("service", constants.GatewayServiceName))
}
