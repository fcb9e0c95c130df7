package ioc

import (
	"log"

	"github.com/spf13/viper"
	"github.com/to404hanga/contest_gateway/config"
	"github.com/to404hanga/contest_gateway/pkg/configs"
	"github.com/to404hanga/contest_gateway/pkg/upstream"
)

func InitConfigsClient() *configs.Client {
	var cfg config.ConfigsConfig
	if err := viper.UnmarshalKey(cfg.Key(), &cfg); err != nil {
		log.Panicf("unmarshal configs config failed: %v", err)
	}
	if cfg.BaseURL == "" {
		log.Panicf("configs.baseURL is required")
	}
	return configs.NewClient(upstream.NewClient(millis(cfg.Timeout, defaultUpstreamTimeout)), cfg.BaseURL)
}
