package ioc

import (
	"log"

	"github.com/spf13/viper"
	"github.com/to404hanga/contest_gateway/config"
	"github.com/to404hanga/contest_gateway/service/normalizer"
)

func InitNormalizer() *normalizer.Normalizer {
	var cfg config.NormalizerConfig
	if err := viper.UnmarshalKey(cfg.Key(), &cfg); err != nil {
		log.Panicf("unmarshal normalizer config failed: %v", err)
	}
	formats := make(map[normalizer.Profile]string, len(cfg.Profiles))
	for name, p := range cfg.Profiles {
		formats[normalizer.Profile(name)] = p.DateFormat
	}
	return normalizer.New(cfg.Language, formats)
}
