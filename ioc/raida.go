package ioc

import (
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/to404hanga/contest_gateway/config"
	"github.com/to404hanga/contest_gateway/pkg/logger"
	"github.com/to404hanga/contest_gateway/pkg/raida"
	"github.com/to404hanga/contest_gateway/pkg/upstream"
)

const defaultUpstreamTimeout = 10 * time.Second

func millis(ms int, fallback time.Duration) time.Duration {
	if ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func raidaConfig() config.RaidaConfig {
	var cfg config.RaidaConfig
	if err := viper.UnmarshalKey(cfg.Key(), &cfg); err != nil {
		log.Panicf("unmarshal raida config failed: %v", err)
	}
	// UnmarshalKey 不读取环境变量, 密钥单独取以便 RAIDA_PASSWORD 覆盖
	cfg.Password = viper.GetString("raida.password")
	if cfg.BaseURL == "" {
		log.Panicf("raida.baseURL is required")
	}
	return cfg
}

// InitTokenProvider token 存储按 token.store 选择, 选择 redis 但未配置 redis 时回退到内存
func InitTokenProvider(rdb redis.Cmdable, l logger.Logger) *raida.TokenProvider {
	rcfg := raidaConfig()
	var cfg config.TokenConfig
	if err := viper.UnmarshalKey(cfg.Key(), &cfg); err != nil {
		log.Panicf("unmarshal token config failed: %v", err)
	}

	timeout := millis(rcfg.Timeout, defaultUpstreamTimeout)
	auth := raida.NewAuthenticator(upstream.NewClient(timeout), rcfg.BaseURL, rcfg.Username, rcfg.Password)

	var store raida.TokenStore = raida.NewMemoryTokenStore()
	if cfg.Store == "redis" {
		if rdb == nil {
			l.Warn("token.store is redis but redis is not configured, using memory store")
		} else {
			store = raida.NewRedisTokenStore(rdb, cfg.RedisKey)
		}
	}

	opts := []raida.TokenOption{
		raida.WithFetchTimeout(timeout),
		raida.WithFailurePolicy(raida.FailurePolicy(cfg.OnFailure)),
	}
	if cfg.TTL > 0 {
		opts = append(opts, raida.WithTTL(time.Duration(cfg.TTL)*time.Second))
	}
	return raida.NewTokenProvider(auth, store, l, opts...)
}

func InitRaidaClient(tokens *raida.TokenProvider) *raida.Client {
	cfg := raidaConfig()
	httpClient := upstream.NewClient(millis(cfg.Timeout, defaultUpstreamTimeout),
		upstream.WithRetries(cfg.Retries, millis(cfg.RetryBackoff, 200*time.Millisecond)))
	return raida.NewClient(httpClient, cfg.BaseURL, tokens)
}
