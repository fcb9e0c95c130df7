package job

import (
	"context"
	"time"

	"github.com/to404hanga/contest_gateway/pkg/logger"
)

const TokenWarmupJobName = "raida_token_warmup"

// TokenRefresher 强制刷新上游 token
type TokenRefresher interface {
	Refresh(ctx context.Context) (string, error)
}

// NewTokenWarmupJob 在 token 过期前主动刷新
func NewTokenWarmupJob(refresher TokenRefresher, cronExpr string, enabled bool, timeout time.Duration, log logger.Logger) *JobConfig {
	return &JobConfig{
		Name:        TokenWarmupJobName,
		CronExpr:    cronExpr,
		Description: "refresh the task store bearer token",
		Enabled:     enabled,
		Timeout:     timeout,
		JobFunc: func(ctx context.Context) error {
			if _, err := refresher.Refresh(ctx); err != nil {
				return err
			}
			log.InfoContext(ctx, "task store token refreshed")
			return nil
		},
	}
}
