package ioc

import (
	"context"

	"github.com/to404hanga/contest_gateway/job"
	"github.com/to404hanga/contest_gateway/web"
)

type App struct {
	Server    *web.GinServer
	Scheduler *job.CronScheduler
}

// WarmUp 启动时立即执行一次 token 预热, 任务未启用时跳过
func (a *App) WarmUp(ctx context.Context) error {
	status, ok := a.Scheduler.GetJobStatuses()[job.TokenWarmupJobName]
	if !ok || !status.Enabled {
		return nil
	}
	return a.Scheduler.RunJobOnce(ctx, job.TokenWarmupJobName)
}
