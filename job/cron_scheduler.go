package job

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/to404hanga/contest_gateway/pkg/logger"
)

const defaultJobTimeout = time.Minute

// JobFunc 任务执行函数
type JobFunc func(ctx context.Context) error

// JobConfig 任务配置
type JobConfig struct {
	Name        string        // 任务名称
	CronExpr    string        // cron 表达式, 支持秒级
	JobFunc     JobFunc       // 任务执行函数
	Description string        // 任务描述
	Enabled     bool          // 是否启用
	Timeout     time.Duration // 单次执行超时
}

// JobStatus 任务状态
type JobStatus struct {
	Name         string        `json:"name"`
	CronExpr     string        `json:"cron_expr"`
	Description  string        `json:"description"`
	Enabled      bool          `json:"enabled"`
	LastRun      *time.Time    `json:"last_run,omitempty"`
	NextRun      *time.Time    `json:"next_run,omitempty"`
	LastDuration time.Duration `json:"last_duration"`
	LastError    string        `json:"last_error,omitempty"`
	RunCount     int64         `json:"run_count"`
	ErrorCount   int64         `json:"error_count"`
}

// CronScheduler cron 定时任务调度器
type CronScheduler struct {
	cron        *cron.Cron
	parser      cron.Parser
	jobs        map[string]*JobConfig
	entries     map[string]cron.EntryID
	jobStatuses map[string]*JobStatus
	log         logger.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	mu          sync.RWMutex
}

func NewCronScheduler(log logger.Logger) *CronScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &CronScheduler{
		cron:        cron.New(cron.WithParser(parser)),
		parser:      parser,
		jobs:        make(map[string]*JobConfig),
		entries:     make(map[string]cron.EntryID),
		jobStatuses: make(map[string]*JobStatus),
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// AddJob 校验并登记任务, Start 之前调用
func (s *CronScheduler) AddJob(config *JobConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case config.Name == "":
		return fmt.Errorf("job name cannot be empty")
	case config.CronExpr == "":
		return fmt.Errorf("job %s: cron expression cannot be empty", config.Name)
	case config.JobFunc == nil:
		return fmt.Errorf("job %s: job function cannot be nil", config.Name)
	}
	if _, exists := s.jobs[config.Name]; exists {
		return fmt.Errorf("job %s already exists", config.Name)
	}
	if _, err := s.parser.Parse(config.CronExpr); err != nil {
		return fmt.Errorf("job %s: invalid cron expression: %w", config.Name, err)
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultJobTimeout
	}

	s.jobs[config.Name] = config
	s.jobStatuses[config.Name] = &JobStatus{
		Name:        config.Name,
		CronExpr:    config.CronExpr,
		Description: config.Description,
		Enabled:     config.Enabled,
	}

	s.log.InfoContext(s.ctx, "Job added",
		logger.String("name", config.Name),
		logger.String("cronExpr", config.CronExpr),
		logger.Bool("enabled", config.Enabled))
	return nil
}

// Start 调度所有启用的任务
func (s *CronScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, job := range s.jobs {
		if !job.Enabled {
			continue
		}
		if _, scheduled := s.entries[name]; scheduled {
			continue
		}
		id, err := s.cron.AddFunc(job.CronExpr, s.wrapJobFunc(name, job))
		if err != nil {
			return fmt.Errorf("schedule job %s: %w", name, err)
		}
		s.entries[name] = id
	}

	s.cron.Start()
	for name, id := range s.entries {
		next := s.cron.Entry(id).Next
		if !next.IsZero() {
			s.jobStatuses[name].NextRun = &next
		}
	}
	s.log.InfoContext(s.ctx, "Cron scheduler started", logger.Int("jobs", len(s.entries)))
	return nil
}

// Stop 停止调度并等待正在执行的任务结束
func (s *CronScheduler) Stop() {
	done := s.cron.Stop()
	s.cancel()
	<-done.Done()
	s.log.InfoContext(context.Background(), "Cron scheduler stopped")
}

// wrapJobFunc 包装任务函数: 超时、日志与统计
func (s *CronScheduler) wrapJobFunc(name string, job *JobConfig) func() {
	return func() {
		startTime := time.Now()

		s.mu.Lock()
		status := s.jobStatuses[name]
		status.LastRun = &startTime
		status.RunCount++
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(s.ctx, job.Timeout)
		defer cancel()
		ctx = logger.ContextWithFields(ctx, logger.String("job", name))

		err := job.JobFunc(ctx)
		duration := time.Since(startTime)

		s.mu.Lock()
		status.LastDuration = duration
		if id, ok := s.entries[name]; ok {
			next := s.cron.Entry(id).Next
			status.NextRun = &next
		}
		if err != nil {
			status.ErrorCount++
			status.LastError = err.Error()
		} else {
			status.LastError = ""
		}
		s.mu.Unlock()

		if err != nil {
			s.log.ErrorContext(ctx, "Job failed", logger.Duration("duration", duration), logger.Error(err))
			return
		}
		s.log.DebugContext(ctx, "Job completed", logger.Duration("duration", duration))
	}
}

// GetJobStatuses 返回所有任务状态的副本
func (s *CronScheduler) GetJobStatuses() map[string]*JobStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*JobStatus, len(s.jobStatuses))
	for name, status := range s.jobStatuses {
		statusCopy := *status
		result[name] = &statusCopy
	}
	return result
}

// RunJobOnce 立即执行一次任务, 不计入统计
func (s *CronScheduler) RunJobOnce(ctx context.Context, name string) error {
	s.mu.RLock()
	job, exists := s.jobs[name]
	s.mu.RUnlock()
	if !exists {
		return fmt.Errorf("job %s not found", name)
	}

	ctx, cancel := context.WithTimeout(ctx, job.Timeout)
	defer cancel()
	return job.JobFunc(ctx)
}
