package job

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/to404hanga/contest_gateway/pkg/logger"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) Refresh(context.Context) (string, error) {
	r.calls.Add(1)
	return "token", r.err
}

func TestCronScheduler_AddJob(t *testing.T) {
	s := NewCronScheduler(logger.NewNop())
	noop := func(context.Context) error { return nil }

	testCases := []struct {
		name    string
		config  *JobConfig
		wantErr bool
	}{
		{name: "valid five fields", config: &JobConfig{Name: "a", CronExpr: "*/5 * * * *", JobFunc: noop}},
		{name: "valid with seconds", config: &JobConfig{Name: "b", CronExpr: "0 */5 * * * *", JobFunc: noop}},
		{name: "descriptor", config: &JobConfig{Name: "c", CronExpr: "@every 50m", JobFunc: noop}},
		{name: "duplicate", config: &JobConfig{Name: "a", CronExpr: "* * * * *", JobFunc: noop}, wantErr: true},
		{name: "no name", config: &JobConfig{CronExpr: "* * * * *", JobFunc: noop}, wantErr: true},
		{name: "bad expr", config: &JobConfig{Name: "d", CronExpr: "every day", JobFunc: noop}, wantErr: true},
		{name: "no func", config: &JobConfig{Name: "e", CronExpr: "* * * * *"}, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.AddJob(tc.config)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, defaultJobTimeout, tc.config.Timeout)
		})
	}
	assert.Len(t, s.GetJobStatuses(), 3)
}

func TestCronScheduler_TokenWarmup(t *testing.T) {
	refresher := &countingRefresher{}
	s := NewCronScheduler(logger.NewNop())
	require.NoError(t, s.AddJob(NewTokenWarmupJob(refresher, "* * * * * *", true, time.Second, logger.NewNop())))

	require.NoError(t, s.Start())
	t.Cleanup(s.Stop)

	assert.Eventually(t, func() bool { return refresher.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	assert.Eventually(t, func() bool {
		return s.GetJobStatuses()[TokenWarmupJobName].RunCount > 0
	}, time.Second, 20*time.Millisecond)

	status := s.GetJobStatuses()[TokenWarmupJobName]
	assert.NotNil(t, status.NextRun)
}

func TestCronScheduler_DisabledJobNotScheduled(t *testing.T) {
	refresher := &countingRefresher{}
	s := NewCronScheduler(logger.NewNop())
	require.NoError(t, s.AddJob(NewTokenWarmupJob(refresher, "* * * * * *", false, time.Second, logger.NewNop())))
	require.NoError(t, s.Start())
	time.Sleep(1500 * time.Millisecond)
	s.Stop()

	assert.Zero(t, refresher.calls.Load())
	assert.Nil(t, s.GetJobStatuses()[TokenWarmupJobName].LastRun)
}

func TestCronScheduler_RunJobOnce(t *testing.T) {
	refresher := &countingRefresher{err: errors.New("upstream down")}
	s := NewCronScheduler(logger.NewNop())
	require.NoError(t, s.AddJob(NewTokenWarmupJob(refresher, "@every 50m", true, time.Second, logger.NewNop())))

	err := s.RunJobOnce(context.Background(), TokenWarmupJobName)
	assert.EqualError(t, err, "upstream down")
	assert.EqualValues(t, 1, refresher.calls.Load())

	assert.Error(t, s.RunJobOnce(context.Background(), "missing"))
}
