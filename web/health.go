package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/to404hanga/contest_gateway/constants"
	"github.com/to404hanga/contest_gateway/job"
	"github.com/to404hanga/contest_gateway/pkg/logger"
)

// JobStatusSource 定时任务运行状态
type JobStatusSource interface {
	GetJobStatuses() map[string]*job.JobStatus
}

type HealthHandler struct {
	version string
	jobs    JobStatusSource
	log     logger.Logger
}

var _ Handler = (*HealthHandler)(nil)

func NewHealthHandler(version string, jobs JobStatusSource, log logger.Logger) *HealthHandler {
	return &HealthHandler{
		version: version,
		jobs:    jobs,
		log:     log,
	}
}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/health", h.HealthCheck)
	r.GET("/health/jobs", h.JobStatuses)
}

func (h *HealthHandler) HealthCheck(ctx *gin.Context) {
	h.log.Debug("health check")
	ctx.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"service":     constants.GatewayServiceName,
		"api_version": h.version,
	})
}

// JobStatuses 各定时任务的最近执行情况
func (h *HealthHandler) JobStatuses(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"service": constants.GatewayServiceName,
		"jobs":    h.jobs.GetJobStatuses(),
	})
}
