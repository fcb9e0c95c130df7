package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/to404hanga/contest_gateway/pkg/gintool"
)

const reasonSuccess = "success"

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "contest_gateway",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Gateway requests total.",
		},
		[]string{"route", "code", "reason"},
	)
	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "contest_gateway",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Gateway request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "code", "reason"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDurationSeconds,
	)
}

type PrometheusMiddlewareBuilder struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewPrometheusMiddlewareBuilder() *PrometheusMiddlewareBuilder {
	return &PrometheusMiddlewareBuilder{
		requests: httpRequestsTotal,
		duration: httpRequestDurationSeconds,
	}
}

// Build reason 为错误信封中的错误码, 成功请求为 success; 未匹配路由不计数
func (b *PrometheusMiddlewareBuilder) Build() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			return
		}
		reason := c.GetString(gintool.ErrorCodeKey)
		if reason == "" {
			reason = reasonSuccess
		}
		code := strconv.Itoa(c.Writer.Status())
		b.requests.WithLabelValues(route, code, reason).Inc()
		b.duration.WithLabelValues(route, code, reason).Observe(time.Since(start).Seconds())
	}
}
