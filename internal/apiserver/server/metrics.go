// Prometheus 指标导出
package server

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 包含所有 API 指标
type Metrics struct {
	// HTTP 请求指标
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// WebSocket 指标
	WSConnectionsActive prometheus.Gauge
	WSMessagesTotal     *prometheus.CounterVec

	// 限流指标
	RateLimitedTotal *prometheus.CounterVec

	// 上传指标
	UploadsTotal *prometheus.CounterVec
	UploadBytes  prometheus.Counter
}

var (
	metricsOnce sync.Once
	metricsInst *Metrics
)

// NewMetrics 返回指标实例
//
// 指标注册在 Prometheus 全局 registry，进程内只注册一次；
// 首次调用的 namespace 生效，后续调用返回同一实例。
func NewMetrics(namespace string) *Metrics {
	metricsOnce.Do(func() {
		metricsInst = newMetrics(namespace)
	})
	return metricsInst
}

func newMetrics(namespace string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		WSConnectionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "websocket_connections_active",
				Help:      "Active WebSocket connections",
			},
		),
		WSMessagesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "websocket_messages_total",
				Help:      "Total WebSocket messages",
			},
			[]string{"direction", "type"},
		),
		RateLimitedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_requests_total",
				Help:      "Requests rejected by the rate limiter",
			},
			[]string{"scope"},
		),
		UploadsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "uploads_total",
				Help:      "Total file uploads by outcome",
			},
			[]string{"outcome"},
		),
		UploadBytes: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upload_bytes_total",
				Help:      "Total bytes accepted by the upload endpoints",
			},
		),
	}
}

// RecordUpload 记录一次上传结果及接收的字节数
func (m *Metrics) RecordUpload(outcome string, size int64) {
	m.UploadsTotal.WithLabelValues(outcome).Inc()
	if size > 0 {
		m.UploadBytes.Add(float64(size))
	}
}

// MetricsMiddleware 创建 HTTP 指标中间件
func (m *Metrics) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		// 包装 ResponseWriter 以捕获状态码
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)
		status := strconv.Itoa(wrapped.statusCode)

		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// responseWriter 包装 http.ResponseWriter 以捕获状态码
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath 规范化路径，将 ID 替换为占位符，避免高基数
func normalizePath(path string) string {
	prefixes := []struct {
		prefix      string
		placeholder string
	}{
		{"/api/projects/", "/api/projects/{id}"},
		{"/api/skills/", "/api/skills/{id}"},
		{"/api/education/", "/api/education/{id}"},
		{"/api/contact/", "/api/contact/{id}"},
		{"/api/upload/", "/api/upload/{filename}"},
		{"/uploads/", "/uploads/{filename}"},
	}
	for _, p := range prefixes {
		if strings.HasPrefix(path, p.prefix) && len(path) > len(p.prefix) {
			// /api/upload/single 和 /api/upload/multiple 是固定端点
			rest := path[len(p.prefix):]
			if p.prefix == "/api/upload/" && (rest == "single" || rest == "multiple") {
				return path
			}
			return p.placeholder
		}
	}
	return path
}

// MetricsHandler 返回 Prometheus HTTP Handler
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
