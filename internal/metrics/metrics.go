package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry 创建自定义 Prometheus Registry，并注册常用采集器
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler 返回 Prometheus 指标 HTTP 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// AppMetrics 解码业务指标
type AppMetrics struct {
	DecodeTotal      *prometheus.CounterVec // labels: message_type, device_type, result
	DecodeErrorTotal *prometheus.CounterVec // labels: kind
	FrameBytes       prometheus.Histogram   // 成功解码的报文字节数
	RateLimitedTotal prometheus.Counter
}

// NewAppMetrics 注册并返回业务指标
func NewAppMetrics(reg prometheus.Registerer) *AppMetrics {
	m := &AppMetrics{
		DecodeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "connit_decode_total",
			Help: "Connit frame decode attempts.",
		}, []string{"message_type", "device_type", "result"}),
		DecodeErrorTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "connit_decode_error_total",
			Help: "Connit frame decode failures by error kind.",
		}, []string{"kind"}),
		FrameBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "connit_frame_bytes",
			Help:    "Size in bytes of decoded Connit frames.",
			Buckets: []float64{1, 2, 4, 8, 12, 16, 32, 64, 128},
		}),
		RateLimitedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "connit_http_rate_limited_total",
			Help: "Decode API requests rejected by the rate limiter.",
		}),
	}
	reg.MustRegister(m.DecodeTotal, m.DecodeErrorTotal, m.FrameBytes, m.RateLimitedTotal)
	return m
}

// ObserveDecode 记录一次解码结果，kind 为空表示成功
func (m *AppMetrics) ObserveDecode(messageType, deviceType, kind string, frameBytes int) {
	if m == nil {
		return
	}
	if kind == "" {
		m.DecodeTotal.WithLabelValues(messageType, deviceType, "ok").Inc()
		m.FrameBytes.Observe(float64(frameBytes))
		return
	}
	m.DecodeTotal.WithLabelValues(messageType, deviceType, "error").Inc()
	m.DecodeErrorTotal.WithLabelValues(kind).Inc()
}
