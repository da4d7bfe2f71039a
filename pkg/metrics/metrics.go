// Package metrics 提供 Prometheus helper，包含行情采集与订单执行的业务指标
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wyfcoding/markettracker/pkg/logger"
)

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration prometheus.Histogram

	// 采集 tick 计数（按行情源类型）
	IngestTicksTotal *prometheus.CounterVec
	// 成功落库的报价计数（按行情源类型）
	QuotesCommittedTotal *prometheus.CounterVec
	// 行情源失败计数（按行情源类型）
	FeedErrorsTotal *prometheus.CounterVec
	// 单次采集 tick 耗时
	IngestTickDuration prometheus.Histogram

	// 订单执行 tick 计数
	ExecutionTicksTotal prometheus.Counter
	// 成功执行的订单计数
	OrdersExecutedTotal prometheus.Counter
	// 执行失败（业务拒绝）的订单计数
	OrdersFailedTotal prometheus.Counter
	// 单次执行 tick 耗时
	ExecutionTickDuration prometheus.Histogram
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tracker",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tracker",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		IngestTicksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tracker",
			Subsystem: serviceName,
			Name:      "ingest_ticks_total",
			Help:      "Total price ingestion ticks",
		}, []string{"feed"}),
		QuotesCommittedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tracker",
			Subsystem: serviceName,
			Name:      "quotes_committed_total",
			Help:      "Total quotes committed to storage",
		}, []string{"feed"}),
		FeedErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tracker",
			Subsystem: serviceName,
			Name:      "feed_errors_total",
			Help:      "Total price feed fetch failures",
		}, []string{"feed"}),
		IngestTickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tracker",
			Subsystem: serviceName,
			Name:      "ingest_tick_duration_seconds",
			Help:      "Price ingestion tick duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		ExecutionTicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tracker",
			Subsystem: serviceName,
			Name:      "execution_ticks_total",
			Help:      "Total order execution ticks",
		}),
		OrdersExecutedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tracker",
			Subsystem: serviceName,
			Name:      "orders_executed_total",
			Help:      "Total orders executed successfully",
		}),
		OrdersFailedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tracker",
			Subsystem: serviceName,
			Name:      "orders_failed_total",
			Help:      "Total orders transitioned to FAILED",
		}),
		ExecutionTickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tracker",
			Subsystem: serviceName,
			Name:      "execution_tick_duration_seconds",
			Help:      "Order execution tick duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Register 注册所有指标
func (m *Metrics) Register() error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.IngestTicksTotal,
		m.QuotesCommittedTotal,
		m.FeedErrorsTotal,
		m.IngestTickDuration,
		m.ExecutionTicksTotal,
		m.OrdersExecutedTotal,
		m.OrdersFailedTotal,
		m.ExecutionTickDuration,
	}

	for _, c := range collectors {
		if err := prometheus.DefaultRegisterer.Register(c); err != nil {
			logger.Error(context.Background(), "Failed to register metric", "error", err)
			return err
		}
	}

	logger.Info(context.Background(), "Metrics registered successfully")
	return nil
}

// StartHTTPServer 启动 Prometheus HTTP 服务器
func StartHTTPServer(port int, path string) {
	if path == "" {
		path = "/metrics"
	}

	http.Handle(path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info(context.Background(), "Starting Prometheus HTTP server", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, nil); err != nil {
			logger.Error(context.Background(), "Failed to start Prometheus HTTP server", "error", err)
		}
	}()
}
