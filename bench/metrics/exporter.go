package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Observer 接收压测过程中的区间与重建事件
type Observer interface {
	// ObserveInterval 每个 profile 区间调用一次
	ObserveInterval(iv Interval)
	// ObserveRebuild 每次索引重建后调用
	ObserveRebuild(entries int, d time.Duration, err error)
}

// NoopObserver 不做任何事
type NoopObserver struct{}

func (NoopObserver) ObserveInterval(Interval)                 {}
func (NoopObserver) ObserveRebuild(int, time.Duration, error) {}

// Exporter 将区间统计导出为 Prometheus 指标，使用独立 Registry
type Exporter struct {
	registry   *prometheus.Registry
	ops        *prometheus.CounterVec
	rss        prometheus.Gauge
	tuples     prometheus.Gauge
	intervals  prometheus.Counter
	rebuildDur prometheus.Histogram
	rebuildErr prometheus.Counter
}

// NewExporter 创建 Exporter 并注册全部指标
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "karybench_operations_total",
			Help: "Operations completed by benchmark workers.",
		}, []string{"op"}),
		rss: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "karybench_resident_memory_bytes",
			Help: "Process resident memory sampled at the end of each interval.",
		}),
		tuples: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "karybench_table_tuples",
			Help: "Approximate number of tuples in the backing table.",
		}),
		intervals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "karybench_intervals_total",
			Help: "Profile intervals reported.",
		}),
		rebuildDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "karybench_rebuild_duration_seconds",
			Help:    "Static index rebuild duration.",
			Buckets: prometheus.DefBuckets,
		}),
		rebuildErr: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "karybench_rebuild_errors_total",
			Help: "Static index rebuilds that failed.",
		}),
	}
	e.registry.MustRegister(e.ops, e.rss, e.tuples, e.intervals, e.rebuildDur, e.rebuildErr)
	return e
}

// Registry 返回内部 Registry（测试用）
func (e *Exporter) Registry() *prometheus.Registry { return e.registry }

// ObserveInterval 实现 Observer
func (e *Exporter) ObserveInterval(iv Interval) {
	e.ops.WithLabelValues("insert").Add(float64(iv.Inserts))
	e.ops.WithLabelValues("read").Add(float64(iv.Reads))
	e.rss.Set(float64(iv.RSS))
	e.tuples.Set(float64(iv.Tuples))
	e.intervals.Inc()
}

// ObserveRebuild 实现 Observer；失败只计数
func (e *Exporter) ObserveRebuild(_ int, d time.Duration, err error) {
	if err != nil {
		e.rebuildErr.Inc()
		return
	}
	e.rebuildDur.Observe(d.Seconds())
}

// Handler 返回 /metrics 处理器
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Serve 在 addr 上暴露 /metrics，ctx 取消时关闭
func (e *Exporter) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
