// Package harness 实现并发压测状态机：INIT → WARMUP → RUNNING → DRAINING → REPORT
package harness

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/ic-timon/karybench/bench/gen"
	"github.com/ic-timon/karybench/bench/metrics"
	"github.com/ic-timon/karybench/indexer/dynamic"
	"github.com/ic-timon/karybench/logging"
	"github.com/ic-timon/karybench/table"
)

// insertValue 每个压测元组写入的 value
const insertValue = 100

// counter 单个 worker 的操作计数，独占一条 cache line。
// 只有所属 worker 写，profiler 读
type counter struct {
	n atomic.Uint64
	_ [56]byte
}

// Option 配置 Harness
type Option func(*Harness)

// WithLogger 设置日志，默认输出到 stderr 的文本日志
func WithLogger(l *logging.Logger) Option {
	return func(h *Harness) { h.log = l }
}

// WithOutput 设置报告输出，默认 stdout
func WithOutput(w io.Writer) Option {
	return func(h *Harness) { h.out = w }
}

// WithObserver 接收区间与重建事件，如 metrics.Exporter
func WithObserver(o metrics.Observer) Option {
	return func(h *Harness) { h.obs = o }
}

// Harness 在一张表和一个动态索引上执行一次压测
type Harness struct {
	cfg *Config
	log *logging.Logger
	out io.Writer
	rw  *metrics.ReportWriter
	obs metrics.Observer

	state atomic.Int32
	once  sync.Once

	table    *table.Table
	index    dynamic.Index
	space    *gen.KeySpace
	running  atomic.Bool
	counters []counter
}

// Report 一次压测的结果
type Report struct {
	Inserters      int
	Readers        int
	Intervals      []metrics.Interval
	Inserts        uint64
	Reads          uint64
	Elapsed        time.Duration    // rounds × interval；被取消时为实测时长
	Throughput     float64          // ops/s
	Warm           metrics.Snapshot // WARMUP 结束并 GC 后
	Drained        metrics.Snapshot // DRAINING 结束后
	AllocRate      float64          // RUNNING 期间分配速率（bytes/s）
	GCCount        uint32           // RUNNING 期间 GC 次数
	Oversubscribed bool
	Cancelled      bool // RUNNING 被 ctx 提前结束
}

// Total RUNNING 阶段的总操作数
func (r *Report) Total() uint64 { return r.Inserts + r.Reads }

// InitMemory WARMUP 后的进程常驻内存（bytes）
func (r *Report) InitMemory() uint64 { return r.Warm.RSS }

// Summary 报告末尾的汇总行
func (r *Report) Summary() string {
	return metrics.Summary(r.Inserters, r.Readers, r.Throughput)
}

// New 校验配置并创建处于 INIT 的 Harness。cfg 为 nil 时使用默认配置。
// 校验通过前不会启动任何 goroutine
func New(cfg *Config, opts ...Option) (*Harness, error) {
	cfg = cfg.OrDefault()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h := &Harness{
		cfg: cfg,
		out: os.Stdout,
		obs: metrics.NoopObserver{},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = logging.NewLogger(nil)
	}
	h.rw = metrics.NewReportWriter(h.out)
	h.state.Store(int32(StateInit))
	return h, nil
}

// State 当前阶段
func (h *Harness) State() State { return State(h.state.Load()) }

// Table 返回底层表，Run 之前为 nil
func (h *Harness) Table() *table.Table { return h.table }

// Index 返回动态索引，Run 之前为 nil
func (h *Harness) Index() dynamic.Index { return h.index }

// Close 释放底层表
func (h *Harness) Close() error {
	if h.table == nil {
		return nil
	}
	return h.table.Close()
}

// Run 执行完整生命周期，只能调用一次。ctx 取消会提前结束 RUNNING，
// 报告覆盖实际运行的时长
func (h *Harness) Run(ctx context.Context) (*Report, error) {
	first := false
	h.once.Do(func() { first = true })
	if !first {
		return nil, ErrAlreadyRun
	}

	if err := h.init(); err != nil {
		return nil, err
	}

	h.transition(ctx, StateWarmup)
	if err := h.warmup(ctx); err != nil {
		return nil, err
	}
	metrics.GC()
	rep := &Report{
		Inserters: h.cfg.InserterCount,
		Readers:   h.cfg.ReaderCount,
		Warm:      metrics.Take(),
	}
	h.log.InfoContext(ctx, "init memory", "gb", fmt.Sprintf("%.2f", float64(rep.InitMemory())/metrics.GiB))
	rep.Oversubscribed = h.checkOversubscription(ctx)

	h.transition(ctx, StateRunning)
	if err := h.run(ctx, rep); err != nil {
		return nil, err
	}
	rep.Drained = metrics.Take()

	h.transition(ctx, StateReport)
	for i := range h.counters {
		n := h.counters[i].n.Load()
		if i < h.cfg.InserterCount {
			rep.Inserts += n
		} else {
			rep.Reads += n
		}
	}
	rep.Throughput = metrics.Throughput(rep.Total(), rep.Elapsed)
	rep.AllocRate, rep.GCCount = metrics.Diff(rep.Warm, rep.Drained)
	h.log.WithState(StateReport).InfoContext(ctx, "runtime",
		"alloc_mb_per_s", fmt.Sprintf("%.2f", rep.AllocRate/(1<<20)),
		"gc", rep.GCCount,
		"goroutines", rep.Drained.NumGoroutine,
	)
	if err := h.rw.Summary(rep.Summary()); err != nil {
		return rep, err
	}
	return rep, nil
}

func (h *Harness) transition(ctx context.Context, to State) {
	from := State(h.state.Swap(int32(to)))
	h.log.LogTransition(ctx, from, to)
}

// init 创建空表与索引
func (h *Harness) init() error {
	h.table = table.New(h.cfg.Table)
	idx, err := dynamic.New(h.cfg.Index, h.table, h.cfg.Router)
	if err != nil {
		h.table.Close()
		return err
	}
	h.index = idx
	h.space = gen.NewKeySpace(h.cfg.MaxKeyCount)
	h.counters = make([]counter, h.cfg.Workers())
	return nil
}

// warmup 单 goroutine 预插入初始 key，然后重建一次索引
func (h *Harness) warmup(ctx context.Context) error {
	log := h.log.WithState(StateWarmup)
	keys := h.newKeys(0)
	for i := uint64(0); i < h.cfg.InitKeyCount; i++ {
		if i&0xffff == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		key := keys.InsertKey()
		off := h.table.Insert(key, insertValue)
		h.index.Insert(key, off.Raw())
	}

	r, ok := h.index.(dynamic.Reorganizer)
	if !ok {
		log.DebugContext(ctx, "index has no rebuild hook", "index", h.cfg.Index)
		return nil
	}
	entries := h.table.ApproxSize()
	start := time.Now()
	err := r.Reorganize()
	d := time.Since(start)
	log.LogRebuild(ctx, entries, d, err)
	h.obs.ObserveRebuild(entries, d, err)
	if err != nil {
		return fmt.Errorf("harness: warmup rebuild: %w", err)
	}
	return nil
}

// checkOversubscription worker 数超过可用核数时告警
func (h *Harness) checkOversubscription(ctx context.Context) bool {
	workers := h.cfg.Workers()
	procs, cpus := runtime.GOMAXPROCS(0), runtime.NumCPU()
	if workers <= procs && workers <= cpus {
		return false
	}
	h.log.WarnContext(ctx, "workers oversubscribe cores",
		"workers", workers,
		"gomaxprocs", procs,
		"num_cpu", cpus,
	)
	return true
}

func (h *Harness) newKeys(threadID int) gen.KeyGenerator {
	if h.cfg.KeyDist == KeyDistLognormal {
		return gen.NewLognormalKeys(uint64(threadID), h.cfg.MaxKeyCount, h.cfg.LognormalSigma)
	}
	return gen.NewBatchKeys(h.space, uint64(threadID))
}

func (h *Harness) newLimiter() *rate.Limiter {
	if h.cfg.RateLimit <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(h.cfg.RateLimit), 1)
}
