package harness

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ic-timon/karybench/bench/metrics"
	"github.com/ic-timon/karybench/logging"
)

// run 覆盖 RUNNING 与 DRAINING。profiler 每个 tick 采样一次；
// 最后一个区间在所有 worker 退出后采样，保证区间增量之和等于最终计数
func (h *Harness) run(ctx context.Context, rep *Report) error {
	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	if err := h.rw.Header(); err != nil {
		return err
	}

	h.running.Store(true)
	g, gctx := errgroup.WithContext(runCtx)
	for i := 0; i < h.cfg.InserterCount; i++ {
		id := i
		g.Go(func() error { return h.runInserter(gctx, id) })
	}
	for i := h.cfg.InserterCount; i < h.cfg.Workers(); i++ {
		id := i
		g.Go(func() error { return h.runReader(gctx, id) })
	}

	interval := h.cfg.ProfileInterval
	rounds := h.cfg.Rounds()
	prev := make([]uint64, len(h.counters))
	start := time.Now()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for round := 0; ; round++ {
		cancelled := false
		select {
		case <-ticker.C:
		case <-ctx.Done():
			cancelled = true
		}

		begin := time.Duration(round) * interval
		if !cancelled && round < rounds-1 {
			rep.Intervals = append(rep.Intervals, h.sample(begin, begin+interval, prev))
			continue
		}

		h.transition(ctx, StateDraining)
		h.running.Store(false)
		stop()
		if err := g.Wait(); err != nil {
			return err
		}
		if cancelled {
			rep.Cancelled = true
			rep.Elapsed = time.Since(start)
		} else {
			rep.Elapsed = time.Duration(rounds) * interval
		}
		rep.Intervals = append(rep.Intervals, h.sample(begin, rep.Elapsed, prev))
		// 行写失败不打断采样，排空后统一返回
		return h.rw.Err()
	}
}

// sample 采集一个区间：相对 prev 的计数增量、进程内存与表大小。prev 原地更新
func (h *Harness) sample(begin, end time.Duration, prev []uint64) metrics.Interval {
	iv := metrics.Interval{
		Start:  begin,
		End:    end,
		RSS:    metrics.ProcessMemory(),
		Tuples: uint64(h.table.ApproxSize()),
	}
	for i := range h.counters {
		cur := h.counters[i].n.Load()
		delta := cur - prev[i]
		prev[i] = cur
		if i < h.cfg.InserterCount {
			iv.Inserts += delta
		} else {
			iv.Reads += delta
		}
	}
	h.rw.Row(iv)
	h.obs.ObserveInterval(iv)
	return iv
}

// pin 将 goroutine 锁定到 OS 线程并绑核。
// worker 退出时不解锁，runtime 会丢弃该线程，不会复用收窄过的 affinity
func (h *Harness) pin(ctx context.Context, log *logging.Logger, id int) {
	if !h.cfg.Pin {
		return
	}
	runtime.LockOSThread()
	core := id % runtime.NumCPU()
	log.LogPin(ctx, core, pinToCore(core))
}

func (h *Harness) runInserter(ctx context.Context, id int) error {
	log := h.log.WithThread(id, "inserter")
	h.pin(ctx, log, id)
	keys := h.newKeys(id)
	lim := h.newLimiter()
	c := &h.counters[id].n

	var n uint64
	for h.running.Load() {
		if lim != nil && lim.Wait(ctx) != nil {
			break
		}
		key := keys.InsertKey()
		off := h.table.Insert(key, insertValue)
		h.index.Insert(key, off.Raw())
		n++
		c.Store(n)
	}
	log.DebugContext(ctx, "worker stopped", "ops", n)
	return nil
}

func (h *Harness) runReader(ctx context.Context, id int) error {
	log := h.log.WithThread(id, "reader")
	h.pin(ctx, log, id)
	keys := h.newKeys(id)
	lim := h.newLimiter()
	c := &h.counters[id].n

	var n uint64
	for h.running.Load() {
		if lim != nil && lim.Wait(ctx) != nil {
			break
		}
		_ = h.index.Find(keys.RandomKey())
		n++
		c.Store(n)
	}
	log.DebugContext(ctx, "worker stopped", "ops", n)
	return nil
}
