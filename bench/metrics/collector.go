// Package metrics 提供运行时指标采集、区间报告格式化与 Prometheus 导出
package metrics

import (
	"runtime"
	"runtime/debug"
	"time"

	"github.com/prometheus/procfs"
)

// GiB 报告中的内存单位
const GiB = 1 << 30

// Snapshot 运行时指标快照
type Snapshot struct {
	TS           time.Time
	RSS          uint64 // 进程常驻内存（bytes），procfs 不可用时退化为 MemStats.Sys
	HeapAlloc    uint64
	HeapSys      uint64
	TotalAlloc   uint64 // 累计分配字节数
	NumGC        uint32
	NumGoroutine int
}

// Take 采集当前运行时指标
func Take() Snapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	rss, ok := residentMemory()
	if !ok {
		rss = m.Sys
	}
	return Snapshot{
		TS:           time.Now(),
		RSS:          rss,
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		TotalAlloc:   m.TotalAlloc,
		NumGC:        m.NumGC,
		NumGoroutine: runtime.NumGoroutine(),
	}
}

// ProcessMemory 返回进程常驻内存（bytes）。
// 只读 /proc/self/stat，不触发 stop-the-world，profiler 每个区间调用一次。
func ProcessMemory() uint64 {
	if rss, ok := residentMemory(); ok {
		return rss
	}
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Sys
}

func residentMemory() (uint64, bool) {
	p, err := procfs.Self()
	if err != nil {
		return 0, false
	}
	stat, err := p.Stat()
	if err != nil {
		return 0, false
	}
	return uint64(stat.ResidentMemory()), true
}

// GC 触发 GC 并释放回 OS；WARMUP 结束后调用，使初始内存只反映存活数据
func GC() {
	runtime.GC()
	debug.FreeOSMemory()
}

// Diff 计算两次快照间的累计分配速率（bytes/s）和 GC 次数差。
// 使用 TotalAlloc，不受期间 GC 回收影响
func Diff(before, after Snapshot) (allocRateBps float64, gcDelta uint32) {
	elapsed := after.TS.Sub(before.TS).Seconds()
	if elapsed <= 0 {
		return 0, 0
	}
	if after.TotalAlloc > before.TotalAlloc {
		allocRateBps = float64(after.TotalAlloc-before.TotalAlloc) / elapsed
	}
	if after.NumGC >= before.NumGC {
		gcDelta = after.NumGC - before.NumGC
	}
	return allocRateBps, gcDelta
}
