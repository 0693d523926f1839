// 压测入口：静态 k-ary 索引 + 动态索引的并发读写压测
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/ic-timon/karybench/bench/harness"
	"github.com/ic-timon/karybench/bench/metrics"
	"github.com/ic-timon/karybench/indexer"
	"github.com/ic-timon/karybench/indexer/dynamic"
	"github.com/ic-timon/karybench/logging"
	"github.com/ic-timon/karybench/table"
)

const usageText = `Command line options : bench <options>
   -h --help              :  print help message
   -t --time_duration     :  time duration in seconds (default: 10)
   -m --max_key_count     :  max key count, 0 = unbounded (default: 0)
   -n --init_key_count    :  init key count (default: 1<<20)
   -r --reader_count      :  reader count (default: 1)
   -s --inserter_count    :  inserter count (default: 0)
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	help        bool
	duration    uint64
	maxKeys     uint64
	initKeys    uint64
	readers     int
	inserters   int
	profile     time.Duration
	index       string
	numLayers   int
	fanout      int
	keyDist     string
	sigma       float64
	offheap     bool
	pin         bool
	rateLimit   float64
	metricsAddr string
	csvPath     string
	logLevel    string
	logJSON     bool
	smokeTrie   bool
}

func newFlagSet(o *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	def := harness.DefaultConfig()

	fs.BoolVar(&o.help, "help", false, "打印帮助")
	fs.BoolVar(&o.help, "h", false, "打印帮助")
	fs.Uint64Var(&o.duration, "time_duration", 10, "RUNNING 时长（秒）")
	fs.Uint64Var(&o.duration, "t", 10, "同 --time_duration")
	fs.Uint64Var(&o.maxKeys, "max_key_count", 0, "key 上界，0 表示无上界递增")
	fs.Uint64Var(&o.maxKeys, "m", 0, "同 --max_key_count")
	fs.Uint64Var(&o.initKeys, "init_key_count", def.InitKeyCount, "WARMUP 预插入 key 数")
	fs.Uint64Var(&o.initKeys, "n", def.InitKeyCount, "同 --init_key_count")
	fs.IntVar(&o.readers, "reader_count", def.ReaderCount, "读线程数")
	fs.IntVar(&o.readers, "r", def.ReaderCount, "同 --reader_count")
	fs.IntVar(&o.inserters, "inserter_count", def.InserterCount, "写线程数")
	fs.IntVar(&o.inserters, "s", def.InserterCount, "同 --inserter_count")

	fs.DurationVar(&o.profile, "profile_interval", def.ProfileInterval, "区间采样周期")
	fs.StringVar(&o.index, "index", string(def.Index), "动态索引: hash | kary")
	fs.IntVar(&o.numLayers, "num_layers", def.Router.NumLayers, "k-ary 路由层数")
	fs.IntVar(&o.fanout, "fanout", def.Router.Fanout, "k-ary 路由扇出")
	fs.StringVar(&o.keyDist, "key_dist", string(def.KeyDist), "insert key 分布: uniform | lognormal")
	fs.Float64Var(&o.sigma, "lognormal_sigma", def.LognormalSigma, "lognormal 分布 sigma")
	fs.BoolVar(&o.offheap, "offheap", false, "表使用 mmap 匿名内存")
	fs.BoolVar(&o.pin, "pin", def.Pin, "worker 绑核")
	fs.Float64Var(&o.rateLimit, "rate_limit", 0, "每个 worker 的 ops/s 上限，0 不限速")
	fs.StringVar(&o.metricsAddr, "metrics_addr", "", "Prometheus /metrics 监听地址，空则不启用")
	fs.StringVar(&o.csvPath, "csv", "", "区间报告 CSV 路径，\"auto\" 写入 report/ 目录")
	fs.StringVar(&o.logLevel, "log_level", "info", "日志级别: debug | info | warn | error")
	fs.BoolVar(&o.logJSON, "log_json", false, "JSON 日志")
	fs.BoolVar(&o.smokeTrie, "smoke_trie", false, "只运行 trie 冒烟测试")

	fs.Usage = func() {
		fmt.Fprint(stderr, usageText)
		fmt.Fprintln(stderr, "\nAll options:")
		fs.PrintDefaults()
	}
	return fs
}

func (o *options) config() *harness.Config {
	cfg := harness.DefaultConfig()
	cfg.Duration = time.Duration(o.duration) * time.Second
	cfg.ProfileInterval = o.profile
	cfg.MaxKeyCount = o.maxKeys
	cfg.InitKeyCount = o.initKeys
	cfg.ReaderCount = o.readers
	cfg.InserterCount = o.inserters
	cfg.Index = dynamic.Kind(o.index)
	cfg.Router = &indexer.Config{NumLayers: o.numLayers, Fanout: o.fanout}
	cfg.Table = &table.Config{ChunkTuples: table.DefaultConfig().ChunkTuples, UseOffheap: o.offheap}
	cfg.KeyDist = harness.KeyDist(o.keyDist)
	cfg.LognormalSigma = o.sigma
	cfg.Pin = o.pin
	cfg.RateLimit = o.rateLimit
	return cfg
}

func run(args []string, stdout, stderr io.Writer) int {
	var o options
	fs := newFlagSet(&o, stderr)
	if err := fs.Parse(args); err != nil {
		// flag 已打印错误与 usage；-h 也走这里
		return 2
	}
	if o.help {
		fs.Usage()
		return 1
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected argument: %q\n", fs.Arg(0))
		fs.Usage()
		return 2
	}

	level, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return 2
	}
	logger := logging.NewTextLogger(stderr, level)
	if o.logJSON {
		logger = logging.NewJSONLogger(stderr, level)
	}

	undo, err := maxprocs.Set(maxprocs.Logger(logger.Printf))
	defer undo()
	if err != nil {
		logger.Warn("automaxprocs", "error", err)
	}

	if o.smokeTrie {
		runTrieSmoke(stdout)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []harness.Option{harness.WithLogger(logger), harness.WithOutput(stdout)}
	if o.metricsAddr != "" {
		exp := metrics.NewExporter()
		opts = append(opts, harness.WithObserver(exp))
		go func() {
			if err := exp.Serve(ctx, o.metricsAddr); err != nil {
				logger.Error("metrics server", "addr", o.metricsAddr, "error", err)
			}
		}()
	}

	h, err := harness.New(o.config(), opts...)
	if err != nil {
		fmt.Fprintln(stderr, "invalid configuration:", err)
		fs.Usage()
		return 1
	}
	defer h.Close()

	rep, err := h.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("interrupted before RUNNING")
		} else {
			logger.Error("benchmark failed", "error", err)
		}
		return 1
	}
	if rep.Cancelled {
		logger.Warn("interrupted, report covers the completed time", "elapsed", rep.Elapsed)
	}

	if o.csvPath != "" {
		path := o.csvPath
		if path == "auto" {
			path = metrics.ReportPath("bench_report_intervals_")
		}
		if err := metrics.WriteIntervalsCSV(rep.Intervals, path); err != nil {
			logger.Error("write csv", "path", path, "error", err)
			return 1
		}
		logger.Info("csv written", "path", path)
	}
	return 0
}
