package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Header 区间报告表头
const Header = "        TIME         INSERT      READ       RAM (act.)   RAM (est.)"

// Interval 单个 profile 区间的统计
type Interval struct {
	Start   time.Duration // 相对 RUNNING 开始
	End     time.Duration
	Inserts uint64 // 本区间 insert 次数
	Reads   uint64 // 本区间 read 次数
	RSS     uint64 // 进程常驻内存（bytes）
	Tuples  uint64 // 表的近似元组数
}

// TupleBytes 估算内存时每个元组的字节数（key + value）
const TupleBytes = 16

// EstimatedBytes 按元组数估算的数据大小
func (iv Interval) EstimatedBytes() uint64 {
	return iv.Tuples * TupleBytes
}

// String 按固定格式输出一行报告
func (iv Interval) String() string {
	return fmt.Sprintf("[%5.2f - %5.2f s]:  %5.2f M  |  %5.2f M  |  %5.2f GB  |  %5.2f GB",
		iv.Start.Seconds(), iv.End.Seconds(),
		float64(iv.Inserts)/1e6, float64(iv.Reads)/1e6,
		float64(iv.RSS)/GiB, float64(iv.EstimatedBytes())/GiB)
}

// Summary 汇总行：写线程数、读线程数、总吞吐（百万 ops/s）
func Summary(inserters, readers int, throughput float64) string {
	return fmt.Sprintf("insert = %d, read = %d, throughput = %.2f M ops", inserters, readers, throughput/1e6)
}

// Throughput 总操作数除以耗时，得到 ops/s
func Throughput(total uint64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(total) / elapsed.Seconds()
}

// ReportWriter 逐行写出区间报告（表头、区间行、汇总行）。
// 记录第一个写错误，之后的写入直接返回该错误
type ReportWriter struct {
	w   io.Writer
	err error
}

// NewReportWriter 创建写到 w 的报告写入器
func NewReportWriter(w io.Writer) *ReportWriter {
	return &ReportWriter{w: w}
}

func (rw *ReportWriter) line(s string) error {
	if rw.err != nil {
		return rw.err
	}
	_, rw.err = fmt.Fprintln(rw.w, s)
	return rw.err
}

// Header 写表头
func (rw *ReportWriter) Header() error { return rw.line(Header) }

// Row 写一行区间统计
func (rw *ReportWriter) Row(iv Interval) error { return rw.line(iv.String()) }

// Summary 写汇总行
func (rw *ReportWriter) Summary(s string) error { return rw.line(s) }

// Err 返回第一个写错误
func (rw *ReportWriter) Err() error { return rw.err }

// WriteIntervalsCSV 写入区间报告
func WriteIntervalsCSV(rows []Interval, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	w.Write([]string{"StartSec", "EndSec", "Inserts", "Reads", "RSSBytes", "Tuples", "EstBytes"})
	for _, r := range rows {
		w.Write([]string{
			fmt.Sprintf("%.2f", r.Start.Seconds()),
			fmt.Sprintf("%.2f", r.End.Seconds()),
			strconv.FormatUint(r.Inserts, 10),
			strconv.FormatUint(r.Reads, 10),
			strconv.FormatUint(r.RSS, 10),
			strconv.FormatUint(r.Tuples, 10),
			strconv.FormatUint(r.EstimatedBytes(), 10),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// ReportDir 报告输出目录
const ReportDir = "report"

// ReportPath 生成 report/ 目录下带日期的报告路径
func ReportPath(prefix string) string {
	return filepath.Join(ReportDir, prefix+time.Now().Format("20060102")+".csv")
}
