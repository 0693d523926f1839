package metrics

import (
	"bytes"
	"encoding/csv"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterval_String(t *testing.T) {
	iv := Interval{
		Start:   0,
		End:     500 * time.Millisecond,
		Inserts: 1_250_000,
		Reads:   30_000_000,
		RSS:     3 * GiB / 2,
		Tuples:  GiB / TupleBytes,
	}
	assert.Equal(t, "[ 0.00 -  0.50 s]:   1.25 M  |  30.00 M  |   1.50 GB  |   1.00 GB", iv.String())
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "insert = 2, read = 4, throughput = 12.35 M ops", Summary(2, 4, 12_345_678))
}

func TestThroughput(t *testing.T) {
	assert.InDelta(t, 2000.0, Throughput(1000, 500*time.Millisecond), 1e-9)
	assert.Zero(t, Throughput(1000, 0))
}

func TestReportWriter(t *testing.T) {
	var buf bytes.Buffer
	rw := NewReportWriter(&buf)
	require.NoError(t, rw.Header())
	require.NoError(t, rw.Row(Interval{Start: 0, End: time.Second, Inserts: 1e6}))
	require.NoError(t, rw.Row(Interval{Start: time.Second, End: 2 * time.Second, Inserts: 2e6}))
	require.NoError(t, rw.Summary(Summary(1, 0, 1.5e6)))
	require.NoError(t, rw.Err())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, Header, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "[ 0.00 -  1.00 s]:   1.00 M"))
	assert.True(t, strings.HasPrefix(lines[2], "[ 1.00 -  2.00 s]:   2.00 M"))
	assert.Equal(t, "insert = 1, read = 0, throughput = 1.50 M ops", lines[3])
}

type failWriter struct{ n int }

func (f *failWriter) Write(p []byte) (int, error) {
	f.n++
	return 0, errors.New("disk full")
}

func TestReportWriter_KeepsFirstError(t *testing.T) {
	fw := &failWriter{}
	rw := NewReportWriter(fw)
	require.EqualError(t, rw.Header(), "disk full")
	assert.EqualError(t, rw.Row(Interval{}), "disk full")
	assert.EqualError(t, rw.Summary("x"), "disk full")
	assert.EqualError(t, rw.Err(), "disk full")
	assert.Equal(t, 1, fw.n, "no writes after the first failure")
}

func TestWriteIntervalsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "intervals.csv")
	rows := []Interval{{Start: 0, End: time.Second, Inserts: 10, Reads: 20, RSS: 30, Tuples: 4}}
	require.NoError(t, WriteIntervalsCSV(rows, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"0.00", "1.00", "10", "20", "30", "4", "64"}, records[1])
}

func TestTake(t *testing.T) {
	before := Take()
	sink := make([][]byte, 0, 64)
	for i := 0; i < 64; i++ {
		sink = append(sink, make([]byte, 1<<16))
	}
	GC()
	after := Take()
	require.Len(t, sink, 64)

	assert.NotZero(t, after.RSS)
	assert.NotZero(t, ProcessMemory())
	assert.GreaterOrEqual(t, after.TotalAlloc-before.TotalAlloc, uint64(64<<16))
	assert.Greater(t, after.NumGC, before.NumGC, "GC runs a collection")

	rate, gcs := Diff(before, after)
	assert.Greater(t, rate, 0.0)
	assert.GreaterOrEqual(t, gcs, uint32(1))
}

func TestDiff_ZeroElapsed(t *testing.T) {
	s := Take()
	rate, gcs := Diff(s, s)
	assert.Zero(t, rate)
	assert.Zero(t, gcs)
}

func TestExporter(t *testing.T) {
	e := NewExporter()
	e.ObserveInterval(Interval{Inserts: 5, Reads: 7, RSS: 100, Tuples: 3})
	e.ObserveInterval(Interval{Inserts: 1, Reads: 1, RSS: 200, Tuples: 4})
	e.ObserveRebuild(10, time.Millisecond, nil)

	assert.Equal(t, 6.0, testutil.ToFloat64(e.ops.WithLabelValues("insert")))
	assert.Equal(t, 8.0, testutil.ToFloat64(e.ops.WithLabelValues("read")))
	assert.Equal(t, 200.0, testutil.ToFloat64(e.rss))
	assert.Equal(t, 4.0, testutil.ToFloat64(e.tuples))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.intervals))

	rec := httptest.NewRecorder()
	e.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "karybench_operations_total")
	assert.Contains(t, rec.Body.String(), "karybench_rebuild_duration_seconds")
}

var _ Observer = NoopObserver{}
var _ Observer = (*Exporter)(nil)
