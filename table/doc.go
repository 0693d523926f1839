// Package table provides the append-only tuple store that backs the benchmark.
//
// Tuples are appended into fixed-size chunks drawn from a Pool. Chunks live on
// the Go heap by default, or in anonymous memory mappings when
// Config.UseOffheap is set, which keeps large tables out of the GC's scan set.
//
//	tbl := table.New(table.DefaultConfig())
//	defer tbl.Close()
//	off := tbl.Insert(key, value)
//	tup, ok := tbl.Get(off)
package table
