// Package indexer provides a read-optimized static index over a sorted
// snapshot of a table.
//
// KAryIndex samples real keys from the snapshot into a flattened k-ary router
// tree of fixed depth. A lookup linearly scans at most Fanout-1 separators per
// layer, then binary searches a leaf sub-range a factor Fanout^NumLayers
// smaller than the snapshot.
//
// Quick start:
//
//	cfg := &indexer.Config{NumLayers: 3, Fanout: 8}
//	idx, err := indexer.NewKAryIndex[uint64](tbl.Offsets(), cfg)
//	if err := idx.Reorganize(); err != nil { ... }
//	values := idx.Find(key)
//
// The index is immutable between calls to Reorganize. A rebuild publishes a
// new version atomically, so Find and FindRange may run concurrently with it.
package indexer
