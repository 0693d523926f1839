// Package dynamic provides the online indexes the benchmark drives while
// writers and readers run concurrently.
//
// HashIndex shards keys across RW-locked maps. HybridIndex pairs a static
// indexer.KAryIndex over the table with a HashIndex holding everything
// inserted since the last Reorganize.
package dynamic
