package main

import (
	"fmt"
	"io"

	"github.com/ic-timon/karybench/bench/gen"
	"github.com/ic-timon/karybench/indexer/trie"
)

const (
	smokeKeys    = 10
	smokeKeySize = 8
	smokeBase    = 2048
)

// runTrieSmoke inserts random readable keys into a byte trie and prints what
// each lookup finds.
func runTrieSmoke(w io.Writer) {
	rng := gen.NewFastRandom(0)
	keys := make([][]byte, smokeKeys)
	t := trie.New()
	for i := range keys {
		keys[i] = make([]byte, smokeKeySize)
		rng.NextReadableBytes(keys[i])
		t.Insert(keys[i], uint64(i+smokeBase))
	}
	for _, k := range keys {
		vals := t.Find(k)
		if len(vals) == 0 {
			fmt.Fprintln(w, "found nothing!")
			continue
		}
		for _, v := range vals {
			fmt.Fprintf(w, "%s: %d\n", k, v)
		}
	}
}
