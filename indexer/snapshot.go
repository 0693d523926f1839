package indexer

import (
	"cmp"
	"slices"
	"sort"
)

// Entry is a (key, value) pair. Value is usually a table offset.
type Entry[K cmp.Ordered] struct {
	Key   K
	Value uint64
}

// Source is anything a snapshot can be derived from, typically a table.
type Source[K cmp.Ordered] interface {
	// Scan calls fn for every stored pair until fn returns false.
	Scan(fn func(key K, value uint64) bool)
	// ApproxSize is used as a capacity hint.
	ApproxSize() int
}

// SliceSource adapts a slice of entries to Source.
type SliceSource[K cmp.Ordered] []Entry[K]

// Scan implements Source.
func (s SliceSource[K]) Scan(fn func(key K, value uint64) bool) {
	for _, e := range s {
		if !fn(e.Key, e.Value) {
			return
		}
	}
}

// ApproxSize implements Source.
func (s SliceSource[K]) ApproxSize() int { return len(s) }

// Snapshot is an immutable copy of a Source sorted by key. Equal keys are
// adjacent and keep their scan order.
type Snapshot[K cmp.Ordered] struct {
	entries []Entry[K]
}

// NewSnapshot copies every pair out of src and sorts them.
func NewSnapshot[K cmp.Ordered](src Source[K]) *Snapshot[K] {
	entries := make([]Entry[K], 0, src.ApproxSize())
	src.Scan(func(key K, value uint64) bool {
		entries = append(entries, Entry[K]{Key: key, Value: value})
		return true
	})
	slices.SortStableFunc(entries, func(a, b Entry[K]) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return &Snapshot[K]{entries: entries}
}

// Len returns the number of entries.
func (s *Snapshot[K]) Len() int { return len(s.entries) }

// At returns the i-th entry in key order.
func (s *Snapshot[K]) At(i int) Entry[K] { return s.entries[i] }

// search binary searches [begin, end] for key and returns its position or -1.
func (s *Snapshot[K]) search(key K, begin, end int) int {
	for begin <= end {
		mid := int(uint(begin+end) >> 1)
		switch k := s.entries[mid].Key; {
		case key == k:
			return mid
		case key > k:
			begin = mid + 1
		default:
			end = mid - 1
		}
	}
	return -1
}

// lowerBound returns the first position in [begin, end+1] whose key is >= key.
func (s *Snapshot[K]) lowerBound(key K, begin, end int) int {
	if begin > end {
		return begin
	}
	return begin + sort.Search(end-begin+1, func(i int) bool {
		return s.entries[begin+i].Key >= key
	})
}

// run widens pos to the full run of entries sharing its key.
func (s *Snapshot[K]) run(pos int) (lo, hi int) {
	key := s.entries[pos].Key
	lo, hi = pos, pos
	for lo > 0 && s.entries[lo-1].Key == key {
		lo--
	}
	for hi < len(s.entries)-1 && s.entries[hi+1].Key == key {
		hi++
	}
	return lo, hi
}

func (s *Snapshot[K]) values(lo, hi int) []uint64 {
	out := make([]uint64, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, s.entries[i].Value)
	}
	return out
}
