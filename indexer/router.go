package indexer

import (
	"cmp"
	"math"
)

// router is a complete k-ary tree of separator keys flattened breadth-first.
// Node (layer l, position p) owns keys[k^l-1+p*(k-1) : k^l-1+(p+1)*(k-1)].
//
// A node spanning snapshot positions [begin, end] samples its separators at
// begin+step*i for i in 1..k-1, step = (end-begin)/k. Child c owns the
// positions strictly between separators c-1 and c; child 0 starts at begin
// and child k-1 ends at end. Nodes over empty ranges are never written or read.
type router[K cmp.Ordered] struct {
	fanout int
	layers int
	starts []int // starts[l] = fanout^l - 1
	keys   []K
}

// separatorCount returns fanout^layers - 1, or false on overflow.
func separatorCount(fanout, layers int) (int, bool) {
	total := 1
	for i := 0; i < layers; i++ {
		if total > math.MaxInt/fanout {
			return 0, false
		}
		total *= fanout
	}
	return total - 1, true
}

func newRouter[K cmp.Ordered](snap *Snapshot[K], fanout, layers int) (*router[K], error) {
	n, ok := separatorCount(fanout, layers)
	if !ok {
		return nil, &CapacityError{Layers: layers, Fanout: fanout, Separators: -1, Entries: snap.Len()}
	}
	if n >= snap.Len() {
		return nil, &CapacityError{Layers: layers, Fanout: fanout, Separators: n, Entries: snap.Len()}
	}
	r := &router[K]{
		fanout: fanout,
		layers: layers,
		starts: make([]int, layers),
		keys:   make([]K, n),
	}
	start := 1
	for l := range r.starts {
		r.starts[l] = start - 1
		start *= fanout
	}
	r.build(snap.entries)
	return r, nil
}

func (r *router[K]) node(layer, pos int) []K {
	off := r.starts[layer] + pos*(r.fanout-1)
	return r.keys[off : off+r.fanout-1 : off+r.fanout-1]
}

// childRange returns the positions owned by child c of a node over [begin, end].
func (r *router[K]) childRange(begin, end, step, c int) (int, int) {
	switch c {
	case 0:
		return begin, begin + step - 1
	case r.fanout - 1:
		return begin + step*c + 1, end
	default:
		return begin + step*c + 1, begin + step*(c+1) - 1
	}
}

type span struct {
	layer, pos int
	begin, end int
}

// build fills every reachable node depth-first with an explicit stack.
func (r *router[K]) build(entries []Entry[K]) {
	stack := make([]span, 0, r.layers*(r.fanout-1)+1)
	stack = append(stack, span{layer: 0, pos: 0, begin: 0, end: len(entries) - 1})
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.begin > s.end {
			continue
		}
		step := (s.end - s.begin) / r.fanout
		seps := r.node(s.layer, s.pos)
		for i := range seps {
			seps[i] = entries[s.begin+step*(i+1)].Key
		}
		if s.layer+1 == r.layers {
			continue
		}
		for c := r.fanout - 1; c >= 0; c-- {
			b, e := r.childRange(s.begin, s.end, step, c)
			stack = append(stack, span{layer: s.layer + 1, pos: s.pos*r.fanout + c, begin: b, end: e})
		}
	}
}

// locate returns the position of some entry with key, or -1.
func (r *router[K]) locate(snap *Snapshot[K], key K) int {
	begin, end, pos := 0, snap.Len()-1, 0
	for layer := 0; layer < r.layers; layer++ {
		if begin > end {
			return -1
		}
		step := (end - begin) / r.fanout
		child := r.fanout - 1
		for i, sep := range r.node(layer, pos) {
			if key == sep {
				// separators are sampled keys, so the hit is exact
				return begin + step*(i+1)
			}
			if key < sep {
				child = i
				break
			}
		}
		begin, end = r.childRange(begin, end, step, child)
		pos = pos*r.fanout + child
	}
	return snap.search(key, begin, end)
}

// lowerBound returns the first position whose key is >= key, or snap.Len().
// Descending into child c keeps the answer in [begin, end+1] because every
// position before the child is < key and separator c is >= key.
func (r *router[K]) lowerBound(snap *Snapshot[K], key K) int {
	begin, end, pos := 0, snap.Len()-1, 0
	for layer := 0; layer < r.layers; layer++ {
		if begin > end {
			return begin
		}
		step := (end - begin) / r.fanout
		child := r.fanout - 1
		for i, sep := range r.node(layer, pos) {
			if sep >= key {
				child = i
				break
			}
		}
		begin, end = r.childRange(begin, end, step, child)
		pos = pos*r.fanout + child
	}
	return snap.lowerBound(key, begin, end)
}
