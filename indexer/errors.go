package indexer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFanout is returned when the branching factor is below 2.
	ErrInvalidFanout = errors.New("indexer: fanout must be at least 2")
	// ErrInvalidLayers is returned for a negative router depth.
	ErrInvalidLayers = errors.New("indexer: number of layers must not be negative")
	// ErrCapacityExceeded is matched by every *CapacityError.
	ErrCapacityExceeded = errors.New("indexer: router exceeds snapshot size")
	// ErrInvalidRange is returned by FindRange when lhs is not below rhs.
	ErrInvalidRange = errors.New("indexer: range lower bound must be below upper bound")
)

// CapacityError indicates a router with at least as many separators as the
// snapshot has entries.
type CapacityError struct {
	Layers     int
	Fanout     int
	Separators int // -1 when Fanout^Layers overflows int
	Entries    int
}

func (e *CapacityError) Error() string {
	if e.Separators < 0 {
		return fmt.Sprintf("indexer: router of %d layers with fanout %d overflows, snapshot has %d entries",
			e.Layers, e.Fanout, e.Entries)
	}
	return fmt.Sprintf("indexer: router of %d layers with fanout %d needs %d separators, snapshot has %d entries",
		e.Layers, e.Fanout, e.Separators, e.Entries)
}

// Is reports whether target is ErrCapacityExceeded.
func (e *CapacityError) Is(target error) bool { return target == ErrCapacityExceeded }
