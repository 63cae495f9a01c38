package columnar

import (
	"github.com/veloxdata/colmux/pkg/errors"
)

// RangeAllocator issues disjoint, monotonically increasing index ranges.
// Ranges are never reclaimed: retiring an array abandons its range
// permanently. This is a deliberate bounded-lifetime design; processes
// with an unbounded horizon should layer reuse on top.
type RangeAllocator struct {
	cursor     Index
	nextHandle Handle
	maxIndex   Index
	sink       DiagnosticSink
}

// NewRangeAllocator creates an allocator with its cursor at index 1.
// maxIndex of zero means the index space is unbounded.
func NewRangeAllocator(maxIndex uint64, sink DiagnosticSink) *RangeAllocator {
	if sink == nil {
		sink = NopSink
	}
	return &RangeAllocator{
		cursor:     1,
		nextHandle: 1,
		maxIndex:   Index(maxIndex),
		sink:       sink,
	}
}

// Allocate grants a fresh range of the requested capacity and returns its
// start index. When a configured bound is exceeded the condition is
// reported through the sink, but the grant still succeeds: the bound is a
// warning threshold, not a hard limit.
func (a *RangeAllocator) Allocate(capacity int) Index {
	start := a.cursor
	a.cursor += Index(capacity)
	if a.maxIndex > 0 && a.cursor-1 > a.maxIndex {
		a.sink(errors.ErrorTypeOutOfRange,
			errors.Newf(errors.ErrorTypeOutOfRange,
				"index cursor %d exceeds configured bound %d", a.cursor-1, a.maxIndex).Error())
	}
	return start
}

// MintHandle returns the next handle from the companion id sequence.
func (a *RangeAllocator) MintHandle() Handle {
	h := a.nextHandle
	a.nextHandle++
	return h
}

// Cursor returns the current cursor position: the next index that will be
// granted.
func (a *RangeAllocator) Cursor() Index {
	return a.cursor
}
