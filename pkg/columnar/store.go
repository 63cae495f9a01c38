package columnar

import (
	"go.uber.org/zap"

	"github.com/veloxdata/colmux/pkg/errors"
	"github.com/veloxdata/colmux/pkg/metrics"
)

// descriptor records one logical array's live range inside the shared
// columns. The live run is [start, start+size-1]; the reserved tail
// [start+size, start+capacity-1] holds no values.
type descriptor struct {
	start    Index
	size     int
	capacity int
}

// Store multiplexes many logical arrays over one set of shared columns.
// All operations assume a single logical thread of control; concurrent
// calls touching the same handle or colliding with an allocation are
// undefined and must be serialized by the caller.
type Store struct {
	name       string
	columns    map[string]Column
	order      []string
	directory  map[Handle]*descriptor
	alloc      *RangeAllocator
	defaultCap int
	sink       DiagnosticSink
	log        *zap.Logger
	metricsOn  bool
}

// report forwards a misuse condition to the injected sink and counts it.
func (s *Store) report(kind errors.ErrorType, msg string) {
	if s.metricsOn {
		metrics.Misuses.WithLabelValues(s.name, string(kind)).Inc()
	}
	s.sink(kind, msg)
}

// copyFn returns the copy primitive applied to every registered column,
// keeping the columns aligned through every structural move.
func (s *Store) copyFn() CopyFunc {
	return func(src, dst Index) {
		for _, name := range s.order {
			s.columns[name].Copy(src, dst)
		}
	}
}

// clearAt clears one absolute index in every registered column.
func (s *Store) clearAt(ix Index) {
	for _, name := range s.order {
		s.columns[name].Clear(ix)
	}
}

// lookup resolves a handle, reporting unknown_handle when it is missing.
func (s *Store) lookup(op string, h Handle) (*descriptor, bool) {
	d, ok := s.directory[h]
	if !ok {
		s.report(errors.ErrorTypeUnknownHandle,
			errors.Newf(errors.ErrorTypeUnknownHandle,
				"%s: unknown handle %d", op, h).Error())
		return nil, false
	}
	return d, true
}

// New creates a logical array and returns its handle. The capacity defaults
// to the configured default; a non-positive request falls back to it.
func (s *Store) New(capacity ...int) Handle {
	c := s.defaultCap
	if len(capacity) > 0 && capacity[0] > 0 {
		c = capacity[0]
	}

	start := s.alloc.Allocate(c)
	h := s.alloc.MintHandle()
	s.directory[h] = &descriptor{start: start, size: 0, capacity: c}

	if s.metricsOn {
		metrics.RangesAllocated.WithLabelValues(s.name).Inc()
		metrics.IndexCursor.WithLabelValues(s.name).Set(float64(s.alloc.Cursor()))
		metrics.LiveArrays.WithLabelValues(s.name).Set(float64(len(s.directory)))
	}
	return h
}

// Length returns the logical array's element count. The second return is
// false when the handle is unknown.
func (s *Store) Length(h Handle) (int, bool) {
	d, ok := s.lookup("Length", h)
	if !ok {
		return 0, false
	}
	return d.size, true
}

// Delete retires a logical array: its live range is cleared in every column
// and its descriptor removed. The handle is invalid afterwards. The index
// range itself is abandoned, never returned to the allocator.
func (s *Store) Delete(h Handle) {
	d, ok := s.lookup("Delete", h)
	if !ok {
		return
	}
	for off := 0; off < d.size; off++ {
		s.clearAt(d.start + Index(off))
	}
	delete(s.directory, h)

	if s.metricsOn {
		metrics.LiveArrays.WithLabelValues(s.name).Set(float64(len(s.directory)))
	}
}

// PushBackSlot appends one slot to the logical array, doubling its capacity
// through a reallocation when full. The new slot's fields are undefined
// until set.
func (s *Store) PushBackSlot(h Handle) {
	d, ok := s.lookup("PushBackSlot", h)
	if !ok {
		return
	}
	if d.size == d.capacity {
		s.resize(d, d.capacity*2, 0, 0)
	}
	d.size++
}

// InsertSlotAt opens one slot at logical position i, shifting the elements
// at [i, size] right by one. i must be in [1, size+1]; i == size+1 appends.
// The opened slot's fields are undefined until set.
func (s *Store) InsertSlotAt(h Handle, i int) {
	d, ok := s.lookup("InsertSlotAt", h)
	if !ok {
		return
	}
	if i <= 0 {
		s.report(errors.ErrorTypeUnsupportedIndex,
			errors.Newf(errors.ErrorTypeUnsupportedIndex,
				"InsertSlotAt: index %d is not positive", i).Error())
		return
	}
	if i > d.size+1 {
		s.report(errors.ErrorTypeOutOfRange,
			errors.Newf(errors.ErrorTypeOutOfRange,
				"InsertSlotAt: index %d outside [1, %d]", i, d.size+1).Error())
		return
	}

	if i == d.size+1 {
		// Append: same as PushBackSlot.
		if d.size == d.capacity {
			s.resize(d, d.capacity*2, 0, 0)
		}
		d.size++
		return
	}

	if d.size == d.capacity {
		// Fused grow+shift: the reallocation leaves the gap slot unwritten
		// in the fresh range, so it is already clear.
		s.resize(d, d.capacity*2, i, 1)
		return
	}

	from := d.start + Index(i) - 1
	to := d.start + Index(d.size) - 1
	copied := copyRange(s.copyFn(), from, to, from+1)
	d.size++
	s.clearAt(from)

	if s.metricsOn && copied > 0 {
		metrics.SlotsCopied.WithLabelValues(s.name, "insert").Add(float64(copied))
	}
}

// resize moves the live run into a fresh range of newCap, optionally
// reserving gapCount unwritten slots before the gapIndex-th element.
// The old range is cleared and abandoned.
func (s *Store) resize(d *descriptor, newCap, gapIndex, gapCount int) {
	if gapIndex > 0 && gapCount <= 0 {
		gapCount = 1
	}

	newStart := s.alloc.Allocate(newCap)
	copied := 0
	if d.size > 0 {
		copied = copyWithGap(s.copyFn(), d.start, d.start+Index(d.size)-1, newStart, gapIndex, gapCount)
	}
	for off := 0; off < d.size; off++ {
		s.clearAt(d.start + Index(off))
	}

	d.start = newStart
	d.capacity = newCap
	if gapIndex > 0 {
		d.size += gapCount
	}

	if s.metricsOn {
		metrics.RangesAllocated.WithLabelValues(s.name).Inc()
		metrics.IndexCursor.WithLabelValues(s.name).Set(float64(s.alloc.Cursor()))
		if copied > 0 {
			metrics.SlotsCopied.WithLabelValues(s.name, "resize").Add(float64(copied))
		}
	}

	s.log.Debug("array resized",
		zap.Uint64("new_start", uint64(newStart)),
		zap.Int("new_capacity", newCap),
		zap.Int("gap_index", gapIndex))
}

// RemoveAt removes the element at logical position i (default: the last),
// shifting the elements after it left by one and preserving their order.
func (s *Store) RemoveAt(h Handle, index ...int) {
	d, ok := s.lookup("RemoveAt", h)
	if !ok {
		return
	}
	i := d.size
	if len(index) > 0 {
		i = index[0]
	}
	if i < 1 || i > d.size {
		s.report(errors.ErrorTypeOutOfRange,
			errors.Newf(errors.ErrorTypeOutOfRange,
				"RemoveAt: index %d outside [1, %d]", i, d.size).Error())
		return
	}

	copied := 0
	if i < d.size {
		from := d.start + Index(i)
		to := d.start + Index(d.size) - 1
		copied = copyRange(s.copyFn(), from, to, from-1)
	}
	s.clearAt(d.start + Index(d.size) - 1)
	d.size--

	if s.metricsOn {
		metrics.ElementsRemoved.WithLabelValues(s.name, "remove_at").Inc()
		if copied > 0 {
			metrics.SlotsCopied.WithLabelValues(s.name, "remove_at").Add(float64(copied))
		}
	}
}

// RemoveAllIf removes every element whose absolute index satisfies the
// predicate, compacting the survivors left in one pass and preserving their
// relative order. Returns the number of elements removed. The vacated tail
// is cleared in every column and the size updated accordingly.
func (s *Store) RemoveAllIf(h Handle, predicate func(Index) bool) int {
	d, ok := s.lookup("RemoveAllIf", h)
	if !ok {
		return 0
	}

	cf := s.copyFn()
	write := d.start
	end := d.start + Index(d.size)
	removed := 0
	copied := 0
	for scan := d.start; scan < end; scan++ {
		if predicate(scan) {
			removed++
			continue
		}
		if write != scan {
			cf(scan, write)
			copied++
		}
		write++
	}

	for ix := write; ix < end; ix++ {
		s.clearAt(ix)
	}
	d.size -= removed

	if s.metricsOn && removed > 0 {
		metrics.ElementsRemoved.WithLabelValues(s.name, "remove_all_if").Add(float64(removed))
		if copied > 0 {
			metrics.SlotsCopied.WithLabelValues(s.name, "remove_all_if").Add(float64(copied))
		}
	}
	return removed
}

// Name returns the schema name.
func (s *Store) Name() string { return s.name }

// FieldNames returns the registered field names in registration order.
func (s *Store) FieldNames() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Cursor returns the allocator's current cursor, the next index to be
// granted.
func (s *Store) Cursor() Index { return s.alloc.Cursor() }

// Stats is a point-in-time snapshot of the store.
type Stats struct {
	Schema      string           `json:"schema"`
	LiveArrays  int              `json:"live_arrays"`
	Cursor      uint64           `json:"cursor"`
	ColumnBytes map[string]int64 `json:"column_bytes"`
	ColumnCells map[string]int   `json:"column_cells"`
}

// Stats returns a snapshot of the store's shape and memory usage.
func (s *Store) Stats() Stats {
	st := Stats{
		Schema:      s.name,
		LiveArrays:  len(s.directory),
		Cursor:      uint64(s.alloc.Cursor()),
		ColumnBytes: make(map[string]int64, len(s.order)),
		ColumnCells: make(map[string]int, len(s.order)),
	}
	for _, name := range s.order {
		st.ColumnBytes[name] = s.columns[name].MemoryUsage()
		st.ColumnCells[name] = s.columns[name].Len()
	}
	return st
}
