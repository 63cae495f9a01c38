package columnar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloxdata/colmux/pkg/errors"
	"github.com/veloxdata/colmux/pkg/testutil"
)

// newTestStore builds a two-field store ("val" int, "tag" string) with a
// recording sink.
func newTestStore(t *testing.T, defaultCapacity int) (*Store, *testutil.SinkRecorder) {
	t.Helper()
	rec := &testutil.SinkRecorder{}
	store, err := NewBuilder("test",
		WithDefaultCapacity(defaultCapacity),
		WithSink(rec.Record),
		WithLogger(testutil.TestLogger(t)),
	).
		AddField("val", ColumnTypeInt).
		AddField("tag", ColumnTypeString).
		Build()
	require.NoError(t, err)
	return store, rec
}

// appendValues pushes len(values) slots and sets "val" at each position.
func appendValues(t *testing.T, s *Store, h Handle, values ...int64) {
	t.Helper()
	val, ok := s.Field("val")
	require.True(t, ok)
	base, _ := s.Length(h)
	for n, v := range values {
		s.PushBackSlot(h)
		val.SetByIndex(h, base+n+1, v)
	}
}

// valuesOf reads "val" at every logical position.
func valuesOf(t *testing.T, s *Store, h Handle) []int64 {
	t.Helper()
	val, ok := s.Field("val")
	require.True(t, ok)
	n, ok := s.Length(h)
	require.True(t, ok)
	out := make([]int64, 0, n)
	for i := 1; i <= n; i++ {
		v, present := val.GetByIndex(h, i)
		require.True(t, present, "position %d should hold a value", i)
		out = append(out, v.(int64))
	}
	return out
}

func TestNewArrayHasZeroLength(t *testing.T) {
	store, _ := newTestStore(t, 8)

	for _, c := range []int{1, 4, 256} {
		h := store.New(c)
		n, ok := store.Length(h)
		assert.True(t, ok)
		assert.Equal(t, 0, n)
	}
}

func TestNewDefaultsToConfiguredCapacity(t *testing.T) {
	store, _ := newTestStore(t, 8)

	h := store.New()
	assert.Equal(t, 8, store.directory[h].capacity)

	// Non-positive requests fall back to the default.
	h2 := store.New(0)
	assert.Equal(t, 8, store.directory[h2].capacity)
}

func TestAppendGrowsAndReadsBack(t *testing.T) {
	store, rec := newTestStore(t, 8)
	val, _ := store.Field("val")

	h := store.New(4)
	for i := 1; i <= 5; i++ {
		store.PushBackSlot(h)
		val.SetByIndex(h, i, int64(i*10))
	}

	// 5th push forced 4 -> 8.
	assert.Equal(t, 8, store.directory[h].capacity)
	n, _ := store.Length(h)
	assert.Equal(t, 5, n)

	v, ok := val.GetByIndex(h, 3)
	require.True(t, ok)
	assert.Equal(t, int64(30), v)
	assert.Empty(t, rec.Reports)
}

func TestCapacityDoublesAcrossOverflows(t *testing.T) {
	store, _ := newTestStore(t, 2)

	h := store.New(2)
	want := []int{2, 4, 8, 16, 32}
	seen := []int{store.directory[h].capacity}
	for i := 0; i < 32; i++ {
		store.PushBackSlot(h)
		if c := store.directory[h].capacity; c != seen[len(seen)-1] {
			seen = append(seen, c)
		}
	}
	assert.Equal(t, want, seen)
}

func TestResizeMovesValuesAndClearsOldRange(t *testing.T) {
	store, _ := newTestStore(t, 4)
	val, _ := store.Field("val")
	tag, _ := store.Field("tag")

	h := store.New(4)
	appendValues(t, store, h, 1, 2, 3, 4)
	tag.SetByIndex(h, 2, "two")

	oldStart := store.directory[h].start
	store.PushBackSlot(h) // forces reallocation
	val.SetByIndex(h, 5, 5)

	assert.NotEqual(t, oldStart, store.directory[h].start)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, valuesOf(t, store, h))
	v, ok := tag.GetByIndex(h, 2)
	require.True(t, ok)
	assert.Equal(t, "two", v)

	// Old range must be fully cleared in every column.
	for off := Index(0); off < 4; off++ {
		_, ok := val.At(oldStart + off)
		assert.False(t, ok, "old range offset %d still set in val", off)
		_, ok = tag.At(oldStart + off)
		assert.False(t, ok, "old range offset %d still set in tag", off)
	}
}

func TestLiveRangesNeverOverlap(t *testing.T) {
	store, _ := newTestStore(t, 2)

	handles := make([]Handle, 0, 16)
	for i := 0; i < 16; i++ {
		h := store.New(2)
		appendValues(t, store, h, int64(i), int64(i+1), int64(i+2)) // forces growth
		handles = append(handles, h)
	}

	type span struct{ lo, hi Index }
	spans := make([]span, 0, len(handles))
	for _, h := range handles {
		d := store.directory[h]
		spans = append(spans, span{d.start, d.start + Index(d.capacity) - 1})
	}
	for i := range spans {
		for j := i + 1; j < len(spans); j++ {
			disjoint := spans[i].hi < spans[j].lo || spans[j].hi < spans[i].lo
			assert.True(t, disjoint, "ranges %v and %v overlap", spans[i], spans[j])
		}
	}
}

func TestRemoveAtMiddlePreservesOrder(t *testing.T) {
	store, _ := newTestStore(t, 8)
	h := store.New(8)
	appendValues(t, store, h, 10, 20, 30, 40, 50)

	store.RemoveAt(h, 2)

	assert.Equal(t, []int64{10, 30, 40, 50}, valuesOf(t, store, h))
	n, _ := store.Length(h)
	assert.Equal(t, 4, n)
}

func TestRemoveAtDefaultsToLast(t *testing.T) {
	store, _ := newTestStore(t, 8)
	h := store.New(8)
	appendValues(t, store, h, 1, 2, 3)

	store.RemoveAt(h)

	assert.Equal(t, []int64{1, 2}, valuesOf(t, store, h))
}

func TestRemoveAtClearsVacatedSlot(t *testing.T) {
	store, _ := newTestStore(t, 8)
	val, _ := store.Field("val")
	h := store.New(8)
	appendValues(t, store, h, 1, 2, 3)

	store.RemoveAt(h, 1)

	d := store.directory[h]
	_, ok := val.At(d.start + 2) // old last live slot
	assert.False(t, ok)
}

func TestRemoveAtOutOfRangeNoOps(t *testing.T) {
	store, rec := newTestStore(t, 8)
	h := store.New(8)
	appendValues(t, store, h, 1, 2)

	store.RemoveAt(h, 0)
	store.RemoveAt(h, 3)

	assert.Equal(t, 2, rec.CountKind(errors.ErrorTypeOutOfRange))
	assert.Equal(t, []int64{1, 2}, valuesOf(t, store, h))
}

func TestRemoveAtOnEmptyArrayReports(t *testing.T) {
	store, rec := newTestStore(t, 8)
	h := store.New(8)

	store.RemoveAt(h)

	assert.Equal(t, 1, rec.CountKind(errors.ErrorTypeOutOfRange))
}

func TestRemoveAllIfByValue(t *testing.T) {
	store, _ := newTestStore(t, 8)
	val, _ := store.Field("val")
	h := store.New(8)
	appendValues(t, store, h, 10, 30, 40, 50)

	removed := store.RemoveAllIf(h, func(ix Index) bool {
		v, ok := val.At(ix)
		return ok && v.(int64) > 25
	})

	assert.Equal(t, 3, removed)
	assert.Equal(t, []int64{10}, valuesOf(t, store, h))
	n, _ := store.Length(h)
	assert.Equal(t, 1, n)
}

func TestRemoveAllIfUpdatesSizeAndClearsTail(t *testing.T) {
	store, _ := newTestStore(t, 8)
	val, _ := store.Field("val")
	tag, _ := store.Field("tag")
	h := store.New(8)
	appendValues(t, store, h, 1, 2, 3, 4, 5, 6)

	removed := store.RemoveAllIf(h, func(ix Index) bool {
		v, _ := val.At(ix)
		return v.(int64)%2 == 0
	})

	assert.Equal(t, 3, removed)
	assert.Equal(t, []int64{1, 3, 5}, valuesOf(t, store, h))

	d := store.directory[h]
	assert.Equal(t, 3, d.size)
	for off := Index(3); off < 6; off++ {
		_, ok := val.At(d.start + off)
		assert.False(t, ok, "tail offset %d still set in val", off)
		_, ok = tag.At(d.start + off)
		assert.False(t, ok, "tail offset %d still set in tag", off)
	}
}

func TestRemoveAllIfEverything(t *testing.T) {
	store, _ := newTestStore(t, 8)
	val, _ := store.Field("val")
	h := store.New(8)
	appendValues(t, store, h, 7, 8, 9)
	d := store.directory[h]
	oldStart := d.start

	removed := store.RemoveAllIf(h, func(Index) bool { return true })

	assert.Equal(t, 3, removed)
	n, _ := store.Length(h)
	assert.Equal(t, 0, n)
	for off := Index(0); off < 3; off++ {
		_, ok := val.At(oldStart + off)
		assert.False(t, ok)
	}
}

func TestRemoveAllIfNothingMatches(t *testing.T) {
	store, _ := newTestStore(t, 8)
	h := store.New(8)
	appendValues(t, store, h, 1, 2, 3)

	removed := store.RemoveAllIf(h, func(Index) bool { return false })

	assert.Equal(t, 0, removed)
	assert.Equal(t, []int64{1, 2, 3}, valuesOf(t, store, h))
}

func TestInsertSlotAtShiftsRight(t *testing.T) {
	store, _ := newTestStore(t, 8)
	val, _ := store.Field("val")
	h := store.New(8)
	appendValues(t, store, h, 1, 2, 3)

	store.InsertSlotAt(h, 2)

	n, _ := store.Length(h)
	assert.Equal(t, 4, n)

	// The opened slot is undefined until set.
	_, ok := val.GetByIndex(h, 2)
	assert.False(t, ok)

	val.SetByIndex(h, 2, 99)
	assert.Equal(t, []int64{1, 99, 2, 3}, valuesOf(t, store, h))
}

func TestInsertSlotAtFullFusesGrowAndGap(t *testing.T) {
	store, _ := newTestStore(t, 2)
	val, _ := store.Field("val")
	h := store.New(2)
	appendValues(t, store, h, 1, 2)

	store.InsertSlotAt(h, 1)

	d := store.directory[h]
	assert.Equal(t, 4, d.capacity)
	assert.Equal(t, 3, d.size)

	_, ok := val.GetByIndex(h, 1)
	assert.False(t, ok, "gap slot must be cleared")
	v, _ := val.GetByIndex(h, 2)
	assert.Equal(t, int64(1), v)
	v, _ = val.GetByIndex(h, 3)
	assert.Equal(t, int64(2), v)
}

func TestInsertSlotAtAppendPosition(t *testing.T) {
	store, _ := newTestStore(t, 2)
	val, _ := store.Field("val")
	h := store.New(2)
	appendValues(t, store, h, 1, 2)

	store.InsertSlotAt(h, 3) // size+1 while full: append path doubles

	d := store.directory[h]
	assert.Equal(t, 4, d.capacity)
	assert.Equal(t, 3, d.size)
	val.SetByIndex(h, 3, 3)
	assert.Equal(t, []int64{1, 2, 3}, valuesOf(t, store, h))
}

func TestInsertSlotAtValidation(t *testing.T) {
	store, rec := newTestStore(t, 8)
	h := store.New(8)
	appendValues(t, store, h, 1, 2)

	store.InsertSlotAt(h, 0)
	store.InsertSlotAt(h, -3)
	assert.Equal(t, 2, rec.CountKind(errors.ErrorTypeUnsupportedIndex))

	store.InsertSlotAt(h, 4) // size+1 is 3
	assert.Equal(t, 1, rec.CountKind(errors.ErrorTypeOutOfRange))

	assert.Equal(t, []int64{1, 2}, valuesOf(t, store, h))
}

func TestInsertEquivalenceAcrossReallocation(t *testing.T) {
	// Inserting at position k produces the same order whether or not the
	// insertion triggers a capacity-driven reallocation.
	const n = 6
	for k := 1; k <= n+1; k++ {
		store, _ := newTestStore(t, n)
		val, _ := store.Field("val")

		full := store.New(n) // exactly full after n appends
		slack := store.New(n * 2)
		seq := make([]int64, n)
		for i := range seq {
			seq[i] = int64(i + 1)
		}
		appendValues(t, store, full, seq...)
		appendValues(t, store, slack, seq...)

		store.InsertSlotAt(full, k)
		store.InsertSlotAt(slack, k)
		val.SetByIndex(full, k, 777)
		val.SetByIndex(slack, k, 777)

		assert.Equal(t, valuesOf(t, store, slack), valuesOf(t, store, full),
			"insert at %d diverges across reallocation", k)
	}
}

func TestDeleteClearsAndInvalidates(t *testing.T) {
	store, rec := newTestStore(t, 8)
	val, _ := store.Field("val")

	h := store.New(8)
	other := store.New(8)
	appendValues(t, store, h, 1, 2, 3)
	appendValues(t, store, other, 4, 5)
	start := store.directory[h].start

	store.Delete(h)

	for off := Index(0); off < 3; off++ {
		_, ok := val.At(start + off)
		assert.False(t, ok)
	}

	// Every subsequent operation reports unknown_handle and no-ops.
	rec.Reset()
	_, ok := store.Length(h)
	assert.False(t, ok)
	store.PushBackSlot(h)
	store.RemoveAt(h)
	store.Delete(h)
	_, ok = val.GetByIndex(h, 1)
	assert.False(t, ok)
	assert.Equal(t, 5, rec.CountKind(errors.ErrorTypeUnknownHandle))

	// Other handles stay intact.
	assert.Equal(t, []int64{4, 5}, valuesOf(t, store, other))
}

func TestAccessorIndexValidation(t *testing.T) {
	store, rec := newTestStore(t, 8)
	val, _ := store.Field("val")
	h := store.New(8)
	appendValues(t, store, h, 1, 2)

	_, ok := val.GetByIndex(h, 0)
	assert.False(t, ok)
	_, ok = val.GetByIndex(h, 3)
	assert.False(t, ok)
	val.SetByIndex(h, 5, 10)
	assert.Equal(t, 3, rec.CountKind(errors.ErrorTypeOutOfRange))
	assert.Equal(t, []int64{1, 2}, valuesOf(t, store, h))
}

func TestStatsSnapshot(t *testing.T) {
	store, _ := newTestStore(t, 8)
	h := store.New(8)
	appendValues(t, store, h, 1, 2, 3)

	st := store.Stats()
	assert.Equal(t, "test", st.Schema)
	assert.Equal(t, 1, st.LiveArrays)
	assert.Equal(t, 3, st.ColumnCells["val"])
	assert.Greater(t, st.Cursor, uint64(1))
}
