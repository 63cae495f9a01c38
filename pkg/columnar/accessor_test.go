package columnar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloxdata/colmux/pkg/errors"
	"github.com/veloxdata/colmux/pkg/testutil"
)

func TestFieldUnknownName(t *testing.T) {
	store, _ := newTestStore(t, 8)

	_, ok := store.Field("missing")
	assert.False(t, ok)
	_, ok = store.Fields("val", "missing")
	assert.False(t, ok)
}

func TestFieldCoercesOnSet(t *testing.T) {
	store, _ := newTestStore(t, 8)
	val, _ := store.Field("val")
	h := store.New(8)
	store.PushBackSlot(h)

	val.SetByIndex(h, 1, "42") // int column parses numeric strings

	v, ok := val.GetByIndex(h, 1)
	require.True(t, ok)
	assert.Equal(t, int64(42), v)
}

func TestFieldSetCoercionFailureReports(t *testing.T) {
	store, rec := newTestStore(t, 8)
	val, _ := store.Field("val")
	h := store.New(8)
	store.PushBackSlot(h)

	val.SetByIndex(h, 1, []string{"not", "an", "int"})

	assert.Equal(t, 1, rec.CountKind(errors.ErrorTypeData))
	_, ok := val.GetByIndex(h, 1)
	assert.False(t, ok)
}

func TestTupleSetAndGet(t *testing.T) {
	store, _ := newTestStore(t, 8)
	row, ok := store.Fields("val", "tag")
	require.True(t, ok)

	h := store.New(8)
	store.PushBackSlot(h)
	row.SetByIndex(h, 1, 5, "five")

	got, ok := row.GetByIndex(h, 1)
	require.True(t, ok)
	defer got.Release()
	assert.Equal(t, int64(5), got.Values["val"])
	assert.Equal(t, "five", got.Values["tag"])
}

func TestTupleSetIsAllOrNone(t *testing.T) {
	store, rec := newTestStore(t, 8)
	row, _ := store.Fields("val", "tag")
	val, _ := store.Field("val")
	tag, _ := store.Field("tag")

	h := store.New(8)
	store.PushBackSlot(h)

	// Second value cannot coerce to string; neither column may be touched.
	row.SetByIndex(h, 1, 5, 12345)

	assert.Equal(t, 1, rec.CountKind(errors.ErrorTypeData))
	_, ok := val.GetByIndex(h, 1)
	assert.False(t, ok)
	_, ok = tag.GetByIndex(h, 1)
	assert.False(t, ok)
}

func TestTupleArityMismatchReports(t *testing.T) {
	store, rec := newTestStore(t, 8)
	row, _ := store.Fields("val", "tag")
	h := store.New(8)
	store.PushBackSlot(h)

	row.SetByIndex(h, 1, 5)

	assert.Equal(t, 1, rec.CountKind(errors.ErrorTypeData))
}

func TestTupleIndexValidation(t *testing.T) {
	store, rec := newTestStore(t, 8)
	row, _ := store.Fields("val", "tag")
	h := store.New(8)

	_, ok := row.GetByIndex(h, 1) // size is 0
	assert.False(t, ok)
	row.SetByIndex(h, 1, 5, "five")
	assert.Equal(t, 2, rec.CountKind(errors.ErrorTypeOutOfRange))
}

func TestAccessorsShareColumnsAcrossArrays(t *testing.T) {
	// One accessor serves every logical array in the schema.
	store, _ := newTestStore(t, 4)
	val, _ := store.Field("val")

	a := store.New(4)
	b := store.New(4)
	appendValues(t, store, a, 1, 2)
	appendValues(t, store, b, 10, 20)

	va, _ := val.GetByIndex(a, 2)
	vb, _ := val.GetByIndex(b, 2)
	assert.Equal(t, int64(2), va)
	assert.Equal(t, int64(20), vb)
}

func TestMemoryUsageGrowsWithValues(t *testing.T) {
	rec := &testutil.SinkRecorder{}
	store, err := NewBuilder("mem",
		WithSink(rec.Record),
		WithLogger(testutil.TestLogger(t)),
	).
		AddField("s", ColumnTypeString).
		Build()
	require.NoError(t, err)

	s, _ := store.Field("s")
	h := store.New(4)
	before := store.Stats().ColumnBytes["s"]
	store.PushBackSlot(h)
	s.SetByIndex(h, 1, "payload")

	assert.Greater(t, store.Stats().ColumnBytes["s"], before)
}
