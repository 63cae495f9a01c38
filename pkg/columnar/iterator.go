package columnar

import (
	"github.com/veloxdata/colmux/pkg/pool"
)

// Iterator provides forward sequential access to one logical array's
// elements. A fresh iterator sits before the first element; Reset returns
// it there. The iterator is not safe across structural mutation of the same
// handle: resizing or compacting the array mid-iteration leaves the
// traversal order undefined.
type Iterator struct {
	store  *Store
	handle Handle
	pos    int
	buffer *pool.Row
}

// NewIterator creates an iterator over the logical array's elements.
func (s *Store) NewIterator(h Handle) *Iterator {
	return &Iterator{
		store:  s,
		handle: h,
		pos:    0,
	}
}

// Next advances to the next element and reports whether one exists.
func (it *Iterator) Next() bool {
	d, ok := it.store.lookup("Iterator.Next", it.handle)
	if !ok {
		return false
	}
	if it.pos >= d.size {
		return false
	}
	it.pos++
	return true
}

// Position returns the current 1-based logical position, or 0 before the
// first element.
func (it *Iterator) Position() int {
	return it.pos
}

// Value returns the named field's value at the current position.
func (it *Iterator) Value(field string) (interface{}, bool) {
	if it.pos == 0 {
		return nil, false
	}
	col, ok := it.store.columns[field]
	if !ok {
		return nil, false
	}
	ix, ok := it.store.translate("Iterator.Value", it.handle, it.pos)
	if !ok {
		return nil, false
	}
	return col.Get(ix)
}

// Row returns every field's value at the current position in a buffer
// reused across calls. The buffer is only valid until the next call to Row,
// Next, or Close.
func (it *Iterator) Row() map[string]interface{} {
	if it.buffer == nil {
		it.buffer = pool.GetRow()
	}
	for k := range it.buffer.Values {
		delete(it.buffer.Values, k)
	}
	if it.pos == 0 {
		return it.buffer.Values
	}
	ix, ok := it.store.translate("Iterator.Row", it.handle, it.pos)
	if !ok {
		return it.buffer.Values
	}
	for _, name := range it.store.order {
		if v, present := it.store.columns[name].Get(ix); present {
			it.buffer.Values[name] = v
		}
	}
	return it.buffer.Values
}

// Reset returns the iterator to before the first element.
func (it *Iterator) Reset() {
	it.pos = 0
}

// Close releases the iterator's row buffer back to its pool.
func (it *Iterator) Close() {
	if it.buffer != nil {
		it.buffer.Release()
		it.buffer = nil
	}
}
