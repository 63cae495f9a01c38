package columnar

import (
	"github.com/veloxdata/colmux/pkg/errors"
	"github.com/veloxdata/colmux/pkg/pool"
)

// FieldAccessor reads and writes one registered field of a logical array
// through 1-based logical offsets. One accessor serves every logical array
// in the schema; this is what keeps N arrays at O(fields) accessor cost.
type FieldAccessor struct {
	store *Store
	name  string
	col   Column
}

// Field returns the accessor for a registered field. The second return is
// false when no field of that name was registered.
func (s *Store) Field(name string) (*FieldAccessor, bool) {
	col, ok := s.columns[name]
	if !ok {
		return nil, false
	}
	return &FieldAccessor{store: s, name: name, col: col}, true
}

// translate validates a 1-based logical offset against the array's size and
// returns the absolute column index.
func (s *Store) translate(op string, h Handle, i int) (Index, bool) {
	d, ok := s.lookup(op, h)
	if !ok {
		return 0, false
	}
	if i < 1 || i > d.size {
		s.report(errors.ErrorTypeOutOfRange,
			errors.Newf(errors.ErrorTypeOutOfRange,
				"%s: index %d outside [1, %d]", op, i, d.size).Error())
		return 0, false
	}
	return d.start + Index(i) - 1, true
}

// GetByIndex returns the field value at logical position i.
func (f *FieldAccessor) GetByIndex(h Handle, i int) (interface{}, bool) {
	ix, ok := f.store.translate("GetByIndex("+f.name+")", h, i)
	if !ok {
		return nil, false
	}
	return f.col.Get(ix)
}

// SetByIndex stores a field value at logical position i.
func (f *FieldAccessor) SetByIndex(h Handle, i int, value interface{}) {
	ix, ok := f.store.translate("SetByIndex("+f.name+")", h, i)
	if !ok {
		return
	}
	if err := f.col.Set(ix, value); err != nil {
		f.store.report(errors.ErrorTypeData,
			errors.Wrap(err, errors.ErrorTypeData,
				"SetByIndex("+f.name+")").Error())
	}
}

// At reads the field value at an absolute column index, bypassing logical
// translation. Intended for RemoveAllIf predicates, which receive absolute
// indices.
func (f *FieldAccessor) At(ix Index) (interface{}, bool) {
	return f.col.Get(ix)
}

// Name returns the accessor's field name.
func (f *FieldAccessor) Name() string { return f.name }

// TupleAccessor reads and writes several registered fields per call, at the
// same logical position. Writes are all-or-none: values are validated
// against every column before any column is touched.
type TupleAccessor struct {
	store *Store
	names []string
	cols  []Column
}

// Fields returns a tuple accessor over the named fields. The second return
// is false when any name is not registered.
func (s *Store) Fields(names ...string) (*TupleAccessor, bool) {
	cols := make([]Column, len(names))
	for i, name := range names {
		col, ok := s.columns[name]
		if !ok {
			return nil, false
		}
		cols[i] = col
	}
	return &TupleAccessor{store: s, names: names, cols: cols}, true
}

// GetByIndex returns the tuple's field values at logical position i as a
// pooled row keyed by field name. The caller must Release the row.
func (t *TupleAccessor) GetByIndex(h Handle, i int) (*pool.Row, bool) {
	ix, ok := t.store.translate("GetByIndex(tuple)", h, i)
	if !ok {
		return nil, false
	}
	row := pool.GetRow()
	for n, col := range t.cols {
		if v, present := col.Get(ix); present {
			row.Values[t.names[n]] = v
		}
	}
	return row, true
}

// SetByIndex stores one value per field at logical position i, in field
// registration order of the accessor. All fields are written or none.
func (t *TupleAccessor) SetByIndex(h Handle, i int, values ...interface{}) {
	if len(values) != len(t.cols) {
		t.store.report(errors.ErrorTypeData,
			errors.Newf(errors.ErrorTypeData,
				"SetByIndex(tuple): got %d values for %d fields", len(values), len(t.cols)).Error())
		return
	}
	ix, ok := t.store.translate("SetByIndex(tuple)", h, i)
	if !ok {
		return
	}
	for n, col := range t.cols {
		if err := col.Validate(values[n]); err != nil {
			t.store.report(errors.ErrorTypeData,
				errors.Wrap(err, errors.ErrorTypeData,
					"SetByIndex(tuple): field "+t.names[n]).Error())
			return
		}
	}
	for n, col := range t.cols {
		// Validated above; Set cannot fail here.
		_ = col.Set(ix, values[n])
	}
}
