package columnar

import (
	"fmt"
	"time"
)

// Index is an absolute position in the shared index space. Indices are
// positive; the range allocator's cursor starts at 1.
type Index uint64

// Handle identifies one logical array. Zero is never a valid handle.
type Handle uint64

// ColumnType represents the data type of a column
type ColumnType int

const (
	ColumnTypeAny ColumnType = iota
	ColumnTypeString
	ColumnTypeInt
	ColumnTypeFloat
	ColumnTypeBool
	ColumnTypeTimestamp
)

// Column is a sparse per-field store shared by all logical arrays, keyed by
// absolute index. An index either holds a value or is cleared; the store
// guarantees that every index inside a live array's range holds a value in
// all of the array's columns or in none of them.
type Column interface {
	Type() ColumnType
	// Set stores a value at an absolute index, coercing it to the column's
	// type. Returns an error when the value cannot be coerced.
	Set(ix Index, value interface{}) error
	// Get returns the value at an absolute index, and whether one is set.
	Get(ix Index) (interface{}, bool)
	// Clear removes any value at an absolute index.
	Clear(ix Index)
	// Copy copies the value at src to dst. When src holds no value, dst is
	// cleared, so a copy never leaves a stale value behind.
	Copy(src, dst Index)
	// Validate reports whether a value would coerce without storing it.
	Validate(value interface{}) error
	// Len returns the number of populated indices across all arrays.
	Len() int
	// MemoryUsage returns an estimate of the column's payload in bytes.
	MemoryUsage() int64
}

// sparseColumn is the common implementation behind every typed column:
// a map keyed by absolute index plus a coercion function.
type sparseColumn[T any] struct {
	typ    ColumnType
	values map[Index]T
	coerce func(interface{}) (T, error)
	sizeOf func(T) int64
}

func (c *sparseColumn[T]) Type() ColumnType { return c.typ }

func (c *sparseColumn[T]) Set(ix Index, value interface{}) error {
	v, err := c.coerce(value)
	if err != nil {
		return err
	}
	c.values[ix] = v
	return nil
}

func (c *sparseColumn[T]) Get(ix Index) (interface{}, bool) {
	v, ok := c.values[ix]
	if !ok {
		return nil, false
	}
	return v, true
}

func (c *sparseColumn[T]) Clear(ix Index) {
	delete(c.values, ix)
}

func (c *sparseColumn[T]) Copy(src, dst Index) {
	if v, ok := c.values[src]; ok {
		c.values[dst] = v
	} else {
		delete(c.values, dst)
	}
}

func (c *sparseColumn[T]) Validate(value interface{}) error {
	_, err := c.coerce(value)
	return err
}

func (c *sparseColumn[T]) Len() int { return len(c.values) }

func (c *sparseColumn[T]) MemoryUsage() int64 {
	var total int64
	for _, v := range c.values {
		total += 8 // index key
		total += c.sizeOf(v)
	}
	return total
}

// NewStringColumn creates a new string column
func NewStringColumn() Column {
	return &sparseColumn[string]{
		typ:    ColumnTypeString,
		values: make(map[Index]string),
		coerce: func(value interface{}) (string, error) {
			s, ok := value.(string)
			if !ok {
				return "", fmt.Errorf("expected string, got %T", value)
			}
			return s, nil
		},
		sizeOf: func(s string) int64 { return int64(len(s)) + 16 },
	}
}

// NewIntColumn creates a new integer column
func NewIntColumn() Column {
	return &sparseColumn[int64]{
		typ:    ColumnTypeInt,
		values: make(map[Index]int64),
		coerce: func(value interface{}) (int64, error) {
			switch v := value.(type) {
			case int:
				return int64(v), nil
			case int64:
				return v, nil
			case int32:
				return int64(v), nil
			case uint:
				return int64(v), nil
			case uint32:
				return int64(v), nil
			case string:
				var intVal int64
				_, err := fmt.Sscanf(v, "%d", &intVal)
				if err != nil {
					return 0, fmt.Errorf("cannot parse %q as int: %w", v, err)
				}
				return intVal, nil
			default:
				return 0, fmt.Errorf("expected int, got %T", value)
			}
		},
		sizeOf: func(int64) int64 { return 8 },
	}
}

// NewFloatColumn creates a new float column
func NewFloatColumn() Column {
	return &sparseColumn[float64]{
		typ:    ColumnTypeFloat,
		values: make(map[Index]float64),
		coerce: func(value interface{}) (float64, error) {
			switch v := value.(type) {
			case float64:
				return v, nil
			case float32:
				return float64(v), nil
			case int:
				return float64(v), nil
			case string:
				var floatVal float64
				_, err := fmt.Sscanf(v, "%f", &floatVal)
				if err != nil {
					return 0, fmt.Errorf("cannot parse %q as float: %w", v, err)
				}
				return floatVal, nil
			default:
				return 0, fmt.Errorf("expected float, got %T", value)
			}
		},
		sizeOf: func(float64) int64 { return 8 },
	}
}

// NewBoolColumn creates a new boolean column
func NewBoolColumn() Column {
	return &sparseColumn[bool]{
		typ:    ColumnTypeBool,
		values: make(map[Index]bool),
		coerce: func(value interface{}) (bool, error) {
			switch v := value.(type) {
			case bool:
				return v, nil
			case string:
				return v == "true" || v == "1" || v == "yes", nil
			default:
				return false, fmt.Errorf("expected bool, got %T", value)
			}
		},
		sizeOf: func(bool) int64 { return 1 },
	}
}

// NewTimestampColumn creates a new timestamp column
func NewTimestampColumn() Column {
	return &sparseColumn[time.Time]{
		typ:    ColumnTypeTimestamp,
		values: make(map[Index]time.Time),
		coerce: func(value interface{}) (time.Time, error) {
			switch v := value.(type) {
			case time.Time:
				return v, nil
			case int64:
				return time.Unix(v, 0), nil
			case string:
				t, err := time.Parse(time.RFC3339, v)
				if err != nil {
					return time.Time{}, fmt.Errorf("cannot parse %q as timestamp: %w", v, err)
				}
				return t, nil
			default:
				return time.Time{}, fmt.Errorf("expected timestamp, got %T", value)
			}
		},
		sizeOf: func(time.Time) int64 { return 24 },
	}
}

// NewAnyColumn creates a column that stores values without coercion.
// The allocator treats values as opaque; this is the default field type.
func NewAnyColumn() Column {
	return &sparseColumn[interface{}]{
		typ:    ColumnTypeAny,
		values: make(map[Index]interface{}),
		coerce: func(value interface{}) (interface{}, error) {
			return value, nil
		},
		sizeOf: func(interface{}) int64 { return 16 },
	}
}

// createColumn creates a new column of the specified type
func createColumn(colType ColumnType) Column {
	switch colType {
	case ColumnTypeString:
		return NewStringColumn()
	case ColumnTypeInt:
		return NewIntColumn()
	case ColumnTypeFloat:
		return NewFloatColumn()
	case ColumnTypeBool:
		return NewBoolColumn()
	case ColumnTypeTimestamp:
		return NewTimestampColumn()
	default:
		return NewAnyColumn()
	}
}
