// Package pool provides type-safe object pooling for colmux.
// It offers zero-allocation reuse of the row buffers handed out by tuple
// accessors and iterators, reducing garbage collection pressure on hot
// read paths.
//
// Example usage:
//
//	row := pool.GetRow()
//	defer row.Release()
//
//	row.Values["x"] = 1.5
//	row.Values["y"] = 2.5
package pool

import (
	"sync"
	"sync/atomic"
)

// Pool represents a generic object pool with type safety.
// It wraps sync.Pool with statistics tracking and automatic reset.
// The pool is safe for concurrent use.
type Pool[T any] struct {
	pool  sync.Pool
	new   func() T
	reset func(T)
	stats struct {
		allocated int64
		inUse     int64
	}
}

// New creates a new typed pool with custom allocation and reset functions.
// The new function is called when the pool is empty; the reset function is
// called before returning an object to the pool.
func New[T any](newFn func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{
		new:   newFn,
		reset: reset,
	}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		return newFn()
	}
	return p
}

// Get retrieves an object from the pool, creating one if the pool is empty.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.inUse, 1)
	return p.pool.Get().(T)
}

// Put returns an object to the pool for reuse, resetting it first when a
// reset function was provided.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	atomic.AddInt64(&p.stats.inUse, -1)
	p.pool.Put(obj)
}

// Stats returns the total number of objects created by the pool and the
// number currently checked out.
func (p *Pool[T]) Stats() (allocated, inUse int64) {
	return atomic.LoadInt64(&p.stats.allocated),
		atomic.LoadInt64(&p.stats.inUse)
}

// Row is a pooled buffer holding one logical element's field values,
// keyed by field name. Callers must call Release when done.
type Row struct {
	Values map[string]interface{}
}

// Release returns the row to the global pool.
func (r *Row) Release() {
	rowPool.Put(r)
}

var rowPool = New(
	func() *Row {
		return &Row{Values: make(map[string]interface{}, 8)}
	},
	func(r *Row) {
		for k := range r.Values {
			delete(r.Values, k)
		}
	},
)

// GetRow retrieves a row buffer from the global pool.
func GetRow() *Row {
	return rowPool.Get()
}
