// Package columnar implements colmux's columnar slice allocator: a runtime
// that multiplexes many independent, growable, ordered logical arrays over
// a small set of shared per-field sparse columns, so that N logical arrays
// sharing a schema cost O(fields) accessor definitions instead of O(N).
//
// # Overview
//
// Each logical array is identified by an opaque Handle and owns a
// contiguous, non-overlapping index range inside every column. The package
// provides:
//   - Amortized-growth append (PushBackSlot, capacity doubling)
//   - Mid-sequence insertion with growth and shift fused in one move
//   - Order-preserving removal (RemoveAt)
//   - Predicate-driven bulk compaction (RemoveAllIf)
//   - Per-field and tuple accessors over 1-based logical offsets
//
// # Architecture
//
// The package consists of several components:
//
//   - RangeAllocator: issues disjoint, monotonically increasing index
//     ranges; retired ranges are abandoned, never reclaimed
//   - Column: one sparse store per registered field, keyed by absolute
//     index, holding values for every logical array combined
//   - Store: the directory of per-handle descriptors plus every lifecycle
//     operation
//   - copyRange / copyWithGap: overlap-safe block copies with a single
//     direction rule shared by every structural operation
//   - SchemaBuilder: explicit registration state, begun with NewBuilder
//     and finished with Build
//
// # Invariants
//
// For any two live handles, their capacity ranges never overlap. Inside a
// live range, every index in [start, start+size-1] holds a value in all of
// the array's columns, and every index in the reserved tail holds none.
// Capacity only grows (doubling); a capacity increase always allocates a
// fresh range and abandons the old one. Deleting a handle clears its live
// range from every column and invalidates the handle.
//
// # Concurrency
//
// The store is single-threaded by contract: one logical thread of control
// drives all calls. Concurrent operations touching the same handle, or
// colliding with an allocation, are undefined and must be serialized by
// the caller. There is no locking in this package.
//
// # Error handling
//
// Misuse never aborts the caller: reads return an absent value, mutators
// no-op, and every violation is reported synchronously through the
// injected DiagnosticSink (a no-op by default).
//
// # Usage Example
//
//	store, err := columnar.NewBuilder("particles",
//		columnar.WithDefaultCapacity(256),
//		columnar.WithSink(columnar.LoggerSink(logger.Get())),
//	).
//		AddField("x", columnar.ColumnTypeFloat).
//		AddField("y", columnar.ColumnTypeFloat).
//		AddField("tag", columnar.ColumnTypeString).
//		Build()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	x, _ := store.Field("x")
//
//	h := store.New(4)
//	store.PushBackSlot(h)
//	x.SetByIndex(h, 1, 1.5)
//
//	removed := store.RemoveAllIf(h, func(ix columnar.Index) bool {
//		v, ok := x.At(ix)
//		return ok && v.(float64) > 1.0
//	})
package columnar
