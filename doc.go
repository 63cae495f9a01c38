// Package colmux provides a columnar slice allocator: a runtime that
// multiplexes many independent, growable, ordered logical arrays over a
// small set of shared per-field columns, so that N logical arrays sharing
// the same schema cost O(fields) accessor definitions instead of O(N).
//
// The core lives in pkg/columnar. Each logical array is identified by an
// opaque handle and owns a contiguous, non-overlapping index range inside
// every column. The allocator supports amortized-growth append,
// mid-sequence insertion with growth and shift fused in a single move,
// order-preserving removal, and predicate-driven bulk compaction.
//
// # Quick Start
//
//	import (
//	    "github.com/veloxdata/colmux/pkg/columnar"
//	)
//
//	store, err := columnar.NewBuilder("points").
//	    AddField("x", columnar.ColumnTypeFloat).
//	    AddField("y", columnar.ColumnTypeFloat).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	h := store.New()
//	store.PushBackSlot(h)
//
//	x, _ := store.Field("x")
//	x.SetByIndex(h, 1, 3.25)
//
// Supporting packages: pkg/errors (structured errors), pkg/logger (zap),
// pkg/config (store configuration), pkg/metrics (Prometheus collectors),
// pkg/pool (row buffer pooling), pkg/testutil (test helpers).
package colmux
