// Package metrics provides performance tracking and observability for
// colmux using Prometheus metrics. It offers collectors for allocator and
// store behavior: range allocations, index-space growth, live arrays,
// structural copies, and compaction work.
//
// # Basic Usage
//
//	// Record a range allocation
//	metrics.RangesAllocated.WithLabelValues("particles").Inc()
//	metrics.IndexCursor.WithLabelValues("particles").Set(float64(cursor))
//
//	// Track structural operation latency
//	timer := metrics.NewTimer("insert")
//	store.InsertSlotAt(h, 3)
//	metrics.OperationLatency.WithLabelValues("insert", "particles").
//	    Observe(float64(timer.Stop().Nanoseconds()))
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RangesAllocated tracks the total number of index ranges granted by
	// the range allocator, including ranges later retired by resizes.
	// Labels: schema
	RangesAllocated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "colmux_ranges_allocated_total",
			Help: "Total number of index ranges allocated",
		},
		[]string{"schema"},
	)

	// IndexCursor tracks the current position of the allocator's monotonic
	// cursor. The cursor never decreases; retired ranges are abandoned.
	// Labels: schema
	IndexCursor = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "colmux_index_cursor",
			Help: "Current absolute index cursor of the range allocator",
		},
		[]string{"schema"},
	)

	// LiveArrays tracks the number of live logical arrays per schema.
	// Labels: schema
	LiveArrays = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "colmux_live_arrays",
			Help: "Number of live logical arrays",
		},
		[]string{"schema"},
	)

	// SlotsCopied tracks logical slots moved by structural operations
	// (shifts, reallocation moves, compaction writes).
	// Labels: schema, operation
	SlotsCopied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "colmux_slots_copied_total",
			Help: "Total logical slots copied during structural operations",
		},
		[]string{"schema", "operation"},
	)

	// ElementsRemoved tracks elements removed by RemoveAt and RemoveAllIf.
	// Labels: schema, operation
	ElementsRemoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "colmux_elements_removed_total",
			Help: "Total elements removed from logical arrays",
		},
		[]string{"schema", "operation"},
	)

	// Misuses tracks diagnostic-sink reports by error kind.
	// Labels: schema, kind
	Misuses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "colmux_misuse_reports_total",
			Help: "Total misuse conditions reported through the diagnostic sink",
		},
		[]string{"schema", "kind"},
	)

	// OperationLatency tracks the distribution of store operation latencies
	// in nanoseconds. Buckets are optimized for in-memory operations.
	// Labels: operation, schema
	OperationLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "colmux_operation_latency_nanoseconds",
			Help: "Store operation latency in nanoseconds",
			Buckets: []float64{
				100,   // 100ns - Descriptor lookups
				1000,  // 1μs - Single-slot mutations
				10000, // 10μs - Small shifts
				1e5,   // 100μs - Large shifts and reallocations
				1e6,   // 1ms - Bulk compaction
				1e7,   // 10ms - Worst-case bulk work
			},
		},
		[]string{"operation", "schema"},
	)
)

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Stop stops the timer and returns the elapsed duration since creation.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
