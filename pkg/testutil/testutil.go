// Package testutil provides testing utilities for colmux
package testutil

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/veloxdata/colmux/pkg/errors"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// SinkRecorder captures every diagnostic report made during a test.
type SinkRecorder struct {
	Reports []SinkReport
}

// SinkReport is one captured diagnostic report.
type SinkReport struct {
	Kind    errors.ErrorType
	Message string
}

// Record is the DiagnosticSink-shaped method to hand to a builder.
func (r *SinkRecorder) Record(kind errors.ErrorType, msg string) {
	r.Reports = append(r.Reports, SinkReport{Kind: kind, Message: msg})
}

// CountKind returns how many captured reports carry the given kind.
func (r *SinkRecorder) CountKind(kind errors.ErrorType) int {
	n := 0
	for _, rep := range r.Reports {
		if rep.Kind == kind {
			n++
		}
	}
	return n
}

// Reset discards all captured reports.
func (r *SinkRecorder) Reset() {
	r.Reports = nil
}
