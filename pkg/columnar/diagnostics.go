package columnar

import (
	"go.uber.org/zap"

	"github.com/veloxdata/colmux/pkg/errors"
)

// DiagnosticSink receives one formatted message per reported misuse
// condition. Every validation failure in the store degrades locally (reads
// return absent, mutators no-op) and is reported here; the sink is the sole
// observability channel for misuse.
type DiagnosticSink func(kind errors.ErrorType, msg string)

// NopSink discards every report. It is the default sink.
func NopSink(errors.ErrorType, string) {}

// LoggerSink returns a sink that logs every report at warn level.
func LoggerSink(log *zap.Logger) DiagnosticSink {
	return func(kind errors.ErrorType, msg string) {
		log.Warn("store misuse reported",
			zap.String("kind", string(kind)),
			zap.String("detail", msg))
	}
}
