package main

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/veloxdata/colmux/pkg/columnar"
	"github.com/veloxdata/colmux/pkg/config"
	"github.com/veloxdata/colmux/pkg/logger"
	"github.com/veloxdata/colmux/pkg/metrics"
)

var version = "0.1.0"

// benchReport is the JSON report emitted by the bench command.
type benchReport struct {
	Arrays        int            `json:"arrays"`
	Elements      int            `json:"elements_per_array"`
	Appends       int            `json:"appends"`
	Inserts       int            `json:"inserts"`
	Removals      int            `json:"removals"`
	Compacted     int            `json:"compacted"`
	AppendNanos   int64          `json:"append_nanos"`
	InsertNanos   int64          `json:"insert_nanos"`
	RemoveNanos   int64          `json:"remove_nanos"`
	CompactNanos  int64          `json:"compact_nanos"`
	Stats         columnar.Stats `json:"stats"`
	DurationNanos int64          `json:"duration_nanos"`
}

func main() {
	root := &cobra.Command{
		Use:   "colmux",
		Short: "colmux - columnar slice allocator",
		Long: `colmux multiplexes many growable, ordered logical arrays over a small set
of shared per-field columns. This binary exercises the allocator and reports
its behavior; the allocator itself is a library (pkg/columnar).`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("colmux v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	var arrays, elements, capacity int
	var logLevel string
	var configFile string

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Exercise the allocator and emit a JSON report",
		Long: `Builds a three-field schema, then drives appends, mid-sequence inserts,
order-preserving removals and a predicate compaction across many logical
arrays, reporting timings and store statistics as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(arrays, elements, capacity, logLevel, configFile)
		},
	}
	benchCmd.Flags().IntVar(&arrays, "arrays", 100, "number of logical arrays")
	benchCmd.Flags().IntVar(&elements, "elements", 1000, "elements appended per array")
	benchCmd.Flags().IntVar(&capacity, "capacity", 16, "initial capacity per array")
	benchCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	benchCmd.Flags().StringVar(&configFile, "config", "", "optional YAML store configuration")
	root.AddCommand(benchCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runBench(arrays, elements, capacity int, logLevel, configFile string) error {
	if err := logger.Init(logger.Config{Level: logLevel, Encoding: "json"}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	cfg := config.NewStoreConfig("bench")
	if configFile != "" {
		if err := config.Load(configFile, cfg); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	if capacity > 0 {
		cfg.Allocation.DefaultCapacity = capacity
	}

	store, err := columnar.NewBuilder(cfg.Name,
		columnar.WithConfig(cfg),
		columnar.WithSink(columnar.LoggerSink(log)),
		columnar.WithLogger(log),
	).
		AddField("id", columnar.ColumnTypeInt).
		AddField("score", columnar.ColumnTypeFloat).
		AddField("label", columnar.ColumnTypeString).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build schema: %w", err)
	}

	id, _ := store.Field("id")
	scoreField, _ := store.Field("score")
	row, _ := store.Fields("id", "score", "label")

	rng := rand.New(rand.NewSource(42))
	report := benchReport{Arrays: arrays, Elements: elements}
	benchStart := time.Now()

	handles := make([]columnar.Handle, arrays)
	timer := metrics.NewTimer("append")
	for a := 0; a < arrays; a++ {
		h := store.New()
		handles[a] = h
		for i := 1; i <= elements; i++ {
			store.PushBackSlot(h)
			row.SetByIndex(h, i, int64(i), rng.Float64(), "elem")
			report.Appends++
		}
	}
	report.AppendNanos = timer.Stop().Nanoseconds()
	metrics.OperationLatency.WithLabelValues("append", cfg.Name).Observe(float64(report.AppendNanos))

	timer = metrics.NewTimer("insert")
	for _, h := range handles {
		n, _ := store.Length(h)
		store.InsertSlotAt(h, n/2+1)
		row.SetByIndex(h, n/2+1, int64(-1), 0.0, "inserted")
		report.Inserts++
	}
	report.InsertNanos = timer.Stop().Nanoseconds()
	metrics.OperationLatency.WithLabelValues("insert", cfg.Name).Observe(float64(report.InsertNanos))

	timer = metrics.NewTimer("remove")
	for _, h := range handles {
		store.RemoveAt(h, 1)
		store.RemoveAt(h)
		report.Removals += 2
	}
	report.RemoveNanos = timer.Stop().Nanoseconds()
	metrics.OperationLatency.WithLabelValues("remove", cfg.Name).Observe(float64(report.RemoveNanos))

	timer = metrics.NewTimer("compact")
	for _, h := range handles {
		report.Compacted += store.RemoveAllIf(h, func(ix columnar.Index) bool {
			v, ok := scoreField.At(ix)
			return ok && v.(float64) < 0.5
		})
	}
	report.CompactNanos = timer.Stop().Nanoseconds()
	metrics.OperationLatency.WithLabelValues("compact", cfg.Name).Observe(float64(report.CompactNanos))

	// Keep id referenced for a final consistency probe.
	if n, ok := store.Length(handles[0]); ok && n > 0 {
		if v, ok := id.GetByIndex(handles[0], 1); ok {
			log.Debug("first surviving element", zap.Any("id", v))
		}
	}

	report.Stats = store.Stats()
	report.DurationNanos = time.Since(benchStart).Nanoseconds()

	out, err := gojson.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	fmt.Println(string(out))

	log.Info("bench complete",
		zap.Int("arrays", arrays),
		zap.Int("appends", report.Appends),
		zap.Int("compacted", report.Compacted),
		zap.Duration("duration", time.Duration(report.DurationNanos)))
	return nil
}
