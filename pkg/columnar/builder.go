package columnar

import (
	"go.uber.org/zap"

	"github.com/veloxdata/colmux/pkg/config"
	"github.com/veloxdata/colmux/pkg/errors"
	"github.com/veloxdata/colmux/pkg/logger"
)

// FieldSchema defines a single field in the schema
type FieldSchema struct {
	Name string
	Type ColumnType
}

// SchemaBuilder accumulates field registrations and produces a Store.
// The builder is the registration-in-progress state as an explicit owned
// value: registration begins with NewBuilder and ends with Build, and no
// global side table is involved.
type SchemaBuilder struct {
	cfg    *config.StoreConfig
	fields []FieldSchema
	names  map[string]struct{}
	sink   DiagnosticSink
	log    *zap.Logger
}

// BuilderOption customizes a SchemaBuilder.
type BuilderOption func(*SchemaBuilder)

// WithConfig supplies a full store configuration.
func WithConfig(cfg *config.StoreConfig) BuilderOption {
	return func(b *SchemaBuilder) { b.cfg = cfg }
}

// WithDefaultCapacity overrides the capacity used by New when the caller
// does not request one.
func WithDefaultCapacity(capacity int) BuilderOption {
	return func(b *SchemaBuilder) { b.cfg.Allocation.DefaultCapacity = capacity }
}

// WithMaxIndex sets an upper bound on the global index space. Exceeding it
// is reported through the diagnostic sink but never blocks an allocation.
func WithMaxIndex(maxIndex uint64) BuilderOption {
	return func(b *SchemaBuilder) { b.cfg.Allocation.MaxIndex = maxIndex }
}

// WithSink injects the diagnostic sink used for every reported condition.
func WithSink(sink DiagnosticSink) BuilderOption {
	return func(b *SchemaBuilder) { b.sink = sink }
}

// WithLogger injects the logger used by the store.
func WithLogger(log *zap.Logger) BuilderOption {
	return func(b *SchemaBuilder) { b.log = log }
}

// NewBuilder begins a schema registration.
func NewBuilder(name string, opts ...BuilderOption) *SchemaBuilder {
	b := &SchemaBuilder{
		cfg:   config.NewStoreConfig(name),
		names: make(map[string]struct{}),
		sink:  NopSink,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = logger.Get()
	}
	return b
}

// AddField registers a field. Field names must be unique per schema;
// a duplicate is reported through the sink and the registration is dropped.
func (b *SchemaBuilder) AddField(name string, colType ColumnType) *SchemaBuilder {
	if _, exists := b.names[name]; exists {
		b.sink(errors.ErrorTypeDuplicateField,
			errors.Newf(errors.ErrorTypeDuplicateField,
				"field %q already registered in schema %q", name, b.cfg.Name).Error())
		return b
	}
	b.names[name] = struct{}{}
	b.fields = append(b.fields, FieldSchema{Name: name, Type: colType})
	return b
}

// Build finishes the registration and returns the store. The builder must
// not be reused afterwards.
func (b *SchemaBuilder) Build() (*Store, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid store configuration")
	}

	s := &Store{
		name:       b.cfg.Name,
		columns:    make(map[string]Column, len(b.fields)),
		order:      make([]string, 0, len(b.fields)),
		directory:  make(map[Handle]*descriptor),
		defaultCap: b.cfg.Allocation.DefaultCapacity,
		sink:       b.sink,
		log: b.log.With(
			zap.String("schema", b.cfg.Name),
		),
		metricsOn: b.cfg.Observability.EnableMetrics,
	}
	s.alloc = NewRangeAllocator(b.cfg.Allocation.MaxIndex, s.report)

	for _, field := range b.fields {
		s.columns[field.Name] = createColumn(field.Type)
		s.order = append(s.order, field.Name)
	}

	s.log.Debug("schema built",
		zap.Int("fields", len(b.fields)),
		zap.Int("default_capacity", s.defaultCap))

	return s, nil
}
