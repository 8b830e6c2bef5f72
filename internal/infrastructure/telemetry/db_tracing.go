package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hirepurchase/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultSlowQueryThreshold = 200 * time.Millisecond
	queryStartKey             = "telemetry:query_start"
)

// Metric attribute keys for database instruments
var (
	AttrDBOperation = attribute.Key("db.operation")
	AttrDBTable     = attribute.Key("db.table")
	AttrDBPoolState = attribute.Key("db.pool.state")
)

// DBTelemetryPlugin is a gorm plugin recording query counts, latency and
// slow queries. Slow queries are also logged and flagged on the active span.
type DBTelemetryPlugin struct {
	queryTotal     metric.Int64Counter
	queryDuration  metric.Float64Histogram
	slowQueryTotal metric.Int64Counter
	slowThreshold  time.Duration
	logger         *zap.Logger
}

// NewDBTelemetryPlugin creates the plugin's instruments on meter
func NewDBTelemetryPlugin(meter metric.Meter, slowThreshold time.Duration, logger *zap.Logger) (*DBTelemetryPlugin, error) {
	if slowThreshold <= 0 {
		slowThreshold = defaultSlowQueryThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	queryTotal, err := meter.Int64Counter("db_query_total",
		metric.WithDescription("Database queries by operation"), metric.WithUnit("{query}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create db_query_total: %w", err)
	}
	queryDuration, err := meter.Float64Histogram("db_query_duration_seconds",
		metric.WithDescription("Database query latency"), metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DBDurationBuckets...))
	if err != nil {
		return nil, fmt.Errorf("failed to create db_query_duration_seconds: %w", err)
	}
	slowQueryTotal, err := meter.Int64Counter("db_slow_query_total",
		metric.WithDescription("Queries slower than the configured threshold"), metric.WithUnit("{query}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create db_slow_query_total: %w", err)
	}
	return &DBTelemetryPlugin{
		queryTotal:     queryTotal,
		queryDuration:  queryDuration,
		slowQueryTotal: slowQueryTotal,
		slowThreshold:  slowThreshold,
		logger:         logger,
	}, nil
}

// Name implements gorm.Plugin
func (p *DBTelemetryPlugin) Name() string {
	return "leasing:db_telemetry"
}

// Initialize implements gorm.Plugin
func (p *DBTelemetryPlugin) Initialize(db *gorm.DB) error {
	before := func(tx *gorm.DB) { tx.InstanceSet(queryStartKey, time.Now()) }
	after := func(op string) func(*gorm.DB) {
		return func(tx *gorm.DB) { p.record(tx, op) }
	}

	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("telemetry:before_create", before),
		cb.Create().After("gorm:create").Register("telemetry:after_create", after("INSERT")),
		cb.Query().Before("gorm:query").Register("telemetry:before_query", before),
		cb.Query().After("gorm:query").Register("telemetry:after_query", after("SELECT")),
		cb.Update().Before("gorm:update").Register("telemetry:before_update", before),
		cb.Update().After("gorm:update").Register("telemetry:after_update", after("UPDATE")),
		cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", before),
		cb.Delete().After("gorm:delete").Register("telemetry:after_delete", after("DELETE")),
		cb.Row().Before("gorm:row").Register("telemetry:before_row", before),
		cb.Row().After("gorm:row").Register("telemetry:after_row", after("ROW")),
		cb.Raw().Before("gorm:raw").Register("telemetry:before_raw", before),
		cb.Raw().After("gorm:raw").Register("telemetry:after_raw", after("RAW")),
	)
}

func (p *DBTelemetryPlugin) record(tx *gorm.DB, op string) {
	v, ok := tx.InstanceGet(queryStartKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)
	ctx := tx.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	table := tx.Statement.Table
	if table == "" {
		table = "unknown"
	}

	opAttr := metric.WithAttributes(AttrDBOperation.String(op))
	p.queryTotal.Add(ctx, 1, opAttr)
	p.queryDuration.Record(ctx, elapsed.Seconds(), opAttr)
	if elapsed <= p.slowThreshold {
		return
	}

	p.slowQueryTotal.Add(ctx, 1, metric.WithAttributes(AttrDBOperation.String(op), AttrDBTable.String(table)))
	p.logger.Warn("slow query",
		zap.String("operation", op),
		zap.String("table", table),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", tx.Statement.RowsAffected),
	)
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.Bool("db.slow_query", true))
		span.AddEvent("slow_query", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", p.slowThreshold.Milliseconds()),
		))
	}
}

// RegisterPoolMetrics reports connection pool statistics on every
// collection cycle
func RegisterPoolMetrics(meter metric.Meter, sqlDB *sql.DB) error {
	inUse, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Connections in the pool by state"), metric.WithUnit("{connection}"))
	if err != nil {
		return fmt.Errorf("failed to create db_pool_connections: %w", err)
	}
	maxOpen, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Maximum open connections"), metric.WithUnit("{connection}"))
	if err != nil {
		return fmt.Errorf("failed to create db_pool_connections_max: %w", err)
	}
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(inUse, int64(stats.InUse), metric.WithAttributes(AttrDBPoolState.String("in_use")))
		o.ObserveInt64(inUse, int64(stats.Idle), metric.WithAttributes(AttrDBPoolState.String("idle")))
		o.ObserveInt64(maxOpen, int64(stats.MaxOpenConnections))
		return nil
	}, inUse, maxOpen)
	if err != nil {
		return fmt.Errorf("failed to register pool callback: %w", err)
	}
	return nil
}

// InstrumentDB installs database telemetry on db: otelgorm spans when
// DBTraceEnabled, plus query metrics and pool statistics on meter.
func InstrumentDB(db *gorm.DB, cfg config.TelemetryConfig, meter metric.Meter, logger *zap.Logger) error {
	if cfg.Enabled && cfg.DBTraceEnabled {
		opts := []otelgorm.Option{otelgorm.WithDBName(db.Dialector.Name())}
		if !cfg.DBLogFullSQL {
			opts = append(opts, otelgorm.WithoutQueryVariables())
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return fmt.Errorf("failed to register otelgorm: %w", err)
		}
	}

	plugin, err := NewDBTelemetryPlugin(meter, cfg.DBSlowQueryThresh, logger)
	if err != nil {
		return err
	}
	if err := db.Use(plugin); err != nil {
		return fmt.Errorf("failed to register db telemetry plugin: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return RegisterPoolMetrics(meter, sqlDB)
}
