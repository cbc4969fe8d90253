package tracing

import (
	"context"
	"database/sql"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	dbTracerName = "database"
)

// DBSpanConfig holds configuration for database span creation
type DBSpanConfig struct {
	Operation    string // SELECT, INSERT, DELETE
	Table        string
	Query        string
	IncludeQuery bool
}

// StartDBSpan creates a new client span for a database operation
func StartDBSpan(ctx context.Context, cfg DBSpanConfig) (context.Context, trace.Span) {
	spanName := cfg.Operation
	if cfg.Table != "" {
		spanName = cfg.Operation + " " + cfg.Table
	}

	attrs := []attribute.KeyValue{
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", cfg.Operation),
	}
	if cfg.Table != "" {
		attrs = append(attrs, attribute.String("db.sql.table", cfg.Table))
	}
	if cfg.IncludeQuery && cfg.Query != "" {
		attrs = append(attrs, attribute.String("db.statement", cfg.Query))
	}

	return otel.Tracer(dbTracerName).Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

// EndDBSpan ends a database span. A missing row is not a span failure.
// Pass a negative rowsAffected when it is unknown.
func EndDBSpan(span trace.Span, err error, rowsAffected int64) {
	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "")
	case errors.Is(err, sql.ErrNoRows):
		span.SetStatus(codes.Ok, "no rows found")
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	if rowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", rowsAffected))
	}

	span.End()
}
