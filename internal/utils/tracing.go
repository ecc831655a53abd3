package utils

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "app-verify"

// TraceOperation traces an operation with timing and attributes
func TraceOperation(ctx context.Context, operationName string, attributes map[string]interface{}) (context.Context, trace.Span, func()) {
	start := time.Now()

	spanCtx, span := otel.Tracer(tracerName).Start(ctx, operationName, trace.WithAttributes(toAttributes(attributes)...))

	cleanup := func() {
		AddTimingToSpan(span, start)
		span.End()
	}

	return spanCtx, span, cleanup
}

// TraceDatabaseOperation traces a database operation
func TraceDatabaseOperation(ctx context.Context, operation, collection string) (context.Context, trace.Span, func()) {
	return TraceOperation(ctx, "db."+operation, map[string]interface{}{
		"db.operation":  operation,
		"db.collection": collection,
		"db.system":     "mongodb",
	})
}

// TraceVerificationLayer traces one layer of the verification pipeline
func TraceVerificationLayer(ctx context.Context, layer int, name string) (context.Context, trace.Span, func()) {
	return TraceOperation(ctx, "verification.layer."+name, map[string]interface{}{
		"verification.layer": layer,
		"verification.name":  name,
	})
}

// TraceImageOperation traces OCR, hashing and whitelist work
func TraceImageOperation(ctx context.Context, operation string) (context.Context, trace.Span, func()) {
	return TraceOperation(ctx, "image."+operation, map[string]interface{}{
		"image.operation": operation,
	})
}

// AddTimingToSpan adds timing information to an existing span
func AddTimingToSpan(span trace.Span, startTime time.Time) {
	duration := time.Since(startTime)
	span.SetAttributes(
		attribute.Int64("duration_ms", duration.Milliseconds()),
		attribute.String("duration", duration.String()),
	)
}

// RecordErrorInSpan records an error in a span with additional context
func RecordErrorInSpan(span trace.Span, err error, context map[string]interface{}) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(toAttributes(context)...)
}

// AddSpanAttribute adds a single attribute to a span
func AddSpanAttribute(span trace.Span, key string, value interface{}) {
	span.SetAttributes(toAttribute(key, value))
}

func toAttributes(values map[string]interface{}) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(values))
	for k, v := range values {
		attrs = append(attrs, toAttribute(k, v))
	}
	return attrs
}

func toAttribute(key string, value interface{}) attribute.KeyValue {
	switch val := value.(type) {
	case string:
		return attribute.String(key, val)
	case int:
		return attribute.Int(key, val)
	case int64:
		return attribute.Int64(key, val)
	case bool:
		return attribute.Bool(key, val)
	case float64:
		return attribute.Float64(key, val)
	default:
		return attribute.String(key, "unknown_type")
	}
}
