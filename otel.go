package orawire

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName    = "github.com/orawire/orawire-go"
	instrumentationVersion = "1.0.0"
)

// otelTracer returns the tracer for this library.
// It uses the global tracer provider by default.
func otelTracer() trace.Tracer {
	return otel.Tracer(instrumentationName, trace.WithInstrumentationVersion(instrumentationVersion))
}

// startSpan starts a new span with the given name and options.
// If a span already exists in the context, it will be used as the parent.
func startSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otelTracer().Start(ctx, name, opts...)
}

// spanAttributes returns common attributes for statement spans.
func spanAttributes(sql string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("db.system", "oracle"),
	}
	if sql != "" {
		attrs = append(attrs, attribute.String("db.statement", sql))
	}
	return attrs
}

// recordError records an error on the span if it's not nil.
func recordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
