// Package platformtrace wraps the OpenTelemetry tracer every brightpath component shares, mirroring
// the teacher's thin span-start-and-record-error convention without adopting its collector wiring.
package platformtrace

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer name used for every span this platform opens.
const tracerName = "github.com/brightpath/platform"

// StartSpan starts a span named name under ctx's tracer, returning the derived context and span.
// Callers must defer span.End().
func StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name)
}

// RecordError records err on span and sets its status to Error, unless err is nil.
func RecordError(span trace.Span, description string, err error) {
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, description)
}

// WithCorrelationID attaches the correlationId as a span attribute so traces can be joined with
// the correlation id that is the spec's primary cross-service identifier.
func WithCorrelationID(span trace.Span, correlationID string) {
	span.SetAttributes(attribute.String("correlation_id", correlationID))
}
