// Package otelx provides the tracing helper used to wrap each of the
// GenerationOrchestrator's 11 phases in its own span.
package otelx

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// StartPhase starts a child span named "generation.<phase>" carrying the
// generation id as an attribute, and returns the usual (ctx, end-func) pair.
func StartPhase(ctx context.Context, tracer trace.Tracer, generationID, phase string) (context.Context, func(err error)) {
	ctx, span := tracer.Start(ctx, "generation."+phase, trace.WithAttributes(
		attribute.String("generation.id", generationID),
		attribute.String("generation.phase", phase),
	))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}
}
