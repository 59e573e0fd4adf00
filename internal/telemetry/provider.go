package telemetry

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"contestdump/internal/services"
)

// ServiceName identifies spans emitted by this tool.
const ServiceName = "contestdump"

const instrumentationName = "contestdump/exporter"

// Setup initialises OpenTelemetry tracing against an OTLP/HTTP endpoint.
//
// When endpoint is empty, Setup returns a no-op shutdown function and no
// global provider is registered. The returned shutdown function flushes
// pending spans and should be deferred by the caller.
func Setup(ctx context.Context, endpoint string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// StartStage opens a span for an export stage and tags ctx with the stage
// name for logging. The run id on ctx, if any, is recorded on the span.
func StartStage(ctx context.Context, stage string) (context.Context, trace.Span) {
	ctx = services.WithStage(ctx, stage)
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "export."+stage)
	if id, ok := services.RunIDFromContext(ctx); ok {
		span.SetAttributes(attribute.String("contestdump.run_id", id))
	}
	return ctx, span
}

// EndStage records err on span, if any, and ends it.
func EndStage(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
