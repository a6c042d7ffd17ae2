// Package otel wires the OpenTelemetry trace provider used by long
// running services. Tracing stays off unless an OTLP endpoint is
// configured, so demo runs and tests pay nothing for it.
package otel

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Environment variables controlling trace export.
const (
	envEnabled  = "AI_DND_OTEL_ENABLED"
	envEndpoint = "AI_DND_OTEL_ENDPOINT"
)

// noopShutdown satisfies the Setup contract when tracing is disabled.
func noopShutdown(context.Context) error { return nil }

// Setup installs a global tracer provider for serviceName and returns a
// shutdown function that flushes buffered spans.
//
// Export is opt-in twice over: AI_DND_OTEL_ENDPOINT must name an OTLP
// HTTP collector, and AI_DND_OTEL_ENABLED can force tracing off without
// unsetting the endpoint. When either check fails, Setup registers no
// global provider and the returned shutdown is a no-op.
func Setup(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	endpoint := strings.TrimSpace(os.Getenv(envEndpoint))
	if endpoint == "" || strings.EqualFold(os.Getenv(envEnabled), "false") {
		return noopShutdown, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noopShutdown, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return noopShutdown, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return provider.Shutdown, nil
}
