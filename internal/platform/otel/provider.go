// Package otel wires OpenTelemetry tracing for hubbble commands.
package otel

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	// EnvEndpoint names the OTLP/HTTP collector URL. Empty disables tracing.
	EnvEndpoint = "HUBBBLE_OTEL_ENDPOINT"
	// EnvEnabled set to "false" disables tracing even when an endpoint is set.
	EnvEnabled = "HUBBBLE_OTEL_ENABLED"
	// EnvSampleRatio sets the parent-based trace sampling ratio in [0,1].
	EnvSampleRatio = "HUBBBLE_OTEL_SAMPLE_RATIO"
)

// Setup initialises OpenTelemetry tracing for the given service.
//
// Tracing is opt-in: when HUBBBLE_OTEL_ENDPOINT is empty or
// HUBBBLE_OTEL_ENABLED is "false", Setup returns a no-op shutdown function
// and no global provider is registered.
//
// The returned shutdown function flushes pending spans and should be deferred
// by the caller.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if !Enabled() {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(strings.TrimSpace(os.Getenv(EnvEndpoint))),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio()))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Enabled reports whether the environment asks for trace export.
func Enabled() bool {
	if strings.EqualFold(strings.TrimSpace(os.Getenv(EnvEnabled)), "false") {
		return false
	}
	return strings.TrimSpace(os.Getenv(EnvEndpoint)) != ""
}

// WrapHandler instruments inbound HTTP requests under operation.
func WrapHandler(h http.Handler, operation string) http.Handler {
	if h == nil {
		return nil
	}
	return otelhttp.NewHandler(h, operation)
}

// WrapTransport instruments outbound HTTP requests. A nil base uses
// http.DefaultTransport.
func WrapTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return otelhttp.NewTransport(base)
}

func sampleRatio() float64 {
	raw := strings.TrimSpace(os.Getenv(EnvSampleRatio))
	if raw == "" {
		return 1
	}
	ratio, err := strconv.ParseFloat(raw, 64)
	if err != nil || ratio < 0 {
		return 1
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}
