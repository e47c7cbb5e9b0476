// Package monitoring wires Prometheus metrics and OpenTelemetry tracing
package monitoring

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// TracingConfig holds tracing configuration
type TracingConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Endpoint       string
	Insecure       bool
	SamplingRate   float64
	Enabled        bool
}

// TracingProvider owns the process tracer provider
type TracingProvider struct {
	provider *sdktrace.TracerProvider
	logger   *zap.Logger
}

// NewTracingProvider installs a global tracer provider exporting over
// OTLP/HTTP. When tracing is disabled a no-op provider is installed.
func NewTracingProvider(ctx context.Context, config TracingConfig, logger *zap.Logger) (*TracingProvider, error) {
	if !config.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		logger.Info("Tracing is disabled")
		return &TracingProvider{logger: logger}, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(config.Endpoint)}
	if config.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(config.SamplingRate))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("Tracing initialized",
		zap.String("service", config.ServiceName),
		zap.String("version", config.ServiceVersion),
		zap.String("endpoint", config.Endpoint),
		zap.Float64("sampling_rate", config.SamplingRate),
	)

	return &TracingProvider{provider: tp, logger: logger}, nil
}

// Tracer returns a named tracer from the installed provider
func (t *TracingProvider) Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// Shutdown flushes pending spans
func (t *TracingProvider) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	if err := t.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}
	t.logger.Info("Tracing shut down")
	return nil
}
