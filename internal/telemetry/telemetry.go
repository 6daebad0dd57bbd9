// Package telemetry wires OpenTelemetry tracing for the server and API client.
package telemetry

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/physai-textbook/docsite/internal/config"
)

// ShutdownFunc flushes and stops the tracer provider
type ShutdownFunc func(context.Context) error

// Setup installs a global tracer provider exporting over OTLP/gRPC.
// Without an endpoint it is a no-op and spans go to the default noop provider.
func Setup(cfg config.TelemetryConfig, serviceName string, log zerolog.Logger) ShutdownFunc {
	if cfg.Endpoint == "" {
		return func(context.Context) error { return nil }
	}

	addr, plaintext, err := collectorAddress(cfg.Endpoint)
	if err != nil {
		log.Warn().Err(err).Msg("Tracing disabled")
		return func(context.Context) error { return nil }
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(addr)}
	if cfg.Insecure || plaintext {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(context.Background(), opts...)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create OTLP exporter - tracing disabled")
		return func(context.Context) error { return nil }
	}

	res, err := resource.New(context.Background(), resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to build telemetry resource")
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	log.Info().Str("endpoint", cfg.Endpoint).Msg("Tracing enabled")
	return provider.Shutdown
}

// collectorAddress accepts either host:port or a URL such as
// http://collector:4317. An http URL implies a plaintext connection.
func collectorAddress(endpoint string) (addr string, plaintext bool, err error) {
	if !strings.Contains(endpoint, "://") {
		return endpoint, false, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", false, fmt.Errorf("invalid OTLP endpoint %q", endpoint)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false, fmt.Errorf("unsupported OTLP endpoint scheme %q", u.Scheme)
	}

	return u.Host, u.Scheme == "http", nil
}
