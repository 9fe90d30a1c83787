// Package tracing wires OpenTelemetry spans around MCP tool calls and the
// Wikipedia requests they make.
package tracing

import (
	"cmp"
	"context"
	"io"
	"net/http"
	"os"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of every span the server creates.
const TracerName = "wikipedia-mcp-server"

// Config controls whether and where spans are exported.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Enabled        bool
	OTLPEndpoint   string    // host:port of an OTLP/HTTP collector
	SampleRate     float64   // clamped to [0, 1]
	Writer         io.Writer // stdout exporter target when OTLPEndpoint is empty; nil means os.Stderr
}

// DefaultConfig reads the standard OTEL_* environment variables.
// Tracing is on when OTEL_ENABLED=true or an OTLP endpoint is set.
func DefaultConfig(version string) Config {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	return Config{
		ServiceName:    TracerName,
		ServiceVersion: version,
		Environment:    cmp.Or(os.Getenv("OTEL_ENVIRONMENT"), "development"),
		Enabled:        os.Getenv("OTEL_ENABLED") == "true" || endpoint != "",
		OTLPEndpoint:   endpoint,
		SampleRate:     parseSampleRate(os.Getenv("OTEL_TRACES_SAMPLER_ARG")),
	}
}

func parseSampleRate(s string) float64 {
	rate, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 1
	}
	return rate
}

// Setup installs a global tracer provider and returns its shutdown function.
// A disabled config installs nothing and returns a no-op shutdown.
func Setup(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, err
	}
	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(cfg.SampleRate)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown, nil
}

// newResource describes the service. The service attributes are schemaless so
// merging never conflicts with the schema URL of resource.Default.
func newResource(cfg Config) (*resource.Resource, error) {
	return resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		attribute.String("deployment.environment.name", cfg.Environment),
	))
}

func newExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	if cfg.OTLPEndpoint != "" {
		return otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
			otlptracehttp.WithInsecure(),
		)
	}
	// stdout carries the MCP stdio stream
	var w io.Writer = os.Stderr
	if cfg.Writer != nil {
		w = cfg.Writer
	}
	return stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
}

func newSampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
	}
}

// StartSpan starts a span on the server's tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name, opts...)
}

// AddToolAttributes tags a tool-call span.
func AddToolAttributes(span trace.Span, toolName, category string, readOnly bool) {
	span.SetAttributes(
		attribute.String("mcp.tool.name", toolName),
		attribute.String("mcp.tool.category", category),
		attribute.Bool("mcp.tool.readonly", readOnly),
	)
}

// AddArticleAttributes tags an upstream span with the endpoint and, when the
// request targets one article, its title.
func AddArticleAttributes(span trace.Span, endpoint, title string) {
	span.SetAttributes(attribute.String("wikipedia.api.endpoint", endpoint))
	if title != "" {
		span.SetAttributes(attribute.String("wikipedia.article.title", title))
	}
}

// AddRangeAttributes records the requested byte range and how it was served.
func AddRangeAttributes(span trace.Span, start, length int, kind string) {
	span.SetAttributes(
		attribute.Int("wikipedia.range.start", start),
		attribute.Int("wikipedia.range.length", length),
		attribute.String("wikipedia.range.kind", kind),
	)
}

// AddResponseAttributes records an upstream response. Anything outside 2xx
// marks the span as failed.
func AddResponseAttributes(span trace.Span, statusCode, size int) {
	span.SetAttributes(
		attribute.Int("http.response.status_code", statusCode),
		attribute.Int("http.response.body.size", size),
	)
	if statusCode < 200 || statusCode >= 300 {
		span.SetStatus(codes.Error, strconv.Itoa(statusCode)+" "+http.StatusText(statusCode))
	}
}

// RecordError records err on the span and marks it failed. A nil err is a no-op.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
