// Package tracing provides OpenTelemetry-based tracing for token counting runs.
// It supports stdout and OTLP exporters and provides span helpers for a
// counting run, the files inside it and MCP tool calls.
package tracing

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	// TracerName is the instrumentation name used for gtc spans.
	TracerName = "github.com/jbctechsolutions/gtc"

	// Version is the instrumentation version reported on spans.
	Version = "0.1.0"
)

// ExporterType defines the type of trace exporter.
type ExporterType string

const (
	ExporterNone   ExporterType = "none"
	ExporterStdout ExporterType = "stdout"
	ExporterOTLP   ExporterType = "otlp"
)

// Config holds tracing configuration.
type Config struct {
	Enabled      bool         // Whether tracing is enabled
	ExporterType ExporterType // Type of exporter to use
	OTLPEndpoint string       // OTLP collector endpoint (for OTLP exporter)
	ServiceName  string       // Service name for traces
	Environment  string       // Deployment environment (development, production)
	SampleRate   float64      // Sampling rate (0.0 to 1.0)
	Output       io.Writer    // Output for stdout exporter (defaults to os.Stdout)
}

// DefaultConfig returns sensible default tracing configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:      false,
		ExporterType: ExporterNone,
		ServiceName:  "gtc",
		Environment:  "development",
		SampleRate:   1.0,
	}
}

// Tracer wraps an OpenTelemetry tracer with domain-specific functionality.
type Tracer struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	config   Config
}

// Default returns a no-op tracer.
func Default() *Tracer {
	return &Tracer{
		tracer: noop.NewTracerProvider().Tracer(TracerName),
		config: DefaultConfig(),
	}
}

// New creates a new Tracer with the provided configuration.
func New(ctx context.Context, cfg Config) (*Tracer, error) {
	if !cfg.Enabled || cfg.ExporterType == ExporterNone {
		return &Tracer{
			tracer: noop.NewTracerProvider().Tracer(TracerName),
			config: cfg,
		}, nil
	}

	// Create exporter
	exporter, err := createExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	// Create resource without merging with Default() to avoid schema URL conflicts.
	// The default resource's schema URL may conflict with our semconv version.
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(Version),
			attribute.String("deployment.environment", cfg.Environment),
		),
		resource.WithHost(),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	// Create sampler
	var sampler sdktrace.Sampler
	if cfg.SampleRate >= 1.0 {
		sampler = sdktrace.AlwaysSample()
	} else if cfg.SampleRate <= 0.0 {
		sampler = sdktrace.NeverSample()
	} else {
		sampler = sdktrace.TraceIDRatioBased(cfg.SampleRate)
	}

	// Create tracer provider
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	// Set global propagator
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	otel.SetTracerProvider(provider)

	return &Tracer{
		tracer:   provider.Tracer(TracerName, trace.WithInstrumentationVersion(Version)),
		provider: provider,
		config:   cfg,
	}, nil
}

// createExporter creates the appropriate exporter based on configuration.
func createExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	switch cfg.ExporterType {
	case ExporterStdout:
		opts := []stdouttrace.Option{
			stdouttrace.WithPrettyPrint(),
		}
		if cfg.Output != nil {
			opts = append(opts, stdouttrace.WithWriter(cfg.Output))
		}
		return stdouttrace.New(opts...)

	case ExporterOTLP:
		opts := []otlptracehttp.Option{
			otlptracehttp.WithInsecure(),
		}
		if cfg.OTLPEndpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(cfg.OTLPEndpoint))
		}
		return otlptracehttp.New(ctx, opts...)

	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", cfg.ExporterType)
	}
}

// Shutdown gracefully shuts down the tracer provider.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.provider != nil {
		return t.provider.Shutdown(ctx)
	}
	return nil
}

// CountSpan covers one counting run over a set of files.
type CountSpan struct {
	span trace.Span
}

// StartCountSpan starts a span for a counting run.
func (t *Tracer) StartCountSpan(ctx context.Context, model, encodingName string) (context.Context, *CountSpan) {
	ctx, span := t.tracer.Start(ctx, "count.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("count.model", model),
			attribute.String("count.encoding", encodingName),
		),
	)

	return ctx, &CountSpan{span: span}
}

// SetFileCount sets the number of files attempted.
func (cs *CountSpan) SetFileCount(count int) {
	cs.span.SetAttributes(attribute.Int("count.files", count))
}

// SetResult sets the aggregate token count and the number of failed files.
func (cs *CountSpan) SetResult(totalTokens, failed int) {
	cs.span.SetAttributes(
		attribute.Int("count.tokens.total", totalTokens),
		attribute.Int("count.files.failed", failed),
	)
}

// End ends the count span with success status.
func (cs *CountSpan) End() {
	cs.span.SetStatus(codes.Ok, "count completed")
	cs.span.End()
}

// EndWithError ends the count span with error status.
func (cs *CountSpan) EndWithError(err error) {
	cs.span.RecordError(err)
	cs.span.SetStatus(codes.Error, err.Error())
	cs.span.End()
}

// FileSpan covers reading and tokenizing a single file.
type FileSpan struct {
	span trace.Span
}

// StartFileSpan starts a span for one file.
func (t *Tracer) StartFileSpan(ctx context.Context, path string) (context.Context, *FileSpan) {
	ctx, span := t.tracer.Start(ctx, "count.file",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("file.path", path)),
	)

	return ctx, &FileSpan{span: span}
}

// SetTokens sets the token and character counts of the file.
func (fs *FileSpan) SetTokens(tokens, characters int) {
	fs.span.SetAttributes(
		attribute.Int("file.tokens", tokens),
		attribute.Int("file.characters", characters),
	)
}

// End ends the file span with success status.
func (fs *FileSpan) End() {
	fs.span.SetStatus(codes.Ok, "")
	fs.span.End()
}

// EndWithError ends the file span with error status.
func (fs *FileSpan) EndWithError(err error) {
	fs.span.RecordError(err)
	fs.span.SetStatus(codes.Error, err.Error())
	fs.span.End()
}

// ToolSpan covers a single MCP tool invocation.
type ToolSpan struct {
	span trace.Span
}

// StartToolSpan starts a server span for an MCP tool call.
func (t *Tracer) StartToolSpan(ctx context.Context, tool, correlationID string) (context.Context, *ToolSpan) {
	ctx, span := t.tracer.Start(ctx, "mcp.tool",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("mcp.tool", tool),
			attribute.String("mcp.correlation_id", correlationID),
		),
	)

	return ctx, &ToolSpan{span: span}
}

// End ends the tool span, marking it failed when isError is set.
func (ts *ToolSpan) End(isError bool) {
	if isError {
		ts.span.SetStatus(codes.Error, "tool returned an error result")
	} else {
		ts.span.SetStatus(codes.Ok, "")
	}
	ts.span.End()
}

// AddEvent adds an event to the current span.
func AddEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
