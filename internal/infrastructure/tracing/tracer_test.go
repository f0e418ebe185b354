package tracing

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func newStdoutTracer(t *testing.T, buf *bytes.Buffer) *Tracer {
	t.Helper()

	tracer, err := New(context.Background(), Config{
		Enabled:      true,
		ExporterType: ExporterStdout,
		ServiceName:  "test-service",
		Environment:  "test",
		SampleRate:   1.0,
		Output:       buf,
	})
	require.NoError(t, err)
	require.NotNil(t, tracer)
	return tracer
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, ExporterNone, cfg.ExporterType)
	assert.Equal(t, "gtc", cfg.ServiceName)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestNew_Disabled(t *testing.T) {
	ctx := context.Background()

	tracer, err := New(ctx, Config{Enabled: false, ExporterType: ExporterNone})
	require.NoError(t, err)
	assert.Nil(t, tracer.provider)

	// Span helpers are safe on a disabled tracer.
	ctx, cs := tracer.StartCountSpan(ctx, "gpt-4", "cl100k_base")
	_, fs := tracer.StartFileSpan(ctx, "a.txt")
	fs.SetTokens(1, 2)
	fs.End()
	cs.SetResult(1, 0)
	cs.End()

	assert.NoError(t, tracer.Shutdown(ctx))
}

func TestNew_UnsupportedExporter(t *testing.T) {
	_, err := New(context.Background(), Config{Enabled: true, ExporterType: "jaeger", SampleRate: 1})
	assert.ErrorContains(t, err, "unsupported exporter type")
}

func TestNew_StdoutExporter(t *testing.T) {
	buf := &bytes.Buffer{}
	tracer := newStdoutTracer(t, buf)
	defer tracer.Shutdown(context.Background())

	assert.NotNil(t, tracer.provider)
}

func TestCountSpan(t *testing.T) {
	ctx := context.Background()
	buf := &bytes.Buffer{}
	tracer := newStdoutTracer(t, buf)

	ctx, cs := tracer.StartCountSpan(ctx, "gpt-4o", "o200k_base")
	cs.SetFileCount(2)

	_, fs := tracer.StartFileSpan(ctx, "notes.md")
	fs.SetTokens(42, 180)
	fs.End()

	_, fs = tracer.StartFileSpan(ctx, "missing.md")
	fs.EndWithError(errors.New("file not found"))

	cs.SetResult(42, 1)
	cs.End()

	require.NoError(t, tracer.Shutdown(ctx))

	out := buf.String()
	assert.Contains(t, out, "count.run")
	assert.Contains(t, out, "count.file")
	assert.Contains(t, out, "notes.md")
	assert.Contains(t, out, "o200k_base")
	assert.Contains(t, out, "file not found")
}

func TestCountSpan_Error(t *testing.T) {
	ctx := context.Background()
	buf := &bytes.Buffer{}
	tracer := newStdoutTracer(t, buf)

	_, cs := tracer.StartCountSpan(ctx, "gpt-9", "")
	cs.EndWithError(errors.New("unknown model"))

	require.NoError(t, tracer.Shutdown(ctx))
	assert.Contains(t, buf.String(), "unknown model")
}

func TestToolSpan(t *testing.T) {
	ctx := context.Background()
	buf := &bytes.Buffer{}
	tracer := newStdoutTracer(t, buf)

	ctx, ts := tracer.StartToolSpan(ctx, "count_tokens", "abc-123")
	AddEvent(ctx, "file.read", attribute.String("file.path", "x.txt"))
	ts.End(false)

	_, ts = tracer.StartToolSpan(ctx, "count_text_tokens", "def-456")
	ts.End(true)

	require.NoError(t, tracer.Shutdown(ctx))

	out := buf.String()
	assert.Contains(t, out, "mcp.tool")
	assert.Contains(t, out, "abc-123")
	assert.Contains(t, out, "file.read")
}

func TestDefault(t *testing.T) {
	tracer := Default()
	require.NotNil(t, tracer)
	assert.Nil(t, tracer.provider)

	ctx, ts := tracer.StartToolSpan(context.Background(), "list_encodings", "id")
	AddEvent(ctx, "noop")
	ts.End(false)
}

func TestSamplers(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate float64
	}{
		{"always sample", 1.0},
		{"never sample", 0.0},
		{"ratio sample", 0.5},
		{"above max", 1.5},
		{"below min", -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()

			tracer, err := New(ctx, Config{
				Enabled:      true,
				ExporterType: ExporterStdout,
				ServiceName:  "test-service",
				SampleRate:   tt.sampleRate,
				Output:       &bytes.Buffer{},
			})
			require.NoError(t, err)
			assert.NoError(t, tracer.Shutdown(ctx))
		})
	}
}
