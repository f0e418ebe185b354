package application

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbctechsolutions/gtc/internal/application/counting"
	"github.com/jbctechsolutions/gtc/internal/domain/encoding"
	"github.com/jbctechsolutions/gtc/internal/infrastructure/config"
	"github.com/jbctechsolutions/gtc/internal/infrastructure/testutil"
)

func TestNewContainer_Defaults(t *testing.T) {
	container, err := NewContainer(nil, false, WithTokenizerFactory(&testutil.FakeFactory{}))
	require.NoError(t, err)
	defer container.Close()

	assert.NotNil(t, container.Config())
	assert.NotNil(t, container.Logger())
	assert.NotNil(t, container.Tracer())
	assert.NotNil(t, container.Counter())
	assert.Equal(t, encoding.DefaultModel, container.Counter().ListEncodings().DefaultModel)
}

func TestNewContainer_CustomModels(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Models = map[string]string{"house-model": "p50k_base"}
	cfg.Defaults.Model = "house-model"

	container, err := NewContainer(cfg, false, WithTokenizerFactory(&testutil.FakeFactory{}))
	require.NoError(t, err)
	defer container.Close()

	enc, err := container.Counter().Resolve("", "")
	require.NoError(t, err)
	assert.Equal(t, encoding.P50kBase, enc)
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Defaults.Model = "no-such-model"

	_, err := NewContainer(cfg, false)
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestNewContainer_VerboseLogsInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	dir := testutil.TempDir(t)
	path := testutil.WriteFile(t, dir, "a.txt", "one two")

	container, err := NewContainer(nil, true,
		WithTokenizerFactory(&testutil.FakeFactory{}),
		WithLogOutput(buf))
	require.NoError(t, err)
	defer container.Close()

	_, err = container.Counter().Count(context.Background(), counting.Request{Patterns: []string{path}})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "count completed")
	assert.NotContains(t, buf.String(), "file counted")
}

func TestNewContainer_VerboseKeepsDebugLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	dir := testutil.TempDir(t)
	path := testutil.WriteFile(t, dir, "a.txt", "one two")

	cfg := config.NewDefaultConfig()
	cfg.Logging.Level = "debug"

	container, err := NewContainer(cfg, true,
		WithTokenizerFactory(&testutil.FakeFactory{}),
		WithLogOutput(buf))
	require.NoError(t, err)
	defer container.Close()

	_, err = container.Counter().Count(context.Background(), counting.Request{Patterns: []string{path}})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "file counted")
}

func TestNewContainer_StdoutTracing(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := config.NewDefaultConfig()
	cfg.Observability.Tracing.Enabled = true
	cfg.Observability.Tracing.ExporterType = "stdout"

	container, err := NewContainer(cfg, false,
		WithTokenizerFactory(&testutil.FakeFactory{}),
		WithLogOutput(buf))
	require.NoError(t, err)

	dir := testutil.TempDir(t)
	path := testutil.WriteFile(t, dir, "a.txt", "one two")
	_, err = container.Counter().Count(context.Background(), counting.Request{Patterns: []string{path}})
	require.NoError(t, err)

	require.NoError(t, container.Close())
	assert.Contains(t, buf.String(), "count.run")
	assert.Contains(t, buf.String(), "count.file")
}
