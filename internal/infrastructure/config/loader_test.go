package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbctechsolutions/gtc/internal/infrastructure/testutil"
)

func TestLoader_Load_MissingDefaultFile(t *testing.T) {
	loader, err := NewLoader(testutil.TempDir(t))
	require.NoError(t, err)

	cfg, err := loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, NewDefaultConfig(), cfg)
}

func TestLoader_Load_ExplicitMissingFile(t *testing.T) {
	loader, err := NewLoader(testutil.TempDir(t))
	require.NoError(t, err)

	_, err = loader.Load(filepath.Join(testutil.TempDir(t), "nope.yaml"))
	assert.ErrorContains(t, err, "config file not found")
}

func TestLoader_Load_ParsesYAML(t *testing.T) {
	dir := testutil.TempDir(t)
	testutil.WriteFile(t, dir, "config.yaml", `
defaults:
  model: gpt-4
models:
  my-model: cl100k_base
tokenizer:
  offline: true
  concurrency: 4
logging:
  level: debug
watch:
  debounce: 500ms
`)

	loader, err := NewLoader(dir)
	require.NoError(t, err)

	cfg, err := loader.Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "gpt-4", cfg.Defaults.Model)
	assert.Equal(t, map[string]string{"my-model": "cl100k_base"}, cfg.Models)
	assert.True(t, cfg.Tokenizer.Offline)
	assert.Equal(t, 4, cfg.Tokenizer.Concurrency)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unset fields keep their defaults.
	assert.Equal(t, DefaultLogFormat, cfg.Logging.Format)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoader_Load_InvalidYAML(t *testing.T) {
	dir := testutil.TempDir(t)
	path := testutil.WriteFile(t, dir, "bad.yaml", "defaults: [unclosed")

	loader, err := NewLoader(dir)
	require.NoError(t, err)

	_, err = loader.Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoader_SaveAndLoad(t *testing.T) {
	dir := testutil.TempDir(t)
	loader, err := NewLoader(dir)
	require.NoError(t, err)

	cfg := NewDefaultConfig()
	cfg.Defaults.Model = "gpt-4o-mini"
	cfg.Models = map[string]string{"custom": "p50k_base"}
	require.NoError(t, loader.Save(cfg, ""))

	loaded, err := loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), loader.DefaultConfigPath())
	assert.Equal(t, dir, loader.ConfigDir())
}
