package output

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{" JSON ", FormatJSON, false},
		{"table", FormatText, true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.wantErr, err != nil, tt.in)
	}
}

func TestFormatter_Colorize(t *testing.T) {
	plain := NewFormatter(WithColor(false))
	assert.Equal(t, "x", plain.Colorize("x", ColorRed))

	colored := NewFormatter(WithColor(true))
	assert.Equal(t, "\033[31mx\033[0m", colored.Colorize("x", ColorRed))
}

func TestFormatter_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	f := NewFormatter(WithWriter(buf), WithFormat(FormatJSON))

	require.NoError(t, f.JSON(map[string]int{"tokens": 3}))
	assert.Equal(t, "{\n  \"tokens\": 3\n}\n", buf.String())
	assert.Equal(t, FormatJSON, f.Format())
}

func TestFormatter_Println(t *testing.T) {
	buf := &bytes.Buffer{}
	f := NewFormatter(WithWriter(buf))

	require.NoError(t, f.Println("gtc %s", "1.0.0"))
	assert.Equal(t, "gtc 1.0.0\n", buf.String())
}

func TestIsColorSupported_Env(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, IsColorSupported(nil))
}

func TestIsColorSupported_NotTerminal(t *testing.T) {
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		t.Skip("FORCE_COLOR is set")
	}
	t.Setenv("TERM", "xterm")

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsColorSupported(f))
}

func TestColorFor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	require.NoError(t, os.Unsetenv("NO_COLOR"))
	t.Setenv("FORCE_COLOR", "1")

	assert.False(t, ColorFor(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.True(t, ColorFor(f))
}
