package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile_CreatesParents(t *testing.T) {
	dir := TempDir(t)

	path := WriteFile(t, dir, "docs/nested/a.md", "hello there")
	assert.Equal(t, filepath.Join(dir, "docs", "nested", "a.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello there", string(data))
}

func TestMkdir(t *testing.T) {
	dir := Mkdir(t, TempDir(t), "a/b")

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWordTokenizer(t *testing.T) {
	tok := &WordTokenizer{Name: "o200k_base", PanicOn: "BOOM"}

	assert.Equal(t, "o200k_base", tok.Encoding())
	assert.Equal(t, 3, tok.CountTokens(" one two\nthree "))
	assert.Panics(t, func() { tok.CountTokens("a BOOM b") })
}

func TestFakeFactory(t *testing.T) {
	f := &FakeFactory{}
	tok, err := f.Get("cl100k_base")
	require.NoError(t, err)
	assert.Equal(t, "cl100k_base", tok.Encoding())
	assert.Equal(t, []string{"cl100k_base"}, f.Requests)

	f.Err = errors.New("offline")
	_, err = f.Get("o200k_base")
	assert.ErrorContains(t, err, "offline")
}
