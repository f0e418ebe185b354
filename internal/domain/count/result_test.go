package count

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport_Aggregates(t *testing.T) {
	report := &Report{
		Encoding: "o200k_base",
		Files: []FileResult{
			{Path: "a.md", Tokens: 10},
			{Path: "missing.md", Err: errors.New("file not found: missing.md")},
			{Path: "b.md", Tokens: 32},
		},
	}

	assert.Equal(t, 42, report.TotalTokens())
	assert.Equal(t, 1, report.FailedCount())
	assert.True(t, report.HasFailures())

	ok := report.Succeeded()
	assert.Len(t, ok, 2)
	assert.Equal(t, "a.md", ok[0].Path)
	assert.Equal(t, "b.md", ok[1].Path)

	failed := report.Failed()
	assert.Len(t, failed, 1)
	assert.Equal(t, "file not found: missing.md", failed[0].ErrorMessage())
}

func TestReport_Empty(t *testing.T) {
	report := &Report{}

	assert.Zero(t, report.TotalTokens())
	assert.False(t, report.HasFailures())
	assert.Empty(t, report.Succeeded())
	assert.Empty(t, report.Failed())
}

func TestFileResult_ErrorMessage(t *testing.T) {
	assert.Equal(t, "", FileResult{Path: "x"}.ErrorMessage())
	assert.True(t, FileResult{Path: "x"}.OK())
	assert.False(t, FileResult{Err: errors.New("boom")}.OK())
}
