package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbctechsolutions/gtc/internal/application/counting"
	"github.com/jbctechsolutions/gtc/internal/domain/encoding"
	domainMCP "github.com/jbctechsolutions/gtc/internal/domain/mcp"
	"github.com/jbctechsolutions/gtc/internal/infrastructure/logging"
	"github.com/jbctechsolutions/gtc/internal/infrastructure/testutil"
)

func newTestServer(t *testing.T, logs *bytes.Buffer) *Server {
	t.Helper()

	resolver, err := encoding.NewResolver()
	require.NoError(t, err)

	logger := logging.New(logging.Config{Level: logging.LevelInfo, Format: logging.FormatJSON, Output: logs})
	counter, err := counting.NewService(resolver, &testutil.FakeFactory{}, logger, nil, 1)
	require.NoError(t, err)

	return NewServer(counter, logger, nil, "test")
}

func callRequest(t *testing.T, name string, args map[string]any) mcp.CallToolRequest {
	t.Helper()

	raw, err := json.Marshal(map[string]any{
		"method": "tools/call",
		"params": map[string]any{"name": name, "arguments": args},
	})
	require.NoError(t, err)

	var req mcp.CallToolRequest
	require.NoError(t, json.Unmarshal(raw, &req))
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "expected text content")
	return text.Text
}

func decode[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	return out
}

func TestHandleCountTokens(t *testing.T) {
	s := newTestServer(t, &bytes.Buffer{})
	path := testutil.WriteFile(t, testutil.TempDir(t), "doc.md", "one two three four")

	result, err := s.handleCountTokens(context.Background(), callRequest(t, domainMCP.ToolCountTokens, map[string]any{
		"file_path": path,
		"model":     "gpt-4",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	got := decode[domainMCP.FileCountResult](t, result)
	assert.Equal(t, domainMCP.FileCountResult{
		FilePath: path,
		Tokens:   4,
		Model:    "gpt-4",
		Encoding: encoding.Cl100kBase,
	}, got)
}

func TestHandleCountTokens_DefaultModel(t *testing.T) {
	s := newTestServer(t, &bytes.Buffer{})
	path := testutil.WriteFile(t, testutil.TempDir(t), "doc.md", "x")

	result, err := s.handleCountTokens(context.Background(), callRequest(t, domainMCP.ToolCountTokens, map[string]any{
		"file_path": path,
	}))
	require.NoError(t, err)

	got := decode[domainMCP.FileCountResult](t, result)
	assert.Equal(t, encoding.DefaultModel, got.Model)
	assert.Equal(t, encoding.O200kBase, got.Encoding)
}

func TestHandleCountTokens_Errors(t *testing.T) {
	dir := testutil.TempDir(t)
	path := testutil.WriteFile(t, dir, "doc.md", "x")

	tests := []struct {
		name    string
		args    map[string]any
		wantErr string
	}{
		{"missing file", map[string]any{"file_path": filepath.Join(dir, "nope.md")}, "file not found"},
		{"directory", map[string]any{"file_path": dir}, "path is a directory"},
		{"unknown model", map[string]any{"file_path": path, "model": "gpt-99"}, `model "gpt-99" is not in the model table`},
		{"no path", map[string]any{}, "file_path is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &bytes.Buffer{})

			result, err := s.handleCountTokens(context.Background(), callRequest(t, domainMCP.ToolCountTokens, tt.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)

			got := decode[domainMCP.FileErrorResult](t, result)
			assert.Contains(t, got.Error, tt.wantErr)
			assert.NotContains(t, got.Error, "[CONFIG]")
			assert.Zero(t, got.Tokens)
		})
	}
}

func TestHandleCountTokensMulti(t *testing.T) {
	s := newTestServer(t, &bytes.Buffer{})
	dir := testutil.TempDir(t)
	a := testutil.WriteFile(t, dir, "a.txt", "one two")
	b := testutil.WriteFile(t, dir, "b.txt", "three")
	missing := filepath.Join(dir, "missing.txt")

	result, err := s.handleCountTokensMulti(context.Background(), callRequest(t, domainMCP.ToolCountTokensMulti, map[string]any{
		"file_paths": []string{a, missing, b},
		"encoding":   encoding.P50kBase,
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	got := decode[domainMCP.MultiCountResult](t, result)
	assert.Equal(t, []domainMCP.FileTokens{{FilePath: a, Tokens: 2}, {FilePath: b, Tokens: 1}}, got.Files)
	assert.Equal(t, 3, got.TotalTokens)
	assert.Equal(t, 2, got.FileCount)
	assert.Equal(t, encoding.P50kBase, got.Encoding)
	require.Len(t, got.Errors, 1)
	assert.Contains(t, got.Errors[0], missing)
}

func TestHandleCountTokensMulti_NoErrorsIsNull(t *testing.T) {
	s := newTestServer(t, &bytes.Buffer{})
	a := testutil.WriteFile(t, testutil.TempDir(t), "a.txt", "one")

	result, err := s.handleCountTokensMulti(context.Background(), callRequest(t, domainMCP.ToolCountTokensMulti, map[string]any{
		"file_paths": []string{a},
	}))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &raw))
	assert.Contains(t, raw, "errors")
	assert.Nil(t, raw["errors"])
}

func TestHandleCountTokensMulti_Invalid(t *testing.T) {
	s := newTestServer(t, &bytes.Buffer{})

	result, err := s.handleCountTokensMulti(context.Background(), callRequest(t, domainMCP.ToolCountTokensMulti, map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "file_paths is required")

	result, err = s.handleCountTokensMulti(context.Background(), callRequest(t, domainMCP.ToolCountTokensMulti, map[string]any{
		"file_paths": []string{"/x"},
		"encoding":   "bogus",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, `encoding \"bogus\" is not supported`)
	assert.NotContains(t, text, "[CONFIG]")
}

func TestHandleCountTextTokens(t *testing.T) {
	s := newTestServer(t, &bytes.Buffer{})

	result, err := s.handleCountTextTokens(context.Background(), callRequest(t, domainMCP.ToolCountTextTokens, map[string]any{
		"text":  "hello brave new world",
		"model": "gpt-3.5-turbo",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	got := decode[domainMCP.TextCountResult](t, result)
	assert.Equal(t, domainMCP.TextCountResult{
		Tokens:     4,
		Characters: 21,
		Model:      "gpt-3.5-turbo",
		Encoding:   encoding.Cl100kBase,
	}, got)
}

func TestHandleListEncodings(t *testing.T) {
	s := newTestServer(t, &bytes.Buffer{})

	result, err := s.handleListEncodings(context.Background(), callRequest(t, domainMCP.ToolListEncodings, nil))
	require.NoError(t, err)

	got := decode[domainMCP.EncodingsResult](t, result)
	require.Len(t, got.Encodings, 5)
	assert.Contains(t, got.Encodings, domainMCP.EncodingEntry{Name: encoding.O200kBase, VocabSize: 200019})
	assert.Equal(t, encoding.DefaultModel, got.DefaultModel)
	assert.Equal(t, encoding.Cl100kBase, got.ModelMappings["text-embedding-ada-002"])
}

func TestInstrument_LogsCorrelationID(t *testing.T) {
	logs := &bytes.Buffer{}
	s := newTestServer(t, logs)

	handler := s.instrument(domainMCP.ToolListEncodings, s.handleListEncodings)
	_, err := handler(context.Background(), callRequest(t, domainMCP.ToolListEncodings, nil))
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, `"msg":"tool call"`)
	assert.Contains(t, out, `"tool":"list_encodings"`)
	assert.Contains(t, out, `"correlation_id"`)
	assert.Contains(t, out, `"component":"mcp"`)
}

func TestHandleMessage_ToolsListAndCall(t *testing.T) {
	s := newTestServer(t, &bytes.Buffer{})
	ctx := context.Background()

	send := func(msg string) string {
		resp := s.mcp.HandleMessage(ctx, json.RawMessage(msg))
		require.NotNil(t, resp)
		data, err := json.Marshal(resp)
		require.NoError(t, err)
		return string(data)
	}

	init := send(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`)
	assert.Contains(t, init, domainMCP.ServerName)

	list := send(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	for _, tool := range domainMCP.Tools() {
		assert.Contains(t, list, fmt.Sprintf("%q", tool.Name))
	}

	call := send(`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"count_text_tokens","arguments":{"text":"a b c"}}}`)
	assert.Contains(t, call, `\"tokens\":3`)
}
