// Package mcp provides domain types for the token counting MCP server.
package mcp

import "errors"

// Tool errors.
var (
	// ErrInvalidArguments indicates the tool arguments could not be decoded
	// or a required argument is missing.
	ErrInvalidArguments = errors.New("invalid tool arguments")

	// ErrToolExecutionFailed indicates the tool ran but could not produce a result.
	ErrToolExecutionFailed = errors.New("tool execution failed")
)
