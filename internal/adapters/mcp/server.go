// Package mcp exposes the counting service as a Model Context Protocol
// server over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jbctechsolutions/gtc/internal/application/counting"
	domainErrors "github.com/jbctechsolutions/gtc/internal/domain/errors"
	domainMCP "github.com/jbctechsolutions/gtc/internal/domain/mcp"
	"github.com/jbctechsolutions/gtc/internal/infrastructure/logging"
	"github.com/jbctechsolutions/gtc/internal/infrastructure/tracing"
)

// Server relays MCP tool calls to the counting service.
type Server struct {
	counter *counting.Service
	logger  *logging.Logger
	tracer  *tracing.Tracer
	mcp     *server.MCPServer
}

type fileArgs struct {
	FilePath string `json:"file_path"`
	Model    string `json:"model"`
	Encoding string `json:"encoding"`
}

type multiArgs struct {
	FilePaths []string `json:"file_paths"`
	Model     string   `json:"model"`
	Encoding  string   `json:"encoding"`
}

type textArgs struct {
	Text     string `json:"text"`
	Model    string `json:"model"`
	Encoding string `json:"encoding"`
}

// NewServer creates the MCP server and registers its tools.
func NewServer(counter *counting.Service, logger *logging.Logger, tracer *tracing.Tracer, version string) *Server {
	if logger == nil {
		logger = logging.Default()
	}
	if tracer == nil {
		tracer = tracing.Default()
	}

	s := &Server{
		counter: counter,
		logger:  logger.With("component", "mcp"),
		tracer:  tracer,
		mcp:     server.NewMCPServer(domainMCP.ServerName, version, server.WithToolCapabilities(false)),
	}

	handlers := map[string]server.ToolHandlerFunc{
		domainMCP.ToolCountTokens:      s.handleCountTokens,
		domainMCP.ToolCountTokensMulti: s.handleCountTokensMulti,
		domainMCP.ToolCountTextTokens:  s.handleCountTextTokens,
		domainMCP.ToolListEncodings:    s.handleListEncodings,
	}
	for _, tool := range toolDefinitions() {
		s.mcp.AddTool(tool, s.instrument(tool.Name, handlers[tool.Name]))
	}

	return s
}

// Serve reads JSON-RPC messages from in and writes responses to out until
// ctx is cancelled or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Underlying().Handler(), slog.LevelError))

	s.logger.InfoContext(ctx, "mcp server listening", "name", domainMCP.ServerName)
	return stdio.Listen(ctx, in, out)
}

// instrument tags each call with a correlation ID, a span and a log record.
func (s *Server) instrument(name string, next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		id := uuid.NewString()

		ctx = logging.WithCorrelationID(ctx, id)
		ctx = logging.WithTool(ctx, name)
		ctx, span := s.tracer.StartToolSpan(ctx, name, id)

		result, err := next(ctx, request)

		isError := err != nil || (result != nil && result.IsError)
		span.End(isError)
		logging.LogToolCall(ctx, s.logger, name, time.Since(start), isError)

		return result, err
	}
}

func (s *Server) handleCountTokens(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args fileArgs
	if err := request.BindArguments(&args); err != nil {
		return jsonResult(domainMCP.FileErrorResult{Error: invalidArgs(err)}, true)
	}
	if args.FilePath == "" {
		return jsonResult(domainMCP.FileErrorResult{Error: invalidArgs(fmt.Errorf("file_path is required"))}, true)
	}

	report, err := s.counter.CountPaths(ctx, counting.Request{
		Patterns: []string{args.FilePath},
		Model:    args.Model,
		Encoding: args.Encoding,
	})
	if err != nil {
		return jsonResult(domainMCP.FileErrorResult{Error: domainErrors.UserMessage(err), FilePath: args.FilePath}, true)
	}

	file := report.Files[0]
	if !file.OK() {
		return jsonResult(domainMCP.FileErrorResult{Error: file.ErrorMessage(), FilePath: args.FilePath}, true)
	}

	return jsonResult(domainMCP.FileCountResult{
		FilePath: args.FilePath,
		Tokens:   file.Tokens,
		Model:    report.Model,
		Encoding: report.Encoding,
	}, false)
}

func (s *Server) handleCountTokensMulti(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args multiArgs
	if err := request.BindArguments(&args); err != nil {
		return jsonResult(domainMCP.ErrorResult{Error: invalidArgs(err)}, true)
	}
	if len(args.FilePaths) == 0 {
		return jsonResult(domainMCP.ErrorResult{Error: invalidArgs(fmt.Errorf("file_paths is required"))}, true)
	}

	report, err := s.counter.CountPaths(ctx, counting.Request{
		Patterns: args.FilePaths,
		Model:    args.Model,
		Encoding: args.Encoding,
	})
	if err != nil {
		return jsonResult(domainMCP.ErrorResult{Error: domainErrors.UserMessage(err)}, true)
	}

	result := domainMCP.MultiCountResult{
		Files:       make([]domainMCP.FileTokens, 0, len(report.Files)),
		TotalTokens: report.TotalTokens(),
		Model:       report.Model,
		Encoding:    report.Encoding,
	}
	for _, f := range report.Files {
		if !f.OK() {
			result.Errors = append(result.Errors, f.ErrorMessage())
			continue
		}
		result.Files = append(result.Files, domainMCP.FileTokens{FilePath: f.Path, Tokens: f.Tokens})
	}
	result.FileCount = len(result.Files)

	return jsonResult(result, false)
}

func (s *Server) handleCountTextTokens(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args textArgs
	if err := request.BindArguments(&args); err != nil {
		return jsonResult(domainMCP.ErrorResult{Error: invalidArgs(err)}, true)
	}

	res, err := s.counter.CountText(ctx, args.Text, args.Model, args.Encoding)
	if err != nil {
		return jsonResult(domainMCP.ErrorResult{Error: domainErrors.UserMessage(err)}, true)
	}

	return jsonResult(domainMCP.TextCountResult{
		Tokens:     res.Tokens,
		Characters: res.Characters,
		Model:      res.Model,
		Encoding:   res.Encoding,
	}, false)
}

func (s *Server) handleListEncodings(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	catalog := s.counter.ListEncodings()

	result := domainMCP.EncodingsResult{
		Encodings:     make([]domainMCP.EncodingEntry, 0, len(catalog.Encodings)),
		ModelMappings: catalog.ModelMappings,
		DefaultModel:  catalog.DefaultModel,
	}
	for _, info := range catalog.Encodings {
		result.Encodings = append(result.Encodings, domainMCP.EncodingEntry{Name: info.Name, VocabSize: info.VocabSize})
	}

	return jsonResult(result, false)
}

func invalidArgs(err error) string {
	return fmt.Errorf("%w: %w", domainMCP.ErrInvalidArguments, err).Error()
}

// jsonResult renders payload as the text content of a tool result.
func jsonResult(payload any, isError bool) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainMCP.ErrToolExecutionFailed, err)
	}
	result := mcp.NewToolResultText(string(data))
	result.IsError = isError
	return result, nil
}
