package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	domainMCP "github.com/jbctechsolutions/gtc/internal/domain/mcp"
)

const (
	modelParamDescription    = "Model name used to pick the encoding (default: gpt-5). Options include gpt-5, gpt-4o, gpt-4, gpt-3.5-turbo."
	encodingParamDescription = "Encoding name; overrides model (o200k_base, cl100k_base, p50k_base, p50k_edit, r50k_base)."
)

// toolDefinitions builds the mcp-go tool schemas in registration order.
func toolDefinitions() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(domainMCP.ToolCountTokens,
			mcp.WithDescription(domainMCP.Description(domainMCP.ToolCountTokens)),
			mcp.WithString("file_path",
				mcp.Required(),
				mcp.Description("Absolute path to the file to count tokens for"),
			),
			mcp.WithString("model", mcp.Description(modelParamDescription)),
			mcp.WithString("encoding", mcp.Description(encodingParamDescription)),
		),
		mcp.NewTool(domainMCP.ToolCountTokensMulti,
			mcp.WithDescription(domainMCP.Description(domainMCP.ToolCountTokensMulti)),
			mcp.WithArray("file_paths",
				mcp.Required(),
				mcp.Description("Absolute file paths to count tokens for"),
				mcp.Items(map[string]any{"type": "string"}),
			),
			mcp.WithString("model", mcp.Description(modelParamDescription)),
			mcp.WithString("encoding", mcp.Description(encodingParamDescription)),
		),
		mcp.NewTool(domainMCP.ToolCountTextTokens,
			mcp.WithDescription(domainMCP.Description(domainMCP.ToolCountTextTokens)),
			mcp.WithString("text",
				mcp.Required(),
				mcp.Description("The text to count tokens for"),
			),
			mcp.WithString("model", mcp.Description(modelParamDescription)),
			mcp.WithString("encoding", mcp.Description(encodingParamDescription)),
		),
		mcp.NewTool(domainMCP.ToolListEncodings,
			mcp.WithDescription(domainMCP.Description(domainMCP.ToolListEncodings)),
		),
	}
}
