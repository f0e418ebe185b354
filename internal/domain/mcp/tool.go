package mcp

// ServerName is the name the server reports during initialization.
const ServerName = "GTC Token Counter"

// Tool names.
const (
	ToolCountTokens      = "count_tokens"
	ToolCountTokensMulti = "count_tokens_multi"
	ToolCountTextTokens  = "count_text_tokens"
	ToolListEncodings    = "list_encodings"
)

// Tool describes one tool the server exposes.
type Tool struct {
	Name        string
	Description string
}

// Tools returns the tools in registration order.
func Tools() []Tool {
	return []Tool{
		{
			Name:        ToolCountTokens,
			Description: "Count tokens in a single file using the encoding for a GPT model.",
		},
		{
			Name:        ToolCountTokensMulti,
			Description: "Count tokens in multiple files and return per-file counts and a total.",
		},
		{
			Name:        ToolCountTextTokens,
			Description: "Count tokens in a text string.",
		},
		{
			Name:        ToolListEncodings,
			Description: "List the available encodings and the model to encoding mappings.",
		},
	}
}

// Description returns the description for a tool name, or "" if unknown.
func Description(name string) string {
	for _, t := range Tools() {
		if t.Name == name {
			return t.Description
		}
	}
	return ""
}
