package mcp

// FileCountResult is the count_tokens payload for a counted file.
type FileCountResult struct {
	FilePath string `json:"file_path"`
	Tokens   int    `json:"tokens"`
	Model    string `json:"model"`
	Encoding string `json:"encoding"`
}

// FileErrorResult is the count_tokens payload when the file or the model
// could not be processed.
type FileErrorResult struct {
	Error    string `json:"error"`
	FilePath string `json:"file_path"`
	Tokens   int    `json:"tokens"`
}

// FileTokens is one entry of a multi-file result.
type FileTokens struct {
	FilePath string `json:"file_path"`
	Tokens   int    `json:"tokens"`
}

// MultiCountResult is the count_tokens_multi payload. Errors holds one
// message per file that could not be counted.
type MultiCountResult struct {
	Files       []FileTokens `json:"files"`
	TotalTokens int          `json:"total_tokens"`
	FileCount   int          `json:"file_count"`
	Model       string       `json:"model"`
	Encoding    string       `json:"encoding"`
	Errors      []string     `json:"errors"`
}

// TextCountResult is the count_text_tokens payload.
type TextCountResult struct {
	Tokens     int    `json:"tokens"`
	Characters int    `json:"characters"`
	Model      string `json:"model"`
	Encoding   string `json:"encoding"`
}

// EncodingEntry describes one encoding in list_encodings.
type EncodingEntry struct {
	Name      string `json:"name"`
	VocabSize int    `json:"vocab_size"`
}

// EncodingsResult is the list_encodings payload.
type EncodingsResult struct {
	Encodings     []EncodingEntry   `json:"encodings"`
	ModelMappings map[string]string `json:"model_mappings"`
	DefaultModel  string            `json:"default_model"`
}

// ErrorResult is the payload for a tool call that failed as a whole.
type ErrorResult struct {
	Error string `json:"error"`
}
