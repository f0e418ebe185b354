package count

// FileResult is the outcome of counting a single file.
type FileResult struct {
	Path       string `json:"file_path"`
	Tokens     int    `json:"tokens"`
	Characters int    `json:"characters,omitempty"`
	Err        error  `json:"-"`
}

// OK reports whether the file was counted successfully.
func (r FileResult) OK() bool {
	return r.Err == nil
}

// ErrorMessage returns the error text, or "" for a successful result.
func (r FileResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Report aggregates the results of one count invocation. Files are kept in
// the order their arguments were given.
type Report struct {
	Model    string       `json:"model,omitempty"`
	Encoding string       `json:"encoding"`
	Files    []FileResult `json:"files"`
}

// Succeeded returns the successfully counted files in order.
func (r *Report) Succeeded() []FileResult {
	out := make([]FileResult, 0, len(r.Files))
	for _, f := range r.Files {
		if f.OK() {
			out = append(out, f)
		}
	}
	return out
}

// Failed returns the files that could not be counted, in order.
func (r *Report) Failed() []FileResult {
	out := make([]FileResult, 0)
	for _, f := range r.Files {
		if !f.OK() {
			out = append(out, f)
		}
	}
	return out
}

// TotalTokens sums the token counts of successful files.
func (r *Report) TotalTokens() int {
	total := 0
	for _, f := range r.Files {
		if f.OK() {
			total += f.Tokens
		}
	}
	return total
}

// FailedCount returns the number of files that could not be counted.
func (r *Report) FailedCount() int {
	n := 0
	for _, f := range r.Files {
		if !f.OK() {
			n++
		}
	}
	return n
}

// HasFailures reports whether any file failed.
func (r *Report) HasFailures() bool {
	return r.FailedCount() > 0
}

// TextResult is the outcome of counting an in-memory string.
type TextResult struct {
	Tokens     int    `json:"tokens"`
	Characters int    `json:"characters"`
	Model      string `json:"model,omitempty"`
	Encoding   string `json:"encoding"`
}
