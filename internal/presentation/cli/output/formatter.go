// Package output provides CLI output formatting utilities.
// It renders count reports and encoding listings as text or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Format represents the output format type.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Color represents ANSI color codes for terminal output.
type Color string

const (
	ColorReset Color = "\033[0m"
	ColorRed   Color = "\033[31m"
	ColorBold  Color = "\033[1m"
	ColorDim   Color = "\033[2m"
)

// Formatter writes results to stdout and diagnostics to stderr.
type Formatter struct {
	mu           sync.Mutex
	writer       io.Writer
	errWriter    io.Writer
	format       Format
	colorEnabled bool
	errColor     bool
	verbose      bool
	indent       string
}

// Option is a functional option for configuring a Formatter.
type Option func(*Formatter)

// NewFormatter creates a new Formatter with the given options.
func NewFormatter(opts ...Option) *Formatter {
	f := &Formatter{
		writer:    os.Stdout,
		errWriter: os.Stderr,
		format:    FormatText,
		indent:    "  ",
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// WithWriter sets the output writer.
func WithWriter(w io.Writer) Option {
	return func(f *Formatter) {
		f.writer = w
	}
}

// WithErrWriter sets the writer for per-file errors.
func WithErrWriter(w io.Writer) Option {
	return func(f *Formatter) {
		f.errWriter = w
	}
}

// WithFormat sets the output format.
func WithFormat(format Format) Option {
	return func(f *Formatter) {
		f.format = format
	}
}

// WithColor enables or disables colored output on the output writer.
func WithColor(enabled bool) Option {
	return func(f *Formatter) {
		f.colorEnabled = enabled
	}
}

// WithErrColor enables or disables colored output on the error writer.
func WithErrColor(enabled bool) Option {
	return func(f *Formatter) {
		f.errColor = enabled
	}
}

// WithVerbose adds encoding details and character counts to text output.
func WithVerbose(verbose bool) Option {
	return func(f *Formatter) {
		f.verbose = verbose
	}
}

// Format returns the current output format.
func (f *Formatter) Format() Format {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.format
}

// Println writes formatted output with a newline.
func (f *Formatter) Println(format string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, err := fmt.Fprintf(f.writer, format+"\n", args...)
	return err
}

// Colorize wraps text bound for the output writer with ANSI color codes
// if color is enabled there.
func (f *Formatter) Colorize(text string, color Color) string {
	return colorize(f.colorEnabled, text, color)
}

func (f *Formatter) colorizeErr(text string, color Color) string {
	return colorize(f.errColor, text, color)
}

func colorize(enabled bool, text string, color Color) string {
	if !enabled {
		return text
	}
	return string(color) + text + string(ColorReset)
}

// JSON writes data as formatted JSON.
func (f *Formatter) JSON(data any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", f.indent)
	return encoder.Encode(data)
}

// ParseFormat parses a string into a Format type.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "text", "":
		return FormatText, nil
	default:
		return FormatText, fmt.Errorf("unknown output format: %s (use text or json)", s)
	}
}
