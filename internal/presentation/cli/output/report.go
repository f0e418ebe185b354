package output

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/jbctechsolutions/gtc/internal/application/counting"
	"github.com/jbctechsolutions/gtc/internal/domain/count"
	"github.com/jbctechsolutions/gtc/internal/domain/encoding"
)

const (
	// maxPathWidth caps the path column; longer paths keep their tail.
	maxPathWidth = 60
	countWidth   = 12
	headerRule   = 50
)

// ReportJSON is the JSON form of a count report.
type ReportJSON struct {
	Model       string     `json:"model,omitempty"`
	Encoding    string     `json:"encoding"`
	Files       []FileJSON `json:"files"`
	TotalTokens int        `json:"total_tokens"`
	FileCount   int        `json:"file_count"`
	Errors      []string   `json:"errors,omitempty"`
}

// FileJSON is one counted file in ReportJSON.
type FileJSON struct {
	FilePath   string `json:"file_path"`
	Tokens     int    `json:"tokens"`
	Characters int    `json:"characters"`
}

// EncodingsJSON is the JSON form of --list-encodings.
type EncodingsJSON struct {
	Encodings     []EncodingJSON    `json:"encodings"`
	ModelMappings map[string]string `json:"model_mappings"`
	DefaultModel  string            `json:"default_model"`
}

// EncodingJSON is one encoding in EncodingsJSON.
type EncodingJSON struct {
	Name      string `json:"name"`
	VocabSize int    `json:"vocab_size"`
}

// Report renders a count report. Successful files go to the output
// writer; per-file errors go to the error writer after them.
func (f *Formatter) Report(report *count.Report) error {
	if f.Format() == FormatJSON {
		return f.JSON(NewReportJSON(report))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.verbose {
		if err := f.writeHeader(report.Encoding); err != nil {
			return err
		}
	}

	if err := f.writeCounts(report.Succeeded(), report.TotalTokens()); err != nil {
		return err
	}

	return f.writeErrors(report.Failed())
}

func (f *Formatter) writeHeader(encodingName string) error {
	fmt.Fprintf(f.writer, "Using encoding: %s\n", encodingName)
	if info, ok := encoding.Lookup(encodingName); ok {
		fmt.Fprintf(f.writer, "Vocabulary size: %s\n", humanize.Comma(int64(info.VocabSize)))
	}
	_, err := fmt.Fprintln(f.writer, strings.Repeat("-", headerRule))
	return err
}

func (f *Formatter) writeCounts(files []count.FileResult, total int) error {
	if len(files) == 0 {
		return nil
	}

	width := 0
	for _, r := range files {
		width = max(width, utf8.RuneCountInString(r.Path))
	}
	width = min(width, maxPathWidth)

	for _, r := range files {
		line := fmt.Sprintf("%-*s  %*s tokens", width, TruncatePath(r.Path), countWidth, humanize.Comma(int64(r.Tokens)))
		if f.verbose {
			line += fmt.Sprintf("  (%s chars)", humanize.Comma(int64(r.Characters)))
		}
		if _, err := fmt.Fprintln(f.writer, line); err != nil {
			return err
		}
	}

	if len(files) > 1 {
		fmt.Fprintln(f.writer, strings.Repeat("-", width+14))
		label := f.Colorize(fmt.Sprintf("%-*s", width, "Total"), ColorBold)
		if _, err := fmt.Fprintf(f.writer, "%s  %*s tokens\n", label, countWidth, humanize.Comma(int64(total))); err != nil {
			return err
		}
	}

	return nil
}

func (f *Formatter) writeErrors(failed []count.FileResult) error {
	if len(failed) == 0 {
		return nil
	}

	fmt.Fprintf(f.errWriter, "\n%s\n", f.colorizeErr("Errors:", ColorRed))
	for _, r := range failed {
		if _, err := fmt.Fprintf(f.errWriter, "  %s\n", r.ErrorMessage()); err != nil {
			return err
		}
	}
	return nil
}

// Encodings renders the encoding catalog and the model table.
func (f *Formatter) Encodings(catalog counting.Catalog) error {
	if f.Format() == FormatJSON {
		return f.JSON(NewEncodingsJSON(catalog))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	fmt.Fprintln(f.writer, "Available encodings:")
	for _, info := range catalog.Encodings {
		fmt.Fprintf(f.writer, "  %s: vocab_size=%s\n", info.Name, humanize.Comma(int64(info.VocabSize)))
	}

	fmt.Fprintln(f.writer, "\nModel to encoding mapping:")
	for _, m := range catalog.Models {
		suffix := ""
		if m.Model == catalog.DefaultModel {
			suffix = f.Colorize(" (default)", ColorDim)
		}
		if _, err := fmt.Fprintf(f.writer, "  %s -> %s%s\n", m.Model, m.Encoding, suffix); err != nil {
			return err
		}
	}
	return nil
}

// Fatal writes a fatal error and a hint to the error writer.
func (f *Formatter) Fatal(err error, hint string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fmt.Fprintf(f.errWriter, "%s %v\n", f.colorizeErr("Error:", ColorRed), err)
	if hint != "" {
		fmt.Fprintln(f.errWriter, hint)
	}
}

// TruncatePath shortens paths longer than the path column to "..." plus
// their last 57 characters. Widths count runes, matching fmt padding.
func TruncatePath(path string) string {
	runes := []rune(path)
	if len(runes) <= maxPathWidth {
		return path
	}
	return "..." + string(runes[len(runes)-(maxPathWidth-3):])
}

// NewReportJSON converts a report to its JSON form.
func NewReportJSON(report *count.Report) ReportJSON {
	out := ReportJSON{
		Model:       report.Model,
		Encoding:    report.Encoding,
		Files:       make([]FileJSON, 0, len(report.Files)),
		TotalTokens: report.TotalTokens(),
	}
	for _, r := range report.Files {
		if !r.OK() {
			out.Errors = append(out.Errors, r.ErrorMessage())
			continue
		}
		out.Files = append(out.Files, FileJSON{FilePath: r.Path, Tokens: r.Tokens, Characters: r.Characters})
	}
	out.FileCount = len(out.Files)
	return out
}

// NewEncodingsJSON converts a catalog to its JSON form.
func NewEncodingsJSON(catalog counting.Catalog) EncodingsJSON {
	out := EncodingsJSON{
		Encodings:     make([]EncodingJSON, 0, len(catalog.Encodings)),
		ModelMappings: catalog.ModelMappings,
		DefaultModel:  catalog.DefaultModel,
	}
	for _, info := range catalog.Encodings {
		out.Encodings = append(out.Encodings, EncodingJSON{Name: info.Name, VocabSize: info.VocabSize})
	}
	return out
}
