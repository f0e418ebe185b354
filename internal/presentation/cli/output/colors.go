package output

import (
	"io"
	"os"
)

// IsColorSupported reports whether ANSI colors should be written to f.
// NO_COLOR disables colors, FORCE_COLOR enables them, otherwise f must be
// a terminal with a usable TERM.
func IsColorSupported(f *os.File) bool {
	// See https://no-color.org/
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}

	if _, exists := os.LookupEnv("FORCE_COLOR"); exists {
		return true
	}

	if f == nil {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	if stat.Mode()&os.ModeCharDevice == 0 {
		return false
	}

	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

// ColorFor reports whether ANSI colors should be written to w. Only
// terminals qualify, so redirected output stays plain.
func ColorFor(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && IsColorSupported(f)
}
