// Package filesystem provides the read-only filesystem operations used by
// the counter: expanding path and glob arguments and reading text files.
package filesystem

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	domainErrors "github.com/jbctechsolutions/gtc/internal/domain/errors"
)

// globMeta holds the characters that mark an argument as a glob pattern.
const globMeta = "*?[{"

// Entry is one element of an expanded argument list. Err is set when a
// glob pattern could not produce any file.
type Entry struct {
	Path    string
	Pattern string
	Err     error
}

// IsPattern reports whether arg contains glob metacharacters.
func IsPattern(arg string) bool {
	return strings.ContainsAny(arg, globMeta)
}

// IsLiteral reports whether arg names a path as written. Arguments without
// glob metacharacters are literal, and so is any existing path, so names
// like "pages/[id].tsx" are not expanded.
func IsLiteral(arg string) bool {
	if !IsPattern(arg) {
		return true
	}
	_, err := os.Lstat(arg)
	return err == nil
}

// Expand turns path and glob arguments into an ordered file list.
//
// Literal arguments are passed through unchanged, even when the file does
// not exist, so the read step can report them. Patterns support "**" and
// only contribute regular files; a pattern that matches only directories
// records one "skipping directory" entry per directory. Duplicate paths
// keep their first position. Expand fails with ErrNoMatchingFiles when no
// argument yields a file.
func Expand(args []string) ([]Entry, error) {
	if len(args) == 0 {
		return nil, domainErrors.NewError(domainErrors.CodeValidation, "no files specified: provide file path(s) or use --list-encodings", domainErrors.ErrNoFiles)
	}

	entries := make([]Entry, 0, len(args))
	seen := make(map[string]bool)
	resolved := 0
	var skipped []string

	for _, arg := range args {
		if IsLiteral(arg) {
			if seen[arg] {
				continue
			}
			seen[arg] = true
			entries = append(entries, Entry{Path: arg})
			resolved++
			continue
		}

		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			entries = append(entries, Entry{Pattern: arg, Err: fmt.Errorf("invalid pattern %s: %w", arg, err)})
			continue
		}

		files := 0
		var dirs []string
		for _, m := range matches {
			info, statErr := os.Stat(m)
			if statErr != nil {
				continue
			}
			if info.IsDir() {
				dirs = append(dirs, m)
				continue
			}
			files++
			if seen[m] {
				continue
			}
			seen[m] = true
			entries = append(entries, Entry{Path: m, Pattern: arg})
			resolved++
		}

		switch {
		case files > 0:
		case len(dirs) > 0:
			for _, d := range dirs {
				entries = append(entries, Entry{Path: d, Pattern: arg, Err: fmt.Errorf("%w: skipping directory: %s", domainErrors.ErrIsDirectory, d)})
			}
			skipped = append(skipped, dirs...)
		default:
			entries = append(entries, Entry{Pattern: arg, Err: fmt.Errorf("no files match pattern: %s", arg)})
		}
	}

	if resolved == 0 {
		msg := fmt.Sprintf("no files match %s", strings.Join(args, " "))
		if len(skipped) > 0 {
			msg += fmt.Sprintf(" (skipped directories: %s)", strings.Join(skipped, ", "))
		}
		return nil, domainErrors.WithContext(
			domainErrors.NewError(domainErrors.CodeNotFound, msg, domainErrors.ErrNoMatchingFiles),
			"patterns", args)
	}

	return entries, nil
}
