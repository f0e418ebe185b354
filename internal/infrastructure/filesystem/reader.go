package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	domainErrors "github.com/jbctechsolutions/gtc/internal/domain/errors"
)

// ReadText reads the whole file at path as UTF-8 text.
// Errors wrap ErrFileNotFound, ErrPermissionDenied, ErrIsDirectory,
// ErrDecode or, for anything else, ErrFileRead.
func ReadText(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", classify(path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s", domainErrors.ErrIsDirectory, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", classify(path, err)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", domainErrors.ErrDecode, path)
	}

	return string(data), nil
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", domainErrors.ErrFileNotFound, path)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", domainErrors.ErrPermissionDenied, path)
	default:
		return fmt.Errorf("%w: reading %s: %v", domainErrors.ErrFileRead, path, err)
	}
}
