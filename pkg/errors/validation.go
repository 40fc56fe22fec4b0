package errors

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateBaseName validates the base filename shared by a render's image and
// image-map outputs. It must be a plain name: the renderer writes
// <dir>/<base>.png and <dir>/<base>.map and nothing else.
//
// Validation rules:
//   - Name cannot be empty, "." or ".."
//   - No path separators (either flavor)
//   - No control characters or null bytes
//   - Maximum length of 200 characters
func ValidateBaseName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "base name cannot be empty")
	}

	if len(name) > 200 {
		return New(ErrCodeInvalidPath, "base name too long (max 200 characters)")
	}

	if name == "." || name == ".." {
		return New(ErrCodeInvalidPath, "base name %q is not a file name", name)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "base name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, `/\`) {
		return New(ErrCodeInvalidPath, "base name cannot contain path separators: %q", name)
	}

	return nil
}

// ValidateOutputDir checks that dir names an existing directory and returns
// its absolute form. The renderer may run with a different working directory,
// so relative output paths are never handed to it.
func ValidateOutputDir(dir string) (string, error) {
	if dir == "" {
		return "", New(ErrCodeInvalidPath, "output directory cannot be empty")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", Wrap(ErrCodeInvalidPath, err, "resolve output directory %s", dir)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", New(ErrCodeInvalidPath, "output directory does not exist: %s", abs)
		}
		return "", Wrap(ErrCodeInvalidPath, err, "access output directory %s", abs)
	}

	if !info.IsDir() {
		return "", New(ErrCodeInvalidPath, "output path is not a directory: %s", abs)
	}

	return abs, nil
}
