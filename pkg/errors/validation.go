package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxDimension bounds each side of a requested image. It keeps a single
// request below roughly 200 MB of canvas memory.
const MaxDimension = 8192

// ValidateSize checks that a requested image size is renderable.
func ValidateSize(width, height int) error {
	if width < 1 || height < 1 {
		return New(ErrCodeInvalidSize, "image size must be at least 1x1, got %dx%d", width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return New(ErrCodeInvalidSize, "image size %dx%d exceeds %d pixels per side", width, height, MaxDimension)
	}
	return nil
}

// ValidateOutputPath validates an output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid control characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "output path %q names a directory", path)
	}

	return nil
}
