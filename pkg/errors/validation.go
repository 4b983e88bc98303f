package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds node names so labels stay renderable.
const maxNameLength = 256

// ValidateNodeName checks that a node name can serve as a lookup key and a label.
//
// The rules are:
//   - No empty or whitespace-only names
//   - No control characters (they cannot be painted)
//   - Maximum length of 256 bytes
func ValidateNodeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "node name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "node name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node name %q contains control characters", name)
		}
	}

	return nil
}

// ValidateOutputPath validates a file path an artifact will be written to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
