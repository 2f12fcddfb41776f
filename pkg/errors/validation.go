package errors

import (
	"strings"
	"unicode"
)

// ValidateOutputPath validates a user-supplied output path for safety.
// It prevents null bytes, control characters, and unreasonable lengths;
// relative and absolute paths are both allowed since the CLI writes wherever
// the user points it.
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

// ValidateRunID validates a run identifier before it reaches the store.
// Run IDs are UUID strings; anything with path separators or control
// characters is rejected outright so malformed IDs never become queries.
func ValidateRunID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "run id cannot be empty")
	}
	if len(id) > 64 {
		return New(ErrCodeInvalidInput, "run id too long")
	}
	if strings.ContainsAny(id, "/\\\x00") {
		return New(ErrCodeInvalidInput, "run id contains invalid characters")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "run id contains invalid characters")
		}
	}
	return nil
}
