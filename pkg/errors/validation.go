package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds identifiers such as component names and node ids.
const maxNameLength = 256

// ValidateName validates an identifier used as a lookup key (component
// names, node ids, phase and task names). what names the field in messages.
//
// The rules:
//   - No empty or whitespace-only names
//   - No control characters
//   - Maximum length of 256 bytes
func ValidateName(what, name string) error {
	if strings.TrimSpace(name) == "" {
		return Malformed("%s cannot be empty", what)
	}

	if len(name) > maxNameLength {
		return Malformed("%s too long (max %d characters)", what, maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return Malformed("%s %q contains control characters", what, name)
		}
	}

	return nil
}

// ValidatePath validates an output path supplied by a caller.
// It rejects empty paths, null bytes and control characters.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidFormat, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidFormat, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidFormat, "path contains invalid characters")
		}
	}

	return nil
}
