package errors

import (
	"path/filepath"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidateSource checks pasted or uploaded source text against a size
// ceiling. A maxBytes of zero or less disables the ceiling.
//
// Empty input is valid: extraction turns it into the placeholder graph.
func ValidateSource(code []byte, maxBytes int64) error {
	if maxBytes > 0 && int64(len(code)) > maxBytes {
		return New(ErrCodeInputTooLarge, "source is %d bytes (max %d)", len(code), maxBytes)
	}
	if !utf8.Valid(code) {
		return New(ErrCodeInvalidInput, "source is not valid UTF-8 text")
	}
	return nil
}

// ValidateFilename validates an uploaded filename for safety and checks its
// extension against an accept list. An empty accept list allows any extension.
//
// Validation rules:
//   - Filename cannot be empty
//   - Maximum length of 255 characters
//   - No control characters or path separators
//   - Extension (case-insensitive) must be in accept
func ValidateFilename(name string, accept []string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}
	if len(name) > 255 {
		return New(ErrCodeInvalidPath, "filename too long (max 255 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "filename contains invalid characters")
		}
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators")
	}
	if len(accept) == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !slices.Contains(accept, ext) {
		return New(ErrCodeUnsupportedFile, "unsupported file type %q (accepted: %s)", ext, strings.Join(accept, ", "))
	}
	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal when writing batch output next to inputs.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateFormat checks that format is one of allowed.
func ValidateFormat(format string, allowed []string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(allowed, format) {
		return New(ErrCodeInvalidFormat, "invalid format %q (allowed: %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}

// ValidateTitle checks a saved diagram title.
func ValidateTitle(title string) error {
	const maxTitleLength = 200
	if utf8.RuneCountInString(title) > maxTitleLength {
		return New(ErrCodeInvalidInput, "title too long (max %d characters)", maxTitleLength)
	}
	for _, r := range title {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "title contains invalid control characters")
		}
	}
	return nil
}
