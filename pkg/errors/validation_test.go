package errors

import (
	"strings"
	"testing"
)

func TestValidateSource(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		max      int64
		wantCode Code
	}{
		{"empty", nil, 10, ""},
		{"within limit", []byte("const x = 1;"), 100, ""},
		{"exactly at limit", []byte("12345"), 5, ""},
		{"over limit", []byte("123456"), 5, ErrCodeInputTooLarge},
		{"no limit", []byte(strings.Repeat("a", 1000)), 0, ""},
		{"invalid utf8", []byte{0xff, 0xfe}, 10, ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSource(tt.input, tt.max)
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("ValidateSource() = %v, want nil", err)
				}
				return
			}
			if !Is(err, tt.wantCode) {
				t.Errorf("ValidateSource() = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestValidateFilename(t *testing.T) {
	accept := []string{".js", ".ts"}
	tests := []struct {
		name     string
		input    string
		accept   []string
		wantCode Code
	}{
		{"valid", "app.js", accept, ""},
		{"uppercase extension", "APP.TS", accept, ""},
		{"any extension", "notes.txt", nil, ""},
		{"wrong extension", "main.go", accept, ErrCodeUnsupportedFile},
		{"no extension", "Makefile", accept, ErrCodeUnsupportedFile},
		{"empty", "", accept, ErrCodeInvalidPath},
		{"path separator", "src/app.js", accept, ErrCodeInvalidPath},
		{"backslash", "src\\app.js", accept, ErrCodeInvalidPath},
		{"control char", "app\x01.js", accept, ErrCodeInvalidPath},
		{"too long", strings.Repeat("a", 300) + ".js", accept, ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.input, tt.accept)
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("ValidateFilename(%q) = %v, want nil", tt.input, err)
				}
				return
			}
			if !Is(err, tt.wantCode) {
				t.Errorf("ValidateFilename(%q) = %v, want code %s", tt.input, err, tt.wantCode)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "src/main.js", false},
		{"valid nested", "pkg/internal/util/helpers.ts", false},
		{"valid filename only", "README.md", false},
		{"valid with dots", "v1.2.3/app..js", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute path", "/etc/passwd", true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	allowed := []string{"json", "svg"}
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"json", false},
		{"svg", false},
		{"", true},
		{"SVG", true},
		{"gif", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateFormat(tt.input, allowed)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidFormat) {
				t.Errorf("ValidateFormat(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateTitle(t *testing.T) {
	if err := ValidateTitle("My diagram"); err != nil {
		t.Errorf("ValidateTitle() = %v, want nil", err)
	}
	if err := ValidateTitle(""); err != nil {
		t.Errorf("ValidateTitle(empty) = %v, want nil", err)
	}
	if err := ValidateTitle(strings.Repeat("é", 201)); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("ValidateTitle(long) = %v, want INVALID_INPUT", err)
	}
	if err := ValidateTitle("a\tb"); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("ValidateTitle(tab) = %v, want INVALID_INPUT", err)
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInputTooLarge,
		ErrCodeUnsupportedFile,
		ErrCodeInvalidFormat,
		ErrCodeInvalidPath,
		ErrCodeNotFound,
		ErrCodeExampleNotFound,
		ErrCodeFileNotFound,
		ErrCodeInternal,
		ErrCodeUnsupported,
		ErrCodeUnavailable,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
