package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxTermLength bounds the size of term source accepted from users.
const MaxTermLength = 64 << 10

// ValidateTermSource validates raw term source before it reaches the parser.
//
// The validation rules are intentionally conservative:
//   - No empty input
//   - No control characters other than whitespace
//   - Maximum length of MaxTermLength bytes
func ValidateTermSource(src string) error {
	if strings.TrimSpace(src) == "" {
		return New(ErrCodeInvalidInput, "term cannot be empty")
	}

	if len(src) > MaxTermLength {
		return New(ErrCodeInvalidInput, "term too long (max %d bytes)", MaxTermLength)
	}

	for _, r := range src {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "term contains invalid control characters")
		}
	}

	return nil
}

// macroNameRegex matches names usable as macros in term source.
var macroNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_']*$`)

// ValidateMacroName validates a macro name. Names must be identifiers the
// parser can recognize and at most 64 characters long.
func ValidateMacroName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidMacro, "macro name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidMacro, "macro name too long (max 64 characters)")
	}

	if !macroNameRegex.MatchString(name) {
		return New(ErrCodeInvalidMacro, "invalid macro name: %q", name)
	}

	return nil
}

// ValidatePath validates an output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
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

	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}
