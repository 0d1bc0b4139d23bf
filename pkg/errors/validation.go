package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// hexColorRegex matches #RGB and #RRGGBB colours.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor validates a series colour such as "#1f77b4".
func ValidateHexColor(color string) error {
	if color == "" {
		return New(ErrCodeInvalidDataset, "color cannot be empty")
	}
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidDataset, "invalid hex color: %q", color)
	}
	return nil
}

// ValidateTitle validates a chart title for use in filenames and headers.
//
// The validation rules are intentionally conservative:
//   - No control characters
//   - Maximum length of 200 characters
func ValidateTitle(title string) error {
	if len([]rune(title)) > 200 {
		return New(ErrCodeInvalidInput, "title too long (max 200 characters)")
	}
	for _, r := range title {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "title contains invalid control characters")
		}
	}
	return nil
}

// ValidateOutputDir validates an output directory given on the command line
// or in a request. It rejects path traversal and null bytes.
func ValidateOutputDir(dir string) error {
	if dir == "" {
		return nil
	}
	if strings.Contains(dir, "\x00") {
		return New(ErrCodeInvalidInput, "output directory contains invalid characters")
	}
	for _, part := range strings.Split(strings.ReplaceAll(dir, "\\", "/"), "/") {
		if part == ".." {
			return New(ErrCodeInvalidInput, "output directory cannot contain path traversal sequences (..)")
		}
	}
	return nil
}
