package cli

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxValueSize bounds a single --set value.
const maxValueSize = 4096

var (
	ErrValueTooLarge = errors.New("value exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("value contains invalid UTF-8 sequences")
)

// sanitizeValue rejects oversized or non UTF-8 values and strips control
// characters other than newline, tab and carriage return.
func sanitizeValue(value string) (string, error) {
	if len(value) > maxValueSize {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrValueTooLarge, len(value), maxValueSize)
	}
	if !utf8.ValidString(value) {
		return "", ErrInvalidUTF8
	}

	// Fast path: if no control chars, return as is.
	if strings.IndexFunc(value, isUnsafeControl) < 0 {
		return value, nil
	}

	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if !isUnsafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isUnsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}
