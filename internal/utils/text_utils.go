package utils

import (
	"strings"
	"unicode/utf8"
)

// Truncate safely truncates text to the specified maximum byte size while
// keeping the result valid UTF-8. A maxSize of zero or less disables
// truncation.
func Truncate(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated
}

// SanitizeUTF8 replaces invalid UTF-8 sequences so the result is always a
// valid UTF-8 string. Postgres rejects text columns containing invalid
// sequences, so bodies pass through here before persistence.
func SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}
	return strings.ToValidUTF8(text, "")
}

// Preview returns a short, single-line excerpt of text suitable for log
// fields.
func Preview(text string, maxSize int) string {
	excerpt := Truncate(text, maxSize)
	excerpt = strings.ReplaceAll(excerpt, "\n", " ")
	return strings.TrimSpace(excerpt)
}
