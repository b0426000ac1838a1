package rendering

import "strings"

// EscapeTypst prepares text for a Typst string literal. Backslashes are doubled
// first, then double quotes are backslash-escaped. The result is not idempotent:
// escaping twice escapes the inserted backslashes again.
func EscapeTypst(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) + len(text)/4)

	for _, r := range text {
		switch r {
		case '\\':
			result.WriteString(`\\`)
		case '"':
			result.WriteString(`\"`)
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}
