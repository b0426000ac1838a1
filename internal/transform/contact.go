package transform

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

const (
	linkedInPrefix = "linkedin.com/in/"
	gitHubPrefix   = "github.com/"
)

// socialUsername strips everything up to and including the known domain prefix
// and any trailing slashes: "https://www.linkedin.com/in/ada/" -> "ada".
func socialUsername(value, prefix string) string {
	value = strings.TrimSpace(value)
	if i := strings.Index(strings.ToLower(value), prefix); i >= 0 {
		value = value[i+len(prefix):]
	}
	return strings.Trim(value, "/")
}

// profileURL returns an https URL for a social handle or URL.
func profileURL(value, prefix string) string {
	user := socialUsername(value, prefix)
	if user == "" {
		return ""
	}
	return "https://" + prefix + user
}

// websiteURL adds an https scheme when the value has none.
func websiteURL(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	lower := strings.ToLower(value)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return value
	}
	return "https://" + value
}

// validEmail reports whether value is a syntactically valid address.
func validEmail(value string) bool {
	return value != "" && validate.Var(value, "required,email") == nil
}

// internationalPhone returns "+<digits>" for numbers written with an explicit
// country code, and "" for anything else.
func internationalPhone(value string) string {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "+") {
		return ""
	}
	var b strings.Builder
	b.WriteByte('+')
	for _, r := range value[1:] {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return ""
		}
	}
	if b.Len() < 8 {
		return ""
	}
	return b.String()
}

// splitName splits a full name into first name and the rest.
func splitName(name string) (first, last string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
