// Package serializers holds the request and response shapes of the API
// together with their field-level validation rules.
package serializers

import (
	"html"
	"strings"
)

// ValidationErrors maps field names to human-readable messages.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for field, msg := range v {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

// OrNil returns nil when no field failed, so callers can write
// `if errs := req.Validate(); errs != nil`.
func (v ValidationErrors) OrNil() ValidationErrors {
	if len(v) == 0 {
		return nil
	}
	return v
}

// sanitize trims surrounding whitespace and escapes HTML metacharacters
// so stored text is inert when echoed back to a browser.
func sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

// digitsOnly strips everything but ASCII digits.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
