package bootstrap

import (
	"fmt"
	"strings"
)

const (
	// PlaceholderVersion is the one placeholder every URL pattern must contain.
	PlaceholderVersion = "version"
	// PlaceholderMin is replaced by the minification suffix (".min" or "").
	PlaceholderMin = "min"
)

// TemplateError reports a URL pattern that cannot be formatted.
type TemplateError struct {
	Pattern string
	Reason  string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("invalid url pattern %q: %s", e.Pattern, e.Reason)
}

// Format substitutes every {name} placeholder in pattern with values[name].
//
// The pattern must contain exactly one {version} placeholder, every brace must
// belong to a well-formed placeholder and every placeholder must have a value.
// Nothing else is checked: a pattern that is structurally valid but not a
// usable URL produces an unusable URL.
func Format(pattern string, values map[string]string) (string, error) {
	placeholder := "{" + PlaceholderVersion + "}"
	switch n := strings.Count(pattern, placeholder); {
	case n == 0:
		return "", &TemplateError{Pattern: pattern, Reason: "missing " + placeholder + " placeholder"}
	case n > 1:
		return "", &TemplateError{Pattern: pattern, Reason: fmt.Sprintf("%s appears %d times", placeholder, n)}
	}

	var builder strings.Builder
	builder.Grow(len(pattern))
	rest := pattern
	for {
		i := strings.IndexAny(rest, "{}")
		if i < 0 {
			builder.WriteString(rest)
			break
		}
		if rest[i] == '}' {
			return "", &TemplateError{Pattern: pattern, Reason: "unmatched '}'"}
		}
		end := strings.IndexByte(rest[i+1:], '}')
		if end < 0 {
			return "", &TemplateError{Pattern: pattern, Reason: "unmatched '{'"}
		}
		name := rest[i+1 : i+1+end]
		if strings.Contains(name, "{") {
			return "", &TemplateError{Pattern: pattern, Reason: "nested '{'"}
		}
		value, ok := values[name]
		if !ok {
			return "", &TemplateError{Pattern: pattern, Reason: fmt.Sprintf("unknown placeholder {%s}", name)}
		}
		builder.WriteString(rest[:i])
		builder.WriteString(value)
		rest = rest[i+end+2:]
	}
	return builder.String(), nil
}

// FormatVersion formats a pattern that may only reference {version}.
func FormatVersion(pattern, version string) (string, error) {
	return Format(pattern, map[string]string{PlaceholderVersion: version})
}

// ValidatePattern applies the rule for persisted library entries: exactly one
// '{', one '}' and one {version}.
func ValidatePattern(pattern string) error {
	_, err := FormatVersion(pattern, "0")
	return err
}
