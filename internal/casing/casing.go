// Package casing converts identifiers between naming conventions. Conversion
// is deterministic and idempotent: converting an already-converted identifier
// to the same style is a no-op.
package casing

import (
	"fmt"
	"strings"
	"unicode"
)

// Style is one of the fixed identifier casing conventions.
type Style string

const (
	// StyleOriginal leaves the identifier untouched. It is the zero-like
	// default when no rename_all attribute applies.
	StyleOriginal       Style = "original"
	StyleCamel          Style = "camelCase"
	StylePascal         Style = "PascalCase"
	StyleSnake          Style = "snake_case"
	StyleScreamingSnake Style = "SCREAMING_SNAKE_CASE"
	StyleKebab          Style = "kebab-case"
)

// ParseStyle maps an attribute value to a Style. The accepted spellings are
// the conventional serialization attribute values.
func ParseStyle(s string) (Style, error) {
	switch s {
	case "original", "":
		return StyleOriginal, nil
	case "camelCase":
		return StyleCamel, nil
	case "PascalCase":
		return StylePascal, nil
	case "snake_case":
		return StyleSnake, nil
	case "SCREAMING_SNAKE_CASE":
		return StyleScreamingSnake, nil
	case "kebab-case":
		return StyleKebab, nil
	}
	return StyleOriginal, fmt.Errorf("unknown casing style %q", s)
}

// Convert renders ident in the given style.
func Convert(ident string, style Style) string {
	if style == StyleOriginal || ident == "" {
		return ident
	}
	words := split(ident)
	if len(words) == 0 {
		return ident
	}
	switch style {
	case StyleCamel:
		parts := make([]string, len(words))
		for i, w := range words {
			if i == 0 {
				parts[i] = strings.ToLower(w)
			} else {
				parts[i] = title(w)
			}
		}
		return strings.Join(parts, "")
	case StylePascal:
		parts := make([]string, len(words))
		for i, w := range words {
			parts[i] = title(w)
		}
		return strings.Join(parts, "")
	case StyleSnake:
		return joinLower(words, "_")
	case StyleScreamingSnake:
		parts := make([]string, len(words))
		for i, w := range words {
			parts[i] = strings.ToUpper(w)
		}
		return strings.Join(parts, "_")
	case StyleKebab:
		return joinLower(words, "-")
	}
	return ident
}

// split breaks an identifier into its constituent words. Boundaries are
// underscores, hyphens, lower-to-upper transitions, digit/letter transitions,
// and the last capital of an acronym run followed by a lowercase letter
// ("HTTPServer" -> "HTTP", "Server").
func split(ident string) []string {
	var words []string
	runes := []rune(ident)
	start := -1

	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '_' || r == '-' || r == ' ' {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := runes[i-1]
		switch {
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			flush(i)
			start = i
		case unicode.IsUpper(r) && i+1 < len(runes) && unicode.IsUpper(prev) && unicode.IsLower(runes[i+1]):
			// End of an acronym run: the last capital starts the next word.
			flush(i)
			start = i
		case unicode.IsDigit(r) != unicode.IsDigit(prev):
			flush(i)
			start = i
		}
	}
	flush(len(runes))
	return words
}

func title(w string) string {
	if w == "" {
		return w
	}
	runes := []rune(strings.ToLower(w))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func joinLower(words []string, sep string) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = strings.ToLower(w)
	}
	return strings.Join(parts, sep)
}
