package config

import (
	"strings"
	"unicode"
)

// ToCamelCase normalizes a server name from dash-case, snake_case, or
// PascalCase to camelCase, the canonical key form in the servers map.
func ToCamelCase(s string) string {
	if s == "" {
		return s
	}

	words := splitWords(s)
	if len(words) == 0 {
		return s
	}

	var result strings.Builder
	for i, word := range words {
		if word == "" {
			continue
		}
		lower := strings.ToLower(word)
		if i == 0 {
			result.WriteString(lower)
		} else {
			result.WriteString(strings.ToUpper(lower[:1]) + lower[1:])
		}
	}

	return result.String()
}

// splitWords splits on separators and lowercase-to-uppercase transitions.
func splitWords(s string) []string {
	var words []string
	var current strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '-' || r == '_' || r == ' ':
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		case unicode.IsUpper(r):
			if i > 0 && current.Len() > 0 && unicode.IsLower(runes[i-1]) {
				words = append(words, current.String())
				current.Reset()
			}
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

// ToEnvVarCase converts a key to SCREAMING_SNAKE_CASE.
func ToEnvVarCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word)
	}
	return strings.Join(words, "_")
}

// NormalizeEnvVars rewrites all env keys to SCREAMING_SNAKE_CASE so configs
// written with camelCase or dash-case keys still work.
func NormalizeEnvVars(env map[string]string) map[string]string {
	if env == nil {
		return nil
	}

	normalized := make(map[string]string, len(env))
	for key, value := range env {
		normalized[ToEnvVarCase(key)] = value
	}
	return normalized
}
