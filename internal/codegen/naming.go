package codegen

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// snakeCase converts a Go identifier to the host's snake_case spelling:
// Health -> health, MaxHP -> max_hp, HTTPServer -> http_server.
func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// pascalCase converts an upper snake name (READ_ONLY) to ReadOnly.
func pascalCase(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(strings.ToLower(name), "_") {
		if part == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(part[size:])
	}
	return b.String()
}

// exportedName upper-cases the first letter of a field name.
func exportedName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

// receiverName picks a short receiver for generated methods.
func receiverName(typeName string) string {
	r, _ := utf8.DecodeRuneInString(typeName)
	name := string(unicode.ToLower(r))
	if name == "b" || name == "_" {
		return "x"
	}
	return name
}

func unquote(lit string) (string, error) {
	return strconv.Unquote(lit)
}
