package codegen

import (
	"fmt"
	"go/parser"
	"go/token"
	"strings"

	"github.com/mardigontoler/gdext/global"
)

const (
	classDirective  = "//godot:class"
	exportDirective = "//godot:export"
)

// AccessorKind says how a property accessor is provided.
type AccessorKind int

const (
	// Omitted accessors are registered as "".
	Omitted AccessorKind = iota
	// Generated accessors are emitted by the generator.
	Generated
	// Custom accessors are methods the user wrote.
	Custom
)

func (k AccessorKind) String() string {
	switch k {
	case Omitted:
		return "omitted"
	case Generated:
		return "generated"
	case Custom:
		return "custom"
	default:
		return fmt.Sprintf("AccessorKind(%d)", int(k))
	}
}

// Accessor is one side of a property. Name is the Go method name for Custom
// accessors.
type Accessor struct {
	Name string
	Kind AccessorKind
}

// Generated reports whether the generator emits the accessor method.
func (a Accessor) Generated() bool { return a.Kind == Generated }

// ExportHint overrides the editor hint of a property. Desc is Go source for a
// string expression.
type ExportHint struct {
	Hint global.HintName
	Desc string
}

// directiveArg is one key[=value] element of a directive line.
type directiveArg struct {
	Key      string
	Value    string
	HasValue bool
}

// splitDirective tokenizes the text after the directive marker. Values may be
// bare tokens, Go string literals or Go expressions; brackets and quotes keep
// embedded spaces together.
func splitDirective(text string) ([]directiveArg, error) {
	var args []directiveArg
	i := 0
	for {
		for i < len(text) && isSpace(text[i]) {
			i++
		}
		if i >= len(text) {
			return args, nil
		}

		start := i
		for i < len(text) && isKeyChar(text[i]) {
			i++
		}
		if start == i {
			return nil, fmt.Errorf("unexpected %q at column %d", text[i], i+1)
		}
		arg := directiveArg{Key: text[start:i]}

		if i < len(text) && text[i] == '=' {
			i++
			end, err := scanValue(text, i)
			if err != nil {
				return nil, fmt.Errorf("key %s: %w", arg.Key, err)
			}
			if end == i {
				return nil, fmt.Errorf("key %s: empty value", arg.Key)
			}
			arg.Value = text[i:end]
			arg.HasValue = true
			i = end
		}
		if i < len(text) && !isSpace(text[i]) {
			return nil, fmt.Errorf("key %s: unexpected %q at column %d", arg.Key, text[i], i+1)
		}
		args = append(args, arg)
	}
}

// scanValue returns the end offset of the value starting at i.
func scanValue(text string, i int) (int, error) {
	depth := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '"' || c == '`' || c == '\'':
			end := closingQuote(text, i)
			if end < 0 {
				return 0, fmt.Errorf("unterminated %c", c)
			}
			i = end + 1
			continue
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
			if depth < 0 {
				return 0, fmt.Errorf("unbalanced %q", c)
			}
		case isSpace(c) && depth == 0:
			return i, nil
		}
		i++
	}
	if depth != 0 {
		return 0, fmt.Errorf("unbalanced brackets")
	}
	return i, nil
}

func closingQuote(text string, open int) int {
	q := text[open]
	for j := open + 1; j < len(text); j++ {
		switch {
		case text[j] == '\\' && q != '`':
			j++
		case text[j] == q:
			return j
		}
	}
	return -1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func isKeyChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// directiveText returns the argument text of comment when it carries the
// given directive.
func directiveText(comment, directive string) (string, bool) {
	rest, ok := strings.CutPrefix(comment, directive)
	if !ok {
		return "", false
	}
	if rest != "" && !isSpace(rest[0]) {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// classOptions is the parsed form of //godot:class.
type classOptions struct {
	Name string
	Base string
}

func parseClassDirective(text string) (classOptions, *keyError) {
	args, err := splitDirective(text)
	if err != nil {
		return classOptions{}, &keyError{err: err}
	}
	var opts classOptions
	seen := make(map[string]bool)
	for _, a := range args {
		if seen[a.Key] {
			return classOptions{}, &keyError{key: a.Key, err: fmt.Errorf("given more than once")}
		}
		seen[a.Key] = true
		switch a.Key {
		case "base", "name":
			if !a.HasValue {
				return classOptions{}, &keyError{key: a.Key, err: fmt.Errorf("requires a value")}
			}
			v, err := stringValue(a.Value)
			if err != nil {
				return classOptions{}, &keyError{key: a.Key, err: err}
			}
			if a.Key == "base" {
				opts.Base = v
			} else {
				opts.Name = v
			}
		default:
			return classOptions{}, &keyError{key: a.Key, err: fmt.Errorf("unknown key")}
		}
	}
	return opts, nil
}

// exportOptions is the parsed form of //godot:export.
type exportOptions struct {
	Getter   Accessor
	Setter   Accessor
	Hint     *ExportHint
	Property string
	// Usage is a Go expression for the usage flags.
	Usage string
}

func parseExportDirective(text string) (exportOptions, *keyError) {
	args, err := splitDirective(text)
	if err != nil {
		return exportOptions{}, &keyError{err: err}
	}

	var opts exportOptions
	var hintName, hintDesc string
	var hasHintDesc bool
	seen := make(map[string]bool)

	for _, a := range args {
		if seen[a.Key] {
			return exportOptions{}, &keyError{key: a.Key, err: fmt.Errorf("given more than once")}
		}
		seen[a.Key] = true

		switch a.Key {
		case "get", "set":
			acc := Accessor{Kind: Generated}
			if a.HasValue {
				if !token.IsIdentifier(a.Value) {
					return exportOptions{}, &keyError{key: a.Key, err: fmt.Errorf("%q is not a method name", a.Value)}
				}
				acc = Accessor{Kind: Custom, Name: a.Value}
			}
			if a.Key == "get" {
				opts.Getter = acc
			} else {
				opts.Setter = acc
			}
		case "hint":
			if !a.HasValue {
				return exportOptions{}, &keyError{key: a.Key, err: fmt.Errorf("requires a value")}
			}
			hintName = a.Value
		case "hint_desc":
			if !a.HasValue {
				return exportOptions{}, &keyError{key: a.Key, err: fmt.Errorf("requires a value")}
			}
			if _, err := parser.ParseExpr(a.Value); err != nil {
				return exportOptions{}, &keyError{key: a.Key, err: fmt.Errorf("not a Go expression: %w", err)}
			}
			hintDesc = a.Value
			hasHintDesc = true
		case "name":
			if !a.HasValue {
				return exportOptions{}, &keyError{key: a.Key, err: fmt.Errorf("requires a value")}
			}
			v, err := stringValue(a.Value)
			if err != nil {
				return exportOptions{}, &keyError{key: a.Key, err: err}
			}
			opts.Property = v
		case "usage":
			if !a.HasValue {
				return exportOptions{}, &keyError{key: a.Key, err: fmt.Errorf("requires a value")}
			}
			expr, err := usageExpr(a.Value)
			if err != nil {
				return exportOptions{}, &keyError{key: a.Key, err: err}
			}
			opts.Usage = expr
		default:
			return exportOptions{}, &keyError{key: a.Key, err: fmt.Errorf("unknown key")}
		}
	}

	switch {
	case hintName != "" && !hasHintDesc:
		return exportOptions{}, &keyError{key: "hint", err: fmt.Errorf("hint requires hint_desc")}
	case hintName == "" && hasHintDesc:
		return exportOptions{}, &keyError{key: "hint_desc", err: fmt.Errorf("hint_desc requires hint")}
	case hintName != "":
		h, ok := global.LookupPropertyHint(hintName)
		if !ok {
			return exportOptions{}, &keyError{key: "hint", err: fmt.Errorf("unknown property hint %q", hintName)}
		}
		opts.Hint = &ExportHint{Hint: h, Desc: hintDesc}
	}

	if opts.Getter.Kind == Omitted && opts.Setter.Kind == Omitted {
		opts.Getter = Accessor{Kind: Generated}
		opts.Setter = Accessor{Kind: Generated}
	}
	if opts.Usage == "" {
		opts.Usage = "global.PropertyUsageDefault"
	}
	return opts, nil
}

// stringValue accepts a bare identifier-like token or a quoted Go string.
func stringValue(v string) (string, error) {
	if v[0] == '"' || v[0] == '`' {
		lit, err := unquote(v)
		if err != nil {
			return "", err
		}
		if lit == "" {
			return "", fmt.Errorf("empty value")
		}
		return lit, nil
	}
	return v, nil
}

// usageExpr turns "PROPERTY_USAGE_A|PROPERTY_USAGE_B" into the matching Go
// constant expression.
func usageExpr(v string) (string, error) {
	if _, ok := global.ParsePropertyUsage(v); !ok {
		return "", fmt.Errorf("unknown property usage %q (accepted: %s)", v, strings.Join(global.UsageNames(), ", "))
	}
	parts := strings.Split(v, "|")
	for i, p := range parts {
		parts[i] = "global.PropertyUsage" + pascalCase(strings.TrimPrefix(strings.TrimSpace(p), "PROPERTY_USAGE_"))
	}
	return strings.Join(parts, " | "), nil
}

// keyError is a directive error before file and field context is known.
type keyError struct {
	err error
	key string
}
