package codegen

// FieldExport describes one exported struct field.
type FieldExport struct {
	// Field is the Go field name.
	Field string
	// Type is the field's type expression as written in the source.
	Type string
	// Property is the host property name.
	Property string
	Getter   Accessor
	Setter   Accessor
	Hint     *ExportHint
	// Usage is a Go expression for the usage flags.
	Usage string
	Line  int
}

// GetterMethod is the Go method name of the getter, or "" when omitted.
func (f FieldExport) GetterMethod() string {
	switch f.Getter.Kind {
	case Generated:
		return "Get" + exportedName(f.Field)
	case Custom:
		return f.Getter.Name
	default:
		return ""
	}
}

// SetterMethod is the Go method name of the setter, or "" when omitted.
func (f FieldExport) SetterMethod() string {
	switch f.Setter.Kind {
	case Generated:
		return "Set" + exportedName(f.Field)
	case Custom:
		return f.Setter.Name
	default:
		return ""
	}
}

// GetterName is the name the getter is registered under with the host.
func (f FieldExport) GetterName() string {
	switch f.Getter.Kind {
	case Generated:
		return "get_" + f.Property
	case Custom:
		return snakeCase(f.Getter.Name)
	default:
		return ""
	}
}

// SetterName is the name the setter is registered under with the host.
func (f FieldExport) SetterName() string {
	switch f.Setter.Kind {
	case Generated:
		return "set_" + f.Property
	case Custom:
		return snakeCase(f.Setter.Name)
	default:
		return ""
	}
}

// ClassDecl is a struct type that takes part in registration.
type ClassDecl struct {
	// TypeName is the Go type name.
	TypeName string
	// ClassName is the host class name, set when the struct carries a
	// //godot:class directive.
	ClassName string
	Base      string
	File      string
	Fields    []FieldExport
	// HasClassDirective reports whether ClassName/BaseClassName are generated.
	HasClassDirective  bool
	HasRegisterMethods bool
}

// CustomAccessors returns the distinct custom accessor method names in field
// order.
func (c ClassDecl) CustomAccessors() []string {
	seen := make(map[string]bool)
	var names []string
	for _, f := range c.Fields {
		for _, a := range []Accessor{f.Getter, f.Setter} {
			if a.Kind == Custom && !seen[a.Name] {
				seen[a.Name] = true
				names = append(names, a.Name)
			}
		}
	}
	return names
}

// Package is everything the generator found in one Go package.
type Package struct {
	Name    string
	Dir     string
	Classes []ClassDecl
	// Imports maps package paths to the names used for them in field types.
	Imports map[string]string
	// GdextName is the name the gdext package is imported under.
	GdextName string
}
