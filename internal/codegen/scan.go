package codegen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/mardigontoler/gdext/config"
	"github.com/mardigontoler/gdext/errors"
)

// GdextImportPath is the import path of the runtime package generated code
// refers to.
const GdextImportPath = "github.com/mardigontoler/gdext"

// GlobalImportPath is the import path of the host enum package.
const GlobalImportPath = GdextImportPath + "/global"

var exportableBasic = map[string]bool{
	"bool": true, "string": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"float32": true, "float64": true,
}

// ParseDir reads the non-test Go files of dir, skipping the generator's own
// output and any file matching an exclude pattern.
func ParseDir(dir string, cfg *config.Config) (*Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read package directory: %w", err)
	}

	sources := make(map[string][]byte)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		if name == cfg.Output || cfg.Excluded(name) {
			continue
		}
		src, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		sources[name] = src
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no Go files in %s", dir)
	}
	return ParseFiles(dir, sources)
}

// ParseFiles scans in-memory sources of one package for class and export
// directives. Files are processed in name order.
func ParseFiles(dir string, sources map[string][]byte) (*Package, error) {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	s := &scanner{
		fset:    token.NewFileSet(),
		methods: make(map[string]map[string]bool),
		pkg: &Package{
			Dir:     dir,
			Imports: make(map[string]string),
		},
	}

	for _, name := range names {
		f, err := parser.ParseFile(s.fset, name, sources[name], parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		if s.pkg.Name == "" {
			s.pkg.Name = f.Name.Name
		} else if f.Name.Name != s.pkg.Name {
			return nil, fmt.Errorf("%s: package %s, expected %s", name, f.Name.Name, s.pkg.Name)
		}
		if err := s.scanFile(name, f); err != nil {
			return nil, err
		}
	}

	if err := s.check(); err != nil {
		return nil, err
	}
	if s.pkg.GdextName == "" {
		s.pkg.GdextName = "gdext"
	}
	return s.pkg, nil
}

type scanner struct {
	fset    *token.FileSet
	pkg     *Package
	methods map[string]map[string]bool
}

func (s *scanner) scanFile(name string, f *ast.File) error {
	imports := fileImports(f)

	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if recv := receiverType(d); recv != "" {
				if s.methods[recv] == nil {
					s.methods[recv] = make(map[string]bool)
				}
				s.methods[recv][d.Name.Name] = true
			}
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(d.Specs) == 1 {
					doc = d.Doc
				}
				if err := s.scanType(name, ts, doc, imports); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *scanner) scanType(file string, ts *ast.TypeSpec, doc *ast.CommentGroup, imports map[string]string) error {
	st, isStruct := ts.Type.(*ast.StructType)

	decl := ClassDecl{TypeName: ts.Name.Name, File: file}
	if c, line, ok := findDirective(s.fset, doc, classDirective); ok {
		if !isStruct {
			return s.directiveErr(file, line, decl.TypeName, "", "", fmt.Errorf("//godot:class requires a struct type"))
		}
		opts, kerr := parseClassDirective(c)
		if kerr != nil {
			return s.directiveErr(file, line, decl.TypeName, "", kerr.key, kerr.err)
		}
		decl.HasClassDirective = true
		decl.ClassName = opts.Name
		if decl.ClassName == "" {
			decl.ClassName = decl.TypeName
		}
		decl.Base = opts.Base
	}
	if !isStruct {
		return nil
	}

	for _, field := range st.Fields.List {
		text, line, ok := findDirective(s.fset, field.Doc, exportDirective)
		if !ok {
			continue
		}
		if len(field.Names) == 0 {
			return s.directiveErr(file, line, decl.TypeName, exprString(s.fset, field.Type), "",
				fmt.Errorf("embedded fields cannot be exported"))
		}
		fieldName := field.Names[0].Name

		opts, kerr := parseExportDirective(text)
		if kerr != nil {
			return s.directiveErr(file, line, decl.TypeName, fieldName, kerr.key, kerr.err)
		}
		if opts.Property != "" && len(field.Names) > 1 {
			return s.directiveErr(file, line, decl.TypeName, fieldName, "name",
				fmt.Errorf("name cannot be used on a multi-name field"))
		}
		typ, err := s.fieldType(field.Type, imports)
		if err != nil {
			return s.directiveErr(file, line, decl.TypeName, fieldName, "", err)
		}
		if opts.Hint != nil {
			if err := s.useExprImports(opts.Hint.Desc, imports); err != nil {
				return s.directiveErr(file, line, decl.TypeName, fieldName, "hint_desc", err)
			}
		}

		for _, n := range field.Names {
			fe := FieldExport{
				Field:    n.Name,
				Type:     typ,
				Property: opts.Property,
				Getter:   opts.Getter,
				Setter:   opts.Setter,
				Hint:     opts.Hint,
				Usage:    opts.Usage,
				Line:     line,
			}
			if fe.Property == "" {
				fe.Property = snakeCase(n.Name)
			}
			decl.Fields = append(decl.Fields, fe)
		}
	}

	if !decl.HasClassDirective && len(decl.Fields) == 0 {
		return nil
	}
	if len(decl.Fields) > 0 {
		for name, p := range imports {
			if p != GdextImportPath {
				continue
			}
			if err := s.useImport(GdextImportPath, name); err != nil {
				return s.directiveErr(file, s.fset.Position(ts.Pos()).Line, decl.TypeName, "", "", err)
			}
		}
	}
	if ts.TypeParams != nil && ts.TypeParams.NumFields() > 0 {
		return s.directiveErr(file, s.fset.Position(ts.Pos()).Line, decl.TypeName, "", "",
			fmt.Errorf("generic types cannot be registered"))
	}
	s.pkg.Classes = append(s.pkg.Classes, decl)
	return nil
}

// fieldType validates an exported field's type and returns its source form.
func (s *scanner) fieldType(expr ast.Expr, imports map[string]string) (string, error) {
	switch t := expr.(type) {
	case *ast.Ident:
		if exportableBasic[t.Name] {
			return t.Name, nil
		}
	case *ast.IndexExpr:
		sel, ok := t.X.(*ast.SelectorExpr)
		if !ok || sel.Sel.Name != "Obj" {
			break
		}
		pkgIdent, ok := sel.X.(*ast.Ident)
		if !ok || imports[pkgIdent.Name] != GdextImportPath {
			break
		}
		if err := s.useImport(GdextImportPath, pkgIdent.Name); err != nil {
			return "", err
		}
		switch arg := t.Index.(type) {
		case *ast.Ident:
		case *ast.SelectorExpr:
			argPkg, ok := arg.X.(*ast.Ident)
			if !ok || imports[argPkg.Name] == "" {
				return "", fmt.Errorf("unsupported Obj type argument %s", exprString(s.fset, arg))
			}
			if err := s.useImport(imports[argPkg.Name], argPkg.Name); err != nil {
				return "", err
			}
		default:
			return "", fmt.Errorf("unsupported Obj type argument %s", exprString(s.fset, t.Index))
		}
		return exprString(s.fset, expr), nil
	}
	return "", fmt.Errorf("type %s cannot be exported (supported: bool, signed integers, floats, string, gdext.Obj)", exprString(s.fset, expr))
}

// useExprImports records the packages a Go expression from a directive
// refers to. Qualifiers that are not imports of the file are rejected.
func (s *scanner) useExprImports(src string, imports map[string]string) error {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return err
	}
	var walkErr error
	ast.Inspect(expr, func(n ast.Node) bool {
		if walkErr != nil {
			return false
		}
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		id, ok := sel.X.(*ast.Ident)
		if !ok {
			return true
		}
		importPath, ok := imports[id.Name]
		if !ok {
			walkErr = fmt.Errorf("%s is not an imported package", id.Name)
			return false
		}
		walkErr = s.useImport(importPath, id.Name)
		return false
	})
	return walkErr
}

func (s *scanner) useImport(importPath, name string) error {
	if prev, ok := s.pkg.Imports[importPath]; ok && prev != name {
		return fmt.Errorf("package %s is imported as both %s and %s", importPath, prev, name)
	}
	for p, n := range s.pkg.Imports {
		if n == name && p != importPath {
			return fmt.Errorf("name %s refers to both %s and %s", name, p, importPath)
		}
	}
	s.pkg.Imports[importPath] = name
	if importPath == GdextImportPath {
		s.pkg.GdextName = name
	}
	return nil
}

// check runs the checks that need every file: accessor existence and name
// collisions with hand-written methods.
func (s *scanner) check() error {
	for i := range s.pkg.Classes {
		c := &s.pkg.Classes[i]
		declared := s.methods[c.TypeName]
		c.HasRegisterMethods = declared["RegisterMethods"]

		if c.HasClassDirective {
			for _, m := range []string{"ClassName", "BaseClassName"} {
				if declared[m] {
					return s.directiveErr(c.File, 0, c.TypeName, "", "",
						fmt.Errorf("method %s is generated by //godot:class and must not be declared", m))
				}
			}
		}
		if len(c.Fields) > 0 && declared["RegisterExports"] {
			return s.directiveErr(c.File, 0, c.TypeName, "", "",
				fmt.Errorf("method RegisterExports is generated and must not be declared"))
		}

		properties := make(map[string]string)
		generated := make(map[string]string)
		for _, f := range c.Fields {
			if prev, dup := properties[f.Property]; dup {
				return s.directiveErr(c.File, f.Line, c.TypeName, f.Field, "",
					fmt.Errorf("property %q already exported by field %s", f.Property, prev))
			}
			properties[f.Property] = f.Field

			for _, a := range []struct {
				key string
				acc Accessor
				gen string
			}{
				{key: "get", acc: f.Getter, gen: f.GetterMethod()},
				{key: "set", acc: f.Setter, gen: f.SetterMethod()},
			} {
				switch a.acc.Kind {
				case Custom:
					if !declared[a.acc.Name] {
						return s.directiveErr(c.File, f.Line, c.TypeName, f.Field, a.key,
							fmt.Errorf("method %s.%s does not exist", c.TypeName, a.acc.Name))
					}
				case Generated:
					if declared[a.gen] {
						return s.directiveErr(c.File, f.Line, c.TypeName, f.Field, a.key,
							fmt.Errorf("generated method %s collides with a declared method", a.gen))
					}
					if prev, dup := generated[a.gen]; dup {
						return s.directiveErr(c.File, f.Line, c.TypeName, f.Field, a.key,
							fmt.Errorf("generated method %s collides with the accessor of field %s", a.gen, prev))
					}
					generated[a.gen] = f.Field
				}
			}
		}
	}
	return nil
}

func (s *scanner) directiveErr(file string, line int, typeName, field, key string, err error) error {
	return &errors.DirectiveError{
		Err:    err,
		File:   filepath.Join(s.pkg.Dir, file),
		Struct: typeName,
		Field:  field,
		Key:    key,
		Line:   line,
	}
}

// findDirective returns the argument text and line of the first comment in
// doc carrying directive.
func findDirective(fset *token.FileSet, doc *ast.CommentGroup, directive string) (string, int, bool) {
	if doc == nil {
		return "", 0, false
	}
	for _, c := range doc.List {
		if text, ok := directiveText(c.Text, directive); ok {
			return text, fset.Position(c.Slash).Line, true
		}
	}
	return "", 0, false
}

// fileImports maps the names a file uses for its imports to their paths.
func fileImports(f *ast.File) map[string]string {
	imports := make(map[string]string)
	for _, imp := range f.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name := path.Base(p)
		if p == GdextImportPath {
			name = "gdext"
		}
		if imp.Name != nil {
			name = imp.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		imports[name] = p
	}
	return imports
}

// receiverType returns the base type name of a method receiver, T for both
// T and *T.
func receiverType(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}
	expr := fn.Recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		if id, ok := t.X.(*ast.Ident); ok {
			return id.Name
		}
	case *ast.IndexListExpr:
		if id, ok := t.X.(*ast.Ident); ok {
			return id.Name
		}
	}
	return ""
}

func exprString(fset *token.FileSet, expr ast.Expr) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, expr); err != nil {
		return fmt.Sprintf("%T", expr)
	}
	return buf.String()
}
