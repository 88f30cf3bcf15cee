package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strconv"
	"strings"
	"text/template"
)

// renderConfig holds configuration for the Renderer.
type renderConfig struct {
	header string
	strict bool // fail on missing template keys
}

func defaultRenderConfig() renderConfig {
	return renderConfig{strict: true}
}

// RenderOption configures a Renderer.
type RenderOption func(*renderConfig)

// WithHeader prepends a comment block (for example a license) to the output.
func WithHeader(header string) RenderOption {
	return func(c *renderConfig) {
		c.header = header
	}
}

// WithStrict enables/disables strict mode for missing template keys.
func WithStrict(enabled bool) RenderOption {
	return func(c *renderConfig) {
		c.strict = enabled
	}
}

// Renderer turns a scanned Package into Go source.
type Renderer struct {
	tmpl   *template.Template
	config renderConfig
}

// NewRenderer parses the output template.
func NewRenderer(opts ...RenderOption) (*Renderer, error) {
	cfg := defaultRenderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	tmpl := template.New("exports").Funcs(template.FuncMap{
		"quote":    strconv.Quote,
		"receiver": receiverName,
		"comment":  commentBlock,
	})
	if cfg.strict {
		tmpl = tmpl.Option("missingkey=error")
	}
	tmpl, err := tmpl.Parse(exportsTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse exports template: %w", err)
	}
	return &Renderer{tmpl: tmpl, config: cfg}, nil
}

type importSpec struct {
	Name string
	Path string
}

type templateData struct {
	Header    string
	Package   string
	Gdext     string
	Imports   []importSpec
	Classes   []ClassDecl
	UseGlobal bool
}

// Render produces gofmt-formatted source for pkg.
func (r *Renderer) Render(pkg *Package) ([]byte, error) {
	data := templateData{
		Header:  r.config.header,
		Package: pkg.Name,
		Gdext:   pkg.GdextName,
		Classes: pkg.Classes,
	}
	for _, c := range pkg.Classes {
		if len(c.Fields) > 0 {
			data.UseGlobal = true
		}
	}
	data.Imports = importsFor(pkg, data.UseGlobal)

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute exports template: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("generated code does not parse: %w\n%s", err, buf.Bytes())
	}
	return src, nil
}

func importsFor(pkg *Package, useGlobal bool) []importSpec {
	needGdext := false
	for _, c := range pkg.Classes {
		if len(c.Fields) > 0 {
			needGdext = true
		}
	}

	var specs []importSpec
	for p, name := range pkg.Imports {
		if p == GdextImportPath || (p == GlobalImportPath && useGlobal && name == "global") {
			continue
		}
		specs = append(specs, importSpec{Name: explicitName(p, name), Path: p})
	}
	if needGdext {
		specs = append(specs, importSpec{Name: explicitName(GdextImportPath, pkg.GdextName), Path: GdextImportPath})
	}
	if useGlobal {
		specs = append(specs, importSpec{Path: GlobalImportPath})
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Path < specs[j].Path })
	return specs
}

// explicitName returns name when the import needs an alias.
func explicitName(importPath, name string) string {
	base := importPath[strings.LastIndex(importPath, "/")+1:]
	if importPath == GdextImportPath {
		base = "gdext"
	}
	if name == base {
		return ""
	}
	return name
}

func commentBlock(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if line == "" {
			b.WriteString("//\n")
			continue
		}
		b.WriteString("// " + line + "\n")
	}
	return b.String()
}

const exportsTemplate = `{{comment .Header}}{{if .Header}}
{{end}}// Code generated by gdext-gen. DO NOT EDIT.

package {{.Package}}
{{if .Imports}}
import (
{{- range .Imports}}
	{{if .Name}}{{.Name}} {{end}}{{quote .Path}}
{{- end}}
)
{{end}}
{{- $gd := .Gdext}}
{{- range $c := .Classes}}
{{- $t := $c.TypeName}}
{{- $r := receiver $t}}
{{if $c.HasClassDirective}}
// ClassName returns the host class name of {{$t}}.
func ({{$t}}) ClassName() string { return {{quote $c.ClassName}} }
{{if $c.Base}}
// BaseClassName returns the host class {{$t}} derives from.
func ({{$t}}) BaseClassName() string { return {{quote $c.Base}} }
{{end}}
{{- end}}
{{- if $c.Fields}}
var (
	_ {{$gd}}.GodotAPI[{{$t}}]               = (*{{$t}})(nil)
	_ {{$gd}}.ImplementsGodotExports[{{$t}}] = (*{{$t}})(nil)
)
{{range $c.CustomAccessors}}
var _ = (*{{$t}}).{{.}}
{{- end}}
{{range $f := $c.Fields}}
{{- if $f.Getter.Generated}}
// {{$f.GetterMethod}} returns the exported property {{$f.Property}}.
func ({{$r}} *{{$t}}) {{$f.GetterMethod}}() {{$f.Type}} { return {{$r}}.{{$f.Field}} }
{{end}}
{{- if $f.Setter.Generated}}
// {{$f.SetterMethod}} sets the exported property {{$f.Property}}.
func ({{$r}} *{{$t}}) {{$f.SetterMethod}}(value {{$f.Type}}) { {{$r}}.{{$f.Field}} = value }
{{end}}
{{- end}}
// RegisterExports registers the exported properties of {{$t}}.
func (*{{$t}}) RegisterExports(b *{{$gd}}.ClassBuilder[{{$t}}]) {
{{- range $f := $c.Fields}}
{{- if $f.Getter.Generated}}
	{{$gd}}.RegisterMethod0R(b, {{quote $f.GetterName}}, (*{{$t}}).{{$f.GetterMethod}})
{{- end}}
{{- if $f.Setter.Generated}}
	{{$gd}}.RegisterMethod1(b, {{quote $f.SetterName}}, (*{{$t}}).{{$f.SetterMethod}})
{{- end}}
	b.RegisterProperty(
		{{$gd}}.DefaultExportInfo[{{$f.Type}}](){{if $f.Hint}}.WithHint(global.{{$f.Hint.Hint.Go}}, {{$f.Hint.Desc}}){{end}}.Property({{quote $f.Property}}, b.ClassName(), {{$f.Usage}}),
		{{quote $f.SetterName}}, {{quote $f.GetterName}})
{{- end}}
}
{{- end}}
{{- end}}
`
