package codegen

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderPlayer(t *testing.T, opts ...RenderOption) string {
	t.Helper()
	pkg, err := ParseFiles("game", map[string][]byte{"player.go": []byte(playerSource)})
	require.NoError(t, err)

	r, err := NewRenderer(opts...)
	require.NoError(t, err)
	src, err := r.Render(pkg)
	require.NoError(t, err)
	return string(src)
}

func TestRender_Player(t *testing.T) {
	out := renderPlayer(t)

	_, err := parser.ParseFile(token.NewFileSet(), "out.go", out, parser.AllErrors)
	require.NoError(t, err, out)

	for _, want := range []string{
		"// Code generated by gdext-gen. DO NOT EDIT.",
		"package game",
		`"github.com/mardigontoler/gdext"`,
		`"github.com/mardigontoler/gdext/global"`,
		`func (Player) ClassName() string { return "Player" }`,
		`func (Player) BaseClassName() string { return "Node" }`,
		"_ gdext.GodotAPI[Player]",
		"_ gdext.ImplementsGodotExports[Player]",
		"var _ = (*Player).Level",
		"var _ = (*Player).ChangeLevel",
		"func (p *Player) GetHealth() int { return p.Health }",
		"func (p *Player) SetHealth(value int) { p.Health = value }",
		"func (p *Player) GetSecret() string { return p.secret }",
		"func (*Player) RegisterExports(b *gdext.ClassBuilder[Player]) {",
		`gdext.RegisterMethod0R(b, "get_health", (*Player).GetHealth)`,
		`gdext.RegisterMethod1(b, "set_health", (*Player).SetHealth)`,
		`gdext.DefaultExportInfo[int]().Property("health", b.ClassName(), global.PropertyUsageDefault)`,
		`"set_health", "get_health")`,
		`"", "get_secret")`,
		`gdext.DefaultExportInfo[int]().WithHint(global.PropertyHintRange, "1,99").Property("level", b.ClassName(), global.PropertyUsageDefault)`,
		`"change_level", "level")`,
		`gdext.DefaultExportInfo[gdext.Obj[Enemy]]()`,
	} {
		assert.Contains(t, out, want)
	}

	assert.NotContains(t, out, "SetSecret", "get-only exports have no setter")
	assert.NotContains(t, out, "GetLevel", "custom accessors are not generated")
	assert.NotContains(t, out, "notExported")
}

func TestRender_PropertyOrderFollowsFields(t *testing.T) {
	out := renderPlayer(t)

	health := indexOf(t, out, `Property("health"`)
	secret := indexOf(t, out, `Property("secret"`)
	level := indexOf(t, out, `Property("level"`)
	target := indexOf(t, out, `Property("target"`)
	assert.Less(t, health, secret)
	assert.Less(t, secret, level)
	assert.Less(t, level, target)
}

func TestRender_Header(t *testing.T) {
	out := renderPlayer(t, WithHeader("Copyright 2026 The gdext Authors.\n\nSPDX-License-Identifier: MIT"))
	assert.Contains(t, out, "// Copyright 2026 The gdext Authors.\n//\n// SPDX-License-Identifier: MIT\n\n// Code generated")
}

func TestRender_AliasedGdext(t *testing.T) {
	src := `package game

import gd "github.com/mardigontoler/gdext"

type Door struct {
	//godot:export usage=PROPERTY_USAGE_STORAGE
	Open bool
}

func (Door) ClassName() string { return "Door" }

func (*Door) RegisterMethods(b *gd.ClassBuilder[Door]) {}
`
	pkg, err := ParseFiles("game", map[string][]byte{"door.go": []byte(src)})
	require.NoError(t, err)

	r, err := NewRenderer()
	require.NoError(t, err)
	out, err := r.Render(pkg)
	require.NoError(t, err)

	assert.Contains(t, string(out), `gd "github.com/mardigontoler/gdext"`)
	assert.Contains(t, string(out), "func (d *Door) GetOpen() bool { return d.Open }")
	assert.Contains(t, string(out), `gd.DefaultExportInfo[bool]().Property("open", b.ClassName(), global.PropertyUsageStorage)`)
	assert.NotContains(t, string(out), "ClassName() string", "ClassName is hand-written without //godot:class")
}

func TestRender_ClassDirectiveOnly(t *testing.T) {
	src := "package game\n\n//godot:class name=\"Marker\"\ntype marker struct{}\n"
	pkg, err := ParseFiles("game", map[string][]byte{"m.go": []byte(src)})
	require.NoError(t, err)

	r, err := NewRenderer()
	require.NoError(t, err)
	out, err := r.Render(pkg)
	require.NoError(t, err)

	assert.Contains(t, string(out), `func (marker) ClassName() string { return "Marker" }`)
	assert.NotContains(t, string(out), "import")
	assert.NotContains(t, string(out), "BaseClassName")
	assert.NotContains(t, string(out), "RegisterExports")
}

func indexOf(t *testing.T, s, sub string) int {
	t.Helper()
	i := strings.Index(s, sub)
	require.GreaterOrEqual(t, i, 0, "%q not found", sub)
	return i
}

func TestRender_HintDescImports(t *testing.T) {
	src := `package game

import (
	"strconv"

	"github.com/mardigontoler/gdext"
)

const maxSpeed = 10

type Car struct {
	//godot:export hint=PROPERTY_HINT_RANGE hint_desc="0,"+strconv.Itoa(maxSpeed)
	Speed int64
}

func (Car) ClassName() string { return "Car" }

func (*Car) RegisterMethods(b *gdext.ClassBuilder[Car]) {}
`
	pkg, err := ParseFiles("game", map[string][]byte{"car.go": []byte(src)})
	require.NoError(t, err)
	assert.Equal(t, "strconv", pkg.Imports["strconv"])

	r, err := NewRenderer()
	require.NoError(t, err)
	out, err := r.Render(pkg)
	require.NoError(t, err)

	assert.Contains(t, string(out), `"strconv"`)
	assert.Contains(t, string(out), `WithHint(global.PropertyHintRange, "0,"+strconv.Itoa(maxSpeed))`)
}

func TestRender_HintDescUsingGlobalImportsOnce(t *testing.T) {
	src := `package game

import "github.com/mardigontoler/gdext/global"

type Car struct {
	//godot:export hint=PROPERTY_HINT_ENUM hint_desc=global.PropertyHintEnum.String()
	Mode int64
}

func (Car) ClassName() string { return "Car" }
`
	pkg, err := ParseFiles("game", map[string][]byte{"car.go": []byte(src)})
	require.NoError(t, err)

	r, err := NewRenderer()
	require.NoError(t, err)
	out, err := r.Render(pkg)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(out), `"github.com/mardigontoler/gdext/global"`))
}
