package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mardigontoler/gdext/global"
)

func TestSplitDirective(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []directiveArg
		wantErr bool
	}{
		{name: "empty", text: ""},
		{
			name: "bare keys",
			text: "get set",
			want: []directiveArg{{Key: "get"}, {Key: "set"}},
		},
		{
			name: "values",
			text: `get=Level hint=PROPERTY_HINT_RANGE hint_desc="1, 99"`,
			want: []directiveArg{
				{Key: "get", Value: "Level", HasValue: true},
				{Key: "hint", Value: "PROPERTY_HINT_RANGE", HasValue: true},
				{Key: "hint_desc", Value: `"1, 99"`, HasValue: true},
			},
		},
		{
			name: "expression value",
			text: `hint_desc=fmt.Sprint(1, 2)`,
			want: []directiveArg{{Key: "hint_desc", Value: "fmt.Sprint(1, 2)", HasValue: true}},
		},
		{name: "empty value", text: "get=", wantErr: true},
		{name: "unterminated quote", text: `hint_desc="1,99`, wantErr: true},
		{name: "unbalanced bracket", text: "hint_desc=f(1", wantErr: true},
		{name: "stray character", text: "get,set", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitDirective(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirectiveText(t *testing.T) {
	text, ok := directiveText("//godot:export get", exportDirective)
	assert.True(t, ok)
	assert.Equal(t, "get", text)

	text, ok = directiveText("//godot:export", exportDirective)
	assert.True(t, ok)
	assert.Empty(t, text)

	_, ok = directiveText("//godot:exported", exportDirective)
	assert.False(t, ok)

	_, ok = directiveText("// godot:export", exportDirective)
	assert.False(t, ok, "directives have no space after the slashes")
}

func TestParseExportDirective(t *testing.T) {
	tests := []struct {
		name string
		text string
		want exportOptions
	}{
		{
			name: "bare export generates both accessors",
			text: "",
			want: exportOptions{
				Getter: Accessor{Kind: Generated},
				Setter: Accessor{Kind: Generated},
				Usage:  "global.PropertyUsageDefault",
			},
		},
		{
			name: "get only",
			text: "get",
			want: exportOptions{
				Getter: Accessor{Kind: Generated},
				Usage:  "global.PropertyUsageDefault",
			},
		},
		{
			name: "custom accessors with hint",
			text: `get=Level set=ChangeLevel hint=PROPERTY_HINT_RANGE hint_desc="1,99"`,
			want: exportOptions{
				Getter: Accessor{Kind: Custom, Name: "Level"},
				Setter: Accessor{Kind: Custom, Name: "ChangeLevel"},
				Hint: &ExportHint{
					Hint: global.HintName{Host: "PROPERTY_HINT_RANGE", Go: "PropertyHintRange", Value: global.PropertyHintRange},
					Desc: `"1,99"`,
				},
				Usage: "global.PropertyUsageDefault",
			},
		},
		{
			name: "name and usage",
			text: `name="max_hp" usage=PROPERTY_USAGE_STORAGE|PROPERTY_USAGE_READ_ONLY`,
			want: exportOptions{
				Getter:   Accessor{Kind: Generated},
				Setter:   Accessor{Kind: Generated},
				Property: "max_hp",
				Usage:    "global.PropertyUsageStorage | global.PropertyUsageReadOnly",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, kerr := parseExportDirective(tt.text)
			require.Nil(t, kerr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseExportDirective_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantKey string
		wantMsg string
	}{
		{name: "unknown key", text: "getter", wantKey: "getter", wantMsg: "unknown key"},
		{name: "duplicate key", text: "get get", wantKey: "get", wantMsg: "more than once"},
		{name: "hint without desc", text: "hint=PROPERTY_HINT_RANGE", wantKey: "hint", wantMsg: "requires hint_desc"},
		{name: "desc without hint", text: `hint_desc="x"`, wantKey: "hint_desc", wantMsg: "requires hint"},
		{name: "unknown hint", text: `hint=PROPERTY_HINT_BOGUS hint_desc="x"`, wantKey: "hint", wantMsg: "unknown property hint"},
		{name: "bad desc expression", text: `hint=PROPERTY_HINT_RANGE hint_desc=1+`, wantKey: "hint_desc", wantMsg: "not a Go expression"},
		{name: "accessor not an identifier", text: "get=level-up", wantKey: "get", wantMsg: "not a method name"},
		{name: "unknown usage", text: "usage=PROPERTY_USAGE_NOPE", wantKey: "usage", wantMsg: "unknown property usage"},
		{name: "empty name", text: `name=""`, wantKey: "name", wantMsg: "empty value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, kerr := parseExportDirective(tt.text)
			require.NotNil(t, kerr)
			assert.Equal(t, tt.wantKey, kerr.key)
			assert.Contains(t, kerr.err.Error(), tt.wantMsg)
		})
	}
}

func TestParseClassDirective(t *testing.T) {
	opts, kerr := parseClassDirective(`base=Node2D name="Hero"`)
	require.Nil(t, kerr)
	assert.Equal(t, classOptions{Name: "Hero", Base: "Node2D"}, opts)

	opts, kerr = parseClassDirective("")
	require.Nil(t, kerr)
	assert.Equal(t, classOptions{}, opts)

	_, kerr = parseClassDirective("base")
	require.NotNil(t, kerr)
	assert.Equal(t, "base", kerr.key)

	_, kerr = parseClassDirective("parent=Node")
	require.NotNil(t, kerr)
	assert.Equal(t, "parent", kerr.key)
}

func TestAccessorKind_String(t *testing.T) {
	assert.Equal(t, "omitted", Omitted.String())
	assert.Equal(t, "generated", Generated.String())
	assert.Equal(t, "custom", Custom.String())
	assert.Equal(t, "AccessorKind(9)", AccessorKind(9).String())
}
