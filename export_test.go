package gdext

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mardigontoler/gdext/global"
)

func TestDefaultExportInfo(t *testing.T) {
	tests := []struct {
		name string
		got  ExportInfo
		want ExportInfo
	}{
		{name: "int64", got: DefaultExportInfo[int64](), want: ExportInfo{Type: global.VariantTypeInt}},
		{name: "bool", got: DefaultExportInfo[bool](), want: ExportInfo{Type: global.VariantTypeBool}},
		{name: "float32", got: DefaultExportInfo[float32](), want: ExportInfo{Type: global.VariantTypeFloat}},
		{name: "string", got: DefaultExportInfo[string](), want: ExportInfo{Type: global.VariantTypeString}},
		{name: "object", got: DefaultExportInfo[Obj[testNode]](), want: ExportInfo{Type: global.VariantTypeObject, ClassName: "TestNode"}},
		{name: "unsupported", got: DefaultExportInfo[[]byte](), want: ExportInfo{Type: global.VariantTypeNil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestExportInfo_WithHintAndProperty(t *testing.T) {
	info := DefaultExportInfo[int64]().WithHint(global.PropertyHintRange, "1,99")

	p := info.Property("level", "Player", global.PropertyUsageDefault|global.PropertyUsageReadOnly)

	assert.Equal(t, PropertyInfo{
		Name:       "level",
		ClassName:  "Player",
		HintString: "1,99",
		Type:       global.VariantTypeInt,
		Hint:       global.PropertyHintRange,
		Usage:      global.PropertyUsageDefault | global.PropertyUsageReadOnly,
	}, p)
}

func TestPropertyInfo_ToABI(t *testing.T) {
	rt, _ := newTestRuntime(t)
	p := DefaultExportInfo[string]().Property("title", "Player", global.PropertyUsageDefault)

	rec := p.toABI(rt)

	assert.Equal(t, uint32(global.VariantTypeString), rec.Type)
	assert.Equal(t, uint32(global.PropertyUsageDefault), rec.Usage)
	assert.Equal(t, uint32(global.PropertyHintNone), rec.Hint)
	assert.NotNil(t, rec.HintString, "empty strings are passed as pointers to NUL")
}
