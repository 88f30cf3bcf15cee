package global

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantType_String(t *testing.T) {
	assert.Equal(t, "NIL", VariantTypeNil.String())
	assert.Equal(t, "INT", VariantTypeInt.String())
	assert.Equal(t, "OBJECT", VariantTypeObject.String())
	assert.Equal(t, "PACKED_COLOR_ARRAY", VariantTypePackedColorArray.String())
	assert.Equal(t, "VARIANT_MAX", VariantTypeMax.String())
	assert.Len(t, variantTypeNames, int(VariantTypeMax))
}

func TestLookupPropertyHint(t *testing.T) {
	tests := []struct {
		name string
		want PropertyHint
		ok   bool
	}{
		{name: "PROPERTY_HINT_RANGE", want: PropertyHintRange, ok: true},
		{name: "PropertyHintRange", want: PropertyHintRange, ok: true},
		{name: "PROPERTY_HINT_NODE_TYPE", want: PropertyHintNodeType, ok: true},
		{name: "PROPERTY_HINT_INT_IS_OBJECTID", want: PropertyHintIntIsObjectID, ok: true},
		{name: "PROPERTY_HINT_BOGUS", ok: false},
		{name: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := LookupPropertyHint(tt.name)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, h.Value)
			}
		})
	}
}

func TestHintNames_CoverEveryHint(t *testing.T) {
	require.Len(t, hintNames, int(PropertyHintMax))
	for i, h := range hintNames {
		assert.Equal(t, PropertyHint(i), h.Value, h.Host)
	}
}

func TestPropertyHint_String(t *testing.T) {
	assert.Equal(t, "PROPERTY_HINT_RANGE", PropertyHintRange.String())
	assert.Equal(t, "PROPERTY_HINT_MAX", PropertyHintMax.String())
}

func TestParsePropertyUsage(t *testing.T) {
	tests := []struct {
		in   string
		want PropertyUsageFlags
		ok   bool
	}{
		{in: "PROPERTY_USAGE_DEFAULT", want: PropertyUsageStorage | PropertyUsageEditor, ok: true},
		{in: "PROPERTY_USAGE_STORAGE|PROPERTY_USAGE_READ_ONLY", want: PropertyUsageStorage | PropertyUsageReadOnly, ok: true},
		{in: "PROPERTY_USAGE_EDITOR | PROPERTY_USAGE_CHECKABLE", want: PropertyUsageEditor | PropertyUsageCheckable, ok: true},
		{in: "PROPERTY_USAGE_NOPE", ok: false},
		{in: "PROPERTY_USAGE_EDITOR|", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePropertyUsage(tt.in)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPropertyUsageDefault(t *testing.T) {
	assert.Equal(t, PropertyUsageFlags(6), PropertyUsageDefault)
}

func TestUsageNames_Sorted(t *testing.T) {
	names := UsageNames()
	require.NotEmpty(t, names)
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "PROPERTY_USAGE_READ_ONLY")
}
