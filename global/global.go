// Package global mirrors the host's global enums that cross the ABI as plain
// integers: variant type tags, property hints and property usage flags.
package global

import (
	"sort"
	"strings"
)

// VariantType is the dynamic type tag of a host variant.
type VariantType uint32

const (
	VariantTypeNil VariantType = iota
	VariantTypeBool
	VariantTypeInt
	VariantTypeFloat
	VariantTypeString
	VariantTypeVector2
	VariantTypeVector2i
	VariantTypeRect2
	VariantTypeRect2i
	VariantTypeVector3
	VariantTypeVector3i
	VariantTypeTransform2D
	VariantTypeVector4
	VariantTypeVector4i
	VariantTypePlane
	VariantTypeQuaternion
	VariantTypeAABB
	VariantTypeBasis
	VariantTypeTransform3D
	VariantTypeProjection
	VariantTypeColor
	VariantTypeStringName
	VariantTypeNodePath
	VariantTypeRID
	VariantTypeObject
	VariantTypeCallable
	VariantTypeSignal
	VariantTypeDictionary
	VariantTypeArray
	VariantTypePackedByteArray
	VariantTypePackedInt32Array
	VariantTypePackedInt64Array
	VariantTypePackedFloat32Array
	VariantTypePackedFloat64Array
	VariantTypePackedStringArray
	VariantTypePackedVector2Array
	VariantTypePackedVector3Array
	VariantTypePackedColorArray
	VariantTypeMax
)

var variantTypeNames = [...]string{
	"NIL", "BOOL", "INT", "FLOAT", "STRING", "VECTOR2", "VECTOR2I", "RECT2",
	"RECT2I", "VECTOR3", "VECTOR3I", "TRANSFORM2D", "VECTOR4", "VECTOR4I",
	"PLANE", "QUATERNION", "AABB", "BASIS", "TRANSFORM3D", "PROJECTION",
	"COLOR", "STRING_NAME", "NODE_PATH", "RID", "OBJECT", "CALLABLE", "SIGNAL",
	"DICTIONARY", "ARRAY", "PACKED_BYTE_ARRAY", "PACKED_INT32_ARRAY",
	"PACKED_INT64_ARRAY", "PACKED_FLOAT32_ARRAY", "PACKED_FLOAT64_ARRAY",
	"PACKED_STRING_ARRAY", "PACKED_VECTOR2_ARRAY", "PACKED_VECTOR3_ARRAY",
	"PACKED_COLOR_ARRAY",
}

func (t VariantType) String() string {
	if t < VariantTypeMax {
		return variantTypeNames[t]
	}
	return "VARIANT_MAX"
}

// PropertyHint tells the editor how to present a property.
type PropertyHint uint32

const (
	PropertyHintNone PropertyHint = iota
	PropertyHintRange
	PropertyHintEnum
	PropertyHintEnumSuggestion
	PropertyHintExpEasing
	PropertyHintLink
	PropertyHintFlags
	PropertyHintLayers2DRender
	PropertyHintLayers2DPhysics
	PropertyHintLayers2DNavigation
	PropertyHintLayers3DRender
	PropertyHintLayers3DPhysics
	PropertyHintLayers3DNavigation
	PropertyHintFile
	PropertyHintDir
	PropertyHintGlobalFile
	PropertyHintGlobalDir
	PropertyHintResourceType
	PropertyHintMultilineText
	PropertyHintExpression
	PropertyHintPlaceholderText
	PropertyHintColorNoAlpha
	PropertyHintImageCompressLossy
	PropertyHintImageCompressLossless
	PropertyHintObjectID
	PropertyHintTypeString
	PropertyHintNodePathToEditedNode
	PropertyHintMethodOfVariantType
	PropertyHintMethodOfBaseType
	PropertyHintMethodOfInstance
	PropertyHintMethodOfScript
	PropertyHintPropertyOfVariantType
	PropertyHintPropertyOfBaseType
	PropertyHintPropertyOfInstance
	PropertyHintPropertyOfScript
	PropertyHintObjectTooBig
	PropertyHintNodePathValidTypes
	PropertyHintSaveFile
	PropertyHintGlobalSaveFile
	PropertyHintIntIsObjectID
	PropertyHintIntIsPointer
	PropertyHintArrayType
	PropertyHintLocaleID
	PropertyHintLocalizableString
	PropertyHintNodeType
	PropertyHintMax
)

// HintName pairs the host's spelling of a hint with the Go constant name the
// code generator emits for it.
type HintName struct {
	Host  string
	Go    string
	Value PropertyHint
}

var hintNames = []HintName{
	{"PROPERTY_HINT_NONE", "PropertyHintNone", PropertyHintNone},
	{"PROPERTY_HINT_RANGE", "PropertyHintRange", PropertyHintRange},
	{"PROPERTY_HINT_ENUM", "PropertyHintEnum", PropertyHintEnum},
	{"PROPERTY_HINT_ENUM_SUGGESTION", "PropertyHintEnumSuggestion", PropertyHintEnumSuggestion},
	{"PROPERTY_HINT_EXP_EASING", "PropertyHintExpEasing", PropertyHintExpEasing},
	{"PROPERTY_HINT_LINK", "PropertyHintLink", PropertyHintLink},
	{"PROPERTY_HINT_FLAGS", "PropertyHintFlags", PropertyHintFlags},
	{"PROPERTY_HINT_LAYERS_2D_RENDER", "PropertyHintLayers2DRender", PropertyHintLayers2DRender},
	{"PROPERTY_HINT_LAYERS_2D_PHYSICS", "PropertyHintLayers2DPhysics", PropertyHintLayers2DPhysics},
	{"PROPERTY_HINT_LAYERS_2D_NAVIGATION", "PropertyHintLayers2DNavigation", PropertyHintLayers2DNavigation},
	{"PROPERTY_HINT_LAYERS_3D_RENDER", "PropertyHintLayers3DRender", PropertyHintLayers3DRender},
	{"PROPERTY_HINT_LAYERS_3D_PHYSICS", "PropertyHintLayers3DPhysics", PropertyHintLayers3DPhysics},
	{"PROPERTY_HINT_LAYERS_3D_NAVIGATION", "PropertyHintLayers3DNavigation", PropertyHintLayers3DNavigation},
	{"PROPERTY_HINT_FILE", "PropertyHintFile", PropertyHintFile},
	{"PROPERTY_HINT_DIR", "PropertyHintDir", PropertyHintDir},
	{"PROPERTY_HINT_GLOBAL_FILE", "PropertyHintGlobalFile", PropertyHintGlobalFile},
	{"PROPERTY_HINT_GLOBAL_DIR", "PropertyHintGlobalDir", PropertyHintGlobalDir},
	{"PROPERTY_HINT_RESOURCE_TYPE", "PropertyHintResourceType", PropertyHintResourceType},
	{"PROPERTY_HINT_MULTILINE_TEXT", "PropertyHintMultilineText", PropertyHintMultilineText},
	{"PROPERTY_HINT_EXPRESSION", "PropertyHintExpression", PropertyHintExpression},
	{"PROPERTY_HINT_PLACEHOLDER_TEXT", "PropertyHintPlaceholderText", PropertyHintPlaceholderText},
	{"PROPERTY_HINT_COLOR_NO_ALPHA", "PropertyHintColorNoAlpha", PropertyHintColorNoAlpha},
	{"PROPERTY_HINT_IMAGE_COMPRESS_LOSSY", "PropertyHintImageCompressLossy", PropertyHintImageCompressLossy},
	{"PROPERTY_HINT_IMAGE_COMPRESS_LOSSLESS", "PropertyHintImageCompressLossless", PropertyHintImageCompressLossless},
	{"PROPERTY_HINT_OBJECT_ID", "PropertyHintObjectID", PropertyHintObjectID},
	{"PROPERTY_HINT_TYPE_STRING", "PropertyHintTypeString", PropertyHintTypeString},
	{"PROPERTY_HINT_NODE_PATH_TO_EDITED_NODE", "PropertyHintNodePathToEditedNode", PropertyHintNodePathToEditedNode},
	{"PROPERTY_HINT_METHOD_OF_VARIANT_TYPE", "PropertyHintMethodOfVariantType", PropertyHintMethodOfVariantType},
	{"PROPERTY_HINT_METHOD_OF_BASE_TYPE", "PropertyHintMethodOfBaseType", PropertyHintMethodOfBaseType},
	{"PROPERTY_HINT_METHOD_OF_INSTANCE", "PropertyHintMethodOfInstance", PropertyHintMethodOfInstance},
	{"PROPERTY_HINT_METHOD_OF_SCRIPT", "PropertyHintMethodOfScript", PropertyHintMethodOfScript},
	{"PROPERTY_HINT_PROPERTY_OF_VARIANT_TYPE", "PropertyHintPropertyOfVariantType", PropertyHintPropertyOfVariantType},
	{"PROPERTY_HINT_PROPERTY_OF_BASE_TYPE", "PropertyHintPropertyOfBaseType", PropertyHintPropertyOfBaseType},
	{"PROPERTY_HINT_PROPERTY_OF_INSTANCE", "PropertyHintPropertyOfInstance", PropertyHintPropertyOfInstance},
	{"PROPERTY_HINT_PROPERTY_OF_SCRIPT", "PropertyHintPropertyOfScript", PropertyHintPropertyOfScript},
	{"PROPERTY_HINT_OBJECT_TOO_BIG", "PropertyHintObjectTooBig", PropertyHintObjectTooBig},
	{"PROPERTY_HINT_NODE_PATH_VALID_TYPES", "PropertyHintNodePathValidTypes", PropertyHintNodePathValidTypes},
	{"PROPERTY_HINT_SAVE_FILE", "PropertyHintSaveFile", PropertyHintSaveFile},
	{"PROPERTY_HINT_GLOBAL_SAVE_FILE", "PropertyHintGlobalSaveFile", PropertyHintGlobalSaveFile},
	{"PROPERTY_HINT_INT_IS_OBJECTID", "PropertyHintIntIsObjectID", PropertyHintIntIsObjectID},
	{"PROPERTY_HINT_INT_IS_POINTER", "PropertyHintIntIsPointer", PropertyHintIntIsPointer},
	{"PROPERTY_HINT_ARRAY_TYPE", "PropertyHintArrayType", PropertyHintArrayType},
	{"PROPERTY_HINT_LOCALE_ID", "PropertyHintLocaleID", PropertyHintLocaleID},
	{"PROPERTY_HINT_LOCALIZABLE_STRING", "PropertyHintLocalizableString", PropertyHintLocalizableString},
	{"PROPERTY_HINT_NODE_TYPE", "PropertyHintNodeType", PropertyHintNodeType},
}

// LookupPropertyHint resolves a hint by its host name (PROPERTY_HINT_RANGE) or
// its Go constant name (PropertyHintRange).
func LookupPropertyHint(name string) (HintName, bool) {
	for _, h := range hintNames {
		if h.Host == name || h.Go == name {
			return h, true
		}
	}
	return HintName{}, false
}

func (h PropertyHint) String() string {
	for _, n := range hintNames {
		if n.Value == h {
			return n.Host
		}
	}
	return "PROPERTY_HINT_MAX"
}

// PropertyUsageFlags is the usage bitmask of a property record.
type PropertyUsageFlags uint32

const (
	PropertyUsageNone                PropertyUsageFlags = 0
	PropertyUsageStorage             PropertyUsageFlags = 1 << 1
	PropertyUsageEditor              PropertyUsageFlags = 1 << 2
	PropertyUsageInternal            PropertyUsageFlags = 1 << 3
	PropertyUsageCheckable           PropertyUsageFlags = 1 << 4
	PropertyUsageChecked             PropertyUsageFlags = 1 << 5
	PropertyUsageGroup               PropertyUsageFlags = 1 << 6
	PropertyUsageCategory            PropertyUsageFlags = 1 << 7
	PropertyUsageSubgroup            PropertyUsageFlags = 1 << 8
	PropertyUsageClassIsBitfield     PropertyUsageFlags = 1 << 9
	PropertyUsageNoInstanceState     PropertyUsageFlags = 1 << 10
	PropertyUsageRestartIfChanged    PropertyUsageFlags = 1 << 11
	PropertyUsageScriptVariable      PropertyUsageFlags = 1 << 12
	PropertyUsageStoreIfNull         PropertyUsageFlags = 1 << 13
	PropertyUsageUpdateAllIfModified PropertyUsageFlags = 1 << 14
	PropertyUsageReadOnly            PropertyUsageFlags = 1 << 28

	PropertyUsageDefault  = PropertyUsageStorage | PropertyUsageEditor
	PropertyUsageNoEditor = PropertyUsageStorage
)

var usageNames = map[string]PropertyUsageFlags{
	"PROPERTY_USAGE_NONE":                   PropertyUsageNone,
	"PROPERTY_USAGE_STORAGE":                PropertyUsageStorage,
	"PROPERTY_USAGE_EDITOR":                 PropertyUsageEditor,
	"PROPERTY_USAGE_INTERNAL":               PropertyUsageInternal,
	"PROPERTY_USAGE_CHECKABLE":              PropertyUsageCheckable,
	"PROPERTY_USAGE_CHECKED":                PropertyUsageChecked,
	"PROPERTY_USAGE_GROUP":                  PropertyUsageGroup,
	"PROPERTY_USAGE_CATEGORY":               PropertyUsageCategory,
	"PROPERTY_USAGE_SUBGROUP":               PropertyUsageSubgroup,
	"PROPERTY_USAGE_CLASS_IS_BITFIELD":      PropertyUsageClassIsBitfield,
	"PROPERTY_USAGE_NO_INSTANCE_STATE":      PropertyUsageNoInstanceState,
	"PROPERTY_USAGE_RESTART_IF_CHANGED":     PropertyUsageRestartIfChanged,
	"PROPERTY_USAGE_SCRIPT_VARIABLE":        PropertyUsageScriptVariable,
	"PROPERTY_USAGE_STORE_IF_NULL":          PropertyUsageStoreIfNull,
	"PROPERTY_USAGE_UPDATE_ALL_IF_MODIFIED": PropertyUsageUpdateAllIfModified,
	"PROPERTY_USAGE_READ_ONLY":              PropertyUsageReadOnly,
	"PROPERTY_USAGE_DEFAULT":                PropertyUsageDefault,
	"PROPERTY_USAGE_NO_EDITOR":              PropertyUsageNoEditor,
}

// ParsePropertyUsage parses a "|"-separated list of PROPERTY_USAGE_* names.
func ParsePropertyUsage(s string) (PropertyUsageFlags, bool) {
	var flags PropertyUsageFlags
	for _, part := range strings.Split(s, "|") {
		f, ok := usageNames[strings.TrimSpace(part)]
		if !ok {
			return 0, false
		}
		flags |= f
	}
	return flags, true
}

// UsageNames returns the accepted PROPERTY_USAGE_* names, sorted.
func UsageNames() []string {
	names := make([]string, 0, len(usageNames))
	for n := range usageNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
