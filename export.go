package gdext

import (
	"github.com/mardigontoler/gdext/global"
	"github.com/mardigontoler/gdext/internal/abi"
)

// ExportInfo is how a Go type presents itself as a property: its variant
// type, the class name for object types, and the editor hint.
type ExportInfo struct {
	ClassName  string
	HintString string
	Type       global.VariantType
	Hint       global.PropertyHint
}

// DefaultExportInfo returns the export info of field type F. Types the
// binding layer cannot marshal report VariantTypeNil, which ClassBuilder
// rejects.
func DefaultExportInfo[F any]() ExportInfo {
	t, _ := variantTypeOf[F]()
	info := ExportInfo{Type: t, Hint: global.PropertyHintNone}
	if t == global.VariantTypeObject {
		var zero F
		info.ClassName = any(&zero).(objectSlot).hostClassName()
	}
	return info
}

// WithHint returns a copy of e with the hint and its description replaced.
func (e ExportInfo) WithHint(hint global.PropertyHint, desc string) ExportInfo {
	e.Hint = hint
	e.HintString = desc
	return e
}

// PropertyInfo describes a property registration. ClassName is the class that
// owns the property.
type PropertyInfo struct {
	Name       string
	ClassName  string
	HintString string
	Type       global.VariantType
	Hint       global.PropertyHint
	Usage      global.PropertyUsageFlags
}

// Property builds the registration record for a property of class owner.
func (e ExportInfo) Property(name, owner string, usage global.PropertyUsageFlags) PropertyInfo {
	return PropertyInfo{
		Name:       name,
		ClassName:  owner,
		HintString: e.HintString,
		Type:       e.Type,
		Hint:       e.Hint,
		Usage:      usage,
	}
}

// toABI lays the record out for the host. Strings are interned in rt and
// stay valid until the runtime closes.
func (p PropertyInfo) toABI(rt *Runtime) abi.PropertyInfo {
	return abi.PropertyInfo{
		Type:       uint32(p.Type),
		Name:       rt.cstr(p.Name),
		ClassName:  rt.cstr(p.ClassName),
		Hint:       uint32(p.Hint),
		HintString: rt.cstr(p.HintString),
		Usage:      uint32(p.Usage),
	}
}
