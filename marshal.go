package gdext

import (
	"unsafe"

	"github.com/mardigontoler/gdext/global"
	"github.com/mardigontoler/gdext/internal/abi"
)

// objectSlot is implemented by *Obj[U] for every class U.
type objectSlot interface {
	TypePtr() abi.TypePtr
	hostClassName() string
}

// variantTypeOf returns the variant type V marshals as. It reports false for
// types the binding layer cannot convert.
func variantTypeOf[V any]() (global.VariantType, bool) {
	var zero V
	switch any(zero).(type) {
	case bool:
		return global.VariantTypeBool, true
	case int, int8, int16, int32, int64:
		return global.VariantTypeInt, true
	case float32, float64:
		return global.VariantTypeFloat, true
	case string:
		return global.VariantTypeString, true
	}
	if _, ok := any(&zero).(objectSlot); ok {
		return global.VariantTypeObject, true
	}
	return global.VariantTypeNil, false
}

// ToVariant converts a bool, signed integer, float, string or Obj into a host
// variant. Unsupported types produce a nil variant.
func ToVariant[V any](rt *Runtime, value V) Variant {
	var v Variant
	writeVariant(rt, v.VarPtr(), value)
	return v
}

// FromVariant converts a host variant into V. Unsupported types yield the
// zero value.
func FromVariant[V any](rt *Runtime, v *Variant) V {
	return readVariant[V](rt, v.VarPtr())
}

// writeVariant builds a variant at out. out is treated as uninitialized.
func writeVariant[V any](rt *Runtime, out abi.VariantPtr, value V) {
	t, ok := variantTypeOf[V]()
	if !ok {
		rt.iface.VariantNewNil(out)
		return
	}
	if t == global.VariantTypeString {
		s := newHostString(rt, any(value).(string))
		defer rt.iface.StringDestroy(s.TypePtr())
		rt.methods.fromType[t](out, s.TypePtr())
		return
	}
	var scratch uint64
	in := encodeScalar(&scratch, &value, t)
	rt.methods.fromType[t](out, in)
}

// readVariant converts the variant at in into V.
func readVariant[V any](rt *Runtime, in abi.VariantPtr) V {
	var out V
	t, ok := variantTypeOf[V]()
	if !ok {
		return out
	}
	if t == global.VariantTypeString {
		var s abi.OpaqueString
		rt.methods.toType[t](s.TypePtr(), in)
		str := hostStringToGo(rt, &s)
		rt.iface.StringDestroy(s.TypePtr())
		*any(&out).(*string) = str
		return out
	}
	var scratch uint64
	rt.methods.toType[t](abi.TypePtr(unsafe.Pointer(&scratch)), in)
	decodeScalar(&scratch, &out, t)
	return out
}

// encodeScalar lays value out the way the host stores it for t: one-byte
// bool, int64, float64 or an object pointer. Objects are passed through their
// own storage.
func encodeScalar[V any](scratch *uint64, value *V, t global.VariantType) abi.TypePtr {
	p := unsafe.Pointer(scratch)
	switch t {
	case global.VariantTypeBool:
		*(*abi.Bool)(p) = abi.BoolOf(any(*value).(bool))
	case global.VariantTypeInt:
		*(*int64)(p) = toInt64(any(*value))
	case global.VariantTypeFloat:
		*(*float64)(p) = toFloat64(any(*value))
	case global.VariantTypeObject:
		return any(value).(objectSlot).TypePtr()
	}
	return abi.TypePtr(p)
}

func decodeScalar[V any](scratch *uint64, out *V, t global.VariantType) {
	p := unsafe.Pointer(scratch)
	switch t {
	case global.VariantTypeBool:
		*any(out).(*bool) = *(*abi.Bool)(p) != 0
	case global.VariantTypeInt:
		setInt(any(out), *(*int64)(p))
	case global.VariantTypeFloat:
		setFloat(any(out), *(*float64)(p))
	case global.VariantTypeObject:
		slot := any(out).(objectSlot)
		*(*abi.ObjectPtr)(unsafe.Pointer(slot.TypePtr())) = *(*abi.ObjectPtr)(p)
	}
}

// readTypePtr reads a V from typed-pointer storage.
func readTypePtr[V any](rt *Runtime, in abi.TypePtr) V {
	var out V
	t, ok := variantTypeOf[V]()
	if !ok {
		return out
	}
	switch t {
	case global.VariantTypeString:
		*any(&out).(*string) = hostStringToGo(rt, (*abi.OpaqueString)(unsafe.Pointer(in)))
	default:
		var scratch uint64
		size := scalarSize(t)
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&scratch)), size), unsafe.Slice((*byte)(unsafe.Pointer(in)), size))
		decodeScalar(&scratch, &out, t)
	}
	return out
}

// writeTypePtr stores value into typed-pointer storage. String storage at out
// is treated as uninitialized.
func writeTypePtr[V any](rt *Runtime, out abi.TypePtr, value V) {
	t, ok := variantTypeOf[V]()
	if !ok {
		return
	}
	switch t {
	case global.VariantTypeString:
		rt.iface.StringNewWithUTF8Chars(out, abi.CBytes(any(value).(string)))
	default:
		var scratch uint64
		in := encodeScalar(&scratch, &value, t)
		size := scalarSize(t)
		copy(unsafe.Slice((*byte)(unsafe.Pointer(out)), size), unsafe.Slice((*byte)(unsafe.Pointer(in)), size))
	}
}

func scalarSize(t global.VariantType) uintptr {
	switch t {
	case global.VariantTypeBool:
		return 1
	case global.VariantTypeObject:
		return abi.PointerSize
	default:
		return 8
	}
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	}
	return 0
}

func setInt(out any, n int64) {
	switch p := out.(type) {
	case *int:
		*p = int(n)
	case *int8:
		*p = int8(n)
	case *int16:
		*p = int16(n)
	case *int32:
		*p = int32(n)
	case *int64:
		*p = n
	}
}

func toFloat64(v any) float64 {
	switch f := v.(type) {
	case float32:
		return float64(f)
	case float64:
		return f
	}
	return 0
}

func setFloat(out any, f float64) {
	switch p := out.(type) {
	case *float32:
		*p = float32(f)
	case *float64:
		*p = f
	}
}

func newHostString(rt *Runtime, s string) *abi.OpaqueString {
	hs := new(abi.OpaqueString)
	rt.iface.StringNewWithUTF8Chars(hs.TypePtr(), abi.CBytes(s))
	return hs
}

func hostStringToGo(rt *Runtime, s *abi.OpaqueString) string {
	n := rt.iface.StringToUTF8Chars(s.TypePtr(), nil, 0)
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	rt.iface.StringToUTF8Chars(s.TypePtr(), &buf[0], n)
	return string(buf)
}
