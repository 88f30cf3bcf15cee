package gdext

import (
	"unsafe"

	"github.com/mardigontoler/gdext/errors"
	"github.com/mardigontoler/gdext/global"
	"github.com/mardigontoler/gdext/internal/abi"
)

// Variant is host variant storage. Its contents are only interpreted by the
// host; a Variant obtained from the host must be destroyed with Destroy.
type Variant struct {
	opaque abi.OpaqueVariant
}

// NilVariant returns a variant holding nil.
func NilVariant(rt *Runtime) Variant {
	var v Variant
	rt.iface.VariantNewNil(v.VarPtr())
	return v
}

// VarPtr returns the address of the variant storage.
func (v *Variant) VarPtr() abi.VariantPtr {
	return v.opaque.VarPtr()
}

// Type returns the dynamic type of the held value.
func (v *Variant) Type(rt *Runtime) global.VariantType {
	return rt.iface.VariantGetType(v.VarPtr())
}

// Destroy releases whatever the variant holds.
func (v *Variant) Destroy(rt *Runtime) {
	rt.iface.VariantDestroy(v.VarPtr())
}

func variantAt(p abi.VariantPtr) *Variant {
	return (*Variant)(unsafe.Pointer(p))
}

// ObjFromVariant extracts an object handle from v through the host's
// object_from_variant converter.
func ObjFromVariant[T Class](rt *Runtime, v *Variant) Obj[T] {
	var obj Obj[T]
	rt.methods.objectFromVariant(obj.TypePtr(), v.VarPtr())
	return obj
}

// ObjToVariant wraps obj in a variant through the host's object_to_variant
// converter. The handle should not be used afterwards.
func ObjToVariant[T Class](rt *Runtime, obj Obj[T]) Variant {
	var v Variant
	rt.methods.objectToVariant(v.VarPtr(), obj.TypePtr())
	return v
}

// RefToVariant would build a variant without consuming the handle. It is not
// supported and always panics with *errors.NotImplementedError.
func (o *Obj[T]) RefToVariant(rt *Runtime) Variant {
	panic(&errors.NotImplementedError{Operation: "Obj[" + className[T]() + "].RefToVariant"})
}
