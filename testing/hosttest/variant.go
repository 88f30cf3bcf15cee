package hosttest

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/mardigontoler/gdext/global"
	"github.com/mardigontoler/gdext/internal/abi"
)

// Variants are encoded as a uint32 type tag at offset 0 and a 64-bit payload
// at offset 8. Strings are stored as ids into the host's string table.

func setVariant(p abi.VariantPtr, t global.VariantType, payload uint64) {
	*(*uint32)(unsafe.Pointer(p)) = uint32(t)
	*(*uint64)(unsafe.Add(unsafe.Pointer(p), 8)) = payload
}

func variantType(p abi.VariantPtr) global.VariantType {
	return global.VariantType(*(*uint32)(unsafe.Pointer(p)))
}

func variantPayload(p abi.VariantPtr) uint64 {
	return *(*uint64)(unsafe.Add(unsafe.Pointer(p), 8))
}

func (h *Host) variantDestroy(p abi.VariantPtr) {
	if variantType(p) == global.VariantTypeString {
		delete(h.strings, uintptr(variantPayload(p)))
	}
	setVariant(p, global.VariantTypeNil, 0)
}

func (h *Host) variantFromType(t global.VariantType) abi.VariantFromTypeFunc {
	switch t {
	case global.VariantTypeBool:
		return func(out abi.VariantPtr, in abi.TypePtr) {
			setVariant(out, t, uint64(*(*abi.Bool)(unsafe.Pointer(in))))
		}
	case global.VariantTypeInt:
		return func(out abi.VariantPtr, in abi.TypePtr) {
			setVariant(out, t, uint64(*(*int64)(unsafe.Pointer(in))))
		}
	case global.VariantTypeFloat:
		return func(out abi.VariantPtr, in abi.TypePtr) {
			setVariant(out, t, math.Float64bits(*(*float64)(unsafe.Pointer(in))))
		}
	case global.VariantTypeString:
		return func(out abi.VariantPtr, in abi.TypePtr) {
			id := h.newString(h.strings[*(*uintptr)(unsafe.Pointer(in))])
			setVariant(out, t, uint64(id))
		}
	case global.VariantTypeObject:
		return func(out abi.VariantPtr, in abi.TypePtr) {
			setVariant(out, t, uint64(*(*abi.ObjectPtr)(unsafe.Pointer(in))))
		}
	}
	return nil
}

func (h *Host) typeFromVariant(t global.VariantType) abi.TypeFromVariantFunc {
	switch t {
	case global.VariantTypeBool:
		return func(out abi.TypePtr, in abi.VariantPtr) {
			*(*abi.Bool)(unsafe.Pointer(out)) = abi.Bool(variantPayload(in))
		}
	case global.VariantTypeInt:
		return func(out abi.TypePtr, in abi.VariantPtr) {
			*(*int64)(unsafe.Pointer(out)) = int64(variantPayload(in))
		}
	case global.VariantTypeFloat:
		return func(out abi.TypePtr, in abi.VariantPtr) {
			*(*float64)(unsafe.Pointer(out)) = math.Float64frombits(variantPayload(in))
		}
	case global.VariantTypeString:
		return func(out abi.TypePtr, in abi.VariantPtr) {
			s := ""
			if variantType(in) == global.VariantTypeString {
				s = h.strings[uintptr(variantPayload(in))]
			}
			*(*uintptr)(unsafe.Pointer(out)) = h.newString(s)
		}
	case global.VariantTypeObject:
		return func(out abi.TypePtr, in abi.VariantPtr) {
			var ptr abi.ObjectPtr
			if variantType(in) == global.VariantTypeObject {
				ptr = abi.ObjectPtr(variantPayload(in))
			}
			*(*abi.ObjectPtr)(unsafe.Pointer(out)) = ptr
		}
	}
	return nil
}

func (h *Host) newString(s string) uintptr {
	id := h.nextString
	h.nextString++
	h.strings[id] = s
	return id
}

func (h *Host) stringNew(out abi.TypePtr, contents *byte) {
	*(*uintptr)(unsafe.Pointer(out)) = h.newString(abi.GoString(contents))
}

func (h *Host) stringToUTF8(s abi.TypePtr, text *byte, maxWriteLength int64) int64 {
	str := h.strings[*(*uintptr)(unsafe.Pointer(s))]
	if text != nil && maxWriteLength > 0 {
		n := min(int64(len(str)), maxWriteLength)
		copy(unsafe.Slice(text, n), str)
	}
	return int64(len(str))
}

func (h *Host) stringDestroy(s abi.TypePtr) {
	delete(h.strings, *(*uintptr)(unsafe.Pointer(s)))
}

// NewVariant encodes a Go value as a host variant. Supported values are nil,
// bool, int, int64, float64, string and abi.ObjectPtr. String variants own a
// host string until destroyed.
func (h *Host) NewVariant(value any) *abi.OpaqueVariant {
	v := new(abi.OpaqueVariant)
	p := v.VarPtr()
	switch x := value.(type) {
	case nil:
		setVariant(p, global.VariantTypeNil, 0)
	case bool:
		setVariant(p, global.VariantTypeBool, uint64(abi.BoolOf(x)))
	case int:
		setVariant(p, global.VariantTypeInt, uint64(int64(x)))
	case int64:
		setVariant(p, global.VariantTypeInt, uint64(x))
	case float64:
		setVariant(p, global.VariantTypeFloat, math.Float64bits(x))
	case string:
		setVariant(p, global.VariantTypeString, uint64(h.newString(x)))
	case abi.ObjectPtr:
		setVariant(p, global.VariantTypeObject, uint64(x))
	default:
		panic(fmt.Sprintf("hosttest: unsupported variant value %T", value))
	}
	return v
}

// VariantValue decodes a host variant into a Go value: nil, bool, int64,
// float64, string or abi.ObjectPtr.
func (h *Host) VariantValue(p abi.VariantPtr) any {
	payload := variantPayload(p)
	switch variantType(p) {
	case global.VariantTypeBool:
		return payload != 0
	case global.VariantTypeInt:
		return int64(payload)
	case global.VariantTypeFloat:
		return math.Float64frombits(payload)
	case global.VariantTypeString:
		return h.strings[uintptr(payload)]
	case global.VariantTypeObject:
		return abi.ObjectPtr(payload)
	default:
		return nil
	}
}

// Call invokes a registered method through the variant calling convention,
// the way a script would.
func (h *Host) Call(ptr abi.ObjectPtr, method string, args ...any) (any, error) {
	info, err := h.method(ptr, method)
	if err != nil {
		return nil, err
	}

	argv := make([]*abi.OpaqueVariant, len(args))
	argp := make([]abi.VariantPtr, len(args))
	for i, a := range args {
		argv[i] = h.NewVariant(a)
		argp[i] = argv[i].VarPtr()
	}
	defer func() {
		for _, v := range argv {
			h.variantDestroy(v.VarPtr())
		}
	}()

	var ret abi.OpaqueVariant
	var callErr abi.CallError
	info.Call(info.MethodUserdata, h.instanceOf(ptr), argp, ret.VarPtr(), &callErr)
	if callErr.Error != abi.CallOK {
		return nil, &CallError{Method: method, Err: callErr}
	}

	value := h.VariantValue(ret.VarPtr())
	h.variantDestroy(ret.VarPtr())
	return value, nil
}

// Get reads a property through its registered getter.
func (h *Host) Get(ptr abi.ObjectPtr, property string) (any, error) {
	p, err := h.property(ptr, property)
	if err != nil {
		return nil, err
	}
	if p.Getter == "" {
		return nil, fmt.Errorf("hosttest: property %q is write-only", property)
	}
	return h.Call(ptr, p.Getter)
}

// Set writes a property through its registered setter.
func (h *Host) Set(ptr abi.ObjectPtr, property string, value any) error {
	p, err := h.property(ptr, property)
	if err != nil {
		return err
	}
	if p.Setter == "" {
		return fmt.Errorf("hosttest: property %q is read-only", property)
	}
	_, err = h.Call(ptr, p.Setter, value)
	return err
}

func (h *Host) property(ptr abi.ObjectPtr, name string) (Property, error) {
	o, ok := h.objects[ptr]
	if !ok {
		return Property{}, fmt.Errorf("hosttest: no object at %#x", uintptr(ptr))
	}
	for class := o.Class; class != ""; class = h.parentOf(class) {
		if c, ok := h.classes[class]; ok {
			if p, ok := c.Property(name); ok {
				return p, nil
			}
		}
	}
	return Property{}, fmt.Errorf("hosttest: class %s has no property %q", o.Class, name)
}

func (h *Host) instanceOf(ptr abi.ObjectPtr) abi.InstancePtr {
	if o, ok := h.objects[ptr]; ok {
		return o.Instance
	}
	return 0
}

// CallError is returned by Call when the method reports a call error.
type CallError struct {
	Method string
	Err    abi.CallError
}

func (e *CallError) Error() string {
	return fmt.Sprintf("hosttest: call %s failed: error %d (argument %d, expected %d)",
		e.Method, e.Err.Error, e.Err.Argument, e.Err.Expected)
}
