package gdext

import (
	"github.com/mardigontoler/gdext/global"
	"github.com/mardigontoler/gdext/internal/abi"
)

// RegisterMethod0 registers fn as a host-callable method without arguments
// or result.
func RegisterMethod0[T Class](b *ClassBuilder[T], name string, fn func(*T)) {
	rt := b.rt
	info := newMethodInfo(b.rt, nil, nil)
	info.Call = func(_ uintptr, inst abi.InstancePtr, args []abi.VariantPtr, ret abi.VariantPtr, callErr *abi.CallError) {
		if !checkArgs(rt, args, nil, callErr) {
			return
		}
		invoke(rt, inst, fn)
		rt.iface.VariantNewNil(ret)
	}
	info.PtrCall = func(_ uintptr, inst abi.InstancePtr, _ []abi.TypePtr, _ abi.TypePtr) {
		invoke(rt, inst, fn)
	}
	b.registerMethod(info, name)
}

// RegisterMethod0R registers fn as a host-callable method returning R.
func RegisterMethod0R[T Class, R any](b *ClassBuilder[T], name string, fn func(*T) R) {
	retT, ok := variantTypeOf[R]()
	if !ok {
		b.fail(name, "unsupported return type")
		return
	}
	rt := b.rt
	info := newMethodInfo(b.rt, nil, &retT)
	info.Call = func(_ uintptr, inst abi.InstancePtr, args []abi.VariantPtr, ret abi.VariantPtr, callErr *abi.CallError) {
		if !checkArgs(rt, args, nil, callErr) {
			return
		}
		var r R
		invoke(rt, inst, func(t *T) { r = fn(t) })
		writeVariant(rt, ret, r)
	}
	info.PtrCall = func(_ uintptr, inst abi.InstancePtr, _ []abi.TypePtr, ret abi.TypePtr) {
		var r R
		invoke(rt, inst, func(t *T) { r = fn(t) })
		writeTypePtr(rt, ret, r)
	}
	b.registerMethod(info, name)
}

// RegisterMethod1 registers fn as a host-callable method taking one argument.
func RegisterMethod1[T Class, A any](b *ClassBuilder[T], name string, fn func(*T, A)) {
	argT, ok := variantTypeOf[A]()
	if !ok {
		b.fail(name, "unsupported argument type")
		return
	}
	rt := b.rt
	params := []global.VariantType{argT}
	info := newMethodInfo(b.rt, params, nil)
	info.Call = func(_ uintptr, inst abi.InstancePtr, args []abi.VariantPtr, ret abi.VariantPtr, callErr *abi.CallError) {
		if !checkArgs(rt, args, params, callErr) {
			return
		}
		a := readVariant[A](rt, args[0])
		invoke(rt, inst, func(t *T) { fn(t, a) })
		rt.iface.VariantNewNil(ret)
	}
	info.PtrCall = func(_ uintptr, inst abi.InstancePtr, args []abi.TypePtr, _ abi.TypePtr) {
		a := readTypePtr[A](rt, args[0])
		invoke(rt, inst, func(t *T) { fn(t, a) })
	}
	b.registerMethod(info, name)
}

// RegisterMethod1R registers fn as a host-callable method taking one argument
// and returning R.
func RegisterMethod1R[T Class, A, R any](b *ClassBuilder[T], name string, fn func(*T, A) R) {
	argT, okA := variantTypeOf[A]()
	retT, okR := variantTypeOf[R]()
	switch {
	case !okA:
		b.fail(name, "unsupported argument type")
		return
	case !okR:
		b.fail(name, "unsupported return type")
		return
	}
	rt := b.rt
	params := []global.VariantType{argT}
	info := newMethodInfo(b.rt, params, &retT)
	info.Call = func(_ uintptr, inst abi.InstancePtr, args []abi.VariantPtr, ret abi.VariantPtr, callErr *abi.CallError) {
		if !checkArgs(rt, args, params, callErr) {
			return
		}
		a := readVariant[A](rt, args[0])
		var r R
		invoke(rt, inst, func(t *T) { r = fn(t, a) })
		writeVariant(rt, ret, r)
	}
	info.PtrCall = func(_ uintptr, inst abi.InstancePtr, args []abi.TypePtr, ret abi.TypePtr) {
		a := readTypePtr[A](rt, args[0])
		var r R
		invoke(rt, inst, func(t *T) { r = fn(t, a) })
		writeTypePtr(rt, ret, r)
	}
	b.registerMethod(info, name)
}

func newMethodInfo(rt *Runtime, params []global.VariantType, ret *global.VariantType) *abi.MethodInfo {
	info := &abi.MethodInfo{
		Flags:         abi.MethodFlagsDefault,
		ArgumentCount: uint32(len(params)),
	}
	for _, p := range params {
		info.ArgumentsInfo = append(info.ArgumentsInfo, abi.PropertyInfo{
			Type:       uint32(p),
			Name:       rt.cstr(""),
			ClassName:  rt.cstr(""),
			HintString: rt.cstr(""),
			Usage:      uint32(global.PropertyUsageDefault),
		})
	}
	if ret != nil {
		info.HasReturnValue = abi.BoolOf(true)
		info.ReturnValueInfo = &abi.PropertyInfo{
			Type:       uint32(*ret),
			Name:       rt.cstr(""),
			ClassName:  rt.cstr(""),
			HintString: rt.cstr(""),
			Usage:      uint32(global.PropertyUsageDefault),
		}
	}
	return info
}

// checkArgs validates argument count and types of a variant call and fills
// callErr on mismatch.
func checkArgs(rt *Runtime, args []abi.VariantPtr, params []global.VariantType, callErr *abi.CallError) bool {
	switch {
	case len(args) < len(params):
		*callErr = abi.CallError{Error: abi.CallErrorTooFewArguments, Expected: int32(len(params))}
		return false
	case len(args) > len(params):
		*callErr = abi.CallError{Error: abi.CallErrorTooManyArguments, Expected: int32(len(params))}
		return false
	}
	for i, want := range params {
		if got := rt.iface.VariantGetType(args[i]); got != want {
			*callErr = abi.CallError{Error: abi.CallErrorInvalidArgument, Argument: int32(i), Expected: int32(want)}
			return false
		}
	}
	*callErr = abi.CallError{Error: abi.CallOK}
	return true
}

// invoke runs fn on the user struct behind inst under an exclusive borrow.
func invoke[T Class](rt *Runtime, inst abi.InstancePtr, fn func(*T)) {
	m := storageOf[T](rt, abi.ObjectPtr(inst)).borrowMut()
	defer m.Release()
	fn(m.Get())
}
