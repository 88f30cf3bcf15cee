package gdext

import (
	"unsafe"

	"github.com/mardigontoler/gdext/errors"
	"github.com/mardigontoler/gdext/internal/abi"
	"github.com/mardigontoler/gdext/internal/binding"
)

// Class is implemented by every Go type registered with the host. ClassName
// must not depend on the receiver's contents.
type Class interface {
	ClassName() string
}

// Obj is a typed handle to a host object whose class is T or a subclass of T.
// It has exactly the size and alignment of a host object pointer and can be
// passed wherever the host expects one. Obj is a plain value: copying it does
// not retain the object and dropping it does not release it.
type Obj[T Class] struct {
	_      [0]*T
	opaque abi.OpaqueObject
}

type layoutProbe struct{}

func (layoutProbe) ClassName() string { return "layoutProbe" }

// Obj must stay pointer-sized.
const (
	_ = unsafe.Sizeof(Obj[layoutProbe]{}) - abi.PointerSize
	_ = abi.PointerSize - unsafe.Sizeof(Obj[layoutProbe]{})
)

// IsRefCountedID reports whether an instance id belongs to a reference
// counted object. The host sets the top bit for those.
func IsRefCountedID(id uint64) bool {
	return id&(1<<63) != 0
}

func className[T Class]() string {
	var zero T
	return zero.ClassName()
}

// NewDefault asks the host to construct an object of class T and attaches
// default user storage: the zero value of T, then InitDefault when *T
// implements Defaulter. Panics with *errors.ConstructionError when the host
// returns null.
func NewDefault[T Class](rt *Runtime) Obj[T] {
	obj := construct[T](rt)
	obj.initializeDefault(rt)
	return obj
}

// New asks the host to construct an object of class T and attaches user as
// its storage. Panics with *errors.ConstructionError when the host returns
// null.
func New[T Class](rt *Runtime, user T) Obj[T] {
	obj := construct[T](rt)
	obj.initialize(rt, user)
	return obj
}

func construct[T Class](rt *Runtime) Obj[T] {
	name := className[T]()

	rt.constructing++
	ptr := rt.iface.ClassdbConstructObject(rt.cstr(name))
	rt.constructing--

	if ptr == 0 {
		panic(&errors.ConstructionError{Class: name})
	}
	return Obj[T]{opaque: abi.OpaqueFromPtr(ptr)}
}

// TryFromInstanceID looks up a live object by instance id. It reports false
// when the host knows no such object. The class of the object is not
// verified.
func TryFromInstanceID[T Class](rt *Runtime, id uint64) (Obj[T], bool) {
	ptr := rt.iface.ObjectGetInstanceFromID(id)
	if ptr == 0 {
		return Obj[T]{}, false
	}
	return Obj[T]{opaque: abi.OpaqueFromPtr(ptr)}, true
}

// FromInstanceID is TryFromInstanceID that panics with
// *errors.InstanceNotFoundError when the object does not exist.
func FromInstanceID[T Class](rt *Runtime, id uint64) Obj[T] {
	obj, ok := TryFromInstanceID[T](rt, id)
	if !ok {
		panic(&errors.InstanceNotFoundError{Class: className[T](), ID: id})
	}
	return obj
}

// FromObjPtr wraps a raw host pointer. Nothing is checked: the caller
// guarantees ptr is a live object of class T or a subclass. Any later access
// through a wrong pointer is undefined behavior.
func FromObjPtr[T Class](ptr abi.ObjectPtr) Obj[T] {
	return Obj[T]{opaque: abi.OpaqueFromPtr(ptr)}
}

// InstanceID returns the host's identifier for the object.
func (o Obj[T]) InstanceID(rt *Runtime) uint64 {
	return rt.iface.ObjectGetInstanceID(o.ObjPtr())
}

// ObjPtr returns the object pointer stored in the handle.
func (o Obj[T]) ObjPtr() abi.ObjectPtr {
	return o.opaque.Ptr()
}

// TypePtr returns the address of the handle's own storage, the Object** form
// the host's typed-pointer conventions expect.
func (o *Obj[T]) TypePtr() abi.TypePtr {
	return o.opaque.TypePtr()
}

// IsNull reports whether the handle is the zero value.
func (o Obj[T]) IsNull() bool {
	return o.opaque.IsNull()
}

// Inner borrows the user struct for reading. Panics with *errors.BorrowError
// while an exclusive borrow is held.
func (o Obj[T]) Inner(rt *Runtime) *Ref[T] {
	return o.storage(rt).borrow()
}

// InnerMut borrows the user struct for writing. Panics with
// *errors.BorrowError while any other borrow is held.
func (o Obj[T]) InnerMut(rt *Runtime) *Mut[T] {
	return o.storage(rt).borrowMut()
}

func (o Obj[T]) hostClassName() string {
	return className[T]()
}

// initialize attaches user as the object's instance storage. It must run at
// most once per object.
func (o Obj[T]) initialize(rt *Runtime, user T) {
	st := &InstanceStorage[T]{user: user}
	h := rt.bindings.Insert(binding.KeyOf[InstanceStorage[T]](), unsafe.Pointer(st))
	rt.iface.ObjectSetInstanceBinding(o.ObjPtr(), rt.library, uintptr(h), &rt.callbacks)
}

func (o Obj[T]) initializeDefault(rt *Runtime) {
	o.initialize(rt, defaultUser[T]())
}

func (o Obj[T]) storage(rt *Runtime) *InstanceStorage[T] {
	return storageOf[T](rt, o.ObjPtr())
}

// storageOf resolves the instance storage attached to ptr. Panics with
// *errors.BindingError when the object has no binding or, unless built with
// the gdext_unchecked tag, when the binding holds storage of another type.
func storageOf[T Class](rt *Runtime, ptr abi.ObjectPtr) *InstanceStorage[T] {
	fail := func(reason string) {
		panic(&errors.BindingError{
			Class:  className[T](),
			Reason: reason,
			ID:     rt.iface.ObjectGetInstanceID(ptr),
		})
	}
	h := rt.iface.ObjectGetInstanceBinding(ptr, rt.library, &rt.callbacks)
	if h == 0 {
		fail("object has no instance binding")
	}
	p, key, ok := rt.bindings.Lookup(binding.Handle(h))
	if !ok {
		fail("instance binding was already freed")
	}
	if binding.Checked && key != binding.KeyOf[InstanceStorage[T]]() {
		fail("binding holds " + key.String())
	}
	return (*InstanceStorage[T])(p)
}
