// Package abi is the Go rendering of the host's extension ABI: opaque pointer
// types, opaque value blobs and the C-compatible records the class registry
// consumes. Nothing here dereferences host memory; it only describes layout.
package abi

import (
	"unsafe"
)

// PointerSize is the size of a native pointer on the target platform.
const PointerSize = unsafe.Sizeof(uintptr(0))

// VariantSize is the size of the host's variant storage.
const VariantSize = 24

// ObjectPtr is the host's native object pointer (Object*). It is an address in
// host memory and is never dereferenced on the Go side.
type ObjectPtr uintptr

// ClassLibraryPtr is the token identifying this extension to the host.
type ClassLibraryPtr uintptr

// TypePtr points at the storage of a value (for objects: the address of a
// slot holding an ObjectPtr).
type TypePtr unsafe.Pointer

// VariantPtr points at variant storage.
type VariantPtr unsafe.Pointer

// InstancePtr is the extension-side instance attached to a host object.
type InstancePtr uintptr

// OpaqueObject holds the bytes of an ObjectPtr. The zero-length uintptr array
// gives it pointer alignment.
type OpaqueObject struct {
	_ [0]uintptr
	b [PointerSize]byte
}

// Layout of OpaqueObject must match ObjectPtr exactly. Each line fails to
// compile (constant overflow) when the left side is smaller than the right.
const (
	_ = unsafe.Sizeof(OpaqueObject{}) - unsafe.Sizeof(ObjectPtr(0))
	_ = unsafe.Sizeof(ObjectPtr(0)) - unsafe.Sizeof(OpaqueObject{})
	_ = unsafe.Alignof(OpaqueObject{}) - unsafe.Alignof(ObjectPtr(0))
	_ = unsafe.Alignof(ObjectPtr(0)) - unsafe.Alignof(OpaqueObject{})
)

// OpaqueFromPtr stores p into a fresh OpaqueObject.
func OpaqueFromPtr(p ObjectPtr) OpaqueObject {
	var o OpaqueObject
	*(*ObjectPtr)(unsafe.Pointer(&o.b)) = p
	return o
}

// Ptr reinterprets the bytes as an ObjectPtr.
func (o *OpaqueObject) Ptr() ObjectPtr {
	return *(*ObjectPtr)(unsafe.Pointer(&o.b))
}

// TypePtr returns the address of the stored pointer (Object**).
func (o *OpaqueObject) TypePtr() TypePtr {
	return TypePtr(unsafe.Pointer(&o.b))
}

// IsNull reports whether the stored pointer is null.
func (o *OpaqueObject) IsNull() bool {
	return o.Ptr() == 0
}

// OpaqueVariant is uninterpreted variant storage.
type OpaqueVariant struct {
	_ [0]uint64
	b [VariantSize]byte
}

// VarPtr returns the address of the variant storage.
func (v *OpaqueVariant) VarPtr() VariantPtr {
	return VariantPtr(unsafe.Pointer(&v.b))
}

// OpaqueString is the pointer-sized storage of a host string.
type OpaqueString struct {
	_ [0]uintptr
	b [PointerSize]byte
}

// TypePtr returns the address of the string storage.
func (s *OpaqueString) TypePtr() TypePtr {
	return TypePtr(unsafe.Pointer(&s.b))
}

// Bool is the host's one-byte boolean.
type Bool uint8

// BoolOf converts a Go bool.
func BoolOf(b bool) Bool {
	if b {
		return 1
	}
	return 0
}
