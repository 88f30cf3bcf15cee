package abi

import "github.com/mardigontoler/gdext/global"

// VariantFromTypeFunc builds a variant in out from the value stored at in.
type VariantFromTypeFunc func(out VariantPtr, in TypePtr)

// TypeFromVariantFunc writes the value held by in into the storage at out.
type TypeFromVariantFunc func(out TypePtr, in VariantPtr)

// InstanceBindingCallbacks is the callback table presented with every
// instance-binding call.
type InstanceBindingCallbacks struct {
	// Create is asked for a binding when none exists yet. Returning 0 leaves
	// the slot empty.
	Create func(token ClassLibraryPtr, instance ObjectPtr) uintptr
	// Free runs when the host object is destroyed.
	Free func(token ClassLibraryPtr, instance ObjectPtr, binding uintptr)
	// Reference is told about reference count changes of ref-counted objects.
	Reference func(token ClassLibraryPtr, binding uintptr, reference bool) bool
}

// ClassCreationInfo describes an extension class to the class registry.
type ClassCreationInfo struct {
	CreateInstance func(classUserdata uintptr) ObjectPtr
	FreeInstance   func(classUserdata uintptr, instance InstancePtr)
	ClassUserdata  uintptr
}

// CallErrorType is the status of a variant call.
type CallErrorType uint32

const (
	CallOK CallErrorType = iota
	CallErrorInvalidMethod
	CallErrorInvalidArgument
	CallErrorTooManyArguments
	CallErrorTooFewArguments
	CallErrorInstanceIsNull
	CallErrorMethodNotConst
)

// CallError reports why a variant call failed.
type CallError struct {
	Error    CallErrorType
	Argument int32
	Expected int32
}

// MethodCallFunc is the variant calling convention.
type MethodCallFunc func(methodUserdata uintptr, instance InstancePtr, args []VariantPtr, ret VariantPtr, callErr *CallError)

// MethodPtrCallFunc is the typed-pointer calling convention.
type MethodPtrCallFunc func(methodUserdata uintptr, instance InstancePtr, args []TypePtr, ret TypePtr)

// MethodFlags describe a bound method.
type MethodFlags uint32

const (
	MethodFlagNormal   MethodFlags = 1
	MethodFlagEditor   MethodFlags = 2
	MethodFlagConst    MethodFlags = 4
	MethodFlagVirtual  MethodFlags = 8
	MethodFlagVararg   MethodFlags = 16
	MethodFlagStatic   MethodFlags = 32
	MethodFlagsDefault             = MethodFlagNormal
)

// MethodInfo describes a bound method to the class registry.
type MethodInfo struct {
	Name            *byte
	MethodUserdata  uintptr
	Call            MethodCallFunc
	PtrCall         MethodPtrCallFunc
	Flags           MethodFlags
	ArgumentCount   uint32
	HasReturnValue  Bool
	ArgumentsInfo   []PropertyInfo
	ReturnValueInfo *PropertyInfo
}

// Interface is the host function table handed to the extension at load time.
// Every entry tagged required must be present before a runtime is built.
type Interface struct {
	VersionMajor  uint32
	VersionMinor  uint32
	VersionPatch  uint32
	VersionString string

	PrintError   func(description, function, file *byte, line int32) `validate:"required"`
	PrintWarning func(description, function, file *byte, line int32) `validate:"required"`

	VariantNewNil  func(out VariantPtr)                  `validate:"required"`
	VariantDestroy func(v VariantPtr)                    `validate:"required"`
	VariantGetType func(v VariantPtr) global.VariantType `validate:"required"`

	GetVariantFromTypeConstructor func(t global.VariantType) VariantFromTypeFunc `validate:"required"`
	GetVariantToTypeConstructor   func(t global.VariantType) TypeFromVariantFunc `validate:"required"`

	StringNewWithUTF8Chars func(out TypePtr, contents *byte)                       `validate:"required"`
	StringToUTF8Chars      func(s TypePtr, text *byte, maxWriteLength int64) int64 `validate:"required"`
	StringDestroy          func(s TypePtr)                                         `validate:"required"`

	ClassdbConstructObject   func(className *byte) ObjectPtr                                                                `validate:"required"`
	ObjectDestroy            func(o ObjectPtr)                                                                              `validate:"required"`
	ObjectGetInstanceFromID  func(id uint64) ObjectPtr                                                                      `validate:"required"`
	ObjectGetInstanceID      func(o ObjectPtr) uint64                                                                       `validate:"required"`
	ObjectSetInstance        func(o ObjectPtr, className *byte, instance InstancePtr)                                       `validate:"required"`
	ObjectGetInstanceBinding func(o ObjectPtr, token ClassLibraryPtr, callbacks *InstanceBindingCallbacks) uintptr          `validate:"required"`
	ObjectSetInstanceBinding func(o ObjectPtr, token ClassLibraryPtr, binding uintptr, callbacks *InstanceBindingCallbacks) `validate:"required"`

	ClassdbRegisterExtensionClass         func(library ClassLibraryPtr, className, parentClassName *byte, info *ClassCreationInfo) `validate:"required"`
	ClassdbRegisterExtensionClassMethod   func(library ClassLibraryPtr, className *byte, info *MethodInfo)                         `validate:"required"`
	ClassdbRegisterExtensionClassProperty func(library ClassLibraryPtr, className *byte, info *PropertyInfo, setter, getter *byte) `validate:"required"`
	ClassdbUnregisterExtensionClass       func(library ClassLibraryPtr, className *byte)                                           `validate:"required"`
}
