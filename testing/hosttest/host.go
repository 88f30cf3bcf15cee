// Package hosttest provides an in-process substitute for the host object
// system. It implements the full abi.Interface table in Go: objects with
// instance ids, instance bindings, a class registry that records every
// class, method and property registration, variants and strings.
//
// Object pointers handed out by Host are opaque numbers; nothing ever
// dereferences them.
package hosttest

import (
	"fmt"
	"sort"

	"github.com/mardigontoler/gdext/global"
	"github.com/mardigontoler/gdext/internal/abi"
)

// DefaultLibrary is the class library token used when none is given.
const DefaultLibrary abi.ClassLibraryPtr = 0x600d

const refCountedBit = uint64(1) << 63

// builtinClasses are the host classes that can be constructed without
// registration, mapped to their parent.
var builtinClasses = map[string]string{
	"Object":     "",
	"RefCounted": "Object",
	"Resource":   "RefCounted",
	"Node":       "Object",
	"Node2D":     "Node",
	"Node3D":     "Node",
}

// Message is one call to the host's print functions.
type Message struct {
	Description string
	Function    string
	File        string
	Line        int32
}

// Object is the host-side state of one live object.
type Object struct {
	callbacks *abi.InstanceBindingCallbacks
	Class     string
	Ptr       abi.ObjectPtr
	ID        uint64
	Instance  abi.InstancePtr
	Binding   uintptr
	// InstanceClass is the extension class whose instance is attached.
	InstanceClass string
}

// Property is a recorded property registration.
type Property struct {
	Name       string
	ClassName  string
	HintString string
	Setter     string
	Getter     string
	Type       global.VariantType
	Hint       global.PropertyHint
	Usage      global.PropertyUsageFlags
}

// Class is a recorded extension class registration.
type Class struct {
	Info        *abi.ClassCreationInfo
	Methods     map[string]*abi.MethodInfo
	Name        string
	Parent      string
	MethodOrder []string
	Properties  []Property
}

// Property returns the registered property with that name.
func (c *Class) Property(name string) (Property, bool) {
	for _, p := range c.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Option configures a Host.
type Option func(*Host)

// WithLibrary sets the class library token the host expects.
func WithLibrary(library abi.ClassLibraryPtr) Option {
	return func(h *Host) {
		h.library = library
	}
}

// Host is the substitute host. It is not safe for concurrent use.
type Host struct {
	iface   abi.Interface
	library abi.ClassLibraryPtr

	objects map[abi.ObjectPtr]*Object
	byID    map[uint64]*Object
	nextPtr abi.ObjectPtr
	nextID  uint64

	classes    map[string]*Class
	classOrder []string
	// unregistered lists classes in unregistration order.
	unregistered []string

	strings    map[uintptr]string
	nextString uintptr

	failConstruct map[string]bool

	Errors   []Message
	Warnings []Message
}

// New creates a host with no objects and no registered classes.
func New(opts ...Option) *Host {
	h := &Host{
		library:       DefaultLibrary,
		objects:       make(map[abi.ObjectPtr]*Object),
		byID:          make(map[uint64]*Object),
		nextPtr:       0x10000,
		nextID:        1,
		classes:       make(map[string]*Class),
		strings:       make(map[uintptr]string),
		nextString:    1,
		failConstruct: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.iface = h.buildInterface()
	return h
}

// Interface returns a copy of the host's interface table. Callers may clear
// entries on the copy to simulate an incomplete host.
func (h *Host) Interface() *abi.Interface {
	iface := h.iface
	return &iface
}

// Library returns the class library token.
func (h *Host) Library() abi.ClassLibraryPtr {
	return h.library
}

// FailConstruct makes construction of class return null.
func (h *Host) FailConstruct(class string) {
	h.failConstruct[class] = true
}

// Object returns the live object at ptr.
func (h *Host) Object(ptr abi.ObjectPtr) (*Object, bool) {
	o, ok := h.objects[ptr]
	return o, ok
}

// ObjectCount returns the number of live objects.
func (h *Host) ObjectCount() int {
	return len(h.objects)
}

// Class returns a registered extension class.
func (h *Host) Class(name string) (*Class, bool) {
	c, ok := h.classes[name]
	return c, ok
}

// Classes returns the registered extension class names in registration order.
func (h *Host) Classes() []string {
	return append([]string(nil), h.classOrder...)
}

// Unregistered returns the class names passed to unregister, in call order.
func (h *Host) Unregistered() []string {
	return append([]string(nil), h.unregistered...)
}

// LiveStrings returns the number of host strings not yet destroyed.
func (h *Host) LiveStrings() int {
	return len(h.strings)
}

// Destroy destroys an object as if the host freed it.
func (h *Host) Destroy(ptr abi.ObjectPtr) {
	h.objectDestroy(ptr)
}

// CreateFromHost constructs an object of class the way the host does when it
// instantiates a class on its own, for example while loading a scene.
func (h *Host) CreateFromHost(class string) abi.ObjectPtr {
	return h.constructObject(class)
}

func (h *Host) buildInterface() abi.Interface {
	return abi.Interface{
		VersionMajor:  4,
		VersionMinor:  0,
		VersionPatch:  0,
		VersionString: "hosttest 4.0",

		PrintError: func(description, function, file *byte, line int32) {
			h.Errors = append(h.Errors, message(description, function, file, line))
		},
		PrintWarning: func(description, function, file *byte, line int32) {
			h.Warnings = append(h.Warnings, message(description, function, file, line))
		},

		VariantNewNil:  func(out abi.VariantPtr) { setVariant(out, global.VariantTypeNil, 0) },
		VariantDestroy: h.variantDestroy,
		VariantGetType: variantType,

		GetVariantFromTypeConstructor: h.variantFromType,
		GetVariantToTypeConstructor:   h.typeFromVariant,

		StringNewWithUTF8Chars: h.stringNew,
		StringToUTF8Chars:      h.stringToUTF8,
		StringDestroy:          h.stringDestroy,

		ClassdbConstructObject: func(className *byte) abi.ObjectPtr {
			return h.constructObject(abi.GoString(className))
		},
		ObjectDestroy:            h.objectDestroy,
		ObjectGetInstanceFromID:  h.objectFromID,
		ObjectGetInstanceID:      h.objectID,
		ObjectSetInstance:        h.objectSetInstance,
		ObjectGetInstanceBinding: h.objectGetBinding,
		ObjectSetInstanceBinding: h.objectSetBinding,

		ClassdbRegisterExtensionClass:         h.registerClass,
		ClassdbRegisterExtensionClassMethod:   h.registerMethod,
		ClassdbRegisterExtensionClassProperty: h.registerProperty,
		ClassdbUnregisterExtensionClass:       h.unregisterClass,
	}
}

func message(description, function, file *byte, line int32) Message {
	return Message{
		Description: abi.GoString(description),
		Function:    abi.GoString(function),
		File:        abi.GoString(file),
		Line:        line,
	}
}

func (h *Host) isRefCounted(class string) bool {
	for class != "" {
		if class == "RefCounted" {
			return true
		}
		class = h.parentOf(class)
	}
	return false
}

func (h *Host) parentOf(class string) string {
	if c, ok := h.classes[class]; ok {
		return c.Parent
	}
	return builtinClasses[class]
}

func (h *Host) constructObject(class string) abi.ObjectPtr {
	if h.failConstruct[class] {
		return 0
	}
	if c, ok := h.classes[class]; ok {
		ptr := c.Info.CreateInstance(c.Info.ClassUserdata)
		if o, live := h.objects[ptr]; live {
			o.Class = class
			if h.isRefCounted(class) {
				delete(h.byID, o.ID)
				o.ID |= refCountedBit
				h.byID[o.ID] = o
			}
		}
		return ptr
	}
	if _, ok := builtinClasses[class]; !ok {
		return 0
	}

	h.nextPtr += 0x10
	id := h.nextID
	h.nextID++
	if h.isRefCounted(class) {
		id |= refCountedBit
	}
	o := &Object{Ptr: h.nextPtr, ID: id, Class: class}
	h.objects[o.Ptr] = o
	h.byID[id] = o
	return o.Ptr
}

func (h *Host) objectDestroy(ptr abi.ObjectPtr) {
	o, ok := h.objects[ptr]
	if !ok {
		return
	}
	if o.Binding != 0 && o.callbacks != nil && o.callbacks.Free != nil {
		o.callbacks.Free(h.library, ptr, o.Binding)
	}
	if o.Instance != 0 {
		if c, ok := h.classes[o.InstanceClass]; ok && c.Info.FreeInstance != nil {
			c.Info.FreeInstance(c.Info.ClassUserdata, o.Instance)
		}
	}
	delete(h.objects, ptr)
	delete(h.byID, o.ID)
}

func (h *Host) objectFromID(id uint64) abi.ObjectPtr {
	if o, ok := h.byID[id]; ok {
		return o.Ptr
	}
	return 0
}

func (h *Host) objectID(ptr abi.ObjectPtr) uint64 {
	if o, ok := h.objects[ptr]; ok {
		return o.ID
	}
	return 0
}

func (h *Host) objectSetInstance(ptr abi.ObjectPtr, className *byte, instance abi.InstancePtr) {
	if o, ok := h.objects[ptr]; ok {
		o.Instance = instance
		o.InstanceClass = abi.GoString(className)
	}
}

func (h *Host) objectGetBinding(ptr abi.ObjectPtr, token abi.ClassLibraryPtr, callbacks *abi.InstanceBindingCallbacks) uintptr {
	o, ok := h.objects[ptr]
	if !ok || token != h.library {
		return 0
	}
	if o.Binding == 0 && callbacks != nil && callbacks.Create != nil {
		if b := callbacks.Create(token, ptr); b != 0 {
			o.Binding = b
			o.callbacks = callbacks
		}
	}
	return o.Binding
}

func (h *Host) objectSetBinding(ptr abi.ObjectPtr, token abi.ClassLibraryPtr, binding uintptr, callbacks *abi.InstanceBindingCallbacks) {
	o, ok := h.objects[ptr]
	if !ok || token != h.library {
		return
	}
	o.Binding = binding
	o.callbacks = callbacks
}

func (h *Host) registerClass(library abi.ClassLibraryPtr, className, parentClassName *byte, info *abi.ClassCreationInfo) {
	name := abi.GoString(className)
	if library != h.library {
		h.Errors = append(h.Errors, Message{Description: "register class " + name + ": unknown library"})
		return
	}
	if _, dup := h.classes[name]; dup {
		h.Errors = append(h.Errors, Message{Description: "class " + name + " already registered"})
		return
	}
	h.classes[name] = &Class{
		Info:    info,
		Methods: make(map[string]*abi.MethodInfo),
		Name:    name,
		Parent:  abi.GoString(parentClassName),
	}
	h.classOrder = append(h.classOrder, name)
}

func (h *Host) registerMethod(_ abi.ClassLibraryPtr, className *byte, info *abi.MethodInfo) {
	c, ok := h.classes[abi.GoString(className)]
	if !ok {
		return
	}
	name := abi.GoString(info.Name)
	c.Methods[name] = info
	c.MethodOrder = append(c.MethodOrder, name)
}

func (h *Host) registerProperty(_ abi.ClassLibraryPtr, className *byte, info *abi.PropertyInfo, setter, getter *byte) {
	c, ok := h.classes[abi.GoString(className)]
	if !ok {
		return
	}
	c.Properties = append(c.Properties, Property{
		Name:       abi.GoString(info.Name),
		ClassName:  abi.GoString(info.ClassName),
		HintString: abi.GoString(info.HintString),
		Setter:     abi.GoString(setter),
		Getter:     abi.GoString(getter),
		Type:       global.VariantType(info.Type),
		Hint:       global.PropertyHint(info.Hint),
		Usage:      global.PropertyUsageFlags(info.Usage),
	})
}

func (h *Host) unregisterClass(_ abi.ClassLibraryPtr, className *byte) {
	name := abi.GoString(className)
	if _, ok := h.classes[name]; !ok {
		return
	}
	delete(h.classes, name)
	for i, n := range h.classOrder {
		if n == name {
			h.classOrder = append(h.classOrder[:i], h.classOrder[i+1:]...)
			break
		}
	}
	h.unregistered = append(h.unregistered, name)
}

// method finds a method on the object's class or its extension ancestors.
func (h *Host) method(ptr abi.ObjectPtr, name string) (*abi.MethodInfo, error) {
	o, ok := h.objects[ptr]
	if !ok {
		return nil, fmt.Errorf("hosttest: no object at %#x", uintptr(ptr))
	}
	for class := o.Class; class != ""; class = h.parentOf(class) {
		if c, ok := h.classes[class]; ok {
			if m, ok := c.Methods[name]; ok {
				return m, nil
			}
		}
	}
	return nil, fmt.Errorf("hosttest: class %s has no method %q", o.Class, name)
}

// MethodNames returns the sorted method names of a registered class.
func (h *Host) MethodNames(class string) []string {
	c, ok := h.classes[class]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(c.Methods))
	for n := range c.Methods {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
