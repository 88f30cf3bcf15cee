package gdext

import (
	"github.com/mardigontoler/gdext/errors"
	"github.com/mardigontoler/gdext/global"
	"github.com/mardigontoler/gdext/internal/abi"
)

// DefaultBaseClass is the host class extension classes derive from unless
// they implement BaseClassName.
const DefaultBaseClass = "Object"

// GodotAPI is implemented by *T for classes that register methods. Generated
// export code asserts it, so exporting fields without a RegisterMethods
// method fails to compile.
type GodotAPI[T Class] interface {
	RegisterMethods(b *ClassBuilder[T])
}

// ImplementsGodotExports is implemented by *T through the generated
// RegisterExports method.
type ImplementsGodotExports[T Class] interface {
	RegisterExports(b *ClassBuilder[T])
}

type baseClasser interface {
	BaseClassName() string
}

func baseClassOf[T Class]() string {
	var zero T
	if b, ok := any(zero).(baseClasser); ok && b.BaseClassName() != "" {
		return b.BaseClassName()
	}
	return DefaultBaseClass
}

type classRecord struct {
	name       string
	parent     string
	info       *abi.ClassCreationInfo
	methods    map[string]*abi.MethodInfo
	properties map[string]PropertyInfo
	// registration order, for introspection
	methodOrder   []string
	propertyOrder []string
}

// Register registers T with the host's class registry, then lets T register
// its methods (GodotAPI) and exported properties (ImplementsGodotExports).
// The first failure is returned and the class is unregistered again.
func Register[T Class](rt *Runtime) error {
	name := className[T]()
	if name == "" {
		return &errors.RegistrationError{Class: "<unnamed>", Reason: "ClassName returned an empty string"}
	}
	if _, dup := rt.classIndex[name]; dup {
		return &errors.RegistrationError{Class: name, Reason: "class already registered"}
	}

	rec := &classRecord{
		name:       name,
		parent:     baseClassOf[T](),
		methods:    make(map[string]*abi.MethodInfo),
		properties: make(map[string]PropertyInfo),
	}
	rec.info = &abi.ClassCreationInfo{
		CreateInstance: createInstanceFunc[T](rt, rec),
		FreeInstance: func(_ uintptr, instance abi.InstancePtr) {
			rt.logger.Debug("instance freed", "class", rec.name, "object", uint64(instance))
		},
	}

	rt.iface.ClassdbRegisterExtensionClass(rt.library, rt.cstr(name), rt.cstr(rec.parent), rec.info)
	rt.classes = append(rt.classes, rec)
	rt.classIndex[name] = rec
	rt.logger.Debug("registered class", "class", name, "base", rec.parent)

	b := &ClassBuilder[T]{rt: rt, class: rec}
	if api, ok := any(new(T)).(GodotAPI[T]); ok {
		api.RegisterMethods(b)
	}
	if exports, ok := any(new(T)).(ImplementsGodotExports[T]); ok {
		exports.RegisterExports(b)
	}

	if err := b.Err(); err != nil {
		rt.iface.ClassdbUnregisterExtensionClass(rt.library, rt.cstr(name))
		rt.classes = rt.classes[:len(rt.classes)-1]
		delete(rt.classIndex, name)
		return err
	}
	return nil
}

// createInstanceFunc builds the host's create callback for T. The base object
// is constructed first and the extension instance attached to it. When the
// host itself initiates construction (for example from a scene file) the
// default user storage is installed here.
func createInstanceFunc[T Class](rt *Runtime, rec *classRecord) func(uintptr) abi.ObjectPtr {
	return func(_ uintptr) abi.ObjectPtr {
		rt.constructing++
		ptr := rt.iface.ClassdbConstructObject(rt.cstr(rec.parent))
		rt.constructing--
		if ptr == 0 {
			rt.logger.Error("failed to construct base object", "class", rec.name, "base", rec.parent)
			return 0
		}

		rt.iface.ObjectSetInstance(ptr, rt.cstr(rec.name), abi.InstancePtr(ptr))
		if rt.constructing == 0 {
			FromObjPtr[T](ptr).initializeDefault(rt)
		}
		return ptr
	}
}

// IsRegistered reports whether a class of that name was registered through rt.
func (rt *Runtime) IsRegistered(class string) bool {
	_, ok := rt.classIndex[class]
	return ok
}

// ClassBuilder collects a class's method and property registrations.
// Errors are accumulated; Register returns the first one.
type ClassBuilder[T Class] struct {
	rt     *Runtime
	class  *classRecord
	errors []error
}

// ClassName returns the name of the class being registered.
func (b *ClassBuilder[T]) ClassName() string {
	return b.class.name
}

// Runtime returns the runtime the class is registered with.
func (b *ClassBuilder[T]) Runtime() *Runtime {
	return b.rt
}

// Err returns the first registration error, if any.
func (b *ClassBuilder[T]) Err() error {
	if len(b.errors) > 0 {
		return b.errors[0]
	}
	return nil
}

// Methods returns the names of the methods registered so far.
func (b *ClassBuilder[T]) Methods() []string {
	return append([]string(nil), b.class.methodOrder...)
}

// Properties returns the names of the properties registered so far.
func (b *ClassBuilder[T]) Properties() []string {
	return append([]string(nil), b.class.propertyOrder...)
}

func (b *ClassBuilder[T]) fail(member, reason string) {
	b.errors = append(b.errors, &errors.RegistrationError{Class: b.class.name, Member: member, Reason: reason})
}

// RegisterProperty hands a property record to the host together with the
// names of its accessor methods. An empty setter or getter means the
// accessor is omitted. Named accessors must already be registered methods.
func (b *ClassBuilder[T]) RegisterProperty(info PropertyInfo, setter, getter string) {
	switch {
	case info.Name == "":
		b.fail("<unnamed>", "property name is empty")
		return
	case info.Type == global.VariantTypeNil:
		b.fail(info.Name, "property type cannot be exported")
		return
	}
	if _, dup := b.class.properties[info.Name]; dup {
		b.fail(info.Name, "duplicate property")
		return
	}
	for _, accessor := range []string{setter, getter} {
		if accessor == "" {
			continue
		}
		if _, ok := b.class.methods[accessor]; !ok {
			b.fail(info.Name, "accessor "+accessor+" is not a registered method")
			return
		}
	}

	rec := info.toABI(b.rt)
	b.rt.iface.ClassdbRegisterExtensionClassProperty(b.rt.library, b.rt.cstr(b.class.name), &rec, b.rt.cstr(setter), b.rt.cstr(getter))
	b.class.properties[info.Name] = info
	b.class.propertyOrder = append(b.class.propertyOrder, info.Name)

	b.rt.logger.Debug("registered property",
		"class", b.class.name,
		"property", info.Name,
		"getter", getter,
		"setter", setter)
}

func (b *ClassBuilder[T]) registerMethod(info *abi.MethodInfo, name string) {
	if name == "" {
		b.fail("<unnamed>", "method name is empty")
		return
	}
	if _, dup := b.class.methods[name]; dup {
		b.fail(name, "duplicate method")
		return
	}
	info.Name = b.rt.cstr(name)
	b.rt.iface.ClassdbRegisterExtensionClassMethod(b.rt.library, b.rt.cstr(b.class.name), info)
	b.class.methods[name] = info
	b.class.methodOrder = append(b.class.methodOrder, name)

	b.rt.logger.Debug("registered method", "class", b.class.name, "method", name)
}
