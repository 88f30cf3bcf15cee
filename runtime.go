// Package gdext binds Go struct types to classes of a host object system.
//
// A Runtime wraps the host's interface table. Classes are registered with
// Register, objects are created with New or NewDefault and referred to through
// the pointer-sized handle Obj. Exported properties are declared with
// //godot:export directives and turned into registration code by gdext-gen.
package gdext

import (
	stdErrors "errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/mardigontoler/gdext/errors"
	"github.com/mardigontoler/gdext/global"
	"github.com/mardigontoler/gdext/internal/abi"
	"github.com/mardigontoler/gdext/internal/binding"
	gdlog "github.com/mardigontoler/gdext/log"
)

// validate is a package-level singleton; building a validator is expensive.
var validate = validator.New()

// Runtime holds everything the binding layer needs from the host: the
// interface table, the library token, interned strings, the instance binding
// table and the registered classes. It is not safe for concurrent use; the
// host calls into the extension from one thread.
type Runtime struct {
	iface     *abi.Interface
	library   abi.ClassLibraryPtr
	logger    *slog.Logger
	strings   *abi.StringArena
	bindings  *binding.Table
	methods   methodTable
	callbacks abi.InstanceBindingCallbacks

	classes    []*classRecord
	classIndex map[string]*classRecord

	// constructing is non-zero while the extension itself is constructing an
	// object, so the class create callback leaves storage initialization to
	// New / NewDefault.
	constructing int
	closed       bool
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger replaces the default logger, which prints through the host.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// NewRuntime validates iface and caches the variant converters the binding
// layer uses. library is the token the host handed the extension at load time.
func NewRuntime(iface *abi.Interface, library abi.ClassLibraryPtr, opts ...Option) (*Runtime, error) {
	if err := validateInterface(iface); err != nil {
		return nil, err
	}

	rt := &Runtime{
		iface:      iface,
		library:    library,
		strings:    abi.NewStringArena(),
		bindings:   binding.NewTable(),
		classIndex: make(map[string]*classRecord),
	}
	rt.logger = slog.New(gdlog.NewHostHandler(iface.PrintError, iface.PrintWarning))
	for _, opt := range opts {
		opt(rt)
	}

	rt.callbacks = abi.InstanceBindingCallbacks{
		Create:    rt.bindingCreate,
		Free:      rt.bindingFree,
		Reference: rt.bindingReference,
	}

	methods, err := loadMethodTable(iface)
	if err != nil {
		return nil, err
	}
	rt.methods = methods

	rt.logger.Debug("runtime initialized",
		"host_version", iface.VersionString,
		"library", uint64(library))
	return rt, nil
}

func validateInterface(iface *abi.Interface) error {
	if iface == nil {
		return &errors.InterfaceError{Err: fmt.Errorf("interface table is nil")}
	}
	err := validate.Struct(iface)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stdErrors.As(err, &verrs) {
		return &errors.InterfaceError{Err: err}
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return &errors.InterfaceError{Err: err, Missing: missing}
}

// Interface returns the host interface table.
func (rt *Runtime) Interface() *abi.Interface {
	return rt.iface
}

// Library returns the class library token.
func (rt *Runtime) Library() abi.ClassLibraryPtr {
	return rt.library
}

// Logger returns the runtime logger.
func (rt *Runtime) Logger() *slog.Logger {
	return rt.logger
}

// LiveBindings returns the number of instance bindings currently installed.
func (rt *Runtime) LiveBindings() int {
	return rt.bindings.Len()
}

// Close unregisters every class in reverse registration order and drops the
// remaining bindings and interned strings. Call it when the host unloads the
// extension. Closing twice is a no-op.
func (rt *Runtime) Close() error {
	if rt.closed {
		return nil
	}
	rt.closed = true

	for i := len(rt.classes) - 1; i >= 0; i-- {
		c := rt.classes[i]
		rt.iface.ClassdbUnregisterExtensionClass(rt.library, rt.cstr(c.name))
		rt.logger.Debug("unregistered class", "class", c.name)
	}
	rt.classes = nil
	rt.classIndex = make(map[string]*classRecord)

	if n := rt.bindings.Len(); n > 0 {
		rt.logger.Debug("dropping instance bindings on close", "count", n)
	}
	rt.bindings.Clear()
	rt.strings.Release()
	return nil
}

// cstr interns s for the lifetime of the runtime.
func (rt *Runtime) cstr(s string) *byte {
	return rt.strings.CString(s)
}

// The host may ask for a binding lazily; storage is always installed eagerly,
// so there is nothing to create.
func (rt *Runtime) bindingCreate(_ abi.ClassLibraryPtr, _ abi.ObjectPtr) uintptr {
	return 0
}

func (rt *Runtime) bindingFree(_ abi.ClassLibraryPtr, instance abi.ObjectPtr, handle uintptr) {
	if rt.bindings.Remove(binding.Handle(handle)) {
		rt.logger.Debug("instance binding freed", "object", uint64(instance))
	}
}

func (rt *Runtime) bindingReference(_ abi.ClassLibraryPtr, _ uintptr, _ bool) bool {
	return true
}

// methodTable caches the host's per-type variant converters.
type methodTable struct {
	fromType map[global.VariantType]abi.VariantFromTypeFunc
	toType   map[global.VariantType]abi.TypeFromVariantFunc
}

// marshaledTypes are the variant types the binding layer converts.
var marshaledTypes = []global.VariantType{
	global.VariantTypeBool,
	global.VariantTypeInt,
	global.VariantTypeFloat,
	global.VariantTypeString,
	global.VariantTypeObject,
}

func loadMethodTable(iface *abi.Interface) (methodTable, error) {
	mt := methodTable{
		fromType: make(map[global.VariantType]abi.VariantFromTypeFunc, len(marshaledTypes)),
		toType:   make(map[global.VariantType]abi.TypeFromVariantFunc, len(marshaledTypes)),
	}
	var missing []string
	for _, t := range marshaledTypes {
		from := iface.GetVariantFromTypeConstructor(t)
		to := iface.GetVariantToTypeConstructor(t)
		if from == nil {
			missing = append(missing, "variant_from_type("+t.String()+")")
		}
		if to == nil {
			missing = append(missing, "type_from_variant("+t.String()+")")
		}
		mt.fromType[t] = from
		mt.toType[t] = to
	}
	if len(missing) > 0 {
		return methodTable{}, &errors.InterfaceError{Missing: missing}
	}
	return mt, nil
}

func (mt *methodTable) objectToVariant(out abi.VariantPtr, in abi.TypePtr) {
	mt.fromType[global.VariantTypeObject](out, in)
}

func (mt *methodTable) objectFromVariant(out abi.TypePtr, in abi.VariantPtr) {
	mt.toType[global.VariantTypeObject](out, in)
}
