package gdext

import (
	"github.com/mardigontoler/gdext/errors"
)

// Ownership says who is responsible for destroying an object.
type Ownership uint8

const (
	// Borrowed objects belong to someone else; releasing does nothing.
	Borrowed Ownership = iota
	// Owning objects are destroyed on release.
	Owning
	// RefCounted objects are released through the host's reference count.
	RefCounted
)

func (o Ownership) String() string {
	switch o {
	case Borrowed:
		return "borrowed"
	case Owning:
		return "owning"
	case RefCounted:
		return "ref_counted"
	default:
		return "unknown"
	}
}

// Owned pairs a handle with an ownership mode and makes its release explicit.
type Owned[T Class] struct {
	obj      Obj[T]
	mode     Ownership
	released bool
}

// Own wraps obj with the given ownership mode.
func Own[T Class](obj Obj[T], mode Ownership) *Owned[T] {
	return &Owned[T]{obj: obj, mode: mode}
}

// Obj returns the wrapped handle.
func (o *Owned[T]) Obj() Obj[T] {
	return o.obj
}

// Mode returns the ownership mode.
func (o *Owned[T]) Mode() Ownership {
	return o.mode
}

// Released reports whether Release succeeded before.
func (o *Owned[T]) Released() bool {
	return o.released
}

// Release gives up the handle. Owning handles destroy the object exactly
// once; a second call returns errors.ErrAlreadyReleased.
func (o *Owned[T]) Release(rt *Runtime) error {
	if o.released {
		return errors.ErrAlreadyReleased
	}
	switch o.mode {
	case Borrowed:
	case Owning:
		rt.logger.Debug("destroying owned object",
			"class", className[T](),
			"instance_id", o.obj.InstanceID(rt))
		rt.iface.ObjectDestroy(o.obj.ObjPtr())
	case RefCounted:
		return &errors.NotImplementedError{Operation: "release of reference counted " + className[T]()}
	}
	o.released = true
	return nil
}
