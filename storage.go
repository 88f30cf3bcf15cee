package gdext

import (
	"github.com/mardigontoler/gdext/errors"
)

// Defaulter is implemented by *T when the default instance of T needs more
// than the zero value.
type Defaulter interface {
	InitDefault()
}

func defaultUser[T Class]() T {
	var user T
	if d, ok := any(&user).(Defaulter); ok {
		d.InitDefault()
	}
	return user
}

// InstanceStorage owns the user struct attached to one host object and tracks
// outstanding borrows of it.
type InstanceStorage[T Class] struct {
	user      T
	shared    int
	exclusive bool
}

func (s *InstanceStorage[T]) borrow() *Ref[T] {
	if s.exclusive {
		panic(&errors.BorrowError{Class: className[T](), Requested: "shared", Held: "exclusive"})
	}
	s.shared++
	return &Ref[T]{storage: s}
}

func (s *InstanceStorage[T]) borrowMut() *Mut[T] {
	switch {
	case s.exclusive:
		panic(&errors.BorrowError{Class: className[T](), Requested: "exclusive", Held: "exclusive"})
	case s.shared > 0:
		panic(&errors.BorrowError{Class: className[T](), Requested: "exclusive", Held: "shared"})
	}
	s.exclusive = true
	return &Mut[T]{storage: s}
}

// Ref is a shared borrow of a user struct.
type Ref[T Class] struct {
	storage  *InstanceStorage[T]
	released bool
}

// Get returns the borrowed struct. The pointer must not be written through
// or used after Release.
func (r *Ref[T]) Get() *T {
	return &r.storage.user
}

// Release ends the borrow. Releasing twice is a no-op.
func (r *Ref[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	r.storage.shared--
}

// Mut is an exclusive borrow of a user struct.
type Mut[T Class] struct {
	storage  *InstanceStorage[T]
	released bool
}

// Get returns the borrowed struct. The pointer must not be used after
// Release.
func (m *Mut[T]) Get() *T {
	return &m.storage.user
}

// Release ends the borrow. Releasing twice is a no-op.
func (m *Mut[T]) Release() {
	if m.released {
		return
	}
	m.released = true
	m.storage.exclusive = false
}
