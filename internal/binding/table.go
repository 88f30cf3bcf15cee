// Package binding keeps the extension-side boxes that host instance-binding
// slots refer to. The host stores only an integer handle; the box behind it
// carries the Go type it was created for so resolution can detect type
// confusion.
package binding

import (
	"reflect"
	"unsafe"
)

// Handle is the value installed in a host instance-binding slot. Zero is never
// a valid handle.
type Handle uintptr

// Key identifies the Go type of a boxed payload.
type Key = reflect.Type

// KeyOf returns the key for payloads of type *T.
func KeyOf[T any]() Key {
	return reflect.TypeOf((*T)(nil)).Elem()
}

type box struct {
	key     Key
	payload unsafe.Pointer
}

// Table maps handles to tagged boxes. It does no locking: binding setup and
// resolution run on the thread the host calls the extension from.
type Table struct {
	boxes map[Handle]box
	next  Handle
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		boxes: make(map[Handle]box),
		next:  1,
	}
}

// Insert boxes payload under key and returns its handle. Handles are never
// reused, so a stale handle cannot resolve to a newer box.
func (t *Table) Insert(key Key, payload unsafe.Pointer) Handle {
	h := t.next
	t.next++
	t.boxes[h] = box{key: key, payload: payload}
	return h
}

// Lookup returns the payload and the key it was stored under.
func (t *Table) Lookup(h Handle) (unsafe.Pointer, Key, bool) {
	b, ok := t.boxes[h]
	if !ok {
		return nil, nil, false
	}
	return b.payload, b.key, true
}

// Remove drops the box. Reports whether it existed.
func (t *Table) Remove(h Handle) bool {
	if _, ok := t.boxes[h]; !ok {
		return false
	}
	delete(t.boxes, h)
	return true
}

// Len returns the number of live boxes.
func (t *Table) Len() int {
	return len(t.boxes)
}

// Clear drops every box.
func (t *Table) Clear() {
	for h := range t.boxes {
		delete(t.boxes, h)
	}
}
