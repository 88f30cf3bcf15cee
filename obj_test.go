package gdext

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mardigontoler/gdext/errors"
	"github.com/mardigontoler/gdext/internal/abi"
	"github.com/mardigontoler/gdext/internal/binding"
)

func TestObj_Layout(t *testing.T) {
	assert.Equal(t, unsafe.Sizeof(abi.ObjectPtr(0)), unsafe.Sizeof(Obj[plainNode]{}))
	assert.Equal(t, unsafe.Alignof(abi.ObjectPtr(0)), unsafe.Alignof(Obj[plainNode]{}))
	assert.Equal(t, unsafe.Sizeof(abi.ObjectPtr(0)), unsafe.Sizeof(Obj[testNode]{}))
}

func TestObj_TypePtrAliasesHandle(t *testing.T) {
	obj := FromObjPtr[plainNode](0x1234)

	slot := (*abi.ObjectPtr)(unsafe.Pointer(obj.TypePtr()))
	assert.Equal(t, abi.ObjectPtr(0x1234), *slot)
	assert.Equal(t, abi.ObjectPtr(0x1234), obj.ObjPtr())

	*slot = 0x5678
	assert.Equal(t, abi.ObjectPtr(0x5678), obj.ObjPtr())
}

func TestNew_AttachesUserStorage(t *testing.T) {
	rt, host := newTestRuntime(t)

	obj := New(rt, plainNode{Label: "spawned", Count: 3})
	require.False(t, obj.IsNull())
	assert.Equal(t, 1, host.ObjectCount())
	assert.Equal(t, 1, rt.LiveBindings())

	r := obj.Inner(rt)
	assert.Equal(t, plainNode{Label: "spawned", Count: 3}, *r.Get())
	r.Release()
}

func TestNewDefault_UsesZeroValue(t *testing.T) {
	rt, _ := newTestRuntime(t)

	obj := NewDefault[plainNode](rt)

	r := obj.Inner(rt)
	defer r.Release()
	assert.Equal(t, plainNode{}, *r.Get())
}

func TestNewDefault_RunsInitDefault(t *testing.T) {
	rt, _ := newTestRuntime(t)
	require.NoError(t, Register[testNode](rt))

	obj := NewDefault[testNode](rt)

	r := obj.Inner(rt)
	defer r.Release()
	assert.Equal(t, int64(100), r.Get().Health)
	assert.Equal(t, "default", r.Get().Name)
}

func TestNew_ConstructionFailurePanics(t *testing.T) {
	rt, host := newTestRuntime(t)
	host.FailConstruct("Node")

	err := requirePanicAs[*errors.ConstructionError](t, func() {
		NewDefault[plainNode](rt)
	})
	assert.Equal(t, "Node", err.Class)

	requirePanicAs[*errors.ConstructionError](t, func() {
		New(rt, plainNode{})
	})
	assert.Zero(t, rt.LiveBindings())
}

func TestNew_UnregisteredClassPanics(t *testing.T) {
	rt, _ := newTestRuntime(t)

	err := requirePanicAs[*errors.ConstructionError](t, func() {
		NewDefault[otherNode](rt)
	})
	assert.Equal(t, "OtherNode", err.Class)
}

func TestInstanceIDLookup(t *testing.T) {
	rt, _ := newTestRuntime(t)
	obj := New(rt, plainNode{Label: "a"})

	id := obj.InstanceID(rt)
	require.NotZero(t, id)
	assert.False(t, IsRefCountedID(id))

	found, ok := TryFromInstanceID[plainNode](rt, id)
	require.True(t, ok)
	assert.Equal(t, obj.ObjPtr(), found.ObjPtr())

	assert.Equal(t, obj.ObjPtr(), FromInstanceID[plainNode](rt, id).ObjPtr())
}

func TestTryFromInstanceID_Unknown(t *testing.T) {
	rt, _ := newTestRuntime(t)

	obj, ok := TryFromInstanceID[plainNode](rt, 999)
	assert.False(t, ok)
	assert.True(t, obj.IsNull())
}

func TestFromInstanceID_UnknownPanics(t *testing.T) {
	rt, _ := newTestRuntime(t)

	err := requirePanicAs[*errors.InstanceNotFoundError](t, func() {
		FromInstanceID[plainNode](rt, 999)
	})
	assert.Equal(t, uint64(999), err.ID)
	assert.Equal(t, "Node", err.Class)
	assert.Contains(t, err.Error(), "999")
}

func TestIsRefCountedID(t *testing.T) {
	tests := []struct {
		id   uint64
		want bool
	}{
		{id: 0, want: false},
		{id: 1, want: false},
		{id: 1<<63 - 1, want: false},
		{id: 1 << 63, want: true},
		{id: 1<<63 | 42, want: true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRefCountedID(tt.id), "id %#x", tt.id)
	}
}

func TestStorage_MissingBindingPanics(t *testing.T) {
	rt, host := newTestRuntime(t)
	ptr := host.CreateFromHost("Node")

	err := requirePanicAs[*errors.BindingError](t, func() {
		FromObjPtr[plainNode](ptr).Inner(rt)
	})
	assert.Equal(t, "Node", err.Class)
	assert.Equal(t, FromObjPtr[plainNode](ptr).InstanceID(rt), err.ID)
	assert.NotZero(t, err.ID)
	assert.Contains(t, err.Error(), "(id ")
}

func TestStorage_FreedBindingPanics(t *testing.T) {
	rt, host := newTestRuntime(t)
	obj := New(rt, plainNode{})
	stale := obj.ObjPtr()

	host.Destroy(stale)
	assert.Zero(t, rt.LiveBindings())

	requirePanicAs[*errors.BindingError](t, func() {
		FromObjPtr[plainNode](stale).Inner(rt)
	})
}

func TestStorage_TypeConfusionPanics(t *testing.T) {
	if !binding.Checked {
		t.Skip("binding resolution is unchecked in this build")
	}
	rt, _ := newTestRuntime(t)
	obj := New(rt, plainNode{Label: "real"})

	err := requirePanicAs[*errors.BindingError](t, func() {
		FromObjPtr[aliasNode](obj.ObjPtr()).Inner(rt)
	})
	assert.Contains(t, err.Reason, "plainNode")
	assert.Equal(t, obj.InstanceID(rt), err.ID)
}

func TestBorrows(t *testing.T) {
	rt, _ := newTestRuntime(t)
	obj := New(rt, plainNode{Count: 1})

	r1 := obj.Inner(rt)
	r2 := obj.Inner(rt)
	assert.Equal(t, 1, r2.Get().Count)

	err := requirePanicAs[*errors.BorrowError](t, func() { obj.InnerMut(rt) })
	assert.Equal(t, "shared", err.Held)

	r1.Release()
	r1.Release()
	requirePanicAs[*errors.BorrowError](t, func() { obj.InnerMut(rt) })
	r2.Release()

	m := obj.InnerMut(rt)
	m.Get().Count = 2

	err = requirePanicAs[*errors.BorrowError](t, func() { obj.Inner(rt) })
	assert.Equal(t, "exclusive", err.Held)
	assert.Equal(t, "shared", err.Requested)
	requirePanicAs[*errors.BorrowError](t, func() { obj.InnerMut(rt) })

	m.Release()

	r := obj.Inner(rt)
	defer r.Release()
	assert.Equal(t, 2, r.Get().Count)
}

func TestHandleCopiesShareStorage(t *testing.T) {
	rt, _ := newTestRuntime(t)
	obj := New(rt, plainNode{})
	dup := obj

	m := dup.InnerMut(rt)
	m.Get().Label = "via copy"
	m.Release()

	r := obj.Inner(rt)
	defer r.Release()
	assert.Equal(t, "via copy", r.Get().Label)
}
