package binding

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payloadA struct{ n int }
type payloadB struct{ s string }

func TestTable_InsertLookup(t *testing.T) {
	tbl := NewTable()
	a := &payloadA{n: 7}

	h := tbl.Insert(KeyOf[payloadA](), unsafe.Pointer(a))
	require.NotZero(t, h)

	p, key, ok := tbl.Lookup(h)
	require.True(t, ok)
	assert.Equal(t, KeyOf[payloadA](), key)
	assert.Same(t, a, (*payloadA)(p))
}

func TestTable_KeysDistinguishTypes(t *testing.T) {
	assert.NotEqual(t, KeyOf[payloadA](), KeyOf[payloadB]())
	assert.Equal(t, KeyOf[payloadA](), KeyOf[payloadA]())
}

func TestTable_HandlesNotReused(t *testing.T) {
	tbl := NewTable()

	h1 := tbl.Insert(KeyOf[payloadA](), unsafe.Pointer(&payloadA{}))
	require.True(t, tbl.Remove(h1))
	h2 := tbl.Insert(KeyOf[payloadB](), unsafe.Pointer(&payloadB{}))

	assert.NotEqual(t, h1, h2)
	_, _, ok := tbl.Lookup(h1)
	assert.False(t, ok, "removed handle must stay dead")
}

func TestTable_RemoveUnknown(t *testing.T) {
	tbl := NewTable()
	assert.False(t, tbl.Remove(42))
}

func TestTable_LookupZero(t *testing.T) {
	tbl := NewTable()
	_, _, ok := tbl.Lookup(0)
	assert.False(t, ok)
}

func TestTable_Clear(t *testing.T) {
	tbl := NewTable()
	tbl.Insert(KeyOf[payloadA](), unsafe.Pointer(&payloadA{}))
	tbl.Insert(KeyOf[payloadB](), unsafe.Pointer(&payloadB{}))
	require.Equal(t, 2, tbl.Len())

	tbl.Clear()
	assert.Zero(t, tbl.Len())
}
