package abi

import (
	"fmt"
	"unsafe"
)

// MaxArenaBytes bounds the memory a StringArena may pin.
const MaxArenaBytes = 16 * 1024 * 1024

// StringArena hands out NUL-terminated copies of Go strings for the host.
// Every returned pointer stays valid until Release: the arena keeps the
// backing slice referenced so the collector cannot reclaim it while the host
// may still read it. Identical strings share one allocation.
type StringArena struct {
	ptrs  map[string][]byte
	total int
}

// NewStringArena creates an empty arena.
func NewStringArena() *StringArena {
	return &StringArena{ptrs: make(map[string][]byte)}
}

// CString returns a pointer to a NUL-terminated copy of s.
// Panics if the arena would exceed MaxArenaBytes.
func (a *StringArena) CString(s string) *byte {
	if buf, ok := a.ptrs[s]; ok {
		return &buf[0]
	}
	size := len(s) + 1
	if a.total+size > MaxArenaBytes {
		panic(fmt.Sprintf("abi: string arena limit exceeded (requested: %d bytes, current: %d bytes, limit: %d bytes)",
			size, a.total, MaxArenaBytes))
	}
	buf := make([]byte, size)
	copy(buf, s)
	a.ptrs[s] = buf
	a.total += size
	return &buf[0]
}

// Stats reports the number of interned strings and their total size.
func (a *StringArena) Stats() (count, bytes int) {
	return len(a.ptrs), a.total
}

// Release drops every interned string. Pointers handed out earlier must no
// longer be used by the host.
func (a *StringArena) Release() {
	for s := range a.ptrs {
		delete(a.ptrs, s)
	}
	a.total = 0
}

// GoString copies the NUL-terminated bytes at p into a Go string.
func GoString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}

// CBytes returns a NUL-terminated copy of s that is not interned. Use it for
// strings the host copies before the call returns.
func CBytes(s string) *byte {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return &buf[0]
}
