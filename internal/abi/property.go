package abi

import "unsafe"

// PropertyInfo has the C layout of the host's property record:
//
//	typedef struct {
//		uint32_t type;
//		const char *name;
//		const char *class_name;
//		uint32_t hint;
//		const char *hint_string;
//		uint32_t usage;
//	} GDNativePropertyInfo;
//
// The string fields point at NUL-terminated bytes owned by a StringArena.
type PropertyInfo struct {
	Type       uint32
	Name       *byte
	ClassName  *byte
	Hint       uint32
	HintString *byte
	Usage      uint32
}

// Every field occupies one pointer-sized slot; the record is six slots long.
const (
	_ = unsafe.Offsetof(PropertyInfo{}.Name) - PointerSize
	_ = PointerSize - unsafe.Offsetof(PropertyInfo{}.Name)
	_ = unsafe.Offsetof(PropertyInfo{}.Usage) - 5*PointerSize
	_ = 5*PointerSize - unsafe.Offsetof(PropertyInfo{}.Usage)
	_ = unsafe.Sizeof(PropertyInfo{}) - 6*PointerSize
	_ = 6*PointerSize - unsafe.Sizeof(PropertyInfo{})
)
