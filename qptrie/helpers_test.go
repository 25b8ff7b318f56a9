package qptrie

import "unsafe"

// ptrOf returns a word-aligned value reference for v, keeping v alive
// for as long as the returned pointer is used - exactly the contract
// Set requires of its callers.
func ptrOf(v *string) unsafe.Pointer { return unsafe.Pointer(v) }

func strAt(p unsafe.Pointer) string {
	if p == nil {
		return ""
	}
	return *(*string)(p)
}

func key(s string) []byte { return []byte(s) }
