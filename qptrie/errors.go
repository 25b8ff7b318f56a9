package qptrie

import "errors"

// ErrMisalignedValue is returned by Set when the given value reference
// has a nonzero bit in its two low-order bits, violating the alignment
// contract every leaf value must satisfy.
var ErrMisalignedValue = errors.New("qptrie: value reference is not word-aligned")
