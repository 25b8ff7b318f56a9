package qptrie

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingAllocator wraps the default allocator but fails its Grow call
// once failAfter successful calls have already gone through, letting a
// test exercise the strong-exception-safety contract Set promises.
type failingAllocator struct {
	defaultAllocator
	failAfter int
	calls     int
}

var errAllocatorInjected = errors.New("injected allocation failure")

func (a *failingAllocator) Grow(twigs []Cell, at int) ([]Cell, error) {
	a.calls++
	if a.calls > a.failAfter {
		return nil, errAllocatorInjected
	}
	return a.defaultAllocator.Grow(twigs, at)
}

func TestWithAllocator_Panics_OnNil(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		WithAllocator(nil)
	})
}

func TestSet_AllocatorFailure_LeavesTableUnchanged(t *testing.T) {
	t.Parallel()

	alloc := &failingAllocator{failAfter: 0}
	tbl := New(WithAllocator(alloc))

	a, b := "a", "b"
	_, err := tbl.Set(key("aa"), ptrOf(&a))
	require.NoError(t, err)
	_, err = tbl.Set(key("ab"), ptrOf(&b))
	require.NoError(t, err)

	before := tbl.Len()
	beforeKeys := tbl.Keys()

	// A third key sharing the branch's existing (index,flags) forces a
	// Grow call on the branch's twig array, which the allocator fails.
	c := "c"
	_, err = tbl.Set(key("ac"), ptrOf(&c))
	require.ErrorIs(t, err, errAllocatorInjected)

	assert.Equal(t, before, tbl.Len())
	assert.ElementsMatch(t, beforeKeys, tbl.Keys())

	v, ok := tbl.Get(key("aa"))
	require.True(t, ok)
	assert.Equal(t, "a", strAt(v))
	v, ok = tbl.Get(key("ab"))
	require.True(t, ok)
	assert.Equal(t, "b", strAt(v))
	_, ok = tbl.Get(key("ac"))
	assert.False(t, ok)
}

func TestDefaultAllocator_GrowShrinkRoundTrip(t *testing.T) {
	t.Parallel()

	var a defaultAllocator

	twigs, err := a.New(2)
	require.NoError(t, err)
	require.Len(t, twigs, 2)

	twigs[0] = newLeafCell(key("a"), unsafe.Pointer(&twigs))
	twigs[1] = newLeafCell(key("b"), unsafe.Pointer(&twigs))

	grown, err := a.Grow(twigs, 1)
	require.NoError(t, err)
	require.Len(t, grown, 3)
	assert.Equal(t, twigs[0], grown[0])
	assert.Equal(t, twigs[1], grown[2])

	shrunk, err := a.Shrink(grown, 1)
	require.NoError(t, err)
	require.Len(t, shrunk, 2)
	assert.Equal(t, twigs[0], shrunk[0])
	assert.Equal(t, twigs[1], shrunk[1])
}
