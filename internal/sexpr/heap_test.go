package sexpr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dastels/microscheme/internal/sexpr"
)

func TestSmallIntegerCacheIsShared(t *testing.T) {
	h := sexpr.NewHeap(0)
	a, err := h.NewInt(5)
	require.NoError(t, err)
	b, err := h.NewInt(5)
	require.NoError(t, err)
	assert.Equal(t, a, b, "two independently produced small ints must be the same cell")
}

func TestCanonicalBooleans(t *testing.T) {
	h := sexpr.NewHeap(0)
	assert.True(t, h.Truthy(h.True()))
	assert.False(t, h.Truthy(h.False()))
	assert.False(t, h.Truthy(sexpr.Nil))
}

func TestInterningIsIdentity(t *testing.T) {
	h := sexpr.NewHeap(0)
	x1 := h.Intern("x")
	x2 := h.Intern("x")
	assert.Equal(t, x1, x2)
	assert.True(t, h.IsEqual(x1, x2))
}

func TestHeapAccountingReleasesBackToPool(t *testing.T) {
	h := sexpr.NewHeap(64)
	free0 := h.FreeSize()

	a, err := h.NewInt(1000) // not in small-int cache
	require.NoError(t, err)
	h.Retain(a)
	b, err := h.NewInt(2000)
	require.NoError(t, err)
	h.Retain(b)
	cons, err := h.NewCons(a, b)
	require.NoError(t, err)
	h.Retain(cons)

	assert.Less(t, h.FreeSize(), free0)
	h.Release(cons)
	assert.Equal(t, free0, h.FreeSize())
}

func TestOutOfMemory(t *testing.T) {
	// exactly enough cells for the two canonical booleans and the 32 cached
	// small integers; nothing left for a fresh allocation.
	h := sexpr.NewHeap(34)
	assert.Equal(t, 0, h.FreeSize())
	_, err := h.NewString("overflow")
	require.Error(t, err)
	assert.ErrorIs(t, err, sexpr.ErrOutOfMemory)
}

func TestStructuralEquality(t *testing.T) {
	h := sexpr.NewHeap(0)
	one, _ := h.NewInt(1)
	two, _ := h.NewInt(2)
	three, _ := h.NewInt(3)
	l1, _ := h.ListFromOwnedSlice([]sexpr.Ref{h.Retain(one), h.Retain(two), h.Retain(three)})
	l2, _ := h.ListFromOwnedSlice([]sexpr.Ref{h.Retain(one), h.Retain(two), h.Retain(three)})
	assert.True(t, h.IsEqual(l1, l2))
	h.Release(l1)
	h.Release(l2)
}

func TestToStringCons(t *testing.T) {
	h := sexpr.NewHeap(0)
	one, _ := h.NewInt(1)
	two, _ := h.NewInt(2)
	l, _ := h.ListFromOwnedSlice([]sexpr.Ref{h.Retain(one), h.Retain(two)})
	assert.Equal(t, "(1 2)", h.ToString(l))
	h.Release(l)
}

func TestToStringDottedPair(t *testing.T) {
	h := sexpr.NewHeap(0)
	one, _ := h.NewInt(1)
	two, _ := h.NewInt(2)
	pair, _ := h.NewCons(h.Retain(one), h.Retain(two))
	assert.Equal(t, "(1 . 2)", h.ToString(pair))
	h.Release(pair)
}

func TestToStringUnsignedIsPaddedHex(t *testing.T) {
	h := sexpr.NewHeap(0)
	u, _ := h.NewUInt(0xBEEF)
	assert.Equal(t, "#x0000beef", h.ToString(u))
}

func TestFrameBindAndValueOf(t *testing.T) {
	h := sexpr.NewHeap(0)
	sym := h.Intern("x")
	v, _ := h.NewInt(42)
	h.Bind(h.Global(), sym, v)
	assert.Equal(t, v, h.ValueOf(h.Global(), sym))
}

func TestFrameBindDoesNotOverwriteInLocalFrame(t *testing.T) {
	h := sexpr.NewHeap(0)
	local := h.NewFrameBelow(h.NewFrameBelow(h.Global())) // two levels below global
	sym := h.Intern("x")
	v1, _ := h.NewInt(1)
	v2, _ := h.NewInt(2)
	h.Bind(local, sym, v1)
	h.Bind(local, sym, v2)
	assert.Equal(t, v1, h.ValueOf(local, sym))
}

func TestRebindUpdatesLocalBinding(t *testing.T) {
	h := sexpr.NewHeap(0)
	local := h.NewFrameBelow(h.Global())
	sym := h.Intern("x")
	v1, _ := h.NewInt(1)
	v2, _ := h.NewInt(2)
	h.Bind(local, sym, v1)
	h.Rebind(local, sym, v2)
	assert.Equal(t, v2, h.ValueOf(local, sym))
}

func TestClosurePinsDefiningFrame(t *testing.T) {
	h := sexpr.NewHeap(0)
	before := h.RegisteredFrames()
	local := h.NewFrameBelow(h.Global())
	cl := &sexpr.Closure{Name: "f", Frame: local}
	fn, err := h.NewClosure(cl)
	require.NoError(t, err)

	h.GoOutOfScope(local)
	// still registered: the closure pins it.
	assert.Equal(t, before+1, h.RegisteredFrames())

	h.Release(fn)
	assert.Equal(t, before, h.RegisteredFrames())
}
