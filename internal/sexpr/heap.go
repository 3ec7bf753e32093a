package sexpr

import (
	"github.com/pkg/errors"

	"github.com/dastels/microscheme/internal/logging"
)

// DefaultCapacity is the reference heap size: the reference implementation's
// tagged-union cell is about 12 bytes on its 32-bit target, so 64 KiB of cell
// storage (spec §3) works out to roughly 5,000 cells. We round down to a
// tidy power of two; callers that need more room can pass a larger capacity
// to NewHeap.
const DefaultCapacity = 4096

// smallIntLimit is the exclusive upper bound of the cached small-integer
// range [0, 32).
const smallIntLimit = 32

// ErrOutOfMemory is returned by the allocating constructors (NewInt, NewCons,
// ...) when the free list is exhausted. It is
// fatal: callers should log it at logging.Critical and terminate.
var ErrOutOfMemory = errors.New("heap: out of memory")

// Heap is a fixed-capacity pool of cells with reference-counted lifetime.
type Heap struct {
	cells    []cell
	freeHead Ref
	free     int

	symbols   map[string]Ref
	smallInts [smallIntLimit]Ref
	trueRef   Ref
	falseRef  Ref

	global   *Frame
	registry map[*Frame]struct{}
}

// NewHeap allocates a heap with room for capacity cells and installs the
// canonical booleans, the small-integer cache, the symbol interner, and the
// global environment frame, in that order (spec §5, init sequence).
func NewHeap(capacity int) *Heap {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	h := &Heap{
		cells:    make([]cell, capacity),
		symbols:  make(map[string]Ref, 256),
		registry: make(map[*Frame]struct{}, 64),
	}
	for i := range h.cells {
		next := Ref(i + 1)
		if i == len(h.cells)-1 {
			next = Nil
		}
		h.cells[i] = cell{tag: TagFree, next: next}
	}
	h.freeHead = 0
	h.free = len(h.cells)

	h.falseRef = h.mustAllocExempt(TagBool)
	h.cells[h.falseRef].bval = false
	h.trueRef = h.mustAllocExempt(TagBool)
	h.cells[h.trueRef].bval = true

	for n := 0; n < smallIntLimit; n++ {
		r := h.mustAllocExempt(TagInt)
		h.cells[r].ival = int32(n)
		h.smallInts[n] = r
	}

	h.global = h.newFrame(nil)
	return h
}

func (h *Heap) mustAllocExempt(tag Tag) Ref {
	r, err := h.alloc(tag)
	if err != nil {
		// exempt cells (booleans, small integers, symbols, primitives) have no
		// error return: a full heap here panics.
		panic(err)
	}
	h.cells[r].exempt = true
	return r
}

// Global returns the root environment frame. It is never destroyed.
func (h *Heap) Global() *Frame { return h.global }

// True and False return the two canonical boolean cells.
func (h *Heap) True() Ref  { return h.trueRef }
func (h *Heap) False() Ref { return h.falseRef }

// HeapSize returns the total number of cells configured for this heap.
func (h *Heap) HeapSize() int { return len(h.cells) }

// FreeSize returns the number of cells currently on the free list.
func (h *Heap) FreeSize() int { return h.free }

func (h *Heap) alloc(tag Tag) (Ref, error) {
	if h.freeHead == Nil {
		logging.Criticalf("heap exhausted: %d/%d cells live", len(h.cells)-h.free, len(h.cells))
		return Nil, ErrOutOfMemory
	}
	r := h.freeHead
	c := &h.cells[r]
	h.freeHead = c.next
	h.free--
	*c = cell{tag: tag, refcount: 0}
	return r, nil
}

// BoolValue returns the Go bool held by a TagBool cell.
func (h *Heap) BoolValue(r Ref) bool { return h.cells[r].bval }

// Truthy implements the dialect's single truthiness rule: only the #t cell is
// true; every other value, including #f, is false in a boolean context
// (spec §4.6).
func (h *Heap) Truthy(r Ref) bool { return r == h.trueRef }

// BoolFor returns the canonical cell for v.
func (h *Heap) BoolFor(v bool) Ref {
	if v {
		return h.trueRef
	}
	return h.falseRef
}

// NewInt allocates (or fetches from cache) an Int cell holding n.
func (h *Heap) NewInt(n int32) (Ref, error) {
	if n >= 0 && n < smallIntLimit {
		return h.smallInts[n], nil
	}
	r, err := h.alloc(TagInt)
	if err != nil {
		return Nil, err
	}
	h.cells[r].ival = n
	return r, nil
}

// IntValue returns the int32 held by a TagInt cell.
func (h *Heap) IntValue(r Ref) int32 { return h.cells[r].ival }

// NewUInt allocates a UInt cell holding n.
func (h *Heap) NewUInt(n uint32) (Ref, error) {
	r, err := h.alloc(TagUInt)
	if err != nil {
		return Nil, err
	}
	h.cells[r].uval = n
	return r, nil
}

// UIntValue returns the uint32 held by a TagUInt cell.
func (h *Heap) UIntValue(r Ref) uint32 { return h.cells[r].uval }

// NewString allocates a String cell owning a copy of s.
func (h *Heap) NewString(s string) (Ref, error) {
	r, err := h.alloc(TagString)
	if err != nil {
		return Nil, err
	}
	h.cells[r].str = []byte(s)
	return r, nil
}

// StringValue returns the string held by a TagString cell.
func (h *Heap) StringValue(r Ref) string { return string(h.cells[r].str) }

// Intern returns the unique Symbol cell for name, allocating it on first use.
// Interned symbols are exempt from reference counting and live for the
// process lifetime (spec §3, §8 "Interning").
func (h *Heap) Intern(name string) Ref {
	if r, ok := h.symbols[name]; ok {
		return r
	}
	r := h.mustAllocExempt(TagSymbol)
	h.cells[r].tag = TagSymbol
	h.cells[r].sym = name
	h.symbols[name] = r
	return r
}

// SymbolName returns the name of a Symbol cell.
func (h *Heap) SymbolName(r Ref) string { return h.cells[r].sym }

// NewCons allocates a cons cell with the given car/cdr. Ownership of car and
// cdr transfers to the new cell: callers should not release them separately.
func (h *Heap) NewCons(car, cdr Ref) (Ref, error) {
	r, err := h.alloc(TagCons)
	if err != nil {
		return Nil, err
	}
	h.cells[r].car = car
	h.cells[r].cdr = cdr
	return r, nil
}

// Car returns the car of a cons cell, or Nil if r is Nil.
func (h *Heap) Car(r Ref) Ref {
	if r.IsNil() {
		return Nil
	}
	return h.cells[r].car
}

// Cdr returns the cdr of a cons cell, or Nil if r is Nil.
func (h *Heap) Cdr(r Ref) Ref {
	if r.IsNil() {
		return Nil
	}
	return h.cells[r].cdr
}

// SetCar replaces the car of a cons cell. The previous car is released and
// v is retained.
func (h *Heap) SetCar(r, v Ref) {
	c := &h.cells[r]
	old := c.car
	c.car = h.Retain(v)
	h.Release(old)
}

// SetCdr replaces the cdr of a cons cell. The previous cdr is released and
// v is retained.
func (h *Heap) SetCdr(r, v Ref) {
	c := &h.cells[r]
	old := c.cdr
	c.cdr = h.Retain(v)
	h.Release(old)
}

// NewPrimitive allocates a Primitive cell. Primitive cells are exempt from
// reference counting: they are registered once at startup and live forever.
func (h *Heap) NewPrimitive(p *Primitive) Ref {
	r := h.mustAllocExempt(TagPrimitive)
	h.cells[r].prim = p
	return r
}

// PrimitiveValue returns the descriptor held by a Primitive cell.
func (h *Heap) PrimitiveValue(r Ref) *Primitive { return h.cells[r].prim }

// NewClosure allocates a Function or Macro cell wrapping c. Constructing a
// closure pins its defining frame via the descendant counter (spec §4.4).
func (h *Heap) NewClosure(c *Closure) (Ref, error) {
	tag := TagFunction
	if c.IsMacro {
		tag = TagMacro
	}
	r, err := h.alloc(tag)
	if err != nil {
		return Nil, err
	}
	h.cells[r].closure = c
	c.Frame.descendants++
	return r, nil
}

// ClosureValue returns the descriptor held by a Function or Macro cell.
func (h *Heap) ClosureValue(r Ref) *Closure { return h.cells[r].closure }

// Tag returns the tag of r, or TagFree for the empty reference so that
// callers can pattern-match on it the same way as on real tags.
func (h *Heap) Tag(r Ref) Tag {
	if r.IsNil() {
		return TagFree
	}
	return h.cells[r].tag
}

// Retain increments r's reference count unless it is exempt or Nil. It
// returns r so call sites can chain it, e.g. h.NewCons(h.Retain(a), h.Retain(b)).
func (h *Heap) Retain(r Ref) Ref {
	if r.IsNil() {
		return r
	}
	c := &h.cells[r]
	if c.exempt {
		return r
	}
	c.refcount++
	return r
}

// Release decrements r's reference count unless it is exempt or Nil. On
// reaching zero it recursively releases any owned children and returns the
// cell to the free list.
func (h *Heap) Release(r Ref) {
	if r.IsNil() {
		return
	}
	c := &h.cells[r]
	if c.exempt {
		return
	}
	if c.tag == TagFree {
		// releasing an already-free cell is a bug (spec §3 invariants).
		logging.Errorf("release of free cell %d", r)
		return
	}
	c.refcount--
	if c.refcount > 0 {
		return
	}
	switch c.tag {
	case TagCons:
		car, cdr := c.car, c.cdr
		h.free++
		*c = cell{tag: TagFree, next: h.freeHead}
		h.freeHead = r
		h.Release(car)
		h.Release(cdr)
		return
	case TagString:
		c.str = nil
	case TagFunction, TagMacro:
		cl := c.closure
		if cl != nil {
			h.releaseFrame(cl.Frame)
			for _, p := range cl.Params {
				h.Release(p)
			}
			for _, b := range cl.Body {
				h.Release(b)
			}
		}
	}
	h.free++
	*c = cell{tag: TagFree, next: h.freeHead}
	h.freeHead = r
}
