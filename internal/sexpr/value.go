package sexpr

// Ref is a handle to a cell inside a Heap. The zero value is not a valid
// reference; use Nil for "no value" / the empty list.
type Ref int32

// Nil is the empty reference: the empty list, and the result of looking up an
// unbound symbol at the evaluator layer.
const Nil Ref = -1

// IsNil reports whether r is the empty reference.
func (r Ref) IsNil() bool { return r == Nil }

// Evaluator is the recursive evaluation hook that special forms call back
// into. It is implemented by the eval package; sexpr only depends on the
// interface so that Heap, Frame and Primitive can live next to each other
// without an import cycle with the evaluator.
type Evaluator interface {
	Eval(expr Ref, frame *Frame) (Ref, error)
	// EvalSeq evaluates a sequence of expressions in frame, in order,
	// releasing each intermediate result before evaluating the next, and
	// returns the (owned) value of the last one. An empty sequence
	// evaluates to Nil.
	EvalSeq(exprs []Ref, frame *Frame) (Ref, error)
}

// PrimitiveFunc implements a primitive function or special form. args is a
// Ref to a (possibly empty) list: the raw, unevaluated argument list for
// special forms, or a freshly built list of already-evaluated arguments for
// ordinary primitives (spec §4.5, apply_prim).
type PrimitiveFunc func(h *Heap, ev Evaluator, frame *Frame, args Ref) (Ref, error)

// Primitive describes a built-in function or special form (spec §3,
// Primitive payload).
type Primitive struct {
	Name          string
	Arity         int // -1 means variadic
	IsSpecialForm bool
	Fn            PrimitiveFunc
}

// Closure is the shared payload of Function and Macro cells (spec §3).
type Closure struct {
	Name    string
	Params  []Ref // symbol Refs
	Body    []Ref // list of expressions (Function); single expression (Macro)
	Frame   *Frame
	IsMacro bool
}

// Arity returns the number of declared parameters. Variadic closures are not
// part of this dialect, so this is always the exact expected count.
func (c *Closure) Arity() int { return len(c.Params) }

// cell is the fixed-size tagged record drawn from the heap pool. Only the
// fields relevant to tag are meaningful; the rest are zero.
type cell struct {
	tag      Tag
	refcount int32
	// exempt cells (canonical booleans, interned symbols, primitives, and the
	// small-integer cache) are never retained/released; see spec §3.
	exempt bool

	// TagCons
	car, cdr Ref
	// TagInt
	ival int32
	// TagUInt
	uval uint32
	// TagBool
	bval bool
	// TagString
	str []byte
	// TagSymbol
	sym string
	// TagFunction / TagMacro
	closure *Closure
	// TagPrimitive
	prim *Primitive

	// free list link, valid only when tag == TagFree. It is a separate field,
	// not overlaid on car.
	next Ref
}
