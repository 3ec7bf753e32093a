package eval

import (
	"github.com/dastels/microscheme/internal/langerr"
	"github.com/dastels/microscheme/internal/sexpr"
)

// registerPrimitives installs every ordinary (non-special-form) primitive
// (spec §4.7) into h's global frame.
func registerPrimitives(it *Interp) {
	h := it.Heap
	def := func(name string, arity int, fn sexpr.PrimitiveFunc) {
		p := &sexpr.Primitive{Name: name, Arity: arity, IsSpecialForm: false, Fn: fn}
		h.Bind(h.Global(), h.Intern(name), h.NewPrimitive(p))
	}

	// Arithmetic.
	def("+", -1, primAdd)
	def("*", -1, primMul)
	def("-", -1, primSub)
	def("/", -1, primDiv)
	def("%", 2, primMod)
	def("abs", 1, primAbs)
	def("zero?", 1, primZeroP)

	// Logical.
	def("and", -1, primAnd)
	def("or", -1, primOr)
	def("not", 1, primNot)

	// Bitwise.
	def("binary-and", 2, primBinaryAnd)
	def("binary-or", 2, primBinaryOr)
	def("binary-xor", 2, primBinaryXor)
	def("binary-not", 1, primBinaryNot)
	def("left-shift", 2, primLeftShift)
	def("right-shift", 2, primRightShift)

	// Conversions.
	def("integer", 1, primToInteger)
	def("unsigned", 1, primToUnsigned)

	// List constructors and accessors.
	def("list", -1, primList)
	def("cons", 2, primCons)
	def("car", 1, primCar)
	def("cdr", 1, primCdr)
	registerComposedAccessors(h)
	registerOrdinals(h)
	def("list-ref", 2, primListRef)
	def("list-head", 2, primListHead)
	def("list-tail", 2, primListTail)
	def("append", -1, primAppend)
	def("append!", -1, primAppendBang)

	// Equality and ordering.
	def("eq?", 2, primEq)
	def("neq?", 2, primNeq)
	def("<", 2, primLt)
	def("<=", 2, primLe)
	def(">", 2, primGt)
	def(">=", 2, primGe)

	// Type predicates.
	def("nil?", 1, primNilP)
	def("list?", 1, primListP)
	def("symbol?", 1, primSymbolP)
	def("string?", 1, primStringP)
	def("integer?", 1, primIntegerP)
	def("unsigned?", 1, primUnsignedP)
	def("function?", 1, primFunctionP)
	def("macro?", 1, primMacroP)

	// Reflection.
	def("definition", 1, primDefinition)
	def("heap-size", 0, primHeapSize)
	def("free-size", 0, primFreeSize)
}

func arg(h *sexpr.Heap, args sexpr.Ref, n int) sexpr.Ref {
	elems := h.ListToSlice(args)
	if n >= len(elems) {
		return sexpr.Nil
	}
	return elems[n]
}

// --- arithmetic ---

func primAdd(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	var sum int64
	for _, e := range h.ListToSlice(args) {
		v, err := numVal(h, e)
		if err != nil {
			return sexpr.Nil, err
		}
		sum += v
	}
	return h.NewInt(int32(sum))
}

func primMul(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	prod := int64(1)
	for _, e := range h.ListToSlice(args) {
		v, err := numVal(h, e)
		if err != nil {
			return sexpr.Nil, err
		}
		prod *= v
	}
	return h.NewInt(int32(prod))
}

func primSub(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	elems := h.ListToSlice(args)
	switch len(elems) {
	case 0:
		return h.NewInt(0)
	case 1:
		v, err := numVal(h, elems[0])
		if err != nil {
			return sexpr.Nil, err
		}
		return h.NewInt(int32(-v))
	default:
		acc, err := numVal(h, elems[0])
		if err != nil {
			return sexpr.Nil, err
		}
		for _, e := range elems[1:] {
			v, err := numVal(h, e)
			if err != nil {
				return sexpr.Nil, err
			}
			acc -= v
		}
		return h.NewInt(int32(acc))
	}
}

func primDiv(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	elems := h.ListToSlice(args)
	if len(elems) < 2 {
		return sexpr.Nil, langerr.New(langerr.Domain, "/ requires at least 2 arguments")
	}
	acc, err := numVal(h, elems[0])
	if err != nil {
		return sexpr.Nil, err
	}
	for _, e := range elems[1:] {
		v, err := numVal(h, e)
		if err != nil {
			return sexpr.Nil, err
		}
		if v == 0 {
			return sexpr.Nil, langerr.New(langerr.Domain, "division by zero")
		}
		acc /= v
	}
	return h.NewInt(int32(acc))
}

func primMod(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	a, err := numVal(h, arg(h, args, 0))
	if err != nil {
		return sexpr.Nil, err
	}
	b, err := numVal(h, arg(h, args, 1))
	if err != nil {
		return sexpr.Nil, err
	}
	if b == 0 {
		return sexpr.Nil, langerr.New(langerr.Domain, "modulo by zero")
	}
	return h.NewInt(int32(a % b))
}

func primAbs(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	v, err := numVal(h, arg(h, args, 0))
	if err != nil {
		return sexpr.Nil, err
	}
	if v < 0 {
		v = -v
	}
	return h.NewInt(int32(v))
}

func primZeroP(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	v, err := numVal(h, arg(h, args, 0))
	if err != nil {
		return sexpr.Nil, err
	}
	return h.BoolFor(v == 0), nil
}

// --- logical ---

func primAnd(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	for _, e := range h.ListToSlice(args) {
		if !h.Truthy(e) {
			return h.False(), nil
		}
	}
	return h.True(), nil
}

func primOr(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	for _, e := range h.ListToSlice(args) {
		if h.Truthy(e) {
			return h.True(), nil
		}
	}
	return h.False(), nil
}

func primNot(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	return h.BoolFor(!h.Truthy(arg(h, args, 0))), nil
}

// --- bitwise ---

func primBinaryAnd(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	a, err := uintVal(h, arg(h, args, 0))
	if err != nil {
		return sexpr.Nil, err
	}
	b, err := uintVal(h, arg(h, args, 1))
	if err != nil {
		return sexpr.Nil, err
	}
	return h.NewUInt(a & b)
}

func primBinaryOr(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	a, err := uintVal(h, arg(h, args, 0))
	if err != nil {
		return sexpr.Nil, err
	}
	b, err := uintVal(h, arg(h, args, 1))
	if err != nil {
		return sexpr.Nil, err
	}
	return h.NewUInt(a | b)
}

func primBinaryXor(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	a, err := uintVal(h, arg(h, args, 0))
	if err != nil {
		return sexpr.Nil, err
	}
	b, err := uintVal(h, arg(h, args, 1))
	if err != nil {
		return sexpr.Nil, err
	}
	return h.NewUInt(a ^ b)
}

func primBinaryNot(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	a, err := uintVal(h, arg(h, args, 0))
	if err != nil {
		return sexpr.Nil, err
	}
	return h.NewUInt(^a)
}

func primLeftShift(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	a, err := uintVal(h, arg(h, args, 0))
	if err != nil {
		return sexpr.Nil, err
	}
	n, err := numVal(h, arg(h, args, 1))
	if err != nil {
		return sexpr.Nil, err
	}
	return h.NewUInt(a << uint(n))
}

func primRightShift(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	a, err := uintVal(h, arg(h, args, 0))
	if err != nil {
		return sexpr.Nil, err
	}
	n, err := numVal(h, arg(h, args, 1))
	if err != nil {
		return sexpr.Nil, err
	}
	return h.NewUInt(a >> uint(n))
}

// --- conversions ---

func primToInteger(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	x := arg(h, args, 0)
	switch h.Tag(x) {
	case sexpr.TagInt:
		return h.Retain(x), nil
	case sexpr.TagUInt:
		return h.NewInt(int32(h.UIntValue(x)))
	default:
		return sexpr.Nil, langerr.New(langerr.Type, "integer: expected an integer or unsigned value, got %s", h.Tag(x))
	}
}

func primToUnsigned(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	x := arg(h, args, 0)
	switch h.Tag(x) {
	case sexpr.TagUInt:
		return h.Retain(x), nil
	case sexpr.TagInt:
		return h.NewUInt(uint32(h.IntValue(x)))
	default:
		return sexpr.Nil, langerr.New(langerr.Type, "unsigned: expected an integer or unsigned value, got %s", h.Tag(x))
	}
}

// --- list constructors and accessors ---

func primList(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	// args is already a freshly built, owned list of the evaluated operands,
	// and is exactly the desired result: the generic apply_prim post-call
	// release is balanced by this retain.
	return h.Retain(args), nil
}

func primCons(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	return h.NewCons(h.Retain(arg(h, args, 0)), h.Retain(arg(h, args, 1)))
}

func requirePair(h *sexpr.Heap, name string, x sexpr.Ref) error {
	if h.Tag(x) != sexpr.TagCons {
		return langerr.New(langerr.Type, "%s: expected a pair, got %s", name, h.Tag(x))
	}
	return nil
}

func primCar(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	x := arg(h, args, 0)
	if err := requirePair(h, "car", x); err != nil {
		return sexpr.Nil, err
	}
	return h.Retain(h.Car(x)), nil
}

func primCdr(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	x := arg(h, args, 0)
	if err := requirePair(h, "cdr", x); err != nil {
		return sexpr.Nil, err
	}
	return h.Retain(h.Cdr(x)), nil
}

// composeCxR walks ops right-to-left over x, applying car for 'a' and cdr for
// 'd' (spec §4.7: "implemented by walking a string of a/d over the
// argument"). "cadr" has ops "ad" and means (car (cdr x)).
func composeCxR(h *sexpr.Heap, name string, ops string, x sexpr.Ref) (sexpr.Ref, error) {
	for i := len(ops) - 1; i >= 0; i-- {
		if err := requirePair(h, name, x); err != nil {
			return sexpr.Nil, err
		}
		if ops[i] == 'a' {
			x = h.Car(x)
		} else {
			x = h.Cdr(x)
		}
	}
	return h.Retain(x), nil
}

// registerComposedAccessors installs all 28 c[ad]{2,4}r compositions.
func registerComposedAccessors(h *sexpr.Heap) {
	var combos []string
	var gen func(prefix string, n int)
	gen = func(prefix string, n int) {
		if n == 0 {
			combos = append(combos, prefix)
			return
		}
		gen(prefix+"a", n-1)
		gen(prefix+"d", n-1)
	}
	for length := 2; length <= 4; length++ {
		combos = nil
		gen("", length)
		for _, ops := range combos {
			name := "c" + ops + "r"
			ops := ops // capture
			p := &sexpr.Primitive{
				Name: name, Arity: 1, IsSpecialForm: false,
				Fn: func(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
					return composeCxR(h, name, ops, arg(h, args, 0))
				},
			}
			h.Bind(h.Global(), h.Intern(name), h.NewPrimitive(p))
		}
	}
}

var ordinalNames = []string{
	"first", "second", "third", "fourth", "fifth",
	"sixth", "seventh", "eighth", "ninth", "tenth",
}

func nthElement(h *sexpr.Heap, name string, list sexpr.Ref, n int) (sexpr.Ref, error) {
	cur := list
	for i := 0; i < n; i++ {
		if h.Tag(cur) != sexpr.TagCons {
			return sexpr.Nil, langerr.New(langerr.Domain, "%s: index out of bounds", name)
		}
		cur = h.Cdr(cur)
	}
	if h.Tag(cur) != sexpr.TagCons {
		return sexpr.Nil, langerr.New(langerr.Domain, "%s: index out of bounds", name)
	}
	return h.Retain(h.Car(cur)), nil
}

func registerOrdinals(h *sexpr.Heap) {
	for i, name := range ordinalNames {
		idx := i
		nm := name
		p := &sexpr.Primitive{
			Name: nm, Arity: 1, IsSpecialForm: false,
			Fn: func(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
				return nthElement(h, nm, arg(h, args, 0), idx)
			},
		}
		h.Bind(h.Global(), h.Intern(nm), h.NewPrimitive(p))
	}
}

func indexArg(h *sexpr.Heap, name string, r sexpr.Ref) (int, error) {
	if h.Tag(r) != sexpr.TagInt {
		return 0, langerr.New(langerr.Type, "%s: index must be an integer", name)
	}
	n := h.IntValue(r)
	if n < 0 {
		return 0, langerr.New(langerr.Domain, "%s: index must be >= 0", name)
	}
	return int(n), nil
}

func primListRef(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	n, err := indexArg(h, "list-ref", arg(h, args, 1))
	if err != nil {
		return sexpr.Nil, err
	}
	return nthElement(h, "list-ref", arg(h, args, 0), n)
}

func primListHead(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	n, err := indexArg(h, "list-head", arg(h, args, 1))
	if err != nil {
		return sexpr.Nil, err
	}
	cur := arg(h, args, 0)
	elems := make([]sexpr.Ref, 0, n)
	for i := 0; i < n; i++ {
		if h.Tag(cur) != sexpr.TagCons {
			releaseAll(h, elems)
			return sexpr.Nil, langerr.New(langerr.Domain, "list-head: index out of bounds")
		}
		elems = append(elems, h.Retain(h.Car(cur)))
		cur = h.Cdr(cur)
	}
	return h.ListFromOwnedSlice(elems)
}

func primListTail(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	n, err := indexArg(h, "list-tail", arg(h, args, 1))
	if err != nil {
		return sexpr.Nil, err
	}
	cur := arg(h, args, 0)
	for i := 0; i < n; i++ {
		if h.Tag(cur) != sexpr.TagCons {
			return sexpr.Nil, langerr.New(langerr.Domain, "list-tail: index out of bounds")
		}
		cur = h.Cdr(cur)
	}
	return h.Retain(cur), nil
}

func primAppend(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	lists := h.ListToSlice(args)
	if len(lists) == 0 {
		return sexpr.Nil, nil
	}
	tail := h.Retain(lists[len(lists)-1])
	var elems []sexpr.Ref
	for _, l := range lists[:len(lists)-1] {
		for _, e := range h.ListToSlice(l) {
			elems = append(elems, h.Retain(e))
		}
	}
	return buildDottedOwned(h, elems, tail)
}

func primAppendBang(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	lists := h.ListToSlice(args)
	if len(lists) == 0 {
		return sexpr.Nil, nil
	}
	result := lists[0]
	lastList := result
	for _, next := range lists[1:] {
		if h.Tag(next) != sexpr.TagCons {
			continue
		}
		if h.Tag(lastList) == sexpr.TagCons {
			h.SetCdr(h.LastCons(lastList), next)
		}
		lastList = next
	}
	return h.Retain(result), nil
}

// --- equality and ordering ---

func primEq(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	return h.BoolFor(h.IsEqual(arg(h, args, 0), arg(h, args, 1))), nil
}

func primNeq(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	return h.BoolFor(!h.IsEqual(arg(h, args, 0), arg(h, args, 1))), nil
}

func primLt(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	c, err := compareNum(h, arg(h, args, 0), arg(h, args, 1))
	if err != nil {
		return sexpr.Nil, err
	}
	return h.BoolFor(c < 0), nil
}

func primLe(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	c, err := compareNum(h, arg(h, args, 0), arg(h, args, 1))
	if err != nil {
		return sexpr.Nil, err
	}
	return h.BoolFor(c <= 0), nil
}

func primGt(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	c, err := compareNum(h, arg(h, args, 0), arg(h, args, 1))
	if err != nil {
		return sexpr.Nil, err
	}
	return h.BoolFor(c > 0), nil
}

func primGe(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	c, err := compareNum(h, arg(h, args, 0), arg(h, args, 1))
	if err != nil {
		return sexpr.Nil, err
	}
	return h.BoolFor(c >= 0), nil
}

// --- type predicates ---

func primNilP(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	return h.BoolFor(arg(h, args, 0).IsNil()), nil
}

func primListP(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	return h.BoolFor(h.IsProperList(arg(h, args, 0))), nil
}

func primSymbolP(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	return h.BoolFor(h.Tag(arg(h, args, 0)) == sexpr.TagSymbol), nil
}

func primStringP(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	return h.BoolFor(h.Tag(arg(h, args, 0)) == sexpr.TagString), nil
}

func primIntegerP(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	return h.BoolFor(h.Tag(arg(h, args, 0)) == sexpr.TagInt), nil
}

func primUnsignedP(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	return h.BoolFor(h.Tag(arg(h, args, 0)) == sexpr.TagUInt), nil
}

func primFunctionP(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	t := h.Tag(arg(h, args, 0))
	return h.BoolFor(t == sexpr.TagFunction || t == sexpr.TagPrimitive), nil
}

func primMacroP(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	return h.BoolFor(h.Tag(arg(h, args, 0)) == sexpr.TagMacro), nil
}

// --- reflection ---

func primDefinition(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	x := arg(h, args, 0)
	t := h.Tag(x)
	if t != sexpr.TagFunction && t != sexpr.TagMacro {
		return sexpr.Nil, langerr.New(langerr.Type, "definition: expected a function or macro, got %s", t)
	}
	cl := h.ClosureValue(x)
	bodyList, err := h.ListFromOwnedSlice(retainAll(h, cl.Body))
	if err != nil {
		return sexpr.Nil, err
	}
	str := h.ToString(bodyList)
	h.Release(bodyList)
	return h.NewString(str)
}

func primHeapSize(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	return h.NewInt(int32(h.HeapSize()))
}

func primFreeSize(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	return h.NewInt(int32(h.FreeSize()))
}
