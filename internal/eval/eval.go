package eval

import (
	"github.com/dastels/microscheme/internal/langerr"
	"github.com/dastels/microscheme/internal/sexpr"
)

// Interp is the evaluator: it implements sexpr.Evaluator so that special
// forms and primitives can recurse back into Eval/EvalSeq without the sexpr
// package depending on eval.
type Interp struct {
	Heap *sexpr.Heap
}

// New creates an evaluator over h and registers every special form and
// primitive into h's global frame (spec §5 init sequence: "register special
// forms → register primitives").
func New(h *sexpr.Heap) *Interp {
	it := &Interp{Heap: h}
	registerSpecialForms(it)
	registerPrimitives(it)
	return it
}

var _ sexpr.Evaluator = (*Interp)(nil)

// Eval dispatches on expr's tag (spec §4.5).
func (it *Interp) Eval(expr sexpr.Ref, frame *sexpr.Frame) (sexpr.Ref, error) {
	h := it.Heap
	switch h.Tag(expr) {
	case sexpr.TagFree: // the empty reference is self-evaluating
		return sexpr.Nil, nil
	case sexpr.TagSymbol:
		return h.Retain(h.ValueOf(frame, expr)), nil
	case sexpr.TagCons:
		return it.evalApplication(expr, frame)
	default:
		// Int, UInt, Bool, String, Function, Macro, Primitive: self-evaluating.
		return h.Retain(expr), nil
	}
}

// EvalSeq evaluates exprs in order, releasing every intermediate result.
func (it *Interp) EvalSeq(exprs []sexpr.Ref, frame *sexpr.Frame) (sexpr.Ref, error) {
	h := it.Heap
	result := sexpr.Nil
	for _, e := range exprs {
		v, err := it.Eval(e, frame)
		if err != nil {
			h.Release(result)
			return sexpr.Nil, err
		}
		h.Release(result)
		result = v
	}
	return result, nil
}

// evalApplication implements the Cons case of evaluate: a symbol head is
// looked up by name; any other head (e.g. a lambda or let form) is evaluated
// in frame to obtain the callable.
func (it *Interp) evalApplication(expr sexpr.Ref, frame *sexpr.Frame) (sexpr.Ref, error) {
	h := it.Heap
	head := h.Car(expr)
	var name string
	var callee sexpr.Ref
	if h.Tag(head) == sexpr.TagSymbol {
		name = h.SymbolName(head)
		callee = h.ValueOf(frame, head)
	} else {
		v, err := it.Eval(head, frame)
		if err != nil {
			return sexpr.Nil, err
		}
		defer h.Release(v)
		name, callee = h.ToString(head), v
	}
	if callee.IsNil() {
		return sexpr.Nil, langerr.UnboundCallable(name)
	}
	args := h.Cdr(expr)
	switch h.Tag(callee) {
	case sexpr.TagPrimitive:
		return it.applyPrim(h.PrimitiveValue(callee), args, frame)
	case sexpr.TagFunction:
		return it.ApplyFunc(h.ClosureValue(callee), args, frame)
	case sexpr.TagMacro:
		return it.applyMacro(h.ClosureValue(callee), args, frame)
	default:
		return sexpr.Nil, langerr.New(langerr.Type, "function, special-form, or macro expected for %s", name)
	}
}

// ApplyFunc implements apply_func (spec §4.5).
func (it *Interp) ApplyFunc(cl *sexpr.Closure, argsList sexpr.Ref, callerFrame *sexpr.Frame) (sexpr.Ref, error) {
	h := it.Heap
	argv := h.ListToSlice(argsList)
	if len(argv) != cl.Arity() {
		return sexpr.Nil, langerr.WrongArity(cl.Name, cl.Arity(), len(argv))
	}
	local := h.NewFrameBelow(cl.Frame)
	for i, param := range cl.Params {
		val, err := it.Eval(argv[i], callerFrame)
		if err != nil {
			h.GoOutOfScope(local)
			return sexpr.Nil, err
		}
		h.Bind(local, param, val)
		h.Release(val)
	}
	result, err := it.EvalSeq(cl.Body, local)
	h.GoOutOfScope(local)
	return result, err
}

// Expand implements expand (spec §4.5): bind evaluated arguments (evaluated
// eagerly, in the caller's environment — the dialect's documented departure
// from the usual unevaluated-macro-argument rule, see spec §9 Open
// Questions), then evaluate the macro body once to produce the expansion.
func (it *Interp) Expand(macro *sexpr.Closure, argsList sexpr.Ref, callerFrame *sexpr.Frame) (sexpr.Ref, error) {
	h := it.Heap
	argv := h.ListToSlice(argsList)
	if len(argv) != macro.Arity() {
		return sexpr.Nil, langerr.WrongArity(macro.Name, macro.Arity(), len(argv))
	}
	local := h.NewFrameBelow(macro.Frame)
	for i, param := range macro.Params {
		val, err := it.Eval(argv[i], callerFrame)
		if err != nil {
			h.GoOutOfScope(local)
			return sexpr.Nil, err
		}
		h.Bind(local, param, val)
		h.Release(val)
	}
	var body sexpr.Ref = sexpr.Nil
	if len(macro.Body) > 0 {
		body = macro.Body[0]
	}
	expansion, err := it.Eval(body, local)
	h.GoOutOfScope(local)
	return expansion, err
}

// applyMacro is expand followed by evaluating the expansion in the caller's
// environment.
func (it *Interp) applyMacro(macro *sexpr.Closure, argsList sexpr.Ref, callerFrame *sexpr.Frame) (sexpr.Ref, error) {
	expansion, err := it.Expand(macro, argsList, callerFrame)
	if err != nil {
		return sexpr.Nil, err
	}
	result, err := it.Eval(expansion, callerFrame)
	it.Heap.Release(expansion)
	return result, err
}

// applyPrim implements apply_prim (spec §4.5).
func (it *Interp) applyPrim(prim *sexpr.Primitive, argsList sexpr.Ref, callerFrame *sexpr.Frame) (sexpr.Ref, error) {
	h := it.Heap
	if prim.Arity >= 0 {
		if n := h.ListLength(argsList); n != prim.Arity {
			return sexpr.Nil, langerr.WrongArity(prim.Name, prim.Arity, n)
		}
	}
	if prim.IsSpecialForm {
		return prim.Fn(h, it, callerFrame, argsList)
	}

	raw := h.ListToSlice(argsList)
	evaluated := make([]sexpr.Ref, 0, len(raw))
	for _, a := range raw {
		v, err := it.Eval(a, callerFrame)
		if err != nil {
			for _, done := range evaluated {
				h.Release(done)
			}
			return sexpr.Nil, err
		}
		evaluated = append(evaluated, v)
	}
	list, err := h.ListFromOwnedSlice(evaluated)
	if err != nil {
		return sexpr.Nil, err
	}
	result, err := prim.Fn(h, it, callerFrame, list)
	h.Release(list)
	return result, err
}
