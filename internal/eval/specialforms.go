package eval

import (
	"github.com/dastels/microscheme/internal/langerr"
	"github.com/dastels/microscheme/internal/sexpr"
)

// registerSpecialForms installs every special form (spec §4.6) into h's
// global frame. Special forms always receive the raw, unevaluated argument
// list; recursive evaluation happens through ev.
func registerSpecialForms(it *Interp) {
	h := it.Heap
	def := func(name string, arity int, fn sexpr.PrimitiveFunc) {
		p := &sexpr.Primitive{Name: name, Arity: arity, IsSpecialForm: true, Fn: fn}
		h.Bind(h.Global(), h.Intern(name), h.NewPrimitive(p))
	}

	def("lambda", -1, sfLambda)
	def("define", -1, sfDefine)
	def("defmacro", -1, sfDefmacro)
	def("if", -1, sfIf)
	def("cond", -1, sfCond)
	def("let", -1, sfLet)
	def("let*", -1, sfLetStar)
	def("letrec", -1, sfLetrec)
	def("set!", 2, sfSet)
	def("quote", 1, sfQuote)
	def("quasiquote", 1, sfQuasiquote)
	def("unquote", -1, sfBareUnquote)
	def("unquote-splicing", -1, sfBareUnquote)
	def("do", -1, sfDo)

	// expand needs full macro Expand, which lives on Interp rather than the
	// minimal sexpr.Evaluator interface, so it is bound as a method value.
	def("expand", -1, it.sfExpand)
}

func sfLambda(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	elems := h.ListToSlice(args)
	if len(elems) < 1 {
		return sexpr.Nil, langerr.New(langerr.Arity, "lambda requires a parameter list")
	}
	params, err := symbolsOf(h, elems[0])
	if err != nil {
		return sexpr.Nil, err
	}
	cl := &sexpr.Closure{
		Name:   "lambda",
		Params: retainAll(h, params),
		Body:   retainAll(h, elems[1:]),
		Frame:  frame,
	}
	ref, err := h.NewClosure(cl)
	if err != nil {
		releaseAll(h, cl.Params)
		releaseAll(h, cl.Body)
		return sexpr.Nil, err
	}
	return ref, nil
}

func sfDefine(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	elems := h.ListToSlice(args)
	if len(elems) < 1 {
		return sexpr.Nil, langerr.New(langerr.Arity, "define requires at least a name")
	}
	target := elems[0]

	if h.Tag(target) == sexpr.TagSymbol {
		if len(elems) != 2 {
			return sexpr.Nil, langerr.New(langerr.Arity, "define requires exactly a name and a value")
		}
		val, err := ev.Eval(elems[1], frame)
		if err != nil {
			return sexpr.Nil, err
		}
		h.Bind(frame, target, val)
		h.Release(val)
		return sexpr.Nil, nil
	}

	if h.Tag(target) != sexpr.TagCons {
		return sexpr.Nil, langerr.New(langerr.Type, "define requires a symbol or (name params...) form")
	}
	nameSym := h.Car(target)
	if h.Tag(nameSym) != sexpr.TagSymbol {
		return sexpr.Nil, langerr.New(langerr.Type, "define: function name must be a symbol")
	}
	params, err := symbolsOf(h, h.Cdr(target))
	if err != nil {
		return sexpr.Nil, err
	}
	cl := &sexpr.Closure{
		Name:   h.SymbolName(nameSym),
		Params: retainAll(h, params),
		Body:   retainAll(h, elems[1:]),
		Frame:  frame,
	}
	ref, err := h.NewClosure(cl)
	if err != nil {
		releaseAll(h, cl.Params)
		releaseAll(h, cl.Body)
		return sexpr.Nil, err
	}
	h.Bind(frame, nameSym, ref)
	h.Release(ref)
	return sexpr.Nil, nil
}

func sfDefmacro(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	elems := h.ListToSlice(args)
	if len(elems) != 2 {
		return sexpr.Nil, langerr.New(langerr.Arity, "defmacro requires a (name params...) form and a body")
	}
	sig := elems[0]
	if h.Tag(sig) != sexpr.TagCons {
		return sexpr.Nil, langerr.New(langerr.Type, "defmacro requires a (name params...) form")
	}
	nameSym := h.Car(sig)
	if h.Tag(nameSym) != sexpr.TagSymbol {
		return sexpr.Nil, langerr.New(langerr.Type, "defmacro: macro name must be a symbol")
	}
	params, err := symbolsOf(h, h.Cdr(sig))
	if err != nil {
		return sexpr.Nil, err
	}
	cl := &sexpr.Closure{
		Name:    h.SymbolName(nameSym),
		Params:  retainAll(h, params),
		Body:    []sexpr.Ref{h.Retain(elems[1])},
		Frame:   frame,
		IsMacro: true,
	}
	ref, err := h.NewClosure(cl)
	if err != nil {
		releaseAll(h, cl.Params)
		releaseAll(h, cl.Body)
		return sexpr.Nil, err
	}
	h.Bind(frame, nameSym, ref)
	h.Release(ref)
	return sexpr.Nil, nil
}

func sfIf(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	elems := h.ListToSlice(args)
	if len(elems) < 2 || len(elems) > 3 {
		return sexpr.Nil, langerr.New(langerr.Arity, "if requires 2 or 3 arguments, got %d", len(elems))
	}
	cond, err := ev.Eval(elems[0], frame)
	if err != nil {
		return sexpr.Nil, err
	}
	truthy := h.Truthy(cond)
	h.Release(cond)
	if truthy {
		return ev.Eval(elems[1], frame)
	}
	if len(elems) == 3 {
		return ev.Eval(elems[2], frame)
	}
	return sexpr.Nil, nil
}

func sfCond(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	for _, clause := range h.ListToSlice(args) {
		parts := h.ListToSlice(clause)
		if len(parts) < 1 {
			return sexpr.Nil, langerr.New(langerr.Syntax, "cond clause must not be empty")
		}
		pred, body := parts[0], parts[1:]
		if h.Tag(pred) == sexpr.TagSymbol && h.SymbolName(pred) == "else" {
			return ev.EvalSeq(body, frame)
		}
		val, err := ev.Eval(pred, frame)
		if err != nil {
			return sexpr.Nil, err
		}
		truthy := h.Truthy(val)
		h.Release(val)
		if truthy {
			return ev.EvalSeq(body, frame)
		}
	}
	return sexpr.Nil, nil
}

func sfLet(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	elems := h.ListToSlice(args)
	if len(elems) < 1 {
		return sexpr.Nil, langerr.New(langerr.Arity, "let requires a binding list")
	}
	local := h.NewFrameBelow(frame)
	for _, bf := range h.ListToSlice(elems[0]) {
		parts := h.ListToSlice(bf)
		if len(parts) != 2 || h.Tag(parts[0]) != sexpr.TagSymbol {
			h.GoOutOfScope(local)
			return sexpr.Nil, langerr.New(langerr.Syntax, "let binding must be (name value)")
		}
		val, err := ev.Eval(parts[1], frame)
		if err != nil {
			h.GoOutOfScope(local)
			return sexpr.Nil, err
		}
		h.Bind(local, parts[0], val)
		h.Release(val)
	}
	result, err := ev.EvalSeq(elems[1:], local)
	h.GoOutOfScope(local)
	return result, err
}

func sfLetStar(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	elems := h.ListToSlice(args)
	if len(elems) < 1 {
		return sexpr.Nil, langerr.New(langerr.Arity, "let* requires a binding list")
	}
	local := h.NewFrameBelow(frame)
	for _, bf := range h.ListToSlice(elems[0]) {
		parts := h.ListToSlice(bf)
		if len(parts) != 2 || h.Tag(parts[0]) != sexpr.TagSymbol {
			h.GoOutOfScope(local)
			return sexpr.Nil, langerr.New(langerr.Syntax, "let* binding must be (name value)")
		}
		val, err := ev.Eval(parts[1], local)
		if err != nil {
			h.GoOutOfScope(local)
			return sexpr.Nil, err
		}
		h.Bind(local, parts[0], val)
		h.Release(val)
	}
	result, err := ev.EvalSeq(elems[1:], local)
	h.GoOutOfScope(local)
	return result, err
}

func sfLetrec(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	elems := h.ListToSlice(args)
	if len(elems) < 1 {
		return sexpr.Nil, langerr.New(langerr.Arity, "letrec requires a binding list")
	}
	bindingForms := h.ListToSlice(elems[0])
	local := h.NewFrameBelow(frame)
	names := make([]sexpr.Ref, len(bindingForms))
	for i, bf := range bindingForms {
		parts := h.ListToSlice(bf)
		if len(parts) != 2 || h.Tag(parts[0]) != sexpr.TagSymbol {
			h.GoOutOfScope(local)
			return sexpr.Nil, langerr.New(langerr.Syntax, "letrec binding must be (name value)")
		}
		names[i] = parts[0]
		h.Bind(local, parts[0], sexpr.Nil)
	}
	for i, bf := range bindingForms {
		parts := h.ListToSlice(bf)
		val, err := ev.Eval(parts[1], local)
		if err != nil {
			h.GoOutOfScope(local)
			return sexpr.Nil, err
		}
		h.Rebind(local, names[i], val)
		h.Release(val)
	}
	result, err := ev.EvalSeq(elems[1:], local)
	h.GoOutOfScope(local)
	return result, err
}

func sfSet(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	elems := h.ListToSlice(args)
	if len(elems) != 2 || h.Tag(elems[0]) != sexpr.TagSymbol {
		return sexpr.Nil, langerr.New(langerr.Syntax, "set! requires (set! symbol expr)")
	}
	val, err := ev.Eval(elems[1], frame)
	if err != nil {
		return sexpr.Nil, err
	}
	target := h.FrameThatBinds(frame, elems[0])
	if target == nil {
		h.Release(val)
		return sexpr.Nil, langerr.New(langerr.Unbound, "set!: unbound variable %s", h.SymbolName(elems[0]))
	}
	h.Rebind(target, elems[0], val)
	h.Release(val)
	return sexpr.Nil, nil
}

func sfQuote(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	return h.Retain(h.Car(args)), nil
}

func sfQuasiquote(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	return quasiquoteExpand(h, ev, frame, h.Car(args))
}

func sfBareUnquote(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	return sexpr.Nil, langerr.New(langerr.Domain, "unquote used outside quasiquote")
}

// sfExpand is a method on Interp (not a free function) because it needs
// Expand, which is part of Interp's concrete API rather than the minimal
// sexpr.Evaluator interface.
func (it *Interp) sfExpand(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	elems := h.ListToSlice(args)
	if len(elems) < 1 {
		return sexpr.Nil, langerr.New(langerr.Arity, "expand requires a macro expression")
	}
	macroVal, err := ev.Eval(elems[0], frame)
	if err != nil {
		return sexpr.Nil, err
	}
	if h.Tag(macroVal) != sexpr.TagMacro {
		h.Release(macroVal)
		return sexpr.Nil, langerr.New(langerr.Type, "expand requires a macro")
	}
	argsList, err := h.ListFromOwnedSlice(retainAll(h, elems[1:]))
	if err != nil {
		h.Release(macroVal)
		return sexpr.Nil, err
	}
	result, err := it.Expand(h.ClosureValue(macroVal), argsList, frame)
	h.Release(argsList)
	h.Release(macroVal)
	return result, err
}

func sfDo(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, args sexpr.Ref) (sexpr.Ref, error) {
	elems := h.ListToSlice(args)
	if len(elems) < 2 {
		return sexpr.Nil, langerr.New(langerr.Arity, "do requires a binding list and a test clause")
	}
	specs := h.ListToSlice(elems[0])
	testParts := h.ListToSlice(elems[1])
	if len(testParts) < 1 {
		return sexpr.Nil, langerr.New(langerr.Syntax, "do requires a non-empty test clause")
	}
	testExpr, resultBody := testParts[0], testParts[1:]
	body := elems[2:]

	type spec struct {
		v, init, step sexpr.Ref
		hasStep       bool
	}
	parsed := make([]spec, len(specs))
	for i, s := range specs {
		parts := h.ListToSlice(s)
		if len(parts) < 2 || len(parts) > 3 || h.Tag(parts[0]) != sexpr.TagSymbol {
			return sexpr.Nil, langerr.New(langerr.Syntax, "do binding must be (var init [step])")
		}
		ps := spec{v: parts[0], init: parts[1]}
		if len(parts) == 3 {
			ps.step = parts[2]
			ps.hasStep = true
		}
		parsed[i] = ps
	}

	local := h.NewFrameBelow(frame)
	for _, s := range parsed {
		val, err := ev.Eval(s.init, frame)
		if err != nil {
			h.GoOutOfScope(local)
			return sexpr.Nil, err
		}
		h.Bind(local, s.v, val)
		h.Release(val)
	}

	for {
		tv, err := ev.Eval(testExpr, local)
		if err != nil {
			h.GoOutOfScope(local)
			return sexpr.Nil, err
		}
		truthy := h.Truthy(tv)
		h.Release(tv)
		if truthy {
			result, err := ev.EvalSeq(resultBody, local)
			h.GoOutOfScope(local)
			return result, err
		}

		bres, err := ev.EvalSeq(body, local)
		if err != nil {
			h.GoOutOfScope(local)
			return sexpr.Nil, err
		}
		h.Release(bres)

		for _, s := range parsed {
			if !s.hasStep {
				continue
			}
			val, err := ev.Eval(s.step, local)
			if err != nil {
				h.GoOutOfScope(local)
				return sexpr.Nil, err
			}
			h.Rebind(local, s.v, val)
			h.Release(val)
		}
	}
}
