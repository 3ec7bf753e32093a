package eval

import (
	"github.com/dastels/microscheme/internal/langerr"
	"github.com/dastels/microscheme/internal/sexpr"
)

// quasiquoteExpand implements process_quasiquoted (spec §4.6): it walks expr,
// evaluating unquote/unquote-splicing forms at the innermost nesting level
// and preserving them structurally at outer levels, entering at level=1.
func quasiquoteExpand(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, expr sexpr.Ref) (sexpr.Ref, error) {
	return qq(h, ev, frame, expr, 1)
}

// qq processes expr as a single template position and returns the owned
// result of substitution at the given nesting level.
func qq(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, expr sexpr.Ref, level int) (sexpr.Ref, error) {
	if h.Tag(expr) != sexpr.TagCons {
		return h.Retain(expr), nil
	}

	head := h.Car(expr)
	if h.Tag(head) == sexpr.TagSymbol {
		switch h.SymbolName(head) {
		case "unquote":
			if level == 1 {
				return ev.Eval(h.Car(h.Cdr(expr)), frame)
			}
			return qqRebuildTagged(h, ev, frame, expr, "unquote", level-1)
		case "unquote-splicing":
			if level == 1 {
				return sexpr.Nil, langerr.New(langerr.Domain, "unquote-splicing is not valid outside a list context")
			}
			return qqRebuildTagged(h, ev, frame, expr, "unquote-splicing", level-1)
		case "quasiquote":
			return qqRebuildTagged(h, ev, frame, expr, "quasiquote", level+1)
		}
	}
	return qqList(h, ev, frame, expr, level)
}

// qqRebuildTagged reconstructs (tag X') where X' is qq's result on expr's
// single argument at newLevel.
func qqRebuildTagged(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, expr sexpr.Ref, tag string, newLevel int) (sexpr.Ref, error) {
	arg := h.Car(h.Cdr(expr))
	sub, err := qq(h, ev, frame, arg, newLevel)
	if err != nil {
		return sexpr.Nil, err
	}
	tailList, err := h.NewCons(sub, sexpr.Nil)
	if err != nil {
		h.Release(sub)
		return sexpr.Nil, err
	}
	result, err := h.NewCons(h.Retain(h.Intern(tag)), tailList)
	if err != nil {
		h.Release(tailList)
		return sexpr.Nil, err
	}
	return result, nil
}

// qqList walks an ordinary (non-special-headed) list, splicing in
// unquote-splicing elements found at the innermost level and recursing into
// every other element and the (possibly dotted) tail.
func qqList(h *sexpr.Heap, ev sexpr.Evaluator, frame *sexpr.Frame, expr sexpr.Ref, level int) (sexpr.Ref, error) {
	var parts []sexpr.Ref
	cur := expr
	for h.Tag(cur) == sexpr.TagCons {
		elem := h.Car(cur)
		if isSplice(h, elem) && level == 1 {
			argExpr := h.Car(h.Cdr(elem))
			listVal, err := ev.Eval(argExpr, frame)
			if err != nil {
				releaseAll(h, parts)
				return sexpr.Nil, err
			}
			for _, s := range h.ListToSlice(listVal) {
				parts = append(parts, h.Retain(s))
			}
			h.Release(listVal)
			cur = h.Cdr(cur)
			continue
		}
		v, err := qq(h, ev, frame, elem, level)
		if err != nil {
			releaseAll(h, parts)
			return sexpr.Nil, err
		}
		parts = append(parts, v)
		cur = h.Cdr(cur)
	}

	if cur.IsNil() {
		return h.ListFromOwnedSlice(parts)
	}
	tail, err := qq(h, ev, frame, cur, level)
	if err != nil {
		releaseAll(h, parts)
		return sexpr.Nil, err
	}
	return buildDottedOwned(h, parts, tail)
}

func isSplice(h *sexpr.Heap, elem sexpr.Ref) bool {
	if h.Tag(elem) != sexpr.TagCons {
		return false
	}
	head := h.Car(elem)
	return h.Tag(head) == sexpr.TagSymbol && h.SymbolName(head) == "unquote-splicing"
}

func buildDottedOwned(h *sexpr.Heap, elems []sexpr.Ref, tail sexpr.Ref) (sexpr.Ref, error) {
	result := tail
	for i := len(elems) - 1; i >= 0; i-- {
		c, err := h.NewCons(elems[i], result)
		if err != nil {
			h.Release(result)
			for j := i; j >= 0; j-- {
				h.Release(elems[j])
			}
			return sexpr.Nil, err
		}
		result = c
	}
	return result, nil
}
