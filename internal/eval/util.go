package eval

import (
	"github.com/dastels/microscheme/internal/langerr"
	"github.com/dastels/microscheme/internal/sexpr"
)

func typeErrorf(h *sexpr.Heap, r sexpr.Ref, what string) error {
	return langerr.New(langerr.Type, "expected a symbol for %s, got %s", what, h.Tag(r))
}

func retainAll(h *sexpr.Heap, refs []sexpr.Ref) []sexpr.Ref {
	out := make([]sexpr.Ref, len(refs))
	for i, r := range refs {
		out[i] = h.Retain(r)
	}
	return out
}

func releaseAll(h *sexpr.Heap, refs []sexpr.Ref) {
	for _, r := range refs {
		h.Release(r)
	}
}

func symbolsOf(h *sexpr.Heap, list sexpr.Ref) ([]sexpr.Ref, error) {
	raw := h.ListToSlice(list)
	for _, r := range raw {
		if h.Tag(r) != sexpr.TagSymbol {
			return nil, typeErrorf(h, r, "parameter list element")
		}
	}
	return raw, nil
}
