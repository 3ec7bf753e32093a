package sexpr

// ListFromOwnedSlice builds a proper list from elems, taking ownership of
// each element (the caller must already hold a retain on them). The last cdr
// is Nil.
func (h *Heap) ListFromOwnedSlice(elems []Ref) (Ref, error) {
	result := Nil
	for i := len(elems) - 1; i >= 0; i-- {
		c, err := h.NewCons(elems[i], result)
		if err != nil {
			h.Release(result)
			return Nil, err
		}
		result = c
	}
	return result, nil
}

// ListToSlice walks a proper or dotted list and returns its elements without
// retaining them (the caller borrows the references; they remain owned by
// the list).
func (h *Heap) ListToSlice(r Ref) []Ref {
	var out []Ref
	for {
		switch h.Tag(r) {
		case TagFree: // Nil
			return out
		case TagCons:
			out = append(out, h.Car(r))
			r = h.Cdr(r)
		default:
			// dotted tail: include it as a final element for callers that
			// want to detect improper lists.
			out = append(out, r)
			return out
		}
	}
}

// ListLength returns the number of cons cells walked before reaching Nil. A
// dotted or non-list tail stops the count without including the tail.
func (h *Heap) ListLength(r Ref) int {
	n := 0
	for h.Tag(r) == TagCons {
		n++
		r = h.Cdr(r)
	}
	return n
}

// IsProperList reports whether r is Nil or a chain of conses ending in Nil.
func (h *Heap) IsProperList(r Ref) bool {
	for {
		switch h.Tag(r) {
		case TagFree:
			return true
		case TagCons:
			r = h.Cdr(r)
		default:
			return false
		}
	}
}

// LastCons returns the final cons cell of a non-empty list.
func (h *Heap) LastCons(r Ref) Ref {
	for h.Tag(h.Cdr(r)) == TagCons {
		r = h.Cdr(r)
	}
	return r
}
