package sexpr

// IsEqual implements structural equality (spec §4.1, is_equal). Identical
// refs are always equal; refs of different tags are never equal except that
// Nil compares equal only to itself.
func (h *Heap) IsEqual(a, b Ref) bool {
	if a == b {
		return true
	}
	if a.IsNil() || b.IsNil() {
		return false
	}
	ca, cb := &h.cells[a], &h.cells[b]
	if ca.tag != cb.tag {
		return false
	}
	switch ca.tag {
	case TagInt:
		return ca.ival == cb.ival
	case TagUInt:
		return ca.uval == cb.uval
	case TagBool:
		return ca.bval == cb.bval
	case TagString:
		return string(ca.str) == string(cb.str)
	case TagSymbol:
		// interned: equal names always share a cell, so a==b would already
		// have matched above. Distinct cells with the same tag here means
		// distinct names.
		return ca.sym == cb.sym
	case TagCons:
		return h.IsEqual(ca.car, cb.car) && h.IsEqual(ca.cdr, cb.cdr)
	case TagFunction, TagMacro:
		return ca.closure == cb.closure
	case TagPrimitive:
		return ca.prim == cb.prim
	default:
		return false
	}
}
