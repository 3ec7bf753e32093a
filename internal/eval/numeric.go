package eval

import (
	"github.com/dastels/microscheme/internal/langerr"
	"github.com/dastels/microscheme/internal/sexpr"
)

// numVal returns the numeric value of an Int or UInt cell as an int64,
// widening UInt's bit pattern rather than reinterpreting its sign.
func numVal(h *sexpr.Heap, r sexpr.Ref) (int64, error) {
	switch h.Tag(r) {
	case sexpr.TagInt:
		return int64(h.IntValue(r)), nil
	case sexpr.TagUInt:
		return int64(h.UIntValue(r)), nil
	default:
		return 0, langerr.New(langerr.Type, "expected a number, got %s", h.Tag(r))
	}
}

func uintVal(h *sexpr.Heap, r sexpr.Ref) (uint32, error) {
	if h.Tag(r) != sexpr.TagUInt {
		return 0, langerr.New(langerr.Type, "expected an unsigned value, got %s", h.Tag(r))
	}
	return h.UIntValue(r), nil
}

// compareNum implements the ordering primitives' rule: compare as unsigned
// only when both operands are UInt, signed otherwise (spec §4.7).
func compareNum(h *sexpr.Heap, a, b sexpr.Ref) (int, error) {
	if h.Tag(a) == sexpr.TagUInt && h.Tag(b) == sexpr.TagUInt {
		au, bu := h.UIntValue(a), h.UIntValue(b)
		switch {
		case au < bu:
			return -1, nil
		case au > bu:
			return 1, nil
		default:
			return 0, nil
		}
	}
	av, err := numVal(h, a)
	if err != nil {
		return 0, err
	}
	bv, err := numVal(h, b)
	if err != nil {
		return 0, err
	}
	switch {
	case av < bv:
		return -1, nil
	case av > bv:
		return 1, nil
	default:
		return 0, nil
	}
}
