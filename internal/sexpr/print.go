package sexpr

import (
	"strconv"
	"strings"
)

// ToString returns the canonical printed form of r (spec §4.1).
func (h *Heap) ToString(r Ref) string {
	var b strings.Builder
	h.writeString(&b, r)
	return b.String()
}

func (h *Heap) writeString(b *strings.Builder, r Ref) {
	if r.IsNil() {
		b.WriteString("nil")
		return
	}
	c := &h.cells[r]
	switch c.tag {
	case TagInt:
		b.WriteString(strconv.FormatInt(int64(c.ival), 10))
	case TagUInt:
		b.WriteString("#x")
		hex := strconv.FormatUint(uint64(c.uval), 16)
		for i := len(hex); i < 8; i++ {
			b.WriteByte('0')
		}
		b.WriteString(hex)
	case TagBool:
		if c.bval {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case TagString:
		b.WriteByte('"')
		b.WriteString(string(c.str))
		b.WriteByte('"')
	case TagSymbol:
		b.WriteString(c.sym)
	case TagCons:
		b.WriteByte('(')
		h.writeCons(b, r)
		b.WriteByte(')')
	case TagFunction:
		b.WriteString("<func: ")
		b.WriteString(c.closure.Name)
		b.WriteByte('>')
	case TagMacro:
		b.WriteString("<macro: ")
		b.WriteString(c.closure.Name)
		b.WriteByte('>')
	case TagPrimitive:
		b.WriteString("<prim: ")
		b.WriteString(c.prim.Name)
		b.WriteByte('>')
	default:
		b.WriteString("nil")
	}
}

func (h *Heap) writeCons(b *strings.Builder, r Ref) {
	c := &h.cells[r]
	h.writeString(b, c.car)
	switch h.Tag(c.cdr) {
	case TagFree: // Nil
		return
	case TagCons:
		b.WriteByte(' ')
		h.writeCons(b, c.cdr)
	default:
		b.WriteString(" . ")
		h.writeString(b, c.cdr)
	}
}
