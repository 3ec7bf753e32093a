package sexpr

// binding is a single name->value slot in a Frame.
type binding struct {
	sym   Ref
	value Ref
}

// Frame is a lexical environment frame: a set of bindings, a parent frame
// (nil for the global frame), a descendant counter, and an in-scope flag
// (spec §4.4).
type Frame struct {
	heap        *Heap
	parent      *Frame
	bindings    map[string]binding
	descendants int
	inScope     bool
}

// IsGlobal reports whether f is the root frame.
func (f *Frame) IsGlobal() bool { return f.parent == nil }

// Parent returns f's parent frame, or nil for the global frame.
func (f *Frame) Parent() *Frame { return f.parent }

func (h *Heap) newFrame(parent *Frame) *Frame {
	f := &Frame{
		heap:     h,
		parent:   parent,
		bindings: make(map[string]binding, 8),
		inScope:  true,
	}
	if parent != nil {
		parent.descendants++
	}
	h.registry[f] = struct{}{}
	return f
}

// NewFrameBelow creates a fresh frame whose parent is parent, increments
// parent's descendant counter, and registers the frame for debugging /
// future mark-and-sweep support (spec §4.4).
func (h *Heap) NewFrameBelow(parent *Frame) *Frame {
	return h.newFrame(parent)
}

// RegisteredFrames returns the number of live frames currently tracked.
func (h *Heap) RegisteredFrames() int { return len(h.registry) }

// isDirectChildOfGlobal reports whether f's parent is the global frame.
func (f *Frame) isDirectChildOfGlobal() bool {
	return f.parent != nil && f.parent.IsGlobal()
}

// Bind installs sym -> value in f. If sym is already bound in f, the binding
// is left untouched unless f is the global frame or a direct child of it, in
// which case the value is replaced (spec §4.4: "Rationale: function/macro
// arguments are bound exactly once per activation").
func (h *Heap) Bind(f *Frame, sym, value Ref) {
	name := h.SymbolName(sym)
	if b, ok := f.bindings[name]; ok {
		if f.IsGlobal() || f.isDirectChildOfGlobal() {
			h.Release(b.value)
			f.bindings[name] = binding{sym: sym, value: h.Retain(value)}
		}
		return
	}
	f.bindings[name] = binding{sym: sym, value: h.Retain(value)}
}

// Rebind replaces the value of an existing local binding for sym in f. It has
// no effect if f has no local binding for sym. Used by set!, letrec, and do
// (spec §4.4).
func (h *Heap) Rebind(f *Frame, sym, value Ref) {
	name := h.SymbolName(sym)
	b, ok := f.bindings[name]
	if !ok {
		return
	}
	h.Release(b.value)
	f.bindings[name] = binding{sym: sym, value: h.Retain(value)}
}

// ValueOf walks the parent chain starting at f looking for a binding for sym,
// returning Nil if none is found.
func (h *Heap) ValueOf(f *Frame, sym Ref) Ref {
	name := h.SymbolName(sym)
	for cur := f; cur != nil; cur = cur.parent {
		if b, ok := cur.bindings[name]; ok {
			return b.value
		}
	}
	return Nil
}

// FrameThatBinds returns the nearest frame in f's chain that has a local
// binding for sym, or nil. set! uses this to find where to Rebind.
func (h *Heap) FrameThatBinds(f *Frame, sym Ref) *Frame {
	name := h.SymbolName(sym)
	for cur := f; cur != nil; cur = cur.parent {
		if _, ok := cur.bindings[name]; ok {
			return cur
		}
	}
	return nil
}

// GoOutOfScope marks f as no longer in scope. The frame is only actually
// destroyed once it is both out of scope and has zero descendants; a closure
// that captured f keeps it pinned until the closure itself is released
// (spec §4.4).
func (h *Heap) GoOutOfScope(f *Frame) {
	if f.IsGlobal() {
		return
	}
	f.inScope = false
	h.maybeDestroyFrame(f)
}

// releaseFrame decrements a frame's descendant counter, called when a
// closure that captured it is released.
func (h *Heap) releaseFrame(f *Frame) {
	if f == nil || f.IsGlobal() {
		return
	}
	f.descendants--
	h.maybeDestroyFrame(f)
}

func (h *Heap) maybeDestroyFrame(f *Frame) {
	if f.inScope || f.descendants > 0 || f.IsGlobal() {
		return
	}
	for _, b := range f.bindings {
		h.Release(b.value)
	}
	f.bindings = nil
	if f.parent != nil {
		f.parent.descendants--
		h.maybeDestroyFrame(f.parent)
	}
	delete(h.registry, f)
}
