// Package sexpr implements the tagged-value heap and the lexical environment
// of the dialect. The two are kept in one package on purpose: a Function or
// Macro cell carries a back-reference to the environment frame that defined
// it, and each such closure adds to that frame's descendant count, which keeps
// the frame alive until the closure is released, so the value model and the environment model cannot be reasoned about in
// isolation (see spec §4.1 and §4.4).
//
// Values live in a fixed-capacity pool (a Heap) and are reference counted.
// nil references are represented by the Nil sentinel rather than Go's nil,
// since Nil is also the empty list and must be a valid operand to car/cdr-style
// accessors.
package sexpr
