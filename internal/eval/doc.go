// Package eval implements the tree-walking evaluator (spec §4.5): function
// application, macro expansion, and the special-form/primitive dispatch that
// the sexpr package's Evaluator interface hook exists to support.
package eval
