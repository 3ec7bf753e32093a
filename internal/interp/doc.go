// Package interp bundles a heap, its global frame, and an evaluator behind a
// single Interpreter value (spec §9, Design Notes: "a systems rewrite should
// expose them via a single Interpreter context value passed through
// evaluator calls rather than as module globals"), constructed with the
// teacher's functional-options pattern.
package interp
