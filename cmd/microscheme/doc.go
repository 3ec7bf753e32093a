// Command microscheme is the line-oriented driver for the interpreter (spec
// §6): it evaluates a single expression passed via -e, or else runs an
// interactive read-eval-print loop with history persisted to ./.history.
package main
