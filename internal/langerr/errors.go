// Package langerr defines the error kinds used throughout the tokenizer,
// parser and evaluator (spec §7).
package langerr

import "github.com/pkg/errors"

// Kind classifies where and why an operation failed.
type Kind int

const (
	// Syntax covers tokenizer/parser failures: malformed literals, unmatched
	// brackets, unexpected EOF, unexpected tokens.
	Syntax Kind = iota
	// Unbound covers a missing binding for a name in applicable position.
	Unbound
	// Type covers an argument of the wrong kind to a primitive/special form.
	Type
	// Arity covers an argument-count mismatch against a declared arity.
	Arity
	// Domain covers out-of-bounds indices, divide-by-zero, empty required
	// lists, and misuse of unquote outside quasiquote.
	Domain
	// OutOfMemory covers heap exhaustion. Fatal.
	OutOfMemory
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "Syntax"
	case Unbound:
		return "Unbound"
	case Type:
		return "Type"
	case Arity:
		return "Arity"
	case Domain:
		return "Domain"
	case OutOfMemory:
		return "OutOfMemory"
	default:
		return "Error"
	}
}

// Error is a classified, user-facing interpreter error.
type Error struct {
	Kind Kind
	Msg  string
	// cause, if set, is wrapped for %+v stack traces via github.com/pkg/errors
	// without leaking into the user-facing message returned by Error().
	cause error
}

func (e *Error) Error() string { return e.Msg }

// Unwrap lets errors.Is/errors.As see through to the cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// New builds a classified error with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: errors.Errorf(format, args...).Error()}
}

// Wrap builds a classified error around an existing error, keeping its
// message as a stack-traced cause while presenting msg to the user.
func Wrap(kind Kind, cause error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, cause: errors.WithStack(cause)}
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, and ok=false
// otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// UnboundCallable builds the standard "Function, special-form, or macro expected for
// NAME. Nothing found." message used when a head-position symbol has no
// binding (spec §4.5).
func UnboundCallable(name string) *Error {
	return New(Unbound, "Function, special-form, or macro expected for %s. Nothing found.", name)
}

// WrongArity builds the standard arity-mismatch message (spec §4.5,
// apply_func).
func WrongArity(name string, expected, got int) *Error {
	return New(Arity, "Wrong number of arguments to %s. Expected %d but got %d.", name, expected, got)
}
