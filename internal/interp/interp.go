package interp

import (
	"github.com/dastels/microscheme/internal/eval"
	"github.com/dastels/microscheme/internal/langerr"
	"github.com/dastels/microscheme/internal/parser"
	"github.com/dastels/microscheme/internal/sexpr"
)

// Option configures an Interpreter at construction time.
type Option func(*Interpreter) error

// HeapCapacity sets the number of cells in the interpreter's heap.
func HeapCapacity(n int) Option {
	return func(it *Interpreter) error { it.capacity = n; return nil }
}

// Interpreter bundles a heap, its global frame, and an evaluator behind one
// value, so callers don't reach for package-level globals.
type Interpreter struct {
	capacity int
	Heap     *sexpr.Heap
	eval     *eval.Interp
}

// New builds an Interpreter, allocating its heap and registering every
// special form and primitive (spec §5 init sequence).
func New(opts ...Option) (*Interpreter, error) {
	it := &Interpreter{capacity: sexpr.DefaultCapacity}
	for _, opt := range opts {
		if err := opt(it); err != nil {
			return nil, err
		}
	}
	it.Heap = sexpr.NewHeap(it.capacity)
	it.eval = eval.New(it.Heap)
	return it, nil
}

// Global returns the root environment frame.
func (it *Interpreter) Global() *sexpr.Frame { return it.Heap.Global() }

// EvalString parses and evaluates every top-level expression in src in
// sequence, releasing each result but the last, and returns the final
// result's printed form. An empty or all-whitespace src evaluates to "nil".
func (it *Interpreter) EvalString(src string) (string, error) {
	p := parser.New(it.Heap, src)
	result := sexpr.Nil
	for {
		expr, eof, err := p.ParseExpression()
		if err != nil {
			it.Heap.Release(result)
			return "", err
		}
		if eof {
			break
		}
		it.Heap.Release(result)
		v, err := it.eval.Eval(expr, it.Global())
		it.Heap.Release(expr)
		if err != nil {
			return "", err
		}
		result = v
	}
	out := it.Heap.ToString(result)
	it.Heap.Release(result)
	return out, nil
}

// HeapSize and FreeSize expose the reflection primitives' underlying counts
// for host code that wants them without going through EvalString.
func (it *Interpreter) HeapSize() int { return it.Heap.HeapSize() }
func (it *Interpreter) FreeSize() int { return it.Heap.FreeSize() }

// ErrorKind exposes langerr.KindOf for callers that only import interp.
func ErrorKind(err error) (langerr.Kind, bool) { return langerr.KindOf(err) }
