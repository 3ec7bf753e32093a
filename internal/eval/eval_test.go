package eval_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dastels/microscheme/internal/eval"
	"github.com/dastels/microscheme/internal/parser"
	"github.com/dastels/microscheme/internal/sexpr"
)

// run parses and evaluates every top-level expression in src against a fresh
// heap, returning the printed form of the last expression's result.
func run(t *testing.T, src string) (string, *sexpr.Heap) {
	t.Helper()
	h := sexpr.NewHeap(0)
	it := eval.New(h)
	p := parser.New(h, src)
	result := sexpr.Nil
	for {
		expr, eof, err := p.ParseExpression()
		require.NoError(t, err)
		if eof {
			break
		}
		h.Release(result)
		v, err := it.Eval(expr, h.Global())
		h.Release(expr)
		require.NoError(t, err)
		result = v
	}
	out := h.ToString(result)
	h.Release(result)
	return out, h
}

func runErr(t *testing.T, src string) error {
	t.Helper()
	h := sexpr.NewHeap(0)
	it := eval.New(h)
	p := parser.New(h, src)
	result := sexpr.Nil
	for {
		expr, eof, err := p.ParseExpression()
		require.NoError(t, err)
		if eof {
			return nil
		}
		h.Release(result)
		v, err := it.Eval(expr, h.Global())
		h.Release(expr)
		if err != nil {
			return err
		}
		result = v
	}
}

func TestArithmetic(t *testing.T) {
	out, _ := run(t, "(+ 1 2 3)")
	assert.Equal(t, "6", out)
	out, _ = run(t, "(-)")
	assert.Equal(t, "0", out)
	out, _ = run(t, "(- 5)")
	assert.Equal(t, "-5", out)
	out, _ = run(t, "(- 10 1 2 3)")
	assert.Equal(t, "4", out)
	out, _ = run(t, "(* 2 3 4)")
	assert.Equal(t, "24", out)
	out, _ = run(t, "(/ 20 2 5)")
	assert.Equal(t, "2", out)
}

func TestDivisionErrors(t *testing.T) {
	assert.Error(t, runErr(t, "(/)"))
	assert.Error(t, runErr(t, "(/ 5)"))
}

func TestIfAndCond(t *testing.T) {
	out, _ := run(t, "(if #t 1 2)")
	assert.Equal(t, "1", out)
	out, _ = run(t, "(if #f 1 2)")
	assert.Equal(t, "2", out)
	out, _ = run(t, "(cond (#f 1) (#t 2) (else 3))")
	assert.Equal(t, "2", out)
	out, _ = run(t, "(cond (#f 1) (else 3))")
	assert.Equal(t, "3", out)
}

func TestTruthinessOnlyTrueIsTrue(t *testing.T) {
	out, _ := run(t, "(if #f 1 2)")
	assert.Equal(t, "2", out)
	out, _ = run(t, "(if 0 1 2)")
	assert.Equal(t, "2", out)
}

func TestLetSequencing(t *testing.T) {
	out, _ := run(t, "(let () 1 2 3)")
	assert.Equal(t, "3", out)
}

func TestLetStarSeesEarlierBindings(t *testing.T) {
	out, _ := run(t, "(let* ((x 1) (y (+ x 1))) y)")
	assert.Equal(t, "2", out)
}

func TestLetrecFactorial(t *testing.T) {
	out, _ := run(t, `(letrec ((f (lambda (n) (if (eq? n 0) 1 (* n (f (- n 1))))))) (f 5))`)
	assert.Equal(t, "120", out)
}

func TestSetBangScope(t *testing.T) {
	out, _ := run(t, "(define x 1) (let ((y 2)) (set! x (+ x y))) x")
	assert.Equal(t, "3", out)
}

func TestClosureCapture(t *testing.T) {
	out, _ := run(t, "((let ((x 10)) (lambda (y) (+ x y))) 5)")
	assert.Equal(t, "15", out)
}

func TestQuoteAndQuasiquote(t *testing.T) {
	out, _ := run(t, "'(1 2 3)")
	assert.Equal(t, "(1 2 3)", out)
	out, _ = run(t, "(let ((a 1) (b '(2 3))) `(x ,a ,@b y))")
	assert.Equal(t, "(x 1 2 3 y)", out)
}

func TestMacroExpansion(t *testing.T) {
	out, _ := run(t, "(defmacro (when c body) `(if ,c ,body #f)) (when #t 42)")
	assert.Equal(t, "42", out)
	out, _ = run(t, "(defmacro (when c body) `(if ,c ,body #f)) (when #f 42)")
	assert.Equal(t, "nil", out)
}

func TestDottedPairs(t *testing.T) {
	out, _ := run(t, "(car '(1 . 2))")
	assert.Equal(t, "1", out)
	out, _ = run(t, "(cdr '(1 . 2))")
	assert.Equal(t, "2", out)
}

func TestAppendVsAppendBang(t *testing.T) {
	out, _ := run(t, "(define xs '(1 2)) (append! xs '(3)) xs")
	assert.Equal(t, "(1 2 3)", out)

	out2, _ := run(t, "(define xs '(1 2)) (append xs '(4)) xs")
	assert.Equal(t, "(1 2)", out2)

	// a skipped empty argument must not lose the list that follows it.
	out3, _ := run(t, "(append! '(1 2) '() '(3 4))")
	assert.Equal(t, "(1 2 3 4)", out3)
}

func TestEqAndStructuralEquality(t *testing.T) {
	out, _ := run(t, "(eq? '(1 2 3) (list 1 2 3))")
	assert.Equal(t, "#t", out)
	out, _ = run(t, "(eq? 'x 'x)")
	assert.Equal(t, "#t", out)
}

func TestComposedAccessors(t *testing.T) {
	out, _ := run(t, "(cadr '(1 2 3))")
	assert.Equal(t, "2", out)
	out, _ = run(t, "(caddr '(1 2 3))")
	assert.Equal(t, "3", out)
	out, _ = run(t, "(cadddr '(1 2 3 4))")
	assert.Equal(t, "4", out)
}

func TestOrdinals(t *testing.T) {
	out, _ := run(t, "(first '(1 2 3))")
	assert.Equal(t, "1", out)
	out, _ = run(t, "(tenth (list 1 2 3 4 5 6 7 8 9 10))")
	assert.Equal(t, "10", out)
}

func TestListHeadAndTail(t *testing.T) {
	out, _ := run(t, "(list-head '(1 2 3 4) 2)")
	assert.Equal(t, "(1 2)", out)
	out, _ = run(t, "(list-tail '(1 2 3 4) 2)")
	assert.Equal(t, "(3 4)", out)
}

func TestDoLoop(t *testing.T) {
	// sum's step sees i already rebound to the next value within the same
	// iteration (interleaved per-binding update, not a parallel phase), so
	// this accumulates 1+2+3+4+5, not 0+1+2+3+4.
	out, _ := run(t, `(do ((i 0 (+ i 1)) (sum 0 (+ sum i))) ((eq? i 5) sum))`)
	assert.Equal(t, "15", out)
}

func TestHeapAccountingRoundTrips(t *testing.T) {
	h := sexpr.NewHeap(0)
	it := eval.New(h)
	before := h.FreeSize()
	p := parser.New(h, "(+ 1 2 3)")
	expr, eof, err := p.ParseExpression()
	require.NoError(t, err)
	require.False(t, eof)
	v, err := it.Eval(expr, h.Global())
	require.NoError(t, err)
	h.Release(expr)
	h.Release(v)
	assert.Equal(t, before, h.FreeSize())
}

func TestReflection(t *testing.T) {
	out, h := run(t, "(heap-size)")
	assert.Equal(t, strconv.Itoa(h.HeapSize()), out)
	out2, _ := run(t, "(define (sq x) (* x x)) (definition sq)")
	assert.Equal(t, `"((* x x))"`, out2)
}

func TestUnboundCallableError(t *testing.T) {
	err := runErr(t, "(this-is-not-defined 1 2)")
	require.Error(t, err)
}

func TestWrongArityError(t *testing.T) {
	err := runErr(t, "(define (f x y) (+ x y)) (f 1)")
	require.Error(t, err)
}
