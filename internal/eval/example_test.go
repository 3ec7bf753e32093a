package eval_test

import (
	"fmt"

	"github.com/dastels/microscheme/internal/eval"
	"github.com/dastels/microscheme/internal/parser"
	"github.com/dastels/microscheme/internal/sexpr"
)

func Example() {
	h := sexpr.NewHeap(0)
	it := eval.New(h)
	p := parser.New(h, `(letrec ((fact (lambda (n) (if (eq? n 0) 1 (* n (fact (- n 1))))))) (fact 6))`)

	expr, _, err := p.ParseExpression()
	if err != nil {
		fmt.Println(err)
		return
	}
	result, err := it.Eval(expr, h.Global())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(h.ToString(result))
	// Output: 720
}
