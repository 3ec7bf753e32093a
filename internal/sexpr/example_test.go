package sexpr_test

import (
	"fmt"

	"github.com/dastels/microscheme/internal/sexpr"
)

// Shows how to build and print a small list by hand, without going through
// the tokenizer/parser/evaluator.
func ExampleHeap_ToString() {
	h := sexpr.NewHeap(0)

	one, _ := h.NewInt(1)
	two, _ := h.NewInt(2)
	three, _ := h.NewInt(3)
	list, err := h.ListFromOwnedSlice([]sexpr.Ref{h.Retain(one), h.Retain(two), h.Retain(three)})
	if err != nil {
		panic(err)
	}
	defer h.Release(list)

	fmt.Println(h.ToString(list))
	// Output:
	// (1 2 3)
}
