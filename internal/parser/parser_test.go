package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dastels/microscheme/internal/parser"
	"github.com/dastels/microscheme/internal/sexpr"
)

func parseOne(t *testing.T, h *sexpr.Heap, src string) sexpr.Ref {
	t.Helper()
	p := parser.New(h, src)
	r, eof, err := p.ParseExpression()
	require.NoError(t, err)
	require.False(t, eof)
	return r
}

func TestParseAtoms(t *testing.T) {
	h := sexpr.NewHeap(0)
	assert.Equal(t, "42", h.ToString(parseOne(t, h, "42")))
	assert.Equal(t, "-7", h.ToString(parseOne(t, h, "-7")))
	assert.Equal(t, "#x0000dead", h.ToString(parseOne(t, h, "#xDEAD")))
	assert.Equal(t, "#t", h.ToString(parseOne(t, h, "#t")))
	assert.Equal(t, "#f", h.ToString(parseOne(t, h, "#f")))
	assert.Equal(t, `"hi"`, h.ToString(parseOne(t, h, `"hi"`)))
	assert.Equal(t, "foo", h.ToString(parseOne(t, h, "foo")))
}

func TestParseList(t *testing.T) {
	h := sexpr.NewHeap(0)
	assert.Equal(t, "(1 2 3)", h.ToString(parseOne(t, h, "(1 2 3)")))
	assert.Equal(t, "nil", h.ToString(parseOne(t, h, "()")))
}

func TestParseNestedAndBrackets(t *testing.T) {
	h := sexpr.NewHeap(0)
	assert.Equal(t, "(1 (2 3) 4)", h.ToString(parseOne(t, h, "(1 [2 3] 4)")))
}

func TestParseDottedPair(t *testing.T) {
	h := sexpr.NewHeap(0)
	assert.Equal(t, "(1 . 2)", h.ToString(parseOne(t, h, "(1 . 2)")))
}

func TestParseQuoteSugar(t *testing.T) {
	h := sexpr.NewHeap(0)
	assert.Equal(t, "(quote x)", h.ToString(parseOne(t, h, "'x")))
	assert.Equal(t, "(quasiquote (x (unquote a) (unquote-splicing b)))",
		h.ToString(parseOne(t, h, "`(x ,a ,@b)")))
}

func TestParseRoundTrip(t *testing.T) {
	h := sexpr.NewHeap(0)
	src := "(1 2 3)"
	r := parseOne(t, h, src)
	printed := h.ToString(r)
	r2 := parseOne(t, h, printed)
	assert.True(t, h.IsEqual(r, r2))
}

func TestParseEOF(t *testing.T) {
	h := sexpr.NewHeap(0)
	p := parser.New(h, "   ")
	_, eof, err := p.ParseExpression()
	require.NoError(t, err)
	assert.True(t, eof)
}

func TestParseUnterminatedListIsSyntaxError(t *testing.T) {
	h := sexpr.NewHeap(0)
	p := parser.New(h, "(1 2")
	_, _, err := p.ParseExpression()
	require.Error(t, err)
}
