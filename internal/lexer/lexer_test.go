package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dastels/microscheme/internal/lexer"
)

func tokens(src string) []lexer.Token {
	l := lexer.New(src)
	var out []lexer.Token
	for {
		tok := l.Peek()
		out = append(out, tok)
		if tok.Type == lexer.EOF {
			return out
		}
		l.Advance()
	}
}

func types(src string) []lexer.Type {
	toks := tokens(src)
	out := make([]lexer.Type, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestAtoms(t *testing.T) {
	toks := tokens("42 -7 #xDEAD #t #f \"hi\" foo->bar")
	assert.Equal(t, lexer.INTEGER, toks[0].Type)
	assert.Equal(t, "42", toks[0].Lexeme)
	assert.Equal(t, lexer.INTEGER, toks[1].Type)
	assert.Equal(t, "-7", toks[1].Lexeme)
	assert.Equal(t, lexer.HEXINTEGER, toks[2].Type)
	assert.Equal(t, "#xDEAD", toks[2].Lexeme)
	assert.Equal(t, lexer.TRUE, toks[3].Type)
	assert.Equal(t, lexer.FALSE, toks[4].Type)
	assert.Equal(t, lexer.STRING, toks[5].Type)
	assert.Equal(t, "hi", toks[5].Lexeme)
	assert.Equal(t, lexer.SYMBOL, toks[6].Type)
	assert.Equal(t, "foo->bar", toks[6].Lexeme)
}

func TestOperatorSymbols(t *testing.T) {
	assert.Equal(t, []lexer.Type{lexer.SYMBOL, lexer.SYMBOL, lexer.SYMBOL, lexer.SYMBOL, lexer.EOF},
		types("-> => <= !="))
}

func TestMinusIsSymbolUnlessFollowedByDigit(t *testing.T) {
	toks := tokens("(- 5)")
	assert.Equal(t, lexer.SYMBOL, toks[1].Type)
	assert.Equal(t, "-", toks[1].Lexeme)
}

func TestPunctuationAndQuoteSugar(t *testing.T) {
	assert.Equal(t,
		[]lexer.Type{lexer.LPAREN, lexer.SYMBOL, lexer.PERIOD, lexer.SYMBOL, lexer.RPAREN, lexer.EOF},
		types("(a . b)"))
	assert.Equal(t,
		[]lexer.Type{lexer.QUOTE, lexer.SYMBOL, lexer.BACKQUOTE, lexer.LPAREN, lexer.COMMA, lexer.SYMBOL,
			lexer.COMMAAT, lexer.SYMBOL, lexer.RPAREN, lexer.EOF},
		types("'x `(,a ,@b)"))
}

func TestLineCommentsAreSkipped(t *testing.T) {
	toks := tokens("1 ; this is a comment\n2")
	assert.Equal(t, []lexer.Type{lexer.INTEGER, lexer.INTEGER, lexer.EOF}, []lexer.Type{toks[0].Type, toks[1].Type, toks[2].Type})
	assert.Equal(t, "2", toks[1].Lexeme)
}

func TestStringEscape(t *testing.T) {
	toks := tokens(`"a\"b"`)
	assert.Equal(t, lexer.STRING, toks[0].Type)
	assert.Equal(t, `a"b`, toks[0].Lexeme)
}

func TestIllegalByte(t *testing.T) {
	toks := tokens("@")
	assert.Equal(t, lexer.ILLEGAL, toks[0].Type)
}

func TestSymbolCharset(t *testing.T) {
	toks := tokens("list-tail? set! x:y v>")
	assert.Equal(t, lexer.SYMBOL, toks[0].Type)
	assert.Equal(t, "list-tail?", toks[0].Lexeme)
	assert.Equal(t, "set!", toks[1].Lexeme)
	assert.Equal(t, "x:y", toks[2].Lexeme)
	assert.Equal(t, "v>", toks[3].Lexeme)
}
