// Package parser implements the dialect's recursive-descent reader
// (spec §4.3): it turns a lexer.Lexer's token stream into s-expressions
// allocated on a sexpr.Heap.
package parser

import (
	"strconv"

	"github.com/dastels/microscheme/internal/langerr"
	"github.com/dastels/microscheme/internal/lexer"
	"github.com/dastels/microscheme/internal/sexpr"
)

// Parser reads one s-expression at a time from a Lexer.
type Parser struct {
	heap *sexpr.Heap
	lex  *lexer.Lexer
}

// New creates a parser reading src and allocating values on h.
func New(h *sexpr.Heap, src string) *Parser {
	return &Parser{heap: h, lex: lexer.New(src)}
}

// ParseExpression reads one s-expression. eof is true (with a Nil result and
// a nil error) when the source is exhausted before any expression starts.
func (p *Parser) ParseExpression() (expr sexpr.Ref, eof bool, err error) {
	tok := p.lex.Peek()
	switch tok.Type {
	case lexer.EOF:
		return sexpr.Nil, true, nil

	case lexer.INTEGER:
		p.lex.Advance()
		n, convErr := strconv.ParseInt(tok.Lexeme, 10, 32)
		if convErr != nil {
			return sexpr.Nil, false, langerr.Wrap(langerr.Syntax, convErr, "malformed integer literal "+tok.Lexeme)
		}
		r, allocErr := p.heap.NewInt(int32(n))
		return r, false, allocErr

	case lexer.HEXINTEGER:
		p.lex.Advance()
		// spec §4.3: replace the leading '#' with '0' before conversion, so
		// "#xDEAD" becomes "0xDEAD".
		digits := "0" + tok.Lexeme[1:]
		n, convErr := strconv.ParseUint(digits, 0, 32)
		if convErr != nil {
			return sexpr.Nil, false, langerr.Wrap(langerr.Syntax, convErr, "malformed hex literal "+tok.Lexeme)
		}
		r, allocErr := p.heap.NewUInt(uint32(n))
		return r, false, allocErr

	case lexer.STRING:
		p.lex.Advance()
		r, allocErr := p.heap.NewString(tok.Lexeme)
		return r, false, allocErr

	case lexer.TRUE:
		p.lex.Advance()
		return p.heap.True(), false, nil

	case lexer.FALSE:
		p.lex.Advance()
		return p.heap.False(), false, nil

	case lexer.SYMBOL:
		p.lex.Advance()
		return p.heap.Intern(tok.Lexeme), false, nil

	case lexer.LPAREN, lexer.LBRACKET, lexer.LBRACE:
		return p.parseList()

	case lexer.QUOTE:
		return p.parseSugar("quote")
	case lexer.BACKQUOTE:
		return p.parseSugar("quasiquote")
	case lexer.COMMA:
		return p.parseSugar("unquote")
	case lexer.COMMAAT:
		return p.parseSugar("unquote-splicing")

	default:
		return sexpr.Nil, false, langerr.New(langerr.Syntax, "unexpected token %s %q", tok.Type, tok.Lexeme)
	}
}

func isCloseBracket(t lexer.Type) bool {
	return t == lexer.RPAREN || t == lexer.RBRACKET || t == lexer.RBRACE
}

// parseSugar rewrites 'x `x ,x ,@x into (sym x) per spec §4.3.
func (p *Parser) parseSugar(symName string) (sexpr.Ref, bool, error) {
	p.lex.Advance() // consume the sugar token
	sub, eof, err := p.ParseExpression()
	if err != nil {
		return sexpr.Nil, false, err
	}
	if eof {
		return sexpr.Nil, false, langerr.New(langerr.Syntax, "unexpected end of input after %s", symName)
	}
	sym := p.heap.Retain(p.heap.Intern(symName))
	tail, err := p.heap.NewCons(sub, sexpr.Nil)
	if err != nil {
		p.heap.Release(sym)
		p.heap.Release(sub)
		return sexpr.Nil, false, err
	}
	r, err := p.heap.NewCons(sym, tail)
	if err != nil {
		p.heap.Release(tail)
		return sexpr.Nil, false, err
	}
	return r, false, nil
}

// parseList reads list elements until a matching close bracket, supporting a
// dotted tail (spec §4.3, parse_cons_cell). Any of ) ] } closes a list
// regardless of which open bracket started it.
func (p *Parser) parseList() (sexpr.Ref, bool, error) {
	p.lex.Advance() // consume the open bracket

	var elems []sexpr.Ref
	cleanup := func() {
		for _, e := range elems {
			p.heap.Release(e)
		}
	}

	for {
		tok := p.lex.Peek()
		switch {
		case tok.Type == lexer.EOF:
			cleanup()
			return sexpr.Nil, false, langerr.New(langerr.Syntax, "unexpected end of input inside list")

		case isCloseBracket(tok.Type):
			p.lex.Advance()
			r, err := p.heap.ListFromOwnedSlice(elems)
			if err != nil {
				cleanup()
				return sexpr.Nil, false, err
			}
			return r, false, nil

		case tok.Type == lexer.PERIOD:
			p.lex.Advance()
			tail, eof, err := p.ParseExpression()
			if err != nil {
				cleanup()
				return sexpr.Nil, false, err
			}
			if eof {
				cleanup()
				return sexpr.Nil, false, langerr.New(langerr.Syntax, "unexpected end of input after dotted tail")
			}
			closeTok := p.lex.Peek()
			if !isCloseBracket(closeTok.Type) {
				cleanup()
				p.heap.Release(tail)
				return sexpr.Nil, false, langerr.New(langerr.Syntax, "expected closing bracket after dotted tail, got %s", closeTok.Type)
			}
			p.lex.Advance()
			r, err := p.buildDotted(elems, tail)
			if err != nil {
				cleanup()
				p.heap.Release(tail)
				return sexpr.Nil, false, err
			}
			return r, false, nil

		default:
			expr, eof, err := p.ParseExpression()
			if err != nil {
				cleanup()
				return sexpr.Nil, false, err
			}
			if eof {
				cleanup()
				return sexpr.Nil, false, langerr.New(langerr.Syntax, "unexpected end of input inside list")
			}
			elems = append(elems, expr)
		}
	}
}

func (p *Parser) buildDotted(elems []sexpr.Ref, tail sexpr.Ref) (sexpr.Ref, error) {
	result := tail
	for i := len(elems) - 1; i >= 0; i-- {
		c, err := p.heap.NewCons(elems[i], result)
		if err != nil {
			p.heap.Release(result)
			return sexpr.Nil, err
		}
		result = c
	}
	return result, nil
}
