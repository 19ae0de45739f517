// Package parser recognizes DEFINE FUNCTION statements in SurrealQL
// source text.
//
// # Usage
//
//	sigs, err := parser.ParseSource("schema/fns.surql", input)
//	if err != nil {
//	    // handle error
//	}
//
// The parser is not a full SurrealQL grammar. It is an explicit state
// machine with three states:
//
//	seeking        → discard tokens until DEFINE FUNCTION fn::name
//	parsing params → ($name: type, ...) until the matching )
//	skipping body  → track {/} nesting until depth returns to zero
//
// Function bodies are opaque; only their byte span is recorded. The
// first error anywhere halts parsing of the file (fail-fast), and no
// partial signature is recorded for a malformed header.
package parser

import (
	"errors"
	"strings"

	"github.com/leapstack-labs/surbind/pkg/token"
)

// Parser extracts function signatures from one source file.
type Parser struct {
	lexer  *Lexer
	origin string
	input  string
}

// NewParser creates a parser for the given origin and input.
func NewParser(origin, input string) *Parser {
	return &Parser{
		lexer:  NewLexer(input),
		origin: origin,
		input:  input,
	}
}

// ParseSource parses the input and returns every recognized function
// signature in source order.
func ParseSource(origin, input string) ([]*FunctionSignature, error) {
	return NewParser(origin, input).Parse()
}

// Parse runs the recognizer over the whole input.
func (p *Parser) Parse() ([]*FunctionSignature, error) {
	var sigs []*FunctionSignature

	tok, err := p.next()
	for {
		if err != nil {
			return nil, err
		}

		// Comments collected before the current token. They become the
		// doc comment of a header starting here, and are discarded for
		// every other token.
		docs := commentText(p.lexer.TakeComments())

		if tok.Type == token.EOF {
			return sigs, nil
		}
		if tok.Type != token.DEFINE {
			tok, err = p.next()
			continue
		}

		tok, err = p.next()
		if err != nil {
			return nil, err
		}
		if tok.Type != token.FUNCTION {
			continue // DEFINE TABLE, DEFINE INDEX, ... keep seeking
		}

		tok, err = p.next()
		if err != nil {
			return nil, err
		}
		if tok.Type != token.IDENT || !strings.HasPrefix(tok.Literal, NamespacePrefix) {
			// A function without the fn:: marker is not ours to bind.
			continue
		}

		sig, perr := p.parseHeader(tok, docs)
		if perr != nil {
			return nil, perr
		}
		sigs = append(sigs, sig)

		tok, err = p.next()
	}
}

// parseHeader parses the name, parameter list, and body span of a
// matched DEFINE FUNCTION statement. nameTok is the fn::qualified name
// token.
func (p *Parser) parseHeader(nameTok token.Token, docs []string) (*FunctionSignature, error) {
	name, err := p.parseName(nameTok)
	if err != nil {
		return nil, err
	}

	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}

	body, err := p.skipBody()
	if err != nil {
		return nil, err
	}

	return &FunctionSignature{
		Name:     name,
		Params:   params,
		Body:     body,
		Origin:   p.origin,
		Comments: docs,
	}, nil
}

// parseName splits the fn::qualified name into its path segments.
func (p *Parser) parseName(tok token.Token) ([]string, error) {
	raw := strings.TrimPrefix(tok.Literal, NamespacePrefix)
	if raw == "" {
		return nil, p.malformed(tok.Pos, "missing function name after fn::")
	}
	segments := strings.Split(raw, "::")
	for _, seg := range segments {
		if seg == "" {
			return nil, p.malformed(tok.Pos, "empty segment in function name "+tok.Literal)
		}
	}
	return segments, nil
}

// parseParams reads the parenthesized parameter list.
func (p *Parser) parseParams() ([]Param, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if tok.Type != token.LPAREN {
		return nil, p.malformed(tok.Pos, "expected ( after function name, got "+tok.Type.String())
	}

	var params []Param
	seen := map[string]bool{}

	for {
		tok, err = p.next()
		if err != nil {
			return nil, err
		}

		switch tok.Type {
		case token.RPAREN:
			return params, nil
		case token.COMMA:
			if len(params) == 0 {
				return nil, p.malformed(tok.Pos, "expected parameter name, got ,")
			}
			continue
		case token.VARIABLE:
			if seen[tok.Literal] {
				return nil, p.malformed(tok.Pos, "duplicate parameter name $"+tok.Literal)
			}
			seen[tok.Literal] = true

			typ, err := p.parseParamType(tok)
			if err != nil {
				return nil, err
			}
			params = append(params, Param{Name: tok.Literal, Type: typ.text})
			if typ.closed {
				return params, nil
			}
		case token.EOF:
			return nil, p.malformed(tok.Pos, "unbalanced parameter list")
		default:
			return nil, p.malformed(tok.Pos, "expected parameter name, got "+tok.Type.String())
		}
	}
}

// paramType is the raw declared type text of one parameter, plus
// whether the list's closing ) was consumed while reading it.
type paramType struct {
	text   string
	closed bool
}

// parseParamType consumes ": type" for the parameter named by nameTok.
// The type text is captured raw up to the next , or ) at nesting depth
// zero, so compound types like record<user> or array<string, 10> stay
// opaque.
func (p *Parser) parseParamType(nameTok token.Token) (paramType, error) {
	tok, err := p.next()
	if err != nil {
		return paramType{}, err
	}
	if tok.Type != token.COLON {
		return paramType{}, p.malformed(tok.Pos, "missing type for parameter $"+nameTok.Literal)
	}

	start := -1
	angleDepth := 0
	parenDepth := 0

	for {
		tok, err = p.next()
		if err != nil {
			return paramType{}, err
		}

		switch tok.Type {
		case token.COMMA:
			if angleDepth == 0 && parenDepth == 0 {
				return p.typeText(nameTok, start, tok, false)
			}
		case token.RPAREN:
			if parenDepth == 0 {
				return p.typeText(nameTok, start, tok, true)
			}
			parenDepth--
		case token.LPAREN:
			parenDepth++
		case token.LT:
			angleDepth++
		case token.GT:
			if angleDepth > 0 {
				angleDepth--
			}
		case token.EOF:
			return paramType{}, p.malformed(tok.Pos, "unbalanced parameter list")
		}

		if start < 0 {
			start = tok.Pos.Offset
		}
	}
}

// typeText slices the raw type text ending just before the terminator.
func (p *Parser) typeText(nameTok token.Token, start int, term token.Token, closed bool) (paramType, error) {
	if start < 0 {
		return paramType{}, p.malformed(term.Pos, "missing type for parameter $"+nameTok.Literal)
	}
	text := strings.TrimSpace(p.input[start:term.Pos.Offset])
	if text == "" {
		return paramType{}, p.malformed(term.Pos, "missing type for parameter $"+nameTok.Literal)
	}
	return paramType{text: text, closed: closed}, nil
}

// skipBody consumes the function body, tracking brace depth, and
// returns the span from the opening brace through the closing brace.
func (p *Parser) skipBody() (token.Span, error) {
	tok, err := p.next()
	if err != nil {
		return token.Span{}, err
	}
	if tok.Type != token.LBRACE {
		return token.Span{}, p.malformed(tok.Pos, "expected { to open function body, got "+tok.Type.String())
	}

	open := tok
	depth := 1

	for depth > 0 {
		tok, err = p.next()
		if err != nil {
			return token.Span{}, err
		}
		switch tok.Type {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			depth--
		case token.EOF:
			return token.Span{}, &UnterminatedBodyError{Origin: p.origin, Pos: open.Pos}
		}
	}

	end := token.Position{
		Line:   tok.Pos.Line,
		Column: tok.Pos.Column + 1,
		Offset: tok.Pos.Offset + 1,
	}
	return token.Span{Start: open.Pos, End: end}, nil
}

// next fetches a token, converting lexical failures into a LexError
// that carries the origin.
func (p *Parser) next() (token.Token, error) {
	tok := p.lexer.NextToken()
	if tok.Type == token.ILLEGAL {
		err := p.lexer.Err()
		var le *LexError
		if errors.As(err, &le) {
			return tok, &LexError{Origin: p.origin, Pos: le.Pos, Message: le.Message}
		}
		return tok, &LexError{Origin: p.origin, Pos: tok.Pos, Message: "illegal token"}
	}
	return tok, nil
}

// malformed builds a MalformedHeaderError at the given position.
func (p *Parser) malformed(pos token.Position, msg string) error {
	return &MalformedHeaderError{Origin: p.origin, Pos: pos, Message: msg}
}

// commentText extracts the text lines from collected comments.
func commentText(comments []*token.Comment) []string {
	if len(comments) == 0 {
		return nil
	}
	out := make([]string, 0, len(comments))
	for _, c := range comments {
		out = append(out, c.Text)
	}
	return out
}
