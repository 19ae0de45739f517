package parser

import (
	"fmt"

	"github.com/leapstack-labs/surbind/pkg/token"
)

// LexError represents a lexical analysis error.
type LexError struct {
	Origin  string
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	if e.Origin != "" {
		return fmt.Sprintf("%s: lex error at line %d, column %d: %s", e.Origin, e.Pos.Line, e.Pos.Column, e.Message)
	}
	return fmt.Sprintf("lex error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// MalformedHeaderError reports a DEFINE FUNCTION header whose name or
// parameter list is syntactically invalid.
type MalformedHeaderError struct {
	Origin  string
	Pos     token.Position
	Message string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("%s: malformed function header at line %d, column %d: %s", e.Origin, e.Pos.Line, e.Pos.Column, e.Message)
}

// UnterminatedBodyError reports a function body whose brace nesting
// never returns to zero before end of input.
type UnterminatedBodyError struct {
	Origin string
	Pos    token.Position // position of the opening brace
}

func (e *UnterminatedBodyError) Error() string {
	return fmt.Sprintf("%s: unterminated function body opened at line %d, column %d", e.Origin, e.Pos.Line, e.Pos.Column)
}

// Common error messages
const (
	ErrUnterminatedString  = "unterminated string literal"
	ErrUnterminatedComment = "unterminated block comment"
	ErrUnterminatedIdent   = "unterminated quoted identifier"
)
