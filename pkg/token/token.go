// Package token defines the lexical token types for SurrealQL scanning.
//
// The scanner only needs enough structure to locate DEFINE FUNCTION
// headers and skip function bodies, so the token set is deliberately
// small: keywords, identifiers, variables, literals, and the handful of
// punctuation that matters for header parsing and brace matching. Any
// other symbol is lexed as a single-character OP token.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT    // identifier, may contain :: separators (fn::greet::nested)
	VARIABLE // $name
	NUMBER   // 123, 45.67, 1h30m
	STRING   // 'hello' or "hello"

	// Punctuation
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LT        // <
	GT        // >
	COMMA     // ,
	COLON     // :
	SEMICOLON // ;
	PIPE      // |
	OP        // any other single symbol (body content)

	// Keywords
	DEFINE
	FUNCTION
)

// tokenNames maps token types to their string representations.
var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:    "IDENT",
	VARIABLE: "VARIABLE",
	NUMBER:   "NUMBER",
	STRING:   "STRING",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LT:        "<",
	GT:        ">",
	COMMA:     ",",
	COLON:     ":",
	SEMICOLON: ";",
	PIPE:      "|",
	OP:        "OP",

	DEFINE:   "DEFINE",
	FUNCTION: "FUNCTION",
}

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// keywords maps lowercase keyword strings to their token types.
// SurrealQL keywords are case-insensitive.
var keywords = map[string]TokenType{
	"define":   DEFINE,
	"function": FUNCTION,
}

// LookupIdent returns the token type for the given identifier.
// If the identifier is a keyword, the keyword token type is returned.
// Otherwise, IDENT is returned. The lookup is case-insensitive; callers
// pass the already-lowercased form.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t == DEFINE || t == FUNCTION
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}
