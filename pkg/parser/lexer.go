package parser

import (
	"strings"

	"github.com/leapstack-labs/surbind/pkg/token"
)

// Lexer tokenizes SurrealQL input.
//
// Strings and comments are consumed as opaque units, so the literal
// text "DEFINE FUNCTION" or a stray brace inside either can never be
// mistaken for statement structure by the parser.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	err error // first lexical error (unterminated string/comment)

	// Comments collected since the last TakeComments call
	comments []*token.Comment
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// Err returns the first lexical error encountered, if any. It is set
// when NextToken returns an ILLEGAL token for an unterminated string or
// block comment.
func (l *Lexer) Err() error {
	return l.err
}

// TakeComments returns the comments collected since the previous call
// and resets the buffer. The parser uses this to attach doc comments to
// the header that immediately follows them.
func (l *Lexer) TakeComments() []*token.Comment {
	out := l.comments
	l.comments = nil
	return out
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()
	if l.err != nil {
		return token.Token{Type: token.ILLEGAL, Pos: l.currentPos()}
	}

	pos := l.currentPos()

	var tok token.Token
	tok.Pos = pos

	switch l.ch {
	case 0:
		tok.Type = token.EOF
		tok.Literal = ""
		return tok
	case '(':
		tok = l.newToken(token.LPAREN, "(")
	case ')':
		tok = l.newToken(token.RPAREN, ")")
	case '{':
		tok = l.newToken(token.LBRACE, "{")
	case '}':
		tok = l.newToken(token.RBRACE, "}")
	case '<':
		tok = l.newToken(token.LT, "<")
	case '>':
		tok = l.newToken(token.GT, ">")
	case ',':
		tok = l.newToken(token.COMMA, ",")
	case ':':
		tok = l.newToken(token.COLON, ":")
	case ';':
		tok = l.newToken(token.SEMICOLON, ";")
	case '|':
		tok = l.newToken(token.PIPE, "|")
	case '\'', '"':
		lit, ok := l.readString(l.ch)
		if !ok {
			l.err = &LexError{Pos: pos, Message: ErrUnterminatedString}
			return token.Token{Type: token.ILLEGAL, Pos: pos}
		}
		return token.Token{Type: token.STRING, Literal: lit, Pos: pos}
	case '`':
		lit, ok := l.readBacktickIdent()
		if !ok {
			l.err = &LexError{Pos: pos, Message: ErrUnterminatedIdent}
			return token.Token{Type: token.ILLEGAL, Pos: pos}
		}
		return token.Token{Type: token.IDENT, Literal: lit, Pos: pos}
	case '$':
		if isIdentChar(l.peekChar()) {
			l.readChar() // skip '$'
			name := l.readIdentifier()
			return token.Token{Type: token.VARIABLE, Literal: name, Pos: pos}
		}
		tok = l.newToken(token.OP, "$")
	default:
		switch {
		case isLetter(l.ch) || l.ch == '_':
			lit := l.readQualifiedIdentifier()
			typ := token.LookupIdent(strings.ToLower(lit))
			return token.Token{Type: typ, Literal: lit, Pos: pos}
		case isDigit(l.ch):
			return token.Token{Type: token.NUMBER, Literal: l.readNumber(), Pos: pos}
		default:
			// Body content the header parser never inspects: +, -, =, etc.
			tok = l.newToken(token.OP, string(l.ch))
		}
	}

	l.readChar()
	return tok
}

// newToken creates a new single-character token at the current position.
func (l *Lexer) newToken(tokenType token.TokenType, literal string) token.Token {
	return token.Token{Type: tokenType, Literal: literal, Pos: l.currentPos()}
}

// skipWhitespaceAndComments skips whitespace and collects comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}

		// Line comment: -- ...
		if l.ch == '-' && l.peekChar() == '-' {
			l.collectLineComment(token.DashComment, 2)
			continue
		}

		// Line comment: // ...
		if l.ch == '/' && l.peekChar() == '/' {
			l.collectLineComment(token.SlashComment, 2)
			continue
		}

		// Line comment: # ...
		if l.ch == '#' {
			l.collectLineComment(token.HashComment, 1)
			continue
		}

		// Block comment: /* ... */
		if l.ch == '/' && l.peekChar() == '*' {
			if !l.collectBlockComment() {
				return
			}
			continue
		}

		break
	}
}

// collectLineComment collects a line comment of the given style.
func (l *Lexer) collectLineComment(kind token.CommentKind, markerLen int) {
	startPos := l.currentPos()
	for i := 0; i < markerLen; i++ {
		l.readChar()
	}

	textStart := l.pos
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}

	l.comments = append(l.comments, &token.Comment{
		Kind: kind,
		Text: strings.TrimSpace(l.input[textStart:l.pos]),
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// collectBlockComment collects a block comment. Returns false and sets
// the lexer error if the comment is unterminated.
func (l *Lexer) collectBlockComment() bool {
	startPos := l.currentPos()

	l.readChar() // skip '/'
	l.readChar() // skip '*'

	textStart := l.pos
	for {
		if l.ch == 0 {
			l.err = &LexError{Pos: startPos, Message: ErrUnterminatedComment}
			return false
		}
		if l.ch == '*' && l.peekChar() == '/' {
			text := l.input[textStart:l.pos]
			l.readChar() // skip '*'
			l.readChar() // skip '/'
			l.comments = append(l.comments, &token.Comment{
				Kind: token.BlockComment,
				Text: strings.TrimSpace(text),
				Span: token.Span{Start: startPos, End: l.currentPos()},
			})
			return true
		}
		l.readChar()
	}
}

// readString reads a string literal delimited by quote, handling
// backslash escapes. Returns false if the string is unterminated.
func (l *Lexer) readString(quote byte) (string, bool) {
	l.readChar() // skip opening quote

	var result strings.Builder
	for l.ch != 0 {
		switch l.ch {
		case quote:
			l.readChar() // skip closing quote
			return result.String(), true
		case '\\':
			l.readChar()
			if l.ch == 0 {
				return "", false
			}
			result.WriteByte(l.ch)
			l.readChar()
		default:
			result.WriteByte(l.ch)
			l.readChar()
		}
	}
	return "", false
}

// readBacktickIdent reads a backtick-quoted identifier.
func (l *Lexer) readBacktickIdent() (string, bool) {
	l.readChar() // skip opening backtick

	var result strings.Builder
	for l.ch != 0 {
		if l.ch == '`' {
			l.readChar() // skip closing backtick
			return result.String(), true
		}
		if l.ch == '\\' && l.peekChar() == '`' {
			result.WriteByte('`')
			l.readChar()
			l.readChar()
			continue
		}
		result.WriteByte(l.ch)
		l.readChar()
	}
	return "", false
}

// readQualifiedIdentifier reads an identifier, including :: separated
// path segments, as a single token (fn::greet::nested).
func (l *Lexer) readQualifiedIdentifier() string {
	start := l.pos
	l.readIdentifier()
	for l.ch == ':' && l.peekChar() == ':' {
		l.readChar() // first ':'
		l.readChar() // second ':'
		l.readIdentifier()
	}
	return l.input[start:l.pos]
}

// readIdentifier reads a plain identifier segment.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal, including duration suffixes (1h)
// and decimals, without validating the exact format.
func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) || isLetter(l.ch) || l.ch == '.' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isIdentChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_'
}
