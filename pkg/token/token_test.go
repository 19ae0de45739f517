package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdent(t *testing.T) {
	assert.Equal(t, DEFINE, LookupIdent("define"))
	assert.Equal(t, FUNCTION, LookupIdent("function"))
	assert.Equal(t, IDENT, LookupIdent("fn::greet"))
	assert.Equal(t, IDENT, LookupIdent("select"))
}

func TestIsKeyword(t *testing.T) {
	assert.True(t, IsKeyword(DEFINE))
	assert.True(t, IsKeyword(FUNCTION))
	assert.False(t, IsKeyword(IDENT))
	assert.False(t, IsKeyword(LBRACE))
}

func TestTokenType_String(t *testing.T) {
	assert.Equal(t, "DEFINE", DEFINE.String())
	assert.Equal(t, "{", LBRACE.String())
	assert.Equal(t, "TOKEN(99)", TokenType(99).String())
}

func TestSpan(t *testing.T) {
	source := "DEFINE FUNCTION fn::x() { RETURN 1; };"
	span := Span{
		Start: Position{Line: 1, Column: 25, Offset: 24},
		End:   Position{Line: 1, Column: 38, Offset: 37},
	}

	assert.True(t, span.IsValid())
	assert.Equal(t, "{ RETURN 1; }", span.Text(source))
	assert.True(t, span.Contains(24))
	assert.True(t, span.Contains(36))
	assert.False(t, span.Contains(37))
	assert.False(t, span.Contains(3))
}

func TestSpan_TextOutOfRange(t *testing.T) {
	span := Span{
		Start: Position{Line: 1, Column: 1, Offset: 0},
		End:   Position{Line: 1, Column: 50, Offset: 49},
	}
	assert.Equal(t, "", span.Text("short"))

	var zero Span
	assert.False(t, zero.IsValid())
	assert.Equal(t, "", zero.Text("anything"))
}
