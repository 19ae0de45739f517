package parser

import (
	"strings"

	"github.com/leapstack-labs/surbind/pkg/token"
)

// NamespacePrefix is the reserved marker user-defined functions must
// carry in SurrealQL (DEFINE FUNCTION fn::name).
const NamespacePrefix = "fn::"

// Param is a single declared function parameter. Type is the raw
// declared type text (string, record<user>, option<int>, ...); the
// scanner never interprets it.
type Param struct {
	Name string
	Type string
}

// FunctionSignature is one recognized DEFINE FUNCTION header. The body
// is not parsed; only its span in the origin source is recorded.
type FunctionSignature struct {
	// Name holds the qualified name segments after the fn:: marker,
	// e.g. fn::relation_exists::nested -> ["relation_exists", "nested"].
	Name []string
	// Params are the declared parameters in declaration order.
	Params []Param
	// Body spans the function body from the opening brace through the
	// closing brace, inclusive.
	Body token.Span
	// Origin identifies the source file the signature came from.
	Origin string
	// Comments holds the doc comment lines found directly above the
	// header, with delimiters stripped.
	Comments []string
}

// Leaf returns the final name segment.
func (s *FunctionSignature) Leaf() string {
	return s.Name[len(s.Name)-1]
}

// QualifiedName returns the full declared name including the fn::
// marker, e.g. "fn::relation_exists::nested".
func (s *FunctionSignature) QualifiedName() string {
	return NamespacePrefix + strings.Join(s.Name, "::")
}

// CallQuery renders the SurrealQL statement that invokes the function
// with every parameter passed as a query variable.
func (s *FunctionSignature) CallQuery() string {
	var b strings.Builder
	b.WriteString("RETURN ")
	b.WriteString(s.QualifiedName())
	b.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('$')
		b.WriteString(p.Name)
	}
	b.WriteByte(')')
	return b.String()
}
