// Package bindgen converts a validated namespace tree into flat
// generation descriptors, the seam between the recognizer core and the
// code emission layer. It produces one descriptor per (function,
// requested target) and a single bootstrap descriptor listing every
// function's raw body for runtime registration.
package bindgen

import (
	"github.com/leapstack-labs/surbind/pkg/namespace"
	"github.com/leapstack-labs/surbind/pkg/naming"
	"github.com/leapstack-labs/surbind/pkg/parser"
	"github.com/leapstack-labs/surbind/pkg/token"
)

// Target is a binding target kind.
type Target int

// Binding targets.
const (
	TargetDriver Target = iota
	TargetDatastore
)

// String returns the target name.
func (t Target) String() string {
	switch t {
	case TargetDriver:
		return "driver"
	case TargetDatastore:
		return "datastore"
	}
	return "unknown"
}

// Descriptor describes one wrapper to generate.
type Descriptor struct {
	// Signature is the parsed function this wrapper calls.
	Signature *parser.FunctionSignature
	// Target selects the wrapper style.
	Target Target
	// Symbol is the generated symbol name, the target's scheme applied
	// to the function's leaf name.
	Symbol string
	// ModulePath holds the namespace segments above the leaf.
	ModulePath []string
}

// BootstrapEntry is one function's registration record.
type BootstrapEntry struct {
	// Name is the full qualified name including the fn:: marker.
	Name string
	// Body spans the raw, unparsed function body in the origin source.
	Body token.Span
	// Origin identifies the source file.
	Origin string
}

// Bootstrap lists every parsed function for the aggregate registration
// routine emitted by the code emission layer.
type Bootstrap struct {
	Entries []BootstrapEntry
}

// Emit walks the tree self-then-children in insertion order and builds
// the descriptor list and bootstrap descriptor. The request is
// validated first; any validation error aborts emission.
func Emit(tree *namespace.Node, req *naming.Request) ([]Descriptor, *Bootstrap, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	var descriptors []Descriptor
	bootstrap := &Bootstrap{}

	tree.Walk(func(path []string, sig *parser.FunctionSignature) {
		if req.Driver != nil {
			descriptors = append(descriptors, Descriptor{
				Signature:  sig,
				Target:     TargetDriver,
				Symbol:     req.Driver.Apply(sig.Leaf()),
				ModulePath: path,
			})
		}
		if req.Datastore != nil {
			descriptors = append(descriptors, Descriptor{
				Signature:  sig,
				Target:     TargetDatastore,
				Symbol:     req.Datastore.Apply(sig.Leaf()),
				ModulePath: path,
			})
		}
		bootstrap.Entries = append(bootstrap.Entries, BootstrapEntry{
			Name:   sig.QualifiedName(),
			Body:   sig.Body,
			Origin: sig.Origin,
		})
	})

	return descriptors, bootstrap, nil
}
