package namespace

import "fmt"

// DuplicateFunctionError reports two signatures resolving to the same
// qualified name. First and Second are the origins in collection order.
type DuplicateFunctionError struct {
	Name   string
	First  string
	Second string
}

func (e *DuplicateFunctionError) Error() string {
	return fmt.Sprintf("duplicate function %s: defined in %s and %s", e.Name, e.First, e.Second)
}

// AmbiguousPathError reports a qualified name that would require a
// segment to be both a function leaf and a sub-module at the same tree
// position.
type AmbiguousPathError struct {
	Name    string
	Segment string
}

func (e *AmbiguousPathError) Error() string {
	return fmt.Sprintf("ambiguous path for %s: segment %q is both a function and a module", e.Name, e.Segment)
}
