// Package naming decides how generated symbols are named per binding
// target and rejects configurations that would collide.
//
// A scheme is written the way the configuration file spells it:
//
//	is        → identity, the leaf name is used unchanged
//	prefix_$  → $ replaced by the leaf name: prefix_greet
//	$_suffix  → greet_suffix
package naming

import "strings"

// Placeholder is the marker substituted with the function leaf name
// when a prefix/suffix template is applied.
const Placeholder = "$"

// Kind is the scheme variant.
type Kind int

// Scheme kinds.
const (
	Identity Kind = iota
	Prefix
	Suffix
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Identity:
		return "identity"
	case Prefix:
		return "prefix"
	case Suffix:
		return "suffix"
	}
	return "unknown"
}

// Scheme derives a generated symbol name from a function leaf name.
// Template retains the placeholder (e.g. "prefix_$"); it is empty for
// Identity.
type Scheme struct {
	Kind     Kind
	Template string
}

// Parse parses a scheme from its configuration spelling. "is" is the
// identity scheme; anything else must be a template containing exactly
// one placeholder at the start or end.
func Parse(s string) (*Scheme, error) {
	s = strings.TrimSpace(s)
	if s == "is" {
		return &Scheme{Kind: Identity}, nil
	}

	switch strings.Count(s, Placeholder) {
	case 1:
		// ok
	default:
		return nil, &InvalidTemplateError{Template: s, Reason: "template must contain exactly one $ placeholder"}
	}
	if s == Placeholder {
		// A bare placeholder is the identity scheme in disguise; require
		// the explicit "is" spelling so conflict checks stay structural.
		return nil, &InvalidTemplateError{Template: s, Reason: "template must contain text besides the $ placeholder"}
	}

	switch {
	case strings.HasSuffix(s, Placeholder):
		return &Scheme{Kind: Prefix, Template: s}, nil
	case strings.HasPrefix(s, Placeholder):
		return &Scheme{Kind: Suffix, Template: s}, nil
	default:
		return nil, &InvalidTemplateError{Template: s, Reason: "placeholder must be at the start or end of the template"}
	}
}

// Apply substitutes the leaf name into the scheme.
func (s *Scheme) Apply(name string) string {
	if s.Kind == Identity {
		return name
	}
	return strings.Replace(s.Template, Placeholder, name, 1)
}

// Equal reports structural equality: same kind and same template.
// Structurally equal schemes produce identical symbols for every
// possible leaf name.
func (s *Scheme) Equal(o *Scheme) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.Kind == o.Kind && s.Template == o.Template
}

// validate checks template well-formedness for programmatically
// constructed schemes.
func (s *Scheme) validate() error {
	if s.Kind == Identity {
		return nil
	}
	if strings.Count(s.Template, Placeholder) != 1 {
		return &InvalidTemplateError{Template: s.Template, Reason: "template must contain exactly one $ placeholder"}
	}
	if s.Template == Placeholder {
		return &InvalidTemplateError{Template: s.Template, Reason: "template must contain text besides the $ placeholder"}
	}
	return nil
}

// String returns the configuration spelling of the scheme.
func (s *Scheme) String() string {
	if s.Kind == Identity {
		return "is"
	}
	return s.Template
}
