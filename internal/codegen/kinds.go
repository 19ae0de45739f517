package codegen

import "strings"

// goKind is a Go type for a declared SurrealQL parameter type, plus the
// import it needs, if any.
type goKind struct {
	typ    string
	imprt  string
	simple bool // addressable base type, usable behind a pointer for option<>
}

// scalarKinds maps plain SurrealQL type names to Go types.
var scalarKinds = map[string]goKind{
	"bool":     {typ: "bool", simple: true},
	"int":      {typ: "int64", simple: true},
	"float":    {typ: "float64", simple: true},
	"number":   {typ: "float64", simple: true},
	"decimal":  {typ: "float64", simple: true},
	"string":   {typ: "string", simple: true},
	"datetime": {typ: "time.Time", imprt: "time", simple: true},
	"duration": {typ: "time.Duration", imprt: "time", simple: true},
	"uuid":     {typ: "uuid.UUID", imprt: "github.com/google/uuid", simple: true},
	"bytes":    {typ: "[]byte"},
	"object":   {typ: "map[string]any"},
	"any":      {typ: "any"},
	"null":     {typ: "any"},
	// Record ids travel as strings over the wire boundary.
	"record": {typ: "string", simple: true},
	// Geometry values stay opaque.
	"point":    {typ: "any"},
	"geometry": {typ: "any"},
}

// goType maps a raw declared SurrealQL type to its Go representation.
// Unknown or union types fall back to any: the wrapper still works, the
// caller just loses static typing for that parameter.
func goType(raw string) goKind {
	raw = strings.TrimSpace(raw)

	// Union types (int | string) are passed as any.
	if strings.Contains(raw, "|") {
		return goKind{typ: "any"}
	}

	base, inner := splitAngle(raw)
	base = strings.ToLower(strings.TrimSpace(base))

	switch base {
	case "option":
		k := goType(inner)
		if k.simple {
			return goKind{typ: "*" + k.typ, imprt: k.imprt}
		}
		return k
	case "array", "set":
		if inner == "" {
			return goKind{typ: "[]any"}
		}
		// A trailing length bound (array<string, 10>) does not change
		// the element type.
		if i := strings.IndexByte(inner, ','); i >= 0 {
			inner = inner[:i]
		}
		k := goType(inner)
		return goKind{typ: "[]" + k.typ, imprt: k.imprt}
	}

	if k, ok := scalarKinds[base]; ok {
		return k
	}
	return goKind{typ: "any"}
}

// splitAngle splits "record<user>" into ("record", "user"). The inner
// text is empty when there is no angle-bracketed part.
func splitAngle(raw string) (base, inner string) {
	open := strings.IndexByte(raw, '<')
	if open < 0 {
		return raw, ""
	}
	close := strings.LastIndexByte(raw, '>')
	if close < open {
		return raw, ""
	}
	return raw[:open], strings.TrimSpace(raw[open+1 : close])
}
