// Package codegen turns generation descriptors into Go wrapper source.
//
// The output is a single self-contained file: wrapper functions call a
// small Driver or Datastore interface the caller implements with their
// SurrealDB client of choice, so the generated code does not pin a
// driver dependency. The bootstrap section reconstructs every original
// DEFINE FUNCTION statement for runtime registration.
package codegen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/leapstack-labs/surbind/pkg/bindgen"
	"github.com/leapstack-labs/surbind/pkg/naming"
	"github.com/leapstack-labs/surbind/pkg/parser"
)

// bootstrapLeaf is the leaf name the target schemes are applied to for
// the aggregate registration function.
const bootstrapLeaf = "define_functions"

// Options configures generation.
type Options struct {
	// Package is the package name of the generated file.
	Package string
	// Request carries the requested targets and their schemes.
	Request *naming.Request
}

// Generate renders the wrapper source for the descriptors and
// bootstrap. sources maps each origin to its raw file content so body
// spans can be sliced back out.
func Generate(opts Options, descs []bindgen.Descriptor, boot *bindgen.Bootstrap, sources map[string]string) ([]byte, error) {
	if opts.Package == "" {
		opts.Package = "surqlfns"
	}

	g := &fileWriter{
		opts:    opts,
		imports: map[string]bool{"context": true},
		names:   map[string]string{},
	}

	sigs := map[string]*parser.FunctionSignature{}
	for _, d := range descs {
		sigs[d.Signature.QualifiedName()] = d.Signature
	}

	var body strings.Builder
	g.writeInterfaces(&body)
	if err := g.writeBootstrap(&body, boot, sigs, sources); err != nil {
		return nil, err
	}
	for _, d := range descs {
		if err := g.writeWrapper(&body, d); err != nil {
			return nil, err
		}
	}

	var out strings.Builder
	out.WriteString("// Code generated by surbind; DO NOT EDIT.\n\n")
	fmt.Fprintf(&out, "// Package %s contains typed wrappers for SurrealQL functions.\n", opts.Package)
	fmt.Fprintf(&out, "package %s\n\n", opts.Package)
	g.writeImports(&out)
	out.WriteString(body.String())

	src := []byte(out.String())
	formatted, err := imports.Process("bindings.go", src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code: %w", err)
	}
	return formatted, nil
}

// fileWriter accumulates imports and guards generated name uniqueness.
type fileWriter struct {
	opts    Options
	imports map[string]bool
	names   map[string]string // Go name -> qualified name that claimed it
}

// claim reserves a generated Go symbol name for owner.
func (g *fileWriter) claim(name, owner string) error {
	if prev, ok := g.names[name]; ok {
		return fmt.Errorf("generated symbol %s for %s collides with %s", name, owner, prev)
	}
	g.names[name] = owner
	return nil
}

// writeImports renders the import block, stdlib first.
func (g *fileWriter) writeImports(w *strings.Builder) {
	var std, ext []string
	for path := range g.imports {
		if strings.Contains(path, ".") {
			ext = append(ext, path)
		} else {
			std = append(std, path)
		}
	}
	sort.Strings(std)
	sort.Strings(ext)

	w.WriteString("import (\n")
	for _, p := range std {
		fmt.Fprintf(w, "\t%q\n", p)
	}
	if len(std) > 0 && len(ext) > 0 {
		w.WriteString("\n")
	}
	for _, p := range ext {
		fmt.Fprintf(w, "\t%q\n", p)
	}
	w.WriteString(")\n\n")
}

// writeInterfaces renders the client seams for the requested targets.
func (g *fileWriter) writeInterfaces(w *strings.Builder) {
	if g.opts.Request.Driver != nil {
		w.WriteString("// Driver executes a SurrealQL query with bound variables over a\n")
		w.WriteString("// connection-style client.\n")
		w.WriteString("type Driver interface {\n")
		w.WriteString("\tQuery(ctx context.Context, query string, vars map[string]any) (any, error)\n")
		w.WriteString("}\n\n")
	}
	if g.opts.Request.Datastore != nil {
		w.WriteString("// Datastore executes SurrealQL directly against an embedded store.\n")
		w.WriteString("type Datastore interface {\n")
		w.WriteString("\tExecute(ctx context.Context, query string, vars map[string]any) (any, error)\n")
		w.WriteString("}\n\n")
	}
}

// writeBootstrap renders the stored definitions and the aggregate
// registration functions.
func (g *fileWriter) writeBootstrap(w *strings.Builder, boot *bindgen.Bootstrap, sigs map[string]*parser.FunctionSignature, sources map[string]string) error {
	var stmts []string
	for _, entry := range boot.Entries {
		sig, ok := sigs[entry.Name]
		if !ok {
			return fmt.Errorf("bootstrap entry %s has no matching descriptor", entry.Name)
		}
		content, ok := sources[entry.Origin]
		if !ok {
			return fmt.Errorf("bootstrap entry %s references unknown origin %s", entry.Name, entry.Origin)
		}
		stmts = append(stmts, defineStatement(sig, entry.Body.Text(content)))
	}

	w.WriteString("// storedFunctions holds every original function definition in\n")
	w.WriteString("// collection order.\n")
	fmt.Fprintf(w, "const storedFunctions = %s\n\n", strconv.Quote(strings.Join(stmts, "\n")))

	w.WriteString("// StoredFunctions returns the SurrealQL source of every bound\n")
	w.WriteString("// function definition.\n")
	w.WriteString("func StoredFunctions() string {\n\treturn storedFunctions\n}\n\n")

	if s := g.opts.Request.Driver; s != nil {
		name := exportName(nil, s.Apply(bootstrapLeaf))
		if err := g.claim(name, "driver "+bootstrapLeaf); err != nil {
			return err
		}
		fmt.Fprintf(w, "// %s registers every stored function on the driver connection.\n", name)
		fmt.Fprintf(w, "func %s(ctx context.Context, db Driver) (any, error) {\n", name)
		w.WriteString("\treturn db.Query(ctx, StoredFunctions(), nil)\n}\n\n")
	}
	if s := g.opts.Request.Datastore; s != nil {
		name := exportName(nil, s.Apply(bootstrapLeaf))
		if err := g.claim(name, "datastore "+bootstrapLeaf); err != nil {
			return err
		}
		fmt.Fprintf(w, "// %s registers every stored function on the datastore.\n", name)
		fmt.Fprintf(w, "func %s(ctx context.Context, ds Datastore) (any, error) {\n", name)
		w.WriteString("\treturn ds.Execute(ctx, StoredFunctions(), nil)\n}\n\n")
	}
	return nil
}

// writeWrapper renders one typed wrapper function.
func (g *fileWriter) writeWrapper(w *strings.Builder, d bindgen.Descriptor) error {
	sig := d.Signature
	name := exportName(d.ModulePath, d.Symbol)
	if name == "" {
		// A name of only underscores camel-cases to nothing.
		return fmt.Errorf("function %s yields no usable Go symbol from %q", sig.QualifiedName(), d.Symbol)
	}
	if err := g.claim(name, d.Target.String()+" "+sig.QualifiedName()); err != nil {
		return err
	}

	fmt.Fprintf(w, "// %s calls the SurrealQL function %s.\n", name, sig.QualifiedName())
	for _, line := range sig.Comments {
		fmt.Fprintf(w, "//\n// %s\n", line)
	}

	recv, iface, call := "db", "Driver", "Query"
	if d.Target == bindgen.TargetDatastore {
		recv, iface, call = "ds", "Datastore", "Execute"
	}

	fmt.Fprintf(w, "func %s(ctx context.Context, %s %s", name, recv, iface)
	for _, p := range sig.Params {
		k := goType(p.Type)
		if k.imprt != "" {
			g.imports[k.imprt] = true
		}
		fmt.Fprintf(w, ", %s %s", paramName(p.Name), k.typ)
	}
	w.WriteString(") (any, error) {\n")

	if len(sig.Params) == 0 {
		fmt.Fprintf(w, "\treturn %s.%s(ctx, %s, nil)\n}\n\n", recv, call, strconv.Quote(sig.CallQuery()))
		return nil
	}

	fmt.Fprintf(w, "\treturn %s.%s(ctx, %s, map[string]any{\n", recv, call, strconv.Quote(sig.CallQuery()))
	for _, p := range sig.Params {
		fmt.Fprintf(w, "\t\t%s: %s,\n", strconv.Quote(p.Name), paramName(p.Name))
	}
	w.WriteString("\t})\n}\n\n")
	return nil
}

// defineStatement reconstructs the original DEFINE FUNCTION statement
// from the parsed signature and its raw body text.
func defineStatement(sig *parser.FunctionSignature, body string) string {
	var b strings.Builder
	b.WriteString("DEFINE FUNCTION ")
	b.WriteString(sig.QualifiedName())
	b.WriteByte('(')
	for i, p := range sig.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('$')
		b.WriteString(p.Name)
		b.WriteString(": ")
		b.WriteString(p.Type)
	}
	b.WriteString(") ")
	b.WriteString(body)
	b.WriteByte(';')
	return b.String()
}

// reservedParams are wrapper argument names already taken by the
// function's own signature.
var reservedParams = map[string]bool{
	"ctx": true,
	"db":  true,
	"ds":  true,
}

// goKeywords are names that cannot be used as Go identifiers.
var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true,
	"continue": true, "default": true, "defer": true, "else": true,
	"fallthrough": true, "for": true, "func": true, "go": true,
	"goto": true, "if": true, "import": true, "interface": true,
	"map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true,
	"var": true,
}

// paramName sanitizes a declared parameter name into a usable Go
// argument name.
func paramName(name string) string {
	if reservedParams[name] || goKeywords[name] {
		return name + "Arg"
	}
	return name
}

// exportName builds an exported Go identifier from the module path and
// the generated symbol, camel-casing each underscore-separated part.
func exportName(path []string, symbol string) string {
	var b strings.Builder
	for _, seg := range path {
		writeCamel(&b, seg)
	}
	writeCamel(&b, symbol)
	return b.String()
}

// writeCamel appends the CamelCase form of an underscore-separated
// segment.
func writeCamel(b *strings.Builder, seg string) {
	for _, part := range strings.Split(seg, "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
}
