package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/surbind/pkg/parser"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List SurrealQL function definitions",
		Long: `List parses the given .surql files and prints every function
definition with its parameters and source location.`,
		RunE: runList,
	}

	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

// listedFunction is the JSON shape of one listed function.
type listedFunction struct {
	Name   string   `json:"name"`
	Params []string `json:"params,omitempty"`
	Docs   []string `json:"docs,omitempty"`
	Origin string   `json:"origin"`
	Line   int      `json:"line"`
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := configFrom(cmd)
	format, _ := cmd.Flags().GetString("output")

	tree, _, err := parseTree(args, cfg)
	if err != nil {
		return err
	}

	var funcs []listedFunction
	tree.Walk(func(path []string, sig *parser.FunctionSignature) {
		funcs = append(funcs, listedFunction{
			Name:   sig.QualifiedName(),
			Params: formatParams(sig),
			Docs:   sig.Comments,
			Origin: sig.Origin,
			Line:   sig.Body.Start.Line,
		})
	})

	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(funcs)
	case "table":
		renderTable(cmd, funcs)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s (expected table or json)", format)
	}
}

func renderTable(cmd *cobra.Command, funcs []listedFunction) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Function", "Parameters", "Origin", "Line"})
	for _, fn := range funcs {
		t.AppendRow(table.Row{
			fn.Name,
			strings.Join(fn.Params, ", "),
			fn.Origin,
			fn.Line,
		})
	}
	t.Render()
	fmt.Fprintf(cmd.OutOrStdout(), "%d functions\n", len(funcs))
}

// formatParams renders the parameter list in source spelling.
func formatParams(sig *parser.FunctionSignature) []string {
	params := make([]string, 0, len(sig.Params))
	for _, p := range sig.Params {
		params = append(params, fmt.Sprintf("$%s: %s", p.Name, p.Type))
	}
	return params
}
