package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/surbind/internal/cli/config"
	"github.com/leapstack-labs/surbind/internal/collector"
	"github.com/leapstack-labs/surbind/pkg/namespace"
	"github.com/leapstack-labs/surbind/pkg/naming"
	"github.com/leapstack-labs/surbind/pkg/parser"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [paths...]",
		Short: "Validate SurrealQL function definitions without generating",
		Long: `Check parses the given .surql files, validates the function
headers and namespace tree, and validates the naming schemes when
--driver or --datastore is set. No output file is written.

Exit status is non-zero when any definition is invalid.`,
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := configFrom(cmd)

	// Schemes are optional for check, but when given they must be
	// well-formed and non-conflicting.
	if cfg.Driver != "" || cfg.Datastore != "" {
		if _, err := naming.ParseRequest(cfg.Driver, cfg.Datastore); err != nil {
			return err
		}
	}

	tree, sources, err := parseTree(args, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "OK: %d functions across %d sources\n",
		tree.Count(), len(sources))
	return nil
}

// parseTree collects and parses the configured paths and builds the
// validated namespace tree.
func parseTree(args []string, cfg *config.Config) (*namespace.Node, []collector.Source, error) {
	paths := cfg.Paths
	if len(args) > 0 {
		paths = args
	}

	sources, err := collector.Collect(paths)
	if err != nil {
		return nil, nil, err
	}

	var sigs []*parser.FunctionSignature
	for _, src := range sources {
		parsed, err := parser.ParseSource(src.Origin, src.Content)
		if err != nil {
			return nil, nil, err
		}
		sigs = append(sigs, parsed...)
	}

	tree, err := namespace.Build(sigs)
	if err != nil {
		return nil, nil, err
	}
	return tree, sources, nil
}
