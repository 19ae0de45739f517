// Package cli provides the command-line interface for surbind.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/surbind/internal/cli/commands"
	"github.com/leapstack-labs/surbind/internal/cli/config"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "surbind",
		Short: "surbind - SurrealQL function binding generator",
		Long: `surbind extracts DEFINE FUNCTION declarations from SurrealQL files
and generates typed Go call wrappers for them.

Functions named fn::a::b::c become nested by namespace, and each
requested binding target (driver, datastore) gets its own wrapper per
function, named by the target's naming scheme (is, prefix_$, $_suffix).`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			if cfg.Verbose {
				if used := config.ConfigFileUsed(); used != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", used)
				}
			}

			logger := newLogger(cfg.Verbose)
			ctx := commands.WithConfig(cmd.Context(), cfg)
			ctx = commands.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./surbind.yaml)")
	rootCmd.PersistentFlags().String("driver", "", "Driver naming scheme (is, prefix_$, $_suffix)")
	rootCmd.PersistentFlags().String("datastore", "", "Datastore naming scheme (is, prefix_$, $_suffix)")
	rootCmd.PersistentFlags().String("out", "", "Generated file path")
	rootCmd.PersistentFlags().String("package", "", "Generated package name")
	rootCmd.PersistentFlags().String("state-path", "", "State database path (empty disables the skip cache)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(commands.NewGenerateCommand())
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version, BuildDate, GitCommit))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// newLogger builds the CLI logger. Verbose mode enables debug logging;
// otherwise only warnings reach stderr so command output stays clean.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
