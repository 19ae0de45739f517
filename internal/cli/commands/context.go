package commands

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/surbind/internal/cli/config"
	"github.com/leapstack-labs/surbind/internal/generator"
	"github.com/spf13/cobra"
)

// configKey is used to store config in context.
type configKey struct{}

// loggerKey is used to store the logger in context.
type loggerKey struct{}

// WithConfig stores the loaded config in the context.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// WithLogger stores the logger in the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// configFrom retrieves the loaded config from the command context.
func configFrom(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return &config.Config{}
}

// loggerFrom retrieves the logger from the command context.
func loggerFrom(cmd *cobra.Command) *slog.Logger {
	if logger, ok := cmd.Context().Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.New(slog.DiscardHandler)
}

// generatorConfig builds a generator config from the CLI config and
// positional path arguments. Paths on the command line take precedence
// over paths from the config file.
func generatorConfig(cmd *cobra.Command, args []string, cfg *config.Config) generator.Config {
	paths := cfg.Paths
	if len(args) > 0 {
		paths = args
	}
	return generator.Config{
		Paths:      paths,
		Driver:     cfg.Driver,
		Datastore:  cfg.Datastore,
		OutputPath: cfg.Out,
		Package:    cfg.Package,
		StatePath:  cfg.StatePath,
		Logger:     loggerFrom(cmd),
	}
}
