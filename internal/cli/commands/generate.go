package commands

import (
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/surbind/internal/collector"
	"github.com/leapstack-labs/surbind/internal/generator"
)

// debounceDelay coalesces editor save bursts into one regeneration.
const debounceDelay = 250 * time.Millisecond

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [paths...]",
		Short: "Generate Go bindings for SurrealQL functions",
		Long: `Generate parses the given .surql files (directories are expanded
recursively) and writes a Go source file with one typed wrapper per
function and requested target, plus the bootstrap registration
functions.

Paths default to the "paths" list in surbind.yaml when no arguments are
given.`,
		Example: `  # Generate driver bindings for a schema directory
  surbind generate --driver is schema/

  # Both targets, with distinct naming schemes
  surbind generate --driver is --datastore ds_$ schema/functions.surql

  # Regenerate on every change
  surbind generate --driver is --watch schema/`,
		RunE: runGenerate,
	}

	cmd.Flags().Bool("watch", false, "Watch input paths and regenerate on change")
	cmd.Flags().Bool("force", false, "Regenerate even when inputs are unchanged")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := configFrom(cmd)
	watch, _ := cmd.Flags().GetBool("watch")
	force, _ := cmd.Flags().GetBool("force")

	gcfg := generatorConfig(cmd, args, cfg)
	gcfg.Force = force

	gen, err := generator.New(gcfg)
	if err != nil {
		return err
	}
	defer func() { _ = gen.Close() }()

	if err := generateOnce(cmd, gen); err != nil {
		return err
	}

	if !watch {
		return nil
	}
	return watchLoop(cmd, gen, gcfg.Paths)
}

// generateOnce runs the pipeline and prints a one-line summary.
func generateOnce(cmd *cobra.Command, gen *generator.Generator) error {
	result, err := gen.Run(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if result.Skipped {
		fmt.Fprintln(out, "Bindings up to date")
		return nil
	}
	fmt.Fprintf(out, "Generated %d wrappers for %d functions in %s\n",
		len(result.Descriptors), result.Functions, result.Duration.Round(time.Millisecond))
	return nil
}

// watchLoop regenerates whenever a watched .surql file changes, until
// interrupted.
func watchLoop(cmd *cobra.Command, gen *generator.Generator, paths []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, raw := range paths {
		path, err := collector.ResolvePath(raw, os.Getenv)
		if err != nil {
			return err
		}
		if err := watchPath(watcher, path); err != nil {
			return err
		}
	}

	logger := loggerFrom(cmd)
	fmt.Fprintln(cmd.OutOrStdout(), "Watching for changes (ctrl-c to stop)")

	var timer *time.Timer
	rerun := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event) {
				continue
			}
			logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			// New subdirectories need watching too.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchPath(watcher, event.Name)
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		case <-rerun:
			if err := generateOnce(cmd, gen); err != nil {
				// Keep watching: a syntax error mid-edit is expected.
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}
		}
	}
}

// watchPath registers a file's directory, or a directory tree, with the
// watcher.
func watchPath(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
}

// relevantEvent reports whether the event should trigger regeneration.
func relevantEvent(event fsnotify.Event) bool {
	if event.Op.Has(fsnotify.Chmod) {
		return false
	}
	if filepath.Ext(event.Name) == collector.Ext {
		return true
	}
	// Directory-level creates and removes matter for recursive watch.
	info, err := os.Stat(event.Name)
	return err == nil && info.IsDir()
}
