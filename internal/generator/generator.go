// Package generator orchestrates the binding generation pipeline:
// collect sources, recognize function headers, build the namespace
// tree, validate naming, emit descriptors, and render Go source.
//
// The pipeline is synchronous and fail-fast: the first error anywhere
// aborts the run and no output is written.
package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leapstack-labs/surbind/internal/codegen"
	"github.com/leapstack-labs/surbind/internal/collector"
	"github.com/leapstack-labs/surbind/internal/state"
	"github.com/leapstack-labs/surbind/pkg/bindgen"
	"github.com/leapstack-labs/surbind/pkg/namespace"
	"github.com/leapstack-labs/surbind/pkg/naming"
	"github.com/leapstack-labs/surbind/pkg/parser"
)

// configOrigin is the pseudo-origin used to hash the generation
// configuration itself, so scheme or package changes invalidate the
// skip cache like source edits do.
const configOrigin = "surbind:config"

// Config holds generator configuration.
type Config struct {
	// Paths are the .surql files or directories to bind, in order.
	Paths []string
	// Driver is the driver naming scheme spelling ("" = not requested).
	Driver string
	// Datastore is the datastore naming scheme spelling.
	Datastore string
	// OutputPath is where the generated file is written. Empty means
	// the source is only returned, not written.
	OutputPath string
	// Package is the generated file's package name.
	Package string
	// StatePath is the state database path. Empty disables the skip
	// cache and run log.
	StatePath string
	// Force regenerates even when the skip cache says inputs are
	// unchanged.
	Force bool
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Result is the outcome of one generation run.
type Result struct {
	// Functions is the number of bound functions.
	Functions int
	// Descriptors is the flat ordered descriptor list.
	Descriptors []bindgen.Descriptor
	// Bootstrap is the aggregate registration descriptor.
	Bootstrap *bindgen.Bootstrap
	// Tree is the validated namespace tree.
	Tree *namespace.Node
	// Source is the rendered Go source.
	Source []byte
	// Skipped is true when inputs were unchanged and generation was
	// skipped.
	Skipped bool
	// Duration is the wall time of the run.
	Duration time.Duration
}

// Generator runs the binding pipeline.
type Generator struct {
	cfg     Config
	request *naming.Request
	logger  *slog.Logger
	store   *state.Store
}

// New creates a generator. The binding request and path list are
// validated eagerly, before any file is read.
func New(cfg Config) (*Generator, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	req, err := naming.ParseRequest(cfg.Driver, cfg.Datastore)
	if err != nil {
		return nil, err
	}
	if len(cfg.Paths) == 0 {
		return nil, &collector.NoPathError{}
	}

	g := &Generator{cfg: cfg, request: req, logger: logger}

	if cfg.StatePath != "" {
		if dir := filepath.Dir(cfg.StatePath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
		store, err := state.Open(cfg.StatePath, logger)
		if err != nil {
			return nil, err
		}
		g.store = store
	}

	return g, nil
}

// Request returns the validated binding request.
func (g *Generator) Request() *naming.Request {
	return g.request
}

// Close releases the state store.
func (g *Generator) Close() error {
	if g.store != nil {
		return g.store.Close()
	}
	return nil
}

// Run executes the whole pipeline once.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	var runID string
	if g.store != nil {
		run, err := g.store.CreateRun()
		if err != nil {
			return nil, err
		}
		runID = run.ID
	}

	result, err := g.run(ctx)
	if g.store != nil && runID != "" {
		g.finishRun(runID, result, err)
	}
	if err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	g.logger.Info("generation finished",
		"functions", result.Functions,
		"descriptors", len(result.Descriptors),
		"skipped", result.Skipped,
		"duration", result.Duration.Round(time.Millisecond))
	return result, nil
}

// run is the pipeline body; Run wraps it with run-log bookkeeping.
func (g *Generator) run(ctx context.Context) (*Result, error) {
	sources, err := collector.Collect(g.cfg.Paths)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("collected sources", "count", len(sources))

	hashes := g.contentHashes(sources)
	if g.upToDate(hashes) {
		g.logger.Info("inputs unchanged, skipping generation", "output", g.cfg.OutputPath)
		return &Result{Skipped: true}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sigs []*parser.FunctionSignature
	contents := make(map[string]string, len(sources))
	for _, src := range sources {
		parsed, err := parser.ParseSource(src.Origin, src.Content)
		if err != nil {
			return nil, err
		}
		g.logger.Debug("parsed source", "origin", src.Origin, "functions", len(parsed))
		sigs = append(sigs, parsed...)
		contents[src.Origin] = src.Content
	}

	tree, err := namespace.Build(sigs)
	if err != nil {
		return nil, err
	}

	descriptors, bootstrap, err := bindgen.Emit(tree, g.request)
	if err != nil {
		return nil, err
	}

	source, err := codegen.Generate(codegen.Options{
		Package: g.cfg.Package,
		Request: g.request,
	}, descriptors, bootstrap, contents)
	if err != nil {
		return nil, err
	}

	if g.cfg.OutputPath != "" {
		if dir := filepath.Dir(g.cfg.OutputPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		if err := os.WriteFile(g.cfg.OutputPath, source, 0o644); err != nil { //nolint:gosec // G306: generated source
			return nil, fmt.Errorf("failed to write %s: %w", g.cfg.OutputPath, err)
		}
	}

	g.saveHashes(hashes)

	return &Result{
		Functions:   len(sigs),
		Descriptors: descriptors,
		Bootstrap:   bootstrap,
		Tree:        tree,
		Source:      source,
	}, nil
}

// contentHashes computes the sha256 of every source plus the
// configuration pseudo-origin. The ordered origin list is folded into
// the configuration hash so removing or reordering a source
// invalidates the cache even though every surviving hash still
// matches.
func (g *Generator) contentHashes(sources []collector.Source) map[string]string {
	hashes := make(map[string]string, len(sources)+1)
	origins := make([]string, 0, len(sources))
	for _, src := range sources {
		hashes[src.Origin] = hashContent(src.Content)
		origins = append(origins, src.Origin)
	}
	hashes[configOrigin] = hashContent(strings.Join(append(origins,
		g.cfg.Driver, g.cfg.Datastore, g.cfg.Package), "\x00"))
	return hashes
}

// upToDate reports whether every hash matches the stored state and the
// output file still exists.
func (g *Generator) upToDate(hashes map[string]string) bool {
	if g.cfg.Force || g.store == nil || g.cfg.OutputPath == "" {
		return false
	}
	if _, err := os.Stat(g.cfg.OutputPath); err != nil {
		return false
	}
	for origin, hash := range hashes {
		stored, err := g.store.GetContentHash(origin)
		if err != nil || stored != hash {
			return false
		}
	}
	return true
}

// saveHashes persists the hashes and prunes records for removed
// origins. State failures only log: the generated output is already on
// disk and correct.
func (g *Generator) saveHashes(hashes map[string]string) {
	if g.store == nil {
		return
	}
	keep := make([]string, 0, len(hashes))
	for origin, hash := range hashes {
		if err := g.store.SetContentHash(origin, hash); err != nil {
			g.logger.Warn("failed to save content hash", "origin", origin, "error", err)
		}
		keep = append(keep, origin)
	}
	if err := g.store.PruneHashes(keep); err != nil {
		g.logger.Warn("failed to prune content hashes", "error", err)
	}
}

// finishRun records the run outcome in the state store.
func (g *Generator) finishRun(runID string, result *Result, runErr error) {
	status := state.StatusSuccess
	functions := 0
	output := g.cfg.OutputPath
	errMsg := ""

	switch {
	case runErr != nil:
		status = state.StatusFailed
		errMsg = runErr.Error()
	case result != nil && result.Skipped:
		status = state.StatusSkipped
	case result != nil:
		functions = result.Functions
	}

	if err := g.store.FinishRun(runID, status, functions, output, errMsg); err != nil {
		g.logger.Warn("failed to record run", "run_id", runID, "error", err)
	}
}

// hashContent returns the hex sha256 of the content.
func hashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
