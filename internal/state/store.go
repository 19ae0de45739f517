// Package state persists generation metadata between runs: per-origin
// content hashes, used to skip regeneration when nothing changed, and a
// log of generation runs.
package state

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

//go:embed schema.sql
var schemaSQL string

// Run statuses.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Run is one generation run record.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Functions  int
	Output     string
	Error      string
}

// Store is the SQLite-backed state store.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens (or creates) the state database at path. Use ":memory:"
// for an in-memory store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping state database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize state schema: %w", err)
	}

	logger.Debug("state store opened", "path", path)
	return &Store{db: db, path: path, logger: logger}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetContentHash retrieves the stored hash for an origin. Returns an
// empty string when the origin has no record yet.
func (s *Store) GetContentHash(origin string) (string, error) {
	var hash string
	err := s.db.QueryRow(`SELECT content_hash FROM content_hashes WHERE origin = ?`, origin).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get content hash: %w", err)
	}
	return hash, nil
}

// SetContentHash stores the hash for an origin.
func (s *Store) SetContentHash(origin, hash string) error {
	_, err := s.db.Exec(`
		INSERT INTO content_hashes (origin, content_hash, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(origin) DO UPDATE SET
			content_hash = excluded.content_hash,
			updated_at = excluded.updated_at`,
		origin, hash)
	if err != nil {
		return fmt.Errorf("failed to set content hash: %w", err)
	}
	return nil
}

// PruneHashes deletes records for origins not in keep. Origins removed
// from the project should not keep their generation state around.
func (s *Store) PruneHashes(keep []string) error {
	known := map[string]bool{}
	for _, o := range keep {
		known[o] = true
	}

	rows, err := s.db.Query(`SELECT origin FROM content_hashes`)
	if err != nil {
		return fmt.Errorf("failed to list content hashes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stale []string
	for rows.Next() {
		var origin string
		if err := rows.Scan(&origin); err != nil {
			return fmt.Errorf("failed to scan origin: %w", err)
		}
		if !known[origin] {
			stale = append(stale, origin)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate content hashes: %w", err)
	}

	for _, origin := range stale {
		if _, err := s.db.Exec(`DELETE FROM content_hashes WHERE origin = ?`, origin); err != nil {
			return fmt.Errorf("failed to prune content hash for %s: %w", origin, err)
		}
		s.logger.Debug("pruned stale origin", "origin", origin)
	}
	return nil
}

// CreateRun inserts a new running run record and returns it.
func (s *Store) CreateRun() (*Run, error) {
	run := &Run{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Status:    StatusRunning,
	}
	_, err := s.db.Exec(`
		INSERT INTO runs (id, started_at, status) VALUES (?, ?, ?)`,
		run.ID, run.StartedAt, run.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// FinishRun marks a run finished with the given status.
func (s *Store) FinishRun(id, status string, functions int, output, errMsg string) error {
	_, err := s.db.Exec(`
		UPDATE runs SET finished_at = ?, status = ?, functions = ?, output = ?, error = ?
		WHERE id = ?`,
		time.Now().UTC(), status, functions, output, errMsg, id)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// LastRun returns the most recently started run, or nil when no run has
// been recorded.
func (s *Store) LastRun() (*Run, error) {
	run := &Run{}
	var finished sql.NullTime
	err := s.db.QueryRow(`
		SELECT id, started_at, finished_at, status, functions, output, error
		FROM runs ORDER BY started_at DESC LIMIT 1`).
		Scan(&run.ID, &run.StartedAt, &finished, &run.Status, &run.Functions, &run.Output, &run.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load last run: %w", err)
	}
	if finished.Valid {
		run.FinishedAt = finished.Time
	}
	return run, nil
}
