// Package history persists the outcome of a completed pipeline run to a
// local SQLite database, for later inspection — an audit log of finished
// runs, never read back to resume execution (recording a run ID again
// replaces the earlier record, and Annotate edits a stored one; spec.md's "no
// persistent pipeline state across restarts" non-goal concerns resuming a
// run, not auditing one after the fact; see SPEC_FULL.md §4.10).
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/nightlyone/lockfile"

	"github.com/pipeflow/pipeflow/pipeline"
)

// JobResult is the persisted view of a single Job's terminal status.
type JobResult struct {
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration_ns"`
}

// Run is one recorded pipeline run.
type Run struct {
	ID         string      `json:"id"`
	RecordedAt time.Time   `json:"recorded_at"`
	Jobs       []JobResult `json:"jobs"`
}

// Store is a SQLite-backed log of pipeline runs, one row per run ID. The
// zero value is not usable; construct with Open.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("history: creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("history: opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		run_id      TEXT PRIMARY KEY,
		recorded_at INTEGER NOT NULL,
		jobs_json   TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("history: creating schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path this Store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Record persists one run under runID, built from the final statuses of a
// pipeline.Pipeline that has just quiesced (see pipeline.Pipeline.Execute).
// A lockfile guards the database file against two concurrent writers.
func (s *Store) Record(runID string, statuses []pipeline.JobStatus) error {
	run := Run{ID: runID, RecordedAt: time.Now(), Jobs: make([]JobResult, 0, len(statuses))}
	for _, st := range statuses {
		run.Jobs = append(run.Jobs, JobResult{
			Name:     st.Name,
			Status:   st.Status.Phase.String(),
			Message:  st.Status.Message,
			Duration: st.Status.Duration,
		})
	}

	jobsJSON, err := json.Marshal(run.Jobs)
	if err != nil {
		return fmt.Errorf("history: encoding run %q: %w", runID, err)
	}

	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO runs (run_id, recorded_at, jobs_json) VALUES (?, ?, ?)`,
		runID, run.RecordedAt.Unix(), string(jobsJSON),
	)
	if err != nil {
		return fmt.Errorf("history: recording run %q: %w", runID, err)
	}
	return nil
}

// Get retrieves a previously recorded run by ID. It returns (nil, nil) if no
// such run exists.
func (s *Store) Get(runID string) (*Run, error) {
	var recordedAtUnix int64
	var jobsJSON string

	err := s.db.QueryRow(`SELECT recorded_at, jobs_json FROM runs WHERE run_id = ?`, runID).
		Scan(&recordedAtUnix, &jobsJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("history: fetching run %q: %w", runID, err)
	}

	var jobs []JobResult
	if err := json.Unmarshal([]byte(jobsJSON), &jobs); err != nil {
		return nil, fmt.Errorf("history: decoding run %q: %w", runID, err)
	}

	return &Run{ID: runID, RecordedAt: time.Unix(recordedAtUnix, 0), Jobs: jobs}, nil
}

// rawJobsJSON returns the stored jobs_json blob for a run, for Query to
// evaluate gjson/sjson path expressions against without a full Unmarshal.
func (s *Store) rawJobsJSON(runID string) (string, error) {
	var jobsJSON string
	err := s.db.QueryRow(`SELECT jobs_json FROM runs WHERE run_id = ?`, runID).Scan(&jobsJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("history: no such run %q", runID)
		}
		return "", fmt.Errorf("history: fetching run %q: %w", runID, err)
	}
	return jobsJSON, nil
}

// lock acquires an advisory lockfile guarding the database file against a
// second concurrent pipeflow run, returning a function to release it.
func (s *Store) lock() (func(), error) {
	lockPath := s.path + ".lock"
	lock, err := lockfile.New(lockPath)
	if err != nil {
		return nil, fmt.Errorf("history: creating lock handle: %w", err)
	}
	if err := lock.TryLock(); err != nil {
		return nil, fmt.Errorf("history: acquiring lock on %s: %w", lockPath, err)
	}
	return func() { _ = lock.Unlock() }, nil
}
