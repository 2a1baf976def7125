package history

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Query evaluates a gjson path expression (e.g.
// `#(status=="Failed").name`) against the stored jobs array of runID,
// returning the matched result's raw JSON text. An empty string with no
// error means the path matched nothing.
func (s *Store) Query(runID, path string) (string, error) {
	jobsJSON, err := s.rawJobsJSON(runID)
	if err != nil {
		return "", err
	}

	result := gjson.Get(jobsJSON, path)
	if !result.Exists() {
		return "", nil
	}
	return result.Raw, nil
}

// Annotate adds or overwrites a field at path in a run's stored jobs JSON,
// via an sjson set, and persists the result. Used to attach caller-supplied
// metadata (e.g. a "note" field) to an already-recorded run without
// re-running it.
func (s *Store) Annotate(runID, path string, value any) error {
	jobsJSON, err := s.rawJobsJSON(runID)
	if err != nil {
		return err
	}

	updated, err := sjson.Set(jobsJSON, path, value)
	if err != nil {
		return fmt.Errorf("history: annotating run %q: %w", runID, err)
	}

	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	_, err = s.db.Exec(`UPDATE runs SET jobs_json = ? WHERE run_id = ?`, updated, runID)
	if err != nil {
		return fmt.Errorf("history: persisting annotation for run %q: %w", runID, err)
	}
	return nil
}
