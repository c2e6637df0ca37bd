package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Melamoto/dexter/internal/heuristic"
	"github.com/Melamoto/dexter/internal/trace"
)

// Run is one recorded debugging run.
type Run struct {
	ID            int64
	StartedAt     time.Time
	Executable    string
	Debugger      string
	DexterVersion string
	Score         float64
	PenaltyPoints int
	MaxPoints     int
	NumSteps      int
}

// RecordRun persists a finished trace and its score as one run, steps
// included, and returns the run ID.
func (s *Store) RecordRun(startedAt time.Time, t *trace.Trace, result *heuristic.Result) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	backendName := ""
	if t.Backend != nil {
		backendName = t.Backend.Name
	}

	res, err := tx.Exec(`
		INSERT INTO runs (started_at, executable, debugger, dexter_version,
		                  score, penalty_points, max_points, num_steps)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		startedAt, t.ExecutablePath, backendName, t.DexterVersion,
		result.Score, result.Points, result.MaxPoints, t.NumSteps())
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO run_steps (run_id, seq, function, path, line, col, step_kind)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare steps: %w", err)
	}
	defer stmt.Close()
	for i, step := range t.Steps {
		if _, err := stmt.Exec(runID, i, step.Function,
			step.Location.Path, step.Location.Line, step.Location.Column,
			string(step.Kind)); err != nil {
			return 0, fmt.Errorf("insert step %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

// Runs returns all recorded runs, newest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT id, started_at, executable, debugger, dexter_version,
		       score, penalty_points, max_points, num_steps
		FROM runs ORDER BY started_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	return scanRuns(rows)
}

// RunByID returns one run, or nil when absent.
func (s *Store) RunByID(id int64) (*Run, error) {
	rows, err := s.db.Query(`
		SELECT id, started_at, executable, debugger, dexter_version,
		       score, penalty_points, max_points, num_steps
		FROM runs WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("run %d: %w", id, err)
	}
	defer rows.Close()
	runs, err := scanRuns(rows)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return &runs[0], nil
}

// BestRun returns the highest-scoring run for an executable, or nil when
// none is recorded. Ties go to the most recent run.
func (s *Store) BestRun(executable string) (*Run, error) {
	rows, err := s.db.Query(`
		SELECT id, started_at, executable, debugger, dexter_version,
		       score, penalty_points, max_points, num_steps
		FROM runs WHERE executable = ?
		ORDER BY score DESC, started_at DESC LIMIT 1`, executable)
	if err != nil {
		return nil, fmt.Errorf("best run: %w", err)
	}
	defer rows.Close()
	runs, err := scanRuns(rows)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return &runs[0], nil
}

// StepsByRun returns a run's classified steps in sequence order.
func (s *Store) StepsByRun(runID int64) ([]*trace.Step, error) {
	rows, err := s.db.Query(`
		SELECT function, path, line, col, step_kind
		FROM run_steps WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("steps for run %d: %w", runID, err)
	}
	defer rows.Close()

	var steps []*trace.Step
	for rows.Next() {
		var st trace.Step
		var kind string
		if err := rows.Scan(&st.Function, &st.Location.Path,
			&st.Location.Line, &st.Location.Column, &kind); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		st.Kind = trace.StepKind(kind)
		steps = append(steps, &st)
	}
	return steps, rows.Err()
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.Executable, &r.Debugger,
			&r.DexterVersion, &r.Score, &r.PenaltyPoints, &r.MaxPoints,
			&r.NumSteps); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
