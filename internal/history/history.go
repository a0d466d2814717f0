// Package history archives executed recipe runs in SQLite.
package history

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avelline/ladle/internal/logging"
	"github.com/avelline/ladle/internal/recipe"
	"github.com/avelline/ladle/internal/value"
)

//go:embed schema.sql
var schemaFS embed.FS

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// Run statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// StepRecord is the archived form of one executed step.
type StepRecord struct {
	Index      int    `json:"index"`
	Op         string `json:"op"`
	OutputType string `json:"output_type,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// Run is one archived recipe execution.
type Run struct {
	ID         string       `json:"id"`
	RecipeName string       `json:"recipe_name"`
	Input      string       `json:"input"`
	OutputType string       `json:"output_type"`
	Output     []byte       `json:"-"`
	Status     string       `json:"status"`
	Error      string       `json:"error,omitempty"`
	StartedAt  int64        `json:"started_at"`
	FinishedAt int64        `json:"finished_at"`
	Steps      []StepRecord `json:"steps,omitempty"`
}

// NewRun assembles an archivable Run from an engine invocation. A fresh uuid
// becomes the run id.
func NewRun(rec recipe.Recipe, input string, out value.Value, results []recipe.StepResult, runErr error, started, finished time.Time) *Run {
	run := &Run{
		ID:         uuid.New().String(),
		RecipeName: rec.Name,
		Input:      input,
		OutputType: value.TypeString,
		Status:     StatusOK,
		StartedAt:  started.Unix(),
		FinishedAt: finished.Unix(),
	}

	if runErr != nil {
		run.Status = StatusError
		run.Error = runErr.Error()
	} else {
		run.OutputType = out.TypeName()
		run.Output = out.AsBytes()
	}

	for _, res := range results {
		step := StepRecord{
			Index:      res.Index,
			Op:         res.Op,
			OutputType: res.OutputType,
			DurationMS: res.Duration.Milliseconds(),
		}
		if res.Err != nil {
			step.Error = res.Err.Error()
		}
		run.Steps = append(run.Steps, step)
	}

	return run
}

// Archive stores runs in SQLite. db is typically the database at
// <storage root>/history.db.
type Archive struct {
	db     *sql.DB
	logger logging.Logger
}

// NewArchive returns an Archive and runs migrations from schema.sql.
func NewArchive(db *sql.DB, logger logging.Logger) (*Archive, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("history")
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return nil, fmt.Errorf("failed to execute schema: %w", err)
	}

	return &Archive{db: db, logger: logger}, nil
}

// Record inserts a run and its steps in one transaction.
func (a *Archive) Record(ctx context.Context, run *Run) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("run must have an id")
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, recipe_name, input, output_type, output, status, error, started_at, finished_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.RecipeName, run.Input, run.OutputType, run.Output,
		run.Status, run.Error, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, step := range run.Steps {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_steps (run_id, idx, op, output_type, duration_ms, error)
             VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, step.Index, step.Op, step.OutputType, step.DurationMS, step.Error,
		)
		if err != nil {
			return fmt.Errorf("insert run step %d: %w", step.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	a.logger.Debug("archived run",
		logging.Field{Key: "run_id", Value: run.ID},
		logging.Field{Key: "status", Value: run.Status},
		logging.Field{Key: "steps", Value: len(run.Steps)})
	return nil
}

// Get returns a run with its steps.
func (a *Archive) Get(ctx context.Context, id string) (*Run, error) {
	row := a.db.QueryRowContext(ctx,
		`SELECT id, recipe_name, input, output_type, output, status, error, started_at, finished_at
         FROM runs
         WHERE id = ?
         LIMIT 1`,
		id,
	)

	var run Run
	var output []byte
	if err := row.Scan(&run.ID, &run.RecipeName, &run.Input, &run.OutputType, &output,
		&run.Status, &run.Error, &run.StartedAt, &run.FinishedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	run.Output = output

	rows, err := a.db.QueryContext(ctx,
		`SELECT idx, op, output_type, duration_ms, error
         FROM run_steps
         WHERE run_id = ?
         ORDER BY idx ASC`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var step StepRecord
		if err := rows.Scan(&step.Index, &step.Op, &step.OutputType, &step.DurationMS, &step.Error); err != nil {
			return nil, err
		}
		run.Steps = append(run.Steps, step)
	}
	return &run, rows.Err()
}

// List returns the most recent runs, newest first, without step details or
// outputs.
func (a *Archive) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := a.db.QueryContext(ctx,
		`SELECT id, recipe_name, input, output_type, status, error, started_at, finished_at
         FROM runs
         ORDER BY started_at DESC, id DESC
         LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.RecipeName, &run.Input, &run.OutputType,
			&run.Status, &run.Error, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
