// Package app wires the operation registry, transport, engine and archive
// into one runnable unit shared by the CLI and the API server.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/avelline/ladle/internal/history"
	"github.com/avelline/ladle/internal/logging"
	"github.com/avelline/ladle/internal/ops"
	"github.com/avelline/ladle/internal/recipe"
	"github.com/avelline/ladle/internal/value"
	"github.com/avelline/ladle/internal/webclient"
)

// Runner executes recipes with the configured transport and archives each
// run. A nil archive disables archiving.
type Runner struct {
	cfg     *Config
	wc      webclient.WebClient
	archive *history.Archive
	logger  logging.Logger
}

// NewRunner constructs the configured webclient backend and returns a Runner.
func NewRunner(cfg *Config, archive *history.Archive, logger logging.Logger) (*Runner, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("runner")
	}

	wc, err := webclient.NewWebClient(cfg.WebClientCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("constructing webclient: %w", err)
	}

	return &Runner{cfg: cfg, wc: wc, archive: archive, logger: logger}, nil
}

// NewRunnerWithClient is like NewRunner but uses the given transport. Used by
// tests and embedders that manage their own client.
func NewRunnerWithClient(cfg *Config, wc webclient.WebClient, archive *history.Archive, logger logging.Logger) *Runner {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("runner")
	}
	return &Runner{cfg: cfg, wc: wc, archive: archive, logger: logger}
}

// Run executes the recipe against input, archives the result, and returns the
// archived record plus the final value. observer may be nil; when set it is
// invoked after every step.
func (r *Runner) Run(ctx context.Context, rec recipe.Recipe, input string, observer func(recipe.StepResult)) (*history.Run, value.Value, error) {
	engine := recipe.NewEngine(
		ops.Deps{WebClient: r.wc, Logger: r.logger},
		r.logger,
		recipe.WithObserver(observer),
	)

	started := time.Now()
	out, results, runErr := engine.Run(ctx, rec, input)
	finished := time.Now()

	run := history.NewRun(rec, input, out, results, runErr, started, finished)

	if r.archive != nil {
		if err := r.archive.Record(ctx, run); err != nil {
			// Archiving is auxiliary; a failed insert must not fail the run.
			r.logger.Warn("failed to archive run",
				logging.Field{Key: "run_id", Value: run.ID},
				logging.Field{Key: "error", Value: err.Error()})
		}
	}

	return run, out, runErr
}

// Config returns the runner's configuration.
func (r *Runner) Config() *Config {
	return r.cfg
}

// Close releases the underlying transport.
func (r *Runner) Close() {
	if r.wc != nil {
		if err := r.wc.Close(); err != nil {
			r.logger.Warn("closing webclient", logging.Field{Key: "error", Value: err.Error()})
		}
	}
}
