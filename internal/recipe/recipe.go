// Package recipe defines recipes (ordered chains of configured operations)
// and the engine that runs them.
package recipe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avelline/ladle/internal/logging"
	"github.com/avelline/ladle/internal/ops"
	"github.com/avelline/ladle/internal/value"
)

// Step is one configured operation inside a recipe.
type Step struct {
	Op   string            `yaml:"op" json:"op"`
	Args map[string]string `yaml:"args,omitempty" json:"args,omitempty"`
}

// Recipe is an ordered chain of steps. The first step receives the caller's
// input as text; every later step receives the previous step's output.
type Recipe struct {
	Name  string `yaml:"name" json:"name"`
	Steps []Step `yaml:"steps" json:"steps"`
}

// Validate checks the recipe shape without touching the operation registry.
func (r Recipe) Validate() error {
	if len(r.Steps) == 0 {
		return errors.New("recipe has no steps")
	}
	for i, s := range r.Steps {
		if s.Op == "" {
			return fmt.Errorf("step %d has no operation name", i)
		}
	}
	return nil
}

// StepResult records one executed step. OutputType is the operation's
// declared output type re-read after the run, since some operations switch it
// based on an argument.
type StepResult struct {
	Index      int
	Op         string
	OutputType string
	Duration   time.Duration
	Err        error
}

// Engine runs recipes sequentially. Operations are constructed fresh per run
// so their mutable output-type metadata never leaks between runs.
type Engine struct {
	deps     ops.Deps
	logger   logging.Logger
	observer func(StepResult)
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver registers a callback invoked after every step, including the
// failing one. Used for live progress streaming.
func WithObserver(fn func(StepResult)) Option {
	return func(e *Engine) { e.observer = fn }
}

// NewEngine creates an Engine with the shared operation collaborators.
func NewEngine(deps ops.Deps, logger logging.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = logging.NewStdoutLogger("engine")
	}
	e := &Engine{deps: deps, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the recipe against input and returns the final value plus the
// per-step trail. On a step failure the trail covers the steps attempted and
// the error carries the step position; partial output is never returned.
func (e *Engine) Run(ctx context.Context, rec Recipe, input string) (value.Value, []StepResult, error) {
	if err := rec.Validate(); err != nil {
		return value.Value{}, nil, err
	}

	current := value.NewText(input)
	results := make([]StepResult, 0, len(rec.Steps))

	for i, step := range rec.Steps {
		if err := ctx.Err(); err != nil {
			return value.Value{}, results, err
		}

		op, err := ops.New(step.Op, e.deps)
		if err != nil {
			res := StepResult{Index: i, Op: step.Op, Err: err}
			results = append(results, res)
			e.notify(res)
			return value.Value{}, results, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}

		start := time.Now()
		out, err := op.Run(ctx, current, ops.Args(step.Args))
		res := StepResult{
			Index:      i,
			Op:         step.Op,
			OutputType: op.OutputType(),
			Duration:   time.Since(start),
			Err:        err,
		}
		results = append(results, res)
		e.notify(res)

		if err != nil {
			e.logger.Warn("step failed",
				logging.Field{Key: "step", Value: i},
				logging.Field{Key: "op", Value: step.Op},
				logging.Field{Key: "error", Value: err.Error()})
			return value.Value{}, results, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}

		e.logger.Debug("step finished",
			logging.Field{Key: "step", Value: i},
			logging.Field{Key: "op", Value: step.Op},
			logging.Field{Key: "output_type", Value: res.OutputType},
			logging.Field{Key: "duration", Value: res.Duration.String()})

		current = out
	}

	return current, results, nil
}

func (e *Engine) notify(res StepResult) {
	if e.observer != nil {
		e.observer(res)
	}
}
