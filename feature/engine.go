package feature

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/YuminosukeSato/featpipe/core/model"
	"github.com/YuminosukeSato/featpipe/core/parallel"
	"github.com/YuminosukeSato/featpipe/dataframe"
	"github.com/YuminosukeSato/featpipe/pkg/errors"
	"github.com/YuminosukeSato/featpipe/pkg/log"
)

// Strategy selects how the engine executes a step sequence. All strategies
// produce the same table, column for column and bit for bit; only
// wall-clock behavior differs.
type Strategy int

const (
	// Sequential applies each step in declared order to the progressively
	// augmented table. A later step may reference any earlier output.
	Sequential Strategy = iota

	// ParallelBatch runs every independent step concurrently (one
	// goroutine each) against the base table snapshot, merges the results
	// in declared order, then runs dependent steps sequentially.
	ParallelBatch

	// ParallelPool is ParallelBatch with a fixed-size worker pool instead
	// of a goroutine per step. Same ordering and merge contract.
	ParallelPool
)

// String returns the strategy name used in logs.
func (s Strategy) String() string {
	switch s {
	case Sequential:
		return "sequential"
	case ParallelBatch:
		return "parallel_batch"
	case ParallelPool:
		return "parallel_pool"
	default:
		return "unknown"
	}
}

// Engine applies an ordered sequence of feature steps to a table. An
// engine is stateless across Apply calls and safe for concurrent use.
type Engine struct {
	steps    []Step
	strategy Strategy
	workers  int
}

var _ model.TableTransformer = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithStrategy sets the execution strategy. Default: Sequential.
func WithStrategy(s Strategy) Option {
	return func(e *Engine) {
		e.strategy = s
	}
}

// WithWorkers sets the pool size for ParallelPool. Non-positive means the
// CPU count.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// NewEngine validates the step sequence and creates an engine. Validation
// is fail-fast: duplicate feature names or malformed step parameters are
// rejected here, before any computation can begin.
func NewEngine(steps []Step, opts ...Option) (*Engine, error) {
	if err := validateSteps(steps); err != nil {
		return nil, err
	}
	e := &Engine{steps: steps}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func validateSteps(steps []Step) error {
	names := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		name := step.FeatureName()
		if name == "" {
			return errors.NewConfigurationError("name", "feature name must not be empty", nil)
		}
		if _, dup := names[name]; dup {
			return errors.NewConfigurationError("name", "duplicate feature name", name)
		}
		names[name] = struct{}{}

		refs := step.Refs()
		if len(refs) == 0 {
			return errors.NewConfigurationError("column", "step references no columns", name)
		}
		for _, ref := range refs {
			if ref == "" {
				return errors.NewConfigurationError("column", "referenced column name must not be empty", name)
			}
		}
		if t, ok := step.(Threshold); ok {
			if t.Comparator != Gt && t.Comparator != Lt {
				return errors.NewConfigurationError("comparator", "must be \"gt\" or \"lt\"", string(t.Comparator))
			}
			if math.IsNaN(t.Value) {
				return errors.NewConfigurationError("threshold", "must not be NaN", t.Value)
			}
		}
	}
	return nil
}

// Steps returns the declared step sequence.
func (e *Engine) Steps() []Step { return e.steps }

// Apply runs the step sequence against df and returns the augmented table:
// the original columns followed by every derived column in declared order.
// On any step failure no table is returned; for parallel strategies the
// error of the lowest-declared-index failing step is surfaced.
func (e *Engine) Apply(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	start := time.Now()

	var out *dataframe.DataFrame
	var err error
	switch e.strategy {
	case Sequential:
		out, err = e.applySequential(df)
	default:
		out, err = e.applyParallel(df)
	}
	if err != nil {
		return nil, err
	}

	slog.Debug("feature transformation complete",
		log.ComponentKey, "feature",
		log.OperationKey, "apply",
		log.StrategyKey, e.strategy.String(),
		log.RowsKey, out.NumRows(),
		log.ColsKey, out.NumCols(),
		log.FeaturesKey, out.NumCols()-df.NumCols(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (e *Engine) applySequential(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	cur := df
	for _, step := range e.steps {
		cols, err := computeStep(step, cur)
		if err != nil {
			return nil, err
		}
		cur, err = cur.WithColumns(cols...)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

func (e *Engine) applyParallel(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	plan := Plan(e.steps, df.ColumnNames())

	// Fan out the independent tier over the read-only base snapshot. Each
	// worker writes only its own slot; the merge below is the single place
	// new table state is constructed.
	results := make([][]*dataframe.Series, len(e.steps))
	stepErrs := make([]error, len(e.steps))

	run := func(i int) {
		cols, err := computeStep(e.steps[i], df)
		if err != nil {
			stepErrs[i] = err
			return
		}
		results[i] = cols
	}

	switch e.strategy {
	case ParallelPool:
		parallel.WorkerPool(e.workers, len(plan.Independent), func(k int) {
			run(plan.Independent[k])
		})
	default:
		var wg sync.WaitGroup
		for _, i := range plan.Independent {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				run(i)
			}(i)
		}
		wg.Wait()
	}

	// Failures surface deterministically: the lowest declared index wins,
	// regardless of completion order.
	for _, err := range stepErrs {
		if err != nil {
			return nil, err
		}
	}

	// Merge in declared order, computing each dependent step against the
	// table state its declaration position would have seen under
	// Sequential. Column order and reference visibility are therefore
	// independent of tier membership and completion order, which is what
	// makes the parallel strategies observably equal to Sequential.
	dependent := make(map[int]struct{}, len(plan.Dependent))
	for _, i := range plan.Dependent {
		dependent[i] = struct{}{}
	}
	cur := df
	for i, step := range e.steps {
		cols := results[i]
		if _, ok := dependent[i]; ok {
			var err error
			cols, err = computeStep(step, cur)
			if err != nil {
				return nil, err
			}
		}
		var err error
		cur, err = cur.WithColumns(cols...)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// computeStep runs a single step with panic containment, so a buggy step
// surfaces as an error on the Apply call rather than tearing down the
// worker goroutine.
func computeStep(step Step, df *dataframe.DataFrame) (cols []*dataframe.Series, err error) {
	defer errors.Recover(&err, "feature step "+step.FeatureName())
	return step.Compute(df)
}
