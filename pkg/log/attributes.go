// Standard attribute keys for pipeline logging. Using these keys keeps run
// logs filterable across packages (e.g. every step completion logs
// "step.name" and "perf.duration_ms" with the same spelling).

package log

// Pipeline and step context.
const (
	// StepNameKey identifies a feature step by its declared name.
	StepNameKey = "step.name"

	// StepKindKey identifies the transformation kind.
	// Examples: "mean", "ratio", "ohe"
	StepKindKey = "step.kind"

	// StrategyKey identifies the execution strategy in use.
	// Values: "sequential", "parallel_batch", "parallel_pool"
	StrategyKey = "engine.strategy"

	// ComponentKey identifies the package performing the operation.
	// Examples: "feature", "preprocessing", "metrics"
	ComponentKey = "pipeline.component"

	// OperationKey specifies the operation being performed.
	// Standard values: "apply", "fit", "predict", "encode", "evaluate"
	OperationKey = "pipeline.operation"
)

// Data shape.
const (
	// RowsKey is the number of rows in the table being processed.
	RowsKey = "data.rows"

	// ColsKey is the number of columns in the table being processed.
	ColsKey = "data.cols"

	// FeaturesKey is the number of derived feature columns produced.
	FeaturesKey = "data.features"
)

// Performance.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// WorkersKey records the number of workers used by a parallel strategy.
	WorkersKey = "perf.workers"
)

// Evaluation results.
const (
	AccuracyKey  = "eval.accuracy"
	PrecisionKey = "eval.precision"
	RecallKey    = "eval.recall"
	F1Key        = "eval.f1"
)
