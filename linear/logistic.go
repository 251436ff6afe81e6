// Package linear implements the classifier capability consumed by the run
// orchestration: binary logistic regression fitted by batch gradient
// descent.
package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/featpipe/core/model"
	"github.com/YuminosukeSato/featpipe/core/parallel"
	"github.com/YuminosukeSato/featpipe/pkg/errors"
)

// LogisticRegression is a binary classifier with a sigmoid decision
// function and a 0.5 decision threshold.
type LogisticRegression struct {
	model.BaseEstimator

	// Weights holds the fitted coefficients, one per feature.
	Weights []float64

	// Bias holds the fitted intercept.
	Bias float64

	learningRate float64
	maxIter      int
	tol          float64
}

var _ model.Classifier = (*LogisticRegression)(nil)

// Option configures LogisticRegression.
type Option func(*LogisticRegression)

// WithLearningRate sets the gradient-descent step size.
func WithLearningRate(lr float64) Option {
	return func(m *LogisticRegression) {
		m.learningRate = lr
	}
}

// WithMaxIter sets the iteration budget.
func WithMaxIter(n int) Option {
	return func(m *LogisticRegression) {
		m.maxIter = n
	}
}

// WithTol sets the loss-delta convergence tolerance.
func WithTol(tol float64) Option {
	return func(m *LogisticRegression) {
		m.tol = tol
	}
}

// NewLogisticRegression creates a classifier with default hyperparameters.
func NewLogisticRegression(opts ...Option) *LogisticRegression {
	m := &LogisticRegression{
		learningRate: 0.1,
		maxIter:      1000,
		tol:          1e-6,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fit trains the model on a feature matrix and binary labels by batch
// gradient descent on the log loss. A ConvergenceWarning is emitted when
// the iteration budget runs out before the tolerance is met.
func (m *LogisticRegression) Fit(x mat.Matrix, y []int) error {
	rows, cols := x.Dims()
	if rows == 0 || cols == 0 {
		return errors.WithStack(errors.ErrEmptyData)
	}
	if len(y) != rows {
		return errors.NewDimensionError("LogisticRegression.Fit", rows, len(y), 0)
	}
	targets := make([]float64, rows)
	for i, label := range y {
		if label != 0 && label != 1 {
			return errors.NewValueError("LogisticRegression.Fit", "labels must be binary (0 or 1)")
		}
		targets[i] = float64(label)
	}

	weights := make([]float64, cols)
	bias := 0.0
	prevLoss := math.Inf(1)
	converged := false

	probs := make([]float64, rows)
	grad := make([]float64, cols)

	for iter := 0; iter < m.maxIter; iter++ {
		loss := 0.0
		for i := 0; i < rows; i++ {
			z := bias
			for j := 0; j < cols; j++ {
				z += weights[j] * x.At(i, j)
			}
			probs[i] = sigmoid(z)
			if targets[i] == 1 {
				loss -= errors.StabilizeLog(probs[i])
			} else {
				loss -= errors.StabilizeLog(1 - probs[i])
			}
		}
		loss /= float64(rows)
		if err := errors.CheckScalar("logistic loss", loss, iter); err != nil {
			return err
		}

		for j := range grad {
			grad[j] = 0
		}
		gradBias := 0.0
		for i := 0; i < rows; i++ {
			diff := probs[i] - targets[i]
			gradBias += diff
			for j := 0; j < cols; j++ {
				grad[j] += diff * x.At(i, j)
			}
		}
		for j := 0; j < cols; j++ {
			weights[j] -= m.learningRate * grad[j] / float64(rows)
		}
		bias -= m.learningRate * gradBias / float64(rows)

		if math.Abs(prevLoss-loss) < m.tol {
			converged = true
			break
		}
		prevLoss = loss
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("LogisticRegression", m.maxIter))
	}

	m.Weights = weights
	m.Bias = bias
	m.SetFitted()
	return nil
}

// scoreParallelThreshold is the row count below which scoring runs inline;
// the goroutine fan-out costs more than it saves on small tables.
const scoreParallelThreshold = 256

// PredictProba returns the positive-class probability for each row of x.
// Rows are scored in parallel across CPU cores once the table is large
// enough to pay for the fan-out.
func (m *LogisticRegression) PredictProba(x mat.Matrix) ([]float64, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "PredictProba")
	}
	rows, cols := x.Dims()
	if cols != len(m.Weights) {
		return nil, errors.NewDimensionError("LogisticRegression.PredictProba", len(m.Weights), cols, 1)
	}

	out := make([]float64, rows)
	parallel.ParallelizeWithThreshold(rows, scoreParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			z := m.Bias
			for j := 0; j < cols; j++ {
				z += m.Weights[j] * x.At(i, j)
			}
			out[i] = sigmoid(z)
		}
	})
	return out, nil
}

// Predict returns the 0/1 label for each row of x.
func (m *LogisticRegression) Predict(x mat.Matrix) ([]int, error) {
	probs, err := m.PredictProba(x)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(probs))
	for i, p := range probs {
		if p >= 0.5 {
			out[i] = 1
		}
	}
	return out, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + errors.StabilizeExp(-z))
}
