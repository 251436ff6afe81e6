package linear

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/featpipe/pkg/errors"
)

// separableData is a linearly separable fixture: label 1 iff x0 > 0.
func separableData() (*mat.Dense, []int) {
	x := mat.NewDense(8, 2, []float64{
		-2, 1,
		-1.5, -1,
		-1, 0.5,
		-0.5, -0.5,
		0.5, 1,
		1, -1,
		1.5, 0.5,
		2, -0.5,
	})
	y := []int{0, 0, 0, 0, 1, 1, 1, 1}
	return x, y
}

func TestLogisticRegressionFitPredict(t *testing.T) {
	x, y := separableData()

	clf := NewLogisticRegression(WithMaxIter(5000))
	require.NoError(t, clf.Fit(x, y))
	require.True(t, clf.IsFitted())
	require.Len(t, clf.Weights, 2)

	preds, err := clf.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, y, preds, "separable training data must be classified perfectly")

	probs, err := clf.PredictProba(x)
	require.NoError(t, err)
	for i, p := range probs {
		assert.GreaterOrEqual(t, p, 0.0, "row %d", i)
		assert.LessOrEqual(t, p, 1.0, "row %d", i)
	}
	assert.Greater(t, probs[7], probs[0], "larger x0 means larger positive probability")
}

func TestLogisticRegressionPredictLargeInput(t *testing.T) {
	x, y := separableData()
	clf := NewLogisticRegression(WithMaxIter(5000))
	require.NoError(t, clf.Fit(x, y))

	// Well past scoreParallelThreshold, so scoring fans out across cores;
	// results must match the per-row decision rule regardless.
	const rows = 1000
	big := mat.NewDense(rows, 2, nil)
	want := make([]int, rows)
	for i := 0; i < rows; i++ {
		x0 := -2.0
		if i%2 == 0 {
			x0 = 2.0
			want[i] = 1
		}
		big.Set(i, 0, x0)
		big.Set(i, 1, float64(i%3)-1)
	}

	preds, err := clf.Predict(big)
	require.NoError(t, err)
	assert.Equal(t, want, preds)
}

func TestLogisticRegressionNotFitted(t *testing.T) {
	clf := NewLogisticRegression()
	_, err := clf.Predict(mat.NewDense(1, 2, []float64{1, 2}))
	require.Error(t, err)
	var nf *errors.NotFittedError
	require.True(t, errors.As(err, &nf))
}

func TestLogisticRegressionValidation(t *testing.T) {
	x, y := separableData()

	t.Run("label vector length mismatch", func(t *testing.T) {
		clf := NewLogisticRegression()
		err := clf.Fit(x, y[:3])
		require.Error(t, err)
		var dim *errors.DimensionError
		require.True(t, errors.As(err, &dim))
	})

	t.Run("non-binary labels", func(t *testing.T) {
		clf := NewLogisticRegression()
		bad := append([]int(nil), y...)
		bad[0] = 2
		err := clf.Fit(x, bad)
		require.Error(t, err)
		var val *errors.ValueError
		require.True(t, errors.As(err, &val))
	})

	t.Run("predict feature count mismatch", func(t *testing.T) {
		clf := NewLogisticRegression(WithMaxIter(50))
		require.NoError(t, clf.Fit(x, y))
		_, err := clf.Predict(mat.NewDense(1, 3, []float64{1, 2, 3}))
		require.Error(t, err)
		var dim *errors.DimensionError
		require.True(t, errors.As(err, &dim))
	})

	t.Run("empty matrix", func(t *testing.T) {
		clf := NewLogisticRegression()
		err := clf.Fit(&mat.Dense{}, nil)
		require.Error(t, err)
	})
}

func TestLogisticRegressionConvergenceWarning(t *testing.T) {
	var captured []error
	errors.SetWarningHandler(func(w error) {
		captured = append(captured, w)
	})
	t.Cleanup(func() {
		errors.SetWarningHandler(func(w error) {})
	})

	x, y := separableData()
	clf := NewLogisticRegression(WithMaxIter(2), WithTol(0))
	require.NoError(t, clf.Fit(x, y))

	require.Len(t, captured, 1)
	var w *errors.ConvergenceWarning
	require.True(t, errors.As(captured[0], &w))
	assert.Equal(t, "LogisticRegression", w.Algorithm)
	assert.Equal(t, 2, w.Iterations)
}
