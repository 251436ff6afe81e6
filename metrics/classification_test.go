package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/featpipe/pkg/errors"
)

// captureWarnings routes warnings into a slice for the duration of a test.
func captureWarnings(t *testing.T) *[]error {
	t.Helper()
	var captured []error
	errors.SetWarningHandler(func(w error) {
		captured = append(captured, w)
	})
	t.Cleanup(func() {
		errors.SetWarningHandler(func(w error) {})
	})
	return &captured
}

func TestConfusionMatrixCounts(t *testing.T) {
	yTrue := []int{1, 0, 0, 1, 1}
	yPred := []int{1, 1, 0, 0, 1}

	cm, err := NewConfusionMatrix(yTrue, yPred)
	require.NoError(t, err)

	assert.Equal(t, 2, cm.TP)
	assert.Equal(t, 1, cm.FP)
	assert.Equal(t, 1, cm.FN)
	assert.Equal(t, 1, cm.TN)
	assert.Equal(t, 5, cm.Total())

	acc, err := cm.Accuracy()
	require.NoError(t, err)
	assert.InDelta(t, 0.6, acc, 1e-12)
	assert.InDelta(t, 2.0/3.0, cm.Precision(), 1e-12)
	assert.InDelta(t, 2.0/3.0, cm.Recall(), 1e-12)
	assert.InDelta(t, 2.0/3.0, cm.F1(), 1e-12)
}

func TestConfusionMatrixValidation(t *testing.T) {
	_, err := NewConfusionMatrix([]int{1, 0}, []int{1})
	require.Error(t, err)
	var dim *errors.DimensionError
	require.True(t, errors.As(err, &dim))

	_, err = NewConfusionMatrix([]int{2}, []int{1})
	require.Error(t, err)
	var val *errors.ValueError
	require.True(t, errors.As(err, &val))
}

func TestUndefinedMetrics(t *testing.T) {
	tests := []struct {
		name       string
		cm         ConfusionMatrix
		metric     func(cm *ConfusionMatrix) float64
		wantMetric string
	}{
		{
			name:       "precision with no predicted positives",
			cm:         ConfusionMatrix{FN: 2, TN: 3},
			metric:     (*ConfusionMatrix).Precision,
			wantMetric: "precision",
		},
		{
			name:       "recall with no actual positives",
			cm:         ConfusionMatrix{FP: 2, TN: 3},
			metric:     (*ConfusionMatrix).Recall,
			wantMetric: "recall",
		},
		{
			name:       "f1 with zero precision and recall",
			cm:         ConfusionMatrix{FP: 1, FN: 1, TN: 3},
			metric:     (*ConfusionMatrix).F1,
			wantMetric: "f1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captured := captureWarnings(t)

			assert.Equal(t, 0.0, tt.metric(&tt.cm))

			require.Len(t, *captured, 1, "exactly one warning per call")
			var w *errors.UndefinedMetricWarning
			require.True(t, errors.As((*captured)[0], &w))
			assert.Equal(t, tt.wantMetric, w.Metric)
			assert.Equal(t, 0.0, w.Result)
		})
	}
}

func TestAccuracyEmptyMatrix(t *testing.T) {
	cm := &ConfusionMatrix{}
	_, err := cm.Accuracy()
	require.Error(t, err, "empty evaluation is caller misuse, not a warning")
}

func TestDefinedMetricsEmitNoWarning(t *testing.T) {
	captured := captureWarnings(t)

	cm := &ConfusionMatrix{TP: 3, FP: 1, FN: 1, TN: 5}
	cm.Precision()
	cm.Recall()
	cm.F1()

	assert.Empty(t, *captured)
}

func TestVectorScores(t *testing.T) {
	yTrue := mat.NewVecDense(5, []float64{1, 0, 0, 1, 1})
	yPred := mat.NewVecDense(5, []float64{1, 1, 0, 0, 1})

	acc, err := Accuracy(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, acc, 1e-12)

	p, err := PrecisionScore(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, p, 1e-12)

	r, err := RecallScore(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, r, 1e-12)

	f1, err := F1Score(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, f1, 1e-12)
}

func TestVectorScoreValidation(t *testing.T) {
	_, err := Accuracy(mat.NewVecDense(1, []float64{0.5}), mat.NewVecDense(1, []float64{1}))
	assert.Error(t, err, "non-binary value is rejected")

	_, err = Accuracy(mat.NewVecDense(2, []float64{1, 0}), mat.NewVecDense(1, []float64{1}))
	assert.Error(t, err, "length mismatch is rejected")
}
