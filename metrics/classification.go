// Package metrics evaluates binary classification results: the confusion
// matrix and its derived metrics with well-defined degenerate cases.
package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/featpipe/pkg/errors"
)

// ConfusionMatrix holds the four counts of a binary evaluation. It is
// immutable after construction.
type ConfusionMatrix struct {
	TP int // predicted 1, actual 1
	FP int // predicted 1, actual 0
	FN int // predicted 0, actual 1
	TN int // predicted 0, actual 0
}

// NewConfusionMatrix counts prediction outcomes against ground truth.
// Both slices must have the same length and contain only the labels 0
// and 1.
func NewConfusionMatrix(yTrue, yPred []int) (*ConfusionMatrix, error) {
	if len(yTrue) != len(yPred) {
		return nil, errors.NewDimensionError("ConfusionMatrix", len(yTrue), len(yPred), 0)
	}
	cm := &ConfusionMatrix{}
	for i := range yTrue {
		t, p := yTrue[i], yPred[i]
		if (t != 0 && t != 1) || (p != 0 && p != 1) {
			return nil, errors.NewValueError("ConfusionMatrix", "labels must be binary (0 or 1)")
		}
		switch {
		case p == 1 && t == 1:
			cm.TP++
		case p == 1 && t == 0:
			cm.FP++
		case p == 0 && t == 1:
			cm.FN++
		default:
			cm.TN++
		}
	}
	return cm, nil
}

// Total returns the number of evaluated samples.
func (cm *ConfusionMatrix) Total() int {
	return cm.TP + cm.FP + cm.FN + cm.TN
}

// Accuracy returns (TP+TN)/total. Evaluating zero samples is caller
// misuse and returns an error rather than a sentinel.
func (cm *ConfusionMatrix) Accuracy() (float64, error) {
	total := cm.Total()
	if total == 0 {
		return 0, errors.NewValueError("Accuracy", "confusion matrix is empty")
	}
	return float64(cm.TP+cm.TN) / float64(total), nil
}

// Precision returns TP/(TP+FP). With no positive predictions the metric
// is ill-defined; it is defined as 0 and an UndefinedMetricWarning is
// emitted.
func (cm *ConfusionMatrix) Precision() float64 {
	v, ok := cm.precision()
	if !ok {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted positive samples", 0))
		return 0
	}
	return v
}

// Recall returns TP/(TP+FN), defined as 0 (with an UndefinedMetricWarning)
// when there are no actual positive samples.
func (cm *ConfusionMatrix) Recall() float64 {
	v, ok := cm.recall()
	if !ok {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", "no actual positive samples", 0))
		return 0
	}
	return v
}

// F1 returns the harmonic mean of precision and recall, defined as 0
// (with an UndefinedMetricWarning) when precision+recall is 0. Undefined
// precision or recall counts as 0 here without emitting its own warning.
func (cm *ConfusionMatrix) F1() float64 {
	p, _ := cm.precision()
	r, _ := cm.recall()
	if p+r == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("f1", "precision and recall are both zero", 0))
		return 0
	}
	return 2 * p * r / (p + r)
}

func (cm *ConfusionMatrix) precision() (float64, bool) {
	if cm.TP+cm.FP == 0 {
		return 0, false
	}
	return float64(cm.TP) / float64(cm.TP+cm.FP), true
}

func (cm *ConfusionMatrix) recall() (float64, bool) {
	if cm.TP+cm.FN == 0 {
		return 0, false
	}
	return float64(cm.TP) / float64(cm.TP+cm.FN), true
}

// Accuracy computes classification accuracy from 0/1 label vectors.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	cm, err := matrixFromVecs("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return cm.Accuracy()
}

// PrecisionScore computes precision from 0/1 label vectors.
func PrecisionScore(yTrue, yPred *mat.VecDense) (float64, error) {
	cm, err := matrixFromVecs("PrecisionScore", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return cm.Precision(), nil
}

// RecallScore computes recall from 0/1 label vectors.
func RecallScore(yTrue, yPred *mat.VecDense) (float64, error) {
	cm, err := matrixFromVecs("RecallScore", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return cm.Recall(), nil
}

// F1Score computes the F1 score from 0/1 label vectors.
func F1Score(yTrue, yPred *mat.VecDense) (float64, error) {
	cm, err := matrixFromVecs("F1Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return cm.F1(), nil
}

func matrixFromVecs(op string, yTrue, yPred *mat.VecDense) (*ConfusionMatrix, error) {
	if yTrue == nil || yTrue.Len() == 0 {
		return nil, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != yTrue.Len() {
		return nil, errors.NewDimensionError(op, yTrue.Len(), yPred.Len(), 0)
	}
	t, err := vecToLabels(op, yTrue)
	if err != nil {
		return nil, err
	}
	p, err := vecToLabels(op, yPred)
	if err != nil {
		return nil, err
	}
	return NewConfusionMatrix(t, p)
}

func vecToLabels(op string, v *mat.VecDense) ([]int, error) {
	out := make([]int, v.Len())
	for i := 0; i < v.Len(); i++ {
		switch v.AtVec(i) {
		case 0:
			out[i] = 0
		case 1:
			out[i] = 1
		default:
			return nil, errors.NewValueError(op, "labels must be binary (0 or 1)")
		}
	}
	return out, nil
}
