// Package dataset splits a table into disjoint train and test partitions.
package dataset

import (
	"math/rand"

	"github.com/YuminosukeSato/featpipe/dataframe"
	"github.com/YuminosukeSato/featpipe/pkg/errors"
)

// Split holds the two disjoint partitions of a table and the row indices
// (into the source table) that produced them. No row appears in both.
type Split struct {
	Train *dataframe.DataFrame
	Test  *dataframe.DataFrame

	TrainIndices []int
	TestIndices  []int
}

// TrainTestSplit partitions df by row. The permutation is derived from the
// given seed, so the same seed always yields the same split.
func TrainTestSplit(df *dataframe.DataFrame, testRatio float64, seed int64) (*Split, error) {
	if testRatio <= 0 || testRatio >= 1 {
		return nil, errors.NewValueError("TrainTestSplit", "test ratio must be in (0, 1)")
	}
	n := df.NumRows()
	if n == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n) // #nosec G404 -- reproducible split, not security
	nTest := int(float64(n) * testRatio)
	if nTest == 0 || nTest == n {
		// Failing here names the real cause; letting an empty partition
		// through would surface later as an opaque empty-data error.
		return nil, errors.NewValueError("TrainTestSplit",
			"test ratio leaves an empty partition for this row count; use more rows or a larger ratio")
	}

	testIdx := append([]int(nil), perm[:nTest]...)
	trainIdx := append([]int(nil), perm[nTest:]...)

	train, err := df.TakeRows(trainIdx)
	if err != nil {
		return nil, err
	}
	test, err := df.TakeRows(testIdx)
	if err != nil {
		return nil, err
	}
	return &Split{Train: train, Test: test, TrainIndices: trainIdx, TestIndices: testIdx}, nil
}

// TakeLabels selects the labels at the given row indices, in order.
func TakeLabels(labels []int, idx []int) ([]int, error) {
	out := make([]int, len(idx))
	for k, i := range idx {
		if i < 0 || i >= len(labels) {
			return nil, errors.NewValueError("TakeLabels", "row index out of range")
		}
		out[k] = labels[i]
	}
	return out, nil
}
