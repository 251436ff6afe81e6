// Package model defines the estimator interfaces shared across the
// pipeline: table transformation, label classification, and the fitted
// state common to every estimator.
package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/featpipe/dataframe"
)

// TableTransformer turns one table into another. Implementations never
// mutate the input table; they return a new one.
type TableTransformer interface {
	// Apply transforms the table.
	Apply(df *dataframe.DataFrame) (*dataframe.DataFrame, error)
}

// Classifier is the opaque fit/predict capability consumed by the run
// orchestration. Labels are binary integer codes.
type Classifier interface {
	// Fit trains the model on a feature matrix and a label vector.
	Fit(x mat.Matrix, y []int) error

	// Predict returns one predicted label per row of x.
	Predict(x mat.Matrix) ([]int, error)
}
