package dataframe

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/featpipe/pkg/errors"
)

// ToMatrix converts the named columns (or every column when names is
// empty) into a dense row-major matrix for the classifier. Bool columns
// convert to 0/1. String columns and null values cannot be represented and
// produce a ComputationError naming the offending column.
func (df *DataFrame) ToMatrix(names ...string) (*mat.Dense, error) {
	if len(names) == 0 {
		names = df.ColumnNames()
	}
	if df.rows == 0 || len(names) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}

	cols := make([]*Series, len(names))
	for j, name := range names {
		s, err := df.Column(name)
		if err != nil {
			return nil, err
		}
		cols[j] = s
	}

	out := mat.NewDense(df.rows, len(names), nil)
	for j, s := range cols {
		if s.DType() == String {
			return nil, errors.NewComputationError("", s.Name(), "string column cannot be converted to a numeric matrix")
		}
		for i := 0; i < df.rows; i++ {
			v, valid, err := s.FloatAt(i)
			if err != nil {
				return nil, err
			}
			if !valid {
				return nil, errors.NewComputationError("", s.Name(), "null value cannot be converted to a numeric matrix")
			}
			out.Set(i, j, v)
		}
	}
	return out, nil
}
