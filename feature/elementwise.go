package feature

import (
	"math"

	"github.com/YuminosukeSato/featpipe/dataframe"
	"github.com/YuminosukeSato/featpipe/pkg/errors"
)

// Ratio emits the elementwise quotient Numerator/Denominator. A row where
// the denominator is 0, or where either operand is null, yields null. A
// zero denominator is a per-row condition, never a pipeline error.
type Ratio struct {
	Name        string
	Numerator   string
	Denominator string
}

func (r Ratio) FeatureName() string { return r.Name }

func (r Ratio) Refs() []string { return []string{r.Numerator, r.Denominator} }

func (r Ratio) Compute(df *dataframe.DataFrame) ([]*dataframe.Series, error) {
	if err := checkRefs(df, r.Refs()); err != nil {
		return nil, err
	}
	num, err := numericColumn(df, r.Name, r.Numerator)
	if err != nil {
		return nil, err
	}
	den, err := numericColumn(df, r.Name, r.Denominator)
	if err != nil {
		return nil, err
	}

	rows := df.NumRows()
	out := make([]float64, rows)
	valid := make([]bool, rows)
	for i := 0; i < rows; i++ {
		if num.IsNull(i) || den.IsNull(i) {
			continue
		}
		d := den.Float(i)
		if d == 0 {
			continue
		}
		out[i] = num.Float(i) / d
		valid[i] = true
	}
	return []*dataframe.Series{dataframe.NewNullableFloat64Series(Prefix+r.Name, out, valid)}, nil
}

// Comparator selects the Threshold comparison direction.
type Comparator string

const (
	// Gt marks rows strictly greater than the threshold.
	Gt Comparator = "gt"
	// Lt marks rows strictly less than the threshold.
	Lt Comparator = "lt"
)

// Threshold emits an elementwise boolean comparison of Column against
// Value. A null input row yields a null output row (three-valued logic).
type Threshold struct {
	Name       string
	Column     string
	Value      float64
	Comparator Comparator
}

func (t Threshold) FeatureName() string { return t.Name }

func (t Threshold) Refs() []string { return []string{t.Column} }

func (t Threshold) Compute(df *dataframe.DataFrame) ([]*dataframe.Series, error) {
	if t.Comparator != Gt && t.Comparator != Lt {
		return nil, errors.NewConfigurationError("comparator", "must be \"gt\" or \"lt\"", string(t.Comparator))
	}
	if math.IsNaN(t.Value) {
		return nil, errors.NewConfigurationError("threshold", "must not be NaN", t.Value)
	}
	if err := checkRefs(df, t.Refs()); err != nil {
		return nil, err
	}
	src, err := numericColumn(df, t.Name, t.Column)
	if err != nil {
		return nil, err
	}

	rows := df.NumRows()
	out := make([]bool, rows)
	valid := make([]bool, rows)
	for i := 0; i < rows; i++ {
		if src.IsNull(i) {
			continue
		}
		if t.Comparator == Gt {
			out[i] = src.Float(i) > t.Value
		} else {
			out[i] = src.Float(i) < t.Value
		}
		valid[i] = true
	}
	return []*dataframe.Series{dataframe.NewNullableBoolSeries(Prefix+t.Name, out, valid)}, nil
}

func numericColumn(df *dataframe.DataFrame, step, name string) (*dataframe.Series, error) {
	s, err := df.Column(name)
	if err != nil {
		return nil, err
	}
	if s.DType() != dataframe.Float64 {
		return nil, errors.NewComputationError(step, name,
			"requires a numeric column, got "+s.DType().String())
	}
	return s, nil
}
