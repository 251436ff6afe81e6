package dataframe

import (
	"strconv"

	"github.com/YuminosukeSato/featpipe/pkg/errors"
)

// DType identifies the scalar type of a series.
type DType int

const (
	// Float64 is a 64-bit floating point column.
	Float64 DType = iota
	// Bool is a boolean column.
	Bool
	// String is a string (or categorical) column.
	String
)

// String returns the type name.
func (t DType) String() string {
	switch t {
	case Float64:
		return "float64"
	case Bool:
		return "bool"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Series is a named, typed, nullable column. A series is immutable by
// convention: once it is part of a DataFrame it is never written to again,
// which is what allows parallel feature computation over a shared snapshot
// without locks.
type Series struct {
	name  string
	dtype DType

	floats []float64
	bools  []bool
	strs   []string

	// valid[i] is false when row i is null.
	valid []bool
}

// NewFloat64Series creates a float64 series with no nulls.
func NewFloat64Series(name string, values []float64) *Series {
	return NewNullableFloat64Series(name, values, nil)
}

// NewNullableFloat64Series creates a float64 series. A nil valid mask means
// every row is valid; otherwise valid must have the same length as values.
func NewNullableFloat64Series(name string, values []float64, valid []bool) *Series {
	return &Series{name: name, dtype: Float64, floats: values, valid: normalizeMask(len(values), valid)}
}

// NewBoolSeries creates a bool series with no nulls.
func NewBoolSeries(name string, values []bool) *Series {
	return NewNullableBoolSeries(name, values, nil)
}

// NewNullableBoolSeries creates a bool series with the given validity mask.
func NewNullableBoolSeries(name string, values []bool, valid []bool) *Series {
	return &Series{name: name, dtype: Bool, bools: values, valid: normalizeMask(len(values), valid)}
}

// NewStringSeries creates a string series with no nulls.
func NewStringSeries(name string, values []string) *Series {
	return NewNullableStringSeries(name, values, nil)
}

// NewNullableStringSeries creates a string series with the given validity mask.
func NewNullableStringSeries(name string, values []string, valid []bool) *Series {
	return &Series{name: name, dtype: String, strs: values, valid: normalizeMask(len(values), valid)}
}

func normalizeMask(n int, valid []bool) []bool {
	if valid != nil {
		return valid
	}
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}
	return mask
}

// Name returns the column name.
func (s *Series) Name() string { return s.name }

// DType returns the scalar type.
func (s *Series) DType() DType { return s.dtype }

// Len returns the number of rows.
func (s *Series) Len() int { return len(s.valid) }

// IsNull reports whether row i is null.
func (s *Series) IsNull(i int) bool { return !s.valid[i] }

// Float returns the float64 value at row i. Only valid for Float64 series
// on non-null rows.
func (s *Series) Float(i int) float64 { return s.floats[i] }

// Bool returns the bool value at row i. Only valid for Bool series on
// non-null rows.
func (s *Series) Bool(i int) bool { return s.bools[i] }

// Str returns the string value at row i. Only valid for String series on
// non-null rows.
func (s *Series) Str(i int) string { return s.strs[i] }

// Rename returns a copy of the series under a new name, sharing the
// underlying data.
func (s *Series) Rename(name string) *Series {
	clone := *s
	clone.name = name
	return &clone
}

// FormatFloat renders a float the way series values are formatted in
// category names, group keys and CSV output.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ValueString formats the value at row i for category naming, group keys
// and CSV output. Null rows format as the empty string.
func (s *Series) ValueString(i int) string {
	if s.IsNull(i) {
		return ""
	}
	switch s.dtype {
	case Float64:
		return FormatFloat(s.floats[i])
	case Bool:
		return strconv.FormatBool(s.bools[i])
	default:
		return s.strs[i]
	}
}

// FloatAt returns the row as a float64 together with its validity. Bool
// rows convert to 0/1. String series are not numeric.
func (s *Series) FloatAt(i int) (float64, bool, error) {
	switch s.dtype {
	case Float64:
		return s.floats[i], s.valid[i], nil
	case Bool:
		v := 0.0
		if s.bools[i] {
			v = 1.0
		}
		return v, s.valid[i], nil
	default:
		return 0, false, errors.NewComputationError("", s.name, "string column is not numeric")
	}
}

// Equal reports whether two series have identical name, type, validity and
// values. Float comparison is exact: the engine's strategy-equivalence
// guarantee is bit-level.
func (s *Series) Equal(other *Series) bool {
	if other == nil || s.name != other.name || s.dtype != other.dtype || s.Len() != other.Len() {
		return false
	}
	for i := 0; i < s.Len(); i++ {
		if s.valid[i] != other.valid[i] {
			return false
		}
		if !s.valid[i] {
			continue
		}
		switch s.dtype {
		case Float64:
			if s.floats[i] != other.floats[i] {
				return false
			}
		case Bool:
			if s.bools[i] != other.bools[i] {
				return false
			}
		case String:
			if s.strs[i] != other.strs[i] {
				return false
			}
		}
	}
	return true
}

// FillNull returns a Float64 copy of a numeric series with null rows
// replaced by the given value. Used at the classifier boundary, where a
// matrix cell cannot be null.
func (s *Series) FillNull(replacement float64) (*Series, error) {
	out := make([]float64, s.Len())
	for i := range out {
		v, valid, err := s.FloatAt(i)
		if err != nil {
			return nil, err
		}
		if valid {
			out[i] = v
		} else {
			out[i] = replacement
		}
	}
	return NewFloat64Series(s.name, out), nil
}

// take returns a new series containing the given rows, in order.
func (s *Series) take(idx []int) *Series {
	valid := make([]bool, len(idx))
	out := &Series{name: s.name, dtype: s.dtype, valid: valid}
	switch s.dtype {
	case Float64:
		out.floats = make([]float64, len(idx))
		for k, i := range idx {
			out.floats[k] = s.floats[i]
			valid[k] = s.valid[i]
		}
	case Bool:
		out.bools = make([]bool, len(idx))
		for k, i := range idx {
			out.bools[k] = s.bools[i]
			valid[k] = s.valid[i]
		}
	case String:
		out.strs = make([]string, len(idx))
		for k, i := range idx {
			out.strs[k] = s.strs[i]
			valid[k] = s.valid[i]
		}
	}
	return out
}
