// Package preprocessing implements target preparation for the classifier:
// deterministic label encoding of a categorical column.
package preprocessing

import (
	"sort"

	"github.com/YuminosukeSato/featpipe/core/model"
	"github.com/YuminosukeSato/featpipe/dataframe"
	"github.com/YuminosukeSato/featpipe/pkg/errors"
)

// NullPolicy selects how a null target value is handled during encoding.
type NullPolicy int

const (
	// FailOnNull aborts the encode on the first null target value. This is
	// the default: silently dropping rows changes the dataset size in a
	// way callers rarely expect.
	FailOnNull NullPolicy = iota

	// DropNullRows excludes null-valued rows from the encoded output.
	DropNullRows
)

// LabelEncoder maps a categorical column to integer codes. Codes are
// assigned by sorting the distinct non-null values (lexicographic for
// strings, ascending for numerics, false before true for bools) and
// numbering from 0, so the mapping is a pure function of the distinct
// value set, not of row order.
type LabelEncoder struct {
	model.BaseEstimator

	policy  NullPolicy
	classes []string
	codes   map[string]int
}

// EncoderOption configures a LabelEncoder.
type EncoderOption func(*LabelEncoder)

// WithNullPolicy sets the null handling policy.
func WithNullPolicy(p NullPolicy) EncoderOption {
	return func(le *LabelEncoder) {
		le.policy = p
	}
}

// NewLabelEncoder creates an encoder with the FailOnNull policy.
func NewLabelEncoder(opts ...EncoderOption) *LabelEncoder {
	le := &LabelEncoder{policy: FailOnNull}
	for _, opt := range opts {
		opt(le)
	}
	return le
}

// Fit derives the value-to-code mapping from the column's distinct
// non-null values.
func (le *LabelEncoder) Fit(s *dataframe.Series) error {
	classes := distinctSorted(s)
	le.classes = classes
	le.codes = make(map[string]int, len(classes))
	for code, v := range classes {
		le.codes[v] = code
	}
	le.SetFitted()
	return nil
}

// Classes returns the encoded values in code order. Index i holds the
// value encoded as i.
func (le *LabelEncoder) Classes() []string {
	return append([]string(nil), le.classes...)
}

// Transform encodes the column. It returns one code per kept row, and the
// kept row indices: all rows under FailOnNull (which errors on the first
// null), nulls excluded under DropNullRows. A non-null value absent from
// the fitted mapping is an EncodingError.
func (le *LabelEncoder) Transform(s *dataframe.Series) (codes []int, kept []int, err error) {
	if !le.IsFitted() {
		return nil, nil, errors.NewNotFittedError("LabelEncoder", "Transform")
	}

	for i := 0; i < s.Len(); i++ {
		if s.IsNull(i) {
			if le.policy == FailOnNull {
				return nil, nil, errors.NewEncodingError(s.Name(), i, "null target value (policy: fail-fast)")
			}
			continue
		}
		code, ok := le.codes[s.ValueString(i)]
		if !ok {
			return nil, nil, errors.NewEncodingError(s.Name(), i, "value "+s.ValueString(i)+" was not seen during Fit")
		}
		codes = append(codes, code)
		kept = append(kept, i)
	}
	return codes, kept, nil
}

// FitTransform fits the mapping on s and encodes it in one call.
func (le *LabelEncoder) FitTransform(s *dataframe.Series) ([]int, []int, error) {
	if err := le.Fit(s); err != nil {
		return nil, nil, err
	}
	return le.Transform(s)
}

// distinctSorted returns the distinct non-null values in deterministic
// code order: ascending for numeric columns, lexicographic otherwise.
func distinctSorted(s *dataframe.Series) []string {
	if s.DType() == dataframe.Float64 {
		seen := make(map[float64]struct{})
		for i := 0; i < s.Len(); i++ {
			if !s.IsNull(i) {
				seen[s.Float(i)] = struct{}{}
			}
		}
		nums := make([]float64, 0, len(seen))
		for v := range seen {
			nums = append(nums, v)
		}
		sort.Float64s(nums)
		out := make([]string, len(nums))
		for i, v := range nums {
			out[i] = dataframe.FormatFloat(v)
		}
		return out
	}

	seen := make(map[string]struct{})
	for i := 0; i < s.Len(); i++ {
		if !s.IsNull(i) {
			seen[s.ValueString(i)] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
