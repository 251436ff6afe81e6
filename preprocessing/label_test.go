package preprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/featpipe/dataframe"
	"github.com/YuminosukeSato/featpipe/pkg/errors"
)

func TestLabelEncoderFitTransform(t *testing.T) {
	s := dataframe.NewStringSeries("segment", []string{"gold", "silver", "gold", "bronze"})

	le := NewLabelEncoder()
	codes, kept, err := le.FitTransform(s)
	require.NoError(t, err)

	// Codes follow the sorted distinct values: bronze=0, gold=1, silver=2.
	assert.Equal(t, []string{"bronze", "gold", "silver"}, le.Classes())
	assert.Equal(t, []int{1, 2, 1, 0}, codes)
	assert.Equal(t, []int{0, 1, 2, 3}, kept)
}

func TestLabelEncoderRowOrderIndependence(t *testing.T) {
	a := dataframe.NewStringSeries("y", []string{"no", "yes", "yes", "no"})
	b := dataframe.NewStringSeries("y", []string{"yes", "no", "no", "yes"})

	var la, lb LabelEncoder
	require.NoError(t, la.Fit(a))
	require.NoError(t, lb.Fit(b))

	assert.Equal(t, la.Classes(), lb.Classes(),
		"mapping depends only on the distinct value set")
}

func TestLabelEncoderNumericColumn(t *testing.T) {
	// Numeric labels sort by value: 2 < 10, not "10" < "2".
	s := dataframe.NewFloat64Series("y", []float64{10, 2, 10})

	le := NewLabelEncoder()
	codes, _, err := le.FitTransform(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "10"}, le.Classes())
	assert.Equal(t, []int{1, 0, 1}, codes)
}

func TestLabelEncoderNullPolicies(t *testing.T) {
	s := dataframe.NewNullableStringSeries("y",
		[]string{"yes", "", "no", "yes"}, []bool{true, false, true, true})

	t.Run("fail on null by default", func(t *testing.T) {
		le := NewLabelEncoder()
		_, _, err := le.FitTransform(s)
		require.Error(t, err)

		var enc *errors.EncodingError
		require.True(t, errors.As(err, &enc))
		assert.Equal(t, "y", enc.Column)
		assert.Equal(t, 1, enc.Row)
	})

	t.Run("drop null rows", func(t *testing.T) {
		le := NewLabelEncoder(WithNullPolicy(DropNullRows))
		codes, kept, err := le.FitTransform(s)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 0, 1}, codes)
		assert.Equal(t, []int{0, 2, 3}, kept)
	})
}

func TestLabelEncoderUnseenValue(t *testing.T) {
	le := NewLabelEncoder()
	require.NoError(t, le.Fit(dataframe.NewStringSeries("y", []string{"a", "b"})))

	_, _, err := le.Transform(dataframe.NewStringSeries("y", []string{"a", "c"}))
	require.Error(t, err)
	var enc *errors.EncodingError
	require.True(t, errors.As(err, &enc))
	assert.Equal(t, 1, enc.Row)
}

func TestLabelEncoderNotFitted(t *testing.T) {
	le := NewLabelEncoder()
	_, _, err := le.Transform(dataframe.NewStringSeries("y", []string{"a"}))
	require.Error(t, err)
	var nf *errors.NotFittedError
	require.True(t, errors.As(err, &nf))
}
