package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/featpipe/dataframe"
	"github.com/YuminosukeSato/featpipe/pkg/errors"
)

func TestOneHotEncodeStringColumn(t *testing.T) {
	df := newFrame(t,
		dataframe.NewStringSeries("color", []string{"red", "blue", "red", "green"}),
	)

	cols, err := OneHotEncode{Name: "colors", Columns: []string{"color"}}.Compute(df)
	require.NoError(t, err)
	require.Len(t, cols, 3, "k distinct categories emit k columns")

	// Column order follows category sort order, not first-seen order.
	assert.Equal(t, Prefix+"color_blue", cols[0].Name())
	assert.Equal(t, Prefix+"color_green", cols[1].Name())
	assert.Equal(t, Prefix+"color_red", cols[2].Name())

	assert.Equal(t, []bool{false, true, false, false}, boolValues(t, cols[0]))
	assert.Equal(t, []bool{false, false, false, true}, boolValues(t, cols[1]))
	assert.Equal(t, []bool{true, false, true, false}, boolValues(t, cols[2]))
}

func TestOneHotEncodeDropFirst(t *testing.T) {
	df := newFrame(t,
		dataframe.NewStringSeries("color", []string{"red", "blue", "green"}),
	)

	cols, err := OneHotEncode{Name: "colors", Columns: []string{"color"}, DropFirst: true}.Compute(df)
	require.NoError(t, err)
	require.Len(t, cols, 2, "drop_first emits k-1 columns")
	assert.Equal(t, Prefix+"color_green", cols[0].Name())
	assert.Equal(t, Prefix+"color_red", cols[1].Name())
}

func TestOneHotEncodeNulls(t *testing.T) {
	src := dataframe.NewNullableStringSeries("color",
		[]string{"red", "", "blue"}, []bool{true, false, true})

	t.Run("null indicator by default", func(t *testing.T) {
		df := newFrame(t, src)
		cols, err := OneHotEncode{Name: "colors", Columns: []string{"color"}}.Compute(df)
		require.NoError(t, err)
		require.Len(t, cols, 3)
		assert.Equal(t, Prefix+"color_null", cols[2].Name())
		assert.Equal(t, []bool{false, true, false}, boolValues(t, cols[2]))
	})

	t.Run("drop_nulls leaves null rows all-zero", func(t *testing.T) {
		df := newFrame(t, src)
		cols, err := OneHotEncode{Name: "colors", Columns: []string{"color"}, DropNulls: true}.Compute(df)
		require.NoError(t, err)
		require.Len(t, cols, 2)
		for _, col := range cols {
			assert.False(t, col.Bool(1), "null row is zero in %s", col.Name())
		}
	})
}

func TestOneHotEncodeNumericColumn(t *testing.T) {
	df := newFrame(t,
		dataframe.NewFloat64Series("tier", []float64{10, 2, 10, 2.5}),
	)

	cols, err := OneHotEncode{Name: "tiers", Columns: []string{"tier"}}.Compute(df)
	require.NoError(t, err)
	require.Len(t, cols, 3)

	// Numeric categories sort ascending by value, not lexicographically.
	assert.Equal(t, Prefix+"tier_2", cols[0].Name())
	assert.Equal(t, Prefix+"tier_2.5", cols[1].Name())
	assert.Equal(t, Prefix+"tier_10", cols[2].Name())
}

func TestOneHotEncodeMultipleColumns(t *testing.T) {
	df := newFrame(t,
		dataframe.NewStringSeries("a", []string{"x", "y"}),
		dataframe.NewBoolSeries("b", []bool{true, false}),
	)

	cols, err := OneHotEncode{Name: "both", Columns: []string{"a", "b"}, Separator: "="}.Compute(df)
	require.NoError(t, err)
	require.Len(t, cols, 4)
	assert.Equal(t, Prefix+"a=x", cols[0].Name())
	assert.Equal(t, Prefix+"a=y", cols[1].Name())
	assert.Equal(t, Prefix+"b=false", cols[2].Name())
	assert.Equal(t, Prefix+"b=true", cols[3].Name())
}

func TestOneHotEncodeDerivedName(t *testing.T) {
	assert.Equal(t, "named", OneHotEncode{Name: "named", Columns: []string{"a"}}.FeatureName())
	assert.Equal(t, "ohe:a,b", OneHotEncode{Columns: []string{"a", "b"}}.FeatureName())
}

func TestOneHotEncodeErrors(t *testing.T) {
	df := newFrame(t, dataframe.NewStringSeries("a", []string{"x"}))

	_, err := OneHotEncode{Name: "o", Columns: nil}.Compute(df)
	var cfg *errors.ConfigurationError
	require.True(t, errors.As(err, &cfg))

	_, err = OneHotEncode{Name: "o", Columns: []string{"missing"}}.Compute(df)
	var notFound *errors.ColumnNotFoundError
	require.True(t, errors.As(err, &notFound))
}

func boolValues(t *testing.T, s *dataframe.Series) []bool {
	t.Helper()
	out := make([]bool, s.Len())
	for i := range out {
		require.False(t, s.IsNull(i))
		out[i] = s.Bool(i)
	}
	return out
}
