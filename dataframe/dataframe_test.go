package dataframe

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/featpipe/pkg/errors"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		cols    []*Series
		wantErr bool
	}{
		{
			name: "valid frame",
			cols: []*Series{
				NewFloat64Series("a", []float64{1, 2}),
				NewStringSeries("b", []string{"x", "y"}),
			},
		},
		{
			name: "duplicate column name",
			cols: []*Series{
				NewFloat64Series("a", []float64{1}),
				NewFloat64Series("a", []float64{2}),
			},
			wantErr: true,
		},
		{
			name: "mismatched lengths",
			cols: []*Series{
				NewFloat64Series("a", []float64{1, 2}),
				NewFloat64Series("b", []float64{1}),
			},
			wantErr: true,
		},
		{
			name: "empty frame",
			cols: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			df, err := New(tt.cols...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.cols), df.NumCols())
		})
	}
}

func TestColumnNotFound(t *testing.T) {
	df, err := New(
		NewFloat64Series("age", []float64{30, 40}),
		NewStringSeries("city", []string{"Oslo", "Bergen"}),
	)
	require.NoError(t, err)

	_, err = df.Column("salary")
	require.Error(t, err)

	var notFound *errors.ColumnNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "salary", notFound.Column)
	assert.Equal(t, []string{"age", "city"}, notFound.Available)
}

func TestWithColumnsDoesNotMutateReceiver(t *testing.T) {
	df, err := New(NewFloat64Series("a", []float64{1, 2}))
	require.NoError(t, err)

	out, err := df.WithColumns(NewBoolSeries("b", []bool{true, false}))
	require.NoError(t, err)

	assert.Equal(t, 1, df.NumCols())
	assert.Equal(t, 2, out.NumCols())
	assert.Equal(t, []string{"a", "b"}, out.ColumnNames())

	_, err = out.WithColumns(NewFloat64Series("a", []float64{0, 0}))
	assert.Error(t, err, "duplicate name must be rejected")

	_, err = out.WithColumns(NewFloat64Series("c", []float64{1}))
	assert.Error(t, err, "row count mismatch must be rejected")
}

func TestTakeRows(t *testing.T) {
	df, err := New(
		NewNullableFloat64Series("v", []float64{1, 2, 3, 4}, []bool{true, false, true, true}),
		NewStringSeries("s", []string{"a", "b", "c", "d"}),
	)
	require.NoError(t, err)

	out, err := df.TakeRows([]int{3, 1})
	require.NoError(t, err)
	require.Equal(t, 2, out.NumRows())

	v, err := out.Column("v")
	require.NoError(t, err)
	assert.Equal(t, 4.0, v.Float(0))
	assert.True(t, v.IsNull(1))

	_, err = df.TakeRows([]int{7})
	assert.Error(t, err)
}

func TestSeriesEqual(t *testing.T) {
	a := NewNullableFloat64Series("x", []float64{1, 0}, []bool{true, false})
	b := NewNullableFloat64Series("x", []float64{1, 99}, []bool{true, false})
	c := NewNullableFloat64Series("x", []float64{1, 0}, []bool{true, true})

	assert.True(t, a.Equal(b), "null rows compare equal regardless of backing value")
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(a.Rename("y")))
}

func TestReadCSVTypeInference(t *testing.T) {
	in := strings.NewReader("num,flag,label\n1.5,true,yes\n,false,no\n2,true,\n")
	df, err := ReadCSV(in, ',')
	require.NoError(t, err)
	require.Equal(t, 3, df.NumRows())

	num, err := df.Column("num")
	require.NoError(t, err)
	assert.Equal(t, Float64, num.DType())
	assert.True(t, num.IsNull(1))
	assert.Equal(t, 1.5, num.Float(0))

	flag, err := df.Column("flag")
	require.NoError(t, err)
	assert.Equal(t, Bool, flag.DType())
	assert.False(t, flag.Bool(1))

	label, err := df.Column("label")
	require.NoError(t, err)
	assert.Equal(t, String, label.DType())
	assert.True(t, label.IsNull(2))
}

func TestWriteCSVRoundTrip(t *testing.T) {
	df, err := New(
		NewNullableFloat64Series("v", []float64{1.25, 0}, []bool{true, false}),
		NewStringSeries("s", []string{"a", "b"}),
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, df.WriteCSV(&buf, ';'))

	assert.Equal(t, "v;s\n1.25;a\n;b\n", buf.String())

	back, err := ReadCSV(bytes.NewReader(buf.Bytes()), ';')
	require.NoError(t, err)
	v, err := back.Column("v")
	require.NoError(t, err)
	assert.True(t, v.IsNull(1))
	assert.Equal(t, 1.25, v.Float(0))
}

func TestToMatrix(t *testing.T) {
	df, err := New(
		NewFloat64Series("a", []float64{1, 2}),
		NewBoolSeries("b", []bool{true, false}),
		NewStringSeries("c", []string{"x", "y"}),
	)
	require.NoError(t, err)

	m, err := df.ToMatrix("a", "b")
	require.NoError(t, err)
	rows, cols := m.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 1.0, m.At(0, 1), "bool converts to 0/1")
	assert.Equal(t, 0.0, m.At(1, 1))

	_, err = df.ToMatrix("c")
	assert.Error(t, err, "string column cannot convert")

	withNull, err := New(NewNullableFloat64Series("n", []float64{1, 0}, []bool{true, false}))
	require.NoError(t, err)
	_, err = withNull.ToMatrix()
	assert.Error(t, err, "null cell cannot convert")
}

func TestFillNull(t *testing.T) {
	s := NewNullableFloat64Series("v", []float64{3, 0}, []bool{true, false})
	filled, err := s.FillNull(0)
	require.NoError(t, err)
	assert.False(t, filled.IsNull(1))
	assert.Equal(t, 0.0, filled.Float(1))
	assert.Equal(t, 3.0, filled.Float(0))

	_, err = NewStringSeries("s", []string{"a"}).FillNull(0)
	assert.Error(t, err)
}
