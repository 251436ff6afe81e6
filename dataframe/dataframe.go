// Package dataframe implements the in-memory columnar table the pipeline
// operates on: ordered, named, typed, nullable columns sharing one row
// count. Frames are immutable by convention; every transformation returns
// a new frame and no column is written to after it is published.
package dataframe

import (
	"github.com/YuminosukeSato/featpipe/pkg/errors"
)

// DataFrame is an ordered collection of equally-sized columns.
type DataFrame struct {
	cols   []*Series
	byName map[string]int
	rows   int
}

// New creates a frame from the given columns. Column names must be unique
// and every column must have the same length.
func New(cols ...*Series) (*DataFrame, error) {
	df := &DataFrame{byName: make(map[string]int, len(cols))}
	if len(cols) > 0 {
		df.rows = cols[0].Len()
	}
	for _, s := range cols {
		if _, dup := df.byName[s.Name()]; dup {
			return nil, errors.NewValueError("dataframe.New", "duplicate column name: "+s.Name())
		}
		if s.Len() != df.rows {
			return nil, errors.NewDimensionError("dataframe.New", df.rows, s.Len(), 0)
		}
		df.byName[s.Name()] = len(df.cols)
		df.cols = append(df.cols, s)
	}
	return df, nil
}

// NumRows returns the row count.
func (df *DataFrame) NumRows() int { return df.rows }

// NumCols returns the column count.
func (df *DataFrame) NumCols() int { return len(df.cols) }

// ColumnNames returns the column names in declaration order.
func (df *DataFrame) ColumnNames() []string {
	names := make([]string, len(df.cols))
	for i, s := range df.cols {
		names[i] = s.Name()
	}
	return names
}

// HasColumn reports whether a column with the given name exists.
func (df *DataFrame) HasColumn(name string) bool {
	_, ok := df.byName[name]
	return ok
}

// Column returns the named column, or a ColumnNotFoundError listing the
// available column names.
func (df *DataFrame) Column(name string) (*Series, error) {
	idx, ok := df.byName[name]
	if !ok {
		return nil, errors.NewColumnNotFoundError(name, df.ColumnNames())
	}
	return df.cols[idx], nil
}

// ColumnAt returns the column at position i.
func (df *DataFrame) ColumnAt(i int) *Series { return df.cols[i] }

// WithColumns returns a new frame consisting of this frame's columns
// followed by the given ones. The receiver is not modified. Appending to an
// empty frame adopts the row count of the first appended column.
func (df *DataFrame) WithColumns(cols ...*Series) (*DataFrame, error) {
	out := &DataFrame{
		cols:   append(append([]*Series(nil), df.cols...), cols...),
		byName: make(map[string]int, len(df.cols)+len(cols)),
		rows:   df.rows,
	}
	if len(df.cols) == 0 && len(cols) > 0 {
		out.rows = cols[0].Len()
	}
	for i, s := range out.cols {
		if _, dup := out.byName[s.Name()]; dup {
			return nil, errors.NewValueError("DataFrame.WithColumns", "duplicate column name: "+s.Name())
		}
		if s.Len() != out.rows {
			return nil, errors.NewDimensionError("DataFrame.WithColumns", out.rows, s.Len(), 0)
		}
		out.byName[s.Name()] = i
	}
	return out, nil
}

// Drop returns a new frame without the named column.
func (df *DataFrame) Drop(name string) (*DataFrame, error) {
	if !df.HasColumn(name) {
		return nil, errors.NewColumnNotFoundError(name, df.ColumnNames())
	}
	kept := make([]*Series, 0, len(df.cols)-1)
	for _, s := range df.cols {
		if s.Name() != name {
			kept = append(kept, s)
		}
	}
	return New(kept...)
}

// Select returns a new frame containing only the named columns, in the
// given order.
func (df *DataFrame) Select(names ...string) (*DataFrame, error) {
	cols := make([]*Series, 0, len(names))
	for _, name := range names {
		s, err := df.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, s)
	}
	return New(cols...)
}

// TakeRows returns a new frame containing the given rows, in order. Row
// data is copied; the result does not alias the receiver.
func (df *DataFrame) TakeRows(idx []int) (*DataFrame, error) {
	for _, i := range idx {
		if i < 0 || i >= df.rows {
			return nil, errors.NewValueError("DataFrame.TakeRows", "row index out of range")
		}
	}
	cols := make([]*Series, len(df.cols))
	for c, s := range df.cols {
		cols[c] = s.take(idx)
	}
	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	out.rows = len(idx)
	return out, nil
}
