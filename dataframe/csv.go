package dataframe

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/YuminosukeSato/featpipe/pkg/errors"
)

// ReadCSV parses a header-first CSV stream into a frame, inferring each
// column's type: a column whose non-empty cells all parse as float64
// becomes Float64, one whose cells are all true/false becomes Bool, and
// anything else becomes String. Empty cells are null.
func ReadCSV(r io.Reader, comma rune) (*DataFrame, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	if len(records) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}

	header := records[0]
	rows := records[1:]

	cols := make([]*Series, len(header))
	for j, name := range header {
		cells := make([]string, len(rows))
		for i, rec := range rows {
			cells[i] = rec[j]
		}
		cols[j] = inferSeries(name, cells)
	}
	return New(cols...)
}

// ReadCSVFile reads a comma-separated file into a frame.
func ReadCSVFile(path string) (*DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open csv")
	}
	defer f.Close() //nolint:errcheck // read-only handle
	return ReadCSV(f, ',')
}

func inferSeries(name string, cells []string) *Series {
	valid := make([]bool, len(cells))
	isFloat, isBool := true, true
	for i, c := range cells {
		valid[i] = c != ""
		if !valid[i] {
			continue
		}
		if _, err := strconv.ParseFloat(c, 64); err != nil {
			isFloat = false
		}
		if c != "true" && c != "false" {
			isBool = false
		}
	}

	switch {
	case isFloat:
		floats := make([]float64, len(cells))
		for i, c := range cells {
			if valid[i] {
				floats[i], _ = strconv.ParseFloat(c, 64)
			}
		}
		return NewNullableFloat64Series(name, floats, valid)
	case isBool:
		bools := make([]bool, len(cells))
		for i, c := range cells {
			if valid[i] {
				bools[i] = c == "true"
			}
		}
		return NewNullableBoolSeries(name, bools, valid)
	default:
		strs := make([]string, len(cells))
		copy(strs, cells)
		return NewNullableStringSeries(name, strs, valid)
	}
}

// WriteCSV writes the frame with a header row. Null values are written as
// empty cells.
func (df *DataFrame) WriteCSV(w io.Writer, comma rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = comma

	if err := writer.Write(df.ColumnNames()); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	record := make([]string, df.NumCols())
	for i := 0; i < df.rows; i++ {
		for j, s := range df.cols {
			record[j] = s.ValueString(i)
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "flush csv")
}

// WriteCSVFile writes the frame to a file.
func (df *DataFrame) WriteCSVFile(path string, comma rune) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create csv")
	}
	if err := df.WriteCSV(f, comma); err != nil {
		f.Close() //nolint:errcheck,gosec // already failing
		return err
	}
	return errors.Wrap(f.Close(), "close csv")
}
