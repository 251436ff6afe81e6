package feature

import (
	"github.com/YuminosukeSato/featpipe/dataframe"
	"github.com/YuminosukeSato/featpipe/pkg/errors"
)

// Mean broadcasts the per-group mean of Column to every row of the group.
// Null values are excluded from the mean; a group with no non-null values
// yields null.
type Mean struct {
	Name    string
	Column  string
	GroupBy []string
}

func (m Mean) FeatureName() string { return m.Name }
func (m Mean) Refs() []string      { return aggRefs(m.Column, m.GroupBy) }
func (m Mean) Compute(df *dataframe.DataFrame) ([]*dataframe.Series, error) {
	return aggregate(df, m.Name, m.Column, m.GroupBy, aggMean)
}

// Sum broadcasts the per-group sum of Column. Null values are excluded; a
// group with no non-null values sums to 0.
type Sum struct {
	Name    string
	Column  string
	GroupBy []string
}

func (s Sum) FeatureName() string { return s.Name }
func (s Sum) Refs() []string      { return aggRefs(s.Column, s.GroupBy) }
func (s Sum) Compute(df *dataframe.DataFrame) ([]*dataframe.Series, error) {
	return aggregate(df, s.Name, s.Column, s.GroupBy, aggSum)
}

// Max broadcasts the per-group maximum of Column. Null values are
// excluded; a group with no non-null values yields null.
type Max struct {
	Name    string
	Column  string
	GroupBy []string
}

func (m Max) FeatureName() string { return m.Name }
func (m Max) Refs() []string      { return aggRefs(m.Column, m.GroupBy) }
func (m Max) Compute(df *dataframe.DataFrame) ([]*dataframe.Series, error) {
	return aggregate(df, m.Name, m.Column, m.GroupBy, aggMax)
}

// Min broadcasts the per-group minimum of Column. Null values are
// excluded; a group with no non-null values yields null.
type Min struct {
	Name    string
	Column  string
	GroupBy []string
}

func (m Min) FeatureName() string { return m.Name }
func (m Min) Refs() []string      { return aggRefs(m.Column, m.GroupBy) }
func (m Min) Compute(df *dataframe.DataFrame) ([]*dataframe.Series, error) {
	return aggregate(df, m.Name, m.Column, m.GroupBy, aggMin)
}

// Count broadcasts the size of each group. Count counts rows, not values:
// null rows of Column are included. Use CountDistinct for null-aware
// counting.
type Count struct {
	Name    string
	Column  string
	GroupBy []string
}

func (c Count) FeatureName() string { return c.Name }
func (c Count) Refs() []string      { return aggRefs(c.Column, c.GroupBy) }
func (c Count) Compute(df *dataframe.DataFrame) ([]*dataframe.Series, error) {
	return aggregate(df, c.Name, c.Column, c.GroupBy, aggCount)
}

// CountDistinct broadcasts the number of unique non-null values of Column
// within each group.
type CountDistinct struct {
	Name    string
	Column  string
	GroupBy []string
}

func (c CountDistinct) FeatureName() string { return c.Name }
func (c CountDistinct) Refs() []string      { return aggRefs(c.Column, c.GroupBy) }
func (c CountDistinct) Compute(df *dataframe.DataFrame) ([]*dataframe.Series, error) {
	return aggregate(df, c.Name, c.Column, c.GroupBy, aggCountDistinct)
}

func aggRefs(column string, groupBy []string) []string {
	return append([]string{column}, groupBy...)
}

type aggKind int

const (
	aggMean aggKind = iota
	aggSum
	aggMax
	aggMin
	aggCount
	aggCountDistinct
)

// aggregate computes a windowed aggregation: one value per group,
// broadcast to every member row, so the output row count equals the input
// row count.
func aggregate(df *dataframe.DataFrame, name, column string, groupBy []string, kind aggKind) ([]*dataframe.Series, error) {
	if err := checkRefs(df, aggRefs(column, groupBy)); err != nil {
		return nil, err
	}
	src, err := df.Column(column)
	if err != nil {
		return nil, err
	}

	numeric := kind == aggMean || kind == aggSum || kind == aggMax || kind == aggMin
	if numeric && src.DType() != dataframe.Float64 {
		return nil, errors.NewComputationError(name, column,
			"aggregation requires a numeric column, got "+src.DType().String())
	}

	ids, numGroups, err := groupIDs(df, groupBy)
	if err != nil {
		return nil, err
	}

	rows := df.NumRows()
	groupValue := make([]float64, numGroups)
	groupValid := make([]bool, numGroups)

	switch kind {
	case aggCount:
		for i := 0; i < rows; i++ {
			groupValue[ids[i]]++
		}
		for g := range groupValid {
			groupValid[g] = true
		}

	case aggCountDistinct:
		sets := make([]map[string]struct{}, numGroups)
		for g := range sets {
			sets[g] = make(map[string]struct{})
		}
		for i := 0; i < rows; i++ {
			if src.IsNull(i) {
				continue
			}
			sets[ids[i]][src.ValueString(i)] = struct{}{}
		}
		for g, set := range sets {
			groupValue[g] = float64(len(set))
			groupValid[g] = true
		}

	default:
		sum := make([]float64, numGroups)
		count := make([]int, numGroups)
		for i := 0; i < rows; i++ {
			if src.IsNull(i) {
				continue
			}
			v := src.Float(i)
			g := ids[i]
			switch kind {
			case aggMean, aggSum:
				sum[g] += v
			case aggMax:
				if count[g] == 0 || v > sum[g] {
					sum[g] = v
				}
			case aggMin:
				if count[g] == 0 || v < sum[g] {
					sum[g] = v
				}
			}
			count[g]++
		}
		for g := 0; g < numGroups; g++ {
			switch kind {
			case aggMean:
				if count[g] > 0 {
					groupValue[g] = sum[g] / float64(count[g])
					groupValid[g] = true
				}
			case aggSum:
				// Sum over an all-null group is 0, not null.
				groupValue[g] = sum[g]
				groupValid[g] = true
			case aggMax, aggMin:
				if count[g] > 0 {
					groupValue[g] = sum[g]
					groupValid[g] = true
				}
			}
		}
	}

	out := make([]float64, rows)
	valid := make([]bool, rows)
	for i := 0; i < rows; i++ {
		out[i] = groupValue[ids[i]]
		valid[i] = groupValid[ids[i]]
	}
	return []*dataframe.Series{dataframe.NewNullableFloat64Series(Prefix+name, out, valid)}, nil
}
