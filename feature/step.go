// Package feature implements the declarative feature transformation engine:
// a closed set of column-producing step kinds and an engine that applies an
// ordered step sequence to a table under sequential or parallel execution
// strategies, with identical output regardless of strategy.
package feature

import (
	"strconv"
	"strings"

	"github.com/YuminosukeSato/featpipe/dataframe"
)

// Prefix is prepended to every derived column name.
const Prefix = "feature_"

// Step is one declarative transformation. The set of implementations is
// closed: Mean, Sum, Max, Min, Count, CountDistinct, Ratio, Threshold and
// OneHotEncode. A step is a pure function of the table it is given; it
// never mutates the table and never observes another step's output unless
// the engine has already merged it.
type Step interface {
	// FeatureName is the declared name, unique across a pipeline. Scalar
	// steps emit a single column named Prefix+FeatureName.
	FeatureName() string

	// Refs lists the columns the step reads.
	Refs() []string

	// Compute produces the step's output columns against df. The output
	// length always equals df.NumRows().
	Compute(df *dataframe.DataFrame) ([]*dataframe.Series, error)
}

// checkRefs verifies that every referenced column exists, in ref order.
func checkRefs(df *dataframe.DataFrame, refs []string) error {
	for _, ref := range refs {
		if _, err := df.Column(ref); err != nil {
			return err
		}
	}
	return nil
}

// groupIDs assigns each row a group identifier based on the values of the
// groupBy columns. An empty groupBy puts every row in group 0 (global
// aggregation). Null values form their own groups, distinct from any
// observed value. The identifier assignment depends only on row order, so
// repeated calls over the same table are deterministic.
func groupIDs(df *dataframe.DataFrame, groupBy []string) ([]int, int, error) {
	rows := df.NumRows()
	ids := make([]int, rows)
	if len(groupBy) == 0 {
		if rows == 0 {
			return ids, 0, nil
		}
		return ids, 1, nil
	}

	cols := make([]*dataframe.Series, len(groupBy))
	for j, name := range groupBy {
		s, err := df.Column(name)
		if err != nil {
			return nil, 0, err
		}
		cols[j] = s
	}

	seen := make(map[string]int)
	var key strings.Builder
	for i := 0; i < rows; i++ {
		key.Reset()
		for _, s := range cols {
			if s.IsNull(i) {
				key.WriteByte('n') // nulls group together, apart from any value
				continue
			}
			// Length-prefixed values keep the key unambiguous for arbitrary
			// value bytes: no marker byte or column boundary can be forged
			// by a value's own content.
			v := s.ValueString(i)
			key.WriteString(strconv.Itoa(len(v)))
			key.WriteByte(':')
			key.WriteString(v)
		}
		k := key.String()
		id, ok := seen[k]
		if !ok {
			id = len(seen)
			seen[k] = id
		}
		ids[i] = id
	}
	return ids, len(seen), nil
}
