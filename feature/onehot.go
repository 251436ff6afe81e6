package feature

import (
	"sort"
	"strings"

	"github.com/YuminosukeSato/featpipe/dataframe"
	"github.com/YuminosukeSato/featpipe/pkg/errors"
)

// DefaultSeparator joins a source column name and a category value in
// one-hot output column names.
const DefaultSeparator = "_"

// OneHotEncode expands each listed column into one boolean column per
// distinct observed category, named Prefix+<column><sep><category>.
// Category order is the value sort order (lexicographic for strings,
// ascending for numerics, false before true for bools), never input order,
// so output naming is deterministic.
//
// DropFirst omits the sort-order-first category of each source column.
// When DropNulls is false, columns containing nulls additionally emit a
// <column><sep>null indicator; when true, null rows are simply all-zero.
type OneHotEncode struct {
	Name      string
	Columns   []string
	DropFirst bool
	DropNulls bool
	Separator string // empty means DefaultSeparator
}

// FeatureName returns the declared name, or a name derived from the source
// columns when none was declared (the YAML form has no name field).
func (o OneHotEncode) FeatureName() string {
	if o.Name != "" {
		return o.Name
	}
	return "ohe:" + strings.Join(o.Columns, ",")
}

func (o OneHotEncode) Refs() []string { return append([]string(nil), o.Columns...) }

func (o OneHotEncode) sep() string {
	if o.Separator != "" {
		return o.Separator
	}
	return DefaultSeparator
}

func (o OneHotEncode) Compute(df *dataframe.DataFrame) ([]*dataframe.Series, error) {
	if len(o.Columns) == 0 {
		return nil, errors.NewConfigurationError("columns", "one-hot encoding requires at least one column", nil)
	}
	if err := checkRefs(df, o.Columns); err != nil {
		return nil, err
	}

	var out []*dataframe.Series
	for _, name := range o.Columns {
		src, err := df.Column(name)
		if err != nil {
			return nil, err
		}
		cols, err := o.encodeColumn(src)
		if err != nil {
			return nil, err
		}
		out = append(out, cols...)
	}
	return out, nil
}

func (o OneHotEncode) encodeColumn(src *dataframe.Series) ([]*dataframe.Series, error) {
	rows := src.Len()

	categories, hasNull := observedCategories(src)
	if o.DropFirst && len(categories) > 0 {
		categories = categories[1:]
	}

	var out []*dataframe.Series
	for _, cat := range categories {
		vals := make([]bool, rows)
		for i := 0; i < rows; i++ {
			vals[i] = !src.IsNull(i) && src.ValueString(i) == cat
		}
		out = append(out, dataframe.NewBoolSeries(Prefix+src.Name()+o.sep()+cat, vals))
	}

	if hasNull && !o.DropNulls {
		vals := make([]bool, rows)
		for i := 0; i < rows; i++ {
			vals[i] = src.IsNull(i)
		}
		out = append(out, dataframe.NewBoolSeries(Prefix+src.Name()+o.sep()+"null", vals))
	}
	return out, nil
}

// observedCategories returns the distinct non-null category values of a
// column in their deterministic sort order, and whether any null was seen.
func observedCategories(src *dataframe.Series) ([]string, bool) {
	hasNull := false

	if src.DType() == dataframe.Float64 {
		seen := make(map[float64]struct{})
		for i := 0; i < src.Len(); i++ {
			if src.IsNull(i) {
				hasNull = true
				continue
			}
			seen[src.Float(i)] = struct{}{}
		}
		nums := make([]float64, 0, len(seen))
		for v := range seen {
			nums = append(nums, v)
		}
		sort.Float64s(nums)
		cats := make([]string, len(nums))
		for k, v := range nums {
			cats[k] = dataframe.FormatFloat(v)
		}
		return cats, hasNull
	}

	seen := make(map[string]struct{})
	for i := 0; i < src.Len(); i++ {
		if src.IsNull(i) {
			hasNull = true
			continue
		}
		seen[src.ValueString(i)] = struct{}{}
	}
	cats := make([]string, 0, len(seen))
	for v := range seen {
		cats = append(cats, v)
	}
	sort.Strings(cats)
	return cats, hasNull
}
