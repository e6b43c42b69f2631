package dataset

import (
	"reflect"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"tabkit/analysis"
	"tabkit/internal/frameutil"
)

// ErrNoValues is returned by Search when no value is given.
var ErrNoValues = errors.New("provide values to search for")

// FrameMissing is the missing value summary of one frame.
type FrameMissing struct {
	Name    Which
	Columns []analysis.Missing
}

// MissingValues reports the columns with missing values in the train frame
// and, when present, the test frame. A frame without missing values has an
// empty Columns list.
func (d *Dataset) MissingValues() []FrameMissing {
	out := []FrameMissing{{Name: TrainSet, Columns: analysis.MissingSummary(d.train)}}
	if d.hasTest {
		out = append(out, FrameMissing{Name: TestSet, Columns: analysis.MissingSummary(d.test)})
	}
	return out
}

// SearchOptions refine Search.
type SearchOptions struct {
	// NotEqual matches cells that equal none of the values.
	NotEqual bool
	// Replace filters the dataset itself instead of returning a view.
	Replace bool
}

// Search looks for values in every cell.
//
// Without Replace it returns a copy of the train frame in which only the
// matching cells are kept, every other cell is missing, and rows without
// any matching cell are removed.
//
// With Replace it keeps the rows of both frames that have at least one cell
// equal to a value, or with NotEqual the rows that have none, and returns
// the new train frame.
func (d *Dataset) Search(values []interface{}, opts SearchOptions) (dataframe.DataFrame, error) {
	if len(values) == 0 {
		return d.train, ErrNoValues
	}
	want := make(map[string]bool, len(values))
	for _, v := range values {
		want[frameutil.CanonicalValue(v)] = true
	}
	match := func(e series.Element) bool {
		return !e.IsNA() && want[frameutil.Canonical(e)]
	}

	if !opts.Replace {
		out, err := maskCells(d.train, func(e series.Element) bool {
			return match(e) != opts.NotEqual
		})
		return out, errors.Wrap(err, "search")
	}

	keep := func(df dataframe.DataFrame) dataframe.DataFrame {
		var rows []int
		for r := 0; r < df.Nrow(); r++ {
			hit := false
			for c := 0; c < df.Ncol() && !hit; c++ {
				hit = match(df.Elem(r, c))
			}
			if hit != opts.NotEqual {
				rows = append(rows, r)
			}
		}
		return df.Subset(rows)
	}
	train := keep(d.train)
	test := d.test
	if d.hasTest {
		test = keep(d.test)
	}
	if err := d.replaceFrames(train, test); err != nil {
		return d.train, errors.Wrap(err, "search")
	}
	d.log.Debug("filtered rows by search", zap.Int("train_rows", d.train.Nrow()))
	return d.train, nil
}

// maskCells blanks every cell keep rejects and removes rows left entirely
// missing.
func maskCells(df dataframe.DataFrame, keep func(series.Element) bool) (dataframe.DataFrame, error) {
	nrow, ncol := df.Dims()
	cols := make([]series.Series, ncol)
	anyKept := make([]bool, nrow)
	for c, name := range df.Names() {
		s := df.Col(name)
		vals := make([]string, nrow)
		for r := 0; r < nrow; r++ {
			e := s.Elem(r)
			if e.IsNA() || !keep(e) {
				vals[r] = "NaN"
				continue
			}
			vals[r] = frameutil.Canonical(e)
			anyKept[r] = true
		}
		cols[c] = series.New(vals, s.Type(), name)
	}
	var rows []int
	for r, ok := range anyKept {
		if ok {
			rows = append(rows, r)
		}
	}
	out := dataframe.New(cols...).Subset(rows)
	return out, frameutil.Err(out)
}

// Where filters the train frame to the rows where every column in
// conditions equals its value. A slice value matches any of its elements.
// When columns are given only those are returned.
func (d *Dataset) Where(conditions map[string]interface{}, columns ...string) (dataframe.DataFrame, error) {
	names := make([]string, 0, len(conditions))
	for n := range conditions {
		names = append(names, n)
	}
	sort.Strings(names)
	if _, err := frameutil.ColumnIndexes(d.train, names); err != nil {
		return d.train, err
	}
	if _, err := frameutil.ColumnIndexes(d.train, columns); err != nil {
		return d.train, err
	}

	out := d.train.Copy()
	for _, n := range names {
		v := conditions[n]
		f := dataframe.F{Colname: n, Comparator: series.Eq, Comparando: v}
		if v != nil && reflect.TypeOf(v).Kind() == reflect.Slice {
			f.Comparator = series.In
		}
		out = out.Filter(f)
		if out.Err != nil {
			return d.train, errors.Wrapf(out.Err, "where %s", n)
		}
	}
	if len(columns) > 0 {
		out = out.Select(columns)
	}
	return out, errors.Wrap(frameutil.Err(out), "where")
}

// GroupBy groups the train frame by columns.
func (d *Dataset) GroupBy(columns ...string) (*dataframe.Groups, error) {
	if len(columns) == 0 {
		return nil, analysis.ErrNoGroups
	}
	if _, err := frameutil.ColumnIndexes(d.train, columns); err != nil {
		return nil, err
	}
	g := d.train.GroupBy(columns...)
	if g.Err != nil {
		return nil, errors.Wrap(g.Err, "groupby")
	}
	return g, nil
}

// GroupByAnalysis describes cols (every column when empty) per group of the
// groupby columns. data replaces the train frame when not nil, typically
// with the result of Where.
func (d *Dataset) GroupByAnalysis(groupby []string, cols []string, data *dataframe.DataFrame) (dataframe.DataFrame, error) {
	df := d.train
	if data != nil {
		df = *data
	}
	return analysis.GroupByAnalysis(df, groupby, cols)
}

// Describe summarises every column of the selected frame.
func (d *Dataset) Describe(which Which) (dataframe.DataFrame, error) {
	df, err := d.frame(which)
	if err != nil {
		return df, err
	}
	return analysis.Describe(df)
}

// ColumnInfo profiles every column of the selected frame.
func (d *Dataset) ColumnInfo(which Which) ([]analysis.ColumnInfo, error) {
	df, err := d.frame(which)
	if err != nil {
		return nil, err
	}
	return analysis.ColumnInfos(df), nil
}

// DescribeColumn reports detailed statistics of one column of the selected
// frame.
func (d *Dataset) DescribeColumn(column string, which Which) (analysis.ColumnStats, error) {
	df, err := d.frame(which)
	if err != nil {
		return analysis.ColumnStats{}, err
	}
	return analysis.DescribeColumn(df, column)
}
