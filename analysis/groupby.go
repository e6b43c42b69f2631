package analysis

import (
	"math"
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"tabkit/internal/frameutil"
)

// ErrNoGroups is returned when no grouping column is given.
var ErrNoGroups = errors.New("provide columns to group by")

// Statistic names produced by GroupByAnalysis, in output order.
var (
	NumericStatNames = []string{"count", "min", "max", "mean", "std", "var", "median", "most_common", "sum", "mad", "nunique"}
	OtherStatNames   = []string{"count", "most_common", "nunique"}
)

type group struct {
	key  string
	rows []int
}

// GroupByAnalysis groups df by the groupby columns and describes every other
// column of cols (all columns when empty) per group. Numeric columns get
// NumericStatNames, the rest OtherStatNames. The result has one row per group, sorted
// by group values, with the grouping columns first followed by one
// "<column>_<stat>" column per statistic. Rows with a missing grouping value
// are left out.
func GroupByAnalysis(df dataframe.DataFrame, groupby []string, cols []string) (dataframe.DataFrame, error) {
	if err := frameutil.Err(df); err != nil {
		return df, errors.Wrap(err, "groupby analysis")
	}
	if len(groupby) == 0 {
		return df, ErrNoGroups
	}
	groupIdx, err := frameutil.ColumnIndexes(df, groupby)
	if err != nil {
		return df, err
	}
	if len(cols) == 0 {
		cols = df.Names()
	} else if _, err := frameutil.ColumnIndexes(df, cols); err != nil {
		return df, err
	}

	groups := splitGroups(df, groupIdx)
	if len(groups) == 0 {
		return df, errors.New("groupby analysis: every row has a missing grouping value")
	}

	first := make([]int, len(groups))
	for i, g := range groups {
		first[i] = g.rows[0]
	}
	keys := df.Select(groupby).Subset(first)
	if keys.Err != nil {
		return df, errors.Wrap(keys.Err, "groupby analysis")
	}
	out := make([]series.Series, 0, len(groupby)+len(cols)*len(NumericStatNames))
	for _, name := range groupby {
		out = append(out, keys.Col(name))
	}

	isGroup := make(map[string]bool, len(groupby))
	for _, g := range groupby {
		isGroup[g] = true
	}
	for _, col := range cols {
		if isGroup[col] {
			continue
		}
		out = append(out, describeGroups(df.Col(col), groups)...)
	}

	res := dataframe.New(out...)
	if res.Err != nil {
		return res, errors.Wrap(res.Err, "groupby analysis")
	}
	return res, nil
}

// splitGroups collects row indexes per distinct key and orders the groups by
// their key values.
func splitGroups(df dataframe.DataFrame, cols []int) []group {
	index := make(map[string]int)
	var groups []group
rows:
	for r := 0; r < df.Nrow(); r++ {
		for _, c := range cols {
			if df.Elem(r, c).IsNA() {
				continue rows
			}
		}
		key := frameutil.RowKey(df, r, cols)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, group{key: key})
		}
		groups[i].rows = append(groups[i].rows, r)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].rows[0], groups[j].rows[0]
		for _, c := range cols {
			ea, eb := df.Elem(a, c), df.Elem(b, c)
			if ea.Eq(eb) {
				continue
			}
			return ea.Less(eb)
		}
		return false
	})
	return groups
}

func describeGroups(s series.Series, groups []group) []series.Series {
	numeric := frameutil.IsNumeric(s.Type())
	names := OtherStatNames
	if numeric {
		names = NumericStatNames
	}
	values := make(map[string][]float64, len(names))
	var common []string

	for _, g := range groups {
		sub := s.Subset(g.rows)
		x := frameutil.Floats(sub)
		present := frameutil.Present(sub)
		mode, ok := modeString(present, numeric)

		values["count"] = append(values["count"], float64(len(present)))
		values["nunique"] = append(values["nunique"], float64(nunique(sub)))
		if !numeric {
			if !ok {
				mode = "NaN"
			}
			common = append(common, mode)
			continue
		}
		modeVal := math.NaN()
		if ok {
			if f, err := strconv.ParseFloat(mode, 64); err == nil {
				modeVal = f
			}
		}
		values["min"] = append(values["min"], orNaN(stats.Min(x)))
		values["max"] = append(values["max"], orNaN(stats.Max(x)))
		values["mean"] = append(values["mean"], orNaN(stats.Mean(x)))
		values["std"] = append(values["std"], sampleStd(x))
		values["var"] = append(values["var"], sampleVar(x))
		values["median"] = append(values["median"], orNaN(stats.Median(x)))
		values["most_common"] = append(values["most_common"], modeVal)
		values["sum"] = append(values["sum"], sum(x))
		values["mad"] = append(values["mad"], meanAbsDeviation(x))
	}

	out := make([]series.Series, 0, len(names))
	for _, stat := range names {
		name := s.Name + "_" + stat
		switch {
		case stat == "count" || stat == "nunique":
			ints := make([]int, len(values[stat]))
			for i, v := range values[stat] {
				ints[i] = int(v)
			}
			out = append(out, series.New(ints, series.Int, name))
		case stat == "most_common" && !numeric:
			out = append(out, series.New(common, series.String, name))
		default:
			out = append(out, series.New(values[stat], series.Float, name))
		}
	}
	return out
}

// sum of an empty group is 0.
func sum(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return orNaN(stats.Sum(x))
}
