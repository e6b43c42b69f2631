package analysis

import (
	"math"
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"tabkit/internal/frameutil"
)

// Column types reported by ColumnInfo.
const (
	TypeConstant    = "constant"
	TypeBool        = "bool"
	TypeNumeric     = "numeric"
	TypeUnique      = "unique"
	TypeCategorical = "categorical"
)

// Correlations whose magnitude is at least this are reported by
// DescribeColumn, at most topCorrelations of them.
const (
	correlationThreshold = 0.65
	topCorrelations      = 3
)

// ColumnInfo is the basic profile of one column.
type ColumnInfo struct {
	Column      string
	Counts      int
	Uniques     int
	Missing     int
	MissingPerc float64
	Type        string
}

// ColumnInfos profiles every column of df.
func ColumnInfos(df dataframe.DataFrame) []ColumnInfo {
	out := make([]ColumnInfo, 0, df.Ncol())
	for _, name := range df.Names() {
		out = append(out, columnInfo(df.Col(name)))
	}
	return out
}

func columnInfo(s series.Series) ColumnInfo {
	present := frameutil.Present(s)
	info := ColumnInfo{
		Column:  s.Name,
		Counts:  len(present),
		Uniques: nunique(s),
		Missing: s.Len() - len(present),
	}
	if s.Len() > 0 {
		info.MissingPerc = float64(info.Missing) / float64(s.Len())
	}
	switch {
	case info.Uniques == 1:
		info.Type = TypeConstant
	case s.Type() == series.Bool || info.Uniques == 2:
		info.Type = TypeBool
	case frameutil.IsNumeric(s.Type()):
		info.Type = TypeNumeric
	case info.Uniques == info.Counts:
		info.Type = TypeUnique
	default:
		info.Type = TypeCategorical
	}
	return info
}

// Describe returns one row per column of df with its profile and, for
// numeric columns, mean, std, min, quartiles and max.
func Describe(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := frameutil.Err(df); err != nil {
		return df, errors.Wrap(err, "describe")
	}
	infos := ColumnInfos(df)
	n := len(infos)
	var (
		column, typ                   = make([]string, n), make([]string, n)
		counts, uniques, missing      = make([]int, n), make([]int, n), make([]int, n)
		missingPerc                   = make([]float64, n)
		mean, std, min, q25, q50, q75 = nanSlice(n), nanSlice(n), nanSlice(n), nanSlice(n), nanSlice(n), nanSlice(n)
		max                           = nanSlice(n)
	)
	for i, info := range infos {
		column[i], typ[i] = info.Column, info.Type
		counts[i], uniques[i], missing[i] = info.Counts, info.Uniques, info.Missing
		missingPerc[i] = info.MissingPerc

		s := df.Col(info.Column)
		if !frameutil.IsNumeric(s.Type()) {
			continue
		}
		x := frameutil.Floats(s)
		if len(x) == 0 {
			continue
		}
		sorted := sortedCopy(x)
		mean[i] = stat.Mean(x, nil)
		if len(x) > 1 {
			std[i] = stat.StdDev(x, nil)
		}
		min[i], max[i] = sorted[0], sorted[len(sorted)-1]
		q25[i], q50[i], q75[i] = quantile(sorted, 0.25), quantile(sorted, 0.5), quantile(sorted, 0.75)
	}

	out := dataframe.New(
		series.New(column, series.String, "column"),
		series.New(typ, series.String, "type"),
		series.New(counts, series.Int, "counts"),
		series.New(uniques, series.Int, "uniques"),
		series.New(missing, series.Int, "missing"),
		series.New(missingPerc, series.Float, "missing_perc"),
		series.New(mean, series.Float, "mean"),
		series.New(std, series.Float, "std"),
		series.New(min, series.Float, "min"),
		series.New(q25, series.Float, "25%"),
		series.New(q50, series.Float, "50%"),
		series.New(q75, series.Float, "75%"),
		series.New(max, series.Float, "max"),
	)
	return out, errors.Wrap(out.Err, "describe")
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

// Correlation is the Pearson correlation of a column with another.
type Correlation struct {
	Column string
	Value  float64
}

// NumericStats are the statistics DescribeColumn reports for numeric columns.
type NumericStats struct {
	Std, Max, Min, Variance, Mean, Mode float64
	P5, P25, P50, P75, P95, IQR         float64
	Kurtosis, Skewness                  float64
	Sum, MAD, CV                        float64

	Zeros     int
	ZerosPerc float64
	// Values further than three standard deviations from the mean.
	DeviatingOfMean     int
	DeviatingOfMeanPerc float64
	// Values further than three mean absolute deviations from the median.
	DeviatingOfMedian     int
	DeviatingOfMedianPerc float64

	TopCorrelations []Correlation
}

// ColumnStats is the full description of one column.
type ColumnStats struct {
	ColumnInfo
	Numeric *NumericStats
}

// DescribeColumn profiles column of df. Numeric columns also get
// NumericStats, including their strongest correlations with the other
// numeric columns.
func DescribeColumn(df dataframe.DataFrame, column string) (ColumnStats, error) {
	if err := frameutil.Err(df); err != nil {
		return ColumnStats{}, errors.Wrap(err, "describe column")
	}
	if !frameutil.HasColumn(df, column) {
		return ColumnStats{}, errors.Wrapf(frameutil.ErrUnknownColumn, "%q", column)
	}
	s := df.Col(column)
	out := ColumnStats{ColumnInfo: columnInfo(s)}
	if !frameutil.IsNumeric(s.Type()) {
		return out, nil
	}
	x := frameutil.Floats(s)
	if len(x) == 0 {
		return out, nil
	}

	sorted := sortedCopy(x)
	n := float64(len(x))
	ns := &NumericStats{
		Max:      sorted[len(sorted)-1],
		Min:      sorted[0],
		Mean:     stat.Mean(x, nil),
		Std:      math.NaN(),
		Variance: math.NaN(),
		Skewness: math.NaN(),
		Kurtosis: math.NaN(),
		P5:       quantile(sorted, 0.05),
		P25:      quantile(sorted, 0.25),
		P50:      quantile(sorted, 0.5),
		P75:      quantile(sorted, 0.75),
		P95:      quantile(sorted, 0.95),
		MAD:      meanAbsDeviation(x),
	}
	if len(x) > 1 {
		ns.Std = stat.StdDev(x, nil)
		ns.Variance = stat.Variance(x, nil)
	}
	if len(x) > 2 {
		ns.Skewness = stat.Skew(x, nil)
	}
	if len(x) > 3 {
		ns.Kurtosis = stat.ExKurtosis(x, nil)
	}
	ns.IQR = ns.P75 - ns.P25
	ns.CV = ns.Std / ns.Mean
	if mode, ok := modeString(frameutil.Present(s), true); ok {
		ns.Mode, _ = strconv.ParseFloat(mode, 64)
	}
	for _, v := range x {
		ns.Sum += v
		if v == 0 {
			ns.Zeros++
		}
		if !math.IsNaN(ns.Std) && math.Abs(v-ns.Mean) > 3*ns.Std {
			ns.DeviatingOfMean++
		}
		if math.Abs(v-ns.P50) > 3*ns.MAD {
			ns.DeviatingOfMedian++
		}
	}
	ns.ZerosPerc = float64(ns.Zeros) / n
	ns.DeviatingOfMeanPerc = float64(ns.DeviatingOfMean) / n
	ns.DeviatingOfMedianPerc = float64(ns.DeviatingOfMedian) / n
	ns.TopCorrelations = topCorrelationsOf(df, column)
	out.Numeric = ns
	return out, nil
}

func topCorrelationsOf(df dataframe.DataFrame, column string) []Correlation {
	target := df.Col(column)
	var out []Correlation
	for _, name := range df.Names() {
		other := df.Col(name)
		if name == column || !frameutil.IsNumeric(other.Type()) {
			continue
		}
		var x, y []float64
		for i := 0; i < target.Len(); i++ {
			a, b := target.Elem(i), other.Elem(i)
			if a.IsNA() || b.IsNA() {
				continue
			}
			x = append(x, a.Float())
			y = append(y, b.Float())
		}
		if len(x) < 2 {
			continue
		}
		c := stat.Correlation(x, y, nil)
		if math.IsNaN(c) || math.Abs(c) < correlationThreshold {
			continue
		}
		out = append(out, Correlation{Column: name, Value: c})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Value) > math.Abs(out[j].Value)
	})
	if len(out) > topCorrelations {
		out = out[:topCorrelations]
	}
	return out
}
