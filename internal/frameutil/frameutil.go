// Package frameutil holds the small gota helpers shared by the cleaning,
// analysis and dataset packages.
package frameutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
)

// ErrUnknownColumn is returned when a column name is not part of a frame.
var ErrUnknownColumn = errors.New("unknown column")

// Err lifts the error carried by a gota DataFrame.
func Err(df dataframe.DataFrame) error {
	return df.Error()
}

// IsNumeric reports whether a series type holds numbers.
func IsNumeric(t series.Type) bool {
	return t == series.Int || t == series.Float
}

// Canonical renders an element so that equal values compare equal across
// column types: 1 (int) and 1.0 (float) both become "1".
func Canonical(e series.Element) string {
	if e.IsNA() {
		return "NaN"
	}
	switch e.Type() {
	case series.Int:
		if i, err := e.Int(); err == nil {
			return strconv.Itoa(i)
		}
	case series.Float:
		return strconv.FormatFloat(e.Float(), 'f', -1, 64)
	}
	return e.String()
}

// Format renders an element for CSV output. Missing cells become empty.
func Format(e series.Element) string {
	if e.IsNA() {
		return ""
	}
	return Canonical(e)
}

// ColumnIndexes resolves column names to positions.
func ColumnIndexes(df dataframe.DataFrame, names []string) ([]int, error) {
	pos := make(map[string]int, df.Ncol())
	for i, n := range df.Names() {
		pos[n] = i
	}
	idx := make([]int, 0, len(names))
	for _, n := range names {
		i, ok := pos[n]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownColumn, "%q", n)
		}
		idx = append(idx, i)
	}
	return idx, nil
}

// HasColumn reports whether df has a column called name.
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// MissingCounts returns the number of missing cells of every column.
func MissingCounts(df dataframe.DataFrame) []int {
	nrow, ncol := df.Dims()
	counts := make([]int, ncol)
	for c := 0; c < ncol; c++ {
		for r := 0; r < nrow; r++ {
			if df.Elem(r, c).IsNA() {
				counts[c]++
			}
		}
	}
	return counts
}

// RowMissing returns the number of missing cells in row r.
func RowMissing(df dataframe.DataFrame, r int) int {
	n := 0
	for c := 0; c < df.Ncol(); c++ {
		if df.Elem(r, c).IsNA() {
			n++
		}
	}
	return n
}

// RowKey builds a key identifying the values of row r over cols.
func RowKey(df dataframe.DataFrame, r int, cols []int) string {
	var b strings.Builder
	for i, c := range cols {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(Canonical(df.Elem(r, c)))
	}
	return b.String()
}

// ColumnKey builds a key identifying the whole value sequence of column c.
func ColumnKey(s series.Series) string {
	var b strings.Builder
	for i := 0; i < s.Len(); i++ {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(Canonical(s.Elem(i)))
	}
	return b.String()
}

// Floats returns the non-missing values of a numeric series.
func Floats(s series.Series) []float64 {
	out := make([]float64, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		f := e.Float()
		if math.IsNaN(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Present returns the canonical form of every non-missing element of s.
func Present(s series.Series) []string {
	out := make([]string, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		if e := s.Elem(i); !e.IsNA() {
			out = append(out, Canonical(e))
		}
	}
	return out
}

// Records is like DataFrame.Records but keeps missing cells as "NaN" and
// numbers in canonical form, so the result reloads with the same types.
func Records(df dataframe.DataFrame) [][]string {
	nrow, ncol := df.Dims()
	records := make([][]string, 0, nrow+1)
	records = append(records, df.Names())
	for r := 0; r < nrow; r++ {
		row := make([]string, ncol)
		for c := 0; c < ncol; c++ {
			row[c] = Canonical(df.Elem(r, c))
		}
		records = append(records, row)
	}
	return records
}

// Types maps each column name to its series type.
func Types(df dataframe.DataFrame) map[string]series.Type {
	types := make(map[string]series.Type, df.Ncol())
	ts := df.Types()
	for i, n := range df.Names() {
		types[n] = ts[i]
	}
	return types
}

// CanonicalValue renders a Go value the way Canonical renders an element
// holding it, so user supplied values can be matched against cells.
func CanonicalValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "NaN"
	case series.Element:
		return Canonical(x)
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		if math.IsNaN(x) {
			return "NaN"
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return CanonicalValue(float64(x))
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

// Missing returns a column of n missing values.
func Missing(name string, t series.Type, n int) series.Series {
	vals := make([]string, n)
	for i := range vals {
		vals[i] = "NaN"
	}
	return series.New(vals, t, name)
}
