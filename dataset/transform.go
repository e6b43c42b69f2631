package dataset

import (
	"encoding/json"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"tabkit/cleaning"
	"tabkit/internal/frameutil"
)

var (
	// ErrDuplicateColumn is returned when a rename would give two columns the
	// same name.
	ErrDuplicateColumn = errors.New("duplicate column name")
	// ErrUnseenLabel is returned by EncodeTarget when the test target has a
	// label the train target does not.
	ErrUnseenLabel = errors.New("test target has a label that is not in the train target")
	// ErrMissingTarget is returned by EncodeTarget for missing target values.
	ErrMissingTarget = errors.New("target has missing values")
)

var nonWord = regexp.MustCompile(`\W+`)

// StandardizeColumnNames lowercases every column name and replaces runs of
// non word characters with an underscore, in both frames and in the target
// field. The renames are available from ColumnMapping.
func (d *Dataset) StandardizeColumnNames() error {
	mapping := make(map[string]string)
	names := d.train.Names()
	if d.hasTest {
		names = append(names, d.test.Names()...)
	}
	for _, n := range names {
		mapping[n] = nonWord.ReplaceAllString(strings.ToLower(n), "_")
	}

	train, err := renameColumns(d.train, mapping)
	if err != nil {
		return errors.Wrap(err, "standardize train")
	}
	test := d.test
	if d.hasTest {
		if test, err = renameColumns(d.test, mapping); err != nil {
			return errors.Wrap(err, "standardize test")
		}
	}
	d.train, d.test = train, test
	d.colMapping = mapping
	if d.target != "" {
		d.target = mapping[d.target]
	}
	d.log.Debug("standardized column names", zap.Int("columns", len(mapping)))
	return nil
}

func renameColumns(df dataframe.DataFrame, mapping map[string]string) (dataframe.DataFrame, error) {
	names := df.Names()
	seen := make(map[string]bool, len(names))
	for i, n := range names {
		names[i] = mapping[n]
		if seen[names[i]] {
			return df, errors.Wrapf(ErrDuplicateColumn, "%q", names[i])
		}
		seen[names[i]] = true
	}
	out := df.Copy()
	if err := out.SetNames(names...); err != nil {
		return df, err
	}
	return out, nil
}

// ExpandJSONColumn replaces column, whose cells hold JSON objects, with one
// column per key. Nested objects are flattened with "_" between the keys.
// Both frames get the same columns, in the order the keys are first seen,
// and each key gets one type for both frames: Int or Float for numbers, Bool
// for booleans and String otherwise. Arrays keep their JSON text; null and
// keys a row lacks are missing. A key that names an existing column is
// rejected with ErrDuplicateColumn.
func (d *Dataset) ExpandJSONColumn(column string) error {
	if !frameutil.HasColumn(d.train, column) {
		return errors.Wrapf(frameutil.ErrUnknownColumn, "%q", column)
	}
	trainRows, keys, err := parseJSONColumn(d.train.Col(column), nil)
	if err != nil {
		return errors.Wrap(err, "expand train")
	}
	var testRows []map[string]interface{}
	if d.hasTest {
		if !frameutil.HasColumn(d.test, column) {
			return errors.Wrapf(frameutil.ErrUnknownColumn, "test %q", column)
		}
		if testRows, keys, err = parseJSONColumn(d.test.Col(column), keys); err != nil {
			return errors.Wrap(err, "expand test")
		}
	}
	for _, k := range keys {
		if k != column && (frameutil.HasColumn(d.train, k) || (d.hasTest && frameutil.HasColumn(d.test, k))) {
			return errors.Wrapf(ErrDuplicateColumn, "json key %q", k)
		}
	}
	types := keyTypes(keys, trainRows, testRows)

	train, err := expandInto(d.train, column, trainRows, keys, types)
	if err != nil {
		return errors.Wrap(err, "expand train")
	}
	test := d.test
	if d.hasTest {
		if test, err = expandInto(d.test, column, testRows, keys, types); err != nil {
			return errors.Wrap(err, "expand test")
		}
	}
	d.train, d.test = train, test
	d.syncTarget()
	d.log.Debug("expanded json column", zap.String("column", column), zap.Strings("keys", keys))
	return nil
}

// parseJSONColumn flattens every cell of s and appends unseen keys to keys.
// Leaf values are nil, string, float64 or bool.
func parseJSONColumn(s series.Series, keys []string) ([]map[string]interface{}, []string, error) {
	known := make(map[string]bool, len(keys))
	for _, k := range keys {
		known[k] = true
	}
	rows := make([]map[string]interface{}, s.Len())
	for i := range rows {
		row := make(map[string]interface{})
		rows[i] = row
		e := s.Elem(i)
		if e.IsNA() || strings.TrimSpace(e.String()) == "" {
			continue
		}
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(e.String()), &obj); err != nil {
			return nil, nil, errors.Wrapf(err, "row %d", i)
		}
		var order []string
		flatten("", obj, row, &order)
		for _, k := range order {
			if !known[k] {
				known[k] = true
				keys = append(keys, k)
			}
		}
	}
	return rows, keys, nil
}

// flatten writes the leaves of obj into row. Object keys are visited in
// sorted order since JSON decoding loses the document order.
func flatten(prefix string, obj map[string]interface{}, row map[string]interface{}, order *[]string) {
	names := make([]string, 0, len(obj))
	for k := range obj {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		key := k
		if prefix != "" {
			key = prefix + "_" + k
		}
		switch v := obj[k].(type) {
		case map[string]interface{}:
			flatten(key, v, row, order)
			continue
		case nil, string, float64, bool:
			row[key] = v
		default:
			b, _ := json.Marshal(v)
			row[key] = string(b)
		}
		*order = append(*order, key)
	}
}

// keyTypes picks the column type of every key from the values of both
// frames.
func keyTypes(keys []string, frames ...[]map[string]interface{}) map[string]series.Type {
	types := make(map[string]series.Type, len(keys))
	for _, k := range keys {
		var strs, nums, bools, fractional bool
		for _, rows := range frames {
			for _, row := range rows {
				switch v := row[k].(type) {
				case string:
					strs = true
				case bool:
					bools = true
				case float64:
					nums = true
					if v != math.Trunc(v) || math.Abs(v) > 1<<53 {
						fractional = true
					}
				}
			}
		}
		switch {
		case strs || (nums && bools) || (!nums && !bools):
			types[k] = series.String
		case bools:
			types[k] = series.Bool
		case fractional:
			types[k] = series.Float
		default:
			types[k] = series.Int
		}
	}
	return types
}

// jsonValue converts a leaf value for a column of type t. nil is missing.
func jsonValue(v interface{}, t series.Type) interface{} {
	switch x := v.(type) {
	case float64:
		switch t {
		case series.Int:
			return int(x)
		case series.String:
			return strconv.FormatFloat(x, 'f', -1, 64)
		}
	case bool:
		if t == series.String {
			return strconv.FormatBool(x)
		}
	}
	return v
}

func expandInto(df dataframe.DataFrame, column string, rows []map[string]interface{}, keys []string, types map[string]series.Type) (dataframe.DataFrame, error) {
	if len(keys) == 0 {
		out := df.Drop([]string{column})
		return out, out.Err
	}
	cols := make([]series.Series, len(keys))
	for i, k := range keys {
		vals := make([]interface{}, len(rows))
		for r, row := range rows {
			vals[r] = jsonValue(row[k], types[k])
		}
		cols[i] = series.New(vals, types[k], k)
		if cols[i].Err != nil {
			return df, cols[i].Err
		}
	}
	expanded := dataframe.New(cols...)
	if expanded.Err != nil {
		return df, expanded.Err
	}

	if df.Ncol() > 1 {
		rest := df.Drop([]string{column})
		if rest.Err != nil {
			return df, rest.Err
		}
		out := rest.CBind(expanded)
		return out, out.Err
	}
	return expanded, nil
}

// DropOptions refine Drop.
type DropOptions struct {
	// Keep lists columns that are never dropped.
	Keep []string
	// Regexp drops every column whose name it matches.
	Regexp string
	// Reason is recorded in the journal.
	Reason string
}

// Drop removes columns from both frames. The dropped set is columns plus
// the columns matching opts.Regexp, minus opts.Keep. When neither columns
// nor a matching regexp name anything, every column except opts.Keep is
// dropped. It returns the dropped columns. Dropping every column fails with
// cleaning.ErrNoColumnsLeft.
func (d *Dataset) Drop(columns []string, opts DropOptions) ([]string, error) {
	if _, err := frameutil.ColumnIndexes(d.train, columns); err != nil {
		return nil, err
	}
	named := make(map[string]bool, len(columns))
	for _, c := range columns {
		named[c] = true
	}
	if opts.Regexp != "" {
		re, err := regexp.Compile(opts.Regexp)
		if err != nil {
			return nil, errors.Wrap(err, "drop regexp")
		}
		for _, c := range d.train.Names() {
			if re.MatchString(c) {
				named[c] = true
			}
		}
	}
	keep := make(map[string]bool, len(opts.Keep))
	for _, c := range opts.Keep {
		keep[c] = true
	}

	var drop []string
	for _, c := range d.train.Names() {
		if keep[c] {
			continue
		}
		if len(named) == 0 || named[c] {
			drop = append(drop, c)
		}
	}
	if len(drop) == 0 {
		return nil, nil
	}
	if len(drop) == d.train.Ncol() {
		return nil, errors.Wrap(cleaning.ErrNoColumnsLeft, "drop")
	}

	train := d.train.Drop(drop)
	test := d.test
	if d.hasTest {
		test = d.test.Drop(drop)
	}
	if err := d.replaceFrames(train, test); err != nil {
		return nil, errors.Wrap(err, "drop")
	}
	d.log.Debug("dropped columns", zap.Strings("columns", drop))
	msg := "Dropped columns: " + strings.Join(drop, ", ") + ". " + opts.Reason
	return drop, d.record(msg)
}

// EncodeTarget label encodes the target field into 0..n-1, following the
// sorted distinct train labels, and applies the same codes to the test
// target. The mapping from code to label is kept in TargetMapping.
func (d *Dataset) EncodeTarget() error {
	if d.target == "" {
		return ErrNoTarget
	}
	y := d.train.Col(d.target)
	labels, err := distinctLabels(y)
	if err != nil {
		return errors.Wrap(err, "encode train target")
	}
	codes := make(map[string]int, len(labels))
	mapping := make(map[int]string, len(labels))
	for i, l := range labels {
		codes[l] = i
		mapping[i] = l
	}

	trainCodes, err := encode(y, codes)
	if err != nil {
		return errors.Wrap(err, "encode train target")
	}
	train := d.train.Mutate(series.New(trainCodes, series.Int, d.target))
	test := d.test
	if d.hasTest && frameutil.HasColumn(d.test, d.target) {
		testCodes, err := encode(d.test.Col(d.target), codes)
		if err != nil {
			return errors.Wrap(err, "encode test target")
		}
		test = d.test.Mutate(series.New(testCodes, series.Int, d.target))
	}
	if err := d.replaceFrames(train, test); err != nil {
		return errors.Wrap(err, "encode target")
	}
	d.targetMapping = mapping
	d.log.Debug("encoded target", zap.String("target", d.target), zap.Int("classes", len(labels)))
	return d.record("Encoded the target variable as numeric values.")
}

func distinctLabels(s series.Series) ([]string, error) {
	seen := make(map[string]bool)
	var labels []string
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			return nil, errors.Wrapf(ErrMissingTarget, "row %d", i)
		}
		l := frameutil.Canonical(e)
		if !seen[l] {
			seen[l] = true
			labels = append(labels, l)
		}
	}
	numeric := frameutil.IsNumeric(s.Type())
	sort.Slice(labels, func(i, j int) bool {
		if numeric {
			a, _ := strconv.ParseFloat(labels[i], 64)
			b, _ := strconv.ParseFloat(labels[j], 64)
			return a < b
		}
		return labels[i] < labels[j]
	})
	return labels, nil
}

func encode(s series.Series, codes map[string]int) ([]int, error) {
	out := make([]int, s.Len())
	for i := range out {
		e := s.Elem(i)
		if e.IsNA() {
			return nil, errors.Wrapf(ErrMissingTarget, "row %d", i)
		}
		code, ok := codes[frameutil.Canonical(e)]
		if !ok {
			return nil, errors.Wrapf(ErrUnseenLabel, "%q in row %d", frameutil.Canonical(e), i)
		}
		out[i] = code
	}
	return out, nil
}
