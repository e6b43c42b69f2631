package dataset

import (
	"reflect"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"tabkit/internal/frameutil"
)

// TrainTest assigns separate values to the train and test frames in Set.
type TrainTest struct {
	Train interface{}
	Test  interface{}
}

// Set assigns value to column in the train and test frames.
//
// A scalar (string, int, float64, bool) is broadcast to every row of both
// frames. A slice or series.Series is assigned to the frame whose row count
// equals its length, the train frame first. A TrainTest assigns each half to
// its frame. A column that ends up in only one frame is added to the other
// filled with missing values.
func (d *Dataset) Set(column string, value interface{}) error {
	if err := d.set(column, value); err != nil {
		return errors.Wrapf(err, "set %q", column)
	}
	d.log.Debug("set column", zap.String("column", column))
	return nil
}

func (d *Dataset) set(column string, value interface{}) error {
	if tt, ok := value.(TrainTest); ok {
		if !d.hasTest {
			return ErrNoTest
		}
		train, err := toSeries(column, tt.Train, d.train.Nrow())
		if err != nil {
			return errors.Wrap(err, "train")
		}
		test, err := toSeries(column, tt.Test, d.test.Nrow())
		if err != nil {
			return errors.Wrap(err, "test")
		}
		return d.mutate(&train, &test)
	}

	if isScalar(value) {
		train, err := toSeries(column, value, d.train.Nrow())
		if err != nil {
			return err
		}
		if !d.hasTest {
			return d.mutate(&train, nil)
		}
		test, err := toSeries(column, value, d.test.Nrow())
		if err != nil {
			return err
		}
		return d.mutate(&train, &test)
	}

	n, err := length(value)
	if err != nil {
		return err
	}
	switch {
	case n == d.train.Nrow():
		s, err := toSeries(column, value, n)
		if err != nil {
			return err
		}
		return d.mutate(&s, nil)
	case d.hasTest && n == d.test.Nrow():
		s, err := toSeries(column, value, n)
		if err != nil {
			return err
		}
		return d.mutate(nil, &s)
	}
	if d.hasTest {
		return errors.Wrapf(ErrLengthMismatch, "got %d values, train has %d rows and test %d",
			n, d.train.Nrow(), d.test.Nrow())
	}
	return errors.Wrapf(ErrLengthMismatch, "got %d values, train has %d rows", n, d.train.Nrow())
}

// mutate replaces or adds the given columns. A nil side keeps its column
// when it has one, otherwise it gets a missing column of the other side's
// type.
func (d *Dataset) mutate(train, test *series.Series) error {
	if d.hasTest {
		if train == nil && !frameutil.HasColumn(d.train, test.Name) {
			m := frameutil.Missing(test.Name, test.Type(), d.train.Nrow())
			train = &m
		}
		if test == nil && !frameutil.HasColumn(d.test, train.Name) {
			m := frameutil.Missing(train.Name, train.Type(), d.test.Nrow())
			test = &m
		}
	}

	newTrain, newTest := d.train, d.test
	if train != nil {
		newTrain = d.train.Mutate(*train)
		if newTrain.Err != nil {
			return errors.Wrap(newTrain.Err, "train")
		}
	}
	if test != nil {
		newTest = d.test.Mutate(*test)
		if newTest.Err != nil {
			return errors.Wrap(newTest.Err, "test")
		}
	}
	d.train, d.test = newTrain, newTest
	return nil
}

func isScalar(v interface{}) bool {
	switch v.(type) {
	case string, int, int64, float64, float32, bool:
		return true
	}
	return false
}

func length(v interface{}) (int, error) {
	if s, ok := v.(series.Series); ok {
		return s.Len(), nil
	}
	if v != nil && reflect.TypeOf(v).Kind() == reflect.Slice {
		return reflect.ValueOf(v).Len(), nil
	}
	return 0, errors.Wrapf(ErrUnsupportedValue, "%T", v)
}

// toSeries builds a column of n rows from a scalar, a typed slice or a
// series.
func toSeries(name string, v interface{}, n int) (series.Series, error) {
	if isScalar(v) {
		return broadcast(name, v, n), nil
	}
	l, err := length(v)
	if err != nil {
		return series.Series{}, err
	}
	if l != n {
		return series.Series{}, errors.Wrapf(ErrLengthMismatch, "got %d values for %d rows", l, n)
	}

	var s series.Series
	switch x := v.(type) {
	case series.Series:
		s = x.Copy()
		s.Name = name
	case []string:
		s = series.New(x, series.String, name)
	case []int:
		s = series.New(x, series.Int, name)
	case []float64:
		s = series.New(x, series.Float, name)
	case []bool:
		s = series.New(x, series.Bool, name)
	default:
		return series.Series{}, errors.Wrapf(ErrUnsupportedValue, "%T", v)
	}
	return s, errors.Wrap(s.Err, "build column")
}

func broadcast(name string, v interface{}, n int) series.Series {
	switch x := v.(type) {
	case string:
		vals := make([]string, n)
		for i := range vals {
			vals[i] = x
		}
		return series.New(vals, series.String, name)
	case int, int64:
		i := int(reflect.ValueOf(x).Int())
		vals := make([]int, n)
		for k := range vals {
			vals[k] = i
		}
		return series.New(vals, series.Int, name)
	case float64, float32:
		f := reflect.ValueOf(x).Float()
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = f
		}
		return series.New(vals, series.Float, name)
	}
	vals := make([]bool, n)
	b := v.(bool)
	for i := range vals {
		vals[i] = b
	}
	return series.New(vals, series.Bool, name)
}

// YTrain returns the target column of the train frame.
func (d *Dataset) YTrain() (series.Series, bool) {
	if d.target == "" {
		return series.Series{}, false
	}
	return d.train.Col(d.target), true
}

// YTest returns the target column of the test frame.
func (d *Dataset) YTest() (series.Series, bool) {
	if d.target == "" || !d.hasTest || !frameutil.HasColumn(d.test, d.target) {
		return series.Series{}, false
	}
	return d.test.Col(d.target), true
}

// DefaultTarget is the column created when a target is assigned before a
// target field is set.
const DefaultTarget = "label"

// SetYTrain assigns the train target. Without a target field a "label"
// column is created and becomes the target.
func (d *Dataset) SetYTrain(values interface{}) error {
	column := d.targetOrDefault()
	s, err := toSeries(column, values, d.train.Nrow())
	if err != nil {
		return errors.Wrap(err, "set train target")
	}
	if err := d.mutate(&s, nil); err != nil {
		return errors.Wrap(err, "set train target")
	}
	d.target = column
	return nil
}

// SetYTest assigns the test target. Without a target field a "label" column
// is created and becomes the target.
func (d *Dataset) SetYTest(values interface{}) error {
	if !d.hasTest {
		return ErrNoTest
	}
	column := d.targetOrDefault()
	s, err := toSeries(column, values, d.test.Nrow())
	if err != nil {
		return errors.Wrap(err, "set test target")
	}
	if err := d.mutate(nil, &s); err != nil {
		return errors.Wrap(err, "set test target")
	}
	d.target = column
	return nil
}

func (d *Dataset) targetOrDefault() string {
	if d.target != "" {
		return d.target
	}
	d.log.Info("added a target column", zap.String("column", DefaultTarget))
	return DefaultTarget
}

// replaceFrames swaps in new frames after checking their errors.
func (d *Dataset) replaceFrames(train, test dataframe.DataFrame) error {
	if err := frameutil.Err(train); err != nil {
		return errors.Wrap(err, "train")
	}
	if d.hasTest {
		if err := frameutil.Err(test); err != nil {
			return errors.Wrap(err, "test")
		}
		d.test = test
	}
	d.train = train
	d.syncTarget()
	return nil
}
