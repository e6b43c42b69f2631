// Package cleaning prunes and deduplicates frames, either a single full
// dataset or a train/test pair.
package cleaning

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/pkg/errors"

	"tabkit/internal/frameutil"
)

var (
	// ErrInvalidInput is returned when Frames holds neither a full dataset
	// nor a complete train/test pair, or holds both.
	ErrInvalidInput = errors.New("either data or train and test data must be provided, not both")
	// ErrThreshold is returned for thresholds outside [0, 1].
	ErrThreshold = errors.New("threshold must be between 0 and 1")
	// ErrNoColumnsLeft is returned when an operation would remove every
	// column, since a frame cannot hold zero columns.
	ErrNoColumnsLeft = errors.New("operation would remove every column")
)

// Frames is the input and output of every cleaning function. Either Data or
// both Train and Test are set.
type Frames struct {
	Data  *dataframe.DataFrame
	Train *dataframe.DataFrame
	Test  *dataframe.DataFrame
}

// Full wraps a single dataset.
func Full(df dataframe.DataFrame) Frames {
	return Frames{Data: &df}
}

// Pair wraps a train/test pair.
func Pair(train, test dataframe.DataFrame) Frames {
	return Frames{Train: &train, Test: &test}
}

// Validate checks that exactly one of the two input shapes is used.
func (f Frames) Validate() error {
	full := f.Data != nil && f.Train == nil && f.Test == nil
	pair := f.Data == nil && f.Train != nil && f.Test != nil
	if !full && !pair {
		return ErrInvalidInput
	}
	for _, df := range f.frames() {
		if err := frameutil.Err(*df); err != nil {
			return errors.Wrap(err, "cleaning input")
		}
	}
	return nil
}

// IsPair reports whether f holds a train/test pair.
func (f Frames) IsPair() bool {
	return f.Train != nil
}

// primary is the frame that decides column-level operations.
func (f Frames) primary() dataframe.DataFrame {
	if f.IsPair() {
		return *f.Train
	}
	return *f.Data
}

func (f Frames) frames() []*dataframe.DataFrame {
	var out []*dataframe.DataFrame
	for _, df := range []*dataframe.DataFrame{f.Data, f.Train, f.Test} {
		if df != nil {
			out = append(out, df)
		}
	}
	return out
}

// apply runs fn on every frame of f and returns the results in the same
// shape.
func (f Frames) apply(fn func(dataframe.DataFrame) (dataframe.DataFrame, error)) (Frames, error) {
	var out Frames
	for _, slot := range []struct {
		in  *dataframe.DataFrame
		out **dataframe.DataFrame
	}{
		{f.Data, &out.Data},
		{f.Train, &out.Train},
		{f.Test, &out.Test},
	} {
		if slot.in == nil {
			continue
		}
		df, err := fn(*slot.in)
		if err != nil {
			return f, err
		}
		if df.Err != nil {
			return f, errors.Wrap(df.Err, "cleaning")
		}
		*slot.out = &df
	}
	return out, nil
}

func checkThreshold(threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return errors.Wrapf(ErrThreshold, "got %v", threshold)
	}
	return nil
}
