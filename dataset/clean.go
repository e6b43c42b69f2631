package dataset

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"tabkit/cleaning"
)

// RemoveColumnsThreshold drops the columns whose fraction of missing values
// in the train frame exceeds threshold, from both frames.
func (d *Dataset) RemoveColumnsThreshold(threshold float64) error {
	dropped := cleaning.ColumnsOverThreshold(d.train, threshold)
	f, err := cleaning.RemoveColumnsThreshold(threshold, d.Frames())
	if err != nil {
		return err
	}
	d.setFrames(f)
	d.syncTarget()
	if len(dropped) == 0 {
		return nil
	}
	d.log.Debug("removed sparse columns", zap.Strings("columns", dropped), zap.Float64("threshold", threshold))
	return d.record(fmt.Sprintf("Removed columns with more than %g missing values: %s.",
		threshold, strings.Join(dropped, ", ")))
}

// RemoveRowsThreshold drops, in each frame, the rows whose fraction of
// missing values exceeds threshold.
func (d *Dataset) RemoveRowsThreshold(threshold float64) error {
	before := d.train.Nrow()
	f, err := cleaning.RemoveRowsThreshold(threshold, d.Frames())
	if err != nil {
		return err
	}
	d.setFrames(f)
	d.log.Debug("removed sparse rows", zap.Int("train_rows_removed", before-d.train.Nrow()))
	return nil
}

// RemoveDuplicateRows drops repeated rows, comparing columns (every column
// when empty), in each frame.
func (d *Dataset) RemoveDuplicateRows(columns ...string) error {
	before := d.train.Nrow()
	f, err := cleaning.RemoveDuplicateRows(columns, d.Frames())
	if err != nil {
		return err
	}
	d.setFrames(f)
	d.log.Debug("removed duplicate rows", zap.Int("train_rows_removed", before-d.train.Nrow()))
	return nil
}

// RemoveDuplicateColumns drops columns whose values repeat an earlier
// column. The train frame decides which columns go, so both frames keep the
// same columns.
func (d *Dataset) RemoveDuplicateColumns() error {
	if !d.hasTest {
		f, err := cleaning.RemoveDuplicateColumns(d.Frames())
		if err != nil {
			return err
		}
		dropped := cleaning.DuplicateColumns(d.train)
		d.setFrames(f)
		d.syncTarget()
		return d.recordDuplicates(dropped)
	}

	dropped := cleaning.DuplicateColumns(d.train)
	if len(dropped) == 0 {
		return nil
	}
	if err := d.replaceFrames(d.train.Drop(dropped), d.test.Drop(dropped)); err != nil {
		return errors.Wrap(err, "remove duplicate columns")
	}
	return d.recordDuplicates(dropped)
}

func (d *Dataset) recordDuplicates(dropped []string) error {
	if len(dropped) == 0 {
		return nil
	}
	d.log.Debug("removed duplicate columns", zap.Strings("columns", dropped))
	return d.record("Removed duplicate columns: " + strings.Join(dropped, ", ") + ".")
}
