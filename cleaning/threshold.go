package cleaning

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/pkg/errors"

	"tabkit/internal/frameutil"
)

// RemoveColumnsThreshold removes the columns whose fraction of missing
// values exceeds threshold. With a train/test pair the fractions come from
// the training frame and the same columns are removed from both.
func RemoveColumnsThreshold(threshold float64, f Frames) (Frames, error) {
	if err := f.Validate(); err != nil {
		return f, err
	}
	if err := checkThreshold(threshold); err != nil {
		return f, err
	}

	base := f.primary()
	drop := ColumnsOverThreshold(base, threshold)
	if len(drop) == 0 {
		return f, nil
	}
	if len(drop) == base.Ncol() {
		return f, errors.Wrapf(ErrNoColumnsLeft, "every column has more than %v missing values", threshold)
	}
	return f.apply(func(df dataframe.DataFrame) (dataframe.DataFrame, error) {
		return df.Drop(drop), nil
	})
}

// ColumnsOverThreshold lists the columns of df whose fraction of missing
// values exceeds threshold.
func ColumnsOverThreshold(df dataframe.DataFrame, threshold float64) []string {
	nrow := df.Nrow()
	if nrow == 0 {
		return nil
	}
	var cols []string
	names := df.Names()
	for i, n := range frameutil.MissingCounts(df) {
		if float64(n)/float64(nrow) > threshold {
			cols = append(cols, names[i])
		}
	}
	return cols
}

// RemoveRowsThreshold removes the rows whose fraction of missing values
// exceeds threshold. Every frame is pruned independently.
func RemoveRowsThreshold(threshold float64, f Frames) (Frames, error) {
	if err := f.Validate(); err != nil {
		return f, err
	}
	if err := checkThreshold(threshold); err != nil {
		return f, err
	}
	return f.apply(func(df dataframe.DataFrame) (dataframe.DataFrame, error) {
		return df.Subset(RowsWithin(df, threshold)), nil
	})
}

// RowsWithin returns the indexes of the rows of df whose fraction of missing
// values does not exceed threshold.
func RowsWithin(df dataframe.DataFrame, threshold float64) []int {
	nrow, ncol := df.Dims()
	keep := make([]int, 0, nrow)
	for r := 0; r < nrow; r++ {
		if float64(frameutil.RowMissing(df, r))/float64(ncol) <= threshold {
			keep = append(keep, r)
		}
	}
	return keep
}
