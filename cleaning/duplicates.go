package cleaning

import (
	"github.com/go-gota/gota/dataframe"

	"tabkit/internal/frameutil"
)

// RemoveDuplicateRows keeps the first of every group of rows that hold the
// same values in columns, or in every column when columns is empty.
func RemoveDuplicateRows(columns []string, f Frames) (Frames, error) {
	if err := f.Validate(); err != nil {
		return f, err
	}
	return f.apply(func(df dataframe.DataFrame) (dataframe.DataFrame, error) {
		keep, err := UniqueRows(df, columns)
		if err != nil {
			return df, err
		}
		return df.Subset(keep), nil
	})
}

// UniqueRows returns the index of the first occurrence of every distinct row
// of df, compared over columns (all columns when empty).
func UniqueRows(df dataframe.DataFrame, columns []string) ([]int, error) {
	var cols []int
	if len(columns) == 0 {
		cols = make([]int, df.Ncol())
		for i := range cols {
			cols[i] = i
		}
	} else {
		var err error
		if cols, err = frameutil.ColumnIndexes(df, columns); err != nil {
			return nil, err
		}
	}

	seen := make(map[string]struct{}, df.Nrow())
	keep := make([]int, 0, df.Nrow())
	for r := 0; r < df.Nrow(); r++ {
		key := frameutil.RowKey(df, r, cols)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, r)
	}
	return keep, nil
}

// RemoveDuplicateColumns removes every column whose values are identical to
// an earlier column's. Every frame is checked independently.
func RemoveDuplicateColumns(f Frames) (Frames, error) {
	if err := f.Validate(); err != nil {
		return f, err
	}
	return f.apply(func(df dataframe.DataFrame) (dataframe.DataFrame, error) {
		dups := DuplicateColumns(df)
		if len(dups) == 0 {
			return df, nil
		}
		return df.Drop(dups), nil
	})
}

// DuplicateColumns lists the columns of df that repeat an earlier column.
func DuplicateColumns(df dataframe.DataFrame) []string {
	seen := make(map[string]struct{}, df.Ncol())
	var dups []string
	for _, name := range df.Names() {
		key := frameutil.ColumnKey(df.Col(name))
		if _, ok := seen[key]; ok {
			dups = append(dups, name)
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}
