package loader

import (
	"bytes"

	"github.com/go-gota/gota/dataframe"
	"github.com/pkg/errors"
	"github.com/tobgu/qframe"
)

// FromQFrame converts a qframe into a gota frame by way of CSV.
func FromQFrame(qf qframe.QFrame, opts ...Option) (dataframe.DataFrame, error) {
	if qf.Err != nil {
		return dataframe.DataFrame{}, errors.Wrap(qf.Err, "qframe")
	}
	var buf bytes.Buffer
	if err := qf.ToCSV(&buf); err != nil {
		return dataframe.DataFrame{}, errors.Wrap(err, "qframe to csv")
	}
	return ReadCSV(&buf, opts...)
}

// ToQFrame converts a gota frame into a qframe. Missing cells are written as
// empty fields, which qframe reads as null for numeric columns.
func ToQFrame(df dataframe.DataFrame) (qframe.QFrame, error) {
	if df.Err != nil {
		return qframe.QFrame{}, errors.Wrap(df.Err, "to qframe")
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, df); err != nil {
		return qframe.QFrame{}, err
	}
	qf := qframe.ReadCSV(&buf)
	if qf.Err != nil {
		return qf, errors.Wrap(qf.Err, "to qframe")
	}
	return qf, nil
}
