package loader

import (
	"bytes"
	"context"
	"encoding/csv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	dfgo "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/exports"
	"github.com/rocketlaunchr/dataframe-go/imports"

	"tabkit/internal/frameutil"
)

// FromDataFrameGo converts a dataframe-go frame into a gota frame. Nil values
// are exported as NaN and therefore load as missing.
func FromDataFrameGo(ctx context.Context, df *dfgo.DataFrame, opts ...Option) (dataframe.DataFrame, error) {
	if df == nil {
		return dataframe.DataFrame{}, errors.New("dataframe-go frame is nil")
	}
	var buf bytes.Buffer
	if err := exports.ExportToCSV(ctx, &buf, df); err != nil {
		return dataframe.DataFrame{}, errors.Wrap(err, "dataframe-go to csv")
	}
	return ReadCSV(&buf, opts...)
}

// ToDataFrameGo converts a gota frame into a dataframe-go frame, keeping
// numeric column types. Bool columns become int64 series of 0 and 1, which
// is how dataframe-go stores booleans.
func ToDataFrameGo(ctx context.Context, df dataframe.DataFrame) (*dfgo.DataFrame, error) {
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "to dataframe-go")
	}
	nilValue := "NaN"
	dictate := make(map[string]interface{}, df.Ncol())
	for name, t := range frameutil.Types(df) {
		switch t {
		case series.Int:
			dictate[name] = int64(0)
		case series.Float:
			dictate[name] = float64(0)
		case series.Bool:
			dictate[name] = false
		default:
			dictate[name] = ""
		}
	}

	var buf bytes.Buffer
	if err := csv.NewWriter(&buf).WriteAll(frameutil.Records(df)); err != nil {
		return nil, errors.Wrap(err, "to dataframe-go")
	}
	out, err := imports.LoadFromCSV(ctx, bytes.NewReader(buf.Bytes()), imports.CSVLoadOptions{
		DictateDataType: dictate,
		NilValue:        &nilValue,
	})
	if err != nil {
		return nil, errors.Wrap(err, "to dataframe-go")
	}
	return out, nil
}
